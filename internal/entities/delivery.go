package entities

type Delivery struct {
	Name    string
	Phone   string
	ZIP     string
	City    string
	Address string
	Region  string
	Email   string
}
