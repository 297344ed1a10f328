package entities

import (
	"errors"
	"time"
)

type Order struct {
	OrderUID        string
	TrackNumber     string
	Entry           string
	Locale          string
	InternalSig     string
	CustomerID      string
	DeliveryService string
	ShardKey        string
	SmID            int
	DateCreated     time.Time
	OofShard        string

	// Без указателей: у сохранённого заказа доставка и оплата есть всегда.
	Delivery Delivery
	Payment  Payment
	Items    []Item
}

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrOrderExists   = errors.New("order already exists")
	ErrInvalidOrder  = errors.New("invalid order")
)
