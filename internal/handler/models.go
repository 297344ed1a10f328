package handler

import (
	"time"

	"github.com/ivakhin/orderstore/internal/entities"
)

// Order - wire-представление заказа.
type Order struct {
	OrderUID        string    `json:"order_uid" validate:"required"`
	TrackNumber     string    `json:"track_number" validate:"required"`
	Entry           string    `json:"entry,omitempty"`
	Delivery        Delivery  `json:"delivery" validate:"required"`
	Payment         Payment   `json:"payment" validate:"required"`
	Items           []Item    `json:"items,omitempty" validate:"dive"`
	Locale          string    `json:"locale,omitempty"`
	InternalSig     string    `json:"internal_signature,omitempty"`
	CustomerID      string    `json:"customer_id,omitempty"`
	DeliveryService string    `json:"delivery_service,omitempty"`
	ShardKey        string    `json:"shardkey,omitempty"`
	SmID            int       `json:"sm_id,omitempty"`
	DateCreated     time.Time `json:"date_created"`
	OofShard        string    `json:"oof_shard,omitempty"`
}

type Delivery struct {
	Name    string `json:"name,omitempty" validate:"required"`
	Phone   string `json:"phone,omitempty"`
	ZIP     string `json:"zip,omitempty"`
	City    string `json:"city,omitempty"`
	Address string `json:"address,omitempty"`
	Region  string `json:"region,omitempty"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
}

type Payment struct {
	Transaction  string `json:"transaction,omitempty" validate:"required"`
	RequestID    string `json:"request_id,omitempty"`
	Currency     string `json:"currency,omitempty" validate:"required"`
	Provider     string `json:"provider,omitempty" validate:"required"`
	Amount       int    `json:"amount,omitempty" validate:"gte=0"`
	PaymentDT    int64  `json:"payment_dt,omitempty" validate:"required"`
	Bank         string `json:"bank,omitempty"`
	DeliveryCost int    `json:"delivery_cost,omitempty"`
	GoodsTotal   int    `json:"goods_total,omitempty"`
	CustomFee    int    `json:"custom_fee,omitempty"`
}

type Item struct {
	ChrtID      int64  `json:"chrt_id,omitempty" validate:"required"`
	TrackNumber string `json:"track_number,omitempty"`
	Price       int    `json:"price,omitempty"`
	RID         string `json:"rid,omitempty"`
	Name        string `json:"name,omitempty"`
	Sale        int    `json:"sale,omitempty"`
	Size        string `json:"size,omitempty"`
	TotalPrice  int    `json:"total_price,omitempty"`
	NmID        int    `json:"nm_id,omitempty"`
	Brand       string `json:"brand,omitempty"`
	Status      int    `json:"status,omitempty"`
}

func OrderEntityToJSON(o entities.Order) Order {
	items := make([]Item, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, Item{
			ChrtID:      it.ChrtID,
			TrackNumber: it.TrackNumber,
			Price:       it.Price,
			RID:         it.RID,
			Name:        it.Name,
			Sale:        it.Sale,
			Size:        it.Size,
			TotalPrice:  it.TotalPrice,
			NmID:        it.NmID,
			Brand:       it.Brand,
			Status:      it.Status,
		})
	}

	return Order{
		OrderUID:        o.OrderUID,
		TrackNumber:     o.TrackNumber,
		Entry:           o.Entry,
		Locale:          o.Locale,
		InternalSig:     o.InternalSig,
		CustomerID:      o.CustomerID,
		DeliveryService: o.DeliveryService,
		ShardKey:        o.ShardKey,
		SmID:            o.SmID,
		DateCreated:     o.DateCreated,
		OofShard:        o.OofShard,
		Delivery: Delivery{
			Name:    o.Delivery.Name,
			Phone:   o.Delivery.Phone,
			ZIP:     o.Delivery.ZIP,
			City:    o.Delivery.City,
			Address: o.Delivery.Address,
			Region:  o.Delivery.Region,
			Email:   o.Delivery.Email,
		},
		Payment: Payment{
			Transaction:  o.Payment.Transaction,
			RequestID:    o.Payment.RequestID,
			Currency:     o.Payment.Currency,
			Provider:     o.Payment.Provider,
			Amount:       o.Payment.Amount,
			PaymentDT:    o.Payment.PaymentDT.Unix(),
			Bank:         o.Payment.Bank,
			DeliveryCost: o.Payment.DeliveryCost,
			GoodsTotal:   o.Payment.GoodsTotal,
			CustomFee:    o.Payment.CustomFee,
		},
		Items: items,
	}
}

func OrderJSONToEntity(o Order) entities.Order {
	items := make([]entities.Item, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, entities.Item{
			ChrtID:      it.ChrtID,
			TrackNumber: it.TrackNumber,
			Price:       it.Price,
			RID:         it.RID,
			Name:        it.Name,
			Sale:        it.Sale,
			Size:        it.Size,
			TotalPrice:  it.TotalPrice,
			NmID:        it.NmID,
			Brand:       it.Brand,
			Status:      it.Status,
		})
	}

	return entities.Order{
		OrderUID:        o.OrderUID,
		TrackNumber:     o.TrackNumber,
		Entry:           o.Entry,
		Locale:          o.Locale,
		InternalSig:     o.InternalSig,
		CustomerID:      o.CustomerID,
		DeliveryService: o.DeliveryService,
		ShardKey:        o.ShardKey,
		SmID:            o.SmID,
		DateCreated:     o.DateCreated,
		OofShard:        o.OofShard,
		Delivery: entities.Delivery{
			Name:    o.Delivery.Name,
			Phone:   o.Delivery.Phone,
			ZIP:     o.Delivery.ZIP,
			City:    o.Delivery.City,
			Address: o.Delivery.Address,
			Region:  o.Delivery.Region,
			Email:   o.Delivery.Email,
		},
		Payment: entities.Payment{
			Transaction:  o.Payment.Transaction,
			RequestID:    o.Payment.RequestID,
			Currency:     o.Payment.Currency,
			Provider:     o.Payment.Provider,
			Amount:       o.Payment.Amount,
			PaymentDT:    time.Unix(o.Payment.PaymentDT, 0),
			Bank:         o.Payment.Bank,
			DeliveryCost: o.Payment.DeliveryCost,
			GoodsTotal:   o.Payment.GoodsTotal,
			CustomFee:    o.Payment.CustomFee,
		},
		Items: items,
	}
}
