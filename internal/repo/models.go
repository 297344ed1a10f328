package repo

import (
	"database/sql"
	"time"

	"github.com/ivakhin/orderstore/internal/entities"
)

// orderRow - результат join-а orders + deliveries + payments.
// Колонки доставки алиасятся, чтобы не пересекаться с заказом.
type orderRow struct {
	OrderUID          string         `db:"order_uid"`
	TrackNumber       string         `db:"track_number"`
	Entry             sql.NullString `db:"entry"`
	Locale            sql.NullString `db:"locale"`
	InternalSignature sql.NullString `db:"internal_signature"`
	CustomerID        string         `db:"customer_id"`
	DeliveryService   string         `db:"delivery_service"`
	ShardKey          sql.NullString `db:"shardkey"`
	SmID              int            `db:"sm_id"`
	DateCreated       time.Time      `db:"date_created"`
	OofShard          sql.NullString `db:"oof_shard"`

	DeliveryName    sql.NullString `db:"delivery_name"`
	DeliveryPhone   sql.NullString `db:"delivery_phone"`
	DeliveryZip     sql.NullString `db:"delivery_zip"`
	DeliveryCity    sql.NullString `db:"delivery_city"`
	DeliveryAddress sql.NullString `db:"delivery_address"`
	DeliveryRegion  sql.NullString `db:"delivery_region"`
	DeliveryEmail   sql.NullString `db:"delivery_email"`

	Transaction  string         `db:"transaction"`
	RequestID    sql.NullString `db:"request_id"`
	Currency     string         `db:"currency"`
	Provider     string         `db:"provider"`
	Amount       int            `db:"amount"`
	PaymentDT    time.Time      `db:"payment_dt"`
	Bank         sql.NullString `db:"bank"`
	DeliveryCost int            `db:"delivery_cost"`
	GoodsTotal   int            `db:"goods_total"`
	CustomFee    sql.NullInt32  `db:"custom_fee"`
}

type itemRow struct {
	ChrtID      int64          `db:"chrt_id"`
	TrackNumber string         `db:"track_number"`
	Price       int            `db:"price"`
	RID         string         `db:"rid"`
	Name        string         `db:"name"`
	Sale        sql.NullInt32  `db:"sale"`
	Size        sql.NullString `db:"size"`
	TotalPrice  int            `db:"total_price"`
	NmID        int            `db:"nm_id"`
	Brand       sql.NullString `db:"brand"`
	Status      int            `db:"status"`
}

func itemToEntity(i itemRow) entities.Item {
	return entities.Item{
		ChrtID:      i.ChrtID,
		TrackNumber: i.TrackNumber,
		Price:       i.Price,
		RID:         i.RID,
		Name:        i.Name,
		Sale:        nullInt32ToInt(i.Sale),
		Size:        nullStringToString(i.Size),
		TotalPrice:  i.TotalPrice,
		NmID:        i.NmID,
		Brand:       nullStringToString(i.Brand),
		Status:      i.Status,
	}
}

func orderToEntity(o orderRow, items []itemRow) entities.Order {
	order := entities.Order{
		OrderUID:        o.OrderUID,
		TrackNumber:     o.TrackNumber,
		Entry:           nullStringToString(o.Entry),
		Locale:          nullStringToString(o.Locale),
		InternalSig:     nullStringToString(o.InternalSignature),
		CustomerID:      o.CustomerID,
		DeliveryService: o.DeliveryService,
		ShardKey:        nullStringToString(o.ShardKey),
		SmID:            o.SmID,
		DateCreated:     o.DateCreated,
		OofShard:        nullStringToString(o.OofShard),
		Delivery: entities.Delivery{
			Name:    nullStringToString(o.DeliveryName),
			Phone:   nullStringToString(o.DeliveryPhone),
			ZIP:     nullStringToString(o.DeliveryZip),
			City:    nullStringToString(o.DeliveryCity),
			Address: nullStringToString(o.DeliveryAddress),
			Region:  nullStringToString(o.DeliveryRegion),
			Email:   nullStringToString(o.DeliveryEmail),
		},
		Payment: entities.Payment{
			Transaction:  o.Transaction,
			RequestID:    nullStringToString(o.RequestID),
			Currency:     o.Currency,
			Provider:     o.Provider,
			Amount:       o.Amount,
			PaymentDT:    o.PaymentDT,
			Bank:         nullStringToString(o.Bank),
			DeliveryCost: o.DeliveryCost,
			GoodsTotal:   o.GoodsTotal,
			CustomFee:    nullInt32ToInt(o.CustomFee),
		},
	}

	if len(items) > 0 {
		order.Items = make([]entities.Item, 0, len(items))
		for _, it := range items {
			order.Items = append(order.Items, itemToEntity(it))
		}
	}

	return order
}

func nullStringToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func nullInt32ToInt(ni sql.NullInt32) int {
	if ni.Valid {
		return int(ni.Int32)
	}
	return 0
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt32(i int) sql.NullInt32 {
	if i == 0 {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(i), Valid: true}
}
