package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ivakhin/orderstore/internal/entities"
	"github.com/ivakhin/orderstore/pkg/trm"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type postgresRepo struct {
	db *sqlx.DB
	qb sq.StatementBuilderType
}

func NewPostgresRepo(db *sqlx.DB) *postgresRepo {
	return &postgresRepo{
		db: db,
		qb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// InsertDelivery возвращает суррогатный delivery_id, на который потом
// ссылается строка заказа.
func (r *postgresRepo) InsertDelivery(ctx context.Context, d entities.Delivery) (int64, error) {
	query, args := r.qb.Insert("deliveries").
		Columns("name", "phone", "zip", "city", "address", "region", "email").
		Values(
			nullString(d.Name),
			nullString(d.Phone),
			nullString(d.ZIP),
			nullString(d.City),
			nullString(d.Address),
			nullString(d.Region),
			nullString(d.Email),
		).
		Suffix("RETURNING delivery_id").
		MustSql()

	var deliveryID int64
	if err := r.getContext(ctx, &deliveryID, query, args...); err != nil {
		return 0, fmt.Errorf("failed to insert delivery: %w", err)
	}
	return deliveryID, nil
}

func (r *postgresRepo) InsertPayment(ctx context.Context, p entities.Payment) error {
	query, args := r.qb.Insert("payments").
		Columns("transaction", "request_id", "currency", "provider", "amount",
			"payment_dt", "bank", "delivery_cost", "goods_total", "custom_fee").
		Values(
			p.Transaction, nullString(p.RequestID), p.Currency, p.Provider, p.Amount,
			p.PaymentDT, nullString(p.Bank), p.DeliveryCost, p.GoodsTotal, nullInt32(p.CustomFee),
		).
		MustSql()

	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert payment: %w", translateUniqueViolation(err))
	}
	return nil
}

func (r *postgresRepo) InsertOrder(ctx context.Context, o entities.Order, deliveryID int64) error {
	query, args := r.qb.Insert("orders").
		Columns(
			"order_uid", "track_number", "entry", "delivery_id", "payment_transaction",
			"locale", "internal_signature", "customer_id", "delivery_service",
			"shardkey", "sm_id", "date_created", "oof_shard",
		).
		Values(
			o.OrderUID, o.TrackNumber, nullString(o.Entry), deliveryID, o.Payment.Transaction,
			nullString(o.Locale), nullString(o.InternalSig), o.CustomerID, o.DeliveryService,
			nullString(o.ShardKey), o.SmID, o.DateCreated, nullString(o.OofShard),
		).
		MustSql()

	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert order: %w", translateUniqueViolation(err))
	}
	return nil
}

// InsertItems пишет сами товары (идемпотентно, товар может принадлежать
// нескольким заказам) и связки order_uid -> chrt_id.
func (r *postgresRepo) InsertItems(ctx context.Context, orderUID string, items []entities.Item) error {
	if len(items) == 0 {
		return nil
	}

	q := r.qb.Insert("items").
		Columns("chrt_id", "track_number", "price", "rid", "name", "sale",
			"size", "total_price", "nm_id", "brand", "status").
		Suffix("ON CONFLICT (chrt_id) DO NOTHING")

	for _, it := range items {
		q = q.Values(
			it.ChrtID,
			it.TrackNumber,
			it.Price,
			it.RID,
			it.Name,
			nullInt32(it.Sale),
			nullString(it.Size),
			it.TotalPrice,
			it.NmID,
			nullString(it.Brand),
			it.Status,
		)
	}

	query, args := q.MustSql()
	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert items: %w", err)
	}

	links := r.qb.Insert("order_items").
		Columns("order_uid", "chrt_id").
		Suffix("ON CONFLICT DO NOTHING")
	for _, it := range items {
		links = links.Values(orderUID, it.ChrtID)
	}

	query, args = links.MustSql()
	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert order items: %w", err)
	}
	return nil
}

func (r *postgresRepo) GetOrderByID(ctx context.Context, orderUID string) (entities.Order, error) {
	query, args := r.qb.Select(
		"o.order_uid", "o.track_number", "o.entry", "o.locale", "o.internal_signature",
		"o.customer_id", "o.delivery_service", "o.shardkey", "o.sm_id", "o.date_created", "o.oof_shard",
		"d.name AS delivery_name", "d.phone AS delivery_phone", "d.zip AS delivery_zip",
		"d.city AS delivery_city", "d.address AS delivery_address",
		"d.region AS delivery_region", "d.email AS delivery_email",
		"p.transaction", "p.request_id", "p.currency", "p.provider", "p.amount",
		"p.payment_dt", "p.bank", "p.delivery_cost", "p.goods_total", "p.custom_fee").
		From("orders o").
		Join("deliveries d ON o.delivery_id = d.delivery_id").
		Join("payments p ON o.payment_transaction = p.transaction").
		Where(sq.Eq{"o.order_uid": orderUID}).
		MustSql()

	var order orderRow
	err := r.getContext(ctx, &order, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Order{}, entities.ErrOrderNotFound
	}
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to get order: %w", err)
	}

	// Порядок строк у БД не гарантирован, сортируем по chrt_id.
	query, args = r.qb.Select(
		"i.chrt_id", "i.track_number", "i.price", "i.rid", "i.name", "i.sale",
		"i.size", "i.total_price", "i.nm_id", "i.brand", "i.status").
		From("items i").
		Join("order_items oi ON oi.chrt_id = i.chrt_id").
		Where(sq.Eq{"oi.order_uid": orderUID}).
		OrderBy("i.chrt_id").
		MustSql()

	var items []itemRow
	if err := r.selectContext(ctx, &items, query, args...); err != nil {
		return entities.Order{}, fmt.Errorf("failed to get items: %w", err)
	}

	return orderToEntity(order, items), nil
}

// RecentOrderUIDs отдаёт идентификаторы последних заказов для прогрева кэша.
func (r *postgresRepo) RecentOrderUIDs(ctx context.Context, limit int) ([]string, error) {
	query, args := r.qb.Select("order_uid").
		From("orders").
		OrderBy("date_created DESC").
		Limit(uint64(limit)).
		MustSql()

	var uids []string
	if err := r.selectContext(ctx, &uids, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select recent orders: %w", err)
	}
	return uids, nil
}

const uniqueViolation = "23505"

// Нарушение уникальности в последовательности записи означает повторный
// order_uid или transaction, для вызывающего это "заказ уже существует".
func translateUniqueViolation(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", entities.ErrOrderExists, pqErr.Constraint)
	}
	return err
}

func (r *postgresRepo) execContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if tx := trm.ExtractTx(ctx); tx != nil {
		return tx.ExecContext(ctx, query, args...)
	}
	return r.db.ExecContext(ctx, query, args...)
}

func (r *postgresRepo) getContext(ctx context.Context, dest any, query string, args ...any) error {
	if tx := trm.ExtractTx(ctx); tx != nil {
		return tx.GetContext(ctx, dest, query, args...)
	}
	return r.db.GetContext(ctx, dest, query, args...)
}

func (r *postgresRepo) selectContext(ctx context.Context, dest any, query string, args ...any) error {
	if tx := trm.ExtractTx(ctx); tx != nil {
		return tx.SelectContext(ctx, dest, query, args...)
	}
	return r.db.SelectContext(ctx, dest, query, args...)
}
