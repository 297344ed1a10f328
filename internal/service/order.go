package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ivakhin/orderstore/internal/entities"
	"github.com/ivakhin/orderstore/pkg/trm"

	"golang.org/x/sync/errgroup"
)

type OrderRepo interface {
	GetOrderByID(ctx context.Context, orderUID string) (entities.Order, error)
	RecentOrderUIDs(ctx context.Context, limit int) ([]string, error)

	// Последовательность записи: доставка и оплата должны существовать до
	// строки заказа, товары - до связок order_uid -> chrt_id.
	InsertDelivery(ctx context.Context, d entities.Delivery) (int64, error)
	InsertPayment(ctx context.Context, p entities.Payment) error
	InsertOrder(ctx context.Context, o entities.Order, deliveryID int64) error
	InsertItems(ctx context.Context, orderUID string, items []entities.Item) error
}

type Cache interface {
	Get(orderUID string) (entities.Order, bool)
	Set(order entities.Order)
}

// orderService - единственный владелец кэша и подключения к БД.
// Запись сериализуется mu и выполняется в одной транзакции; чтение из кэша
// идёт без общей блокировки, кэш синхронизирован сам.
type orderService struct {
	logger    *slog.Logger
	txManager trm.Manager
	repo      OrderRepo
	cache     Cache

	mu sync.Mutex
}

func NewOrderService(logger *slog.Logger, txManager trm.Manager, repo OrderRepo, cache Cache) *orderService {
	return &orderService{
		logger:    logger.With(slog.String("service", "order")),
		txManager: txManager,
		repo:      repo,
		cache:     cache,
	}
}

// CreateOrder сохраняет заказ целиком и возвращает его обратно.
// Кэш обновляется только после commit-а: заказ с неудавшейся записью
// в кэше оказаться не должен.
func (s *orderService) CreateOrder(ctx context.Context, order entities.Order) (entities.Order, error) {
	if order.OrderUID == "" || order.Payment.Transaction == "" {
		return entities.Order{}, fmt.Errorf("%w: empty order_uid or transaction", entities.ErrInvalidOrder)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		deliveryID, err := s.repo.InsertDelivery(ctx, order.Delivery)
		if err != nil {
			return err
		}
		if err := s.repo.InsertPayment(ctx, order.Payment); err != nil {
			return err
		}
		if err := s.repo.InsertOrder(ctx, order, deliveryID); err != nil {
			return err
		}
		return s.repo.InsertItems(ctx, order.OrderUID, order.Items)
	})
	if err != nil {
		return entities.Order{}, err
	}

	s.cache.Set(order)
	s.logger.DebugContext(ctx, "order created", slog.String("order_uid", order.OrderUID))
	return order, nil
}

// GetOrderByID отдаёт заказ из кэша либо собирает его из БД и кэширует.
func (s *orderService) GetOrderByID(ctx context.Context, orderUID string) (entities.Order, error) {
	if order, ok := s.cache.Get(orderUID); ok {
		cacheHits.Inc()
		return order, nil
	}
	cacheMisses.Inc()

	order, err := s.repo.GetOrderByID(ctx, orderUID)
	if err != nil {
		return entities.Order{}, err
	}

	s.cache.Set(order)
	return order, nil
}

const warmUpConcurrency = 4

// WarmUpCache прогревает кэш последними заказами, ошибки отдельных заказов
// не фатальны.
func (s *orderService) WarmUpCache(ctx context.Context, count int) error {
	uids, err := s.repo.RecentOrderUIDs(ctx, count)
	if err != nil {
		return fmt.Errorf("failed to warm up cache: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(warmUpConcurrency)
	for _, uid := range uids {
		g.Go(func() error {
			if _, err := s.GetOrderByID(ctx, uid); err != nil {
				s.logger.Warn("failed to warm up order",
					slog.String("order_uid", uid), slog.Any("error", err))
			}
			return nil
		})
	}
	return g.Wait()
}
