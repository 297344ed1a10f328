package service_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/ivakhin/orderstore/internal/cache"
	"github.com/ivakhin/orderstore/internal/entities"
	"github.com/ivakhin/orderstore/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// stubRepo имитирует шлюз персистентности и считает обращения к БД,
// чтобы проверять, что попадания в кэш до неё не доходят.
type stubRepo struct {
	mu          sync.Mutex
	deliverySeq int64
	orders      map[string]entities.Order
	payments    map[string]bool
	recent      []string

	getCalls int

	insertDeliveryErr error
	insertPaymentErr  error
	insertOrderErr    error
	insertItemsErr    error
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		orders:   make(map[string]entities.Order),
		payments: make(map[string]bool),
	}
}

func (r *stubRepo) InsertDelivery(_ context.Context, _ entities.Delivery) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertDeliveryErr != nil {
		return 0, r.insertDeliveryErr
	}
	r.deliverySeq++
	return r.deliverySeq, nil
}

func (r *stubRepo) InsertPayment(_ context.Context, p entities.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertPaymentErr != nil {
		return r.insertPaymentErr
	}
	if r.payments[p.Transaction] {
		return fmt.Errorf("failed to insert payment: %w", entities.ErrOrderExists)
	}
	r.payments[p.Transaction] = true
	return nil
}

func (r *stubRepo) InsertOrder(_ context.Context, o entities.Order, _ int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertOrderErr != nil {
		return r.insertOrderErr
	}
	if _, ok := r.orders[o.OrderUID]; ok {
		return fmt.Errorf("failed to insert order: %w", entities.ErrOrderExists)
	}
	o.Items = nil
	r.orders[o.OrderUID] = o
	return nil
}

func (r *stubRepo) InsertItems(_ context.Context, orderUID string, items []entities.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertItemsErr != nil {
		return r.insertItemsErr
	}
	o := r.orders[orderUID]
	o.Items = append(o.Items, items...)
	sort.Slice(o.Items, func(i, j int) bool { return o.Items[i].ChrtID < o.Items[j].ChrtID })
	r.orders[orderUID] = o
	return nil
}

func (r *stubRepo) GetOrderByID(_ context.Context, orderUID string) (entities.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getCalls++
	o, ok := r.orders[orderUID]
	if !ok {
		return entities.Order{}, entities.ErrOrderNotFound
	}
	return o, nil
}

func (r *stubRepo) RecentOrderUIDs(_ context.Context, limit int) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.recent) > limit {
		return r.recent[:limit], nil
	}
	return r.recent, nil
}

func (r *stubRepo) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getCalls
}

type stubTxManager struct{}

func (stubTxManager) Do(ctx context.Context, cb func(ctx context.Context) error) error {
	return cb(ctx)
}

type orderStore interface {
	CreateOrder(ctx context.Context, order entities.Order) (entities.Order, error)
	GetOrderByID(ctx context.Context, orderUID string) (entities.Order, error)
	WarmUpCache(ctx context.Context, count int) error
}

func newService(t *testing.T, repo *stubRepo, capacity int) (*cache.OrderCache, orderStore) {
	t.Helper()
	c, err := cache.New(capacity)
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return c, service.NewOrderService(logger, stubTxManager{}, repo, c)
}

func validOrder(uid string) entities.Order {
	return entities.Order{
		OrderUID:        uid,
		TrackNumber:     "WBILMTESTTRACK",
		Entry:           "WBIL",
		Locale:          "en",
		CustomerID:      "customer-" + uid,
		DeliveryService: "meest",
		ShardKey:        "9",
		SmID:            99,
		DateCreated:     time.Date(2021, 11, 26, 6, 22, 19, 0, time.UTC),
		OofShard:        "1",
		Delivery: entities.Delivery{
			Name:    "Test Testov",
			Phone:   "+9720000000",
			ZIP:     "2639809",
			City:    "Kiryat Mozkin",
			Address: "Ploshad Mira 15",
			Region:  "Kraiot",
			Email:   "test@gmail.com",
		},
		Payment: entities.Payment{
			Transaction:  uid,
			Currency:     "USD",
			Provider:     "wbpay",
			Amount:       1817,
			PaymentDT:    time.Unix(1637907727, 0),
			Bank:         "alpha",
			DeliveryCost: 1500,
			GoodsTotal:   317,
		},
		Items: []entities.Item{{
			ChrtID:      9934930,
			TrackNumber: "WBILMTESTTRACK",
			Price:       453,
			RID:         "ab4219087a764ae0btest",
			Name:        "Mascaras",
			Sale:        30,
			Size:        "0",
			TotalPrice:  317,
			NmID:        2389212,
			Brand:       "Vivienne Sabo",
			Status:      202,
		}},
	}
}

func TestOrderService_CreateOrder(t *testing.T) {
	dbErr := errors.New("db error")

	testCases := []struct {
		name    string
		order   entities.Order
		prepare func(repo *stubRepo)
		wantErr error
	}{
		{
			name:  "OK",
			order: validOrder("uid-1"),
		},
		{
			name:    "empty order_uid",
			order:   entities.Order{Payment: entities.Payment{Transaction: "tx"}},
			wantErr: entities.ErrInvalidOrder,
		},
		{
			name:    "empty transaction",
			order:   entities.Order{OrderUID: "uid-2"},
			wantErr: entities.ErrInvalidOrder,
		},
		{
			name:  "delivery insert fails",
			order: validOrder("uid-3"),
			prepare: func(repo *stubRepo) {
				repo.insertDeliveryErr = dbErr
			},
			wantErr: dbErr,
		},
		{
			name:  "payment insert fails",
			order: validOrder("uid-4"),
			prepare: func(repo *stubRepo) {
				repo.insertPaymentErr = dbErr
			},
			wantErr: dbErr,
		},
		{
			name:  "items insert fails",
			order: validOrder("uid-5"),
			prepare: func(repo *stubRepo) {
				repo.insertItemsErr = dbErr
			},
			wantErr: dbErr,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newStubRepo()
			if tc.prepare != nil {
				tc.prepare(repo)
			}
			orderCache, svc := newService(t, repo, 8)

			created, err := svc.CreateOrder(context.Background(), tc.order)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				// После неудачной записи в кэше ничего быть не должно.
				assert.Zero(t, orderCache.Len())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.order, created)

			cached, ok := orderCache.Get(tc.order.OrderUID)
			require.True(t, ok)
			assert.Equal(t, tc.order, cached)
		})
	}
}

func TestOrderService_CreateOrder_Duplicate(t *testing.T) {
	repo := newStubRepo()
	_, svc := newService(t, repo, 8)

	order := validOrder("uid-dup")
	_, err := svc.CreateOrder(context.Background(), order)
	require.NoError(t, err)

	_, err = svc.CreateOrder(context.Background(), order)
	assert.ErrorIs(t, err, entities.ErrOrderExists)
}

func TestOrderService_GetOrderByID(t *testing.T) {
	t.Run("cache hit avoids backend", func(t *testing.T) {
		repo := newStubRepo()
		_, svc := newService(t, repo, 8)

		order := validOrder("uid-hot")
		_, err := svc.CreateOrder(context.Background(), order)
		require.NoError(t, err)

		for range 3 {
			got, err := svc.GetOrderByID(context.Background(), order.OrderUID)
			require.NoError(t, err)
			assert.Equal(t, order, got)
		}

		assert.Zero(t, repo.callCount())
	})

	t.Run("miss loads from backend and caches", func(t *testing.T) {
		repo := newStubRepo()
		order := validOrder("uid-cold")
		repo.orders[order.OrderUID] = order
		_, svc := newService(t, repo, 8)

		got, err := svc.GetOrderByID(context.Background(), order.OrderUID)
		require.NoError(t, err)
		assert.Equal(t, order, got)

		_, err = svc.GetOrderByID(context.Background(), order.OrderUID)
		require.NoError(t, err)
		assert.Equal(t, 1, repo.callCount())
	})

	t.Run("not found", func(t *testing.T) {
		repo := newStubRepo()
		orderCache, svc := newService(t, repo, 8)

		_, err := svc.GetOrderByID(context.Background(), "no-such-order")
		assert.ErrorIs(t, err, entities.ErrOrderNotFound)
		assert.Zero(t, orderCache.Len())
	})
}

// Эталонный заказ WB L0: создание и чтение через холодный кэш
// должны вернуть его без изменений.
func TestOrderService_RoundTrip(t *testing.T) {
	repo := newStubRepo()
	_, svc := newService(t, repo, 8)

	order := validOrder("b563feb7b2b84b6test")
	_, err := svc.CreateOrder(context.Background(), order)
	require.NoError(t, err)

	// Свежий кэш, чтобы чтение прошло через реконструкцию из БД.
	_, coldSvc := newService(t, repo, 8)
	got, err := coldSvc.GetOrderByID(context.Background(), "b563feb7b2b84b6test")
	require.NoError(t, err)

	assert.Equal(t, order, got)
	require.Len(t, got.Items, 1)
	assert.EqualValues(t, 9934930, got.Items[0].ChrtID)
	assert.Equal(t, "b563feb7b2b84b6test", got.Payment.Transaction)
}

func TestOrderService_ConcurrentCreates(t *testing.T) {
	repo := newStubRepo()
	_, svc := newService(t, repo, 64)

	const n = 32
	g := new(errgroup.Group)
	for i := range n {
		uid := fmt.Sprintf("uid-%03d", i)
		g.Go(func() error {
			_, err := svc.CreateOrder(context.Background(), validOrder(uid))
			return err
		})
	}
	require.NoError(t, g.Wait())

	for i := range n {
		uid := fmt.Sprintf("uid-%03d", i)
		got, err := svc.GetOrderByID(context.Background(), uid)
		require.NoError(t, err)
		assert.Equal(t, uid, got.OrderUID)
		assert.Equal(t, "customer-"+uid, got.CustomerID)
		assert.Equal(t, uid, got.Payment.Transaction)
	}
}

func TestOrderService_WarmUpCache(t *testing.T) {
	repo := newStubRepo()
	for i := range 5 {
		uid := fmt.Sprintf("uid-%d", i)
		repo.orders[uid] = validOrder(uid)
		repo.recent = append(repo.recent, uid)
	}
	_, svc := newService(t, repo, 8)

	require.NoError(t, svc.WarmUpCache(context.Background(), 8))

	loaded := repo.callCount()
	assert.Equal(t, 5, loaded)

	// Прогретые заказы читаются из кэша, новых обращений к БД нет.
	for i := range 5 {
		_, err := svc.GetOrderByID(context.Background(), fmt.Sprintf("uid-%d", i))
		require.NoError(t, err)
	}
	assert.Equal(t, loaded, repo.callCount())
}
