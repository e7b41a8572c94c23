package services

import (
	"context"
	"sync"

	"github.com/forye/checkout-gateway/internal/domain"
	"github.com/forye/checkout-gateway/internal/infrastructure/persistence/postgres"
	"github.com/shopspring/decimal"
)

// MockProviderClient
type MockProviderClient struct {
	mu    sync.Mutex
	calls map[string]int

	CreateOrderFn  func(ctx context.Context, customID string, price decimal.Decimal, description string) (*domain.OrderHandle, error)
	CaptureOrderFn func(ctx context.Context, orderToken string) (string, error)
	RefundOrderFn  func(ctx context.Context, captureID string, price decimal.Decimal, description string) error
	VerifyFn       func(ctx context.Context, headers map[string]string, body []byte) bool
}

func (m *MockProviderClient) inc(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[method]++
}

func (m *MockProviderClient) GetCalls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

func (m *MockProviderClient) CreateOrder(ctx context.Context, customID string, price decimal.Decimal, description string) (*domain.OrderHandle, error) {
	m.inc("CreateOrder")
	if m.CreateOrderFn != nil {
		return m.CreateOrderFn(ctx, customID, price, description)
	}
	return &domain.OrderHandle{
		Token:       "ORDER123",
		ApprovalURL: "https://www.sandbox.paypal.com/checkoutnow?token=ORDER123",
	}, nil
}

func (m *MockProviderClient) CaptureOrder(ctx context.Context, orderToken string) (string, error) {
	m.inc("CaptureOrder")
	if m.CaptureOrderFn != nil {
		return m.CaptureOrderFn(ctx, orderToken)
	}
	return "CAPTURE123", nil
}

func (m *MockProviderClient) RefundOrder(ctx context.Context, captureID string, price decimal.Decimal, description string) error {
	m.inc("RefundOrder")
	if m.RefundOrderFn != nil {
		return m.RefundOrderFn(ctx, captureID, price, description)
	}
	return nil
}

func (m *MockProviderClient) VerifyWebhookSignature(ctx context.Context, headers map[string]string, body []byte) bool {
	m.inc("VerifyWebhookSignature")
	if m.VerifyFn != nil {
		return m.VerifyFn(ctx, headers, body)
	}
	return true
}

// MockOrderRepository
type MockOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order

	CreateFn              func(ctx context.Context, order *domain.Order) error
	FindByProviderTokenFn func(ctx context.Context, token string) (*domain.Order, error)
	FindByCaptureIDFn     func(ctx context.Context, captureID string) (*domain.Order, error)
	UpdateFn              func(ctx context.Context, order *domain.Order) error
}

func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]*domain.Order),
	}
}

func (m *MockOrderRepository) Put(order *domain.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[order.ID] = order
}

func (m *MockOrderRepository) Get(id string) *domain.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.orders[id]
}

func (m *MockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateFn != nil {
		return m.CreateFn(ctx, order)
	}
	m.orders[order.ID] = order
	return nil
}

func (m *MockOrderRepository) FindByProviderToken(ctx context.Context, token string) (*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FindByProviderTokenFn != nil {
		return m.FindByProviderTokenFn(ctx, token)
	}
	for _, o := range m.orders {
		if o.ProviderToken == token {
			return o, nil
		}
	}
	return nil, postgres.ErrOrderNotFound
}

func (m *MockOrderRepository) FindByCaptureID(ctx context.Context, captureID string) (*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FindByCaptureIDFn != nil {
		return m.FindByCaptureIDFn(ctx, captureID)
	}
	for _, o := range m.orders {
		if o.CaptureID != nil && *o.CaptureID == captureID {
			return o, nil
		}
	}
	return nil, postgres.ErrOrderNotFound
}

func (m *MockOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, order)
	}
	if _, ok := m.orders[order.ID]; !ok {
		return postgres.ErrOrderNotFound
	}
	m.orders[order.ID] = order
	return nil
}
