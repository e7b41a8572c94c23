package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/forye/checkout-gateway/internal/application"
	"github.com/forye/checkout-gateway/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func approvedOrder(t *testing.T) *domain.Order {
	t.Helper()
	money, err := domain.NewMoney(decimal.NewFromFloat(19.99))
	require.NoError(t, err)
	order, err := domain.NewOrder("order-1", money, "widget", "ORDER123", "https://approve")
	require.NoError(t, err)
	return order
}

func TestProcessCallback(t *testing.T) {
	approvedEvent := []byte(`{"event_type":"CHECKOUT.ORDER.APPROVED","resource":{"id":"ORDER123"}}`)

	t.Run("approved event captures the order once", func(t *testing.T) {
		provider := &MockProviderClient{}
		repo := NewMockOrderRepository()
		repo.Put(approvedOrder(t))
		svc := NewWebhookService(repo, provider, testLogger())

		var capturedToken string
		provider.CaptureOrderFn = func(ctx context.Context, orderToken string) (string, error) {
			capturedToken = orderToken
			return "CAPTURE123", nil
		}

		err := svc.ProcessCallback(context.Background(), approvedEvent)
		require.NoError(t, err)

		assert.Equal(t, 1, provider.GetCalls("CaptureOrder"))
		assert.Equal(t, "ORDER123", capturedToken)

		stored := repo.Get("order-1")
		require.NotNil(t, stored)
		assert.Equal(t, domain.StatusCaptured, stored.Status)
		require.NotNil(t, stored.CaptureID)
		assert.Equal(t, "CAPTURE123", *stored.CaptureID)
	})

	t.Run("capture failure fails the acknowledgment", func(t *testing.T) {
		provider := &MockProviderClient{
			CaptureOrderFn: func(ctx context.Context, orderToken string) (string, error) {
				return "", errors.New("provider down")
			},
		}
		repo := NewMockOrderRepository()
		repo.Put(approvedOrder(t))
		svc := NewWebhookService(repo, provider, testLogger())

		err := svc.ProcessCallback(context.Background(), approvedEvent)
		svcErr, ok := application.IsServiceError(err)
		require.True(t, ok)
		assert.Equal(t, application.ErrCodeCaptureFailed, svcErr.Code)
	})

	t.Run("empty capture id fails the acknowledgment", func(t *testing.T) {
		provider := &MockProviderClient{
			CaptureOrderFn: func(ctx context.Context, orderToken string) (string, error) {
				return "", nil
			},
		}
		repo := NewMockOrderRepository()
		repo.Put(approvedOrder(t))
		svc := NewWebhookService(repo, provider, testLogger())

		err := svc.ProcessCallback(context.Background(), approvedEvent)
		svcErr, ok := application.IsServiceError(err)
		require.True(t, ok)
		assert.Equal(t, application.ErrCodeCaptureFailed, svcErr.Code)
	})

	t.Run("redelivery for a captured order does not capture again", func(t *testing.T) {
		provider := &MockProviderClient{}
		repo := NewMockOrderRepository()

		order := approvedOrder(t)
		require.NoError(t, order.Approve())
		require.NoError(t, order.Capture("CAPTURE123"))
		repo.Put(order)

		svc := NewWebhookService(repo, provider, testLogger())

		err := svc.ProcessCallback(context.Background(), approvedEvent)
		require.NoError(t, err)
		assert.Equal(t, 0, provider.GetCalls("CaptureOrder"))
	})

	t.Run("approved event for unknown local order still captures", func(t *testing.T) {
		provider := &MockProviderClient{}
		repo := NewMockOrderRepository()
		svc := NewWebhookService(repo, provider, testLogger())

		err := svc.ProcessCallback(context.Background(), approvedEvent)
		require.NoError(t, err)
		assert.Equal(t, 1, provider.GetCalls("CaptureOrder"))
	})

	t.Run("capture completed event is acknowledged without side effects", func(t *testing.T) {
		provider := &MockProviderClient{}
		repo := NewMockOrderRepository()
		svc := NewWebhookService(repo, provider, testLogger())

		err := svc.ProcessCallback(context.Background(), []byte(`{"event_type":"PAYMENT.CAPTURE.COMPLETED","resource":{"id":"CAPTURE123"}}`))
		require.NoError(t, err)
		assert.Equal(t, 0, provider.GetCalls("CaptureOrder"))
	})

	t.Run("unknown event type fails so the provider redelivers", func(t *testing.T) {
		svc := NewWebhookService(NewMockOrderRepository(), &MockProviderClient{}, testLogger())

		err := svc.ProcessCallback(context.Background(), []byte(`{"event_type":"BILLING.SUBSCRIPTION.CREATED"}`))
		svcErr, ok := application.IsServiceError(err)
		require.True(t, ok)
		assert.Equal(t, application.ErrCodeUnknownEvent, svcErr.Code)
	})

	t.Run("approved event without a resource id is invalid input", func(t *testing.T) {
		svc := NewWebhookService(NewMockOrderRepository(), &MockProviderClient{}, testLogger())

		err := svc.ProcessCallback(context.Background(), []byte(`{"event_type":"CHECKOUT.ORDER.APPROVED","resource":{}}`))
		svcErr, ok := application.IsServiceError(err)
		require.True(t, ok)
		assert.Equal(t, application.ErrCodeInvalidInput, svcErr.Code)
	})

	t.Run("garbage payload is invalid input", func(t *testing.T) {
		svc := NewWebhookService(NewMockOrderRepository(), &MockProviderClient{}, testLogger())

		err := svc.ProcessCallback(context.Background(), []byte(`not json`))
		svcErr, ok := application.IsServiceError(err)
		require.True(t, ok)
		assert.Equal(t, application.ErrCodeInvalidInput, svcErr.Code)
	})
}

func TestVerify(t *testing.T) {
	t.Run("delegates to the provider", func(t *testing.T) {
		provider := &MockProviderClient{
			VerifyFn: func(ctx context.Context, headers map[string]string, body []byte) bool {
				return false
			},
		}
		svc := NewWebhookService(NewMockOrderRepository(), provider, testLogger())

		ok := svc.Verify(context.Background(), map[string]string{}, []byte(`{}`))
		assert.False(t, ok)
		assert.Equal(t, 1, provider.GetCalls("VerifyWebhookSignature"))
	})
}
