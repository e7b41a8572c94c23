package postgres_test

import (
	"context"
	"testing"

	"github.com/forye/checkout-gateway/internal/domain"
	"github.com/forye/checkout-gateway/internal/infrastructure/persistence/postgres"
	"github.com/forye/checkout-gateway/internal/infrastructure/persistence/testhelpers"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrder(t *testing.T, id, token string) *domain.Order {
	t.Helper()
	money, err := domain.NewMoney(decimal.NewFromFloat(19.99))
	require.NoError(t, err)
	order, err := domain.NewOrder(id, money, "widget", token, "https://www.sandbox.paypal.com/checkoutnow?token="+token)
	require.NoError(t, err)
	return order
}

func TestOrderRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	td := testhelpers.SetupTestDatabase(t)
	defer td.Cleanup(t)

	repo := postgres.NewOrderRepository(td.DB.Pool)
	ctx := context.Background()

	t.Run("create and find by provider token", func(t *testing.T) {
		defer td.CleanTables(t)

		order := newOrder(t, "order-1", "ORDER123")
		require.NoError(t, repo.Create(ctx, order))

		found, err := repo.FindByProviderToken(ctx, "ORDER123")
		require.NoError(t, err)

		assert.Equal(t, order.ID, found.ID)
		assert.Equal(t, order.ProviderToken, found.ProviderToken)
		assert.Equal(t, order.ApprovalURL, found.ApprovalURL)
		assert.Equal(t, "19.99", found.Amount)
		assert.Equal(t, "USD", found.Currency)
		assert.Equal(t, domain.StatusCreated, found.Status)
		assert.Nil(t, found.CaptureID)
	})

	t.Run("unknown provider token", func(t *testing.T) {
		_, err := repo.FindByProviderToken(ctx, "NOPE")
		assert.ErrorIs(t, err, postgres.ErrOrderNotFound)
	})

	t.Run("capture lifecycle round trip", func(t *testing.T) {
		defer td.CleanTables(t)

		order := newOrder(t, "order-2", "ORDER456")
		require.NoError(t, repo.Create(ctx, order))

		require.NoError(t, order.Approve())
		require.NoError(t, order.Capture("CAPTURE456"))
		require.NoError(t, repo.Update(ctx, order))

		found, err := repo.FindByCaptureID(ctx, "CAPTURE456")
		require.NoError(t, err)
		assert.Equal(t, "order-2", found.ID)
		assert.Equal(t, domain.StatusCaptured, found.Status)
		require.NotNil(t, found.CaptureID)
		assert.Equal(t, "CAPTURE456", *found.CaptureID)
		assert.NotNil(t, found.CapturedAt)

		require.NoError(t, found.Refund())
		require.NoError(t, repo.Update(ctx, found))

		refunded, err := repo.FindByProviderToken(ctx, "ORDER456")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusRefunded, refunded.Status)
		assert.NotNil(t, refunded.RefundedAt)
	})

	t.Run("duplicate provider token is rejected", func(t *testing.T) {
		defer td.CleanTables(t)

		require.NoError(t, repo.Create(ctx, newOrder(t, "order-3", "ORDER789")))

		err := repo.Create(ctx, newOrder(t, "order-4", "ORDER789"))
		require.Error(t, err)
	})

	t.Run("update of a missing order", func(t *testing.T) {
		order := newOrder(t, "order-ghost", "ORDER000")
		err := repo.Update(ctx, order)
		assert.ErrorIs(t, err, postgres.ErrOrderNotFound)
	})
}
