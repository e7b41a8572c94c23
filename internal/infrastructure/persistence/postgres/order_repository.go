package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/forye/checkout-gateway/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrOrderNotFound = errors.New("order not found")

type OrderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (
			id, provider_token, approval_url, currency, amount, description,
			status, capture_id, created_at, captured_at, refunded_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		order.ID,
		order.ProviderToken,
		order.ApprovalURL,
		order.Currency,
		order.Amount,
		order.Description,
		order.Status,
		order.CaptureID,
		order.CreatedAt,
		order.CapturedAt,
		order.RefundedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

// FindByProviderToken retrieves the order a webhook event refers to.
func (r *OrderRepository) FindByProviderToken(ctx context.Context, token string) (*domain.Order, error) {
	query := `
		SELECT id, provider_token, approval_url, currency, amount, description,
		       status, capture_id, created_at, captured_at, refunded_at
		FROM orders WHERE provider_token = $1
	`

	row := r.db.QueryRow(ctx, query, token)
	return scanOrder(row)
}

// FindByCaptureID retrieves the order a refund refers to.
func (r *OrderRepository) FindByCaptureID(ctx context.Context, captureID string) (*domain.Order, error) {
	query := `
		SELECT id, provider_token, approval_url, currency, amount, description,
		       status, capture_id, created_at, captured_at, refunded_at
		FROM orders WHERE capture_id = $1
	`

	row := r.db.QueryRow(ctx, query, captureID)
	return scanOrder(row)
}

func (r *OrderRepository) Update(ctx context.Context, order *domain.Order) error {
	query := `
		UPDATE orders
		SET status = $2, capture_id = $3, captured_at = $4, refunded_at = $5
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		order.ID,
		order.Status,
		order.CaptureID,
		order.CapturedAt,
		order.RefundedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}

	return nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		id, providerToken, approvalURL string
		currency, amount, description  string
		status                         string
		captureID                      *string
		createdAt                      time.Time
		capturedAt, refundedAt         *time.Time
	)

	err := row.Scan(
		&id,
		&providerToken,
		&approvalURL,
		&currency,
		&amount,
		&description,
		&status,
		&captureID,
		&createdAt,
		&capturedAt,
		&refundedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}

	return domain.Reconstitute(
		id, providerToken, approvalURL,
		currency, amount, description,
		domain.OrderStatus(status),
		captureID,
		createdAt,
		capturedAt, refundedAt,
	), nil
}
