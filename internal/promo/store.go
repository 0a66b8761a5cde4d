package promo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrStoreUnavailable indicates the promotion store dependency is not configured.
var ErrStoreUnavailable = errors.New("promo: store unavailable")

// ErrNotFound is returned when the requested promotion does not exist.
var ErrNotFound = errors.New("promo: promotion not found")

const promotionColumns = `id, name, discount_type, discount_value, applies_to, category,
product_ids, start_date, end_date, is_active, priority, max_uses, current_uses,
created_at, updated_at`

// Store provides database accessors for promotion records.
type Store interface {
	ListPromotions(ctx context.Context) ([]Promotion, error)
	ListPromotionsPage(ctx context.Context, limit, offset int) ([]Promotion, error)
	CountPromotions(ctx context.Context) (int64, error)
	GetPromotion(ctx context.Context, id uuid.UUID) (Promotion, error)
	CreatePromotion(ctx context.Context, p Promotion) (Promotion, error)
	UpdatePromotion(ctx context.Context, p Promotion) (Promotion, error)
	DeletePromotion(ctx context.Context, id uuid.UUID) error
}

// NewStore constructs a Store backed by a pgx connection pool.
func NewStore(pool *pgxpool.Pool) Store {
	return &pgStore{pool: pool}
}

type pgStore struct {
	pool *pgxpool.Pool
}

// ListPromotions returns every promotion record. The matcher filters in
// memory, so this is the cacheable read path.
func (s *pgStore) ListPromotions(ctx context.Context) ([]Promotion, error) {
	if s == nil || s.pool == nil {
		return nil, ErrStoreUnavailable
	}
	rows, err := s.pool.Query(ctx, `SELECT `+promotionColumns+` FROM promotions ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPromotions(rows)
}

// ListPromotionsPage returns promotions ordered newest first for admin listings.
func (s *pgStore) ListPromotionsPage(ctx context.Context, limit, offset int) ([]Promotion, error) {
	if s == nil || s.pool == nil {
		return nil, ErrStoreUnavailable
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := s.pool.Query(ctx, `SELECT `+promotionColumns+` FROM promotions ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPromotions(rows)
}

// CountPromotions returns the total number of promotion records.
func (s *pgStore) CountPromotions(ctx context.Context) (int64, error) {
	if s == nil || s.pool == nil {
		return 0, ErrStoreUnavailable
	}
	var total int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM promotions`).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// GetPromotion fetches a promotion by ID.
func (s *pgStore) GetPromotion(ctx context.Context, id uuid.UUID) (Promotion, error) {
	if s == nil || s.pool == nil {
		return Promotion{}, ErrStoreUnavailable
	}
	row := s.pool.QueryRow(ctx, `SELECT `+promotionColumns+` FROM promotions WHERE id = $1`, id)
	p, err := scanPromotion(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Promotion{}, ErrNotFound
	}
	return p, err
}

// CreatePromotion persists a new promotion and returns the stored row.
func (s *pgStore) CreatePromotion(ctx context.Context, p Promotion) (Promotion, error) {
	if s == nil || s.pool == nil {
		return Promotion{}, ErrStoreUnavailable
	}
	row := s.pool.QueryRow(ctx, `INSERT INTO promotions
(name, discount_type, discount_value, applies_to, category, product_ids,
 start_date, end_date, is_active, priority, max_uses)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING `+promotionColumns,
		p.Name, p.DiscountType, p.DiscountValue, string(p.AppliesTo), p.Category,
		textArray(p.ProductIDs), p.StartDate, p.EndDate, p.IsActive, p.Priority, p.MaxUses)
	return scanPromotion(row)
}

// UpdatePromotion replaces the mutable fields of an existing promotion.
func (s *pgStore) UpdatePromotion(ctx context.Context, p Promotion) (Promotion, error) {
	if s == nil || s.pool == nil {
		return Promotion{}, ErrStoreUnavailable
	}
	row := s.pool.QueryRow(ctx, `UPDATE promotions SET
name = $2, discount_type = $3, discount_value = $4, applies_to = $5, category = $6,
product_ids = $7, start_date = $8, end_date = $9, is_active = $10, priority = $11,
max_uses = $12, updated_at = now()
WHERE id = $1
RETURNING `+promotionColumns,
		p.ID, p.Name, p.DiscountType, p.DiscountValue, string(p.AppliesTo), p.Category,
		textArray(p.ProductIDs), p.StartDate, p.EndDate, p.IsActive, p.Priority, p.MaxUses)
	updated, err := scanPromotion(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Promotion{}, ErrNotFound
	}
	return updated, err
}

// DeletePromotion removes a promotion by ID.
func (s *pgStore) DeletePromotion(ctx context.Context, id uuid.UUID) error {
	if s == nil || s.pool == nil {
		return ErrStoreUnavailable
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM promotions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPromotion(row rowScanner) (Promotion, error) {
	var (
		p          Promotion
		scope      string
		category   sql.NullString
		productIDs []string
		maxUses    sql.NullInt32
		start, end time.Time
	)
	err := row.Scan(&p.ID, &p.Name, &p.DiscountType, &p.DiscountValue, &scope, &category,
		&productIDs, &start, &end, &p.IsActive, &p.Priority, &maxUses, &p.CurrentUses,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Promotion{}, err
	}
	p.AppliesTo = Scope(scope)
	p.StartDate = start
	p.EndDate = end
	p.ProductIDs = productIDs
	if category.Valid {
		p.Category = &category.String
	}
	if maxUses.Valid {
		limit := maxUses.Int32
		p.MaxUses = &limit
	}
	return p, nil
}

func scanPromotions(rows pgx.Rows) ([]Promotion, error) {
	promotions := make([]Promotion, 0)
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return nil, err
		}
		promotions = append(promotions, p)
	}
	return promotions, rows.Err()
}

// textArray keeps empty product lists as empty text[] rather than NULL.
func textArray(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
