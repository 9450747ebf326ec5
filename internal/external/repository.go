package external

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ErrRateNotFound indicates that no rate is stored for the currency.
var ErrRateNotFound = errors.New("exchange rate not found")

// Rate is the price of one stablecoin unit in a fiat currency.
type Rate struct {
	Currency  string          `json:"currency"`
	Rate      decimal.Decimal `json:"rate"`
	Source    string          `json:"source"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// RateRepository defines persistent storage for exchange rates.
type RateRepository interface {
	SaveRate(ctx context.Context, currency string, rate decimal.Decimal) error
	GetRate(ctx context.Context, currency string) (Rate, error)
	GetAllRates(ctx context.Context) ([]Rate, error)
}

// PgRateRepository implements RateRepository with PostgreSQL.
type PgRateRepository struct {
	pool *pgxpool.Pool
}

// NewPgRateRepository creates a new PostgreSQL rate repository.
func NewPgRateRepository(pool *pgxpool.Pool) *PgRateRepository {
	return &PgRateRepository{pool: pool}
}

func (r *PgRateRepository) SaveRate(ctx context.Context, currency string, rate decimal.Decimal) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO exchange_rates (currency, rate, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (currency) DO UPDATE SET rate = $2, updated_at = NOW()`,
		currency, rate)
	if err != nil {
		return fmt.Errorf("saving rate for %s: %w", currency, err)
	}
	return nil
}

func (r *PgRateRepository) GetRate(ctx context.Context, currency string) (Rate, error) {
	q := Rate{Source: SourceCoinGecko}
	err := r.pool.QueryRow(ctx,
		`SELECT currency, rate, updated_at FROM exchange_rates WHERE currency = $1`,
		currency).Scan(&q.Currency, &q.Rate, &q.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Rate{}, ErrRateNotFound
		}
		return Rate{}, fmt.Errorf("getting rate for %s: %w", currency, err)
	}
	return q, nil
}

func (r *PgRateRepository) GetAllRates(ctx context.Context) ([]Rate, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT currency, rate, updated_at FROM exchange_rates ORDER BY currency`)
	if err != nil {
		return nil, fmt.Errorf("getting all rates: %w", err)
	}
	defer rows.Close()

	var rates []Rate
	for rows.Next() {
		q := Rate{Source: SourceCoinGecko}
		if err := rows.Scan(&q.Currency, &q.Rate, &q.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning rate: %w", err)
		}
		rates = append(rates, q)
	}
	return rates, rows.Err()
}
