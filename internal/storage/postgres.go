package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/domain"
)

const forecastSchema = `
CREATE TABLE IF NOT EXISTS hospital_forecasts (
	state                         TEXT        NOT NULL,
	current_week                  DATE        NOT NULL,
	forecast_week                 DATE        NOT NULL,
	icu_pct_next_week_pred        DOUBLE PRECISION NOT NULL,
	inpatient_pct_next_week_pred  DOUBLE PRECISION NOT NULL,
	critical_risk_proba           DOUBLE PRECISION NOT NULL,
	critical_risk_next_week_pred  INTEGER     NOT NULL,
	disease_burden_next_week_pred DOUBLE PRECISION NOT NULL,
	suggested_neighbor_state      TEXT        NOT NULL DEFAULT '',
	recommendation                TEXT        NOT NULL,
	run_id                        TEXT        NOT NULL,
	generated_at                  TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (state, forecast_week)
)`

const upsertForecast = `
INSERT INTO hospital_forecasts (
	state, current_week, forecast_week,
	icu_pct_next_week_pred, inpatient_pct_next_week_pred,
	critical_risk_proba, critical_risk_next_week_pred,
	disease_burden_next_week_pred,
	suggested_neighbor_state, recommendation, run_id, generated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (state, forecast_week) DO UPDATE SET
	current_week                  = EXCLUDED.current_week,
	icu_pct_next_week_pred        = EXCLUDED.icu_pct_next_week_pred,
	inpatient_pct_next_week_pred  = EXCLUDED.inpatient_pct_next_week_pred,
	critical_risk_proba           = EXCLUDED.critical_risk_proba,
	critical_risk_next_week_pred  = EXCLUDED.critical_risk_next_week_pred,
	disease_burden_next_week_pred = EXCLUDED.disease_burden_next_week_pred,
	suggested_neighbor_state      = EXCLUDED.suggested_neighbor_state,
	recommendation                = EXCLUDED.recommendation,
	run_id                        = EXCLUDED.run_id,
	generated_at                  = EXCLUDED.generated_at`

// PostgresForecastWriter upserts forecasts keyed by (state, forecast_week),
// so re-running inference for the same week overwrites in place.
type PostgresForecastWriter struct {
	pool *pgxpool.Pool
}

// NewPostgresForecastWriter connects to dsn and ensures the forecast table
// exists.
func NewPostgresForecastWriter(ctx context.Context, dsn string) (*PostgresForecastWriter, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if _, err := pool.Exec(ctx, forecastSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ensure schema: %w", err)
	}
	return &PostgresForecastWriter{pool: pool}, nil
}

// WriteForecasts upserts the full record set in one transaction.
func (w *PostgresForecastWriter) WriteForecasts(ctx context.Context, records []domain.ForecastRecord) error {
	return pgx.BeginFunc(ctx, w.pool, func(tx pgx.Tx) error {
		for _, r := range records {
			_, err := tx.Exec(ctx, upsertForecast,
				r.State, r.CurrentWeek, r.ForecastWeek,
				r.ICUPctPred, r.InpatientPctPred,
				r.CriticalProba, r.CriticalPred,
				r.DiseaseBurdenPred,
				r.SuggestedNeighbor, r.Recommendation, r.RunID, r.GeneratedAt,
			)
			if err != nil {
				return fmt.Errorf("postgres upsert forecast for %s: %w", r.State, err)
			}
		}
		return nil
	})
}

// Close releases the connection pool.
func (w *PostgresForecastWriter) Close() {
	w.pool.Close()
}
