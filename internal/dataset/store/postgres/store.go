// Package postgres persists the enriched dataset in PostgreSQL as an
// alternative sink to the enriched CSV file.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"ihsan/internal/donation"
	"ihsan/internal/hijri"
	"ihsan/internal/islamic"
)

const schema = `
CREATE TABLE IF NOT EXISTS donations_enriched (
	seq              BIGSERIAL PRIMARY KEY,
	donor_id         TEXT NOT NULL,
	donation_date    TIMESTAMPTZ NOT NULL,
	amount           DOUBLE PRECISION NOT NULL,
	category         TEXT NOT NULL,
	category_en      TEXT NOT NULL DEFAULT '',
	hijri_year       INT,
	hijri_month      INT,
	hijri_day        INT,
	hijri_month_name TEXT NOT NULL DEFAULT '',
	is_ramadan       BOOLEAN NOT NULL DEFAULT FALSE,
	ramadan_period   TEXT NOT NULL DEFAULT '',
	islamic_event    TEXT NOT NULL DEFAULT ''
)`

// Store persists enriched donation records in PostgreSQL.
type Store struct {
	db *sql.DB
}

// NewStore constructs a PostgreSQL-backed dataset store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects to the database and ensures the schema exists.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	store := NewStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// EnsureSchema creates the donations table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensuring donations schema: %w", err)
	}
	return nil
}

// Replace swaps the stored dataset for the given records in one transaction,
// using COPY for the bulk load.
func (s *Store) Replace(ctx context.Context, records []donation.Enriched) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning dataset replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `TRUNCATE donations_enriched`); err != nil {
		return fmt.Errorf("truncating donations: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("donations_enriched",
		"donor_id", "donation_date", "amount", "category", "category_en",
		"hijri_year", "hijri_month", "hijri_day", "hijri_month_name",
		"is_ramadan", "ramadan_period", "islamic_event"))
	if err != nil {
		return fmt.Errorf("preparing donations copy: %w", err)
	}

	for _, r := range records {
		var hijriYear, hijriMonth, hijriDay sql.NullInt64
		if r.Hijri != nil {
			hijriYear = sql.NullInt64{Int64: int64(r.Hijri.Year), Valid: true}
			hijriMonth = sql.NullInt64{Int64: int64(r.Hijri.Month), Valid: true}
			hijriDay = sql.NullInt64{Int64: int64(r.Hijri.Day), Valid: true}
		}
		_, err = stmt.ExecContext(ctx,
			r.DonorID, r.Date, r.Amount, r.Category, r.CategoryEN,
			hijriYear, hijriMonth, hijriDay, r.HijriMonthName,
			r.IsRamadan, string(r.RamadanPeriod), string(r.Event))
		if err != nil {
			stmt.Close()
			return fmt.Errorf("copying donation row: %w", err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return fmt.Errorf("flushing donations copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return fmt.Errorf("closing donations copy: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing dataset replace: %w", err)
	}
	return nil
}

// Load reads the full stored dataset in insertion order.
func (s *Store) Load(ctx context.Context) ([]donation.Enriched, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT donor_id, donation_date, amount, category, category_en,
		       hijri_year, hijri_month, hijri_day, hijri_month_name,
		       is_ramadan, ramadan_period, islamic_event
		FROM donations_enriched
		ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("querying donations: %w", err)
	}
	defer rows.Close()

	var out []donation.Enriched
	for rows.Next() {
		var (
			e                               donation.Enriched
			date                            time.Time
			hijriYear, hijriMonth, hijriDay sql.NullInt64
			period, event                   string
		)
		err := rows.Scan(&e.DonorID, &date, &e.Amount, &e.Category, &e.CategoryEN,
			&hijriYear, &hijriMonth, &hijriDay, &e.HijriMonthName,
			&e.IsRamadan, &period, &event)
		if err != nil {
			return nil, fmt.Errorf("scanning donation row: %w", err)
		}
		e.Date = date
		e.Time = donation.TimeDimensionsOf(date)
		e.RamadanPeriod = islamic.RamadanPeriod(period)
		e.Event = islamic.Event(event)
		if hijriYear.Valid && hijriMonth.Valid && hijriDay.Valid {
			e.Hijri = &hijri.Date{
				Year:  int(hijriYear.Int64),
				Month: int(hijriMonth.Int64),
				Day:   int(hijriDay.Int64),
			}
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating donation rows: %w", err)
	}
	return out, nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM donations_enriched`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting donations: %w", err)
	}
	return n, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
