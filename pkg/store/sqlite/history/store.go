package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/de-tools/spot-stats/pkg/models/store"
	"github.com/de-tools/spot-stats/pkg/store/sqlite"
)

// Store keeps one snapshot of the published rows per collection run.
type Store interface {
	Add(ctx context.Context, run store.Run, rows []store.SpotPriceRow) error
	ListRuns(ctx context.Context, limit int) ([]store.Run, error)
	GetRun(ctx context.Context, runID string) ([]store.SpotPriceRow, error)
}

type historyStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &historyStore{db: db}, nil
}

// Add writes the run and its rows. It joins the transaction found in ctx,
// otherwise it runs in its own.
func (h *historyStore) Add(ctx context.Context, run store.Run, rows []store.SpotPriceRow) (err error) {
	tx := sqlite.GetTransaction(ctx)
	if tx == nil {
		tx, err = h.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer func() {
			if err != nil {
				_ = tx.Rollback()
				return
			}
			if cerr := tx.Commit(); cerr != nil {
				err = fmt.Errorf("commit transaction: %w", cerr)
			}
		}()
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, collected_at, record_count) VALUES (?, ?, ?)`,
		run.ID, run.CollectedAt.UnixMilli(), run.RecordCount,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if len(rows) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO spot_prices (
			run_id, instance_type, region, availability_zone, dollars_per_hour,
			current_generation, architecture, vcpus, memory_gib, power,
			last_update_epoch_time_ms
		) VALUES (
			?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
		)`)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		_, err = stmt.ExecContext(ctx,
			run.ID,
			row.InstanceType,
			row.Region,
			row.AvailabilityZone,
			row.DollarsPerHour,
			row.CurrentGeneration,
			row.Architecture,
			row.VCPUs,
			row.MemoryGiB,
			row.Power,
			row.LastUpdateEpochTimeMs,
		)
		if err != nil {
			return fmt.Errorf("insert spot price: %w", err)
		}
	}
	return nil
}

func (h *historyStore) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := h.db.QueryContext(ctx,
		`SELECT id, collected_at, record_count FROM runs ORDER BY collected_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []store.Run
	for rows.Next() {
		var (
			run         store.Run
			collectedAt int64
		)
		if err := rows.Scan(&run.ID, &collectedAt, &run.RecordCount); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.CollectedAt = time.UnixMilli(collectedAt).UTC()
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// GetRun returns the rows of a run in the order they were added, which is the
// artifact order.
func (h *historyStore) GetRun(ctx context.Context, runID string) ([]store.SpotPriceRow, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT instance_type, region, availability_zone, dollars_per_hour, current_generation,
			architecture, vcpus, memory_gib, power, last_update_epoch_time_ms
		FROM spot_prices
		WHERE run_id = ?
		ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("query spot prices: %w", err)
	}
	defer rows.Close()

	var result []store.SpotPriceRow
	for rows.Next() {
		row := store.SpotPriceRow{RunID: runID}
		if err := rows.Scan(
			&row.InstanceType,
			&row.Region,
			&row.AvailabilityZone,
			&row.DollarsPerHour,
			&row.CurrentGeneration,
			&row.Architecture,
			&row.VCPUs,
			&row.MemoryGiB,
			&row.Power,
			&row.LastUpdateEpochTimeMs,
		); err != nil {
			return nil, fmt.Errorf("scan spot price: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate spot prices: %w", err)
	}
	return result, nil
}
