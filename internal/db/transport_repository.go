package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/tilepath/internal/geo"
	"github.com/udisondev/tilepath/internal/transport"
)

// TransportRepository stores the transport catalogue.
type TransportRepository struct {
	db *pgxpool.Pool
}

// NewTransportRepository creates a new TransportRepository.
func NewTransportRepository(db *pgxpool.Pool) *TransportRepository {
	return &TransportRepository{db: db}
}

var transportColumns = []string{
	"origin_x", "origin_y", "origin_plane",
	"dest_x", "dest_y", "dest_plane",
	"kind", "cost", "object_id",
	"menu_option", "menu_target",
	"skill_reqs", "quest_req", "diary_req",
}

// ReplaceAll swaps the whole catalogue for records in one transaction.
func (r *TransportRepository) ReplaceAll(ctx context.Context, records []transport.Record) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		// Rollback after commit is expected to fail.
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM transports`); err != nil {
		return fmt.Errorf("deleting existing transports: %w", err)
	}

	rows := make([][]any, 0, len(records))
	for _, rec := range records {
		ox, oy, oz := rec.Origin.Unpack()
		dx, dy, dz := rec.Destination.Unpack()
		rows = append(rows, []any{
			ox, oy, oz,
			dx, dy, dz,
			rec.Kind.String(), rec.Cost, rec.ObjectID,
			rec.Option, rec.Target,
			transport.FormatSkillReqs(rec.Skills), rec.Quest, rec.Diary,
		})
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{"transports"}, transportColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("copying transports: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	slog.Info("transport catalogue replaced", "records", n)
	return nil
}

// LoadAll returns every catalogue record in insertion order.
func (r *TransportRepository) LoadAll(ctx context.Context) ([]transport.Record, error) {
	query := `
		SELECT origin_x, origin_y, origin_plane,
		       dest_x, dest_y, dest_plane,
		       kind, cost, object_id,
		       menu_option, menu_target,
		       skill_reqs, quest_req, diary_req
		FROM transports
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying transports: %w", err)
	}
	defer rows.Close()

	records := make([]transport.Record, 0, 1024)
	for rows.Next() {
		var (
			ox, oy, oz, dx, dy, dz int
			kind, skills           string
			rec                    transport.Record
		)
		if err := rows.Scan(
			&ox, &oy, &oz,
			&dx, &dy, &dz,
			&kind, &rec.Cost, &rec.ObjectID,
			&rec.Option, &rec.Target,
			&skills, &rec.Quest, &rec.Diary,
		); err != nil {
			return nil, fmt.Errorf("scanning transport row: %w", err)
		}

		rec.Origin = geo.Pack(ox, oy, oz)
		rec.Destination = geo.Pack(dx, dy, dz)
		if rec.Kind, err = transport.ParseKind(kind); err != nil {
			return nil, fmt.Errorf("transport %s: %w", rec.Origin, err)
		}
		if rec.Skills, err = transport.ParseSkillReqs(skills); err != nil {
			return nil, fmt.Errorf("transport %s: %w", rec.Origin, err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transport rows: %w", err)
	}

	return records, nil
}

// Count returns the number of stored records.
func (r *TransportRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM transports`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting transports: %w", err)
	}
	return n, nil
}
