package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"regexp"
	"time"

	"github.com/influxdata/influxdb/pkg/snowflake"

	"github.com/stolasapp/ende/internal/convert"
	"github.com/stolasapp/ende/internal/storage/db"
)

// Flow name constraints.
const (
	minNameLen = 3
	maxNameLen = 64
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidName reports whether name is usable as a flow name: 3-64 characters,
// alphanumeric, dashes and underscores only.
func ValidName(name string) bool {
	return len(name) >= minNameLen &&
		len(name) <= maxNameLen &&
		nameRegex.MatchString(name)
}

// DB is a [Store] backed by a SQLite database.
type DB struct {
	ids     *snowflake.Generator
	db      *sql.DB
	queries *db.Queries
	now     func() time.Time
}

// NewDB opens the SQLite database at dbPath.
func NewDB(ctx context.Context, dbPath string, logger *slog.Logger) (*DB, error) {
	handle, err := db.Open(ctx, logger, dbPath)
	if err != nil {
		return nil, err
	}
	return &DB{
		ids:     snowflake.New(rand.IntN(1023)), //nolint:gosec,mnd // this isn't for crypto
		db:      handle,
		queries: db.New(handle),
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

// Close satisfies the [Store] interface.
func (d *DB) Close() error {
	return d.db.Close()
}

// ListFlows satisfies the [Flows] interface.
func (d *DB) ListFlows(ctx context.Context, afterName string, limit int32) ([]SavedFlow, error) {
	rows, err := d.queries.GetFlows(ctx, db.GetFlowsParams{
		AfterName: afterName,
		Limit:     int64(limit),
	})
	if err != nil {
		return nil, err
	}
	flows := make([]SavedFlow, 0, len(rows))
	for _, row := range rows {
		flows = append(flows, fromRow(row))
	}
	return flows, nil
}

// GetFlow satisfies the [Flows] interface.
func (d *DB) GetFlow(ctx context.Context, name string) (SavedFlow, error) {
	row, err := d.queries.GetFlow(ctx, name)
	if errors.Is(err, sql.ErrNoRows) {
		return SavedFlow{}, ErrNotFound
	} else if err != nil {
		return SavedFlow{}, err
	}
	return fromRow(row), nil
}

// UpsertFlow satisfies the [Flows] interface. Every step must resolve to a
// converter; references are stored in their canonical group/id form.
func (d *DB) UpsertFlow(ctx context.Context, flow SavedFlow) (SavedFlow, error) {
	if !ValidName(flow.Name) {
		return SavedFlow{}, ErrInvalidName
	}
	if len(flow.Steps) == 0 {
		return SavedFlow{}, fmt.Errorf("%w: no steps", ErrInvalidFlow)
	}
	parsed, err := convert.ParseFlow(flow.Steps...)
	if err != nil {
		return SavedFlow{}, fmt.Errorf("%w: %w", ErrInvalidFlow, err)
	}
	now := d.now()
	row, err := d.queries.UpsertFlow(ctx, db.UpsertFlowParams{
		ID:         d.ids.Next(),
		Name:       flow.Name,
		Steps:      db.JoinSteps(parsed.Refs()),
		CreateTime: now,
		UpdateTime: now,
	})
	if err != nil {
		return SavedFlow{}, err
	}
	return fromRow(row), nil
}

// DeleteFlow satisfies the [Flows] interface.
func (d *DB) DeleteFlow(ctx context.Context, name string) error {
	_, err := d.queries.DeleteFlow(ctx, name)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func fromRow(row db.Flow) SavedFlow {
	return SavedFlow{
		ID:         row.ID,
		Name:       row.Name,
		Steps:      row.StepRefs(),
		CreateTime: row.CreateTime,
		UpdateTime: row.UpdateTime,
	}
}

var _ Store = (*DB)(nil)
