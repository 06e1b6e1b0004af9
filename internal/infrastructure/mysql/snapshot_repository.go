package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"beanbags/internal/snapshot"
)

var ErrSnapshotNotFound = errors.New("snapshot not found")

const saveTxTimeout = 5 * time.Second

const createSnapshotTable = `
	CREATE TABLE IF NOT EXISTS StoreSnapshot (
		name VARCHAR(191) NOT NULL PRIMARY KEY,
		version INT NOT NULL,
		lastReservationId BIGINT NOT NULL DEFAULT 0,
		payload MEDIUMBLOB NOT NULL,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`

// SnapshotRepository keeps one encoded store snapshot per name in the StoreSnapshot table.
type SnapshotRepository struct {
	db               *sql.DB
	logger           *zap.Logger
	maxRetryAttempts int
	backoffs         []time.Duration
}

func NewSnapshotRepository(db *sql.DB, logger *zap.Logger, maxRetryAttempts int) *SnapshotRepository {
	if maxRetryAttempts < 1 {
		maxRetryAttempts = 1
	}
	return &SnapshotRepository{
		db:               db,
		logger:           logger,
		maxRetryAttempts: maxRetryAttempts,
		// attempt 1 (0ms), attempt 2 (100ms), attempt 3 (200ms), later attempts reuse the last
		backoffs: []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond},
	}
}

func (r *SnapshotRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createSnapshotTable); err != nil {
		return fmt.Errorf("creating StoreSnapshot table: %w", err)
	}
	return nil
}

func (r *SnapshotRepository) Save(ctx context.Context, name string, snap *snapshot.Snapshot) error {
	payload, err := snapshot.Encode(snap)
	if err != nil {
		return err
	}

	return r.withRetry(ctx, name, func() error {
		return r.save(ctx, name, snap, payload)
	})
}

func (r *SnapshotRepository) save(ctx context.Context, name string, snap *snapshot.Snapshot, payload []byte) error {
	txCtx, cancel := context.WithTimeout(ctx, saveTxTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO StoreSnapshot (name, version, lastReservationId, payload)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			version = VALUES(version),
			lastReservationId = VALUES(lastReservationId),
			payload = VALUES(payload)
	`

	if _, err := tx.ExecContext(txCtx, query, name, snap.Version, snap.LastReservationID, payload); err != nil {
		return fmt.Errorf("upserting snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}

	return nil
}

func (r *SnapshotRepository) Load(ctx context.Context, name string) (*snapshot.Snapshot, error) {
	query := `SELECT payload FROM StoreSnapshot WHERE name = ?`

	var payload []byte
	err := r.db.QueryRowContext(ctx, query, name).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("snapshot %q: %w", name, ErrSnapshotNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying snapshot: %w", err)
	}

	return snapshot.Decode(payload)
}

func (r *SnapshotRepository) withRetry(ctx context.Context, name string, op func() error) error {
	var err error
	for attempt := 1; attempt <= r.maxRetryAttempts; attempt++ {
		err = op()
		if err == nil {
			return nil
		}

		if !isDeadlockError(err) {
			return err
		}

		if attempt == r.maxRetryAttempts {
			break
		}

		r.logger.Warn("deadlock detected, retrying",
			zap.Int("attempt", attempt), zap.Int("maxAttempts", r.maxRetryAttempts), zap.String("snapshot", name))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.backoff(attempt)):
		}
	}

	return fmt.Errorf("saving snapshot %q: max retries exceeded: %w", name, err)
}

// backoff returns the base delay for the given attempt with ±20% jitter.
func (r *SnapshotRepository) backoff(attempt int) time.Duration {
	if len(r.backoffs) == 0 {
		return 0
	}
	idx := attempt - 1
	if idx >= len(r.backoffs) {
		idx = len(r.backoffs) - 1
	}
	base := r.backoffs[idx]
	return time.Duration(float64(base) * (0.8 + rand.Float64()*0.4))
}

func isDeadlockError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1213 || mysqlErr.Number == 1205
	}
	return false
}
