package repositories

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/calegria/ytfill/internal/shared"
)

// RunLockState is the persisted state of the single enrichment lock slot.
type RunLockState struct {
	Held       bool
	Holder     string
	AcquiredAt time.Time
}

// LockRepository coordinates exclusive enrichment runs through a single-row
// enrichment_lock table. Because the state lives in the database rather than
// in process memory, a lock left behind by a crashed run is visible to the
// next invocation, which can take it over with force.
//
// There is no expiry: a held lock persists until released or forced.
type LockRepository struct {
	db *sql.DB
}

// NewLockRepository creates a LockRepository. It needs the full *sql.DB
// because acquisition is its own check-and-set transaction.
func NewLockRepository(db *sql.DB) *LockRepository {
	return &LockRepository{db: db}
}

// State reads the current lock slot. A missing row means the lock has never
// been acquired.
func (r *LockRepository) State() (*RunLockState, error) {
	var (
		held       bool
		holder     string
		acquiredAt sql.NullTime
	)
	err := r.db.QueryRow("SELECT held, holder, acquired_at FROM enrichment_lock WHERE id = 1").
		Scan(&held, &holder, &acquiredAt)
	if err == sql.ErrNoRows {
		return &RunLockState{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read lock state: %w", err)
	}

	state := &RunLockState{Held: held, Holder: holder}
	if acquiredAt.Valid {
		state.AcquiredAt = acquiredAt.Time
	}
	return state, nil
}

// Acquire attempts to take the enrichment lock for the given holder.
// If the lock is already held and force is false, it fails with a
// *shared.LockHeldError describing the current holder. force=true overwrites
// any existing lock unconditionally.
//
// The check and the write happen in one transaction, so two concurrent
// acquires cannot both succeed.
func (r *LockRepository) Acquire(force bool, holder string) (*LockHandle, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin lock transaction: %w", err)
	}
	defer tx.Rollback()

	var (
		held       bool
		current    string
		acquiredAt sql.NullTime
	)
	err = tx.QueryRow("SELECT held, holder, acquired_at FROM enrichment_lock WHERE id = 1").
		Scan(&held, &current, &acquiredAt)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to read lock state: %w", err)
	}

	if held && !force {
		lockErr := &shared.LockHeldError{Holder: current}
		if acquiredAt.Valid {
			lockErr.AcquiredAt = acquiredAt.Time
		}
		return nil, lockErr
	}

	_, err = tx.Exec(`
		INSERT INTO enrichment_lock (id, held, holder, acquired_at)
		VALUES (1, 1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET held = 1, holder = excluded.holder, acquired_at = excluded.acquired_at
	`, holder, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to write lock state: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit lock acquisition: %w", err)
	}

	return &LockHandle{repo: r}, nil
}

// Clear releases the lock unconditionally. Operator recovery path for locks
// left behind by crashed runs.
func (r *LockRepository) Clear() error {
	return r.release()
}

func (r *LockRepository) release() error {
	_, err := r.db.Exec("UPDATE enrichment_lock SET held = 0, holder = '', acquired_at = NULL WHERE id = 1")
	if err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}

// LockHandle represents a successfully acquired lock. Release is safe to call
// multiple times and from deferred paths; only the first call touches the
// database.
type LockHandle struct {
	repo *LockRepository
	once sync.Once
}

// Release clears the lock slot exactly once.
func (h *LockHandle) Release() error {
	var err error
	h.once.Do(func() {
		err = h.repo.release()
	})
	return err
}
