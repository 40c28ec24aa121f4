package repositories

import (
	"errors"
	"testing"

	"github.com/calegria/ytfill/internal/shared"
)

func TestLockRepository(t *testing.T) {
	t.Run("fresh lock acquires", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewLockRepository(db)

		handle, err := repo.Acquire(false, "worker-1")
		if err != nil {
			t.Fatalf("failed to acquire fresh lock: %v", err)
		}
		defer handle.Release()

		state, err := repo.State()
		if err != nil {
			t.Fatalf("failed to read state: %v", err)
		}
		if !state.Held || state.Holder != "worker-1" {
			t.Errorf("expected lock held by worker-1, got %+v", state)
		}
		if state.AcquiredAt.IsZero() {
			t.Error("expected acquisition timestamp")
		}
	})

	t.Run("held lock rejects second acquire", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewLockRepository(db)

		handle, err := repo.Acquire(false, "worker-1")
		if err != nil {
			t.Fatalf("failed to acquire lock: %v", err)
		}
		defer handle.Release()

		_, err = repo.Acquire(false, "worker-2")
		if !errors.Is(err, shared.ErrLockHeld) {
			t.Fatalf("expected ErrLockHeld, got %v", err)
		}

		var lockErr *shared.LockHeldError
		if !errors.As(err, &lockErr) {
			t.Fatalf("expected LockHeldError, got %T", err)
		}
		if lockErr.Holder != "worker-1" {
			t.Errorf("error should name the current holder, got %q", lockErr.Holder)
		}
		if lockErr.AcquiredAt.IsZero() {
			t.Error("error should carry the acquisition time")
		}
	})

	t.Run("force takes over a held lock", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewLockRepository(db)

		if _, err := repo.Acquire(false, "crashed-run"); err != nil {
			t.Fatalf("failed to acquire lock: %v", err)
		}

		handle, err := repo.Acquire(true, "worker-2")
		if err != nil {
			t.Fatalf("force acquire should succeed: %v", err)
		}
		defer handle.Release()

		state, err := repo.State()
		if err != nil {
			t.Fatalf("failed to read state: %v", err)
		}
		if state.Holder != "worker-2" {
			t.Errorf("expected takeover by worker-2, got %q", state.Holder)
		}
	})

	t.Run("release allows reacquisition", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewLockRepository(db)

		handle, err := repo.Acquire(false, "worker-1")
		if err != nil {
			t.Fatalf("failed to acquire lock: %v", err)
		}
		if err := handle.Release(); err != nil {
			t.Fatalf("failed to release lock: %v", err)
		}

		second, err := repo.Acquire(false, "worker-2")
		if err != nil {
			t.Fatalf("expected reacquisition to succeed: %v", err)
		}
		second.Release()
	})

	t.Run("double release is harmless", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewLockRepository(db)

		handle, err := repo.Acquire(false, "worker-1")
		if err != nil {
			t.Fatalf("failed to acquire lock: %v", err)
		}

		if err := handle.Release(); err != nil {
			t.Fatalf("first release failed: %v", err)
		}
		if err := handle.Release(); err != nil {
			t.Fatalf("second release failed: %v", err)
		}

		state, err := repo.State()
		if err != nil {
			t.Fatalf("failed to read state: %v", err)
		}
		if state.Held {
			t.Error("lock should be free after release")
		}
	})

	t.Run("clear frees a stuck lock", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewLockRepository(db)

		if _, err := repo.Acquire(false, "crashed-run"); err != nil {
			t.Fatalf("failed to acquire lock: %v", err)
		}
		if err := repo.Clear(); err != nil {
			t.Fatalf("failed to clear lock: %v", err)
		}

		handle, err := repo.Acquire(false, "worker-2")
		if err != nil {
			t.Fatalf("expected acquisition after clear: %v", err)
		}
		handle.Release()
	})

	t.Run("state of never-acquired lock", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewLockRepository(db)

		state, err := repo.State()
		if err != nil {
			t.Fatalf("failed to read state: %v", err)
		}
		if state.Held || state.Holder != "" {
			t.Errorf("expected empty state, got %+v", state)
		}
	})
}
