// Package compare implements the device-local comparison set: up to five job ids the user
// has shortlisted for side-by-side comparison. The set is persisted after every mutation
// and resolved into full job records with a single batch request.
package compare

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/jonathan/jobhunter/internal/storage"
	"github.com/jonathan/jobhunter/internal/types"
	"github.com/sirupsen/logrus"
)

// StorageKey is the key the id list is persisted under.
const StorageKey = "compare_list"

// MaxSize is the capacity of the set.
const MaxSize = 5

// MinResolve is the smallest set that can be compared.
const MinResolve = 2

// Validation failures. They are expected user-facing conditions, not system errors.
var (
	ErrAlreadyPresent    = errors.New("job is already in the comparison list")
	ErrNotPresent        = errors.New("job is not in the comparison list")
	ErrCapacityExceeded  = fmt.Errorf("comparison list is full (max %d jobs)", MaxSize)
	ErrInsufficientItems = fmt.Errorf("select at least %d jobs to compare", MinResolve)
)

// Resolver fetches full job records for a batch of ids in one request.
type Resolver interface {
	Compare(ctx context.Context, ids []int64) ([]types.JobDetail, error)
}

// Set is the persisted comparison set. Mutations are serialized: each read-modify-write
// cycle holds the set's lock until the storage write has completed.
type Set struct {
	store    storage.Store
	resolver Resolver
	logger   logrus.FieldLogger

	mu sync.Mutex
}

// NewSet creates a set persisted in store. resolver may be nil if Resolve is never called.
func NewSet(store storage.Store, resolver Resolver, logger logrus.FieldLogger) *Set {
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}
	return &Set{store: store, resolver: resolver, logger: logger}
}

// Add appends id and returns the new size.
func (s *Set) Add(ctx context.Context, id int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	if slices.Contains(ids, id) {
		return len(ids), ErrAlreadyPresent
	}
	if len(ids) >= MaxSize {
		return len(ids), ErrCapacityExceeded
	}

	ids = append(ids, id)
	if err := s.save(ctx, ids); err != nil {
		return len(ids) - 1, err
	}
	s.logger.WithFields(logrus.Fields{"job_id": id, "size": len(ids)}).Debug("added job to comparison list")
	return len(ids), nil
}

// Remove deletes id and returns the new size. Removing the last id deletes the stored record.
func (s *Set) Remove(ctx context.Context, id int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	idx := slices.Index(ids, id)
	if idx < 0 {
		return len(ids), ErrNotPresent
	}

	ids = slices.Delete(ids, idx, idx+1)
	if err := s.save(ctx, ids); err != nil {
		return len(ids) + 1, err
	}
	s.logger.WithFields(logrus.Fields{"job_id": id, "size": len(ids)}).Debug("removed job from comparison list")
	return len(ids), nil
}

// Toggle adds id when absent and removes it when present. It reports whether id is in the set afterwards.
func (s *Set) Toggle(ctx context.Context, id int64) (bool, int, error) {
	s.mu.Lock()
	present, err := s.containsLocked(ctx, id)
	s.mu.Unlock()
	if err != nil {
		return false, 0, err
	}

	// A concurrent mutation between the check and the call surfaces as
	// ErrAlreadyPresent or ErrNotPresent, never as a lost update.
	if present {
		size, err := s.Remove(ctx, id)
		if err != nil {
			return true, size, err
		}
		return false, size, nil
	}
	size, err := s.Add(ctx, id)
	if err != nil {
		return false, size, err
	}
	return true, size, nil
}

// Clear deletes the stored record.
func (s *Set) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("failed to clear comparison list: %w", err)
	}
	return nil
}

// IDs returns the stored ids in insertion order.
func (s *Set) IDs(ctx context.Context) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Size returns the number of stored ids.
func (s *Set) Size(ctx context.Context) (int, error) {
	ids, err := s.IDs(ctx)
	return len(ids), err
}

// Contains reports whether id is in the set.
func (s *Set) Contains(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.containsLocked(ctx, id)
}

// Exists reports whether a record is stored at all. It is false both before the first
// add and after the last remove.
func (s *Set) Exists(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.store.Get(ctx, StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read comparison list: %w", err)
	}
	return true, nil
}

// Resolve fetches the full records of every stored job with one batch request. Records are
// returned in server order, which may differ from insertion order.
func (s *Set) Resolve(ctx context.Context) ([]types.JobDetail, error) {
	ids, err := s.IDs(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) < MinResolve {
		return nil, ErrInsufficientItems
	}
	if s.resolver == nil {
		return nil, errors.New("comparison list has no resolver")
	}

	details, err := s.resolver.Compare(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve comparison list: %w", err)
	}
	return details, nil
}

func (s *Set) containsLocked(ctx context.Context, id int64) (bool, error) {
	ids, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(ids, id), nil
}

// load reads the stored ids. A missing record is an empty set.
func (s *Set) load(ctx context.Context) ([]int64, error) {
	data, err := s.store.Get(ctx, StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		return []int64{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read comparison list: %w", err)
	}

	var ids []int64
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("failed to parse comparison list: %w", err)
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids, nil
}

// save persists ids, deleting the record when the set is empty.
func (s *Set) save(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		if err := s.store.Delete(ctx, StorageKey); err != nil {
			return fmt.Errorf("failed to delete comparison list: %w", err)
		}
		return nil
	}

	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to marshal comparison list: %w", err)
	}
	if err := s.store.Set(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("failed to save comparison list: %w", err)
	}
	return nil
}
