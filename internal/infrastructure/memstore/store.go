// Package memstore keeps the roster and the import-run log in memory. Units of
// work operate on a private copy of the tables that replaces the committed
// state only when the callback succeeds, and savepoints are snapshots of that
// copy. It backs dry runs and tests.
package memstore

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sort"
	"sync"

	domain "github.com/mohammadpnp/roster-import/internal/domain/roster"
)

type membership struct {
	groupID   uint
	studentID uint
}

type tables struct {
	nextID      uint
	accounts    []domain.Account
	guardians   []domain.Guardian
	students    []domain.Student
	groups      []domain.Group
	memberships map[membership]struct{}
}

func newTables() tables {
	return tables{memberships: map[membership]struct{}{}}
}

func (t tables) clone() tables {
	return tables{
		nextID:      t.nextID,
		accounts:    slices.Clone(t.accounts),
		guardians:   slices.Clone(t.guardians),
		students:    slices.Clone(t.students),
		groups:      slices.Clone(t.groups),
		memberships: maps.Clone(t.memberships),
	}
}

type Store struct {
	// txMu admits one unit of work at a time.
	txMu sync.Mutex

	mu   sync.RWMutex
	data tables

	runMu          sync.RWMutex
	runs           map[string]domain.ImportRun
	rowErrors      map[string][]domain.RowError
	nextRowErrorID uint
}

var (
	_ domain.UnitOfWork          = (*Store)(nil)
	_ domain.ImportRunRepository = (*Store)(nil)
)

func New() *Store {
	return &Store{
		data:      newTables(),
		runs:      map[string]domain.ImportRun{},
		rowErrors: map[string][]domain.RowError{},
	}
}

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, store domain.RosterStore) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	tx := &txStore{t: s.data.clone(), savepoints: map[string]tables{}}
	s.mu.RUnlock()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	s.mu.Lock()
	s.data = tx.t
	s.mu.Unlock()
	return nil
}

func (s *Store) Accounts() []domain.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.data.accounts)
}

func (s *Store) Guardians() []domain.Guardian {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.data.guardians)
}

func (s *Store) Students() []domain.Student {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.data.students)
}

func (s *Store) Groups() []domain.Group {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.data.groups)
}

// GroupMembers returns the IDs of the students attached to a group, ascending.
func (s *Store) GroupMembers(groupID uint) []uint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []uint
	for m := range s.data.memberships {
		if m.groupID == groupID {
			ids = append(ids, m.studentID)
		}
	}
	slices.Sort(ids)
	return ids
}

func (s *Store) MembershipCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data.memberships)
}

func (s *Store) CreateRun(ctx context.Context, run domain.ImportRun) (domain.ImportRun, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	if run.ID == "" {
		return domain.ImportRun{}, fmt.Errorf("create import run: empty id")
	}
	if _, ok := s.runs[run.ID]; ok {
		return domain.ImportRun{}, &domain.PersistenceConstraintError{Entity: "import run", Constraint: "import_runs_pkey"}
	}
	run.Errors = nil
	s.runs[run.ID] = run
	return run, nil
}

func (s *Store) SaveRowErrors(ctx context.Context, runID string, rowErrors []domain.RowError) error {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	if _, ok := s.runs[runID]; !ok {
		return fmt.Errorf("save row errors for run %s: %w", runID, domain.ErrNotFound)
	}
	for _, rowErr := range rowErrors {
		s.nextRowErrorID++
		rowErr.ID = s.nextRowErrorID
		rowErr.ImportRunID = runID
		s.rowErrors[runID] = append(s.rowErrors[runID], rowErr)
	}
	return nil
}

func (s *Store) GetRun(ctx context.Context, runID string) (domain.ImportRun, error) {
	s.runMu.RLock()
	defer s.runMu.RUnlock()

	run, ok := s.runs[runID]
	if !ok {
		return domain.ImportRun{}, domain.ErrNotFound
	}
	run.Errors = slices.Clone(s.rowErrors[runID])
	sort.SliceStable(run.Errors, func(i, j int) bool { return run.Errors[i].RowIndex < run.Errors[j].RowIndex })
	return run, nil
}

// Runs lists every stored run without its row errors.
func (s *Store) Runs() []domain.ImportRun {
	s.runMu.RLock()
	defer s.runMu.RUnlock()
	return slices.Collect(maps.Values(s.runs))
}
