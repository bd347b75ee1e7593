package memory

import (
	"context"
	"errors"
	"sync"

	"tracker/internal/core"
	"tracker/internal/storage"
)

// ErrClosed is returned by every operation once the store has been closed.
var ErrClosed = errors.New("memory store closed")

// Store keeps transactions in process memory. Ids are assigned per table
// starting at 1, like an autoincrement column.
type Store struct {
	mu       sync.Mutex
	expenses []core.Expense
	income   []core.Income
	closed   bool
}

var _ storage.Gateway = (*Store)(nil)

func New() *Store {
	return &Store{}
}

func (s *Store) EnsureSchema(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

// InsertExpense stores the expense and returns it with its id.
func (s *Store) InsertExpense(_ context.Context, e core.Expense) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return core.Expense{}, ErrClosed
	}
	e.ID = int64(len(s.expenses) + 1)
	s.expenses = append(s.expenses, e)
	return e, nil
}

// InsertIncome stores the income and returns it with its id.
func (s *Store) InsertIncome(_ context.Context, i core.Income) (core.Income, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return core.Income{}, ErrClosed
	}
	i.ID = int64(len(s.income) + 1)
	s.income = append(s.income, i)
	return i, nil
}

func (s *Store) FetchAllExpenses(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	return append([]core.Expense{}, s.expenses...), nil
}

func (s *Store) FetchAllIncome(_ context.Context) ([]core.Income, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	return append([]core.Income{}, s.income...), nil
}

func (s *Store) Ping(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
