// Package memory — хранилище учётных записей в памяти процесса.
// Используется в тестах сервисов и HTTP-маршрутов.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/magabrotheeeer/bank-portal/internal/models"
	"github.com/magabrotheeeer/bank-portal/internal/storage"
)

// Storage хранит учётные записи по id с индексом по e-mail.
type Storage struct {
	mu      sync.RWMutex
	nextID  int64
	byID    map[int64]models.Account
	byEmail map[string]int64
}

// New создаёт пустое хранилище.
func New() *Storage {
	return &Storage{
		byID:    make(map[int64]models.Account),
		byEmail: make(map[string]int64),
	}
}

// CreateAccount атомарно проверяет уникальность e-mail и сохраняет запись.
func (s *Storage) CreateAccount(ctx context.Context, acc models.Account) (*models.Account, error) {
	const op = "memory.CreateAccount"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[acc.Email]; ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrEmailExists)
	}
	s.nextID++
	acc.ID = s.nextID
	acc.CreatedAt = time.Now().UTC()
	s.byID[acc.ID] = acc
	s.byEmail[acc.Email] = acc.ID

	return &acc, nil
}

// GetAccountByEmail возвращает копию учётной записи по e-mail.
func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	const op = "memory.GetAccountByEmail"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrAccountNotFound)
	}
	acc := s.byID[id]
	return &acc, nil
}

// GetAccountByID возвращает копию учётной записи по id.
func (s *Storage) GetAccountByID(ctx context.Context, id int64) (*models.Account, error) {
	const op = "memory.GetAccountByID"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrAccountNotFound)
	}
	return &acc, nil
}

// Len возвращает число сохранённых учётных записей.
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
