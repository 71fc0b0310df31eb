// Package storage реализует хранилище учётных записей на основе PostgreSQL.
// Уникальность e-mail обеспечивается ограничением UNIQUE на уровне таблицы.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/bank-portal/internal/models"
)

var (
	// ErrAccountNotFound — учётная запись не найдена.
	ErrAccountNotFound = errors.New("account not found")
	// ErrEmailExists — учётная запись с таким e-mail уже есть.
	ErrEmailExists = errors.New("email already exists")
)

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// Close закрывает пул соединений.
func (s *Storage) Close() error {
	return s.DB.Close()
}

// CreateAccount вставляет учётную запись одним INSERT и возвращает её с id и created_at.
// Нарушение уникальности e-mail возвращается как ErrEmailExists.
func (s *Storage) CreateAccount(ctx context.Context, acc models.Account) (*models.Account, error) {
	const op = "storage.CreateAccount"

	query := `INSERT INTO accounts (email, first_name, last_name, password_hash, role)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id, created_at`
	err := s.DB.QueryRowContext(ctx, query,
		acc.Email, acc.FirstName, acc.LastName, acc.PasswordHash, string(acc.Role),
	).Scan(&acc.ID, &acc.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, ErrEmailExists)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &acc, nil
}

// GetAccountByEmail возвращает учётную запись по точному совпадению e-mail.
func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	const op = "storage.GetAccountByEmail"

	query := `SELECT id, email, first_name, last_name, password_hash, role, created_at
			  FROM accounts
			  WHERE email = $1`
	acc, err := scanAccount(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return acc, nil
}

// GetAccountByID возвращает учётную запись по идентификатору.
func (s *Storage) GetAccountByID(ctx context.Context, id int64) (*models.Account, error) {
	const op = "storage.GetAccountByID"

	query := `SELECT id, email, first_name, last_name, password_hash, role, created_at
			  FROM accounts
			  WHERE id = $1`
	acc, err := scanAccount(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return acc, nil
}

func scanAccount(row *sql.Row) (*models.Account, error) {
	var (
		acc  models.Account
		role string
	)
	if err := row.Scan(&acc.ID, &acc.Email, &acc.FirstName, &acc.LastName,
		&acc.PasswordHash, &role, &acc.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	parsed, err := models.ParseRole(role)
	if err != nil {
		return nil, err
	}
	acc.Role = parsed
	return &acc, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
