// Package services содержит логику бизнес-уровня для регистрации учётных записей
// и сессионной аутентификации.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/magabrotheeeer/bank-portal/internal/lib/jwt"
	"github.com/magabrotheeeer/bank-portal/internal/lib/sl"
	"github.com/magabrotheeeer/bank-portal/internal/models"
	"github.com/magabrotheeeer/bank-portal/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength — минимальная длина пароля при регистрации.
const MinPasswordLength = 6

// AccountRepository описывает контракт хранилища учётных записей.
type AccountRepository interface {
	// CreateAccount сохраняет запись; при совпадении e-mail возвращает storage.ErrEmailExists.
	CreateAccount(ctx context.Context, acc models.Account) (*models.Account, error)
	// GetAccountByEmail возвращает запись или storage.ErrAccountNotFound.
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	// GetAccountByID возвращает запись или storage.ErrAccountNotFound.
	GetAccountByID(ctx context.Context, id int64) (*models.Account, error)
}

// SessionRegistry хранит активные сессии, чтобы их можно было отозвать до истечения токена.
type SessionRegistry interface {
	SaveSession(ctx context.Context, sessionID string, accountID int64, ttl time.Duration) error
	SessionAccount(ctx context.Context, sessionID string) (int64, bool, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// Hasher — медленная солёная функция хэширования паролей.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
	DummyHash() string
}

// Publisher публикует доменные события.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// RegisterInput — данные формы регистрации.
type RegisterInput struct {
	Email      string
	FirstName  string
	LastName   string
	Password   string
	IsMerchant bool
}

// AccountRegistered — событие об успешной регистрации.
type AccountRegistered struct {
	AccountID int64       `json:"account_id"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

// AuthService отвечает за регистрацию, вход, определение личности по токену и выход.
type AuthService struct {
	accounts AccountRepository
	sessions SessionRegistry
	hasher   Hasher
	jwtMaker jwt.Maker
	log      *slog.Logger

	events     Publisher
	routingKey string
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(accounts AccountRepository, sessions SessionRegistry, hasher Hasher, jwtMaker jwt.Maker, log *slog.Logger) *AuthService {
	return &AuthService{
		accounts: accounts,
		sessions: sessions,
		hasher:   hasher,
		jwtMaker: jwtMaker,
		log:      log,
	}
}

// WithEvents включает публикацию события AccountRegistered с ключом routingKey.
func (s *AuthService) WithEvents(events Publisher, routingKey string) *AuthService {
	s.events = events
	s.routingKey = routingKey
	return s
}

// Register проверяет данные и создаёт учётную запись.
//
// Порядок проверок: формат e-mail, длина пароля, имя и фамилия, занятость e-mail.
// При любой ошибке запись не создаётся.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.Account, error) {
	const op = "services.auth.Register"

	if !validEmail(in.Email) {
		return nil, ErrInvalidEmail
	}
	if utf8.RuneCountInString(in.Password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return nil, ErrMissingName
	}

	_, err := s.accounts.GetAccountByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, ErrEmailTaken
	case !errors.Is(err, storage.ErrAccountNotFound):
		return nil, fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, ErrPasswordTooLong
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	acc, err := s.accounts.CreateAccount(ctx, models.Account{
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: hashed,
		Role:         models.RoleFromFlag(in.IsMerchant),
	})
	if err != nil {
		if errors.Is(err, storage.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
	}

	s.log.Info("account registered", slog.Int64("account_id", acc.ID), slog.String("role", string(acc.Role)))
	s.publishRegistered(ctx, acc)

	return acc, nil
}

func (s *AuthService) publishRegistered(ctx context.Context, acc *models.Account) {
	if s.events == nil {
		return
	}
	event := AccountRegistered{
		AccountID: acc.ID,
		Email:     acc.Email,
		Role:      acc.Role,
		CreatedAt: acc.CreatedAt,
	}
	if err := s.events.Publish(ctx, s.routingKey, event); err != nil {
		s.log.Warn("failed to publish account registered event", slog.Int64("account_id", acc.ID), sl.Err(err))
	}
}

func validEmail(email string) bool {
	return strings.Contains(email, "@") && strings.Contains(email, ".")
}
