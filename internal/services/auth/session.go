package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/magabrotheeeer/bank-portal/internal/lib/sl"
	"github.com/magabrotheeeer/bank-portal/internal/models"
	"github.com/magabrotheeeer/bank-portal/internal/storage"
)

// Session — результат успешного входа.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Remember  bool
	AccountID int64
	Role      models.Role
}

// Login проверяет пару e-mail/пароль и открывает сессию.
//
// Для несуществующего e-mail пароль всё равно сверяется с фиктивным хэшем,
// так что ответ по времени и по содержанию не отличается от неверного пароля.
func (s *AuthService) Login(ctx context.Context, email, password string, remember bool) (*Session, error) {
	const op = "services.auth.Login"

	acc, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			s.hasher.Verify(password, s.hasher.DummyHash())
			s.log.Info("login rejected", sl.Email(email))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
	}

	if !s.hasher.Verify(password, acc.PasswordHash) {
		s.log.Info("login rejected", sl.Email(email))
		return nil, ErrInvalidCredentials
	}

	sessionID := uuid.NewString()
	token, expiresAt, err := s.jwtMaker.GenerateToken(acc.ID, sessionID, remember)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil, fmt.Errorf("%s: token already expired", op)
	}
	if err := s.sessions.SaveSession(ctx, sessionID, acc.ID, ttl); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
	}

	s.log.Info("login succeeded", slog.Int64("account_id", acc.ID), slog.Bool("remember", remember))

	return &Session{
		Token:     token,
		ExpiresAt: expiresAt,
		Remember:  remember,
		AccountID: acc.ID,
		Role:      acc.Role,
	}, nil
}

// Resolve возвращает учётную запись владельца токена.
// Отсутствующий, невалидный, истёкший или отозванный токен даёт ErrNoIdentity.
func (s *AuthService) Resolve(ctx context.Context, token string) (*models.Account, error) {
	const op = "services.auth.Resolve"

	if token == "" {
		return nil, ErrNoIdentity
	}
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, ErrNoIdentity
	}

	accountID, ok, err := s.sessions.SessionAccount(ctx, claims.SessionID())
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
	}
	if !ok || accountID != claims.AccountID {
		return nil, ErrNoIdentity
	}

	acc, err := s.accounts.GetAccountByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			return nil, ErrNoIdentity
		}
		return nil, fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
	}
	return acc, nil
}

// Logout отзывает сессию. Повторный вызов и вызов без сессии не считаются ошибкой.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	const op = "services.auth.Logout"

	if token == "" {
		return nil
	}
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil
	}
	if err := s.sessions.DeleteSession(ctx, claims.SessionID()); err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
	}
	s.log.Info("logout", slog.Int64("account_id", claims.AccountID))
	return nil
}
