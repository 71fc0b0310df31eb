package jwt

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CustomClaims описывает данные сессии, хранящиеся в токене.
type CustomClaims struct {
	AccountID            int64 `json:"account_id"` // Идентификатор учётной записи
	Remember             bool  `json:"remember"`   // Долгоживущая сессия
	jwt.RegisteredClaims       // ID — идентификатор сессии, ExpiresAt, IssuedAt
}

// SessionID возвращает идентификатор сессии из стандартного поля jti.
func (c *CustomClaims) SessionID() string {
	return c.ID
}

// GenerateToken создает токен с заданными идентификаторами, подписывая его секретным ключом.
func (j *MakerImpl) GenerateToken(accountID int64, sessionID string, remember bool) (string, time.Time, error) {
	const op = "jwt.GenerateToken"
	now := j.now()
	expiresAt := now.Add(j.TTL(remember))
	claims := CustomClaims{
		AccountID: accountID,
		Remember:  remember,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   strconv.FormatInt(accountID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%s: %w", op, err)
	}
	return signed, expiresAt, nil
}

// ParseToken парсит токен, проверяет его подпись, алгоритм и срок действия,
// возвращает CustomClaims с данными, если токен корректен.
func (j *MakerImpl) ParseToken(tokenStr string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(j.now))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	if claims.AccountID <= 0 || claims.ID == "" {
		return nil, fmt.Errorf("%s: incomplete claims", op)
	}
	return claims, nil
}
