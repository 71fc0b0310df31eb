// Package jwt реализует генерацию и парсинг подписанных токенов сессии.
//
// Maker определяет интерфейс для создания и проверки токенов с идентификатором
// учётной записи и сессии. MakerImpl — конкретная реализация на HS256
// с секретным ключом и двумя сроками жизни: обычным и "запомнить меня".
package jwt

import (
	"time"
)

// Maker описывает интерфейс для генерации и парсинга токенов сессии.
type Maker interface {
	// GenerateToken подписывает токен для учётной записи и сессии,
	// возвращает токен и момент его истечения.
	GenerateToken(accountID int64, sessionID string, remember bool) (string, time.Time, error)
	// ParseToken проверяет подпись и срок действия, возвращает *CustomClaims.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа.
type MakerImpl struct {
	secretKey   string        // Секретный ключ для подписи токенов.
	tokenTTL    time.Duration // Время жизни токена сессии браузера.
	rememberTTL time.Duration // Время жизни токена "запомнить меня".
	now         func() time.Time
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl, rememberTTL time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey:   secretKey,
		tokenTTL:    ttl,
		rememberTTL: rememberTTL,
		now:         time.Now,
	}
}

// TTL возвращает срок жизни токена в зависимости от флага "запомнить меня".
func (j *MakerImpl) TTL(remember bool) time.Duration {
	if remember {
		return j.rememberTTL
	}
	return j.tokenTTL
}
