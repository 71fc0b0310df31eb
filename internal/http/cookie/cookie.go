// Package cookie выставляет и сбрасывает куку сессии.
package cookie

import (
	"net/http"
	"time"
)

// Config описывает параметры куки сессии.
type Config struct {
	Name   string
	Secure bool
}

// Set выставляет куку с токеном. Без persistent кука живёт до закрытия браузера,
// иначе получает Expires и Max-Age по expiresAt.
func (c Config) Set(w http.ResponseWriter, token string, expiresAt time.Time, persistent bool) {
	ck := &http.Cookie{
		Name:     c.Name,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if persistent {
		ck.Expires = expiresAt.UTC()
		ck.MaxAge = int(time.Until(expiresAt).Seconds())
	}
	http.SetCookie(w, ck)
}

// Clear удаляет куку на стороне клиента.
func (c Config) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
}
