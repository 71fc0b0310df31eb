// Package password реализует функции для безопасного хеширования и проверки паролей.
//
// CompareHash сравнивает исходный bcrypt-хеш с введённым паролем, проверяя их соответствие.
// Hasher хеширует и проверяет пароли с настраиваемой стоимостью bcrypt.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// dummyPassword используется только для выравнивания времени проверки
// при входе с несуществующим e-mail.
const dummyPassword = "dummy-password-for-timing-only"

// CompareHash сравнивает bcrypt‑хэш с введённым паролем.
//
// Возвращает nil, если пароль соответствует хэшу, иначе — ошибку.
func CompareHash(originalHash, externalPassword string) error {
	const op = "password.CompareHash"
	if err := bcrypt.CompareHashAndPassword([]byte(originalHash), []byte(externalPassword)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Hasher — медленная солёная односторонняя функция с фиксированной стоимостью.
type Hasher struct {
	cost      int
	dummyHash string
}

// NewHasher создаёт Hasher. Стоимость вне диапазона bcrypt заменяется на bcrypt.DefaultCost.
//
// Служебный хэш для выравнивания времени вычисляется здесь же, чтобы
// первый вход с неизвестным e-mail не был медленнее последующих.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	h := &Hasher{cost: cost}
	// dummyPassword короче 72 байт, ошибка здесь невозможна.
	h.dummyHash, _ = h.Hash(dummyPassword)
	return h
}

// Cost возвращает стоимость bcrypt, с которой работает Hasher.
func (h *Hasher) Cost() int {
	return h.cost
}

// Hash возвращает bcrypt-хэш пароля. Соль случайна для каждого вызова.
func (h *Hasher) Hash(password string) (string, error) {
	const op = "password.Hash"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashedPassword), nil
}

// Verify сообщает, соответствует ли пароль хэшу.
func (h *Hasher) Verify(password, hash string) bool {
	return CompareHash(hash, password) == nil
}

// DummyHash возвращает хэш служебного пароля той же стоимости,
// вычисленный при создании Hasher.
func (h *Hasher) DummyHash() string {
	return h.dummyHash
}
