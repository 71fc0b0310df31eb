// Package models содержит доменную модель учётной записи банка-демо,
// включающую идентификатор, e-mail, хэш пароля и роль.
// Структура используется в бизнес‑логике и при работе с хранилищем.
package models

import (
	"fmt"
	"time"
)

// Role — закрытый перечень ролей учётной записи.
type Role string

const (
	// RoleRegular — обычный пользователь.
	RoleRegular Role = "user"
	// RoleMerchant — продавец (мерчант).
	RoleMerchant Role = "merchant"
)

// RoleFromFlag возвращает роль по флагу "зарегистрироваться как мерчант".
func RoleFromFlag(isMerchant bool) Role {
	if isMerchant {
		return RoleMerchant
	}
	return RoleRegular
}

// ParseRole разбирает значение роли, сохранённое в хранилище.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleRegular:
		return RoleRegular, nil
	case RoleMerchant:
		return RoleMerchant, nil
	default:
		return "", fmt.Errorf("models.ParseRole: unknown role %q", s)
	}
}

// Account представляет зарегистрированную учётную запись.
type Account struct {
	ID           int64     `json:"id"`         // Суррогатный идентификатор, выдаётся хранилищем
	Email        string    `json:"email"`      // Электронная почта (уникальная)
	FirstName    string    `json:"first_name"` // Имя
	LastName     string    `json:"last_name"`  // Фамилия
	PasswordHash string    `json:"-"`          // Хэш пароля, наружу не отдаётся
	Role         Role      `json:"role"`       // Роль, задаётся один раз при регистрации
	CreatedAt    time.Time `json:"created_at"`
}

// FullName возвращает имя для отображения на дашборде.
func (a *Account) FullName() string {
	return a.FirstName + " " + a.LastName
}
