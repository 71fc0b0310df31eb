// Package request содержит типы полей входящих запросов, общие для обработчиков.
package request

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Checkbox — флажок HTML-формы. Браузер присылает для отмеченного флажка
// атрибут value (по умолчанию "on"), для неотмеченного поле отсутствует.
// Любое непустое значение, кроме "false", "0" и "off", считается отмеченным.
type Checkbox bool

// UnmarshalText разбирает значение поля формы.
func (c *Checkbox) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "false", "0", "off":
		*c = false
	default:
		*c = true
	}
	return nil
}

// UnmarshalJSON принимает как JSON-булево, так и строку.
func (c *Checkbox) UnmarshalJSON(data []byte) error {
	const op = "request.Checkbox.UnmarshalJSON"

	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*c = Checkbox(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return c.UnmarshalText([]byte(s))
}
