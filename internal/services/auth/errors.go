package services

import "errors"

var (
	// ErrInvalidEmail — e-mail не содержит "@" или ".".
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrWeakPassword — пароль короче MinPasswordLength символов.
	ErrWeakPassword = errors.New("password must be at least 6 characters")
	// ErrPasswordTooLong — пароль длиннее, чем принимает bcrypt.
	ErrPasswordTooLong = errors.New("password must be at most 72 bytes")
	// ErrMissingName — не заполнены имя или фамилия.
	ErrMissingName = errors.New("first and last name are required")
	// ErrEmailTaken — учётная запись с таким e-mail уже существует.
	ErrEmailTaken = errors.New("email already registered, please log in")
	// ErrInvalidCredentials — общий отказ при входе, одинаковый для
	// несуществующего e-mail и неверного пароля.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrNoIdentity — токен отсутствует, невалиден, отозван или указывает на несуществующую запись.
	ErrNoIdentity = errors.New("no identity")
	// ErrStorageUnavailable — хранилище учётных записей или реестр сессий недоступны.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// IsValidationError сообщает, относится ли ошибка к ошибкам ввода при регистрации.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidEmail) ||
		errors.Is(err, ErrWeakPassword) ||
		errors.Is(err, ErrPasswordTooLong) ||
		errors.Is(err, ErrMissingName) ||
		errors.Is(err, ErrEmailTaken)
}
