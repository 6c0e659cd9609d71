package service

import (
	"errors"
	"fmt"
)

// Ошибки ядра бронирования. Обработчики переводят их в ответы пользователю.
var (
	// ErrValidation заявка или профиль не проходят проверку, повтор бессмысленен
	ErrValidation = errors.New("validation failed")
	// ErrNotFound заявка с таким id не существует
	ErrNotFound = errors.New("not found")
	// ErrForbidden у пользователя нет прав на операцию
	ErrForbidden = errors.New("forbidden")
	// ErrConflict заявка уже в терминальном статусе
	ErrConflict = errors.New("conflict")
	// ErrStoreUnavailable ошибка хранилища или сети
	ErrStoreUnavailable = errors.New("store unavailable")
)

// IsDomainError проверяет что ошибка одна из ожидаемых ошибок ядра
func IsDomainError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrStoreUnavailable)
}

func storeError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}

// classify оставляет доменные ошибки как есть, остальное считает сбоем хранилища
func classify(op string, err error) error {
	if IsDomainError(err) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return storeError(op, err)
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func forbiddenError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}
