package repo

import (
	"errors"
	"fmt"
)

// Базовая таксономия ошибок хранилища. Сервисный слой пробрасывает их
// вызывающему коду без обёртки либо через %w.
var (
	// ErrNotFound — операция над неизвестным или уже удалённым навсегда id.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState — операция недопустима в текущем состоянии записи
	// (например, restore для неудалённой записи).
	ErrInvalidState = errors.New("invalid state")

	// ErrAlreadyExists — активная коллекция с таким именем уже существует.
	ErrAlreadyExists = errors.New("already exists")
)

// ValidationError — отсутствует или некорректно обязательное поле.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s %s", e.Field, e.Reason)
}
