package service

import (
	"fmt"
	"strings"
)

// коды бизнес-ошибок, по ним слой HTTP подбирает статус ответа
const (
	CodeNotFound        = "NOT_FOUND"
	CodeValidation      = "VALIDATION_ERROR"
	CodeDuplicateID     = "DUPLICATE_ID"
	CodeStillReferenced = "STILL_REFERENCED"
)

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

func NewNotFound(id string) *BusinessError {
	return &BusinessError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("нота %s не найдена", id),
		Details: map[string]any{"id": id},
	}
}

func NewValidationError(field, reason string) *BusinessError {
	return &BusinessError{
		Code:    CodeValidation,
		Message: fmt.Sprintf("Неверное значение поля '%s': %s", field, reason),
		Details: map[string]any{
			"field":  field,
			"reason": reason,
		},
	}
}

func NewDuplicateID(id string) *BusinessError {
	return &BusinessError{
		Code:    CodeDuplicateID,
		Message: fmt.Sprintf("нота с id %s уже существует", id),
		Details: map[string]any{"id": id},
	}
}

func NewStillReferenced(id string, refs []string) *BusinessError {
	return &BusinessError{
		Code:    CodeStillReferenced,
		Message: fmt.Sprintf("на %s ссылаются другие ноты: %s", id, strings.Join(refs, ", ")),
		Details: map[string]any{
			"id":         id,
			"references": refs,
		},
	}
}

// newUnknownProject перечисляет доступные проекты, чтобы из текста
// ошибки было видно, что вообще можно указать
func newUnknownProject(id string, available []string) *BusinessError {
	reason := fmt.Sprintf("проект '%s' не существует", id)
	if len(available) > 0 {
		reason += ", доступны: " + strings.Join(available, ", ")
	} else {
		reason += ", проектов пока нет"
	}
	return NewValidationError("project", reason)
}

func newUnknownContext(name string, available []string) *BusinessError {
	reason := fmt.Sprintf("контекст '%s' не существует", name)
	if len(available) > 0 {
		reason += ", доступны: " + strings.Join(available, ", ")
	} else {
		reason += ", контекстов пока нет"
	}
	return NewValidationError("context", reason)
}
