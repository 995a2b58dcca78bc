package models

import "errors"

// FieldError is a validation failure bound to one input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// NewFieldError returns a *FieldError for field.
func NewFieldError(field, msg string) error {
	return &FieldError{Field: field, Message: msg}
}

func fieldErr(field, msg string) error { return NewFieldError(field, msg) }

// Shared messages.
const (
	MsgRequired     = "هذا الحقل مطلوب"
	MsgInvalidValue = "قيمة غير صالحة"
)

var ErrAlreadyCompleted = errors.New("المشروع مكتمل بالفعل")
