package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"ngoadmin/supplies"
)

// ErrUnauthorized is returned on 401; the caller should sign in again.
var ErrUnauthorized = errors.New("unauthorized")

// Messages used when the server does not send one.
const (
	MsgInvalidInput  = "البيانات المدخلة غير صالحة"
	MsgAlreadyExists = "هذا العنصر موجود مسبقا"
	MsgGeneric       = "حدث خطأ ما"
)

// APIError is a non-2xx reply other than 401.
type APIError struct {
	Status  int
	Message string
	Field   string
	// Violations lists the stock violations of a rejected item list.
	Violations []supplies.Violation
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// Is makes errors.Is(err, supplies.ErrQuantityExceedsStock) hold for
// stock rejections.
func (e *APIError) Is(target error) bool {
	return target == supplies.ErrQuantityExceedsStock && len(e.Violations) > 0
}

// ItemsError is returned by a two-phase create whose header was saved but
// whose items were rejected. The header stays on the server without items.
type ItemsError struct {
	ID  int
	Err error
}

func (e *ItemsError) Error() string {
	return fmt.Sprintf("record %d saved without items: %v", e.ID, e.Err)
}

func (e *ItemsError) Unwrap() error { return e.Err }

func decodeError(resp *http.Response) error {
	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	var body struct {
		Error   string          `json:"error"`
		Field   string          `json:"field"`
		Details json.RawMessage `json:"details"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	_ = json.Unmarshal(raw, &body)

	e := &APIError{Status: resp.StatusCode, Message: body.Error, Field: body.Field}
	if len(body.Details) > 0 {
		_ = json.Unmarshal(body.Details, &e.Violations)
	}
	if e.Message == "" {
		switch resp.StatusCode {
		case http.StatusBadRequest:
			e.Message = MsgInvalidInput
		case http.StatusConflict:
			e.Message = MsgAlreadyExists
		default:
			e.Message = MsgGeneric
		}
	}
	return e
}
