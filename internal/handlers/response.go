package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ngoadmin/db"
	"ngoadmin/internal/files"
	"ngoadmin/models"
	"ngoadmin/supplies"
)

// Response is the envelope of every JSON reply.
type Response struct {
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Field   string `json:"field,omitempty"`
	Details any    `json:"details,omitempty"`
}

// Error messages shown by the admin screens.
const (
	MsgInvalidInput  = "البيانات المدخلة غير صالحة"
	MsgAlreadyExists = "هذا العنصر موجود مسبقا"
	MsgInUse         = "لا يمكن الحذف لأن العنصر مرتبط بسجلات أخرى"
	MsgNotFound      = "العنصر غير موجود"
	MsgGeneric       = "حدث خطأ ما"
)

// TotalCountHeader carries the number of matching rows before pagination.
const TotalCountHeader = "x-total-count"

// badRequest marks malformed input that is not bound to a field.
type badRequest struct{ msg string }

func (e badRequest) Error() string { return e.msg }

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Data: data})
}

func writeErrorResponse(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeErrorResponse(w, status, Response{Error: msg})
}

// writeList writes one page of items with the total before pagination.
func writeList(w http.ResponseWriter, items any, total int) {
	w.Header().Set(TotalCountHeader, strconv.Itoa(total))
	w.Header().Set("Access-Control-Expose-Headers", TotalCountHeader+", Content-Disposition")
	writeJSON(w, http.StatusOK, items)
}

var inputErrors = []error{
	supplies.ErrSubCategoryRequired,
	supplies.ErrUnknownSubCategory,
	supplies.ErrInvalidQuantity,
	supplies.ErrCashOnly,
}

// handleError maps err to a status and message. Anything unexpected is
// logged and answered with a generic 500.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		fe  *models.FieldError
		se  *supplies.StockError
		bad badRequest
	)
	switch {
	case errors.As(err, &fe):
		writeErrorResponse(w, http.StatusBadRequest, Response{Error: fe.Message, Field: fe.Field})
		return
	case errors.As(err, &se):
		writeErrorResponse(w, http.StatusBadRequest, Response{
			Error:   supplies.ErrQuantityExceedsStock.Error(),
			Field:   "items",
			Details: se.Violations,
		})
		return
	case errors.As(err, &bad):
		writeError(w, http.StatusBadRequest, bad.msg)
		return
	case errors.Is(err, db.ErrBelowAllocated):
		writeErrorResponse(w, http.StatusBadRequest, Response{Error: db.ErrBelowAllocated.Error(), Field: "quantity"})
		return
	case errors.Is(err, db.ErrNotFound):
		writeError(w, http.StatusNotFound, MsgNotFound)
		return
	case errors.Is(err, models.ErrAlreadyCompleted):
		writeError(w, http.StatusConflict, models.ErrAlreadyCompleted.Error())
		return
	case db.IsConstraint(err, db.CodeUniqueViolation):
		writeError(w, http.StatusConflict, MsgAlreadyExists)
		return
	case db.IsConstraint(err, db.CodeForeignKeyViolation):
		writeError(w, http.StatusConflict, MsgInUse)
		return
	case errors.Is(err, files.ErrInvalidPath):
		writeError(w, http.StatusNotFound, MsgNotFound)
		return
	}
	for _, sentinel := range inputErrors {
		if errors.Is(err, sentinel) {
			writeErrorResponse(w, http.StatusBadRequest, Response{Error: sentinel.Error(), Field: "items"})
			return
		}
	}

	slog.Error("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
		"error", err)
	writeError(w, http.StatusInternalServerError, MsgGeneric)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1048576))
	if err := dec.Decode(v); err != nil {
		return badRequest{msg: MsgInvalidInput}
	}
	return nil
}

// urlID reads the {id} path parameter.
func urlID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, badRequest{msg: "معرف غير صالح"}
	}
	return id, nil
}
