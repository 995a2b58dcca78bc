package testutils

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// WithChiURLParams puts path parameters into the chi route context so a
// handler can be called directly, without a router.
func WithChiURLParams(req *http.Request, params map[string]string) *http.Request {
	chiCtx := chi.NewRouteContext()
	for k, v := range params {
		chiCtx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, chiCtx))
}

// WithID sets the {id} parameter every record route uses.
func WithID(req *http.Request, id int) *http.Request {
	return WithChiURLParams(req, map[string]string{"id": strconv.Itoa(id)})
}
