package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/server/handlers"
	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/service/serials"
)

func TestRoutes(t *testing.T) {
	r := New(handlers.NewReceivingHandler(nil, nil), handlers.NewToolsHandler(serials.NewGenerator(), nil), nil)

	cases := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/api/v1/serials/preview?code=tv", http.StatusOK},
		{http.MethodPost, "/api/v1/receipts/abc/items", http.StatusBadRequest},
		{http.MethodGet, "/api/v1/unknown", http.StatusNotFound},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, tc.want, w.Code, tc.path)
	}
}
