package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/config"
)

func newTestClient(srv *httptest.Server) *APIClient {
	return NewClient(config.WhatsAppConfig{
		AccessToken:   "token",
		PhoneNumberID: "12345",
		BaseURL:       srv.URL,
		APIVersion:    "v20.0",
	})
}

func TestSendText(t *testing.T) {
	var bodies []string
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v20.0/12345/messages", r.URL.Path)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))

		var payload struct {
			To   string `json:"to"`
			Text struct {
				Body string `json:"body"`
			} `json:"text"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "66810000000", payload.To)
		bodies = append(bodies, payload.Text.Body)

		n := calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.` + string(rune('0'+n)) + `"}]}`))
	}))
	defer srv.Close()

	long := strings.Repeat("ก", MaxTextLength) + "\nท้าย"
	ids, err := newTestClient(srv).SendText(context.Background(), "66810000000", long)
	require.NoError(t, err)
	assert.Equal(t, []string{"wamid.1", "wamid.2"}, ids)
	require.Len(t, bodies, 2)
	assert.Equal(t, MaxTextLength, len([]rune(bodies[0])))
}

func TestSendTextAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid OAuth access token","code":190}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).SendText(context.Background(), "66810000000", "hello")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, 190, apiErr.Code)
}

func TestSendTextEmpty(t *testing.T) {
	c := NewClient(config.WhatsAppConfig{BaseURL: "http://127.0.0.1:1", APIVersion: "v20.0"})
	_, err := c.SendText(context.Background(), "1", "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestSplitText(t *testing.T) {
	assert.Nil(t, SplitText(" \n ", 10))
	assert.Equal(t, []string{"abc"}, SplitText("abc", 10))
	assert.Equal(t, []string{"line one", "line two"}, SplitText("line one\nline two", 12))
	assert.Equal(t, []string{"abcde", "fghij", "k"}, SplitText("abcdefghijk", 5))
}
