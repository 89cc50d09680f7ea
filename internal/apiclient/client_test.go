package apiclient

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryTokens struct {
	access  string
	refresh string
	cleared bool
}

func (m *memoryTokens) AccessToken() string  { return m.access }
func (m *memoryTokens) RefreshToken() string { return m.refresh }
func (m *memoryTokens) SetAccessToken(token string) error {
	m.access = token
	return nil
}
func (m *memoryTokens) ClearSession() error {
	m.access = ""
	m.refresh = ""
	m.cleared = true
	return nil
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newTestClient(baseURL string, tokens TokenStore) *Client {
	return New(Options{BaseURL: baseURL}, tokens, newNoopLogger(), nil)
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"without api segment", "http://localhost:8000", "http://localhost:8000/api"},
		{"with api segment", "http://localhost:8000/api", "http://localhost:8000/api"},
		{"trailing slashes", "http://localhost:8000/api///", "http://localhost:8000/api"},
		{"trailing slash without api", "http://club.example/", "http://club.example/api"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeBaseURL(tt.raw))
		})
	}
}

func TestDo_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, &memoryTokens{access: "t1"})
	res := client.Get(context.Background(), "auth/me/")

	require.True(t, res.Success)
	assert.Equal(t, "Bearer t1", gotAuth)
}

func TestDo_NoTokenNoHeader(t *testing.T) {
	var hasAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, &memoryTokens{})
	res := client.Get(context.Background(), "tienda/productos/")

	require.True(t, res.Success)
	assert.False(t, hasAuth)
}

func TestDo_RefreshRetryOn401(t *testing.T) {
	// Сценарий: запрос к pagos/online/ получает 401, refresh выдаёт t2,
	// повтор уходит с Bearer t2 и его результат прозрачно возвращается.
	var attempts []string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/pagos/online/", func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		attempts = append(attempts, auth)
		if auth != "Bearer t2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`[{"id":1}]`))
	})
	mux.HandleFunc("/api/auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access":"t2"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	tokens := &memoryTokens{access: "t1", refresh: "r1"}
	client := newTestClient(srv.URL, tokens)

	res := client.Get(context.Background(), "pagos/online/")

	require.True(t, res.Success)
	assert.JSONEq(t, `[{"id":1}]`, string(res.Data))
	assert.Equal(t, []string{"Bearer t1", "Bearer t2"}, attempts)
	assert.Equal(t, "t2", tokens.access)
}

func TestDo_RefreshFailureTerminatesSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/pagos/online/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/api/auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Token is invalid or expired"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	tokens := &memoryTokens{access: "t1", refresh: "r1"}
	client := newTestClient(srv.URL, tokens)
	var expired bool
	client.SetSessionExpiredHandler(func() { expired = true })

	res := client.Get(context.Background(), "pagos/online/")

	require.False(t, res.Success)
	assert.Equal(t, http.StatusUnauthorized, res.Error.Status)
	assert.Equal(t, "Token is invalid or expired", res.Error.Message)
	assert.True(t, tokens.cleared)
	assert.True(t, expired)
}

func TestDo_NoRefreshForAuthEntryPoints(t *testing.T) {
	var refreshCalled bool
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"No active account found with the given credentials"}`))
	})
	mux.HandleFunc("/api/auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshCalled = true
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	tokens := &memoryTokens{refresh: "r1"}
	client := newTestClient(srv.URL, tokens)

	res := client.Post(context.Background(), "auth/login/", map[string]string{"email": "a@b.com"})

	require.False(t, res.Success)
	assert.False(t, refreshCalled)
	assert.False(t, tokens.cleared)
	assert.Equal(t, "No active account found with the given credentials", res.Error.Message)
}

func TestDo_NetworkErrorIsStatusZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // закрываем сразу, чтобы получить сетевую ошибку

	client := newTestClient(srv.URL, &memoryTokens{})
	res := client.Get(context.Background(), "tienda/productos/")

	require.False(t, res.Success)
	assert.Equal(t, StatusNetworkError, res.Error.Status)
	assert.Equal(t, MsgNetworkError, res.Error.Message)
}

func TestNormalize_MessagePrecedence(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"message field", `{"message":"Monto inválido"}`, "Monto inválido"},
		{"detail field", `{"detail":"Matrícula no encontrada"}`, "Matrícula no encontrada"},
		{"message wins over detail", `{"message":"a","detail":"b"}`, "a"},
		{"no fields", `{}`, MsgServerError},
		{"not json", `<html>`, MsgServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := normalize(http.StatusBadRequest, []byte(tt.body))
			assert.Equal(t, tt.want, apiErr.Message)
			assert.Equal(t, http.StatusBadRequest, apiErr.Status)
		})
	}
}

func TestAs_DecodesEnvelope(t *testing.T) {
	type payload struct {
		ID int `json:"id"`
	}

	ok := As[payload](Result{Success: true, Data: []byte(`{"id":7}`)})
	require.True(t, ok.Success)
	assert.Equal(t, 7, ok.Data.ID)

	failed := As[payload](Result{Error: &APIError{Status: 400, Message: "bad"}})
	require.False(t, failed.Success)
	assert.Equal(t, 400, failed.Error.Status)

	malformed := As[payload](Result{Success: true, Data: []byte(`"not an object"`)})
	require.False(t, malformed.Success)
	assert.Equal(t, StatusSetupError, malformed.Error.Status)
}
