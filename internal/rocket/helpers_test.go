package rocket

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
)

// newTestClient spins up a fake upstream server and a client pointed at it.
func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	disabled := zerolog.New(nil)
	client, err := NewClient(srv.Client(), Credentials{
		URL:      srv.URL,
		User:     "svc-account",
		Password: "svc-password",
	}, &disabled)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client, srv
}

// handleLogin registers a login handler that counts calls and hands out the
// given token/user id.
func handleLogin(mux *http.ServeMux, calls *atomic.Int64, token, userID string) {
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			calls.Add(1)
		}
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		fmt.Fprintf(w, `{"status":"success","data":{"authToken":%q,"userId":%q,"me":{"_id":%q,"username":"svc-account","name":"Service Account","email":"svc@example.com"}}}`,
			token, userID, userID)
	})
}

func requireSessionHeaders(t *testing.T, r *http.Request, token, userID string) {
	t.Helper()
	if got := r.Header.Get("X-Auth-Token"); got != token {
		t.Errorf("expected X-Auth-Token %q, got %q", token, got)
	}
	if got := r.Header.Get("X-User-Id"); got != userID {
		t.Errorf("expected X-User-Id %q, got %q", userID, got)
	}
}
