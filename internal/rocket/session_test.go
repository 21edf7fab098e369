package rocket

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
)

func TestLogin_StoresSessionAndReturnsPayload(t *testing.T) {
	mux := http.NewServeMux()
	handleLogin(mux, nil, "tok-1", "U1")
	client, _ := newTestClient(t, mux)

	if client.IsAuthenticated() {
		t.Fatal("expected client to start unauthenticated")
	}

	info, err := client.Login(context.Background())
	if err != nil {
		t.Fatalf("expected login success, got %v", err)
	}

	if info.Token != "tok-1" {
		t.Errorf("expected token tok-1, got %q", info.Token)
	}
	if info.UserID != "U1" {
		t.Errorf("expected user id U1, got %q", info.UserID)
	}
	if info.Profile.Username != "svc-account" {
		t.Errorf("expected profile username svc-account, got %q", info.Profile.Username)
	}
	if info.Profile.Email != "svc@example.com" {
		t.Errorf("expected profile email svc@example.com, got %q", info.Profile.Email)
	}

	if !client.IsAuthenticated() {
		t.Fatal("expected client to be authenticated after login")
	}
}

func TestLogin_RejectedCredentials(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":"error","error":"Unauthorized"}`))
	})
	client, _ := newTestClient(t, mux)

	_, err := client.Login(context.Background())
	if !IsKind(err, KindAuthentication) {
		t.Fatalf("expected authentication error, got %v", err)
	}
	if client.IsAuthenticated() {
		t.Fatal("expected client to stay unauthenticated after rejected login")
	}
}

func TestLogin_MissingSessionData(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","data":{}}`))
	})
	client, _ := newTestClient(t, mux)

	_, err := client.Login(context.Background())
	if !IsKind(err, KindAuthentication) {
		t.Fatalf("expected authentication error for empty session data, got %v", err)
	}
}

func TestLogin_MalformedBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})
	client, _ := newTestClient(t, mux)

	_, err := client.Login(context.Background())
	if !IsKind(err, KindAuthentication) {
		t.Fatalf("expected authentication error for malformed body, got %v", err)
	}
}

func TestLogin_OverwritesPriorSession(t *testing.T) {
	var logins atomic.Int64
	var wantToken atomic.Value
	wantToken.Store("tok-1")

	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, _ *http.Request) {
		n := logins.Add(1)
		if n == 1 {
			_, _ = w.Write([]byte(`{"status":"success","data":{"authToken":"tok-1","userId":"U1"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"success","data":{"authToken":"tok-2","userId":"U1"}}`))
	})
	mux.HandleFunc("/channels.list", func(w http.ResponseWriter, r *http.Request) {
		requireSessionHeaders(t, r, wantToken.Load().(string), "U1")
		_, _ = w.Write([]byte(`{"channels":[],"count":0}`))
	})
	client, _ := newTestClient(t, mux)
	ctx := context.Background()

	if _, err := client.Login(ctx); err != nil {
		t.Fatalf("first login failed: %v", err)
	}
	if _, err := client.ListPublicChannels(ctx); err != nil {
		t.Fatalf("list with first session failed: %v", err)
	}

	// explicit re-login replaces the cached session
	if _, err := client.Login(ctx); err != nil {
		t.Fatalf("second login failed: %v", err)
	}
	wantToken.Store("tok-2")
	if _, err := client.ListPublicChannels(ctx); err != nil {
		t.Fatalf("list with second session failed: %v", err)
	}
}
