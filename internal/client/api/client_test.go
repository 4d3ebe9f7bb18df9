package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/goalkeeper/internal/client/config"
	"github.com/dmitrijs2005/goalkeeper/internal/common"
)

func newTestClient(serverURL string) *Client {
	return NewClient(&config.Config{ServerURL: serverURL, RequestTimeout: 2 * time.Second})
}

func TestLoginStoresTokens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			t.Errorf("path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"accessToken": "a1", "refreshToken": "r1"})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if c.LoggedIn() {
		t.Fatal("fresh client must not be logged in")
	}
	if err := c.Login(context.Background(), "a@b.c", "pw"); err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if !c.LoggedIn() {
		t.Fatal("client must be logged in after login")
	}

	c.Logout()
	if c.LoggedIn() {
		t.Fatal("logout must drop tokens")
	}
}

func TestRetryAfterRefresh(t *testing.T) {
	var refreshed atomic.Bool

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			json.NewEncoder(w).Encode(map[string]string{"accessToken": "stale", "refreshToken": "r1"})
		case "/api/auth/refresh":
			refreshed.Store(true)
			json.NewEncoder(w).Encode(map[string]string{"accessToken": "fresh", "refreshToken": "r2"})
		case "/api/users/me":
			if r.Header.Get("Authorization") != "Bearer fresh" {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": "token expired"})
				return
			}
			json.NewEncoder(w).Encode(map[string]any{"userId": "u1", "budget": 100})
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if err := c.Login(context.Background(), "a@b.c", "pw"); err != nil {
		t.Fatalf("Login error: %v", err)
	}

	me, err := c.Me(context.Background())
	if err != nil {
		t.Fatalf("Me error: %v", err)
	}
	if !refreshed.Load() {
		t.Fatal("client must have refreshed the token")
	}
	if me.UserID != "u1" || me.Budget != 100 {
		t.Fatalf("me: %+v", me)
	}
}

func TestStatusErrorMapping(t *testing.T) {
	status := http.StatusNotFound
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]string{"error": "nope"})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	cases := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, common.ErrorNotFound},
		{http.StatusConflict, common.ErrorAlreadyExists},
		{http.StatusForbidden, common.ErrorForbidden},
		{http.StatusUnprocessableEntity, common.ErrorInsufficientBudget},
		{http.StatusBadRequest, common.ErrorValidation},
	}
	for _, tc := range cases {
		status = tc.status
		_, err := c.ListGoals(context.Background())
		if !errors.Is(err, tc.want) {
			t.Errorf("status %d: want %v, got %v", tc.status, tc.want, err)
		}
	}
}

func TestUnavailableServer(t *testing.T) {
	c := newTestClient("http://127.0.0.1:1")
	if _, err := c.ListGoals(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("want ErrUnavailable, got %v", err)
	}
}

func TestRefreshWithoutToken(t *testing.T) {
	c := newTestClient("http://unused")
	if err := c.Refresh(context.Background()); !errors.Is(err, common.ErrorUnauthenticated) {
		t.Fatalf("want ErrorUnauthenticated, got %v", err)
	}
}
