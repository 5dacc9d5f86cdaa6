package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/tidwall/gjson"
	"golang.org/x/crypto/bcrypt"

	"bizbook/internal/config"
	"bizbook/internal/http/handlers"
	"bizbook/internal/repos"
	"bizbook/internal/services"
)

func init() { repos.BcryptCost = bcrypt.MinCost }

type testEnv struct {
	app  *fiber.App
	repo services.Repository
	auth *services.AuthService
}

// newEnv serves a fresh in-memory SQLite store with admin/admin123.
func newEnv(t *testing.T, mutate ...func(*config.Config)) *testEnv {
	t.Helper()
	db, err := repos.OpenDB("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return newEnvWith(t, repos.NewStore(db), mutate...)
}

func newEnvWith(t *testing.T, repo services.Repository, mutate ...func(*config.Config)) *testEnv {
	t.Helper()
	return newEnvStorage(t, repo, nil, mutate...)
}

// newEnvStorage is newEnvWith with the rate limiters backed by storage.
func newEnvStorage(t *testing.T, repo services.Repository, storage fiber.Storage, mutate ...func(*config.Config)) *testEnv {
	t.Helper()
	cfg := config.Defaults()
	cfg.LoginRateMax = 100
	for _, m := range mutate {
		m(&cfg)
	}
	auth := services.NewAuthService(repo, []byte("test-secret"), cfg.SessionTTL, bcrypt.MinCost)
	_ = auth.SetPassword(context.Background(), "admin", "admin123")
	app := handlers.NewApp(cfg, handlers.NewDeps(repo, auth, cfg), storage)
	return &testEnv{app: app, repo: repo, auth: auth}
}

// do sends body as JSON (a string is sent as is) with an optional bearer token.
func (e *testEnv) do(t *testing.T, method, path string, body any, token string) (*http.Response, string) {
	t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	raw, _ := io.ReadAll(resp.Body)
	return resp, string(raw)
}

func (e *testEnv) login(t *testing.T) string {
	t.Helper()
	resp, body := e.do(t, "POST", "/api/auth/login", map[string]string{"username": "admin", "password": "admin123"}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: %d %s", resp.StatusCode, body)
	}
	tok := gjson.Get(body, "token").String()
	if tok == "" {
		t.Fatalf("login returned no token: %s", body)
	}
	return tok
}

func cookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
