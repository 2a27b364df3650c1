package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/turnos-api/internal/application/approval"
	"github.com/jhoicas/turnos-api/internal/application/auth"
	"github.com/jhoicas/turnos-api/internal/application/dayoff"
	"github.com/jhoicas/turnos-api/internal/application/usecase"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
	apphttp "github.com/jhoicas/turnos-api/internal/interfaces/http"
	"github.com/jhoicas/turnos-api/internal/testutil/memstore"
	"github.com/jhoicas/turnos-api/pkg/config"
	"github.com/jhoicas/turnos-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testBotToken  = "123456:TEST-bot-token"
	testAdminID   = int64(900)
)

type testServer struct {
	app      *fiber.App
	store    *memstore.Store
	sessions *auth.SessionAuthenticator
}

// newTestServer arma la app completa sobre el store en memoria.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memstore.New()
	log := logger.Nop()
	sessions := auth.NewSessionAuthenticator(auth.SessionConfig{Secret: testJWTSecret, Issuer: "test", TTL: 7 * 24 * time.Hour})
	tg := config.TelegramConfig{BotToken: testBotToken, AdminIDs: []int64{testAdminID}}

	app := apphttp.NewApp("turnos-test", log)
	apphttp.Router(app, apphttp.RouterDeps{
		Sessions:     sessions,
		TelegramAuth: auth.NewTelegramAuthUseCase(store, sessions, tg, log),
		UserUC:       usecase.NewUserUseCase(store.Users, sessions),
		Admission:    dayoff.NewAdmissionUseCase(store, store.Users, store.Days, log),
		Approval:     approval.NewApprovalUseCase(store, store.Users, store.Days, log),
		Cookie:       config.CookieConfig{Secure: true},
	})
	return &testServer{app: app, store: store, sessions: sessions}
}

// login guarda el usuario y devuelve la cookie de sesión para su estado actual.
func (s *testServer) login(t *testing.T, u entity.User) *http.Cookie {
	t.Helper()
	s.store.SeedUser(u)
	res, err := s.sessions.Issue(&u)
	require.NoError(t, err)
	return &http.Cookie{Name: apphttp.SessionCookie, Value: res.Token}
}

// do lanza la petición y devuelve la respuesta con el cuerpo ya leído.
func (s *testServer) do(t *testing.T, method, target, body string, cookie *http.Cookie) (*http.Response, string) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(raw)
}

func decode(t *testing.T, body string, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(body), v), body)
}

func errorCode(t *testing.T, body string) string {
	t.Helper()
	var e struct {
		Code string `json:"code"`
	}
	decode(t, body, &e)
	return e.Code
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == apphttp.SessionCookie {
			return c
		}
	}
	return nil
}
