package http_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/turnos-api/internal/application/dto"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
	"github.com/jhoicas/turnos-api/pkg/telegram"
)

func signedBody(t *testing.T, fields map[string]any) string {
	t.Helper()
	raw, err := json.Marshal(fields)
	require.NoError(t, err)
	p, err := telegram.DecodePayload(raw)
	require.NoError(t, err)
	fields["hash"] = telegram.Sign(testBotToken, p.CheckString())
	raw, err = json.Marshal(fields)
	require.NoError(t, err)
	return string(raw)
}

func TestAuthTelegram_EntregaCookieDeSesion(t *testing.T) {
	s := newTestServer(t)
	body := signedBody(t, map[string]any{"id": 42, "first_name": "Ana", "username": "ana", "auth_date": 1700000000})

	resp, out := s.do(t, http.MethodPost, "/api?action=auth-telegram", body, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, out)

	var user dto.UserInfo
	decode(t, out, &user)
	assert.Equal(t, int64(42), user.ID)
	assert.Equal(t, "pending", user.Shift)

	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 7*24*60*60, cookie.MaxAge)

	claims, err := s.sessions.Authenticate(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
}

func TestAuthTelegram_FirmaInvalida_Retorna403(t *testing.T) {
	s := newTestServer(t)
	body := signedBody(t, map[string]any{"id": 42, "first_name": "Ana"})
	body = strings.Replace(body, "Ana", "Eva", 1)

	resp, out := s.do(t, http.MethodPost, "/api?action=auth-telegram", body, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "INVALID_SIGNATURE", errorCode(t, out))
	assert.Nil(t, sessionCookie(resp))
	_, ok := s.store.User(42)
	assert.False(t, ok)
}

func TestAuthTelegram_CuerpoInvalido_Retorna400(t *testing.T) {
	s := newTestServer(t)

	resp, out := s.do(t, http.MethodPost, "/api?action=auth-telegram", `no-json`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, out))
}

func TestUserInfo_ReemiteCookieTrasAprobacion(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t, entity.User{ID: 42, FirstName: "Ana", Shift: entity.ShiftPending})
	s.store.SeedUser(entity.User{ID: 42, FirstName: "Ana", Shift: entity.ShiftEvening})

	resp, out := s.do(t, http.MethodGet, "/api?action=user-info", "", cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var info dto.UserInfoResponse
	decode(t, out, &info)
	assert.Equal(t, "Evening", info.User.Shift)

	fresh := sessionCookie(resp)
	require.NotNil(t, fresh, "el turno cambió: se emite una sesión nueva")
	claims, err := s.sessions.Authenticate(fresh.Value)
	require.NoError(t, err)
	assert.Equal(t, "Evening", claims.Shift)

	resp, _ = s.do(t, http.MethodGet, "/api?action=user-info", "", fresh)
	assert.Nil(t, sessionCookie(resp), "con el token al día no se reemite")
}

func TestUserInfo_UsuarioEliminado_Retorna404(t *testing.T) {
	s := newTestServer(t)
	res, err := s.sessions.Issue(&entity.User{ID: 77, Shift: entity.ShiftNight})
	require.NoError(t, err)

	resp, _ := s.do(t, http.MethodGet, "/api?action=user-info", "", &http.Cookie{Name: "session", Value: res.Token})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLogout_BorraCookie(t *testing.T) {
	s := newTestServer(t)

	resp, _ := s.do(t, http.MethodPost, "/api?action=logout", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	setCookie := strings.ToLower(resp.Header.Get("Set-Cookie"))
	assert.Contains(t, setCookie, "session=;")
	assert.Contains(t, setCookie, "expires=")
}
