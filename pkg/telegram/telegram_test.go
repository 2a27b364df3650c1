package telegram_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/turnos-api/pkg/telegram"
)

const botToken = "123456:TEST-bot-token"

func signed(t *testing.T, fields telegram.Payload) telegram.Payload {
	t.Helper()
	fields[telegram.HashField] = telegram.Sign(botToken, fields.CheckString())
	return fields
}

func TestCheckString_OrdenaYExcluyeHash(t *testing.T) {
	p := telegram.Payload{
		"username":   "ana",
		"id":         "42",
		"hash":       "deadbeef",
		"auth_date":  "1700000000",
		"first_name": "Ana",
	}
	assert.Equal(t, "auth_date=1700000000\nfirst_name=Ana\nid=42\nusername=ana", p.CheckString())
}

func TestVerify_FirmaValida(t *testing.T) {
	p := signed(t, telegram.Payload{"id": "42", "first_name": "Ana", "auth_date": "1700000000"})
	assert.True(t, telegram.Verify(botToken, p))
}

func TestVerify_HashEnMayusculas(t *testing.T) {
	p := signed(t, telegram.Payload{"id": "42", "first_name": "Ana"})
	p[telegram.HashField] = strings.ToUpper(p[telegram.HashField])
	assert.True(t, telegram.Verify(botToken, p))
}

func TestVerify_CampoAlterado(t *testing.T) {
	p := signed(t, telegram.Payload{"id": "42", "first_name": "Ana"})
	p["first_name"] = "Eva"
	assert.False(t, telegram.Verify(botToken, p))
}

func TestVerify_OtroToken(t *testing.T) {
	p := signed(t, telegram.Payload{"id": "42", "first_name": "Ana"})
	assert.False(t, telegram.Verify("otro:token", p))
}

func TestVerify_SinHash(t *testing.T) {
	assert.False(t, telegram.Verify(botToken, telegram.Payload{"id": "42"}))
	assert.False(t, telegram.Verify(botToken, telegram.Payload{"id": "42", "hash": "no-es-hex"}))
}

func TestDecodePayload_ConservaNumeros(t *testing.T) {
	p, err := telegram.DecodePayload([]byte(`{"id": 5123456789, "first_name": "Ana", "auth_date": 1700000000, "is_bot": false, "last_name": null}`))
	require.NoError(t, err)

	assert.Equal(t, "5123456789", p["id"])
	assert.Equal(t, "1700000000", p["auth_date"])
	assert.Equal(t, "false", p["is_bot"])
	assert.Equal(t, "null", p["last_name"])

	id, err := p.ID()
	require.NoError(t, err)
	assert.Equal(t, int64(5123456789), id)
}

func TestDecodePayload_Invalido(t *testing.T) {
	_, err := telegram.DecodePayload([]byte(`[1,2]`))
	assert.Error(t, err)

	_, err = telegram.DecodePayload([]byte(`{"photo": {"url": "x"}}`))
	assert.Error(t, err)

	_, err = telegram.DecodePayload([]byte(`null`))
	assert.Error(t, err)
}

func TestPayloadID_Invalido(t *testing.T) {
	_, err := telegram.Payload{}.ID()
	assert.Error(t, err)

	_, err = telegram.Payload{"id": "abc"}.ID()
	assert.Error(t, err)
}
