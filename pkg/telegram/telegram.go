package telegram

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// HashField es el campo del payload que contiene la firma; no participa del check string.
const HashField = "hash"

// Payload campos recibidos del Telegram Login Widget, ya convertidos a texto.
type Payload map[string]string

// DecodePayload decodifica el cuerpo JSON del widget conservando los números tal como llegan
// (sin pasar por float64), para que el check string coincida con lo firmado por Telegram.
func DecodePayload(body []byte) (Payload, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("telegram: payload inválido: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("telegram: payload vacío")
	}
	out := make(Payload, len(raw))
	for k, v := range raw {
		s, err := stringify(v)
		if err != nil {
			return nil, fmt.Errorf("telegram: campo %q: %w", k, err)
		}
		out[k] = s
	}
	return out, nil
}

func stringify(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case bool:
		return strconv.FormatBool(t), nil
	case nil:
		return "null", nil
	default:
		return "", fmt.Errorf("tipo no soportado %T", v)
	}
}

// CheckString arma "key=value" por cada campo excepto hash, ordenados por clave y unidos con '\n'.
func (p Payload) CheckString() string {
	keys := make([]string, 0, len(p))
	for k := range p {
		if k == HashField {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(p[k])
	}
	return b.String()
}

// Sign calcula hex(HMAC-SHA256(SHA256(botToken), checkString)).
func Sign(botToken, checkString string) string {
	key := sha256.Sum256([]byte(botToken))
	mac := hmac.New(sha256.New, key[:])
	mac.Write([]byte(checkString))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify compara en tiempo constante la firma del payload contra la esperada.
func Verify(botToken string, p Payload) bool {
	got, ok := p[HashField]
	if !ok || got == "" || botToken == "" {
		return false
	}
	gotBytes, err := hex.DecodeString(strings.ToLower(got))
	if err != nil {
		return false
	}
	want, _ := hex.DecodeString(Sign(botToken, p.CheckString()))
	return hmac.Equal(gotBytes, want)
}

// ID devuelve el id numérico de Telegram del payload.
func (p Payload) ID() (int64, error) {
	raw, ok := p["id"]
	if !ok {
		return 0, fmt.Errorf("telegram: falta id")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("telegram: id inválido %q", raw)
	}
	return id, nil
}
