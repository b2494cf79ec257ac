package token

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// mint подписывает полезную нагрузку HS256, как это делает бэкенд.
func mint(t *testing.T, payload map[string]any) string {
	t.Helper()

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims(payload)).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestParseClaims_RoundTrip(t *testing.T) {
	t.Parallel()

	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	payload := map[string]any{
		"sub":    "mark",
		"userId": 7,
		"email":  "mark@twain.cards",
		"role":   "ADMIN",
		"exp":    exp.Unix(),
		"nested": map[string]any{"a": []any{1, "two"}},
	}

	c, ok := ParseClaims(mint(t, payload))
	require.True(t, ok)

	require.Equal(t, "mark", c.Subject)
	require.Equal(t, "7", c.UserID)
	require.Equal(t, "mark", c.Username)
	require.Equal(t, "mark@twain.cards", c.Email)
	require.Equal(t, "ADMIN", c.Role)
	require.True(t, c.IsAdmin())
	require.True(t, exp.Equal(c.ExpiresAt))

	// Raw совпадает с исходным объектом после JSON-нормализации.
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	var want map[string]any
	require.NoError(t, json.Unmarshal(raw, &want))
	require.Equal(t, jwt.MapClaims(want), c.Raw)
}

func TestParseClaims_Fallbacks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		payload      map[string]any
		wantID       string
		wantUsername string
		wantRole     string
	}{
		{
			name:         "sub_only",
			payload:      map[string]any{"sub": "anna"},
			wantID:       "anna",
			wantUsername: "anna",
			wantRole:     "USER",
		},
		{
			name:         "explicit_fields",
			payload:      map[string]any{"sub": "anna", "userId": 12, "username": "Anna K", "role": "USER"},
			wantID:       "12",
			wantUsername: "Anna K",
			wantRole:     "USER",
		},
		{
			name:         "roles_wins_over_role",
			payload:      map[string]any{"sub": "x", "roles": []any{"ROLE_ADMIN"}, "role": "USER"},
			wantID:       "x",
			wantUsername: "x",
			wantRole:     "ROLE_ADMIN",
		},
		{
			name:         "spring_authorities",
			payload:      map[string]any{"sub": "x", "roles": []any{map[string]any{"authority": "ROLE_USER"}}},
			wantID:       "x",
			wantUsername: "x",
			wantRole:     "ROLE_USER",
		},
		{
			name:     "empty_object",
			payload:  map[string]any{},
			wantRole: "USER",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, ok := ParseClaims(mint(t, tt.payload))
			require.True(t, ok)
			require.Equal(t, tt.wantID, c.UserID)
			require.Equal(t, tt.wantUsername, c.Username)
			require.Equal(t, tt.wantRole, c.Role)
		})
	}
}

func TestParseClaims_PaddingOptional(t *testing.T) {
	t.Parallel()

	// 13 байт: в base64 остаётся хвост, который дополняется "==".
	body := []byte(`{"sub":"abc"}`)
	unpadded := base64.RawURLEncoding.EncodeToString(body)
	padded := base64.URLEncoding.EncodeToString(body)
	require.NotEqual(t, unpadded, padded)

	for _, seg := range []string{unpadded, padded} {
		c, ok := ParseClaims("h." + seg + ".s")
		require.True(t, ok, seg)
		require.Equal(t, "abc", c.Subject)
	}
}

func TestParseClaims_Malformed(t *testing.T) {
	t.Parallel()

	enc := func(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }

	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "one_part", raw: "abc"},
		{name: "two_parts", raw: "a." + enc(`{"sub":"x"}`)},
		{name: "four_parts", raw: "a." + enc(`{"sub":"x"}`) + ".b.c"},
		{name: "bad_base64", raw: "a.!!!.b"},
		{name: "not_json", raw: "a." + enc("hello") + ".b"},
		{name: "json_null", raw: "a." + enc("null") + ".b"},
		{name: "json_array", raw: "a." + enc(`["x"]`) + ".b"},
		{name: "json_string", raw: "a." + enc(`"x"`) + ".b"},
		{name: "truncated_json", raw: "a." + enc(`{"sub":`) + ".b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.NotPanics(t, func() {
				c, ok := ParseClaims(tt.raw)
				require.False(t, ok)
				require.Nil(t, c)
			})
		})
	}
}

func TestClaims_IsAdmin(t *testing.T) {
	t.Parallel()

	require.True(t, (&Claims{Role: "ADMIN"}).IsAdmin())
	require.True(t, (&Claims{Role: "ROLE_ADMIN"}).IsAdmin())
	require.True(t, (&Claims{Role: "admin"}).IsAdmin())
	require.False(t, (&Claims{Role: "USER"}).IsAdmin())
}
