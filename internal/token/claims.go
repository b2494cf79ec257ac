package token

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin — роль администратора в клеймах бэкенда.
const RoleAdmin = "ADMIN"

// defaultRole — роль, если в токене её нет.
const defaultRole = "USER"

// Claims — декодированная полезная нагрузка JWT. Подпись не проверяется.
type Claims struct {
	Subject   string
	UserID    string
	Username  string
	Email     string
	Role      string
	ExpiresAt time.Time
	// Raw — полезная нагрузка целиком, как её прислал сервер.
	Raw jwt.MapClaims
}

// IsAdmin — подсказка для интерфейса, не решение о доступе.
func (c *Claims) IsAdmin() bool {
	return strings.EqualFold(strings.TrimPrefix(c.Role, "ROLE_"), RoleAdmin)
}

// parser декодирует сегменты base64url с необязательным паддингом.
var parser = jwt.NewParser(jwt.WithPaddingAllowed())

// ParseClaims разбирает строку вида header.payload.signature.
// Любая ошибка формата даёт (nil, false).
func ParseClaims(raw string) (*Claims, bool) {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return nil, false
	}

	payload, err := parser.DecodeSegment(parts[1])
	if err != nil {
		return nil, false
	}

	var mc jwt.MapClaims
	if err := json.Unmarshal(payload, &mc); err != nil || mc == nil {
		return nil, false
	}

	sub, _ := mc.GetSubject()

	c := &Claims{
		Subject:  sub,
		UserID:   firstString(mc, "userId", "sub"),
		Username: firstString(mc, "username", "sub"),
		Email:    firstString(mc, "email"),
		Role:     firstString(mc, "roles", "role"),
		Raw:      mc,
	}
	if c.Role == "" {
		c.Role = defaultRole
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}

	return c, true
}

// firstString возвращает первое непустое значение среди ключей.
// Числа форматируются без экспоненты, у массивов берётся первый элемент.
func firstString(mc jwt.MapClaims, keys ...string) string {
	for _, k := range keys {
		if s := claimString(mc[k]); s != "" {
			return s
		}
	}

	return ""
}

func claimString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case []any:
		for _, item := range x {
			if s := claimString(item); s != "" {
				return s
			}
		}
	case map[string]any:
		// {"authority": "ROLE_USER"} — формат Spring Security.
		if s, ok := x["authority"].(string); ok {
			return s
		}
	}

	return ""
}
