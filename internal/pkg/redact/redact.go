// redact маскирует секреты перед записью в лог.
package redact

import "strings"

const (
	redactedToken    = "[REDACTED_TOKEN]"
	redactedPassword = "[REDACTED_PASSWORD]"
)

// Email оставляет первые две руны локальной части и домен.
func Email(s string) string {
	parts := strings.Split(s, "@")
	if len(parts) != 2 {
		return "***"
	}

	local, domain := []rune(parts[0]), parts[1]
	if len(local) > 2 {
		return string(local[:2]) + "***@" + domain
	}

	return "***@" + domain
}

// Token скрывает значение токена целиком; пустая строка остаётся пустой,
// чтобы в логе было видно, что токена не было.
func Token(tok string) string {
	if tok == "" {
		return ""
	}

	return redactedToken
}

// Authorization маскирует значение заголовка Authorization, сохраняя схему.
func Authorization(h string) string {
	if h == "" {
		return ""
	}

	scheme, _, found := strings.Cut(h, " ")
	if !found {
		return redactedToken
	}

	return scheme + " " + redactedToken
}

func Password() string { return redactedPassword }
