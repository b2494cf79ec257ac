package clients

// Эндпоинты аутентификации.
const (
	LoginPath                = "/api/auth/login"
	RegisterPath             = "/api/auth/register"
	RefreshPath              = "/api/auth/refresh-token"
	StatusPath               = "/api/auth/status"
	RequestPasswordResetPath = "/api/auth/request-password-reset"
	ResetPasswordPath        = "/api/auth/reset-password"
	ConfirmEmailPath         = "/api/v1/confirm"
)

// publicPaths — запросы, к которым Bearer-токен не прикладывается.
var publicPaths = map[string]struct{}{
	LoginPath:                {},
	RegisterPath:             {},
	RefreshPath:              {},
	RequestPasswordResetPath: {},
	ResetPasswordPath:        {},
	ConfirmEmailPath:         {},
}

func isPublicPath(p string) bool {
	_, ok := publicPaths[p]
	return ok
}
