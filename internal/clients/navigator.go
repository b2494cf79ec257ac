package clients

import "strings"

// Navigator — куда отправить пользователя, когда сессия кончилась.
type Navigator interface {
	// Location — текущий экран/команда пользователя.
	Location() string
	// RedirectToLogin переводит пользователя на вход.
	RedirectToLogin(reason string)
}

// Экраны, на которых пользователь уже вне сессии: с них не перенаправляем.
var publicLocations = []string{"/login", "/register", "/confirm-email"}

// isPublicLocation — true, если пользователь на экране входа/регистрации.
func isPublicLocation(loc string) bool {
	for _, p := range publicLocations {
		if strings.Contains(loc, p) {
			return true
		}
	}

	return false
}

// nopNavigator — навигатор по умолчанию.
type nopNavigator struct{}

func (nopNavigator) Location() string { return "" }
func (nopNavigator) RedirectToLogin(string) {}
