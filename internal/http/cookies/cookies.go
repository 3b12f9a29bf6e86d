// Package cookies устанавливает и очищает сессионную cookie.
// Токен сессии живет только в HttpOnly cookie и недоступен скриптам.
package cookies

import (
	"net/http"
	"time"
)

// SetSession устанавливает сессионную cookie с токеном.
func SetSession(w http.ResponseWriter, name, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSession сбрасывает сессионную cookie.
func ClearSession(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
