package authgate

import (
	"net/http"
	"time"
)

// SetPair writes both token cookies to the response. Cookie lifetimes follow
// the token TTLs so the browser drops credentials no later than the tokens
// themselves expire.
func (c CookieConfig) SetPair(w http.ResponseWriter, pair *TokenPair, accessTTL, refreshTTL time.Duration) {
	if pair == nil {
		return
	}
	c.write(w, c.AccessName, pair.AccessToken, accessTTL)
	c.write(w, c.RefreshName, pair.RefreshToken, refreshTTL)
}

// Clear expires both token cookies. Used on logout and on terminal
// authentication failures.
func (c CookieConfig) Clear(w http.ResponseWriter) {
	c.write(w, c.AccessName, "", -time.Second)
	c.write(w, c.RefreshName, "", -time.Second)
}

func (c CookieConfig) write(w http.ResponseWriter, name, value string, ttl time.Duration) {
	path := c.Path
	if path == "" {
		path = "/"
	}
	maxAge := int(ttl / time.Second)
	if ttl < 0 {
		maxAge = -1
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Domain:   c.Domain,
		MaxAge:   maxAge,
		Secure:   c.Secure,
		HttpOnly: true,
		SameSite: c.SameSite,
	})
}
