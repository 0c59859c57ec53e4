package server

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fliptech/ftab/internal/env"
)

const (
	storageCookiePrefix = "ab_test_"
	storageCookieMaxAge = 365 * 24 * time.Hour
)

// CookieStorage implements env.Storage over the visitor's cookies for the
// duration of one request. Writes are visible to later reads in the same
// request and are sent back as Set-Cookie headers.
type CookieStorage struct {
	r       *http.Request
	w       http.ResponseWriter
	secure  bool
	pending map[string]*string // nil value marks a removal
}

var _ env.Storage = (*CookieStorage)(nil)

func NewCookieStorage(w http.ResponseWriter, r *http.Request) *CookieStorage {
	return &CookieStorage{
		r:       r,
		w:       w,
		secure:  isSecure(r),
		pending: make(map[string]*string),
	}
}

func (c *CookieStorage) Get(key string) (string, bool, error) {
	if v, ok := c.pending[key]; ok {
		if v == nil {
			return "", false, nil
		}
		return *v, true, nil
	}
	cookie, err := c.r.Cookie(key)
	if err != nil {
		return "", false, nil
	}
	v, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return "", false, nil
	}
	return v, true, nil
}

func (c *CookieStorage) Set(key, value string) error {
	c.pending[key] = &value
	c.write(key, url.QueryEscape(value), int(storageCookieMaxAge/time.Second))
	return nil
}

func (c *CookieStorage) Remove(key string) error {
	c.pending[key] = nil
	c.write(key, "", -1)
	return nil
}

// write sets a cookie the page can send back from another site. Browsers
// only accept SameSite=None on secure cookies, so plain HTTP stays Lax.
func (c *CookieStorage) write(name, value string, maxAge int) {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if c.secure {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteNoneMode
	}
	http.SetCookie(c.w, cookie)
}

// isSecure reports whether the visitor reached us over TLS, directly or
// through a terminating proxy.
func isSecure(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// Clear removes every experimentation cookie the visitor sent or that was
// set during this request.
func (c *CookieStorage) Clear() error {
	keys := make(map[string]bool)
	for _, cookie := range c.r.Cookies() {
		if strings.HasPrefix(cookie.Name, storageCookiePrefix) {
			keys[cookie.Name] = true
		}
	}
	for k, v := range c.pending {
		if v != nil {
			keys[k] = true
		}
	}
	for k := range keys {
		c.Remove(k)
	}
	return nil
}
