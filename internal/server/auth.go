package server

import (
	"crypto/subtle"
	"net"
	"net/http"
	"strings"
)

// Authentication failure messages.
const (
	detailMissingCredentials = "缺少认证凭证，请提供 X-API-Key 或 ?api_key=xxx"
	detailInvalidKey         = "认证失败，API Key 无效"
)

type authenticator struct {
	apiKey      string
	allowNoAuth bool
}

// middleware rejects requests without a valid API key. With allowNoAuth set,
// loopback clients are admitted without one.
func (a authenticator) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.allowNoAuth && isLoopback(clientIP(r)) {
			next.ServeHTTP(w, r)
			return
		}

		token := requestToken(r)
		if token == "" {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeDetail(w, http.StatusUnauthorized, detailMissingCredentials)
			return
		}
		if !a.verify(token) {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeDetail(w, http.StatusUnauthorized, detailInvalidKey)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// verify compares token with the configured key in constant time.
// No key is valid when none is configured.
func (a authenticator) verify(token string) bool {
	if a.apiKey == "" || strings.TrimSpace(token) == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(a.apiKey)) == 1
}

// requestToken returns the key from the Authorization bearer token, the
// X-API-Key header or the api_key query parameter, in that order.
func requestToken(r *http.Request) string {
	if scheme, cred, ok := strings.Cut(r.Header.Get("Authorization"), " "); ok &&
		strings.EqualFold(scheme, "Bearer") && strings.TrimSpace(cred) != "" {
		return strings.TrimSpace(cred)
	}
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key
	}
	return r.URL.Query().Get("api_key")
}

// clientIP returns the first X-Forwarded-For entry, or the remote address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
