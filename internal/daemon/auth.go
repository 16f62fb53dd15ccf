package daemon

import (
	"net/http"
	"strings"
)

const bearerScheme = "Bearer "

// requireBearer guards an API handler with a shared bearer token. With no
// token configured every request passes through unchecked.
func requireBearer(token string, next http.HandlerFunc) http.HandlerFunc {
	if token == "" {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, bearerScheme) || strings.TrimPrefix(header, bearerScheme) != token {
			http.Error(w, `{"error":"invalid or missing bearer token"}`, http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}
