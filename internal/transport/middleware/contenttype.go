package middleware

import (
	"encoding/json"
	"mime"
	"net/http"

	errors "github.com/frahmantamala/asset-management/internal"
)

// RequireJSON rejects body-carrying requests whose Content-Type is not JSON.
// GET, HEAD and DELETE pass through untouched.
func RequireJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			ct := r.Header.Get("Content-Type")
			mediaType, _, err := mime.ParseMediaType(ct)
			if err != nil || mediaType != "application/json" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnsupportedMediaType)
				_ = json.NewEncoder(w).Encode(errors.ErrUnsupportedContentType)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}
