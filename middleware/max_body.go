package middleware

import (
	"net/http"
	"os"
	"strconv"
)

const defaultMaxBody = 64 << 10 // 64 KiB, every write endpoint takes a small JSON body

// MaxBodyMiddleware caps request body size. Override with MAX_BODY_BYTES.
func MaxBodyMiddleware(next http.Handler) http.Handler {
	limit := int64(defaultMaxBody)
	if s := os.Getenv("MAX_BODY_BYTES"); s != "" {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil && v > 0 {
			limit = v
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
		next.ServeHTTP(w, r)
	})
}
