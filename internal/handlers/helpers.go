package handlers

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/service"
)

// SessionHeader carries the browser session a request belongs to
const SessionHeader = "X-Session-ID"

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

// scopeFrom reads the session and display language of a request
func scopeFrom(r *http.Request) service.Scope {
	return service.Scope{
		Session: service.NormalizeSessionID(r.Header.Get(SessionHeader)),
		Lang:    langFrom(r),
	}
}

// langFrom prefers the lang query parameter over Accept-Language
func langFrom(r *http.Request) string {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		return lang
	}
	return r.Header.Get("Accept-Language")
}

// decodeJSON reads a size-limited JSON body into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// parseProductID accepts a product id sent as a JSON number or string
func parseProductID(v any) (int64, bool) {
	switch id := v.(type) {
	case float64:
		if id != math.Trunc(id) || id < 1 || id > math.MaxInt32 {
			return 0, false
		}
		return int64(id), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
		if err != nil || n < 1 {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
