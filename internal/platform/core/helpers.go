package core

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/sessions"
)

// SessionName is the cookie holding the CSRF token and flash messages.
const SessionName = "userdir_session"

// WriteJSON marshals JSON responses and sets the content type.
func WriteJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	_ = enc.Encode(data)
}

// IsSafeRedirect ensures redirect targets stay on the same host.
func IsSafeRedirect(r *http.Request, target string) bool {
	if target == "" {
		return false
	}
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	if u.IsAbs() {
		return u.Host == r.Host && (u.Scheme == "http" || u.Scheme == "https")
	}
	if strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return false
	}
	return strings.HasPrefix(target, "/")
}

// PositiveInt parses raw as an integer >= 1, returning fallback otherwise.
func PositiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// RandomToken returns a hex-encoded random token (fallbacks to time-based string).
func RandomToken(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}

// SubtleCompare uses constant-time comparison for security tokens.
func SubtleCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// PopFlash removes and returns the first pending flash message, if any.
func PopFlash(session *sessions.Session) string {
	for _, f := range session.Flashes() {
		if msg, ok := f.(string); ok && msg != "" {
			return msg
		}
	}
	return ""
}
