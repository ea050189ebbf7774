// ABOUTME: Resolves the calling user's identity for API and preview requests
// ABOUTME: Reads the X-User-ID header with a ?user= query fallback for iframes and websockets

package middleware

import (
	"net/http"
	"strings"
)

// UserIDHeader identifies the signed-in user. Authentication happens upstream;
// this service trusts the header.
const UserIDHeader = "X-User-ID"

// userQueryParam is the fallback for clients that cannot set headers (browser websockets)
const userQueryParam = "user"

// UserID returns the caller's user id, or "" when the request carries none
func UserID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(UserIDHeader)); id != "" {
		return id
	}
	return strings.TrimSpace(r.URL.Query().Get(userQueryParam))
}
