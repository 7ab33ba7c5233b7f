package digify

import "net/http"

// Default cookie names written by the attribution middleware. Deployments
// that rename cookies pass their own names to the Read helpers.
const (
	DefaultVisitorCookie   = "_digify"
	DefaultSessionIDCookie = "_digify_sid"
)

// Bundle is the decoded attribution state available to boundary consumers
// such as form handlers. A nil Visitor means "no attribution available yet",
// not an error.
type Bundle struct {
	Visitor   *Visitor `json:"visitor,omitempty"`
	SessionID string   `json:"sessionId,omitempty"`
}

// ReadVisitor decodes the visitor cookie from the request, accepting either
// wire format. Returns false when the cookie is absent or undecodable.
func ReadVisitor(r *http.Request, name string) (Visitor, bool) {
	cookie, err := r.Cookie(name)
	if err != nil {
		return Visitor{}, false
	}

	var visitor Visitor
	if !DecodeCookie(cookie.Value, &visitor) {
		return Visitor{}, false
	}
	return visitor, true
}

// ReadSessionID returns the current session id from the readable mirror
// cookie, or "" when absent.
func ReadSessionID(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// ReadBundle collects the full attribution bundle from a request's cookies.
func ReadBundle(r *http.Request, visitorCookie, sessionIDCookie string) Bundle {
	bundle := Bundle{
		SessionID: ReadSessionID(r, sessionIDCookie),
	}
	if visitor, ok := ReadVisitor(r, visitorCookie); ok {
		bundle.Visitor = &visitor
	}
	return bundle
}
