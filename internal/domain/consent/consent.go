// Package consent reads the externally-owned consent cookie and reduces it
// to the two booleans that govern persistence. The gate fails closed: a
// missing or malformed cookie means no consent.
package consent

import (
	"net/http"

	"github.com/digifyhq/digify-go/pkg/digify"
)

// Consent platform category keys.
const (
	keyAnalyticsStorage  = "analytics_storage"
	keyAdStorage         = "ad_storage"
	keyAdUserData        = "ad_user_data"
	keyAdPersonalization = "ad_personalization"
)

// Decision is the reduced consent state used by the tracker.
type Decision struct {
	Analytics bool `json:"analytics"`
	Ads       bool `json:"ads"`
}

// Persist reports whether the visitor record may be written with a
// long-lived expiry. When false the record is still written, but only for
// the browser session.
func (d Decision) Persist() bool {
	return d.Analytics || d.Ads
}

// Read extracts the consent decision from the request's cookies. The consent
// cookie may be written in either wire format; both are tolerated.
func Read(r *http.Request, cookieName string) Decision {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return Decision{}
	}
	return Parse(cookie.Value)
}

// Parse decodes a raw consent cookie value. Categories are granted only when
// the value is literally "granted" or boolean true; anything else, including
// absence and decode failure, is denied.
func Parse(raw string) Decision {
	var state map[string]any
	if !digify.DecodeCookie(raw, &state) {
		return Decision{}
	}

	granted := func(key string) bool {
		switch v := state[key].(type) {
		case string:
			return v == "granted"
		case bool:
			return v
		default:
			return false
		}
	}

	return Decision{
		Analytics: granted(keyAnalyticsStorage),
		Ads:       granted(keyAdStorage) || granted(keyAdUserData) || granted(keyAdPersonalization),
	}
}
