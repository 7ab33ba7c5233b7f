package digify

import (
	"encoding/base64"
	"encoding/json"
	"net/url"
	"regexp"
)

// maxLegacyRounds bounds how many layers of percent-encoding the legacy
// reader will peel off before giving up.
const maxLegacyRounds = 3

// base64urlPattern matches unpadded base64url tokens. Legacy cookie values
// are JSON or percent-encoded JSON, so a '%', '{' or '"' anywhere disqualifies.
var base64urlPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// EncodeCookie serializes v to compact JSON and applies unpadded base64url,
// yielding a cookie-safe token with no '+', '/' or '=' characters.
func EncodeCookie(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// DecodeCookie reverses EncodeCookie into dest. It also recognizes the
// legacy wire format: plain JSON, possibly wrapped in percent-encoding up to
// maxLegacyRounds deep. Returns false on any malformed input without
// panicking; dest must be discarded when false. Callers treat false as
// "start fresh".
func DecodeCookie(raw string, dest any) bool {
	if raw == "" {
		return false
	}

	if base64urlPattern.MatchString(raw) {
		if data, err := base64.RawURLEncoding.DecodeString(raw); err == nil {
			if json.Unmarshal(data, dest) == nil {
				return true
			}
		}
		// fall through to the legacy reader
	}

	return decodeLegacy(raw, dest)
}

// decodeLegacy tries to parse raw as JSON, percent-decoding between attempts.
// Handles values like %7B...%7D and doubly-encoded %257B...%257D left behind
// by earlier cookie schemas.
func decodeLegacy(raw string, dest any) bool {
	s := raw
	for round := 0; ; round++ {
		if json.Unmarshal([]byte(s), dest) == nil {
			return true
		}
		if round == maxLegacyRounds {
			return false
		}
		unescaped, err := url.PathUnescape(s)
		if err != nil || unescaped == s {
			return false
		}
		s = unescaped
	}
}
