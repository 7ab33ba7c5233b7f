// Package attribution contains the pure attribution logic: classifying
// navigations into marketing channels and maintaining the bounded touch
// history with its rollups. Nothing here touches HTTP or the clock; callers
// pass the request pieces and an explicit now.
package attribution

import (
	"net/url"
	"strings"
	"time"

	"github.com/digifyhq/digify-go/pkg/digify"
)

// clickIDPlatforms maps recognized ad-click identifier parameters to the
// platform they belong to. An identifier without a mapping classifies as
// paid with the generic ad_platform source.
var clickIDPlatforms = map[string]string{
	"gclid":      "google",
	"wbraid":     "google",
	"gbraid":     "google",
	"msclkid":    "bing",
	"uetmsclkid": "bing",
	"fbclid":     "facebook",
	"ttclid":     "tiktok",
}

// clickIDOrder fixes the platform lookup order when a URL carries several
// click ids, so classification stays deterministic.
var clickIDOrder = []string{"gclid", "wbraid", "gbraid", "msclkid", "uetmsclkid", "fbclid", "ttclid"}

// searchEngines are matched against the referrer hostname (minus a leading
// www.) by suffix, so regional domains like google.co.uk still match.
var searchEngines = []string{
	"google.", "bing.", "yahoo.", "duckduckgo.", "baidu.", "yandex.", "ecosia.", "qwant.", "startpage.",
}

// socialPlatforms maps social referrer domains to a platform name.
var socialPlatforms = map[string]string{
	"facebook.com":  "facebook",
	"instagram.com": "instagram",
	"twitter.com":   "twitter",
	"x.com":         "twitter",
	"t.co":          "twitter",
	"linkedin.com":  "linkedin",
	"lnkd.in":       "linkedin",
	"tiktok.com":    "tiktok",
	"pinterest.com": "pinterest",
	"youtube.com":   "youtube",
	"youtu.be":      "youtube",
	"reddit.com":    "reddit",
	"threads.net":   "threads",
}

// Classify assigns channel, source and medium to a navigation. Precedence is
// fixed: paid click ids, then explicit UTM campaigns, then direct, organic
// search, organic social, and finally referral as the catch-all. Campaign
// parameters are recorded as metadata on the touch regardless of which
// branch fires; they never override a click-id or referrer determination.
func Classify(pageURL *url.URL, referrer, selfHost string, now time.Time) digify.Touch {
	query := pageURL.Query()

	touch := digify.Touch{
		Timestamp:   now,
		LandingPath: landingPath(pageURL),
		Campaign:    query.Get("utm_campaign"),
		Term:        query.Get("utm_term"),
		Content:     query.Get("utm_content"),
	}

	clickIDs := collectClickIDs(query)
	if len(clickIDs) > 0 {
		touch.ClickIDs = clickIDs
	}

	switch {
	case len(clickIDs) > 0:
		touch.Channel = digify.ChannelPaid
		touch.Medium = "cpc"
		touch.Source = platformForClickIDs(clickIDs)

	case query.Get("utm_source") != "":
		touch.Channel = digify.ChannelUTM
		touch.Source = query.Get("utm_source")
		if medium := query.Get("utm_medium"); medium != "" {
			touch.Medium = medium
		} else {
			touch.Medium = "campaign"
		}

	default:
		classifyReferrer(&touch, referrer, selfHost)
	}

	return touch
}

// classifyReferrer resolves the non-paid, non-UTM branches from the referrer
// hostname. An empty, unparseable or same-site referrer counts as direct.
func classifyReferrer(touch *digify.Touch, referrer, selfHost string) {
	host := referrerHost(referrer)
	self := stripWWW(hostname(selfHost))

	switch {
	case host == "" || stripWWW(host) == self:
		touch.Channel = digify.ChannelDirect
		touch.Source = "(direct)"
		touch.Medium = "(none)"

	case isSearchEngine(host):
		touch.Channel = digify.ChannelOrganic
		touch.Source = firstLabel(stripWWW(host))
		touch.Medium = "organic"

	case socialPlatform(host) != "":
		touch.Channel = digify.ChannelOrganic
		touch.Source = socialPlatform(host)
		touch.Medium = "social"

	default:
		touch.Channel = digify.ChannelReferral
		touch.Source = host
		touch.Medium = "referral"
	}
}

func collectClickIDs(query url.Values) map[string]string {
	var ids map[string]string
	for param := range clickIDPlatforms {
		if value := query.Get(param); value != "" {
			if ids == nil {
				ids = make(map[string]string)
			}
			ids[param] = value
		}
	}
	return ids
}

func platformForClickIDs(ids map[string]string) string {
	for _, param := range clickIDOrder {
		if _, ok := ids[param]; ok {
			return clickIDPlatforms[param]
		}
	}
	return "ad_platform"
}

// landingPath preserves the query string so campaign landing pages with
// different parameters stay distinguishable.
func landingPath(pageURL *url.URL) string {
	path := pageURL.Path
	if path == "" {
		path = "/"
	}
	if pageURL.RawQuery != "" {
		path += "?" + pageURL.RawQuery
	}
	return path
}

func referrerHost(referrer string) string {
	if referrer == "" {
		return ""
	}
	parsed, err := url.Parse(referrer)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Hostname())
}

// hostname strips an optional port from a host:port value.
func hostname(host string) string {
	host = strings.ToLower(host)
	if idx := strings.IndexByte(host, ':'); idx >= 0 {
		return host[:idx]
	}
	return host
}

func stripWWW(host string) string {
	return strings.TrimPrefix(host, "www.")
}

func isSearchEngine(host string) bool {
	bare := stripWWW(host)
	for _, engine := range searchEngines {
		if strings.HasPrefix(bare, engine) || strings.Contains(bare, "."+engine[:len(engine)-1]+".") {
			return true
		}
	}
	return false
}

func socialPlatform(host string) string {
	bare := stripWWW(host)
	for domain, platform := range socialPlatforms {
		if bare == domain || strings.HasSuffix(bare, "."+domain) {
			return platform
		}
	}
	return ""
}

func firstLabel(host string) string {
	if idx := strings.IndexByte(host, '.'); idx > 0 {
		return host[:idx]
	}
	return host
}
