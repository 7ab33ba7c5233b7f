package attribution

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digifyhq/digify-go/pkg/digify"
)

const selfHost = "www.example.org"

var classifyNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func mustParse(t *testing.T, rawURL string) *url.URL {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	return u
}

func TestClassifyPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		referrer string
		channel  string
		source   string
		medium   string
	}{
		{
			name:    "google click id is paid",
			url:     "/landing?gclid=abc123",
			channel: digify.ChannelPaid,
			source:  "google",
			medium:  "cpc",
		},
		{
			name:    "bing click id is paid",
			url:     "/landing?msclkid=xyz",
			channel: digify.ChannelPaid,
			source:  "bing",
			medium:  "cpc",
		},
		{
			name:    "facebook click id is paid",
			url:     "/?fbclid=deadbeef",
			channel: digify.ChannelPaid,
			source:  "facebook",
			medium:  "cpc",
		},
		{
			name:     "click id beats utm and referrer",
			url:      "/landing?gclid=abc&utm_source=newsletter&utm_medium=email",
			referrer: "https://www.google.com/",
			channel:  digify.ChannelPaid,
			source:   "google",
			medium:   "cpc",
		},
		{
			name:    "utm source verbatim",
			url:     "/blog?utm_source=newsletter&utm_medium=email",
			channel: digify.ChannelUTM,
			source:  "newsletter",
			medium:  "email",
		},
		{
			name:    "utm medium defaults to campaign",
			url:     "/blog?utm_source=partner-site",
			channel: digify.ChannelUTM,
			source:  "partner-site",
			medium:  "campaign",
		},
		{
			name:    "no referrer is direct",
			url:     "/",
			channel: digify.ChannelDirect,
			source:  "(direct)",
			medium:  "(none)",
		},
		{
			name:     "own host is direct",
			url:      "/pricing",
			referrer: "https://example.org/about",
			channel:  digify.ChannelDirect,
			source:   "(direct)",
			medium:   "(none)",
		},
		{
			name:     "own host with www is direct",
			url:      "/pricing",
			referrer: "https://www.example.org/",
			channel:  digify.ChannelDirect,
			source:   "(direct)",
			medium:   "(none)",
		},
		{
			name:     "google search is organic",
			url:      "/blog",
			referrer: "https://www.google.com/search?q=x",
			channel:  digify.ChannelOrganic,
			source:   "google",
			medium:   "organic",
		},
		{
			name:     "regional google is organic",
			url:      "/blog",
			referrer: "https://www.google.co.uk/search?q=x",
			channel:  digify.ChannelOrganic,
			source:   "google",
			medium:   "organic",
		},
		{
			name:     "duckduckgo is organic",
			url:      "/",
			referrer: "https://duckduckgo.com/?q=x",
			channel:  digify.ChannelOrganic,
			source:   "duckduckgo",
			medium:   "organic",
		},
		{
			name:     "linkedin is organic social",
			url:      "/",
			referrer: "https://www.linkedin.com/feed/",
			channel:  digify.ChannelOrganic,
			source:   "linkedin",
			medium:   "social",
		},
		{
			name:     "twitter shortener is organic social",
			url:      "/",
			referrer: "https://t.co/abcdef",
			channel:  digify.ChannelOrganic,
			source:   "twitter",
			medium:   "social",
		},
		{
			name:     "external site is referral",
			url:      "/",
			referrer: "https://example.com/partners",
			channel:  digify.ChannelReferral,
			source:   "example.com",
			medium:   "referral",
		},
		{
			name:     "unparseable referrer falls back to direct",
			url:      "/",
			referrer: "://not a url",
			channel:  digify.ChannelDirect,
			source:   "(direct)",
			medium:   "(none)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			touch := Classify(mustParse(t, tt.url), tt.referrer, selfHost, classifyNow)

			assert.Equal(t, tt.channel, touch.Channel)
			assert.Equal(t, tt.source, touch.Source)
			assert.Equal(t, tt.medium, touch.Medium)
			assert.Equal(t, classifyNow, touch.Timestamp)
		})
	}
}

func TestClassifyRecordsCampaignMetadataOnEveryBranch(t *testing.T) {
	// click id wins the channel, but the UTM fields still land as metadata
	touch := Classify(
		mustParse(t, "/landing?gclid=abc&utm_campaign=spring&utm_term=shoes&utm_content=cta"),
		"https://example.com/",
		selfHost,
		classifyNow,
	)

	assert.Equal(t, digify.ChannelPaid, touch.Channel)
	assert.Equal(t, "spring", touch.Campaign)
	assert.Equal(t, "shoes", touch.Term)
	assert.Equal(t, "cta", touch.Content)
	assert.Equal(t, map[string]string{"gclid": "abc"}, touch.ClickIDs)
}

func TestClassifyLandingPathKeepsQuery(t *testing.T) {
	touch := Classify(mustParse(t, "/landing?utm_source=x&page=2"), "", selfHost, classifyNow)
	assert.Equal(t, "/landing?utm_source=x&page=2", touch.LandingPath)

	bare := Classify(mustParse(t, "/pricing"), "", selfHost, classifyNow)
	assert.Equal(t, "/pricing", bare.LandingPath)
}

func TestClassifyMultipleClickIDsDeterministic(t *testing.T) {
	for i := 0; i < 20; i++ {
		touch := Classify(mustParse(t, "/?fbclid=f&gclid=g"), "", selfHost, classifyNow)
		assert.Equal(t, "google", touch.Source)
		assert.Len(t, touch.ClickIDs, 2)
	}
}

func TestClassifySelfHostWithPort(t *testing.T) {
	touch := Classify(mustParse(t, "/"), "http://localhost:8080/about", "localhost:8080", classifyNow)
	assert.Equal(t, digify.ChannelDirect, touch.Channel)
}
