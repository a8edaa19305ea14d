package portal

import (
	"bytes"
	"html"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dlclark/regexp2"

	"github.com/m-mizutani/cadport/pkg/domain/interfaces"
	"github.com/m-mizutani/cadport/pkg/domain/model"
)

// trackingPattern matches analytics-servlet redirect URLs such as
// https://stats.example.com/servlet/TrackRedirect?url=... that the portal wraps
// around its real download targets. The URL must start an attribute value, a
// script string or a bare token.
const trackingPattern = `(?<=^|["'(=\s])https?://[^\s"'<>()]+/servlet/[a-z]*track[a-z]*\?[^\s"'<>()]+`

// DefaultMatchers returns the download-link strategies in priority order
func DefaultMatchers() []interfaces.LinkMatcher {
	return []interfaces.LinkMatcher{
		NewTrackingRedirectMatcher(),
		NewAnchorContainsMatcher("download"),
	}
}

type trackingRedirectMatcher struct {
	re *regexp2.Regexp
}

// NewTrackingRedirectMatcher matches analytics tracking-redirect URLs anywhere in the markup
func NewTrackingRedirectMatcher() interfaces.LinkMatcher {
	re := regexp2.MustCompile(trackingPattern, regexp2.IgnoreCase)
	re.MatchTimeout = time.Second
	return &trackingRedirectMatcher{re: re}
}

func (m *trackingRedirectMatcher) Name() string { return "tracking-redirect" }

func (m *trackingRedirectMatcher) Match(page *model.PortalPage) (string, bool) {
	if page == nil || len(page.Body) == 0 {
		return "", false
	}
	match, err := m.re.FindStringMatch(string(page.Body))
	if err != nil || match == nil {
		return "", false
	}
	return html.UnescapeString(match.String()), true
}

type anchorContainsMatcher struct {
	needle string
}

// NewAnchorContainsMatcher matches the first <a href> whose target contains needle, case-insensitively
func NewAnchorContainsMatcher(needle string) interfaces.LinkMatcher {
	return &anchorContainsMatcher{needle: strings.ToLower(needle)}
}

func (m *anchorContainsMatcher) Name() string { return "anchor-contains-" + m.needle }

func (m *anchorContainsMatcher) Match(page *model.PortalPage) (string, bool) {
	if page == nil || len(page.Body) == 0 {
		return "", false
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return "", false
	}

	base, _ := url.Parse(page.URL)

	var found string
	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href := strings.TrimSpace(sel.AttrOr("href", ""))
		lower := strings.ToLower(href)
		if !strings.Contains(lower, m.needle) {
			return true
		}
		if strings.HasPrefix(lower, "javascript:") || strings.HasPrefix(lower, "mailto:") {
			return true
		}
		found = resolveLink(base, href)
		return found == ""
	})
	return found, found != ""
}

// resolveLink makes href absolute against base; unparsable links resolve to ""
func resolveLink(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base == nil || ref.IsAbs() {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}
