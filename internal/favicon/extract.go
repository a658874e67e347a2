package favicon

import (
	"bytes"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// iconRels are the rel values that mark a favicon link.
var iconRels = map[string]bool{
	"icon":             true,
	"shortcut icon":    true,
	"apple-touch-icon": true,
}

// ExtractIconHref returns the href of the first <link> element in markup
// whose rel is icon, shortcut icon or apple-touch-icon (case-insensitive).
// Malformed markup is tolerated; ok is false when no such element exists.
func ExtractIconHref(markup []byte) (string, bool) {
	z := html.NewTokenizer(bytes.NewReader(markup))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return "", false
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "link" || !hasAttr {
				continue
			}
			rel, href, hasHref := linkAttrs(z)
			if hasHref && iconRels[normalizeRel(rel)] {
				return href, true
			}
		}
	}
}

func linkAttrs(z *html.Tokenizer) (rel, href string, hasHref bool) {
	for {
		key, val, more := z.TagAttr()
		switch string(key) {
		case "rel":
			rel = string(val)
		case "href":
			href = strings.TrimSpace(string(val))
			hasHref = href != ""
		}
		if !more {
			return rel, href, hasHref
		}
	}
}

func normalizeRel(rel string) string {
	return strings.ToLower(strings.Join(strings.Fields(rel), " "))
}

// ResolveHref turns an icon href into an absolute URL.
// Absolute http(s) hrefs are used as-is, protocol-relative hrefs inherit
// the page's scheme, and anything else resolves against the page URL.
func ResolveHref(page *url.URL, href string) (*url.URL, error) {
	lower := strings.ToLower(href)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return url.Parse(href)
	case strings.HasPrefix(href, "//"):
		scheme := page.Scheme
		if scheme == "" {
			scheme = "https"
		}
		return url.Parse(scheme + ":" + href)
	default:
		ref, err := url.Parse(href)
		if err != nil {
			return nil, err
		}
		return page.ResolveReference(ref), nil
	}
}
