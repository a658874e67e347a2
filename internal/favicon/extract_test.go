package favicon

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractIconHref(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   string
		found  bool
	}{
		{
			name:   "rel before href",
			markup: `<html><head><link rel="icon" href="/static/icon.png"></head></html>`,
			want:   "/static/icon.png",
			found:  true,
		},
		{
			name:   "href before rel",
			markup: `<link href="/a.ico" rel="shortcut icon">`,
			want:   "/a.ico",
			found:  true,
		},
		{
			name:   "case insensitive rel and tag",
			markup: `<LINK REL="Apple-Touch-Icon" HREF="/touch.png"/>`,
			want:   "/touch.png",
			found:  true,
		},
		{
			name:   "single quotes",
			markup: `<link rel='icon' href='//cdn.example.com/i.png'>`,
			want:   "//cdn.example.com/i.png",
			found:  true,
		},
		{
			name:   "first match in document order wins",
			markup: `<link rel="stylesheet" href="/s.css"><link rel="apple-touch-icon" href="/t.png"><link rel="icon" href="/i.png">`,
			want:   "/t.png",
			found:  true,
		},
		{
			name:   "other rel values ignored",
			markup: `<link rel="icon-mask" href="/m.svg"><link rel="preload icon" href="/p.png">`,
			found:  false,
		},
		{
			name:   "link without href ignored",
			markup: `<link rel="icon"><link rel="icon" href="/later.png">`,
			want:   "/later.png",
			found:  true,
		},
		{
			name:   "malformed markup tolerated",
			markup: `<html><head><link rel=icon href=/bare.ico <body>`,
			want:   "/bare.ico",
			found:  true,
		},
		{
			name:   "no links",
			markup: `<html><body>hello</body></html>`,
			found:  false,
		},
		{
			name:   "empty input",
			markup: ``,
			found:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractIconHref([]byte(tt.markup))
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveHref(t *testing.T) {
	page, err := url.Parse("https://ex.com/blog/post.html")
	require.NoError(t, err)

	tests := []struct {
		href string
		want string
	}{
		{"https://cdn.ex.com/icon.png", "https://cdn.ex.com/icon.png"},
		{"HTTP://cdn.ex.com/icon.png", "http://cdn.ex.com/icon.png"},
		{"//cdn.ex.com/icon.png", "https://cdn.ex.com/icon.png"},
		{"/static/icon.png", "https://ex.com/static/icon.png"},
		{"icon.png", "https://ex.com/blog/icon.png"},
		{"../icon.png", "https://ex.com/icon.png"},
	}

	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			got, err := ResolveHref(page, tt.href)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestResolveHrefProtocolRelativeKeepsScheme(t *testing.T) {
	page, err := url.Parse("http://plain.example")
	require.NoError(t, err)

	got, err := ResolveHref(page, "//cdn.example/i.png")
	require.NoError(t, err)
	assert.Equal(t, "http://cdn.example/i.png", got.String())
}
