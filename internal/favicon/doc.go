// Package favicon finds a representative icon for a URL.
//
// Fetcher tries a fixed list of well-known root paths first and falls back
// to scraping the page for a <link rel="icon"> element. Every failure is
// absorbed: the caller only learns whether an icon was found.
//
// Queue releases fetch jobs at a fixed interval so a sweep over many links
// does not burst requests, and cancels outstanding jobs as a group on Close.
package favicon
