// Package scraper provides document fetching and HTML field extraction for the
// prediction site's listing and detail pages.
//
// The site ships no stable schema, so every field is recovered through an
// ordered chain of strategies: the first strategy that yields a structurally
// valid result wins. A fixture that fails on a mandatory field (teams,
// probabilities) is silently dropped rather than surfacing an error; layout
// drift must degrade to "fewer events found", never to a crash.
//
// Two document sources are provided: a plain HTTP source for static pages and
// a chromedp-backed browser source for JavaScript-rendered listings.
package scraper
