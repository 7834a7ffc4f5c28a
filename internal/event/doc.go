// Package event provides the core types for upcoming fixtures scraped from the
// prediction site.
//
// An Event is created once per discovery pass and is immutable afterwards. Its
// ID comes from a site-provided data token or from the trailing numeric segment
// of the fixture's detail URL, and is used as the cache-key component and as
// the qualification correlation id.
package event
