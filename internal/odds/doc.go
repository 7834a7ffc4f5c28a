// Package odds merges market-price lookups from external sources into a
// single view per fixture.
//
// Each source implements Fetcher and caches its own quotes for 30 minutes
// keyed by fixture id and source name. When no source returns usable prices
// the aggregator still yields a record with HasOdds=false rather than
// omitting the field, since qualification reads the flag directly.
package odds
