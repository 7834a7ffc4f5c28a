// Package analyzer turns raw match-result sequences into the point and record
// summaries the qualification engine consumes.
//
// Form and venue scoring are pure functions over W/D/L result codes. The
// head-to-head analyzer additionally fetches prior meetings from a fixture's
// detail page and caches its summaries for 24 hours keyed by the unordered
// team pair.
//
// Every summary carries its own Has* flag; absence of upstream data is never
// represented by zero values alone. The flag is authoritative.
package analyzer
