// Package pipeline orchestrates one full run: cache cleanup, per-sport event
// discovery, enrichment, qualification, and notification.
//
// Sports are processed one at a time and fixtures within a sport one at a
// time. A single sport's discovery failure is isolated: it is logged and the
// run proceeds to the remaining sports. Events whose maximum probability is
// already below the notification threshold are filtered before any
// enrichment is attempted, so sub-threshold fixtures never cost a detail
// fetch or an odds lookup.
package pipeline
