// Package notifier delivers qualified-event reports.
//
// The Notifier interface has an SMTP email implementation and a dry-run
// implementation that prints what would be sent. A run that finds zero
// qualifying events still triggers a distinct "no qualifying events" message
// rather than silence.
package notifier
