package notifier

import (
	"github.com/pfrederiksen/sportcast/internal/qualify"
)

// Notifier defines the interface for delivering qualification reports.
type Notifier interface {
	// Notify delivers the qualified events, ordered by discovery sequence.
	Notify(qualified []qualify.QualifiedEvent) error
	// NotifyEmpty reports that the run completed but nothing qualified.
	NotifyEmpty() error
}
