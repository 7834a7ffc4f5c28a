package notifier

import (
	"fmt"
	"io"

	"github.com/pfrederiksen/sportcast/internal/qualify"
)

// DryRunNotifier prints what would be emailed without sending anything.
type DryRunNotifier struct {
	out io.Writer
}

// NewDryRunNotifier creates a dry-run notifier writing to out.
func NewDryRunNotifier(out io.Writer) *DryRunNotifier {
	return &DryRunNotifier{out: out}
}

// Notify prints the report that would be sent.
func (n *DryRunNotifier) Notify(qualified []qualify.QualifiedEvent) error {
	fmt.Fprintf(n.out, "--- %s ---\n", formatSubject(len(qualified)))
	for _, q := range qualified {
		evt := q.Event
		fmt.Fprintf(n.out, "%s: %s vs %s (%s) %.0f%% -> %s [%s]\n",
			evt.Sport, evt.HomeTeam, evt.AwayTeam, evt.League,
			evt.Probabilities.Max(), evt.Probabilities.Predicted(), q.Reason)
	}
	return nil
}

// NotifyEmpty prints the empty-run message.
func (n *DryRunNotifier) NotifyEmpty() error {
	fmt.Fprintf(n.out, "--- %s ---\n", emptySubject)
	return nil
}
