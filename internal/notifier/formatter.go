package notifier

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pfrederiksen/sportcast/internal/event"
	"github.com/pfrederiksen/sportcast/internal/qualify"
)

// formatSubject builds the email subject line.
func formatSubject(count int) string {
	return fmt.Sprintf("sportcast - %d qualified events", count)
}

const emptySubject = "sportcast - no qualified events"

// formatHTML renders the qualified events as an HTML report grouped by
// sport. Within each sport, events sort by match time with unknown times
// last.
func formatHTML(qualified []qualify.QualifiedEvent) string {
	bySport := make(map[event.Sport][]qualify.QualifiedEvent)
	var sportOrder []event.Sport
	for _, q := range qualified {
		if _, seen := bySport[q.Event.Sport]; !seen {
			sportOrder = append(sportOrder, q.Event.Sport)
		}
		bySport[q.Event.Sport] = append(bySport[q.Event.Sport], q)
	}

	var b strings.Builder
	b.WriteString("<html><body style=\"font-family: Arial, sans-serif;\">\n")
	fmt.Fprintf(&b, "<h2>%d qualified events</h2>\n", len(qualified))
	fmt.Fprintf(&b, "<p><strong>Date:</strong> %s</p>\n",
		time.Now().Format("2006-01-02 15:04:05"))

	for _, sport := range sportOrder {
		events := bySport[sport]
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].Event.SortBefore(events[j].Event)
		})

		fmt.Fprintf(&b, "<h3>%s</h3>\n<table border=\"1\" cellpadding=\"6\" cellspacing=\"0\">\n", sportHeading(sport))
		b.WriteString("<tr><th>Time</th><th>Match</th><th>League</th><th>Prediction</th><th>Probability</th><th>Odds</th></tr>\n")

		for _, q := range events {
			writeEventRow(&b, q)
		}
		b.WriteString("</table>\n")
	}

	b.WriteString("<p style=\"color: #7f8c8d; font-size: 0.9em;\">Generated automatically by sportcast</p>\n")
	b.WriteString("</body></html>\n")
	return b.String()
}

func writeEventRow(b *strings.Builder, q qualify.QualifiedEvent) {
	evt := q.Event

	matchTime := evt.MatchTime
	if matchTime == "" {
		matchTime = "-"
	}

	oddsCell := "-"
	for _, quote := range q.Analysis.Odds {
		if !quote.HasOdds {
			continue
		}
		if quote.Draw > 0 {
			oddsCell = fmt.Sprintf("%.2f / %.2f / %.2f (%s)",
				quote.HomeWin, quote.Draw, quote.AwayWin, quote.Bookmaker)
		} else {
			oddsCell = fmt.Sprintf("%.2f / %.2f (%s)",
				quote.HomeWin, quote.AwayWin, quote.Bookmaker)
		}
		break
	}

	fmt.Fprintf(b, "<tr><td>%s</td><td>%s vs %s</td><td>%s</td><td>%s</td><td>%.0f%%</td><td>%s</td></tr>\n",
		matchTime,
		evt.HomeTeam,
		evt.AwayTeam,
		evt.League,
		evt.Probabilities.Predicted(),
		evt.Probabilities.Max(),
		oddsCell,
	)
}

// sportHeading renders a sport slug as a section heading.
func sportHeading(sport event.Sport) string {
	s := strings.ReplaceAll(string(sport), "-", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// formatEmptyHTML renders the "nothing qualified today" message.
func formatEmptyHTML() string {
	var b strings.Builder
	b.WriteString("<html><body style=\"font-family: Arial, sans-serif;\">\n")
	b.WriteString("<h2>No qualified events</h2>\n")
	fmt.Fprintf(&b, "<p><strong>Date:</strong> %s</p>\n",
		time.Now().Format("2006-01-02 15:04:05"))
	b.WriteString("<p>No events met every qualification criterion today.</p>\n")
	b.WriteString("<p style=\"color: #7f8c8d; font-size: 0.9em;\">Generated automatically by sportcast</p>\n")
	b.WriteString("</body></html>\n")
	return b.String()
}
