package qualify

import (
	"fmt"

	"github.com/pfrederiksen/sportcast/internal/analyzer"
	"github.com/pfrederiksen/sportcast/internal/event"
	"github.com/pfrederiksen/sportcast/internal/odds"
)

// AcceptReason is the fixed reason attached when every criterion passes.
const AcceptReason = "all criteria met"

// Result is the outcome of qualifying one event. Produced once per
// event/analysis pair and never mutated.
type Result struct {
	Qualified bool   `json:"qualified"`
	Reason    string `json:"reason"`
}

// QualifiedEvent bundles an accepted event with its analysis and the
// acceptance reason, ready for hand-off to the notifier.
type QualifiedEvent struct {
	Event    *event.Event      `json:"event"`
	Analysis *analyzer.Analysis `json:"analysis"`
	Reason   string            `json:"reason"`
}

// Qualify evaluates the criteria in order, stopping at the first failure:
//
//  1. maximum probability at or above the notification threshold
//  2. H2H win rate meets its threshold, skipped when no history exists
//  3. home form points strictly above away form points, skipped unless both
//     sides have form (a tie rejects)
//  4. home venue points strictly above away venue points, skipped unless
//     both records exist (a tie rejects)
//  5. at least one usable odds record
//
// Identical inputs always yield an identical Result.
func Qualify(evt *event.Event, a *analyzer.Analysis, threshold float64) Result {
	maxProb := evt.Probabilities.Max()
	if maxProb < threshold {
		return Result{
			Reason: fmt.Sprintf("probability edge %.0f%% < %.0f%%", maxProb, threshold),
		}
	}

	if a.HeadToHead.HasHistory && !a.HeadToHead.MeetsThreshold {
		return Result{
			Reason: fmt.Sprintf("H2H win rate %.1f%% below threshold", a.HeadToHead.HomeWinRate*100),
		}
	}

	if a.HomeForm.HasForm && a.AwayForm.HasForm {
		if a.HomeForm.Points <= a.AwayForm.Points {
			return Result{
				Reason: fmt.Sprintf("form %dpts vs %dpts - no home edge",
					a.HomeForm.Points, a.AwayForm.Points),
			}
		}
	}

	if a.HomeVenueRecord.HasForm && a.AwayVenueRecord.HasForm {
		if a.HomeVenueRecord.Points <= a.AwayVenueRecord.Points {
			return Result{
				Reason: fmt.Sprintf("venue record %dpts vs %dpts - no home edge",
					a.HomeVenueRecord.Points, a.AwayVenueRecord.Points),
			}
		}
	}

	if !odds.AnyUsable(a.Odds) {
		return Result{Reason: "no odds available"}
	}

	return Result{Qualified: true, Reason: AcceptReason}
}
