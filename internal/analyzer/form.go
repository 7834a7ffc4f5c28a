package analyzer

import "fmt"

// Result is one match outcome code from a team's perspective.
type Result string

const (
	Win     Result = "W"
	Draw    Result = "D"
	Loss    Result = "L"
	Unknown Result = "U"
)

// venueWindow caps venue-restricted scoring at the most recent 6 matches.
const venueWindow = 6

// Form summarizes a bounded window of recent results: 3 points per win,
// 1 per draw, 0 per loss. Unknown codes are a no-op (they occupy a window
// slot but score nothing).
type Form struct {
	HasForm         bool   `json:"has_form"`
	Points          int    `json:"points"`
	Wins            int    `json:"wins"`
	Draws           int    `json:"draws"`
	Losses          int    `json:"losses"`
	MatchesAnalyzed int    `json:"matches_analyzed"`
	Record          string `json:"record"`
}

// AnalyzeForm scores the most recent results, at most window of them.
// An empty input yields HasForm=false with all-zero counts.
func AnalyzeForm(results []Result, window int) Form {
	if len(results) == 0 {
		return Form{}
	}
	if window > 0 && len(results) > window {
		results = results[:window]
	}
	return score(results)
}

// AnalyzeVenue scores a pre-filtered subset of results (home games for the
// home team, away games for the away team), capped at the venue window.
func AnalyzeVenue(results []Result) Form {
	if len(results) == 0 {
		return Form{}
	}
	if len(results) > venueWindow {
		results = results[:venueWindow]
	}
	return score(results)
}

func score(results []Result) Form {
	f := Form{HasForm: true, MatchesAnalyzed: len(results)}
	for _, r := range results {
		switch r {
		case Win:
			f.Points += 3
			f.Wins++
		case Draw:
			f.Points++
			f.Draws++
		case Loss:
			f.Losses++
		}
	}
	f.Record = fmt.Sprintf("%dW-%dD-%dL", f.Wins, f.Draws, f.Losses)
	return f
}
