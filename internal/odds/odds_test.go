package odds

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/pfrederiksen/sportcast/internal/logger"
)

type stubFetcher struct {
	name  string
	quote Quote
	err   error
}

func (f *stubFetcher) Name() string { return f.name }

func (f *stubFetcher) FetchQuote(_ context.Context, _, _, _ string) (Quote, error) {
	return f.quote, f.err
}

func testLog() *logger.Logger {
	return logger.New(logger.LevelError, io.Discard)
}

func TestAggregate(t *testing.T) {
	usable := Quote{Source: "a", HasOdds: true, HomeWin: 1.9, Draw: 3.3, AwayWin: 4.1}

	agg := NewAggregator(testLog(),
		&stubFetcher{name: "a", quote: usable},
		&stubFetcher{name: "b", quote: Quote{Source: "b", HasOdds: false}},
	)

	quotes := agg.Aggregate(context.Background(), "42", "Home", "Away")

	if len(quotes) != 1 {
		t.Fatalf("got %d quotes, want 1", len(quotes))
	}
	if quotes[0].Source != "a" || !quotes[0].HasOdds {
		t.Errorf("unexpected quote %+v", quotes[0])
	}
}

func TestAggregate_ErrorsAreSkipped(t *testing.T) {
	usable := Quote{Source: "b", HasOdds: true, HomeWin: 2.1}

	agg := NewAggregator(testLog(),
		&stubFetcher{name: "a", err: errors.New("timeout")},
		&stubFetcher{name: "b", quote: usable},
	)

	quotes := agg.Aggregate(context.Background(), "42", "Home", "Away")

	if len(quotes) != 1 || quotes[0].Source != "b" {
		t.Fatalf("got %+v, want the surviving source only", quotes)
	}
}

func TestAggregate_NothingUsable(t *testing.T) {
	agg := NewAggregator(testLog(),
		&stubFetcher{name: "a", err: errors.New("down")},
		&stubFetcher{name: "b", quote: Quote{HasOdds: false}},
	)

	quotes := agg.Aggregate(context.Background(), "42", "Home", "Away")

	if len(quotes) != 1 {
		t.Fatalf("got %d quotes, want the placeholder record", len(quotes))
	}
	if quotes[0].HasOdds {
		t.Error("placeholder quote must report HasOdds=false")
	}
	if quotes[0].MatchID != "42" {
		t.Errorf("placeholder MatchID = %q, want 42", quotes[0].MatchID)
	}
}

func TestAnyUsable(t *testing.T) {
	tests := []struct {
		name   string
		quotes []Quote
		want   bool
	}{
		{"empty", nil, false},
		{"placeholder only", []Quote{{HasOdds: false}}, false},
		{"one usable", []Quote{{HasOdds: false}, {HasOdds: true}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AnyUsable(tt.quotes); got != tt.want {
				t.Errorf("AnyUsable() = %v, want %v", got, tt.want)
			}
		})
	}
}
