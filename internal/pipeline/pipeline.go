package pipeline

import (
	"context"
	"fmt"

	"github.com/pfrederiksen/sportcast/internal/analyzer"
	"github.com/pfrederiksen/sportcast/internal/cache"
	"github.com/pfrederiksen/sportcast/internal/config"
	"github.com/pfrederiksen/sportcast/internal/event"
	"github.com/pfrederiksen/sportcast/internal/logger"
	"github.com/pfrederiksen/sportcast/internal/notifier"
	"github.com/pfrederiksen/sportcast/internal/odds"
	"github.com/pfrederiksen/sportcast/internal/qualify"
	"github.com/pfrederiksen/sportcast/internal/scraper"
)

// Discoverer yields upcoming events for one sport.
type Discoverer interface {
	FetchEvents(ctx context.Context, sport event.Sport) ([]*event.Event, error)
}

// FormSource supplies both sides' recent results for a fixture.
type FormSource interface {
	TeamForm(ctx context.Context, detailURL string) (home, away scraper.TeamHistory, err error)
}

// H2HSource supplies a fixture's head-to-head summary.
type H2HSource interface {
	Analyze(ctx context.Context, homeTeam, awayTeam, detailURL string) analyzer.HeadToHead
}

// OddsSource supplies merged odds quotes for a fixture.
type OddsSource interface {
	Aggregate(ctx context.Context, matchID, homeTeam, awayTeam string) []odds.Quote
}

// Runner wires the pipeline's components together for one run.
type Runner struct {
	cfg      *config.Config
	cache    *cache.Store
	discover Discoverer
	form     FormSource
	h2h      H2HSource
	odds     OddsSource
	notify   notifier.Notifier
	log      *logger.Logger
}

// New creates a Runner.
func New(
	cfg *config.Config,
	store *cache.Store,
	discover Discoverer,
	form FormSource,
	h2h H2HSource,
	oddsSource OddsSource,
	notify notifier.Notifier,
	log *logger.Logger,
) *Runner {
	return &Runner{
		cfg:      cfg,
		cache:    store,
		discover: discover,
		form:     form,
		h2h:      h2h,
		odds:     oddsSource,
		notify:   notify,
		log:      log,
	}
}

// Summary reports what one run did.
type Summary struct {
	SportsProcessed int
	SportsFailed    int
	EventsFound     int
	EventsAnalyzed  int
	EventsQualified int
}

// Run executes one full pipeline pass. A run that finds zero qualifying
// events still completes successfully and triggers the empty notification
// path.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	var summary Summary

	if removed := r.cache.CleanupExpired(); removed > 0 {
		r.log.Info("startup cache cleanup", logger.Fields{"removed": removed})
	}

	// Discovery with per-sport isolation and threshold pre-filter.
	var candidates []*event.Event
	for _, sport := range r.cfg.Sports {
		summary.SportsProcessed++

		events, err := r.discover.FetchEvents(ctx, sport)
		if err != nil {
			summary.SportsFailed++
			r.log.Error("sport discovery failed", logger.Fields{"sport": string(sport)}, err)
			continue
		}
		summary.EventsFound += len(events)

		kept := 0
		for _, evt := range events {
			if evt.Probabilities.Max() >= r.cfg.NotificationThreshold {
				candidates = append(candidates, evt)
				kept++
			}
		}
		r.log.Info("sport processed", logger.Fields{
			"sport":           string(sport),
			"events":          len(events),
			"above_threshold": kept,
		})
	}

	// Enrichment and qualification, one fixture at a time.
	var qualified []qualify.QualifiedEvent
	for _, evt := range candidates {
		summary.EventsAnalyzed++

		analysis := r.analyze(ctx, evt)
		result := qualify.Qualify(evt, analysis, r.cfg.NotificationThreshold)

		if result.Qualified {
			r.log.Info("event qualified", logger.Fields{
				"id":   evt.ID,
				"home": evt.HomeTeam,
				"away": evt.AwayTeam,
			})
			qualified = append(qualified, qualify.QualifiedEvent{
				Event:    evt,
				Analysis: analysis,
				Reason:   result.Reason,
			})
		} else {
			r.log.Debug("event rejected", logger.Fields{
				"id":     evt.ID,
				"reason": result.Reason,
			})
		}
	}
	summary.EventsQualified = len(qualified)

	if len(qualified) == 0 {
		r.log.Warn("no qualifying events this run", nil)
		if err := r.notify.NotifyEmpty(); err != nil {
			return summary, fmt.Errorf("sending empty notification: %w", err)
		}
		return summary, nil
	}

	if err := r.notify.Notify(qualified); err != nil {
		return summary, fmt.Errorf("sending notification: %w", err)
	}

	return summary, nil
}

// analyze assembles the enrichment signals for one event. Every failure
// downgrades to an absent signal (Has* false); enrichment never aborts the
// fixture.
func (r *Runner) analyze(ctx context.Context, evt *event.Event) *analyzer.Analysis {
	a := &analyzer.Analysis{}

	a.HeadToHead = r.h2h.Analyze(ctx, evt.HomeTeam, evt.AwayTeam, evt.DetailURL)

	home, away, err := r.form.TeamForm(ctx, evt.DetailURL)
	if err != nil {
		r.log.Warn("team form unavailable", logger.Fields{
			"id":  evt.ID,
			"url": evt.DetailURL,
		})
	}
	a.HomeForm = analyzer.AnalyzeForm(home.Overall, r.cfg.FormWindow)
	a.AwayForm = analyzer.AnalyzeForm(away.Overall, r.cfg.FormWindow)
	a.HomeVenueRecord = analyzer.AnalyzeVenue(home.Venue)
	a.AwayVenueRecord = analyzer.AnalyzeVenue(away.Venue)

	a.Odds = r.odds.Aggregate(ctx, evt.ID, evt.HomeTeam, evt.AwayTeam)

	return a
}
