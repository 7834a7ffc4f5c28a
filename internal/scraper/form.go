package scraper

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/sportcast/internal/analyzer"
	"github.com/pfrederiksen/sportcast/internal/logger"
)

var (
	formClassPattern = regexp.MustCompile(`(?i)form`)
	homeClassPattern = regexp.MustCompile(`(?i)home`)
	awayClassPattern = regexp.MustCompile(`(?i)away`)
	winClassPattern  = regexp.MustCompile(`(?i)\bwin\b|\bwon\b`)
	drawClassPattern = regexp.MustCompile(`(?i)\bdraw\b`)
	lossClassPattern = regexp.MustCompile(`(?i)\bloss\b|\blost\b`)
)

// TeamHistory holds one side's recent result codes as read off the detail
// page: the overall sequence plus the subset played at the relevant venue
// (home games for the home team, away games for the away team).
type TeamHistory struct {
	Overall []analyzer.Result `json:"overall"`
	Venue   []analyzer.Result `json:"venue"`
}

// TeamForm fetches a fixture's detail page and recovers both sides' recent
// result codes. Missing sections degrade to empty histories, which downstream
// analyzers report as HasForm=false.
func (s *Scraper) TeamForm(ctx context.Context, detailURL string) (home, away TeamHistory, err error) {
	if detailURL == "" {
		return TeamHistory{}, TeamHistory{}, nil
	}

	doc, err := s.source.FetchDetail(ctx, detailURL)
	if err != nil {
		return TeamHistory{}, TeamHistory{}, err
	}

	home, away = parseTeamForm(doc)
	s.log.Debug("team form extracted", logger.Fields{
		"url":          detailURL,
		"home_results": len(home.Overall),
		"away_results": len(away.Overall),
	})

	// Rate limiting applies to detail fetches too.
	s.sleep(s.cfg.RequestDelay.Std())

	return home, away, nil
}

// parseTeamForm locates the two form containers on a detail page. Containers
// are matched by a "form" class; home/away assignment prefers explicit
// home/away class markers and falls back to document order (home first).
func parseTeamForm(doc *goquery.Document) (home, away TeamHistory) {
	var containers []*goquery.Selection
	doc.Find("div, table").Each(func(_ int, el *goquery.Selection) {
		class, _ := el.Attr("class")
		if class == "" || !formClassPattern.MatchString(class) {
			return
		}
		// Skip wrappers that contain another form container.
		inner := false
		el.Find("div, table").Each(func(_ int, child *goquery.Selection) {
			childClass, _ := child.Attr("class")
			if childClass != "" && formClassPattern.MatchString(childClass) {
				inner = true
			}
		})
		if !inner {
			containers = append(containers, el)
		}
	})

	var homeSel, awaySel *goquery.Selection
	for _, c := range containers {
		class, _ := c.Attr("class")
		switch {
		case homeSel == nil && homeClassPattern.MatchString(class):
			homeSel = c
		case awaySel == nil && awayClassPattern.MatchString(class):
			awaySel = c
		}
	}
	if homeSel == nil && len(containers) > 0 {
		homeSel = containers[0]
	}
	if awaySel == nil && len(containers) > 1 {
		awaySel = containers[1]
	}

	if homeSel != nil {
		home = parseHistory(homeSel, homeClassPattern)
	}
	if awaySel != nil {
		away = parseHistory(awaySel, awayClassPattern)
	}
	return home, away
}

// parseHistory reads result codes from a form container. A result element
// either carries a W/D/L letter as text or a win/draw/loss class. Elements
// additionally marked with the side's venue class feed the venue subset.
func parseHistory(sel *goquery.Selection, venuePattern *regexp.Regexp) TeamHistory {
	var hist TeamHistory

	sel.Find("span, td, li, div").Each(func(_ int, el *goquery.Selection) {
		if el.Children().Length() > 0 {
			return
		}

		r := resultOf(el)
		if r == analyzer.Unknown {
			return
		}

		hist.Overall = append(hist.Overall, r)

		class, _ := el.Attr("class")
		if class != "" && venuePattern.MatchString(class) {
			hist.Venue = append(hist.Venue, r)
		}
	})

	return hist
}

func resultOf(el *goquery.Selection) analyzer.Result {
	switch strings.ToUpper(strings.TrimSpace(el.Text())) {
	case "W":
		return analyzer.Win
	case "D":
		return analyzer.Draw
	case "L":
		return analyzer.Loss
	}

	class, _ := el.Attr("class")
	switch {
	case class == "":
		return analyzer.Unknown
	case winClassPattern.MatchString(class):
		return analyzer.Win
	case drawClassPattern.MatchString(class):
		return analyzer.Draw
	case lossClassPattern.MatchString(class):
		return analyzer.Loss
	}
	return analyzer.Unknown
}
