package scraper

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/sportcast/internal/config"
	"github.com/pfrederiksen/sportcast/internal/event"
	"github.com/pfrederiksen/sportcast/internal/logger"
)

var (
	teamLinkPattern   = regexp.MustCompile(`(?i)/(team|teams)/`)
	teamClassPattern  = regexp.MustCompile(`(?i)hometeam|awayteam|\btnl\b|team`)
	probClassPattern  = regexp.MustCompile(`(?i)fprc|prob`)
	timeClassPattern  = regexp.MustCompile(`(?i)time|date`)
	detailHrefPattern = regexp.MustCompile(`/matches/`)
	detailIDPattern   = regexp.MustCompile(`/matches/[^/]*-(\d+)\b`)
	numberPattern     = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
)

// Extractor recovers structured fields from one fixture element of a listing
// page. Each field runs an ordered strategy chain, most specific first; the
// first strategy yielding a structurally valid result wins and later
// strategies are not attempted.
type Extractor struct {
	baseURL string
	sumMin  float64
	sumMax  float64
	log     *logger.Logger
}

// NewExtractor creates an Extractor. The tolerance band bounds the sum of
// probabilities accepted by the fallback numeric scan.
func NewExtractor(cfg *config.Config, log *logger.Logger) *Extractor {
	return &Extractor{
		baseURL: cfg.BaseURL,
		sumMin:  cfg.ProbabilitySumMin,
		sumMax:  cfg.ProbabilitySumMax,
		log:     log,
	}
}

// Fixture extracts one event from a fixture container. It returns false when
// a mandatory field (both team names, probabilities) cannot be recovered; the
// miss is logged at debug level and is never an error.
func (x *Extractor) Fixture(sel *goquery.Selection, sport event.Sport) (*event.Event, bool) {
	home, away, ok := x.teams(sel)
	if !ok {
		x.log.Debug("fixture dropped: no team names", logger.Fields{"sport": string(sport)})
		return nil, false
	}

	probs, ok := x.probabilities(sel, sport)
	if !ok {
		x.log.Debug("fixture dropped: no probabilities", logger.Fields{
			"sport": string(sport),
			"home":  home,
			"away":  away,
		})
		return nil, false
	}

	detailURL := x.detailURL(sel)

	return &event.Event{
		ID:            x.fixtureID(sel, detailURL),
		Sport:         sport,
		HomeTeam:      home,
		AwayTeam:      away,
		Probabilities: probs,
		League:        x.league(sel),
		MatchTime:     x.matchTime(sel),
		DetailURL:     detailURL,
		ScrapedAt:     time.Now().UTC(),
	}, true
}

// teams runs the team-name strategy chain:
//  1. anchors whose href matches a team-profile URL pattern
//  2. elements whose class matches a team naming convention
//  3. the first two non-empty inline texts in the container
//  4. the alt text of the first two images
func (x *Extractor) teams(sel *goquery.Selection) (home, away string, ok bool) {
	// Strategy 1: team-profile anchors.
	var linked []string
	sel.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if teamLinkPattern.MatchString(href) {
			if text := strings.TrimSpace(a.Text()); text != "" {
				linked = append(linked, text)
			}
		}
		return len(linked) < 2
	})
	if len(linked) >= 2 {
		return linked[0], linked[1], true
	}

	// Strategy 2: class naming convention.
	var classed []string
	sel.Find("span, a, div").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		class, _ := el.Attr("class")
		if class != "" && teamClassPattern.MatchString(class) {
			if text := strings.TrimSpace(el.Text()); text != "" {
				classed = append(classed, text)
			}
		}
		return len(classed) < 2
	})
	if len(classed) >= 2 {
		return classed[0], classed[1], true
	}

	// Strategy 3: first two non-empty inline texts. Leaf elements only, so a
	// cell wrapping a span does not duplicate the span's text.
	var texts []string
	sel.Find("span, td").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		if el.Children().Length() > 0 {
			return true
		}
		if text := strings.TrimSpace(el.Text()); text != "" {
			texts = append(texts, text)
		}
		return len(texts) < 2
	})
	if len(texts) >= 2 {
		return texts[0], texts[1], true
	}

	// Strategy 4: image alt text.
	var alts []string
	sel.Find("img[alt]").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		alt, _ := img.Attr("alt")
		if alt = strings.TrimSpace(alt); alt != "" {
			alts = append(alts, alt)
		}
		return len(alts) < 2
	})
	if len(alts) >= 2 {
		return alts[0], alts[1], true
	}

	return "", "", false
}

// probabilities runs the probability strategy chain: forecast container first,
// then a scan of all inline numbers for a run whose sum falls in the
// tolerance band. Two-outcome sports need two values, three-outcome three.
func (x *Extractor) probabilities(sel *goquery.Selection, sport event.Sport) (event.Probabilities, bool) {
	need := 3
	if !sport.HasDraw() {
		need = 2
	}

	// Strategy 1: the forecast probability container, values in declared
	// order: home, draw, away, with draw absent for two-outcome sports.
	var values []float64
	sel.Find("div, td").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		class, _ := el.Attr("class")
		if class == "" || !probClassPattern.MatchString(class) {
			return true
		}
		values = parseNumericChildren(el)
		return false
	})
	if probs, ok := x.assemble(values, sport, need); ok {
		return probs, true
	}

	// Strategy 2: fallback scan. Collect every inline numeric value in
	// [0,100] in document order and accept the first run whose sum lies in
	// the tolerance band, absorbing rounding display quirks.
	var scanned []float64
	sel.Find("span, td, div").Each(func(_ int, el *goquery.Selection) {
		if el.Children().Length() > 0 {
			return
		}
		text := strings.TrimSpace(el.Text())
		if !numberPattern.MatchString(text) {
			return
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil || v < 0 || v > 100 {
			return
		}
		scanned = append(scanned, v)
	})

	for i := 0; i+need <= len(scanned); i++ {
		run := scanned[i : i+need]
		sum := 0.0
		for _, v := range run {
			sum += v
		}
		if sum >= x.sumMin && sum <= x.sumMax {
			probs, ok := x.assemble(run, sport, need)
			if ok {
				return probs, true
			}
		}
	}

	return event.Probabilities{}, false
}

// assemble maps an ordered value slice onto outcome slots.
func (x *Extractor) assemble(values []float64, sport event.Sport, need int) (event.Probabilities, bool) {
	if len(values) < need {
		return event.Probabilities{}, false
	}
	for _, v := range values[:need] {
		if v < 0 || v > 100 {
			return event.Probabilities{}, false
		}
	}

	if sport.HasDraw() {
		return event.Probabilities{
			Home:    values[0],
			Draw:    values[1],
			Away:    values[2],
			HasDraw: true,
		}, true
	}
	return event.Probabilities{
		Home:    values[0],
		Away:    values[1],
		HasDraw: false,
	}, true
}

func parseNumericChildren(el *goquery.Selection) []float64 {
	var values []float64
	el.Find("span").Each(func(_ int, child *goquery.Selection) {
		text := strings.TrimSpace(child.Text())
		if v, err := strconv.ParseFloat(text, 64); err == nil {
			values = append(values, v)
		}
	})
	return values
}

// detailURL finds an anchor matching the fixture-detail URL pattern.
// Relative paths resolve against the configured base URL. Absence is
// tolerated; H2H simply becomes unavailable for the fixture.
func (x *Extractor) detailURL(sel *goquery.Selection) string {
	var url string
	sel.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if detailHrefPattern.MatchString(href) {
			url = href
			return false
		}
		return true
	})
	if url == "" {
		return ""
	}
	if strings.HasPrefix(url, "/") {
		return x.baseURL + url
	}
	return url
}

// league returns the first title/tooltip attribute found, defaulting to the
// sentinel. Never fails the record.
func (x *Extractor) league(sel *goquery.Selection) string {
	var league string
	sel.Find("[title]").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		title, _ := el.Attr("title")
		if title = strings.TrimSpace(title); title != "" {
			league = title
			return false
		}
		return true
	})
	if league == "" {
		return event.UnknownLeague
	}
	return league
}

// matchTime returns the text of the first element whose class suggests a time
// or date. Absent times are tolerated and sort last.
func (x *Extractor) matchTime(sel *goquery.Selection) string {
	var matchTime string
	sel.Find("span, td, div").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		class, _ := el.Attr("class")
		if class == "" || !timeClassPattern.MatchString(class) {
			return true
		}
		if text := strings.TrimSpace(el.Text()); text != "" {
			matchTime = text
			return false
		}
		return true
	})
	return matchTime
}

// fixtureID prefers the container's declared data token, falling back to the
// trailing numeric segment of the detail URL.
func (x *Extractor) fixtureID(sel *goquery.Selection, detailURL string) string {
	if id, ok := sel.Attr("data-tid"); ok && strings.TrimSpace(id) != "" {
		return strings.TrimSpace(id)
	}
	if detailURL != "" {
		if m := detailIDPattern.FindStringSubmatch(detailURL); m != nil {
			return m[1]
		}
	}
	return ""
}
