package markets

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Kind is the market family a display name belongs to. Adjacent families
// share vocabulary ("over", "total") but settle differently, so a range or
// per-ball market must never be treated as a single-over market.
type Kind int

const (
	// KindOther: anything that is not an over-total market.
	KindOther Kind = iota
	// KindSingleOver: runs scored in one specific over for one team,
	// e.g. "1st innings over 2 - Delhi Capitals total".
	KindSingleOver
	// KindOverRange: cumulative runs across a span of overs,
	// e.g. "1st innings overs 1 to 6 - Delhi Capitals total".
	KindOverRange
	// KindPerBall: a single-delivery market,
	// e.g. "1st innings over 2 delivery 3 - Delhi Capitals total".
	KindPerBall
)

func (k Kind) String() string {
	switch k {
	case KindSingleOver:
		return "single_over"
	case KindOverRange:
		return "over_range"
	case KindPerBall:
		return "per_ball"
	default:
		return "other"
	}
}

// Classification is the parsed market taxonomy for one display name.
// Innings, Over and Team are populated only for KindSingleOver.
type Classification struct {
	Kind    Kind
	Innings int
	Over    int
	Team    string
}

var (
	overRangeRe = regexp.MustCompile(`overs \d+ to \d+`)
	inningsRe   = regexp.MustCompile(`(\d+)(?:st|nd|rd|th) innings`)
	overRe      = regexp.MustCompile(`over (\d+)`)
	teamRe      = regexp.MustCompile(`- (.+?) total`)

	overThresholdRe = regexp.MustCompile(`Over (\d+\.?\d*)`)
)

// Classify determines which market family a market line's display name
// belongs to. Names that mention "over" and "total" but fail the canonical
// single-over shape come back as KindOther, not as an error.
func Classify(marketName string) Classification {
	lower := strings.ToLower(marketName)

	if !strings.Contains(lower, "over") || !strings.Contains(lower, "total") {
		return Classification{Kind: KindOther}
	}
	if strings.Contains(lower, "delivery") {
		return Classification{Kind: KindPerBall}
	}
	if overRangeRe.MatchString(lower) {
		return Classification{Kind: KindOverRange}
	}

	inningsMatch := inningsRe.FindStringSubmatch(marketName)
	overMatch := overRe.FindStringSubmatch(marketName)
	teamMatch := teamRe.FindStringSubmatch(marketName)
	if inningsMatch == nil || overMatch == nil || teamMatch == nil {
		return Classification{Kind: KindOther}
	}

	// The three fragments must also line up as one canonical phrase, so a
	// name that merely contains the pieces in some other arrangement (extra
	// qualifiers in between) is rejected.
	canonical := fmt.Sprintf("%s over %s - %s total", inningsMatch[0], overMatch[1], teamMatch[1])
	if !strings.Contains(marketName, canonical) {
		return Classification{Kind: KindOther}
	}

	innings, err := strconv.Atoi(inningsMatch[1])
	if err != nil {
		return Classification{Kind: KindOther}
	}
	over, err := strconv.Atoi(overMatch[1])
	if err != nil {
		return Classification{Kind: KindOther}
	}

	return Classification{
		Kind:    KindSingleOver,
		Innings: innings,
		Over:    over,
		Team:    teamMatch[1],
	}
}

// OverThreshold parses the decimal threshold out of a selection name like
// "Over 7.5". Selection names that do not carry an over threshold return
// ok=false.
func OverThreshold(selectionName string) (float64, bool) {
	if !strings.Contains(strings.ToLower(selectionName), "over") {
		return 0, false
	}
	m := overThresholdRe.FindStringSubmatch(selectionName)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
