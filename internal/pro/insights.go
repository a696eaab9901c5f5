package pro

// insights.go carries the narrative layer: per-runner fitness flags, risk
// tags, one-line summaries and the race-level trap heuristic. Each group is
// gated by its own flag; trap_race in particular never piggybacks on
// runner_risk.

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aturoa13699-lab/turf-engine/internal/domain"
	"github.com/aturoa13699-lab/turf-engine/internal/lite"
)

const (
	goodBarrierMax = 3
	wideBarrierMin = 10
	recentRunMax   = 21
	longBreakMin   = 60
	highSpeedMin   = 17.5
	lowCertainty   = 0.70
	longshotPrice  = 15.0
)

// fitnessFlags emits deterministic, sorted flags from the pass-through
// fields plus the sidecar speed.
func fitnessFlags(r domain.CardRunner, sidecar domain.SpeedSidecar) []string {
	var flags []string
	if r.Barrier != nil {
		if *r.Barrier <= goodBarrierMax {
			flags = append(flags, "GOOD_BARRIER")
		} else if *r.Barrier >= wideBarrierMin {
			flags = append(flags, "WIDE_BARRIER")
		}
	}
	switch strings.ToUpper(strings.TrimSpace(r.MapRoleInferred)) {
	case "LEAD":
		flags = append(flags, "LIKELY_LEADER")
	case "ON_PACE":
		flags = append(flags, "ON_PACE_PATTERN")
	}
	if r.DaysSinceRun != nil {
		if *r.DaysSinceRun <= recentRunMax {
			flags = append(flags, "RECENT_RUN")
		} else if *r.DaysSinceRun >= longBreakMin {
			flags = append(flags, "LONG_BREAK")
		}
	}
	if sp, ok := sidecar.Speeds[r.RunnerNumber]; ok && lite.ValidSpeed(sp) && sp >= highSpeedMin {
		flags = append(flags, "HIGH_SPEED")
	}
	sort.Strings(flags)
	return flags
}

// riskTags emits sorted tags over the rewritten forecast.
func riskTags(r domain.CardRunner) []string {
	var tags []string
	if rp, ok := riskProfile(r); ok && rp == "UNDERLAY" {
		tags = append(tags, "UNDERLAY")
	}
	if r.Forecast.Certainty < lowCertainty {
		tags = append(tags, "LOW_CERTAINTY")
	}
	if lite.ValidPrice(r.PriceNowDec) && *r.PriceNowDec >= longshotPrice {
		tags = append(tags, "LONGSHOT")
	}
	if r.Forecast.MarketProb == nil {
		tags = append(tags, "NO_PRICE")
	}
	sort.Strings(tags)
	return tags
}

// runnerSummary renders one deterministic line per runner. Fixed templates
// only, so the same card always produces the same text.
func runnerSummary(r domain.CardRunner) string {
	var parts []string
	parts = append(parts, fmt.Sprintf("win %.1f%%", r.Forecast.WinProb*100))
	if lite.ValidPrice(r.PriceNowDec) {
		parts = append(parts, fmt.Sprintf("$%.2f", *r.PriceNowDec))
	} else {
		parts = append(parts, "no price")
	}
	if r.Forecast.EV1U != nil {
		parts = append(parts, fmt.Sprintf("EV %+.2f", *r.Forecast.EV1U))
	}
	if role := strings.ToUpper(strings.TrimSpace(r.MapRoleInferred)); role != "" && role != "UNKNOWN" {
		parts = append(parts, strings.ToLower(strings.ReplaceAll(role, "_", " ")))
	}
	if r.Barrier != nil {
		parts = append(parts, fmt.Sprintf("barrier %d", *r.Barrier))
	}
	return fmt.Sprintf("#%d %s: %s", r.RunnerNumber, r.RunnerName, strings.Join(parts, ", "))
}

// deriveTrapRace counts independent weakness signals on the card; two or
// more mark the race as a trap.
func deriveTrapRace(card domain.StakeCard) bool {
	signals := 0

	if card.DegradeMode != domain.DegradeNormal {
		signals++
	}
	if len(card.Warnings) > 0 {
		signals++
	}

	n := len(card.Runners)
	lowCert, back, inside, wide, unpriced := 0, 0, 0, 0, 0
	for _, r := range card.Runners {
		if r.Forecast.Certainty < lowCertainty {
			lowCert++
		}
		if strings.ToUpper(strings.TrimSpace(r.MapRoleInferred)) == "BACK" {
			back++
		}
		if r.Barrier != nil {
			if *r.Barrier <= goodBarrierMax {
				inside++
			} else if *r.Barrier >= wideBarrierMin {
				wide++
			}
		}
		if !lite.ValidPrice(r.PriceNowDec) {
			unpriced++
		}
	}

	if lowCert*2 >= n {
		signals++
	}
	if back*2 >= n {
		signals++
	}
	if inside >= 2 && wide >= 2 {
		signals++
	}
	if unpriced > 0 {
		signals++
	}

	return signals >= 2
}
