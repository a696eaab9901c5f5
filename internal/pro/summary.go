package pro

// summary.go builds the race-level summary block. Deterministic ordering
// everywhere: ties always break on runner_number ascending.

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aturoa13699-lab/turf-engine/internal/domain"
)

const (
	maxTopPicks   = 2
	maxValuePicks = 2
	maxFades      = 2
	fadeEVCut     = -0.01
)

func buildRaceSummary(runners []domain.CardRunner) domain.RaceSummary {
	byWin := append([]domain.CardRunner(nil), runners...)
	sort.SliceStable(byWin, func(i, j int) bool {
		if byWin[i].Forecast.WinProb != byWin[j].Forecast.WinProb {
			return byWin[i].Forecast.WinProb > byWin[j].Forecast.WinProb
		}
		ei, ej := evOrZero(byWin[i]), evOrZero(byWin[j])
		if ei != ej {
			return ei > ej
		}
		return byWin[i].RunnerNumber < byWin[j].RunnerNumber
	})

	var top []int
	for _, r := range byWin {
		if len(top) == maxTopPicks {
			break
		}
		top = append(top, r.RunnerNumber)
	}

	var positive, fades []domain.CardRunner
	for _, r := range runners {
		if r.Forecast.EV1U == nil {
			continue
		}
		if *r.Forecast.EV1U > 0 {
			positive = append(positive, r)
		} else if *r.Forecast.EV1U < fadeEVCut {
			fades = append(fades, r)
		}
	}

	sort.SliceStable(positive, func(i, j int) bool {
		if *positive[i].Forecast.EV1U != *positive[j].Forecast.EV1U {
			return *positive[i].Forecast.EV1U > *positive[j].Forecast.EV1U
		}
		return positive[i].RunnerNumber < positive[j].RunnerNumber
	})
	sort.SliceStable(fades, func(i, j int) bool {
		if *fades[i].Forecast.EV1U != *fades[j].Forecast.EV1U {
			return *fades[i].Forecast.EV1U < *fades[j].Forecast.EV1U
		}
		return fades[i].RunnerNumber < fades[j].RunnerNumber
	})

	var value []int
	for _, r := range positive {
		if len(value) == maxValuePicks {
			break
		}
		value = append(value, r.RunnerNumber)
	}
	var fadeNums []int
	for _, r := range fades {
		if len(fadeNums) == maxFades {
			break
		}
		fadeNums = append(fadeNums, r.RunnerNumber)
	}

	return domain.RaceSummary{
		TopPicks:   top,
		ValuePicks: value,
		Fades:      fadeNums,
		Strategy:   strategyLine(top, value, fadeNums),
	}
}

func strategyLine(top, value, fades []int) string {
	var parts []string
	if len(top) > 0 {
		parts = append(parts, "key "+joinNums(top))
	}
	if len(value) > 0 {
		parts = append(parts, "value "+joinNums(value))
	} else {
		parts = append(parts, "no positive EV")
	}
	if len(fades) > 0 {
		parts = append(parts, "fade "+joinNums(fades))
	}
	return strings.Join(parts, "; ")
}

func joinNums(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = fmt.Sprintf("#%d", n)
	}
	return strings.Join(parts, " ")
}

func evOrZero(r domain.CardRunner) float64 {
	if r.Forecast.EV1U == nil {
		return 0
	}
	return *r.Forecast.EV1U
}
