package lite

// merge.go — fusión de odds en el snapshot de mercado.
//
// Matching estricto por igualdad exacta de nombre (case-insensitive), SIN
// fuzzy: en esta etapa un miss es señal de datos, no algo a adivinar.
// Nunca muta los inputs; siempre devuelve un snapshot nuevo.

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aturoa13699-lab/turf-engine/internal/domain"
)

// MergeOdds devuelve una copia del snapshot con price_now_dec actualizado
// para cada corredor cuyo nombre coincide exactamente (ignorando mayúsculas)
// con una fila de odds. Los corredores sin match conservan su precio previo
// (o null) y se reportan en warnings, ordenados.
func MergeOdds(snap domain.MarketSnapshot, odds domain.MarketOdds) (domain.MarketSnapshot, []string, error) {
	if err := validateSnapshot(snap); err != nil {
		return domain.MarketSnapshot{}, nil, fmt.Errorf("lite.MergeOdds: %w", err)
	}
	if odds.MeetingID == "" {
		return domain.MarketSnapshot{}, nil, fmt.Errorf("lite.MergeOdds: %w",
			&domain.MalformedInputError{Field: "odds.meeting_id", Reason: "required"})
	}
	if odds.MeetingID != snap.MeetingID {
		return domain.MarketSnapshot{}, nil, fmt.Errorf("lite.MergeOdds: %w",
			&domain.MalformedInputError{
				Field:  "odds.meeting_id",
				Reason: fmt.Sprintf("%q does not match snapshot %q", odds.MeetingID, snap.MeetingID),
			})
	}

	prices := make(map[string]*float64, len(odds.Runners))
	for _, row := range odds.Runners {
		key := mergeKey(row.RunnerName)
		if key == "" {
			return domain.MarketSnapshot{}, nil, fmt.Errorf("lite.MergeOdds: %w",
				&domain.MalformedInputError{Field: "odds.runner_name", Reason: "empty"})
		}
		prices[key] = row.PriceNowDec
	}

	out := snap.Clone()
	var warnings []string
	for i := range out.Runners {
		price, ok := prices[mergeKey(out.Runners[i].RunnerName)]
		if !ok {
			warnings = append(warnings,
				fmt.Sprintf("%s: %s", domain.WarnOddsMiss, out.Runners[i].RunnerName))
			continue
		}
		if price != nil {
			v := *price
			out.Runners[i].PriceNowDec = &v
		}
	}
	sort.Strings(warnings)

	return out, warnings, nil
}

func mergeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
