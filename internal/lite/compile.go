package lite

// compile.go — compilador Lite determinista.
//
// Aislamiento de orden: la compilación escribe EXCLUSIVAMENTE el bloque
// forecast.* de cada corredor; todo lo demás es copia literal del input.
// Ese contrato es el que protege el resto del sistema.

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/aturoa13699-lab/turf-engine/internal/domain"
)

// neutral es el valor de componente cuando falta la señal.
const neutral = 0.5

// Cortes de tag sobre el score combinado.
const (
	tagACut = 0.68
	tagBCut = 0.58
)

// Weights son los pesos del blend determinista. Política interna:
// configurables, no hard-coded en los call sites.
type Weights struct {
	Market float64 `yaml:"market" json:"market"`
	Map    float64 `yaml:"map" json:"map"`
	Speed  float64 `yaml:"speed" json:"speed"`
}

// DefaultWeights replica los pesos históricos del compilador.
func DefaultWeights() Weights {
	return Weights{Market: 0.45, Map: 0.35, Speed: 0.20}
}

func (w Weights) validate() error {
	if w.Market < 0 || w.Map < 0 || w.Speed < 0 {
		return &domain.ConfigError{Param: "lite.weights", Reason: "negative weight"}
	}
	if w.Market+w.Map+w.Speed <= 0 {
		return &domain.ConfigError{Param: "lite.weights", Reason: "weights sum to zero"}
	}
	return nil
}

// Compile produce el stake card canónico a partir del snapshot y el sidecar
// de velocidades. Falla rápido con errores tipados: nunca devuelve un
// artefacto a medio escribir.
func Compile(snap domain.MarketSnapshot, sidecar domain.SpeedSidecar, w Weights) (domain.StakeCard, error) {
	if err := validateSnapshot(snap); err != nil {
		return domain.StakeCard{}, fmt.Errorf("lite.Compile: %w", err)
	}
	if err := validateSidecar(snap, sidecar); err != nil {
		return domain.StakeCard{}, fmt.Errorf("lite.Compile: %w", err)
	}
	if err := w.validate(); err != nil {
		return domain.StakeCard{}, fmt.Errorf("lite.Compile: %w", err)
	}

	runners := snap.Runners
	pricesValid := 0
	speedsValid := 0
	for _, r := range runners {
		if ValidPrice(r.PriceNowDec) {
			pricesValid++
		}
		if sp, ok := sidecar.Speeds[r.RunnerNumber]; ok && ValidSpeed(sp) {
			speedsValid++
		}
	}

	var warnings []string
	if pricesValid < len(runners) {
		if pricesValid > 0 {
			warnings = append(warnings, domain.WarnSomePricesInvalid)
		} else {
			warnings = append(warnings, domain.WarnAllPricesInvalid)
		}
	}
	if speedsValid < 3 {
		warnings = append(warnings, domain.WarnFewValidSpeeds)
	}
	sort.Strings(warnings)

	degrade := domain.DegradeNormal
	switch {
	case speedsValid == 0:
		degrade = domain.DegradeMarketOnly
	case speedsValid < len(runners) || pricesValid == 0:
		degrade = domain.DegradePartialSidecar
	}

	marketProb := marketProbabilities(runners)
	marketComp := marketComponents(runners, marketProb)
	speedComp := speedProxy(runners, sidecar)
	mapComp := mapAdvantage(runners, snap.DistanceM)

	total := w.Market + w.Map + w.Speed
	scores := make(map[int]float64, len(runners))
	for _, r := range runners {
		n := r.RunnerNumber
		s := (w.Market*marketComp[n] + w.Map*mapComp[n] + w.Speed*speedComp[n]) / total
		scores[n] = clamp(s, 0, 1)
	}

	blendBasis := blendBasis(runners, marketProb, pricesValid)
	forecasts := liteForecast(runners, scores, blendBasis, marketProb, degrade, warnings)

	out := make([]domain.CardRunner, len(runners))
	for i, r := range runners {
		n := r.RunnerNumber
		out[i] = domain.CardRunner{
			RunnerNumber:     r.RunnerNumber,
			RunnerName:       r.RunnerName,
			Barrier:          copyIntPtr(r.Barrier),
			MapRoleInferred:  r.MapRoleInferred,
			DaysSinceRun:     copyIntPtr(r.DaysSinceRun),
			JockeyWinPct12m:  copyFloatPtr(r.JockeyWinPct12m),
			TrainerWinPct12m: copyFloatPtr(r.TrainerWinPct12m),
			PriceNowDec:      copyFloatPtr(r.PriceNowDec),
		}
		f := forecasts[n]
		f.Score = scores[n]
		f.Tag = liteTag(scores[n])
		f.Components = map[string]float64{
			"market_rank_n": marketComp[n],
			"map_adv_n":     mapComp[n],
			"speed_proxy_n": speedComp[n],
		}
		out[i].Forecast = f
	}

	// Ranking: score descendente (redondeado a 1e-6), empates por
	// runner_number ascendente — nunca por el orden de la lista de entrada.
	sort.SliceStable(out, func(i, j int) bool {
		si := roundTo(out[i].Forecast.Score, 6)
		sj := roundTo(out[j].Forecast.Score, 6)
		if si != sj {
			return si > sj
		}
		return out[i].RunnerNumber < out[j].RunnerNumber
	})
	for i := range out {
		out[i].Forecast.Rank = i + 1
	}

	card := domain.StakeCard{
		ShapeID: domain.ShapeStakeCard,
		Meta: domain.CardMeta{
			MeetingID:         snap.MeetingID,
			DateLocal:         snap.DateLocal,
			RaceNumber:        snap.RaceNumber,
			DistanceM:         snap.DistanceM,
			TrackConditionRaw: snap.TrackConditionRaw,
			CapturedAt:        snap.CapturedAt,
		},
		DegradeMode: degrade,
		Warnings:    warnings,
		Runners:     out,
	}
	card.CardID = cardID(snap, sidecar, w)

	return card, nil
}

// ValidPrice acepta solo precios decimales finitos > 1.0.
func ValidPrice(p *float64) bool {
	return p != nil && !math.IsNaN(*p) && !math.IsInf(*p, 0) && *p > 1.0
}

// ValidSpeed acepta velocidades finitas >= 0.
func ValidSpeed(s float64) bool {
	return !math.IsNaN(s) && !math.IsInf(s, 0) && s >= 0
}

// marketProbabilities calcula la probabilidad implícita 1/precio,
// renormalizada sobre los corredores CON precio válido. Los corredores sin
// precio quedan fuera del mapa (probabilidad null en el artefacto) y fuera
// del denominador.
func marketProbabilities(runners []domain.SnapshotRunner) map[int]float64 {
	probs := make(map[int]float64)
	total := 0.0
	for _, r := range runners {
		if ValidPrice(r.PriceNowDec) {
			inv := 1 / *r.PriceNowDec
			probs[r.RunnerNumber] = inv
			total += inv
		}
	}
	for n, v := range probs {
		probs[n] = v / total
	}
	return probs
}

// marketComponents es la señal de mercado para el blend: probabilidad
// implícita si hay precio, neutral si no.
func marketComponents(runners []domain.SnapshotRunner, probs map[int]float64) map[int]float64 {
	out := make(map[int]float64, len(runners))
	for _, r := range runners {
		if p, ok := probs[r.RunnerNumber]; ok {
			out[r.RunnerNumber] = p
		} else {
			out[r.RunnerNumber] = neutral
		}
	}
	return out
}

// speedProxy convierte las velocidades del sidecar en z-scores acotados a
// ±3 y reescalados a [0,1]. Con menos de 3 velocidades válidas la señal se
// neutraliza entera.
func speedProxy(runners []domain.SnapshotRunner, sidecar domain.SpeedSidecar) map[int]float64 {
	type sv struct {
		n int
		v float64
	}
	var speeds []sv
	for _, r := range runners {
		if v, ok := sidecar.Speeds[r.RunnerNumber]; ok && ValidSpeed(v) {
			speeds = append(speeds, sv{r.RunnerNumber, v})
		}
	}

	out := make(map[int]float64, len(runners))
	for _, r := range runners {
		out[r.RunnerNumber] = neutral
	}
	if len(speeds) < 3 {
		return out
	}

	mean := 0.0
	for _, s := range speeds {
		mean += s.v
	}
	mean /= float64(len(speeds))

	variance := 0.0
	for _, s := range speeds {
		variance += (s.v - mean) * (s.v - mean)
	}
	variance /= float64(len(speeds))
	std := math.Sqrt(math.Max(variance, 1e-9))

	for _, s := range speeds {
		z := clamp((s.v-mean)/std, -3, 3)
		out[s.n] = 0.5 + z/6
	}
	return out
}

var roleBases = map[string]float64{
	"LEAD":    0.62,
	"ON_PACE": 0.58,
	"MID":     0.50,
	"BACK":    0.42,
	"UNKNOWN": 0.50,
}

// mapAdvantage combina el rol de carrera inferido con la posición relativa
// de barrera (ajustada por distancia) y re-centra alrededor de 0.5.
func mapAdvantage(runners []domain.SnapshotRunner, distanceM int) map[int]float64 {
	pct := barrierPercentiles(runners)

	raw := make(map[int]float64, len(runners))
	sum := 0.0
	for _, r := range runners {
		role := normalizeRole(r.MapRoleInferred)
		base, ok := roleBases[role]
		if !ok {
			base = roleBases["UNKNOWN"]
		}
		v := base + barrierDelta(distanceM, pct[r.RunnerNumber])
		raw[r.RunnerNumber] = v
		sum += v
	}

	mean := sum / float64(len(runners))
	out := make(map[int]float64, len(runners))
	for n, v := range raw {
		out[n] = clamp(0.5+(v-mean), 0, 1)
	}
	return out
}

func normalizeRole(role string) string {
	switch role {
	case "":
		return "UNKNOWN"
	default:
		out := make([]byte, len(role))
		for i := 0; i < len(role); i++ {
			c := role[i]
			if c >= 'a' && c <= 'z' {
				c -= 'a' - 'A'
			}
			out[i] = c
		}
		return string(out)
	}
}

// barrierPercentiles ordena las barreras presentes por (barrera, número) y
// asigna percentiles 0..1; los corredores sin barrera quedan en 0.5.
func barrierPercentiles(runners []domain.SnapshotRunner) map[int]float64 {
	type bn struct {
		n, barrier int
	}
	var present []bn
	for _, r := range runners {
		if r.Barrier != nil && *r.Barrier >= 1 {
			present = append(present, bn{r.RunnerNumber, *r.Barrier})
		}
	}

	out := make(map[int]float64, len(runners))
	for _, r := range runners {
		out[r.RunnerNumber] = 0.5
	}
	if len(present) == 0 {
		return out
	}

	sort.Slice(present, func(i, j int) bool {
		if present[i].barrier != present[j].barrier {
			return present[i].barrier < present[j].barrier
		}
		return present[i].n < present[j].n
	})

	denom := float64(max(1, len(present)-1))
	for rank, p := range present {
		out[p.n] = float64(rank) / denom
	}
	return out
}

func barrierDelta(distanceM int, pct float64) float64 {
	if distanceM <= 0 {
		distanceM = 1200
	}
	var inside, wide float64
	switch {
	case distanceM <= 1300:
		inside, wide = 0.03, -0.05
	case distanceM <= 1700:
		inside, wide = 0.02, -0.04
	default:
		inside, wide = 0.01, -0.03
	}
	switch {
	case pct <= 0.25:
		return inside
	case pct >= 0.75:
		return wide
	default:
		return 0
	}
}

func liteTag(score float64) string {
	switch {
	case score >= tagACut:
		return "A_LITE"
	case score >= tagBCut:
		return "B_LITE"
	default:
		return "PASS_LITE"
	}
}

// blendBasis es la base de mercado del blend de probabilidades: las
// probabilidades implícitas (con neutral para los huecos), o uniforme si
// ningún precio es válido.
func blendBasis(runners []domain.SnapshotRunner, probs map[int]float64, pricesValid int) map[int]float64 {
	out := make(map[int]float64, len(runners))
	if pricesValid == 0 {
		u := 1 / float64(len(runners))
		for _, r := range runners {
			out[r.RunnerNumber] = u
		}
		return out
	}
	for _, r := range runners {
		if p, ok := probs[r.RunnerNumber]; ok {
			out[r.RunnerNumber] = p
		} else {
			out[r.RunnerNumber] = neutral
		}
	}
	return out
}

// liteForecast aplica el overlay "featureless" del compilador: softmax
// sobre los scores (temperatura según degradación) mezclado con la base de
// mercado, más probabilidades de place estilo Harville.
func liteForecast(
	runners []domain.SnapshotRunner,
	scores map[int]float64,
	basis map[int]float64,
	marketProb map[int]float64,
	degrade string,
	warnings []string,
) map[int]domain.Forecast {
	tau := 0.12
	alpha := 0.25
	switch degrade {
	case domain.DegradeMarketOnly:
		tau, alpha = 0.18, 0.70
	case domain.DegradePartialSidecar:
		tau, alpha = 0.14, 0.40
	}
	if hasWarning(warnings, domain.WarnFewValidSpeeds) {
		tau = math.Max(tau, 0.14)
	}
	if hasWarning(warnings, domain.WarnAllPricesInvalid) {
		tau = math.Max(tau, 0.16)
	}

	nums := make([]int, 0, len(runners))
	z := 0.0
	exps := make(map[int]float64, len(runners))
	for _, r := range runners {
		n := r.RunnerNumber
		nums = append(nums, n)
		e := math.Exp(scores[n] / tau)
		exps[n] = e
		z += e
	}

	win := make(map[int]float64, len(nums))
	for _, n := range nums {
		win[n] = (1-alpha)*(exps[n]/z) + alpha*basis[n]
	}

	place := make(map[int]float64, len(nums))
	for _, n := range nums {
		acc := 0.0
		for _, k := range nums {
			if k == n {
				continue
			}
			if d := 1 - win[k]; d > 0 {
				acc += win[k] * (win[n] / d)
			}
		}
		place[n] = clamp(win[n]+acc, 0, 1)
	}

	certainty := certaintyFor(degrade, warnings)

	out := make(map[int]domain.Forecast, len(nums))
	for _, r := range runners {
		n := r.RunnerNumber
		f := domain.Forecast{
			WinProb:   win[n],
			PlaceProb: place[n],
			Certainty: certainty,
		}
		if mp, ok := marketProb[n]; ok {
			v := mp
			f.MarketProb = &v
			edge := win[n] - mp
			f.ValueEdge = &edge
		}
		if ValidPrice(r.PriceNowDec) {
			b := *r.PriceNowDec - 1
			ev := win[n]*b - (1 - win[n])
			f.EV1U = &ev
		}
		out[n] = f
	}
	return out
}

func certaintyFor(degrade string, warnings []string) float64 {
	switch {
	case degrade == domain.DegradeNormal && len(warnings) == 0:
		return 1.00
	case hasWarning(warnings, domain.WarnSomePricesInvalid):
		return 0.80
	case hasWarning(warnings, domain.WarnAllPricesInvalid) || hasWarning(warnings, domain.WarnFewValidSpeeds):
		return 0.60
	default:
		return 0.80
	}
}

func validateSnapshot(snap domain.MarketSnapshot) error {
	if snap.MeetingID == "" {
		return &domain.MalformedInputError{Field: "market.meeting_id", Reason: "required"}
	}
	if snap.RaceNumber < 1 {
		return &domain.MalformedInputError{Field: "market.race_number", Reason: "must be >= 1"}
	}
	if len(snap.Runners) == 0 {
		return &domain.MalformedInputError{Field: "market.runners", Reason: "empty"}
	}
	seen := make(map[int]bool, len(snap.Runners))
	for _, r := range snap.Runners {
		if r.RunnerNumber < 1 {
			return &domain.MalformedInputError{Field: "market.runner_number", Reason: "must be >= 1"}
		}
		if r.RunnerName == "" {
			return &domain.MalformedInputError{
				Field:  "market.runner_name",
				Reason: fmt.Sprintf("empty for runner %d", r.RunnerNumber),
			}
		}
		if seen[r.RunnerNumber] {
			return &domain.MalformedInputError{
				Field:  "market.runner_number",
				Reason: fmt.Sprintf("duplicate %d", r.RunnerNumber),
			}
		}
		seen[r.RunnerNumber] = true
	}
	return nil
}

// validateSidecar exige alineación por runner_number: una velocidad para un
// corredor inexistente es input inválido, no ruido a ignorar.
func validateSidecar(snap domain.MarketSnapshot, sidecar domain.SpeedSidecar) error {
	if len(sidecar.Speeds) == 0 {
		return nil
	}
	known := make(map[int]bool, len(snap.Runners))
	for _, r := range snap.Runners {
		known[r.RunnerNumber] = true
	}
	for n := range sidecar.Speeds {
		if !known[n] {
			return &domain.MalformedInputError{
				Field:  "sidecar.speeds",
				Reason: fmt.Sprintf("runner %d not in market snapshot", n),
			}
		}
	}
	return nil
}

// cardID es el hash de los inputs de compilación en JSON canónico.
func cardID(snap domain.MarketSnapshot, sidecar domain.SpeedSidecar, w Weights) string {
	payload := struct {
		Market  domain.MarketSnapshot `json:"market"`
		Sidecar domain.SpeedSidecar   `json:"sidecar"`
		Weights Weights               `json:"weights"`
	}{snap, sidecar, w}

	data, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func hasWarning(warnings []string, w string) bool {
	for _, x := range warnings {
		if x == w {
			return true
		}
	}
	return false
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func roundTo(x float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(x*p) / p
}

func copyIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyFloatPtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
