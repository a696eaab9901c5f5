package digest

// daily.go — agregador diario. Escanea un directorio de stake cards,
// deduplica por (date_local, meeting_id) prefiriendo la variante PRO,
// selecciona apuestas y arma el índice diario determinista. Los ficheros
// fuente nunca se modifican.

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aturoa13699-lab/turf-engine/internal/bankroll"
	"github.com/aturoa13699-lab/turf-engine/internal/domain"
)

// ShapeDailyDigest identifica el artefacto diario.
const ShapeDailyDigest = "turf.daily_digest.v1"

// proSuffix marca los artefactos PRO en disco.
const proSuffix = "_pro.json"

// DailyConfig parametriza la agregación. Simulate y EmitMeetingArtifacts
// son opcionales y no alteran la estructura del índice cuando están
// apagados.
type DailyConfig struct {
	PreferPro            bool                  `json:"prefer_pro" yaml:"prefer_pro"`
	Simulate             bool                  `json:"simulate" yaml:"simulate"`
	EmitMeetingArtifacts bool                  `json:"emit_meeting_artifacts" yaml:"emit_meeting_artifacts"`
	OutDir               string                `json:"-" yaml:"out_dir"`
	Rules                domain.SelectionRules `json:"rules" yaml:"rules"`
	Policy               domain.BankrollPolicy `json:"policy" yaml:"policy"`
	Sim                  bankroll.SimConfig    `json:"sim" yaml:"sim"`
}

// DefaultDailyConfig replica el comportamiento histórico: prefiere PRO y no
// simula.
func DefaultDailyConfig() DailyConfig {
	return DailyConfig{
		PreferPro: true,
		Rules:     domain.DefaultSelectionRules(),
		Policy:    domain.DefaultBankrollPolicy(),
		Sim:       bankroll.DefaultSimConfig(),
	}
}

// SourceCard es un card cargado junto a su ruta de origen.
type SourceCard struct {
	Path string
	Card domain.StakeCard
}

// MeetingRecord es la entrada por meeting del índice diario.
type MeetingRecord struct {
	DateLocal    string                     `json:"date_local"`
	MeetingID    string                     `json:"meeting_id"`
	SourcePath   string                     `json:"source_path"`
	Pro          bool                       `json:"pro"`
	RaceNumber   int                        `json:"race_number"`
	DegradeMode  string                     `json:"degrade_mode"`
	Warnings     []string                   `json:"warnings,omitempty"`
	TrapRace     *bool                      `json:"trap_race,omitempty"`
	Bets         []StrategyBetRow           `json:"bets"`
	Simulation   *bankroll.SimulationResult `json:"simulation,omitempty"`
	ArtifactPath string                     `json:"artifact_path,omitempty"`
}

// DailyCounts resume el pase de agregación.
type DailyCounts struct {
	SourceFiles int `json:"source_files"`
	Deduped     int `json:"deduped"`
	Meetings    int `json:"meetings"`
	ProCards    int `json:"pro_cards"`
	Bets        int `json:"bets"`
}

// DailyDigest es el índice diario completo.
type DailyDigest struct {
	ShapeID  string          `json:"shape_id"`
	Config   DailyConfig     `json:"config"`
	Counts   DailyCounts     `json:"counts"`
	Meetings []MeetingRecord `json:"meetings"`
}

// Discover lista los ficheros de stake card bajo el directorio, en orden de
// ruta ascendente, nunca en orden de iteración del filesystem.
func Discover(dir string) ([]string, error) {
	pattern := filepath.Join(dir, "*stake_card*.json")
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("digest.Discover: %w", err)
	}
	sort.Strings(paths)
	return paths, nil
}

// LoadCard lee y parsea un stake card desde disco.
func LoadCard(path string) (domain.StakeCard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.StakeCard{}, fmt.Errorf("digest.LoadCard: %w", err)
	}
	var card domain.StakeCard
	if err := json.Unmarshal(data, &card); err != nil {
		return domain.StakeCard{}, fmt.Errorf("digest.LoadCard: %w",
			&domain.MalformedInputError{Field: path, Reason: err.Error()})
	}
	if card.ShapeID != domain.ShapeStakeCard {
		return domain.StakeCard{}, fmt.Errorf("digest.LoadCard: %w",
			&domain.MalformedInputError{Field: path, Reason: "unexpected shape_id " + card.ShapeID})
	}
	return card, nil
}

// DedupeByMeeting colapsa los cards por (date_local, meeting_id). Con
// preferPro activo la variante PRO gana sobre la Lite; a igualdad, gana la
// ruta lexicográficamente menor. El resultado conserva orden determinista.
func DedupeByMeeting(cards []SourceCard, preferPro bool) []SourceCard {
	type key struct{ date, meeting string }
	best := make(map[key]SourceCard)
	var order []key

	for _, sc := range cards {
		k := key{sc.Card.Meta.DateLocal, sc.Card.Meta.MeetingID}
		cur, seen := best[k]
		if !seen {
			best[k] = sc
			order = append(order, k)
			continue
		}
		if preferPro && isProPath(sc.Path) != isProPath(cur.Path) {
			if isProPath(sc.Path) {
				best[k] = sc
			}
			continue
		}
		if sc.Path < cur.Path {
			best[k] = sc
		}
	}

	out := make([]SourceCard, 0, len(order))
	for _, k := range order {
		out = append(out, best[k])
	}
	return out
}

func isProPath(path string) bool {
	return strings.HasSuffix(path, proSuffix)
}

// BuildDaily corre el pase completo de agregación sobre un directorio.
func BuildDaily(dir string, cfg DailyConfig) (DailyDigest, error) {
	paths, err := Discover(dir)
	if err != nil {
		return DailyDigest{}, err
	}

	sources := make([]SourceCard, 0, len(paths))
	for _, p := range paths {
		card, err := LoadCard(p)
		if err != nil {
			return DailyDigest{}, err
		}
		sources = append(sources, SourceCard{Path: p, Card: card})
	}

	digest, err := BuildDailyFromCards(sources, cfg)
	if err != nil {
		return DailyDigest{}, err
	}
	digest.Counts.SourceFiles = len(paths)
	return digest, nil
}

// BuildDailyFromCards agrega cards ya cargados. Separado de BuildDaily para
// que el núcleo quede libre de I/O.
func BuildDailyFromCards(sources []SourceCard, cfg DailyConfig) (DailyDigest, error) {
	if err := cfg.Policy.Validate(); err != nil {
		return DailyDigest{}, fmt.Errorf("digest.BuildDailyFromCards: %w", err)
	}

	selected := DedupeByMeeting(sources, cfg.PreferPro)

	records := make([]MeetingRecord, 0, len(selected))
	counts := DailyCounts{
		SourceFiles: len(sources),
		Deduped:     len(sources) - len(selected),
	}

	for _, sc := range selected {
		rec, err := buildMeetingRecord(sc, cfg)
		if err != nil {
			return DailyDigest{}, err
		}
		if sc.Card.IsPro() {
			counts.ProCards++
		}
		counts.Bets += len(rec.Bets)
		records = append(records, rec)
	}
	counts.Meetings = len(records)

	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.DateLocal != b.DateLocal {
			return a.DateLocal < b.DateLocal
		}
		if a.MeetingID != b.MeetingID {
			return a.MeetingID < b.MeetingID
		}
		return a.SourcePath < b.SourcePath
	})

	return DailyDigest{
		ShapeID:  ShapeDailyDigest,
		Config:   cfg,
		Counts:   counts,
		Meetings: records,
	}, nil
}

func buildMeetingRecord(sc SourceCard, cfg DailyConfig) (MeetingRecord, error) {
	card := sc.Card

	bets, err := bankroll.SelectBets(card, cfg.Rules)
	if err != nil {
		return MeetingRecord{}, fmt.Errorf("digest.BuildDailyFromCards: %s: %w", sc.Path, err)
	}

	byRunner := make(map[int]domain.CardRunner, len(card.Runners))
	for _, r := range card.Runners {
		byRunner[r.RunnerNumber] = r
	}

	rows := make([]StrategyBetRow, 0, len(bets))
	for _, b := range bets {
		stake, err := bankroll.Stake(b, cfg.Policy)
		if err != nil {
			return MeetingRecord{}, fmt.Errorf("digest.BuildDailyFromCards: %s: %w", sc.Path, err)
		}
		rows = append(rows, StrategyBetRow{
			MeetingID:    b.MeetingID,
			DateLocal:    b.DateLocal,
			RaceNumber:   b.RaceNumber,
			RunnerNumber: b.RunnerNumber,
			OddsDec:      b.OddsDec,
			WinProb:      b.WinProb,
			EV1U:         b.EV1U,
			Stake:        stake,
			StakePolicy:  string(cfg.Policy.Mode),
			ReasonTags:   reasonTags(b, byRunner[b.RunnerNumber]),
		})
	}

	rec := MeetingRecord{
		DateLocal:   card.Meta.DateLocal,
		MeetingID:   card.Meta.MeetingID,
		SourcePath:  sc.Path,
		Pro:         card.IsPro(),
		RaceNumber:  card.Meta.RaceNumber,
		DegradeMode: card.DegradeMode,
		Warnings:    card.Warnings,
		TrapRace:    card.TrapRace,
		Bets:        rows,
	}

	// La simulación consume su propio stream por meeting: la misma semilla
	// produce el mismo resultado sea cual sea el orden de agregación.
	if cfg.Simulate && len(bets) > 0 {
		sim, err := bankroll.Simulate(bets, cfg.Policy, cfg.Sim, nil)
		if err != nil {
			return MeetingRecord{}, fmt.Errorf("digest.BuildDailyFromCards: %s: %w", sc.Path, err)
		}
		sim.EquityCurve = nil // la curva entera no cabe en el índice diario
		rec.Simulation = &sim
	}

	// Artefacto por meeting: opcional y sin efecto sobre el índice cuando
	// está apagado.
	if cfg.EmitMeetingArtifacts && cfg.OutDir != "" {
		name := fmt.Sprintf("%s_%s_digest.json", card.Meta.DateLocal, card.Meta.MeetingID)
		path := filepath.Join(cfg.OutDir, name)
		if err := WriteJSONFile(path, rec); err != nil {
			return MeetingRecord{}, err
		}
		rec.ArtifactPath = path
	}

	return rec, nil
}
