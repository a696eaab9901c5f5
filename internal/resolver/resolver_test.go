package resolver_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aturoa13699-lab/turf-engine/internal/domain"
	"github.com/aturoa13699-lab/turf-engine/internal/resolver"
)

func makeRegistry() domain.TrackRegistry {
	return domain.TrackRegistry{
		ShapeID: domain.ShapeTrackRegistry,
		Version: "2026-08-01",
		States: map[string]domain.StateTracks{
			"NSW": {Tracks: []domain.TrackEntry{
				{Canonical: "Randwick", Code: "RAND", Aliases: []string{"royal randwick"}},
				{Canonical: "Rosehill", Code: "ROSE", Aliases: []string{"rosehill gardens"}},
			}},
			"VIC": {Tracks: []domain.TrackEntry{
				{Canonical: "Flemington", Code: "FLEM"},
				{Canonical: "Caulfield", Code: "CAUL", Aliases: []string{"the heath"}},
			}},
		},
	}
}

func TestResolve_Exact(t *testing.T) {
	ix := resolver.NewIndex(makeRegistry())

	match, err := ix.Resolve("Randwick", "")
	require.NoError(t, err)

	assert.Equal(t, domain.MatchExact, match.Kind)
	assert.Equal(t, "Randwick", match.Canonical)
	assert.Equal(t, "RAND", match.Code)
	assert.Equal(t, "NSW", match.State)
	assert.Equal(t, 1.0, match.Confidence)
}

func TestResolve_Alias_RoyalRandwick(t *testing.T) {
	ix := resolver.NewIndex(makeRegistry())

	match, err := ix.Resolve("Royal Randwick", "")
	require.NoError(t, err)

	assert.Equal(t, domain.MatchAlias, match.Kind)
	assert.Equal(t, "Randwick", match.Canonical)
	assert.Equal(t, 1.0, match.Confidence)
}

func TestResolve_ExactIgnoresCaseAndPunctuation(t *testing.T) {
	ix := resolver.NewIndex(makeRegistry())

	match, err := ix.Resolve("  flemington! ", "")
	require.NoError(t, err)
	assert.Equal(t, domain.MatchExact, match.Kind)
	assert.Equal(t, "FLEM", match.Code)
}

func TestResolve_Fuzzy(t *testing.T) {
	ix := resolver.NewIndex(makeRegistry())

	// "RANDWCK" está a distancia 1 de "RANDWICK": ratio 87.5, sobre umbral
	match, err := ix.Resolve("Randwck", "")
	require.NoError(t, err)

	assert.Equal(t, domain.MatchFuzzy, match.Kind)
	assert.Equal(t, "Randwick", match.Canonical)
	assert.InDelta(t, 0.875, match.Confidence, 1e-9)
}

func TestResolve_FuzzyBelowThreshold(t *testing.T) {
	ix := resolver.NewIndex(makeRegistry())

	_, err := ix.Resolve("Ascot Racecourse", "")
	require.Error(t, err)

	var nf *domain.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "Ascot Racecourse", nf.Query)
}

func TestResolve_FuzzyTieBreaksOnSmallerCode(t *testing.T) {
	reg := domain.TrackRegistry{
		Version: "tie",
		States: map[string]domain.StateTracks{
			"QLD": {Tracks: []domain.TrackEntry{
				{Canonical: "Trackb", Code: "TB"},
				{Canonical: "Tracka", Code: "TA"},
			}},
		},
	}
	ix := resolver.NewIndex(reg)

	// "TRACKC" queda a distancia 1 de ambos candidatos: mismo score exacto
	match, err := ix.Resolve("Trackc", "")
	require.NoError(t, err)
	assert.Equal(t, domain.MatchFuzzy, match.Kind)
	assert.Equal(t, "TA", match.Code)
}

func TestResolve_StateHintFiltersFuzzy(t *testing.T) {
	ix := resolver.NewIndex(makeRegistry())

	match, err := ix.Resolve("Caulfeld", "VIC")
	require.NoError(t, err)
	assert.Equal(t, "CAUL", match.Code)
	assert.Equal(t, "VIC", match.State)
}

func TestBuildPlan_CollectsWarningsAndContinues(t *testing.T) {
	ix := resolver.NewIndex(makeRegistry())

	plan := resolver.BuildPlan(ix, []domain.PlanItem{
		{Date: "2026-08-29", State: "NSW", Track: "Randwick"},
		{Date: "2026-08-29", State: "", Track: "No Such Track Anywhere"},
		{Date: "2026-08-29", State: "VIC", Track: "Flemington"},
	})

	assert.Equal(t, resolver.ShapeScrapePlan, plan.ShapeID)
	assert.NotEmpty(t, plan.PlanID)
	assert.Equal(t, "2026-08-01", plan.RegistryVersion)
	require.Len(t, plan.Tracks, 2)
	require.Len(t, plan.Warnings, 1)
	assert.Contains(t, plan.Warnings[0], "No Such Track Anywhere")
	assert.Equal(t, "RAND", plan.Tracks[0].Code)
	assert.Equal(t, "FLEM", plan.Tracks[1].Code)
}
