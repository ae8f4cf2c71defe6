package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leaguedesk/officiating-system/models"
)

func TestTierToCompetency(t *testing.T) {
	tests := []struct {
		name string
		tier models.RefereeTier
		want *int
	}{
		{"debutant", models.TierDebutant, intPtr(1)},
		{"developing", models.TierDeveloping, intPtr(2)},
		{"experienced", models.TierExperienced, intPtr(3)},
		{"highly experienced", models.TierHighlyExperienced, intPtr(4)},
		{"ineligible has no score", models.TierIneligible, nil},
		{"unknown has no score", models.RefereeTier("GRANDMASTER"), nil},
		{"lowercase legacy value", models.RefereeTier("experienced"), intPtr(3)},
		{"hyphenated legacy value", models.RefereeTier("highly-experienced"), intPtr(4)},
		{"spaced legacy value", models.RefereeTier(" Highly Experienced "), intPtr(4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TierToCompetency(tt.tier)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestCompetencyToTierRoundTrip(t *testing.T) {
	for _, tier := range []models.RefereeTier{
		models.TierDebutant, models.TierDeveloping,
		models.TierExperienced, models.TierHighlyExperienced,
	} {
		score := TierToCompetency(tier)
		require.NotNil(t, score)
		back := CompetencyToTier(*score)
		require.NotNil(t, back)
		assert.Equal(t, tier, *back)
	}
	assert.Nil(t, CompetencyToTier(0))
}

func TestRefereeCompetency_OverridePrecedence(t *testing.T) {
	ref := &models.Referee{ID: 1, Tier: models.TierDebutant, CompetencyOverride: intPtr(4)}
	got := refereeCompetency(ref, nil)
	require.NotNil(t, got)
	assert.Equal(t, 4, *got)

	// Override работает и для судей без оценочного яруса.
	ref = &models.Referee{ID: 2, Tier: models.TierIneligible, CompetencyOverride: intPtr(2)}
	got = refereeCompetency(ref, nil)
	require.NotNil(t, got)
	assert.Equal(t, 2, *got)

	ref = &models.Referee{ID: 3, Tier: models.TierExperienced}
	got = refereeCompetency(ref, nil)
	require.NotNil(t, got)
	assert.Equal(t, 3, *got)
}

func TestEvaluateCompetency(t *testing.T) {
	tests := []struct {
		name       string
		difficulty int
		competency *int
		policy     models.CompetencyPolicy
		wantBelow  bool
	}{
		{"meets difficulty exactly", 3, intPtr(3), models.CompetencyPolicy{Mode: models.PolicyBlock}, false},
		{"below without tolerance", 4, intPtr(3), models.CompetencyPolicy{Mode: models.PolicyBlock}, true},
		{"tolerance closes the gap", 4, intPtr(3), models.CompetencyPolicy{Tolerance: 1, Mode: models.PolicyBlock}, false},
		{"tolerance not enough", 5, intPtr(3), models.CompetencyPolicy{Tolerance: 1, Mode: models.PolicyWarn}, true},
		{"missing competency counts as zero", 2, nil, models.CompetencyPolicy{Tolerance: 1, Mode: models.PolicyWarn}, true},
		{"zero difficulty never below", 0, nil, models.CompetencyPolicy{Mode: models.PolicyBlock}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval := EvaluateCompetency(tt.difficulty, tt.competency, tt.policy)
			require.NotNil(t, eval)
			assert.Equal(t, tt.wantBelow, eval.BelowThreshold)
			assert.Equal(t, tt.difficulty, eval.Difficulty)
			assert.Equal(t, tt.policy.Mode, eval.Policy)
		})
	}
}

func intPtr(v int) *int { return &v }
