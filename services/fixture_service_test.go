package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundRobinPairings_NotEnoughTeams(t *testing.T) {
	_, err := RoundRobinPairings(nil)
	assert.ErrorIs(t, err, ErrFixtureNotEnoughTeams)

	_, err = RoundRobinPairings([]int{7})
	assert.ErrorIs(t, err, ErrFixtureNotEnoughTeams)
}

func TestRoundRobinPairings_TwoTeams(t *testing.T) {
	pairings, err := RoundRobinPairings([]int{10, 20})
	require.NoError(t, err)
	require.Len(t, pairings, 1)
	assert.Equal(t, 1, pairings[0].MatchdayNumber)
}

func TestRoundRobinPairings_Properties(t *testing.T) {
	for _, teamCount := range []int{3, 4, 5, 6, 8, 11} {
		t.Run(fmt.Sprintf("%d teams", teamCount), func(t *testing.T) {
			teams := make([]int, teamCount)
			for i := range teams {
				teams[i] = 100 + i
			}

			pairings, err := RoundRobinPairings(teams)
			require.NoError(t, err)

			// Всего матчей — каждая пара встречается ровно один раз.
			assert.Len(t, pairings, teamCount*(teamCount-1)/2)

			seenPairs := make(map[[2]int]int)
			teamsByRound := make(map[int]map[int]bool)
			for _, p := range pairings {
				require.NotEqual(t, p.HomeTeamID, p.AwayTeamID)

				lo, hi := p.HomeTeamID, p.AwayTeamID
				if lo > hi {
					lo, hi = hi, lo
				}
				seenPairs[[2]int{lo, hi}]++

				if teamsByRound[p.MatchdayNumber] == nil {
					teamsByRound[p.MatchdayNumber] = make(map[int]bool)
				}
				// Ни одна команда не играет дважды в одном туре.
				assert.False(t, teamsByRound[p.MatchdayNumber][p.HomeTeamID])
				assert.False(t, teamsByRound[p.MatchdayNumber][p.AwayTeamID])
				teamsByRound[p.MatchdayNumber][p.HomeTeamID] = true
				teamsByRound[p.MatchdayNumber][p.AwayTeamID] = true
			}
			for pair, count := range seenPairs {
				assert.Equal(t, 1, count, "pair %v", pair)
			}

			// Число туров: n-1 для чётного n, n для нечётного (с отдыхом).
			wantRounds := teamCount - 1
			if teamCount%2 != 0 {
				wantRounds = teamCount
			}
			assert.Len(t, teamsByRound, wantRounds)
		})
	}
}

func TestRoundRobinPairings_HomeAwayAlternation(t *testing.T) {
	pairings, err := RoundRobinPairings([]int{1, 2, 3, 4})
	require.NoError(t, err)

	homeCounts := make(map[int]int)
	for _, p := range pairings {
		homeCounts[p.HomeTeamID]++
	}
	// При чередовании хозяев никто не играет дома все три тура.
	for team, count := range homeCounts {
		assert.LessOrEqual(t, count, 2, "team %d", team)
	}
}
