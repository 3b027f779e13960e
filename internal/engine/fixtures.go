package engine

import (
	"strconv"

	"github.com/braccet/bracketlayout/internal/domain"
)

// bracketSize returns the smallest power of two that fits teamCount
// competitors; the gap to the next power of two is filled with byes.
func bracketSize(teamCount int) int {
	if teamCount <= 0 {
		return 0
	}
	size := 1
	for size < teamCount {
		size *= 2
	}
	return size
}

// roundCount returns how many elimination rounds a bracket of the
// given size plays before crowning a winner.
func roundCount(size int) int {
	if size <= 1 {
		return 0
	}
	rounds := 0
	for size > 1 {
		rounds++
		size /= 2
	}
	return rounds
}

// matchesPerRound returns how many matches a given round (1-indexed)
// holds in a bracket of the given size; round 1 holds size/2 matches,
// each later round half the one before it.
func matchesPerRound(size, round int) int {
	if round < 1 || size < 2 {
		return 0
	}
	count := size / 2
	for i := 1; i < round; i++ {
		count /= 2
	}
	return count
}

// seedPairings returns the standard tournament seed pairing for a
// bracket of the given size, e.g. size 8 -> [[1,8],[4,5],[2,7],[3,6]],
// so that seeds 1 and 2 can only meet in the final round.
func seedPairings(size int) [][2]int {
	if size < 2 {
		return nil
	}
	if size == 2 {
		return [][2]int{{1, 2}}
	}
	smaller := seedPairings(size / 2)
	pairs := make([][2]int, len(smaller)*2)
	for i, pair := range smaller {
		pairs[i*2] = [2]int{pair[0], size + 1 - pair[0]}
		pairs[i*2+1] = [2]int{pair[1], size + 1 - pair[1]}
	}
	return pairs
}

// RoundCountForTeams reports how many elimination rounds a fixture
// generated for teamCount competitors will play.
func RoundCountForTeams(teamCount int) int {
	return roundCount(bracketSize(teamCount))
}

// GenerateSingleEliminationFixture builds a synthetic single
// elimination match/edge graph for teamCount competitors. Round-1
// matches carry their standard seed pairing as each slot's
// sourceRank, and every later round wires winner-only edges (rank 1)
// from the pair of matches that feed it. Byes (when teamCount isn't a
// power of two) are represented as a match whose slot 2 never
// resolves; the layout engine positions them like any other match.
// This exists so the round-count, lane-normalization and connector
// invariants can be checked against brackets of arbitrary size rather
// than only hand-built fixtures.
func GenerateSingleEliminationFixture(teamCount int) ([]domain.Match, []domain.Edge) {
	size := bracketSize(teamCount)
	if size < 2 {
		return nil, nil
	}
	rounds := roundCount(size)
	pairings := seedPairings(size)

	var matches []domain.Match
	var edges []domain.Edge

	idFor := func(round, number int) string {
		return "se-r" + strconv.Itoa(round) + "-m" + strconv.Itoa(number)
	}

	prevIDs := make([]string, 0, size/2)
	for round := 1; round <= rounds; round++ {
		count := matchesPerRound(size, round)
		currIDs := make([]string, 0, count)
		for number := 1; number <= count; number++ {
			id := idFor(round, number)
			m := domain.Match{
				ID:      id,
				GroupID: "winners",
				RoundID: "round-" + strconv.Itoa(round),
				Number:  number,
			}
			if round == 1 {
				seed1, seed2 := pairings[number-1][0], pairings[number-1][1]
				m.Opponent1.Position = &seed1
				m.Opponent2.Position = &seed2
			}
			matches = append(matches, m)
			currIDs = append(currIDs, id)
		}

		if round > 1 {
			for i, id := range currIDs {
				src1, src2 := prevIDs[i*2], prevIDs[i*2+1]
				edges = append(edges,
					domain.Edge{FromMatchID: src1, FromRank: 1, ToMatchID: id, ToSlot: 1},
					domain.Edge{FromMatchID: src2, FromRank: 1, ToMatchID: id, ToSlot: 2},
				)
			}
		}
		prevIDs = currIDs
	}

	return matches, edges
}
