package engine

import "github.com/braccet/bracketlayout/internal/domain"

// formatProfiles is the static size->profile table for the known
// double-elimination tournament sizes. The tables exist because the
// pure lane-centering algorithm in ComputeLayout places winners and
// losers rounds independently, yielding a wider footprint than a
// viewer wants; these tables align WB and LB rounds that temporally
// coincide (e.g. a WB R2 drop lands in the same column as LB R2).
var formatProfiles = map[int]domain.DEProfile{
	8: {
		ID:         "de-8",
		FormatSize: 8,
		WinnersRoundColumns: map[int]int{1: 0, 2: 1, 3: 2},
		LosersRoundColumns:  map[int]int{1: 1, 2: 2, 3: 3, 4: 4},
		FinalsColumns:       map[int]int{1: 5, 2: 6},
	},
	16: {
		ID:         "de-16",
		FormatSize: 16,
		WinnersRoundColumns: map[int]int{1: 0, 2: 1, 3: 2, 4: 3},
		LosersRoundColumns:  map[int]int{1: 1, 2: 2, 3: 3, 4: 4, 5: 5, 6: 6},
		FinalsColumns:       map[int]int{1: 7, 2: 8},
	},
	32: {
		ID:         "de-32",
		FormatSize: 32,
		WinnersRoundColumns: map[int]int{1: 0, 2: 1, 3: 2, 4: 3, 5: 4},
		LosersRoundColumns:  map[int]int{1: 1, 2: 2, 3: 3, 4: 4, 5: 5, 6: 6, 7: 7, 8: 8},
		FinalsColumns:       map[int]int{1: 9, 2: 10},
	},
}

// ProfileByID looks up a registered format profile by its id (e.g.
// "de-8"), for callers that already know the tournament format rather
// than wanting it inferred from the match set.
func ProfileByID(id string) (domain.DEProfile, bool) {
	for _, p := range formatProfiles {
		if p.ID == id {
			return p, true
		}
	}
	return domain.DEProfile{}, false
}

// DetectProfile counts Winners-Bracket-Round-1 matches to infer the
// tournament size (size = wbR1Count*2) and returns the registered
// profile for that size, if any. ok is false when no profile is
// registered for the detected size — callers should pass a nil
// profile to ComputeLayout in that case and let Step B fall back to
// the generic algorithm.
func DetectProfile(matches []domain.Match) (domain.DEProfile, bool) {
	wbR1 := 0
	for i := range matches {
		m := &matches[i]
		if domain.ClassifyBracketGroup(m.GroupID) == domain.WinnersBracket && domain.ParseRoundNumber(m.RoundID) == 1 {
			wbR1++
		}
	}

	size := wbR1 * 2
	profile, ok := formatProfiles[size]
	return profile, ok
}
