package engine

import (
	"sort"
	"strconv"

	"github.com/braccet/bracketlayout/internal/domain"
)

// swissBucket groups the matches that share a (wins, losses) record.
type swissBucket struct {
	wins, losses int
	matchIDs     []string
}

func (b swissBucket) key() string {
	return bucketKey(b.wins, b.losses)
}

func bucketKey(wins, losses int) string {
	return strconv.Itoa(wins) + "-" + strconv.Itoa(losses)
}

// ComputeSwissLayout lays out a Swiss stage's matches, across all
// rounds, as per-record panels. It never emits connectors: Swiss
// progression is determined by standings, not a fixed bracket graph.
// Matches without an explicit record get the inferred one written into
// their SwissWins/SwissLosses (see InferSwissRecords).
func ComputeSwissLayout(matches []domain.Match, cfg domain.LayoutConfig) domain.BracketLayout {
	if len(matches) == 0 {
		return domain.EmptyLayout()
	}

	rounds := make(map[int][]int) // roundNumber -> indices into matches, in input order
	for i := range matches {
		round := domain.ParseRoundNumber(matches[i].RoundID)
		rounds[round] = append(rounds[round], i)
	}

	InferSwissRecords(matches, rounds)

	buckets := make(map[string]*swissBucket)
	var bucketOrder []string
	for i := range matches {
		m := &matches[i]
		key := bucketKey(*m.SwissWins, *m.SwissLosses)
		b, ok := buckets[key]
		if !ok {
			b = &swissBucket{wins: *m.SwissWins, losses: *m.SwissLosses}
			buckets[key] = b
			bucketOrder = append(bucketOrder, key)
		}
		b.matchIDs = append(b.matchIDs, m.ID)
	}

	// Column ordering: by (W+L) ascending, then W descending.
	sort.Slice(bucketOrder, func(i, j int) bool {
		bi, bj := buckets[bucketOrder[i]], buckets[bucketOrder[j]]
		si, sj := bi.wins+bi.losses, bj.wins+bj.losses
		if si != sj {
			return si < sj
		}
		return bi.wins > bj.wins
	})

	matchByID := make(map[string]*domain.Match, len(matches))
	for i := range matches {
		matchByID[matches[i].ID] = &matches[i]
	}

	positions := make(map[string]domain.MatchPosition, len(matches))
	panels := make([]domain.SwissPanelPosition, 0, len(bucketOrder))
	headers := make([]domain.RoundHeader, 0, len(bucketOrder))
	maxX, maxY := 0, 0

	maxWins, maxLosses := -1, -1
	if cfg.Swiss != nil {
		maxWins, maxLosses = cfg.Swiss.MaxWins, cfg.Swiss.MaxLosses
	}

	for col, key := range bucketOrder {
		b := buckets[key]
		ids := append([]string(nil), b.matchIDs...)
		sort.Slice(ids, func(i, j int) bool {
			return matchByID[ids[i]].Number < matchByID[ids[j]].Number
		})

		xPx := cfg.LeftOffset + col*cfg.ColumnWidth
		for lane, id := range ids {
			yPx := cfg.TopOffset + lane*cfg.RowHeight
			positions[id] = domain.MatchPosition{
				MatchID: id,
				XRound:  col,
				YLane:   lane,
				XPx:     xPx,
				YPx:     yPx,
			}
			if v := xPx + cfg.MatchWidth; v > maxX {
				maxX = v
			}
			if v := yPx + cfg.MatchHeight; v > maxY {
				maxY = v
			}
		}

		zone := domain.SwissNeutral
		if b.wins == maxWins {
			zone = domain.SwissAdvancing
		} else if b.losses == maxLosses {
			zone = domain.SwissEliminated
		}

		first := matchByID[ids[0]]
		panel := domain.SwissPanelPosition{
			Key:         key,
			Wins:        b.wins,
			Losses:      b.losses,
			RoundNumber: b.wins + b.losses + 1,
			Date:        first.SwissDate,
			BestOf:      first.SwissBestOf,
			XPx:         xPx,
			YPx:         cfg.TopOffset - 60,
			Width:       cfg.ColumnWidth,
			Height:      len(ids)*cfg.RowHeight + 60,
			MatchCount:  len(ids),
			Zone:        zone,
		}
		panels = append(panels, panel)
		headers = append(headers, domain.RoundHeader{
			XRound: col,
			XPx:    xPx,
			YPx:    cfg.TopOffset - 40,
		})

		if v := panel.YPx + panel.Height; v > maxY {
			maxY = v
		}
	}

	return domain.BracketLayout{
		MatchPositions:  positions,
		HeaderPositions: headers,
		Connectors:      []domain.ConnectorLine{},
		PanelPositions:  panels,
		GroupOffsetY:    map[domain.BracketGroup]int{},
		TotalWidth:      maxX + 50,
		TotalHeight:     maxY + 50,
	}
}

// InferSwissRecords fills in SwissWins/SwissLosses for any match that
// doesn't already carry explicit metadata. This fallback is
// documented as approximate: round 1 is always (0,0); later rounds
// partition the round's matches (in match-number order) into
// totalGames+1 equal buckets of decreasing win count, since the
// engine has no access to actual standings. Callers that have real
// records should set SwissWins/SwissLosses before calling this.
func InferSwissRecords(matches []domain.Match, roundIndices map[int][]int) {
	for round, indices := range roundIndices {
		sort.Slice(indices, func(i, j int) bool {
			return matches[indices[i]].Number < matches[indices[j]].Number
		})

		for _, i := range indices {
			m := &matches[i]
			if m.SwissWins != nil && m.SwissLosses != nil {
				continue
			}

			if round == 1 {
				w, l := 0, 0
				m.SwissWins, m.SwissLosses = &w, &l
				continue
			}

			totalGames := round - 1
			buckets := totalGames + 1
			bucket := bucketIndex(indices, i, buckets)
			w := totalGames - bucket
			if w < 0 {
				w = 0
			}
			l := bucket
			m.SwissWins, m.SwissLosses = &w, &l
		}
	}
}

// bucketIndex returns which of `buckets` equal-sized partitions the
// position of id within the (already sorted) indices slice falls
// into.
func bucketIndex(sortedIndices []int, id int, buckets int) int {
	n := len(sortedIndices)
	pos := 0
	for i, v := range sortedIndices {
		if v == id {
			pos = i
			break
		}
	}
	if buckets <= 0 {
		return 0
	}
	bucket := pos * buckets / n
	if bucket >= buckets {
		bucket = buckets - 1
	}
	return bucket
}
