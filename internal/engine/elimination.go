// Package engine computes pixel geometry for tournament brackets: the
// elimination layout (single/double elimination, with optional
// cross-bracket edges) and the Swiss panel layout. Both are pure
// functions of their inputs — no I/O, no clock, no shared state
// beyond what a caller explicitly passes in.
package engine

import (
	"log"
	"math"
	"sort"

	"github.com/braccet/bracketlayout/internal/domain"
)

// groupOrder is the canonical left-to-right display order for Step B
// and Step F. finalsTopOrder is substituted for it when the
// finals-top alignment is in effect.
var groupOrder = []domain.BracketGroup{
	domain.WinnersBracket,
	domain.LosersBracket,
	domain.GrandFinalBracket,
	domain.PlacementBracket,
}

var finalsTopOrder = []domain.BracketGroup{
	domain.WinnersBracket,
	domain.GrandFinalBracket,
	domain.LosersBracket,
	domain.PlacementBracket,
}

type matchInfo struct {
	match *domain.Match
	group domain.BracketGroup
	round int
}

// ComputeLayout lays out an elimination bracket (single or double
// elimination, including grand-final and placement groups) from its
// matches and progression edges. It fails only by returning an empty
// layout when matches is empty; every other failure mode (an edge
// referencing an unknown match, an unparseable round id) degrades
// silently per spec.
func ComputeLayout(matches []domain.Match, edges []domain.Edge, bracketTypeHint string, cfg domain.LayoutConfig, profile *domain.DEProfile) domain.BracketLayout {
	_ = bracketTypeHint // classification is substring-driven; the hint does not alter Step A–J

	if len(matches) == 0 {
		return domain.EmptyLayout()
	}

	// Step A — classification and indexing.
	matchesByID := make(map[string]*matchInfo, len(matches))
	byGroupRound := make(map[domain.BracketGroup]map[int][]string)
	for i := range matches {
		m := &matches[i]
		group := domain.ClassifyBracketGroup(m.GroupID)
		round := domain.ParseRoundNumber(m.RoundID)
		matchesByID[m.ID] = &matchInfo{match: m, group: group, round: round}

		if byGroupRound[group] == nil {
			byGroupRound[group] = make(map[int][]string)
		}
		byGroupRound[group][round] = append(byGroupRound[group][round], m.ID)
	}

	order := groupOrder
	if cfg.BracketAlignment == domain.AlignFinalsTop {
		order = finalsTopOrder
	}

	// Step B — column assignment.
	xRoundOf := make(map[string]int, len(matches)) // matchID -> column
	currentColumn := 0

	for _, group := range order {
		rounds := sortedRounds(byGroupRound[group])
		if len(rounds) == 0 {
			continue
		}

		if group == domain.LosersBracket && cfg.BracketAlignment == domain.AlignFinalsTop {
			assignColumns(rounds, byGroupRound[group], xRoundOf, columnsOrSequential(profile, group, rounds, cfg.LosersBracketOffsetX))
			continue
		}

		if cols, ok := profile.ColumnsFor(group); ok {
			assignColumns(rounds, byGroupRound[group], xRoundOf, cols)
			maxCol := 0
			for _, c := range cols {
				if c > maxCol {
					maxCol = c
				}
			}
			if next := maxCol + 1 + cfg.GroupGapX; next > currentColumn {
				currentColumn = next
			}
			continue
		}

		cols := sequentialColumns(rounds, currentColumn)
		assignColumns(rounds, byGroupRound[group], xRoundOf, cols)
		currentColumn += len(rounds) + cfg.GroupGapX
	}

	// Step C — lane assignment, per group.
	inboundInternal := make(map[string][]string) // toMatchID -> internal source match IDs
	for _, e := range edges {
		src, srcOK := matchesByID[e.FromMatchID]
		dst, dstOK := matchesByID[e.ToMatchID]
		if !srcOK || !dstOK {
			continue
		}
		if src.group == dst.group {
			inboundInternal[e.ToMatchID] = append(inboundInternal[e.ToMatchID], e.FromMatchID)
		}
	}

	laneFloat := make(map[string]float64, len(matches))
	for _, group := range order {
		rounds := sortedRounds(byGroupRound[group])
		counter := 0
		for _, round := range rounds {
			ids := byGroupRound[group][round]
			sort.Slice(ids, func(i, j int) bool {
				return matchesByID[ids[i]].match.Number < matchesByID[ids[j]].match.Number
			})
			for _, id := range ids {
				sources := inboundInternal[id]
				if len(sources) == 0 {
					laneFloat[id] = float64(counter)
					counter++
					continue
				}
				sum := 0.0
				for _, s := range sources {
					sum += laneFloat[s]
				}
				laneFloat[id] = sum / float64(len(sources))
			}
		}
	}

	// Step D — collision tie-breaking, per group.
	for _, group := range order {
		ids := groupMatchIDs(byGroupRound[group])
		if len(ids) == 0 {
			continue
		}

		buckets := make(map[float64][]string)
		for _, id := range ids {
			key := round3(laneFloat[id])
			buckets[key] = append(buckets[key], id)
		}

		for b, bucket := range buckets {
			k := len(bucket)
			if k <= 1 {
				continue
			}
			sort.Slice(bucket, func(i, j int) bool {
				mi, mj := matchesByID[bucket[i]], matchesByID[bucket[j]]
				if mi.round != mj.round {
					return mi.round < mj.round
				}
				return mi.match.Number < mj.match.Number
			})
			for i, id := range bucket {
				laneFloat[id] = b + (float64(i)-float64(k-1)/2)*0.25
			}
		}
	}

	// Step E — lane normalization.
	laneIndex := make(map[string]int, len(matches))
	laneCount := make(map[domain.BracketGroup]int)
	for _, group := range order {
		ids := groupMatchIDs(byGroupRound[group])
		if len(ids) == 0 {
			continue
		}

		seen := make(map[float64]bool)
		var uniq []float64
		for _, id := range ids {
			f := laneFloat[id]
			if !seen[f] {
				seen[f] = true
				uniq = append(uniq, f)
			}
		}
		sort.Float64s(uniq)

		indexOf := make(map[float64]int, len(uniq))
		for i, f := range uniq {
			indexOf[f] = i
		}
		for _, id := range ids {
			laneIndex[id] = indexOf[laneFloat[id]]
		}

		count := len(uniq)
		if count == 0 {
			count = 1
		}
		laneCount[group] = count
	}

	// Step F — Y offsets per group.
	groupOffsetY := computeGroupOffsets(order, laneCount, cfg)

	// Step G — pixel positions.
	positions := make(map[string]domain.MatchPosition, len(matches))
	maxX, maxY := 0, 0
	for _, group := range order {
		ids := groupMatchIDs(byGroupRound[group])
		rowHeight := cfg.RowHeight
		if group == domain.LosersBracket && cfg.BracketAlignment == domain.AlignSplitHorizontal && cfg.SplitHorizontalLosersRowHeight > 0 {
			rowHeight = cfg.SplitHorizontalLosersRowHeight
		}
		for _, id := range ids {
			xRound := xRoundOf[id]
			xPx := cfg.LeftOffset + xRound*cfg.ColumnWidth
			yPx := groupOffsetY[group] + laneIndex[id]*rowHeight

			positions[id] = domain.MatchPosition{
				MatchID: id,
				XRound:  xRound,
				YLane:   laneIndex[id],
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
	}

	// Step H — headers, one per distinct xRound used.
	usedColumns := make(map[int]bool)
	for _, pos := range positions {
		usedColumns[pos.XRound] = true
	}
	cols := make([]int, 0, len(usedColumns))
	for c := range usedColumns {
		cols = append(cols, c)
	}
	sort.Ints(cols)

	headers := make([]domain.RoundHeader, 0, len(cols))
	for _, c := range cols {
		headers = append(headers, domain.RoundHeader{
			XRound: c,
			XPx:    cfg.LeftOffset + c*cfg.ColumnWidth,
			YPx:    cfg.TopOffset - 40,
		})
	}

	// Step I — connectors.
	connectors := make([]domain.ConnectorLine, 0, len(edges))
	for _, e := range edges {
		fromPos, fromOK := positions[e.FromMatchID]
		toPos, toOK := positions[e.ToMatchID]
		if !fromOK || !toOK {
			log.Printf("bracketlayout: skipping connector %s->%s: missing endpoint position", e.FromMatchID, e.ToMatchID)
			continue
		}

		fromX := fromPos.XPx + cfg.MatchWidth
		fromY := fromPos.YPx + cfg.MatchHeight/2
		toX := toPos.XPx
		toY := toPos.YPx + cfg.MatchHeight/2
		midX := (fromX + toX) / 2

		connectors = append(connectors, domain.ConnectorLine{
			FromMatchID: e.FromMatchID,
			ToMatchID:   e.ToMatchID,
			ToSlot:      e.ToSlot,
			Type:        classifyConnector(matchesByID[e.FromMatchID].group, matchesByID[e.ToMatchID].group),
			Points: [4]domain.Point{
				{X: fromX, Y: fromY},
				{X: midX, Y: fromY},
				{X: midX, Y: toY},
				{X: toX, Y: toY},
			},
		})
	}

	// Step J — totals.
	return domain.BracketLayout{
		MatchPositions:  positions,
		HeaderPositions: headers,
		Connectors:      connectors,
		GroupOffsetY:    groupOffsetY,
		TotalWidth:      maxX + 50,
		TotalHeight:     maxY + 50,
	}
}

func classifyConnector(from, to domain.BracketGroup) domain.ConnectorType {
	if from == to {
		return domain.ConnectorInternal
	}
	if to == domain.GrandFinalBracket {
		return domain.ConnectorGrandFinal
	}
	return domain.ConnectorCrossBracket
}

func sortedRounds(byRound map[int][]string) []int {
	rounds := make([]int, 0, len(byRound))
	for r := range byRound {
		rounds = append(rounds, r)
	}
	sort.Ints(rounds)
	return rounds
}

func groupMatchIDs(byRound map[int][]string) []string {
	var ids []string
	for _, round := range sortedRounds(byRound) {
		ids = append(ids, byRound[round]...)
	}
	return ids
}

// sequentialColumns assigns consecutive columns to rounds, starting
// at startColumn, in round order.
func sequentialColumns(rounds []int, startColumn int) map[int]int {
	cols := make(map[int]int, len(rounds))
	for i, r := range rounds {
		cols[r] = startColumn + i
	}
	return cols
}

// columnsOrSequential is the finals-top + losers special case: use
// the profile's table if it covers losers, else assign sequential
// columns starting at losersBracketOffsetX.
func columnsOrSequential(profile *domain.DEProfile, group domain.BracketGroup, rounds []int, offsetX int) map[int]int {
	if cols, ok := profile.ColumnsFor(group); ok {
		return cols
	}
	return sequentialColumns(rounds, offsetX)
}

func assignColumns(rounds []int, byRound map[int][]string, xRoundOf map[string]int, cols map[int]int) {
	for _, round := range rounds {
		col, ok := cols[round]
		if !ok {
			continue // round has no column assignment; matches stay unplaced by this call
		}
		for _, id := range byRound[round] {
			xRoundOf[id] = col
		}
	}
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}

// computeGroupOffsets applies Step F: turning each group's lane count
// into a Y pixel offset, per the selected bracket alignment.
func computeGroupOffsets(order []domain.BracketGroup, laneCount map[domain.BracketGroup]int, cfg domain.LayoutConfig) map[domain.BracketGroup]int {
	offsets := make(map[domain.BracketGroup]int)

	height := func(g domain.BracketGroup) int {
		rowHeight := cfg.RowHeight
		if g == domain.LosersBracket && cfg.BracketAlignment == domain.AlignSplitHorizontal && cfg.SplitHorizontalLosersRowHeight > 0 {
			rowHeight = cfg.SplitHorizontalLosersRowHeight
		}
		return laneCount[g] * rowHeight
	}

	present := func() []domain.BracketGroup {
		var gs []domain.BracketGroup
		for _, g := range order {
			if laneCount[g] > 0 {
				gs = append(gs, g)
			}
		}
		return gs
	}()

	switch cfg.BracketAlignment {
	case domain.AlignCenter:
		maxHeight := 0
		for _, g := range present {
			if h := height(g); h > maxHeight {
				maxHeight = h
			}
		}
		currentY := 0
		for _, g := range present {
			offsets[g] = cfg.TopOffset + currentY + (maxHeight-height(g))/2
			currentY += maxHeight + cfg.GroupGapY
		}

	case domain.AlignFinalsTop:
		winnersH, finalsH := height(domain.WinnersBracket), height(domain.GrandFinalBracket)
		offsets[domain.WinnersBracket] = cfg.TopOffset
		offsets[domain.GrandFinalBracket] = cfg.TopOffset
		currentY := max(winnersH, finalsH) + cfg.GroupGapY
		for _, g := range []domain.BracketGroup{domain.LosersBracket, domain.PlacementBracket} {
			if laneCount[g] == 0 {
				continue
			}
			offsets[g] = cfg.TopOffset + currentY
			currentY += height(g) + cfg.GroupGapY
		}

	case domain.AlignSplitHorizontal:
		currentY := 0
		offsets[domain.WinnersBracket] = cfg.TopOffset
		currentY = height(domain.WinnersBracket) + cfg.GroupGapY
		if laneCount[domain.LosersBracket] > 0 {
			offsets[domain.LosersBracket] = cfg.TopOffset + currentY
			currentY += height(domain.LosersBracket) + cfg.GroupGapY
		}
		for _, g := range []domain.BracketGroup{domain.GrandFinalBracket, domain.PlacementBracket} {
			if laneCount[g] == 0 {
				continue
			}
			offsets[g] = cfg.TopOffset + currentY
			currentY += height(g) + cfg.GroupGapY
		}

	default: // AlignBottom, AlignTop
		currentY := 0
		for _, g := range present {
			offsets[g] = cfg.TopOffset + currentY
			currentY += height(g) + cfg.GroupGapY
		}
	}

	return offsets
}
