package engine

import (
	"testing"

	"github.com/braccet/bracketlayout/internal/domain"
)

func defaultCfg() domain.LayoutConfig {
	return domain.LayoutConfig{
		ColumnWidth: 200,
		RowHeight:   80,
		MatchWidth:  160,
		MatchHeight: 60,
		TopOffset:   40,
		LeftOffset:  20,
		GroupGapX:   1,
		GroupGapY:   40,
	}
}

// fourTeamSE builds scenario S1: a 4-team single elimination bracket,
// two round-1 matches feeding one final.
func fourTeamSE() ([]domain.Match, []domain.Edge) {
	matches := []domain.Match{
		{ID: "m1", GroupID: "winners", RoundID: "round-1", Number: 1},
		{ID: "m2", GroupID: "winners", RoundID: "round-1", Number: 2},
		{ID: "m3", GroupID: "winners", RoundID: "round-2", Number: 1},
	}
	edges := []domain.Edge{
		{FromMatchID: "m1", FromRank: 1, ToMatchID: "m3", ToSlot: 1},
		{FromMatchID: "m2", FromRank: 1, ToMatchID: "m3", ToSlot: 2},
	}
	return matches, edges
}

func TestComputeLayoutEmptyInput(t *testing.T) {
	layout := ComputeLayout(nil, nil, "single_elimination", defaultCfg(), nil)
	if len(layout.MatchPositions) != 0 || layout.TotalWidth != 0 || layout.TotalHeight != 0 {
		t.Fatalf("expected empty layout for no matches, got %+v", layout)
	}
}

// TestComputeLayoutFourTeamSELanes is scenario S1: m1 and m2 sit at
// the edges of the lane spread while m3's mean-of-sources lane
// lands it in the middle once lanes are normalized.
func TestComputeLayoutFourTeamSELanes(t *testing.T) {
	matches, edges := fourTeamSE()
	layout := ComputeLayout(matches, edges, "single_elimination", defaultCfg(), nil)

	m1, m2, m3 := layout.MatchPositions["m1"], layout.MatchPositions["m2"], layout.MatchPositions["m3"]

	if m1.YLane != 0 {
		t.Errorf("m1.YLane = %d, want 0", m1.YLane)
	}
	if m3.YLane != 1 {
		t.Errorf("m3.YLane = %d, want 1", m3.YLane)
	}
	if m2.YLane != 2 {
		t.Errorf("m2.YLane = %d, want 2", m2.YLane)
	}

	if m1.XRound != 0 || m2.XRound != 0 {
		t.Errorf("round-1 matches should share column 0: m1=%d m2=%d", m1.XRound, m2.XRound)
	}
	if m3.XRound != 1 {
		t.Errorf("m3.XRound = %d, want 1", m3.XRound)
	}
}

func TestComputeLayoutColumnsAreSequentialPerGroup(t *testing.T) {
	matches, edges := fourTeamSE()
	layout := ComputeLayout(matches, edges, "single_elimination", defaultCfg(), nil)

	if len(layout.HeaderPositions) != 2 {
		t.Fatalf("len(HeaderPositions) = %d, want 2 (one per distinct column)", len(layout.HeaderPositions))
	}
	if layout.HeaderPositions[0].XRound != 0 || layout.HeaderPositions[1].XRound != 1 {
		t.Errorf("headers out of order: %+v", layout.HeaderPositions)
	}
}

func TestComputeLayoutConnectorsRouteFourPoints(t *testing.T) {
	matches, edges := fourTeamSE()
	cfg := defaultCfg()
	layout := ComputeLayout(matches, edges, "single_elimination", cfg, nil)

	if len(layout.Connectors) != 2 {
		t.Fatalf("len(Connectors) = %d, want 2", len(layout.Connectors))
	}
	for _, c := range layout.Connectors {
		if c.Type != domain.ConnectorInternal {
			t.Errorf("connector %s->%s type = %q, want internal (same group)", c.FromMatchID, c.ToMatchID, c.Type)
		}
		from, to := layout.MatchPositions[c.FromMatchID], layout.MatchPositions[c.ToMatchID]
		start := domain.Point{X: from.XPx + cfg.MatchWidth, Y: from.YPx + cfg.MatchHeight/2}
		end := domain.Point{X: to.XPx, Y: to.YPx + cfg.MatchHeight/2}
		midX := (start.X + end.X) / 2
		want := [4]domain.Point{start, {X: midX, Y: start.Y}, {X: midX, Y: end.Y}, end}
		if c.Points != want {
			t.Errorf("connector %s->%s points = %+v, want %+v", c.FromMatchID, c.ToMatchID, c.Points, want)
		}
	}
}

func TestComputeLayoutSkipsConnectorWithMissingEndpoint(t *testing.T) {
	matches := []domain.Match{
		{ID: "m1", GroupID: "winners", RoundID: "round-1", Number: 1},
	}
	edges := []domain.Edge{
		{FromMatchID: "m1", FromRank: 1, ToMatchID: "does-not-exist", ToSlot: 1},
	}
	layout := ComputeLayout(matches, edges, "single_elimination", defaultCfg(), nil)
	if len(layout.Connectors) != 0 {
		t.Fatalf("expected dangling edge to be skipped, got %d connectors", len(layout.Connectors))
	}
}

func TestComputeLayoutCrossBracketAndGrandFinalConnectors(t *testing.T) {
	matches := []domain.Match{
		{ID: "wbf", GroupID: "upper-bracket", RoundID: "round-3", Number: 1},
		{ID: "lbf", GroupID: "lower-bracket", RoundID: "round-4", Number: 1},
		{ID: "gf", GroupID: "grand-final", RoundID: "round-1", Number: 1},
	}
	edges := []domain.Edge{
		{FromMatchID: "wbf", FromRank: 2, ToMatchID: "lbf", ToSlot: 2},
		{FromMatchID: "wbf", FromRank: 1, ToMatchID: "gf", ToSlot: 1},
		{FromMatchID: "lbf", FromRank: 1, ToMatchID: "gf", ToSlot: 2},
	}
	layout := ComputeLayout(matches, edges, "double_elimination", defaultCfg(), nil)

	byEndpoints := make(map[string]domain.ConnectorLine)
	for _, c := range layout.Connectors {
		byEndpoints[c.FromMatchID+"->"+c.ToMatchID] = c
	}

	if got := byEndpoints["wbf->lbf"].Type; got != domain.ConnectorCrossBracket {
		t.Errorf("wbf->lbf type = %q, want cross-bracket", got)
	}
	if got := byEndpoints["wbf->gf"].Type; got != domain.ConnectorGrandFinal {
		t.Errorf("wbf->gf type = %q, want grand-final", got)
	}
	if got := byEndpoints["lbf->gf"].Type; got != domain.ConnectorGrandFinal {
		t.Errorf("lbf->gf type = %q, want grand-final", got)
	}
}

func TestComputeLayoutLaneCollisionSpreadsBy025Steps(t *testing.T) {
	// Three round-2 matches all fed by a single round-1 source each at
	// the same lane value collide onto the same mean and must spread
	// by the fixed 0.25 step around that shared bucket.
	matches := []domain.Match{
		{ID: "s1", GroupID: "winners", RoundID: "round-1", Number: 1},
		{ID: "a", GroupID: "winners", RoundID: "round-2", Number: 1},
		{ID: "b", GroupID: "winners", RoundID: "round-2", Number: 2},
		{ID: "c", GroupID: "winners", RoundID: "round-2", Number: 3},
	}
	edges := []domain.Edge{
		{FromMatchID: "s1", FromRank: 1, ToMatchID: "a", ToSlot: 1},
		{FromMatchID: "s1", FromRank: 1, ToMatchID: "b", ToSlot: 1},
		{FromMatchID: "s1", FromRank: 1, ToMatchID: "c", ToSlot: 1},
	}
	layout := ComputeLayout(matches, edges, "single_elimination", defaultCfg(), nil)

	lanes := map[string]int{
		"a": layout.MatchPositions["a"].YLane,
		"b": layout.MatchPositions["b"].YLane,
		"c": layout.MatchPositions["c"].YLane,
	}
	seen := make(map[int]bool)
	for _, l := range lanes {
		if seen[l] {
			t.Fatalf("lanes not distinct after tie-break: %+v", lanes)
		}
		seen[l] = true
	}
}

func TestComputeLayoutBottomAlignmentStacksGroupsTopToBottom(t *testing.T) {
	matches := []domain.Match{
		{ID: "w1", GroupID: "winners", RoundID: "round-1", Number: 1},
		{ID: "l1", GroupID: "losers", RoundID: "round-1", Number: 1},
	}
	cfg := defaultCfg()
	cfg.BracketAlignment = domain.AlignBottom
	layout := ComputeLayout(matches, nil, "double_elimination", cfg, nil)

	if layout.GroupOffsetY[domain.WinnersBracket] >= layout.GroupOffsetY[domain.LosersBracket] {
		t.Errorf("winners offset %d should be above losers offset %d",
			layout.GroupOffsetY[domain.WinnersBracket], layout.GroupOffsetY[domain.LosersBracket])
	}
}

func TestComputeLayoutFinalsTopPlacesGrandFinalBesideWinners(t *testing.T) {
	matches := []domain.Match{
		{ID: "w1", GroupID: "winners", RoundID: "round-1", Number: 1},
		{ID: "l1", GroupID: "losers", RoundID: "round-1", Number: 1},
		{ID: "gf", GroupID: "grand-final", RoundID: "round-1", Number: 1},
	}
	cfg := defaultCfg()
	cfg.BracketAlignment = domain.AlignFinalsTop
	layout := ComputeLayout(matches, nil, "double_elimination", cfg, nil)

	if layout.GroupOffsetY[domain.WinnersBracket] != layout.GroupOffsetY[domain.GrandFinalBracket] {
		t.Errorf("finals-top should place winners and grand-final at the same Y offset: %d vs %d",
			layout.GroupOffsetY[domain.WinnersBracket], layout.GroupOffsetY[domain.GrandFinalBracket])
	}
	if layout.GroupOffsetY[domain.LosersBracket] <= layout.GroupOffsetY[domain.WinnersBracket] {
		t.Errorf("losers should sit below the winners/grand-final row")
	}
}

// TestComputeLayoutS2BracketResetSharesDistinctLanes is scenario S2:
// a grand-final and its bracket-reset match share identical inbound
// sources (both fed by the WB and LB finalists). Those edges cross
// groups, so they are not internal inbound edges: gf1 and gf2 take
// lanes from the grand-final group's counter in round order and must
// end up on distinct lanes.
func TestComputeLayoutS2BracketResetSharesDistinctLanes(t *testing.T) {
	matches := []domain.Match{
		{ID: "wbf", GroupID: "winners", RoundID: "round-1", Number: 1},
		{ID: "lbf", GroupID: "losers", RoundID: "round-1", Number: 1},
		{ID: "gf1", GroupID: "grand-final", RoundID: "round-1", Number: 1},
		{ID: "gf2", GroupID: "grand-final", RoundID: "round-2", Number: 1},
	}
	edges := []domain.Edge{
		{FromMatchID: "wbf", FromRank: 1, ToMatchID: "gf1", ToSlot: 1},
		{FromMatchID: "lbf", FromRank: 1, ToMatchID: "gf1", ToSlot: 2},
		{FromMatchID: "wbf", FromRank: 1, ToMatchID: "gf2", ToSlot: 1},
		{FromMatchID: "lbf", FromRank: 1, ToMatchID: "gf2", ToSlot: 2},
	}
	layout := ComputeLayout(matches, edges, "double_elimination", defaultCfg(), nil)

	gf1, gf2 := layout.MatchPositions["gf1"], layout.MatchPositions["gf2"]
	if gf1.YLane == gf2.YLane {
		t.Fatalf("gf1 and gf2 should land on distinct lanes after tie-break, both got %d", gf1.YLane)
	}
}

// TestComputeLayoutS3ConnectorClassification is scenario S3: an edge
// into the grand-final classifies as grand-final even though it
// crosses groups, a same-group edge classifies as internal, and any
// other cross-group edge classifies as cross-bracket.
func TestComputeLayoutS3ConnectorClassification(t *testing.T) {
	matches := []domain.Match{
		{ID: "wb_r1_winner_side", GroupID: "winners", RoundID: "round-1", Number: 1},
		{ID: "wb_r1_loser_side", GroupID: "winners", RoundID: "round-1", Number: 2},
		{ID: "wb_last", GroupID: "winners", RoundID: "round-2", Number: 1},
		{ID: "lb_r1", GroupID: "losers", RoundID: "round-1", Number: 1},
		{ID: "gf1", GroupID: "grand-final", RoundID: "round-1", Number: 1},
	}
	edges := []domain.Edge{
		{FromMatchID: "wb_r1_winner_side", FromRank: 1, ToMatchID: "wb_last", ToSlot: 1},
		{FromMatchID: "wb_r1_loser_side", FromRank: 2, ToMatchID: "lb_r1", ToSlot: 1},
		{FromMatchID: "wb_last", FromRank: 1, ToMatchID: "gf1", ToSlot: 1},
	}
	layout := ComputeLayout(matches, edges, "double_elimination", defaultCfg(), nil)

	byEndpoints := make(map[string]domain.ConnectorType)
	for _, c := range layout.Connectors {
		byEndpoints[c.FromMatchID+"->"+c.ToMatchID] = c.Type
	}
	if got := byEndpoints["wb_r1_winner_side->wb_last"]; got != domain.ConnectorInternal {
		t.Errorf("same-group edge = %q, want internal", got)
	}
	if got := byEndpoints["wb_r1_loser_side->lb_r1"]; got != domain.ConnectorCrossBracket {
		t.Errorf("WB-drop-to-LB edge = %q, want cross-bracket", got)
	}
	if got := byEndpoints["wb_last->gf1"]; got != domain.ConnectorGrandFinal {
		t.Errorf("edge into grand-final = %q, want grand-final", got)
	}
}

func TestComputeLayoutProfileOverridesColumnAssignment(t *testing.T) {
	matches := []domain.Match{
		{ID: "w1", GroupID: "winners", RoundID: "round-1", Number: 1},
		{ID: "w2", GroupID: "winners", RoundID: "round-2", Number: 1},
	}
	profile := domain.DEProfile{
		ID:                  "de-test",
		WinnersRoundColumns: map[int]int{1: 0, 2: 5},
	}
	layout := ComputeLayout(matches, nil, "double_elimination", defaultCfg(), &profile)

	if layout.MatchPositions["w2"].XRound != 5 {
		t.Errorf("profile should override column assignment: XRound = %d, want 5", layout.MatchPositions["w2"].XRound)
	}
}
