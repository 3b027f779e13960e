// Package domain defines the shapes the layout engine reads and
// produces: matches, progression edges, layout configuration, and the
// positioned geometry of a BracketLayout.
package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// BracketGroup classifies a match's group id into one of the four
// semantic brackets a tournament can have.
type BracketGroup string

const (
	WinnersBracket    BracketGroup = "WINNERS_BRACKET"
	LosersBracket     BracketGroup = "LOSERS_BRACKET"
	GrandFinalBracket BracketGroup = "GRAND_FINAL_BRACKET"
	PlacementBracket  BracketGroup = "PLACEMENT_BRACKET"
)

// ClassifyBracketGroup derives a BracketGroup from a group id by
// case-insensitive substring test. The precedence is fixed:
// placement/third/3rd, then loser/lower, then grand-final or
// standalone final, then winner/upper — anything else is WINNERS.
// grand-final must be tested before final alone, so "g-grand-final"
// doesn't fall through to the bare "final" check; loser is tested
// before final, so an id with both classifies as LOSERS.
func ClassifyBracketGroup(groupID string) BracketGroup {
	id := strings.ToLower(groupID)

	switch {
	case strings.Contains(id, "placement"), strings.Contains(id, "third"), strings.Contains(id, "3rd"):
		return PlacementBracket
	case strings.Contains(id, "loser"), strings.Contains(id, "lower"):
		return LosersBracket
	case strings.Contains(id, "grand-final"), strings.Contains(id, "final"):
		return GrandFinalBracket
	case strings.Contains(id, "winner"), strings.Contains(id, "upper"):
		return WinnersBracket
	default:
		return WinnersBracket
	}
}

// ParticipantResult carries the optional outcome data for one slot of
// a match.
type ParticipantResult struct {
	Score    *int   `json:"score,omitempty"`
	Result   string `json:"result,omitempty"` // "win", "loss", or "" if unknown
	Position *int   `json:"position,omitempty"` // sourceRank, when supplied
}

// MatchStatus is the lifecycle status of a match, as mapped by the
// DTO converter from an external stage's status vocabulary.
type MatchStatus string

const (
	StatusLocked    MatchStatus = "Locked"
	StatusRunning   MatchStatus = "Running"
	StatusCompleted MatchStatus = "Completed"
)

// Match is the unit the engine positions. The elimination engine never
// mutates a Match; it only reads ID, GroupID, RoundID and Number off of
// it. The Swiss engine also fills in SwissWins/SwissLosses when they
// are nil.
type Match struct {
	ID      string      `json:"id"`
	GroupID string      `json:"groupId"`
	RoundID string      `json:"roundId"`
	Number  int         `json:"number"`
	Status  MatchStatus `json:"status"`

	Opponent1 ParticipantResult `json:"opponent1"`
	Opponent2 ParticipantResult `json:"opponent2"`

	// SwissWins/SwissLosses carry an explicit Swiss record when known.
	// Nil means "infer the record" (see engine.InferSwissRecords).
	SwissWins   *int    `json:"swissWins,omitempty"`
	SwissLosses *int    `json:"swissLosses,omitempty"`
	SwissDate   *string `json:"swissDate,omitempty"`
	SwissBestOf *int    `json:"swissBestOf,omitempty"`
}

// Edge is a directed progression arc: the winner (FromRank=1) or
// loser (FromRank=2) of FromMatchID feeds ToSlot of ToMatchID.
type Edge struct {
	FromMatchID string `json:"fromMatchId"`
	FromRank    int    `json:"fromRank"`
	ToMatchID   string `json:"toMatchId"`
	ToSlot      int    `json:"toSlot"`
}

// ConnectorType classifies a ConnectorLine by the groups its endpoints
// belong to.
type ConnectorType string

const (
	ConnectorInternal     ConnectorType = "internal"
	ConnectorCrossBracket ConnectorType = "cross-bracket"
	ConnectorGrandFinal   ConnectorType = "grand-final"
)

// MatchPosition is the column/lane and pixel position assigned to one
// match.
type MatchPosition struct {
	MatchID string `json:"matchId"`
	XRound  int    `json:"xRound"`
	YLane   int    `json:"yLane"`
	XPx     int    `json:"xPx"`
	YPx     int    `json:"yPx"`
}

// ConnectorLine is an ordered 4-point polyline routed between two
// positioned matches.
type ConnectorLine struct {
	FromMatchID string        `json:"fromMatchId"`
	ToMatchID   string        `json:"toMatchId"`
	ToSlot      int           `json:"toSlot"`
	Type        ConnectorType `json:"type"`
	Points      [4]Point      `json:"points"`
}

// Point is a pixel coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// RoundHeader labels one column of the output.
type RoundHeader struct {
	XRound int `json:"xRound"`
	XPx    int `json:"xPx"`
	YPx    int `json:"yPx"`
}

// SwissZone classifies a Swiss record bucket against the
// advancing/eliminated thresholds.
type SwissZone string

const (
	SwissNeutral    SwissZone = "neutral"
	SwissAdvancing  SwissZone = "advancing"
	SwissEliminated SwissZone = "eliminated"
)

// SwissPanelPosition is the geometry of one (wins, losses) record
// bucket in a Swiss layout.
type SwissPanelPosition struct {
	Key         string    `json:"key"` // "W-L"
	Wins        int       `json:"wins"`
	Losses      int       `json:"losses"`
	RoundNumber int       `json:"roundNumber"`
	Date        *string   `json:"date,omitempty"`
	BestOf      *int      `json:"bestOf,omitempty"`
	XPx         int       `json:"xPx"`
	YPx         int       `json:"yPx"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	MatchCount  int       `json:"matchCount"`
	Zone        SwissZone `json:"zone"`
}

// BracketLayout is the full output of a layout computation.
type BracketLayout struct {
	MatchPositions  map[string]MatchPosition `json:"matchPositions"`
	HeaderPositions []RoundHeader            `json:"headerPositions"`
	Connectors      []ConnectorLine          `json:"connectors"`
	PanelPositions  []SwissPanelPosition     `json:"panelPositions,omitempty"` // Swiss only
	GroupOffsetY    map[BracketGroup]int     `json:"groupOffsetY"`
	TotalWidth      int                      `json:"totalWidth"`
	TotalHeight     int                      `json:"totalHeight"`
}

// EmptyLayout is returned whenever the input match set is empty; it
// carries zero totals and non-nil empty collections so callers never
// have to nil-check.
func EmptyLayout() BracketLayout {
	return BracketLayout{
		MatchPositions:  map[string]MatchPosition{},
		HeaderPositions: []RoundHeader{},
		Connectors:      []ConnectorLine{},
		GroupOffsetY:    map[BracketGroup]int{},
	}
}

// BracketAlignment selects the Y-offset strategy for Step F of the
// elimination layout.
type BracketAlignment string

const (
	AlignBottom          BracketAlignment = "bottom"
	AlignTop             BracketAlignment = "top"
	AlignCenter          BracketAlignment = "center"
	AlignFinalsTop        BracketAlignment = "finals-top"
	AlignSplitHorizontal BracketAlignment = "split-horizontal"
)

// SwissConfig carries the Swiss-specific geometry and qualification
// thresholds layered on top of LayoutConfig.
type SwissConfig struct {
	MaxWins   int `json:"maxWins"`
	MaxLosses int `json:"maxLosses"`
}

// LayoutConfig is the pure geometry input to both layout engines. The
// engine must never read a field outside this set.
type LayoutConfig struct {
	ColumnWidth int `json:"columnWidth"`
	RowHeight   int `json:"rowHeight"`
	MatchHeight int `json:"matchHeight"`
	MatchWidth  int `json:"matchWidth"`
	TopOffset   int `json:"topOffset"`
	LeftOffset  int `json:"leftOffset"`
	GroupGapX   int `json:"groupGapX"`
	GroupGapY   int `json:"groupGapY"`

	BracketAlignment     BracketAlignment `json:"bracketAlignment"`
	LosersBracketOffsetX int              `json:"losersBracketOffsetX,omitempty"`

	// SplitHorizontalLosersRowHeight overrides RowHeight for the
	// losers band when BracketAlignment is split-horizontal; zero
	// means "use RowHeight".
	SplitHorizontalLosersRowHeight int `json:"splitHorizontalLosersRowHeight,omitempty"`

	Swiss *SwissConfig `json:"swiss,omitempty"`
}

// DEProfile overrides the algorithmic column assignment (Step B) for
// a known double-elimination tournament size, aligning WB/LB rounds
// that temporally coincide. Profiles only ever affect column
// assignment; lanes, Y offsets, and connectors still compute per the
// generic algorithm.
type DEProfile struct {
	ID          string
	FormatSize  int
	WinnersRoundColumns map[int]int
	LosersRoundColumns  map[int]int
	FinalsColumns       map[int]int
}

// ColumnsFor returns the round->column table for a group, if the
// profile overrides that group; ok is false for PlacementBracket or
// any group the profile leaves to the generic algorithm.
func (p *DEProfile) ColumnsFor(group BracketGroup) (map[int]int, bool) {
	if p == nil {
		return nil, false
	}
	switch group {
	case WinnersBracket:
		return p.WinnersRoundColumns, p.WinnersRoundColumns != nil
	case LosersBracket:
		return p.LosersRoundColumns, p.LosersRoundColumns != nil
	case GrandFinalBracket:
		return p.FinalsColumns, p.FinalsColumns != nil
	default:
		return nil, false
	}
}

var roundNumberPattern = regexp.MustCompile(`round-(\d+)`)

// ParseRoundNumber extracts the round number from a round id by the
// fixed pattern "round-<N>"; ids without that substring default to
// round 1.
func ParseRoundNumber(roundID string) int {
	m := roundNumberPattern.FindStringSubmatch(strings.ToLower(roundID))
	if m == nil {
		return 1
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 1
	}
	return n
}
