// Package converter canonicalizes an external stage's match/edge/slot
// structure into the (matches, edges, participants) graph the layout
// engine consumes. It never touches layout geometry.
package converter

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/braccet/bracketlayout/internal/domain"
)

// ErrUnsupportedStageType is returned for FFA stages, which this
// viewer does not render as a bracket.
var ErrUnsupportedStageType = errors.New("converter: FFA stage type is not supported")

// ErrMissingStageID is returned when StageStructure.StageID is empty.
var ErrMissingStageID = errors.New("converter: stageId is required")

// ErrMissingStageType is returned when StageStructure.StageType is
// empty.
var ErrMissingStageType = errors.New("converter: stageType is required")

// StageID accepts either a numeric or string external id and stores
// it as an opaque string key, per the external interface contract.
type StageID string

func (id *StageID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = StageID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("stageId: %w", err)
	}
	*id = StageID(n.String())
	return nil
}

// StageType is the external stage-format vocabulary.
type StageType string

const (
	SingleElimination StageType = "SINGLE_ELIMINATION"
	DoubleElimination StageType = "DOUBLE_ELIMINATION"
	RoundRobin        StageType = "ROUND_ROBIN"
	Swiss             StageType = "SWISS"
	FFA               StageType = "FFA"
)

// ViewerType returns the internal viewer-facing spelling of a stage
// type (lowercased, underscore-separated).
func (t StageType) ViewerType() string {
	return strings.ToLower(string(t))
}

// StageStructure is the normative external input shape (§6).
type StageStructure struct {
	StageID    StageID     `json:"stageId"`
	StageType  StageType   `json:"stageType"`
	StageItems []StageItem `json:"stageItems"`
}

type StageItem struct {
	ID         string    `json:"id,omitempty"`
	GroupIndex *int      `json:"groupIndex,omitempty"`
	Edges      []EdgeDTO `json:"edges,omitempty"`
	Rounds     []RoundDTO `json:"rounds"`
}

type EdgeDTO struct {
	FromMatchID string `json:"fromMatchId"`
	FromRank    int    `json:"fromRank"`
	ToMatchID   string `json:"toMatchId"`
	ToSlot      int    `json:"toSlot"`
}

type RoundDTO struct {
	Number       *int       `json:"number,omitempty"`
	BracketGroup string     `json:"bracketGroup,omitempty"`
	Date         *string    `json:"date,omitempty"`
	BestOf       *int       `json:"bestOf,omitempty"`
	Matches      []MatchDTO `json:"matches"`
}

type MatchDTO struct {
	ID         string    `json:"id,omitempty"`
	MatchIndex *int      `json:"matchIndex,omitempty"`
	Status     string    `json:"status,omitempty"`
	Completed  *bool     `json:"completed,omitempty"`
	Slots      []SlotDTO `json:"slots"`
}

type SlotDTO struct {
	Slot       int     `json:"slot"`
	TeamName   *string `json:"teamName,omitempty"`
	GamesWon   *int    `json:"gamesWon,omitempty"`
	Winner     *bool   `json:"winner,omitempty"`
	SourceRank *int    `json:"sourceRank,omitempty"`
}

// SwissRecord is a team's win/loss record, used as the standings-table
// fallback for Swiss record derivation (rule 8).
type SwissRecord struct {
	Wins, Losses int
}

// Participant is a deduplicated stage competitor, numbered in first-
// appearance order starting at 1.
type Participant struct {
	ID   int
	Name string
}

// StageSettings carries stage-level metadata the converter derives;
// GroupCount is the number of distinct stage-item group indices found
// in the stage (an item without a groupIndex counts by its position).
type StageSettings struct {
	GroupCount int
}

// Stage is the converted stage's identity and derived settings.
type Stage struct {
	ID       StageID
	Type     string
	Settings StageSettings
}

// ViewerData is everything the layout engine and its callers need:
// one converted Stage, its deduplicated Participants, and the flat
// Matches/Edges graph built from every stage item.
type ViewerData struct {
	Stages       []Stage
	Participants []Participant
	Matches      []domain.Match
	Edges        []domain.Edge
}

var matchRecordPattern = regexp.MustCompile(`^match-(\d+)-(\d+)-`)

// Convert canonicalizes a StageStructure into a ViewerData. standings
// is consulted only for Swiss stages whose matches don't encode a
// record in their id; it may be nil.
func Convert(stage StageStructure, standings map[string]SwissRecord) (*ViewerData, error) {
	if stage.StageID == "" {
		return nil, ErrMissingStageID
	}
	if stage.StageType == "" {
		return nil, ErrMissingStageType
	}
	if stage.StageType == FFA {
		return nil, ErrUnsupportedStageType
	}

	participantIDs := make(map[string]int)
	var participants []Participant

	internParticipant := func(name string) {
		if name == "" {
			return
		}
		if _, ok := participantIDs[name]; ok {
			return
		}
		id := len(participants) + 1
		participantIDs[name] = id
		participants = append(participants, Participant{ID: id, Name: name})
	}

	groupIndices := make(map[int]bool)
	var matches []domain.Match
	var edges []domain.Edge

	for itemIdx, item := range stage.StageItems {
		itemID := item.ID
		if itemID == "" {
			itemID = fmt.Sprintf("item-%d", itemIdx)
		}
		if item.GroupIndex != nil {
			groupIndices[*item.GroupIndex] = true
		} else {
			groupIndices[itemIdx] = true
		}

		for _, round := range item.Rounds {
			groupID := itemID + "-" + bracketGroupSlug(round.BracketGroup)
			roundNumber := 1
			if round.Number != nil {
				roundNumber = *round.Number
			}
			roundID := fmt.Sprintf("%s-round-%d", groupID, roundNumber)

			for matchIdx, md := range round.Matches {
				matchID := md.ID
				if matchID == "" {
					matchID = fmt.Sprintf("%s-match-%d", roundID, matchIdx+1)
				}

				number := matchIdx + 1
				if md.MatchIndex != nil {
					number = *md.MatchIndex
				}

				m := domain.Match{
					ID:      matchID,
					GroupID: groupID,
					RoundID: roundID,
					Number:  number,
					Status:  mapStatus(md.Status, md.Completed),
				}

				var firstTeamName string
				for _, slot := range md.Slots {
					internParticipant(derefStr(slot.TeamName))
					if firstTeamName == "" && slot.TeamName != nil {
						firstTeamName = *slot.TeamName
					}
					result := toParticipantResult(slot)
					if slot.Slot == 1 {
						m.Opponent1 = result
					} else if slot.Slot == 2 {
						m.Opponent2 = result
					}
				}

				if stage.StageType == Swiss {
					m.SwissDate = round.Date
					m.SwissBestOf = round.BestOf
					if w, l, ok := deriveSwissRecord(matchID, firstTeamName, standings); ok {
						m.SwissWins, m.SwissLosses = &w, &l
					}
				}

				matches = append(matches, m)
			}
		}

		for _, e := range item.Edges {
			edges = append(edges, domain.Edge{
				FromMatchID: e.FromMatchID,
				FromRank:    e.FromRank,
				ToMatchID:   e.ToMatchID,
				ToSlot:      e.ToSlot,
			})
		}
	}

	return &ViewerData{
		Stages: []Stage{{
			ID:   stage.StageID,
			Type: stage.StageType.ViewerType(),
			Settings: StageSettings{
				GroupCount: len(groupIndices),
			},
		}},
		Participants: participants,
		Matches:      matches,
		Edges:        edges,
	}, nil
}

// bracketGroupSlug lowercases a bracketGroup label and replaces
// underscores with hyphens; an absent label slugs to "bracket".
func bracketGroupSlug(bracketGroup string) string {
	if bracketGroup == "" {
		return "bracket"
	}
	return strings.ReplaceAll(strings.ToLower(bracketGroup), "_", "-")
}

func toParticipantResult(slot SlotDTO) domain.ParticipantResult {
	result := ""
	if slot.Winner != nil && *slot.Winner {
		result = "win"
	}
	return domain.ParticipantResult{
		Score:    slot.GamesWon,
		Result:   result,
		Position: slot.SourceRank,
	}
}

func mapStatus(status string, completed *bool) domain.MatchStatus {
	if completed != nil && *completed {
		return domain.StatusCompleted
	}
	switch strings.ToUpper(status) {
	case "UNSCHEDULED", "PENDING", "INCOMPLETE":
		return domain.StatusLocked
	case "LIVE", "RUNNING", "IN_PROGRESS":
		return domain.StatusRunning
	case "COMPLETE", "COMPLETED", "FINISHED":
		return domain.StatusCompleted
	default:
		return domain.StatusLocked
	}
}

// deriveSwissRecord implements rule 8: prefer the id-encoded record
// ("match-<wins>-<losses>-..."), else fall back to a standings table
// keyed by team name.
func deriveSwissRecord(matchID, teamName string, standings map[string]SwissRecord) (wins, losses int, ok bool) {
	if m := matchRecordPattern.FindStringSubmatch(matchID); m != nil {
		w, errW := strconv.Atoi(m[1])
		l, errL := strconv.Atoi(m[2])
		if errW == nil && errL == nil {
			return w, l, true
		}
	}
	if rec, found := standings[teamName]; found {
		return rec.Wins, rec.Losses, true
	}
	return 0, 0, false
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
