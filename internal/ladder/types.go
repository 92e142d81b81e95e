package ladder

// Race is the in-game faction of a player. The values mirror the ladder
// API's bit-flag style encoding and must not be renumbered.
type Race int

const (
	RaceRandom   Race = 0
	RaceHuman    Race = 1
	RaceOrc      Race = 2
	RaceNightElf Race = 4
	RaceUndead   Race = 8
)

func (r Race) String() string {
	switch r {
	case RaceRandom:
		return "Random"
	case RaceHuman:
		return "Human"
	case RaceOrc:
		return "Orc"
	case RaceNightElf:
		return "Night Elf"
	case RaceUndead:
		return "Undead"
	default:
		return "Unknown"
	}
}

// MatchRecord is a single raw match as returned by the ladder API.
// A valid scoring match has gameMode 1 and exactly two one-player teams,
// but the record is kept opaque here; validation happens in the stats engine.
type MatchRecord struct {
	StartTime int64  `json:"startTime" msgpack:"startTime"` // unix seconds
	GameMode  int    `json:"gameMode" msgpack:"gameMode"`
	Teams     []Team `json:"teams" msgpack:"teams"`
}

// Team is one side of a match.
type Team struct {
	Players []PlayerSlot `json:"players" msgpack:"players"`
}

// PlayerSlot is a player's appearance in a match. Race is nil when the
// ladder did not record a faction for the slot.
type PlayerSlot struct {
	BattleTag  string `json:"battleTag" msgpack:"battleTag"`
	Race       *Race  `json:"race" msgpack:"race"`
	OldMMR     int    `json:"oldMmr" msgpack:"oldMmr"`
	CurrentMMR int    `json:"currentMmr" msgpack:"currentMmr"`
	Won        bool   `json:"won" msgpack:"won"`
}

// ladderMatchesResponse defines the JSON envelope for a match history page.
type ladderMatchesResponse struct {
	Matches []ladderMatchResponse `json:"matches"`
	Count   int                   `json:"count"`
}

type ladderMatchResponse struct {
	StartTime string               `json:"startTime"`
	GameMode  int                  `json:"gameMode"`
	Teams     []ladderTeamResponse `json:"teams"`
}

type ladderTeamResponse struct {
	Players []ladderPlayerResponse `json:"players"`
}

type ladderPlayerResponse struct {
	BattleTag  string `json:"battleTag"`
	Race       *int   `json:"race"`
	OldMMR     int    `json:"oldMmr"`
	CurrentMMR int    `json:"currentMmr"`
	Won        bool   `json:"won"`
}

// ladderPlayerStatsResponse defines the JSON response for a 1v1 MMR lookup.
type ladderPlayerStatsResponse struct {
	BattleTag string `json:"battleTag"`
	MMR       int    `json:"mmr"`
}
