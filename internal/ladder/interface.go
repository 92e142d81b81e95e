package ladder

// Client defines the operations consumed from the external ranked-ladder
// service. The service is treated as unreliable; callers must tolerate
// errors on every method and never block the serving path on them.
type Client interface {
	// GetMatchHistory fetches the raw match history for a player handle.
	GetMatchHistory(battleTag string) ([]MatchRecord, error)
	// GetPlayerMMR looks up the player's current 1v1 MMR.
	GetPlayerMMR(battleTag string) (int, error)
}
