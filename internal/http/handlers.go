package http

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/bnl-gg/league-tracker/internal/ladder"
	"github.com/bnl-gg/league-tracker/internal/pubsub"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) ClearStoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Received request to clear entire store")
		s.Store.Clear()
		if err := s.Cache.Clear(); err != nil {
			log.Error("Failed to clear match cache", "error", err)
			http.Error(w, "Failed to clear match cache", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Store cleared!")
		log.Info("Store cleared successfully")
	}
}

// MembersHandler manages the league roster: GET lists members, POST adds
// one, DELETE removes one by battle tag.
func (s *Server) MembersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			members, err := s.Store.GetMembers()
			if err != nil {
				http.Error(w, "Failed to get members", http.StatusInternalServerError)
				log.Error("Failed to get members from store", "error", err)
				return
			}
			writeJSON(w, members)
		case http.MethodPost:
			var req struct {
				BattleTag string `json:"battleTag"`
				Name      string `json:"name"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid JSON", http.StatusBadRequest)
				return
			}
			if req.BattleTag == "" {
				http.Error(w, "battleTag is required", http.StatusBadRequest)
				return
			}
			if err := s.Store.AddMember(req.BattleTag, req.Name); err != nil {
				http.Error(w, "Failed to add member", http.StatusInternalServerError)
				log.Error("Failed to add member", "battleTag", req.BattleTag, "error", err)
				return
			}
			log.Info("Added league member", "battleTag", req.BattleTag, "name", req.Name)
			w.WriteHeader(http.StatusCreated)
			fmt.Fprintf(w, "Added member %s", req.BattleTag)
		case http.MethodDelete:
			battleTag := r.URL.Query().Get("battleTag")
			if battleTag == "" {
				http.Error(w, "battleTag is required", http.StatusBadRequest)
				return
			}
			if err := s.Store.RemoveMember(battleTag); err != nil {
				http.Error(w, "Failed to remove member", http.StatusInternalServerError)
				log.Error("Failed to remove member", "battleTag", battleTag, "error", err)
				return
			}
			log.Info("Removed league member", "battleTag", battleTag)
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, "Removed member %s", battleTag)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// LeaderboardHandler serves the full standings, sorted by points.
// Reads come straight from the stats store; nothing is recomputed here.
func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		standings, err := s.Store.GetAllPlayerStats()
		if err != nil {
			http.Error(w, "Failed to get player stats", http.StatusInternalServerError)
			log.Error("Failed to get player stats from store", "error", err)
			return
		}
		writeJSON(w, standings)
	}
}

// PlayerStatsHandler serves a single player's persisted stats, including
// the per-race profiles with achievements and match history.
func (s *Server) PlayerStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		battleTag := r.URL.Query().Get("battleTag")
		if battleTag == "" {
			http.Error(w, "battleTag is required", http.StatusBadRequest)
			return
		}
		playerStats, err := s.Store.GetPlayerStats(battleTag)
		if err != nil {
			http.Error(w, "Failed to get player stats", http.StatusInternalServerError)
			log.Error("Failed to get player stats from store", "battleTag", battleTag, "error", err)
			return
		}
		if playerStats == nil {
			http.Error(w, "Player not found", http.StatusNotFound)
			return
		}
		writeJSON(w, playerStats)
	}
}

func (s *Server) TeamsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			teams, err := s.Store.GetTeams()
			if err != nil {
				http.Error(w, "Failed to get teams", http.StatusInternalServerError)
				log.Error("Failed to get teams from store", "error", err)
				return
			}
			writeJSON(w, teams)
		case http.MethodPost:
			var req struct {
				Name       string   `json:"name"`
				MemberTags []string `json:"memberTags"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid JSON", http.StatusBadRequest)
				return
			}
			if req.Name == "" || len(req.MemberTags) == 0 {
				http.Error(w, "name and memberTags are required", http.StatusBadRequest)
				return
			}
			for _, tag := range req.MemberTags {
				if !s.Store.IsMember(tag) {
					http.Error(w, fmt.Sprintf("%s is not a league member", tag), http.StatusBadRequest)
					return
				}
			}
			team, err := s.Store.CreateTeam(req.Name, req.MemberTags)
			if err != nil {
				http.Error(w, "Failed to create team", http.StatusInternalServerError)
				log.Error("Failed to create team", "name", req.Name, "error", err)
				return
			}
			log.Info("Created team", "teamID", team.ID, "name", team.Name)
			writeJSONStatus(w, http.StatusCreated, team)
		case http.MethodDelete:
			teamID := r.URL.Query().Get("id")
			if teamID == "" {
				http.Error(w, "id is required", http.StatusBadRequest)
				return
			}
			if err := s.Store.DeleteTeam(teamID); err != nil {
				http.Error(w, "Failed to delete team", http.StatusInternalServerError)
				log.Error("Failed to delete team", "teamID", teamID, "error", err)
				return
			}
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, "Deleted team %s", teamID)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// ScheduleHandler manages 1v1 challenge matches: GET lists them, POST
// schedules a new one and announces it.
func (s *Server) ScheduleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			matches, err := s.Store.GetScheduledMatches()
			if err != nil {
				http.Error(w, "Failed to get scheduled matches", http.StatusInternalServerError)
				log.Error("Failed to get scheduled matches from store", "error", err)
				return
			}
			writeJSON(w, matches)
		case http.MethodPost:
			var req struct {
				Player1Tag  string `json:"player1Tag"`
				Player2Tag  string `json:"player2Tag"`
				ScheduledAt int64  `json:"scheduledAt"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid JSON", http.StatusBadRequest)
				return
			}
			if req.Player1Tag == "" || req.Player2Tag == "" {
				http.Error(w, "player1Tag and player2Tag are required", http.StatusBadRequest)
				return
			}
			if !s.Store.IsMember(req.Player1Tag) || !s.Store.IsMember(req.Player2Tag) {
				http.Error(w, "Both players must be league members", http.StatusBadRequest)
				return
			}
			match, err := s.Store.ScheduleMatch(req.Player1Tag, req.Player2Tag, req.ScheduledAt)
			if err != nil {
				http.Error(w, "Failed to schedule match", http.StatusInternalServerError)
				log.Error("Failed to schedule match", "error", err)
				return
			}
			log.Info("Scheduled match", "matchID", match.ID, "player1", match.Player1Tag, "player2", match.Player2Tag)
			if err := s.Notifier.SendUpcomingMatch(match, isDryRunFromContext(r)); err != nil {
				log.Error("Failed to announce scheduled match", "matchID", match.ID, "error", err)
			}
			writeJSONStatus(w, http.StatusCreated, match)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) ReportResultHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			MatchID   string `json:"matchID"`
			WinnerTag string `json:"winnerTag"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if req.MatchID == "" || req.WinnerTag == "" {
			http.Error(w, "matchID and winnerTag are required", http.StatusBadRequest)
			return
		}
		if err := s.Store.ReportMatchResult(req.MatchID, req.WinnerTag); err != nil {
			http.Error(w, "Failed to report result", http.StatusBadRequest)
			log.Error("Failed to report match result", "matchID", req.MatchID, "error", err)
			return
		}
		log.Info("Reported match result", "matchID", req.MatchID, "winner", req.WinnerTag)
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Result recorded")
	}
}

func (s *Server) CancelMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		matchID := r.URL.Query().Get("id")
		if matchID == "" {
			http.Error(w, "id is required", http.StatusBadRequest)
			return
		}
		if err := s.Store.CancelScheduledMatch(matchID); err != nil {
			http.Error(w, "Failed to cancel match", http.StatusBadRequest)
			log.Error("Failed to cancel scheduled match", "matchID", matchID, "error", err)
			return
		}
		log.Info("Canceled scheduled match", "matchID", matchID)
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Match canceled")
	}
}

// FetchMatchesHandler pulls every member's match history from the ladder
// API into the cache. It does not recompute stats; hit /refresh for that.
func (s *Server) FetchMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Starting match fetch...")
		isDryRun := isDryRunFromContext(r)

		members, err := s.Store.GetMembers()
		if err != nil {
			http.Error(w, "Failed to get members", http.StatusInternalServerError)
			log.Error("Failed to get members from store", "error", err)
			return
		}

		fetched := 0
		for _, member := range members {
			matches, err := s.Ladder.GetMatchHistory(member.BattleTag)
			if err != nil {
				log.Error("Failed to fetch match history", "battleTag", member.BattleTag, "error", err)
				continue
			}
			if isDryRun {
				log.Info("[Dry Run] Would cache match history", "battleTag", member.BattleTag, "count", len(matches))
				fetched++
				continue
			}
			if err := s.Cache.Put(member.BattleTag, matches, s.Cfg.Refresh.CacheTTL); err != nil {
				log.Error("Failed to cache match history", "battleTag", member.BattleTag, "error", err)
				continue
			}
			fetched++
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Match fetch completed.")
		log.Info("Match fetch finished.", "members", len(members), "fetched", fetched)
	}
}

// RefreshStatsHandler triggers a full recompute run. Returns 409 when a
// run is already in flight.
func (s *Server) RefreshStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Starting manual stats refresh...")
		summary := s.Refresher.RunOnce(isDryRunFromContext(r))
		if summary.Skipped {
			http.Error(w, "Refresh already in progress", http.StatusConflict)
			return
		}
		writeJSON(w, summary)
	}
}

// NotifyLeaderboardHandler posts the current standings to Slack.
func (s *Server) NotifyLeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		standings, err := s.Store.GetAllPlayerStats()
		if err != nil {
			http.Error(w, "Failed to get player stats", http.StatusInternalServerError)
			log.Error("Failed to get player stats from store", "error", err)
			return
		}
		if err := s.Notifier.SendLeaderboard(standings, isDryRunFromContext(r)); err != nil {
			http.Error(w, "Failed to send leaderboard", http.StatusInternalServerError)
			log.Error("Failed to send leaderboard", "error", err)
			return
		}
		w.Write([]byte("OK"))
	}
}

// AchievementPushHandler receives Pub/Sub push deliveries for unlocked
// achievements and relays them to Slack.
func (s *Server) AchievementPushHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received achievement push message", "body", string(bodyBytes))

		var pubsubMsg struct {
			Subscription string `json:"subscription"`
			Message      struct {
				Data string `json:"data"` // base64-encoded message payload
			} `json:"message"`
		}
		if err := json.Unmarshal(bodyBytes, &pubsubMsg); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}

		event := pubsub.AchievementEvent{}
		if err := s.pubsub.ProcessMessage(rawData, &event); err != nil {
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}
		if err := s.Notifier.SendAchievementUnlocked(event.BattleTag, ladder.Race(event.Race), event.Keys, isDryRunFromContext(r)); err != nil {
			log.Error("Failed to send achievement notification", "battleTag", event.BattleTag, "error", err)
			http.Error(w, "Failed to send notification", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response to JSON", "error", err)
	}
}
