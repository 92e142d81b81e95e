package ladder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/bnl-gg/league-tracker/internal/config"
)

// APIClient is the HTTP client for the ranked-ladder API.
type APIClient struct {
	httpClient *http.Client
	baseURL    string
	gateway    int
	season     int
	pageSize   int
}

// NewClient creates a new ladder API client from config.
func NewClient(cfg config.LadderConfig) Client {
	return &APIClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    cfg.BaseURL,
		gateway:    cfg.Gateway,
		season:     cfg.Season,
		pageSize:   cfg.PageSize,
	}
}

// Ensure APIClient implements the Client interface.
var _ Client = (*APIClient)(nil)

// GetMatchHistory fetches the raw match history for a player handle.
func (c *APIClient) GetMatchHistory(battleTag string) ([]MatchRecord, error) {
	query := url.Values{}
	query.Set("battleTag", battleTag)
	query.Set("gateway", strconv.Itoa(c.gateway))
	query.Set("season", strconv.Itoa(c.season))
	query.Set("pageSize", strconv.Itoa(c.pageSize))
	endpoint := fmt.Sprintf("%s/api/matches?%s", c.baseURL, query.Encode())

	var response ladderMatchesResponse
	if err := c.getJSON(endpoint, &response); err != nil {
		return nil, fmt.Errorf("error fetching match history for %s: %w", battleTag, err)
	}

	const layout = "2006-01-02T15:04:05Z"
	var records []MatchRecord
	for _, m := range response.Matches {
		startTime, err := time.Parse(layout, m.StartTime)
		if err != nil {
			// Some ladder deployments return fractional seconds.
			startTime, err = time.Parse(time.RFC3339, m.StartTime)
			if err != nil {
				log.Warn("Skipping match with unparseable start time", "startTime", m.StartTime, "battleTag", battleTag)
				continue
			}
		}
		record := MatchRecord{
			StartTime: startTime.Unix(),
			GameMode:  m.GameMode,
		}
		for _, responseTeam := range m.Teams {
			team := Team{}
			for _, responsePlayer := range responseTeam.Players {
				var race *Race
				if responsePlayer.Race != nil {
					r := Race(*responsePlayer.Race)
					race = &r
				}
				team.Players = append(team.Players, PlayerSlot{
					BattleTag:  responsePlayer.BattleTag,
					Race:       race,
					OldMMR:     responsePlayer.OldMMR,
					CurrentMMR: responsePlayer.CurrentMMR,
					Won:        responsePlayer.Won,
				})
			}
			record.Teams = append(record.Teams, team)
		}
		records = append(records, record)
	}
	log.Info("Fetched match history", "battleTag", battleTag, "count", len(records))
	return records, nil
}

// GetPlayerMMR looks up the player's current 1v1 MMR.
func (c *APIClient) GetPlayerMMR(battleTag string) (int, error) {
	query := url.Values{}
	query.Set("battleTag", battleTag)
	query.Set("gateway", strconv.Itoa(c.gateway))
	query.Set("season", strconv.Itoa(c.season))
	endpoint := fmt.Sprintf("%s/api/ladder/player-stats?%s", c.baseURL, query.Encode())

	var response ladderPlayerStatsResponse
	if err := c.getJSON(endpoint, &response); err != nil {
		return 0, fmt.Errorf("error fetching MMR for %s: %w", battleTag, err)
	}
	log.Debug("Fetched player MMR", "battleTag", battleTag, "mmr", response.MMR)
	return response.MMR, nil
}

func (c *APIClient) getJSON(endpoint string, target any) error {
	req, err := http.NewRequestWithContext(context.Background(), "GET", endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	log.Debug("Requesting from ladder API", "url", endpoint)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Error("Received non-OK HTTP status from ladder API", "status", resp.StatusCode, "body", string(body))
		return fmt.Errorf("received non-OK HTTP status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
