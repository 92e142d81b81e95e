package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
)

var (
	memberName string
	dryRun     bool
)

func init() {
	addMemberCmd.Flags().StringVar(&memberName, "name", "", "Display name for the member")
	refreshCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compute without persisting")
	fetchCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Fetch without caching")

	membersCmd.AddCommand(addMemberCmd)
	membersCmd.AddCommand(removeMemberCmd)

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(membersCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(playerStatsCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var membersCmd = &cobra.Command{
	Use:   "members",
	Short: "List the league members",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/members")
	},
}

var addMemberCmd = &cobra.Command{
	Use:   "add <battleTag>",
	Short: "Add a member to the league roster",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		payload := map[string]string{"battleTag": args[0], "name": memberName}
		return performPostRequest("/members", payload)
	},
}

var removeMemberCmd = &cobra.Command{
	Use:   "remove <battleTag>",
	Short: "Remove a member from the league roster",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performDeleteRequest("/members?battleTag=" + url.QueryEscape(args[0]))
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the league standings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/stats")
	},
}

var playerStatsCmd = &cobra.Command{
	Use:   "player <battleTag>",
	Short: "Show a single player's stats",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/player-stats?battleTag=" + url.QueryEscape(args[0]))
	},
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Pull match histories from the ladder into the cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/fetch"
		if dryRun {
			endpoint += "?dry_run=true"
		}
		return performGetRequest(endpoint)
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Trigger a stats recompute run",
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/refresh"
		if dryRun {
			endpoint += "?dry_run=true"
		}
		return performPostRequest(endpoint, nil)
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "List scheduled matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/schedule")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func performPostRequest(endpoint string, payload any) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	resp, err := http.Post(url, "application/json", body)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func performDeleteRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	req, err := http.NewRequest(http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
