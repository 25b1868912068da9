package main

import (
	"os"
	"os/exec"
	"strings"

	"github.com/ozgurkzlkaya/fixlog/internal/client"
	"github.com/ozgurkzlkaya/fixlog/internal/ui"
	"github.com/spf13/cobra"
)

var (
	serverURL  string
	authToken  string
	jsonOutput bool
	actor      string
	assumeYes  bool

	api client.FixlogClient
)

func defaultActor() string {
	out, err := exec.Command("git", "config", "user.name").Output()
	if err == nil {
		name := strings.TrimSpace(string(out))
		if name != "" {
			return name
		}
	}
	return "unknown"
}

func defaultServer() string {
	if s := os.Getenv("FIXLOG_SERVER"); s != "" {
		return s
	}
	if s := activeRemoteURL(); s != "" {
		return s
	}
	return "http://localhost:8080"
}

func defaultToken() string {
	if t := os.Getenv("FIXLOG_TOKEN"); t != "" {
		return t
	}
	return activeRemoteToken()
}

var rootCmd = &cobra.Command{
	Use:   "fixlog",
	Short: "CLI client for the Fixlog repair-tracking service",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}
		api = client.NewHTTPClient(serverURL, authToken)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if api != nil {
			api.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServer(), "server base URL")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", defaultToken(), "bearer token for authentication")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().StringVar(&actor, "actor", defaultActor(), "actor name recorded on changes")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "skip confirmation prompts")

	rootCmd.AddCommand(productCmd)
	rootCmd.AddCommand(issueCmd)
	rootCmd.AddCommand(shipmentCmd)
	rootCmd.AddCommand(companyCmd)
	rootCmd.AddCommand(notifyCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(remoteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
