package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/leadcommander/internal/client"
	"github.com/alfredjeanlab/leadcommander/internal/ui"
)

var (
	httpURL    string
	serverAddr string
	transport  string
	authToken  string
	jsonOutput bool

	leadClient client.LeadClient
)

func defaultHTTPURL() string {
	if s := os.Getenv("LEADS_HTTP_URL"); s != "" {
		return s
	}
	if u := activeRemoteURL(); u != "" {
		return u
	}
	return "http://localhost:8080"
}

func defaultServer() string {
	if s := os.Getenv("LEADS_SERVER"); s != "" {
		return s
	}
	if s := activeRemoteServer(); s != "" {
		return s
	}
	return "localhost:9090"
}

func defaultToken() string {
	if s := os.Getenv("LEADS_TOKEN"); s != "" {
		return s
	}
	return activeRemoteToken()
}

// noClient replaces the root pre-run for commands that never dial a server.
func noClient(*cobra.Command, []string) error {
	ui.Init()
	return nil
}

var rootCmd = &cobra.Command{
	Use:           "lc <command>",
	Short:         "Lead Commander: filter leads and map their relationships",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		ui.Init()
		switch transport {
		case "http":
			leadClient = client.NewHTTPClient(httpURL, authToken)
		case "grpc":
			c, err := client.NewGRPCClient(serverAddr, authToken)
			if err != nil {
				return fmt.Errorf("failed to connect to server: %w", err)
			}
			leadClient = c
		default:
			return fmt.Errorf("unknown transport %q (must be http or grpc)", transport)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if leadClient != nil {
			leadClient.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&httpURL, "http-url", defaultHTTPURL(), "HTTP server URL")
	rootCmd.PersistentFlags().StringVar(&serverAddr, "server", defaultServer(), "gRPC server address")
	rootCmd.PersistentFlags().StringVar(&transport, "transport", "http", "transport protocol (http or grpc)")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", defaultToken(), "bearer token")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddGroup(
		&cobra.Group{ID: "leads", Title: "Leads:"},
		&cobra.Group{ID: "pipeline", Title: "Pipeline:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false
	rootCmd.SetHelpFunc(colorizedHelpFunc())

	rootCmd.AddCommand(leadsCmd)
	rootCmd.AddCommand(actionsCmd)
	rootCmd.AddCommand(graphCmd)

	rootCmd.AddCommand(optimizeCmd)
	rootCmd.AddCommand(automateCmd)
	rootCmd.AddCommand(coachCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(remoteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
