package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var remoteCmd = &cobra.Command{
	Use:               "remote",
	Short:             "Manage named lead server remotes",
	GroupID:           "system",
	PersistentPreRunE: noClient,
}

// updateRemotes loads remotes.toml, applies fn and saves the result.
func updateRemotes(fn func(*RemotesConfig) error) error {
	cfg, err := loadRemotesConfig()
	if err != nil {
		return err
	}
	if err := fn(&cfg); err != nil {
		return err
	}
	return saveRemotesConfig(cfg)
}

func requireRemote(cfg *RemotesConfig, name string) (Remote, error) {
	r, ok := cfg.Remotes[name]
	if !ok {
		return Remote{}, fmt.Errorf("remote %q not found", name)
	}
	return r, nil
}

// sortedRemoteNames returns the configured remote names in lexical order.
func sortedRemoteNames(cfg RemotesConfig) []string {
	names := make([]string, 0, len(cfg.Remotes))
	for name := range cfg.Remotes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var remoteAddCmd = &cobra.Command{
	Use:   "add <name> <http-url>",
	Short: "Add or update a named remote",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		r := Remote{URL: strings.TrimRight(args[1], "/")}
		r.Server, _ = cmd.Flags().GetString("grpc")
		r.Token, _ = cmd.Flags().GetString("token")
		r.NATSURL, _ = cmd.Flags().GetString("nats")

		err := updateRemotes(func(cfg *RemotesConfig) error {
			cfg.Remotes[name] = r
			return nil
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "remote %q added (%s)\n", name, r.URL)
		return nil
	},
}

var remoteRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a named remote",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		err := updateRemotes(func(cfg *RemotesConfig) error {
			if _, err := requireRemote(cfg, name); err != nil {
				return err
			}
			delete(cfg.Remotes, name)
			if cfg.Active == name {
				cfg.Active = ""
			}
			return nil
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "remote %q removed\n", name)
		return nil
	},
}

var remoteUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Set the active remote",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		err := updateRemotes(func(cfg *RemotesConfig) error {
			if _, err := requireRemote(cfg, name); err != nil {
				return err
			}
			cfg.Active = name
			return nil
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "active remote set to %q\n", name)
		return nil
	},
}

var remoteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all remotes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadRemotesConfig()
		if err != nil {
			return err
		}
		if len(cfg.Remotes) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no remotes configured")
			return nil
		}
		return writeRemoteList(cmd.OutOrStdout(), cfg)
	},
}

// writeRemoteList prints one row per remote, active first marked with "*".
// Tokens are cut to their first 8 characters.
func writeRemoteList(out io.Writer, cfg RemotesConfig) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  NAME\tHTTP\tGRPC\tNATS\tTOKEN")
	for _, name := range sortedRemoteNames(cfg) {
		r := cfg.Remotes[name]
		marker := "  "
		if name == cfg.Active {
			marker = "* "
		}
		fmt.Fprintf(w, "%s%s\t%s\t%s\t%s\t%s\n", marker, name,
			r.URL, orDash(r.Server), orDash(r.NATSURL),
			maskToken(r.Token, 8, func(int) string { return "..." }))
	}
	return w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

var remoteShowCmd = &cobra.Command{
	Use:   "show [<name>]",
	Short: "Show details for a remote (defaults to active)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadRemotesConfig()
		if err != nil {
			return err
		}
		name := cfg.Active
		if len(args) == 1 {
			name = args[0]
		}
		if name == "" {
			return fmt.Errorf("no active remote; specify a name or run 'lc remote use <name>'")
		}
		r, err := requireRemote(&cfg, name)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		suffix := ""
		if name == cfg.Active {
			suffix = " (active)"
		}
		fmt.Fprintf(w, "name:\t%s%s\n", name, suffix)
		fmt.Fprintf(w, "http:\t%s\n", r.URL)
		fmt.Fprintf(w, "grpc:\t%s\n", orDash(r.Server))
		fmt.Fprintf(w, "nats:\t%s\n", orDash(r.NATSURL))
		if r.Token != "" {
			fmt.Fprintf(w, "token:\t%s\n", maskToken(r.Token, 8, func(rest int) string {
				return strings.Repeat("*", rest)
			}))
		}
		return w.Flush()
	},
}

func init() {
	remoteAddCmd.Flags().String("grpc", "", "gRPC address of the lead server (for --transport grpc)")
	remoteAddCmd.Flags().String("token", "", "bearer token sent to the lead server")
	remoteAddCmd.Flags().String("nats", "", "NATS URL used by 'lc watch'")

	remoteCmd.AddCommand(remoteAddCmd, remoteRemoveCmd, remoteListCmd, remoteUseCmd, remoteShowCmd)
}
