package main

import (
	"fmt"
	"sort"

	"github.com/ozgurkzlkaya/fixlog/internal/ui"
	"github.com/spf13/cobra"
)

var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Manage named server remotes",
}

var remoteAddCmd = &cobra.Command{
	Use:   "add <name> <url>",
	Short: "Add a remote and make it active",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, url := args[0], args[1]
		token, _ := cmd.Flags().GetString("token")
		natsURL, _ := cmd.Flags().GetString("nats-url")

		cfg, err := loadRemotes()
		if err != nil {
			return err
		}
		cfg.Remotes[name] = Remote{URL: url, Token: token, NATSURL: natsURL}
		if cfg.Active == "" {
			cfg.Active = name
		}
		if err := saveRemotes(cfg); err != nil {
			return err
		}
		fmt.Printf("added remote %s (%s)\n", ui.RenderAccent(name), url)
		return nil
	},
}

var remoteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured remotes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadRemotes()
		if err != nil {
			return err
		}
		if len(cfg.Remotes) == 0 {
			fmt.Println(ui.RenderMuted("no remotes configured"))
			return nil
		}
		names := make([]string, 0, len(cfg.Remotes))
		for name := range cfg.Remotes {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			marker := "  "
			if name == cfg.Active {
				marker = "* "
			}
			fmt.Printf("%s%s\t%s\n", marker, name, cfg.Remotes[name].URL)
		}
		return nil
	},
}

var remoteUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Switch the active remote",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadRemotes()
		if err != nil {
			return err
		}
		if _, ok := cfg.Remotes[args[0]]; !ok {
			return fmt.Errorf("unknown remote %q", args[0])
		}
		cfg.Active = args[0]
		if err := saveRemotes(cfg); err != nil {
			return err
		}
		fmt.Printf("active remote is now %s\n", ui.RenderAccent(args[0]))
		return nil
	},
}

var remoteRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a remote",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadRemotes()
		if err != nil {
			return err
		}
		if _, ok := cfg.Remotes[args[0]]; !ok {
			return fmt.Errorf("unknown remote %q", args[0])
		}
		delete(cfg.Remotes, args[0])
		if cfg.Active == args[0] {
			cfg.Active = ""
		}
		return saveRemotes(cfg)
	},
}

func init() {
	remoteAddCmd.Flags().String("token", "", "bearer token for this remote")
	remoteAddCmd.Flags().String("nats-url", "", "NATS URL for watch mode")
	remoteCmd.AddCommand(remoteAddCmd, remoteListCmd, remoteUseCmd, remoteRemoveCmd)
}
