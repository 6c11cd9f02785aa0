// Package cli implements the trackerctl command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	version = "dev"
	commit  = "none"
)

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "trackerctl",
		Short:         "Restoration Tracker CLI",
		Long:          "Command-line interface for the restoration tracker access-control API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadUserConfig()
			if err != nil {
				// Config file is optional.
				cfg = &UserConfig{
					CurrentProfile: "default",
					Profiles:       map[string]Profile{},
				}
			}
			opts.resolve(cmd.Flags(), cfg.ActiveProfile(opts.profile))
			return nil
		},
	}

	opts.register(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newUsersCmd(opts))

	return rootCmd
}

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	host    string
	token   string
	profile string
}

func (o *globalOptions) register(flags *pflag.FlagSet) {
	flags.StringVar(&o.host, "host", "http://localhost:8080", "API host URL")
	flags.StringVar(&o.token, "token", "", "JWT token for authentication")
	flags.StringVarP(&o.profile, "profile", "p", "", "Config profile to use")
}

// resolve applies the flag > env > profile > default precedence.
func (o *globalOptions) resolve(flags *pflag.FlagSet, p Profile) {
	if !flags.Changed("host") {
		if v := os.Getenv("TRACKER_HOST"); v != "" {
			o.host = v
		} else if p.Host != "" {
			o.host = p.Host
		}
	}
	if !flags.Changed("token") {
		if v := os.Getenv("TRACKER_TOKEN"); v != "" {
			o.token = v
		} else if p.Token != "" {
			o.token = p.Token
		}
	}
}
