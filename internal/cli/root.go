// Package cli implements the mentordoc command line client.
package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"mentordoc/client/internal/config"
)

// ErrReported is returned by commands whose failure has already been
// printed, so the caller only needs to set the exit code.
var ErrReported = errors.New("command failed")

// ConfigLoader produces the base configuration the command line flags
// are applied to.
type ConfigLoader func() (config.Config, error)

type globalFlags struct {
	apiURL    string
	stateFile string
	logLevel  string
	logFormat string
}

// NewRootCmd creates the root mentordoc command with all subcommands registered.
func NewRootCmd(load ConfigLoader) *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:           "mentordoc",
		Short:         "mentordoc - organize, draft and publish documents from the terminal",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&flags.apiURL, "api-url", "", "API base URL (overrides MENTORDOC_API_URL)")
	root.PersistentFlags().StringVar(&flags.stateFile, "state-file", "", "session state file (overrides MENTORDOC_STATE_FILE)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "log format: console or json")

	env := &environment{load: load, flags: flags}
	root.AddCommand(
		newSigninCmd(env),
		newSignupCmd(env),
		newLogoutCmd(env),
		newWhoamiCmd(env),
		newOrgsCmd(env),
		newUseOrgCmd(env),
		newFoldersCmd(env),
		newMkdirCmd(env),
		newRmdirCmd(env),
		newTreeCmd(env),
		newDocsCmd(env),
		newShowCmd(env),
		newCreateCmd(env),
		newEditCmd(env),
		newPublishCmd(env),
		newRetractCmd(env),
		newDraftCmd(env),
		newRmCmd(env),
		newSearchCmd(env),
		newPathCmd(env),
		newStatusCmd(env),
	)
	return root
}

func (f *globalFlags) apply(cfg config.Config) config.Config {
	if f.apiURL != "" {
		cfg.APIURL = f.apiURL
	}
	if f.stateFile != "" {
		cfg.StateFile = f.stateFile
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	if f.logFormat != "" {
		cfg.LogFormat = f.logFormat
	}
	return cfg
}
