// Package cli implements the skinscan command line tool.
package cli

import (
	"io"

	"github.com/spf13/cobra"

	"go-skin-inspector/internal/logger"
)

// Version is the application version.
const Version = "1.0.0"

// NewRootCommand builds the skinscan command tree writing results to stdout
// and logs and progress to stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           "skinscan",
		Short:         "Offline skin condition analysis for face images",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.UseText(stderr)
			logger.SetLevel(logLevel)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	root.AddCommand(newAnalyzeCommand(stdout, stderr), newVersionCommand(stdout))
	return root
}

func newVersionCommand(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the skinscan version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			io.WriteString(stdout, "skinscan "+Version+"\n")
		},
	}
}
