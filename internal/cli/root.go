package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/itigeeks/itigeeks-backend/internal/platform/logger"
)

// NewRootCmd builds the itigeeks command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "itigeeks",
		Short: "ITIGeeks problem tracker backend",
		Long: `itigeeks serves the problem tracker API and offers local tools for
checking how an uploaded practice file would be imported.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.AddCommand(
		newServeCmd(),
		newPreviewCmd(),
		newMatchCmd(),
		newTokenCmd(),
	)
	return root
}

// cliLogger logs to stderr at production level unless LOG_MODE says
// otherwise, so command output on stdout stays machine readable.
func cliLogger() *logger.Logger {
	mode := os.Getenv("LOG_MODE")
	if mode == "" {
		mode = "production"
	}
	log, err := logger.New(mode)
	if err != nil {
		return logger.NewNop()
	}
	return log
}
