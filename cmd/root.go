package cmd

import (
	"github.com/abhisek/parla/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "parla",
	Short: "Voice-driven language tutor",
	Long: "Parla: speak in the language you are learning and get a natural reply,\n" +
		"a translation, alternative phrasings, corrections and the occasional\n" +
		"cultural tip, with progress tracked across sessions.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides PARLA_DB env var)")
	rootCmd.PersistentFlags().String("progress", "", "Path to the JSON progress file (overrides PARLA_PROGRESS_FILE env var)")

	rootCmd.AddCommand(turnCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then PARLA_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
