package cmd

import (
	"github.com/abhisek/quizvox/internal/bootstrap"
	"github.com/abhisek/quizvox/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "quizvox",
	Short: "Spoken flashcard drills in the terminal",
	Long: "Quizvox reads flashcards aloud, listens to your spoken answer and lets an LLM grade it.\n" +
		"Partially correct answers get a reworded question, wrong ones a tip, and every drill ends\n" +
		"with a summary of good, medium and bad topics.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides QUIZVOX_DB env var)")

	rootCmd.AddCommand(drillCmd)
	rootCmd.AddCommand(deckCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the --db flag value, or "" to fall back to
// QUIZVOX_DB and then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return "", nil
}

// openServices loads configuration and opens the database.
func openServices(cmd *cobra.Command) (*bootstrap.Services, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, err
	}
	return bootstrap.Build(dbPath)
}
