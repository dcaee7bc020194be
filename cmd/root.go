package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anirud/tatami/internal/llm"
	"github.com/anirud/tatami/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "tatami",
	Short: "AI training-log companion",
	Long:  "Tatami — training log with AI-generated challenges and insights for martial-arts practitioners.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides TATAMI_DB env var)")
	rootCmd.PersistentFlags().String("user", "local", "User id the command operates on")

	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(challengesCmd)
	rootCmd.AddCommand(insightCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then TATAMI_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	path, err := resolveDBPath(cmd)
	if err != nil {
		return nil, err
	}
	return store.Open(path)
}

func userID(cmd *cobra.Command) string {
	uid, _ := cmd.Flags().GetString("user")
	if uid == "" {
		uid = "local"
	}
	return uid
}

// newProvider builds the configured LLM provider: TATAMI_* env vars first,
// then discovery of standard API key vars.
func newProvider(cmd *cobra.Command, st *store.Store) (llm.Provider, error) {
	cfg := llm.ConfigFromEnv()
	if cfg.Validate() != nil {
		discovered, ok := llm.DiscoverConfig()
		if !ok {
			return nil, fmt.Errorf("no LLM API key found; set TATAMI_OPENAI_API_KEY (or OPENAI_API_KEY, ANTHROPIC_API_KEY, GEMINI_API_KEY)")
		}
		cfg = discovered
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return llm.NewProvider(cmd.Context(), cfg, st.Events())
}
