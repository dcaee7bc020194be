package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anirud/tatami/internal/trainlog"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show training statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		uid := userID(cmd)
		raw, ok, err := st.Records().Get(cmd.Context(), fmt.Sprintf("users/%s/sessions", uid))
		if err != nil {
			return err
		}
		var sessions []trainlog.SessionRecord
		if ok {
			sessions = trainlog.Normalize(raw)
		}

		stats := trainlog.Aggregate(sessions, 0)

		fmt.Printf("Sessions: %d\n", stats.TotalSessions)
		fmt.Printf("Hours:    %.1f\n", stats.TotalHours)
		fmt.Printf("Quality:  %.1f/10\n", stats.AverageQuality)

		topN, _ := cmd.Flags().GetInt("top")
		ranking := trainlog.TagFrequency(sessions, topN)
		if len(ranking) > 0 {
			fmt.Println("\nMost trained:")
			for _, tc := range ranking {
				fmt.Printf("  %-20s %d\n", tc.Tag, tc.Count)
			}
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			out, err := json.MarshalIndent(stats, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Int("top", 5, "How many tags to rank (0 = all)")
	statsCmd.Flags().Bool("json", false, "Also print the full stats as JSON")
}
