package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/anirud/tatami/internal/trainlog"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Record a training session",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		title, _ := cmd.Flags().GetString("title")
		date, _ := cmd.Flags().GetString("date")
		duration, _ := cmd.Flags().GetString("duration")
		quality, _ := cmd.Flags().GetString("quality")
		notes, _ := cmd.Flags().GetString("notes")
		tags, _ := cmd.Flags().GetStringSlice("tags")

		if date == "" {
			date = time.Now().Format("2006-01-02")
		}

		id, err := trainlog.Save(cmd.Context(), st.Records(), userID(cmd), trainlog.SessionRecord{
			Title:         title,
			Date:          date,
			DurationHours: duration,
			Notes:         notes,
			Tags:          tags,
			QualityLevel:  quality,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Logged session %s\n", id)
		return nil
	},
}

func init() {
	logCmd.Flags().String("title", "", "Session title")
	logCmd.Flags().String("date", "", "Session date (default: today)")
	logCmd.Flags().String("duration", "1", "Duration in hours")
	logCmd.Flags().String("quality", "5", "Self-rated quality, 0-10")
	logCmd.Flags().String("notes", "", "Free-text notes")
	logCmd.Flags().StringSlice("tags", nil, "Comma-separated tags")
}
