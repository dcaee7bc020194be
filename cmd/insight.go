package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anirud/tatami/internal/challenge"
)

var insightCmd = &cobra.Command{
	Use:   "insight",
	Short: "Get a short AI observation about your recent training",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		provider, err := newProvider(cmd, st)
		if err != nil {
			return err
		}

		svc := challenge.NewService(provider, st.Records(), challenge.DefaultConfig())
		insight, err := svc.TrainingInsight(cmd.Context(), userID(cmd))
		if err != nil {
			return err
		}

		fmt.Println(insight)
		return nil
	},
}
