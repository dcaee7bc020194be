package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anirud/tatami/internal/challenge"
)

var challengesCmd = &cobra.Command{
	Use:   "challenges",
	Short: "Generate and track training challenges",
}

var challengesGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate personalized challenges",
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

		count, _ := cmd.Flags().GetInt("count")
		svc := challenge.NewService(provider, st.Records(), challenge.DefaultConfig())

		challenges, err := svc.GenerateChallenges(cmd.Context(), userID(cmd), count)
		if err != nil {
			return err
		}

		accept, _ := cmd.Flags().GetBool("accept")
		chStore := challenge.NewStore(st.Records())
		for _, ch := range challenges {
			printChallenge(ch, "")
			if accept {
				if _, err := chStore.Accept(cmd.Context(), userID(cmd), ch); err != nil {
					return err
				}
			}
		}
		if accept {
			fmt.Println("Accepted. Track them with: tatami challenges list")
		} else {
			fmt.Println("Re-run with --accept to start tracking these.")
		}
		return nil
	},
}

var challengesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accepted and completed challenges",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		chStore := challenge.NewStore(st.Records())
		uid := userID(cmd)

		open, err := chStore.Accepted(cmd.Context(), uid)
		if err != nil {
			return err
		}
		done, err := chStore.Completed(cmd.Context(), uid)
		if err != nil {
			return err
		}

		if len(open) == 0 && len(done) == 0 {
			fmt.Println("No challenges yet. Try: tatami challenges generate")
			return nil
		}

		if len(open) > 0 {
			fmt.Println("In progress:")
			for _, c := range open {
				printChallenge(c.Challenge, string(c.Status))
			}
		}
		if len(done) > 0 {
			fmt.Println("Completed:")
			for _, c := range done {
				printChallenge(c.Challenge, string(c.Status))
			}
		}
		return nil
	},
}

func newLifecycleCmd(use, short string, run func(*cobra.Command, *challenge.Store, string, string) error) *cobra.Command {
	c := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			id, _ := cmd.Flags().GetString("id")
			if id == "" {
				return fmt.Errorf("--id is required")
			}
			return run(cmd, challenge.NewStore(st.Records()), userID(cmd), id)
		},
	}
	c.Flags().String("id", "", "Challenge id")
	return c
}

func printChallenge(ch challenge.Challenge, status string) {
	header := fmt.Sprintf("[%s] %s", ch.Difficulty, ch.Title)
	if status != "" {
		header += fmt.Sprintf(" (%s)", status)
	}
	fmt.Println(header)
	fmt.Printf("    id: %s  duration: %s\n", ch.ID, ch.EstimatedDuration)
	if len(ch.FocusAreas) > 0 {
		fmt.Printf("    focus: %v\n", ch.FocusAreas)
	}
	fmt.Printf("    %s\n\n", ch.Description)
}

func init() {
	challengesGenerateCmd.Flags().Int("count", 3, "How many challenges to generate")
	challengesGenerateCmd.Flags().Bool("accept", false, "Accept every generated challenge immediately")

	startCmd := newLifecycleCmd("start", "Mark an accepted challenge in progress",
		func(cmd *cobra.Command, cs *challenge.Store, uid, id string) error {
			return cs.UpdateStatus(cmd.Context(), uid, id, challenge.StatusInProgress)
		})
	completeCmd := newLifecycleCmd("complete", "Mark a challenge completed",
		func(cmd *cobra.Command, cs *challenge.Store, uid, id string) error {
			return cs.UpdateStatus(cmd.Context(), uid, id, challenge.StatusCompleted)
		})

	challengesCmd.AddCommand(challengesGenerateCmd)
	challengesCmd.AddCommand(challengesListCmd)
	challengesCmd.AddCommand(startCmd)
	challengesCmd.AddCommand(completeCmd)
}
