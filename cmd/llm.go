package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anirud/tatami/internal/llm"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Show recent LLM request events",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		events, err := st.Events().RecentLLMRequests(cmd.Context(), limit)
		if err != nil {
			return err
		}

		if len(events) == 0 {
			fmt.Println("No LLM requests recorded yet.")
			return nil
		}

		var totalCost float64
		var unknownModels []string
		for _, e := range events {
			status := "ok"
			if !e.Success {
				status = "FAIL"
			}
			costCol := "?"
			if pricing := llm.LookupCost(e.Model); pricing != nil {
				c := pricing.Cost(e.InputTokens, e.OutputTokens)
				totalCost += c
				costCol = formatCost(c)
			} else if e.Model != "" {
				unknownModels = append(unknownModels, e.Model)
			}
			fmt.Printf("%s  %-13s %-8s %5dms  in=%d out=%d  %8s  %s\n",
				e.Timestamp.Format("2006-01-02 15:04:05"),
				e.Purpose, status, e.LatencyMs,
				e.InputTokens, e.OutputTokens, costCol, e.ErrorMessage)
		}

		label := "Estimated cost"
		if len(unknownModels) > 0 {
			label = "Estimated cost (partial)"
		}
		fmt.Printf("\n%s: %s\n", label, formatCost(totalCost))
		if len(unknownModels) > 0 {
			fmt.Printf("Pricing unavailable for: %s\n", strings.Join(dedupe(unknownModels), ", "))
		}
		return nil
	},
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func init() {
	llmCmd.Flags().Int("limit", 20, "How many events to show (0 = all)")
}
