package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/parla/internal/progress"
	"github.com/abhisek/parla/internal/tutor"
	"github.com/abhisek/parla/internal/ui/components"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		top, _ := cmd.Flags().GetInt("top")
		chart, _ := cmd.Flags().GetBool("chart")

		prog, closeFn, err := openProgressOnly(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		out := cmd.OutOrStdout()
		words := prog.TopVocabulary(top)
		fmt.Fprintln(out, tutor.FormatStats(prog.Data(), words))

		if chart && len(words) > 0 {
			fmt.Fprintln(out)
			fmt.Fprintln(out, renderChart(words))
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().IntP("top", "n", tutor.StatsTopN, "Number of top words to show")
	statsCmd.Flags().Bool("chart", false, "Draw a bar chart of the top words")
}

// openProgressOnly opens the progress store without building a tutor, so
// it works without provider or speech credentials.
func openProgressOnly(cmd *cobra.Command) (*progress.Store, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	logger := cfg.NewLogger()

	st, err := openStore(cmd)
	if err != nil {
		return nil, nil, err
	}
	prog, err := openProgress(cmd.Context(), cfg, st, logger)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	return prog, func() { st.Close() }, nil
}

func renderChart(words []progress.WordCount) string {
	labelWidth := 0
	for _, w := range words {
		labelWidth = max(labelWidth, len([]rune(w.Word)))
	}
	lines := make([]string, len(words))
	for i, w := range words {
		lines[i] = components.NewCountBar(w.Word, w.Count, words[0].Count, labelWidth, 60).View()
	}
	return strings.Join(lines, "\n")
}
