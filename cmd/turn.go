package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/parla/internal/tutor"
	"github.com/abhisek/parla/internal/ui/theme"
	"github.com/spf13/cobra"
)

var turnCmd = &cobra.Command{
	Use:   "turn <audio>",
	Short: "Run a single tutoring turn on a recording and print the reply",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := applySettingFlags(cmd, &cfg.Settings); err != nil {
			return err
		}
		stream, _ := cmd.Flags().GetBool("stream")
		asJSON, _ := cmd.Flags().GetBool("json")

		d, err := buildDeps(cmd, cfg, nil)
		if err != nil {
			return err
		}
		defer d.Close()

		out := cmd.OutOrStdout()
		sess := tutor.NewSession(cfg.Settings)

		var onPartial func(tutor.TurnResult)
		if stream && !asJSON {
			printed := 0
			onPartial = func(r tutor.TurnResult) {
				reply := lastReply(r.Chat)
				if len(reply) > printed {
					fmt.Fprint(out, reply[printed:])
					printed = len(reply)
				}
			}
		}

		res, err := d.tutor.Turn(cmd.Context(), sess, tutor.TurnInput{AudioPath: args[0], Stream: stream}, onPartial)
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		if stream {
			fmt.Fprintln(out)
			fmt.Fprintln(out)
		}
		printTurn(out, res, !stream)
		return nil
	},
}

func init() {
	turnCmd.Flags().Bool("stream", false, "Print the reply as it is generated")
	turnCmd.Flags().Bool("json", false, "Print the full turn result as JSON")
	addSettingFlags(turnCmd)
}

// addSettingFlags registers flags that override session settings.
func addSettingFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("language", "l", "", "Target language (e.g. Spanish, French, Japanese)")
	cmd.Flags().String("base", "", "Language used for explanations")
	cmd.Flags().StringP("mode", "m", "", "Conversation or Scenario")
	cmd.Flags().StringP("scenario", "s", "", "Role-play scenario (Restaurant, Hotel, Directions, Shopping, Emergency)")
}

func applySettingFlags(cmd *cobra.Command, st *tutor.Settings) error {
	if v, _ := cmd.Flags().GetString("language"); v != "" {
		st.TargetLanguage = v
	}
	if v, _ := cmd.Flags().GetString("base"); v != "" {
		st.BaseLanguage = v
	}
	if v, _ := cmd.Flags().GetString("mode"); v != "" {
		mode, err := tutor.ParseMode(v)
		if err != nil {
			return err
		}
		st.Mode = mode
	}
	if v, _ := cmd.Flags().GetString("scenario"); v != "" {
		st.Scenario = v
	}
	return st.Validate()
}

func lastReply(chat []tutor.ChatPair) string {
	if len(chat) == 0 {
		return ""
	}
	return chat[len(chat)-1].Assistant
}

var (
	headingStyle = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(theme.TextDim)
)

// printTurn writes a turn the way the TUI lays it out. withReply controls
// whether the assistant reply is printed (it was already streamed
// otherwise).
func printTurn(w io.Writer, res tutor.TurnResult, withReply bool) {
	section := func(title, body string) {
		if strings.TrimSpace(body) == "" {
			return
		}
		fmt.Fprintln(w, headingStyle.Render(title))
		fmt.Fprintln(w, body)
		fmt.Fprintln(w)
	}

	section("You said", res.UserText)
	if res.UserText == tutor.NoAudioText {
		return
	}
	if withReply {
		section("Tutor", lastReply(res.Chat))
	}
	section("Translation", res.Translation)
	section("Alternatives & corrections", res.Extras)
	section("Cultural tip", res.Sections.Tip)
	if res.AudioPath != "" {
		section("Reply audio", res.AudioPath)
	}
	fmt.Fprintln(w, dimStyle.Render(res.Stats))
}
