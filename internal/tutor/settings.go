package tutor

import (
	"fmt"
	"slices"
	"strings"
)

// Mode selects open conversation or a guided role-play.
type Mode string

const (
	ModeConversation Mode = "Conversation"
	ModeScenario     Mode = "Scenario"
)

// Languages are the supported target languages.
var Languages = []string{"Spanish", "French", "Japanese", "Mandarin Chinese", "German", "Italian"}

// Modes lists the available modes in display order.
var Modes = []Mode{ModeConversation, ModeScenario}

// Scenarios are the role-play situations available in scenario mode.
var Scenarios = []string{"Restaurant", "Hotel", "Directions", "Shopping", "Emergency"}

const (
	DefaultTargetLanguage = "Spanish"
	DefaultBaseLanguage   = "English"
	DefaultScenario       = "Restaurant"
)

// Settings configure a session.
type Settings struct {
	TargetLanguage string `json:"target_language"`
	BaseLanguage   string `json:"base_language"`
	Mode           Mode   `json:"mode"`
	Scenario       string `json:"scenario"`

	// Stream delivers the reply incrementally.
	Stream bool `json:"stream"`
}

// DefaultSettings returns Spanish open conversation for an English speaker.
func DefaultSettings() Settings {
	return Settings{
		TargetLanguage: DefaultTargetLanguage,
		BaseLanguage:   DefaultBaseLanguage,
		Mode:           ModeConversation,
		Scenario:       DefaultScenario,
	}
}

func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.TargetLanguage == "" {
		s.TargetLanguage = d.TargetLanguage
	}
	if s.BaseLanguage == "" {
		s.BaseLanguage = d.BaseLanguage
	}
	if s.Mode == "" {
		s.Mode = d.Mode
	}
	if s.Scenario == "" {
		s.Scenario = d.Scenario
	}
	return s
}

// Validate checks the settings against the supported values. Empty fields
// are allowed and take defaults.
func (s Settings) Validate() error {
	s = s.withDefaults()
	if !slices.Contains(Languages, s.TargetLanguage) {
		return fmt.Errorf("unsupported target language %q (supported: %s)",
			s.TargetLanguage, strings.Join(Languages, ", "))
	}
	mode, err := ParseMode(string(s.Mode))
	if err != nil {
		return err
	}
	if mode == ModeScenario && !slices.Contains(Scenarios, s.Scenario) {
		return fmt.Errorf("unknown scenario %q (available: %s)",
			s.Scenario, strings.Join(Scenarios, ", "))
	}
	return nil
}

// ParseMode accepts a mode name in any case.
func ParseMode(name string) (Mode, error) {
	for _, m := range Modes {
		if strings.EqualFold(name, string(m)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mode %q", name)
}

// TipPolicy controls how the every-third-turn cultural tip is requested.
type TipPolicy string

const (
	// TipPolicyModel sends the turn-1 system prompt unchanged and leaves
	// tip timing to the model.
	TipPolicyModel TipPolicy = "model"

	// TipPolicyEnforce rebuilds the system prompt on every request with the
	// current turn number and asks for a tip on every third turn.
	TipPolicyEnforce TipPolicy = "enforce"
)

// ParseTipPolicy validates a policy name.
func ParseTipPolicy(name string) (TipPolicy, error) {
	switch TipPolicy(strings.ToLower(name)) {
	case "", TipPolicyModel:
		return TipPolicyModel, nil
	case TipPolicyEnforce:
		return TipPolicyEnforce, nil
	}
	return "", fmt.Errorf("unknown tip policy %q (want %q or %q)", name, TipPolicyModel, TipPolicyEnforce)
}
