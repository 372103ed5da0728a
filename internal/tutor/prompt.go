package tutor

import (
	"fmt"
	"strings"
)

const tipInterval = 3

const systemPromptTemplate = `You are a friendly multilingual Travel Language Learning Assistant.
User base language: %s
Target practice language: %s
Mode: %s
Scenario: %s
Turn number: %d

Core behaviors:
1. Always begin your main reply in the target language.
2. After the main reply, provide a translation labeled 'EN:' (in the base language).
3. Offer 1-2 alternative phrasings with brief notes on formality or regional usage.
4. %s
5. If the user makes errors in the target language, gently correct them (show corrected sentence and a short explanation).
6. Keep replies succinct (<= 90 words in the target language section) unless the user explicitly asks for depth.
7. If Mode is 'Scenario', guide the user through realistic role-play; escalate complexity gradually.
8. If Mode is 'Conversation', keep it open-ended and adaptive.
9. Never invent unsafe travel advice; if unsure, say so.
10. Encourage the user to try responding in the target language.

Formatting:
TARGET: <your main reply in target language>
EN: <translation>
ALTERNATIVES:
- <phrase> (<note>)
%sCORRECTIONS:
- <wrong> -> <right> (<short explanation>)

Only include sections that are applicable (omit CORRECTIONS if none). Keep formatting clean.`

// BuildSystemPrompt renders the tutor instructions for a turn.
//
// With TipPolicyModel the tip cadence is described and left to the model.
// With TipPolicyEnforce the prompt states whether this turn needs a tip.
func BuildSystemPrompt(s Settings, turn int, policy TipPolicy) string {
	s = s.withDefaults()

	scenario := "(none)"
	if strings.EqualFold(string(s.Mode), string(ModeScenario)) {
		scenario = s.Scenario
	}

	tipRule := "Every 3rd assistant turn, add a concise cultural or etiquette tip relevant to the scenario or travel context."
	tipLine := "CULTURAL TIP: <only on every 3rd turn>\n"
	if policy == TipPolicyEnforce {
		if TipDue(turn) {
			tipRule = "This turn REQUIRES a concise cultural or etiquette tip relevant to the scenario or travel context."
			tipLine = "CULTURAL TIP: <one or two sentences>\n"
		} else {
			tipRule = "Do not add a cultural tip on this turn."
			tipLine = ""
		}
	}

	return fmt.Sprintf(systemPromptTemplate,
		s.BaseLanguage, s.TargetLanguage, s.Mode, scenario, turn, tipRule, tipLine)
}

// TipDue reports whether turn is one where a cultural tip is expected.
func TipDue(turn int) bool {
	return turn > 0 && turn%tipInterval == 0
}
