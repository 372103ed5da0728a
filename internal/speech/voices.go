package speech

import openai "github.com/sashabaranov/go-openai"

// Voice describes how a language is spoken back to the learner.
type Voice struct {
	Locale string
	Name   openai.SpeechVoice
}

const fallbackLanguage = "English"

var voiceMap = map[string]Voice{
	"Spanish":          {Locale: "es-ES", Name: openai.VoiceNova},
	"French":           {Locale: "fr-FR", Name: openai.VoiceShimmer},
	"Japanese":         {Locale: "ja-JP", Name: openai.VoiceAlloy},
	"Mandarin Chinese": {Locale: "zh-CN", Name: openai.VoiceAlloy},
	"German":           {Locale: "de-DE", Name: openai.VoiceOnyx},
	"Italian":          {Locale: "it-IT", Name: openai.VoiceFable},
	"English":          {Locale: "en-US", Name: openai.VoiceEcho},
}

// VoiceFor returns the voice for language, falling back to English.
func VoiceFor(language string) Voice {
	if v, ok := voiceMap[language]; ok {
		return v
	}
	return voiceMap[fallbackLanguage]
}
