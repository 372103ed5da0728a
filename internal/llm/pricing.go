package llm

import "strings"

// ModelCost holds per-million-token pricing for a model.
// Prices are in USD per 1 million tokens, sourced from models.dev.
type ModelCost struct {
	InputPerMTok  float64 // USD per 1M input tokens
	OutputPerMTok float64 // USD per 1M output tokens

	// Local marks models served by a local Ollama instance.
	Local bool
}

// Cost calculates the total USD cost for the given token counts.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)*c.InputPerMTok/1_000_000 +
		float64(outputTokens)*c.OutputPerMTok/1_000_000
}

// LookupCost returns the pricing for a model as recorded in the usage log,
// or nil if unknown. It accepts the friendly names from Config, Ollama tags
// ("llama3:latest") and OpenRouter vendor prefixes ("openai/gpt-4o-mini").
func LookupCost(modelID string) *ModelCost {
	for _, id := range costCandidates(modelID) {
		if c, ok := modelCosts[id]; ok {
			return &c
		}
	}
	return nil
}

func costCandidates(modelID string) []string {
	ids := []string{modelID}
	for _, names := range []map[string]string{anthropicModels, openaiModels, geminiModels} {
		if id, ok := names[modelID]; ok {
			ids = append(ids, id)
		}
	}
	if base, _, ok := strings.Cut(modelID, ":"); ok {
		ids = append(ids, base)
	}
	if _, rest, ok := strings.Cut(modelID, "/"); ok {
		ids = append(ids, rest)
		if base, _, ok := strings.Cut(rest, ":"); ok {
			ids = append(ids, base)
		}
	}
	return ids
}

var localModel = ModelCost{Local: true}

// modelCosts covers the models parla's providers are configured with.
// Last updated: 2026-02-15.
var modelCosts = map[string]ModelCost{
	// Anthropic
	"claude-3-5-haiku-20241022":  {InputPerMTok: 0.8, OutputPerMTok: 4},
	"claude-haiku-4-5":           {InputPerMTok: 1, OutputPerMTok: 5},
	"claude-haiku-4-5-20251001":  {InputPerMTok: 1, OutputPerMTok: 5},
	"claude-sonnet-4-20250514":   {InputPerMTok: 3, OutputPerMTok: 15},
	"claude-sonnet-4-5":          {InputPerMTok: 3, OutputPerMTok: 15},
	"claude-sonnet-4-5-20250929": {InputPerMTok: 3, OutputPerMTok: 15},

	// OpenAI
	"gpt-4.1-mini": {InputPerMTok: 0.4, OutputPerMTok: 1.6},
	"gpt-4.1-nano": {InputPerMTok: 0.1, OutputPerMTok: 0.4},
	"gpt-4o":       {InputPerMTok: 2.5, OutputPerMTok: 10},
	"gpt-4o-mini":  {InputPerMTok: 0.15, OutputPerMTok: 0.6},
	"gpt-5-mini":   {InputPerMTok: 0.25, OutputPerMTok: 2},
	"gpt-5-nano":   {InputPerMTok: 0.05, OutputPerMTok: 0.4},

	// Google (Gemini)
	"gemini-2.0-flash":      {InputPerMTok: 0.1, OutputPerMTok: 0.4},
	"gemini-2.0-flash-lite": {InputPerMTok: 0.075, OutputPerMTok: 0.3},
	"gemini-2.0-pro":        {InputPerMTok: 1.25, OutputPerMTok: 10},
	"gemini-2.5-flash":      {InputPerMTok: 0.3, OutputPerMTok: 2.5},
	"gemini-2.5-flash-lite": {InputPerMTok: 0.1, OutputPerMTok: 0.4},
	"gemini-2.5-pro":        {InputPerMTok: 1.25, OutputPerMTok: 10},

	// OpenRouter free tier
	"gemini-2.0-flash-exp": {},

	// Ollama
	"llama3":      localModel,
	"llama3.1":    localModel,
	"llama3.2":    localModel,
	"mistral":     localModel,
	"gemma2":      localModel,
	"gemma3":      localModel,
	"qwen2.5":     localModel,
	"phi3":        localModel,
	"aya":         localModel,
	"aya-expanse": localModel,
}
