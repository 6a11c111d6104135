package llm_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/botstudio/botstudio/internal/llm"
)

func TestSystemPrompt(t *testing.T) {
	prompt := llm.SystemPrompt("Support Bot", "Ana", []string{
		"I answer questions about store hours.",
		"I am polite and concise.",
	})

	assert.True(t, strings.HasPrefix(prompt, "You are Support Bot, an AI assistant"))
	assert.Contains(t, prompt, "- I answer questions about store hours.\n- I am polite and concise.")
	assert.Contains(t, prompt, "Address the user as Ana.")
	assert.Contains(t, prompt, "ONLY answer questions that are related to your characteristics")
}

func TestSystemPromptNoCharacteristics(t *testing.T) {
	prompt := llm.SystemPrompt("Bot", "Guest", nil)

	assert.Contains(t, prompt, "You are Bot")
	assert.NotContains(t, prompt, "- ")
}
