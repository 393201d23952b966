package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalize(t *testing.T) {
	assert.Equal(t, "Kuota API Gemini habis", localize("id", "Gemini API quota exceeded"))
	assert.Equal(t, "Gemini API quota exceeded", localize("en", "Gemini API quota exceeded"))
	assert.Equal(t, "Gemini API error: boom", localize("id", "Gemini API error: boom"))
	assert.Equal(t, "Owner id is required", localize("", "Owner id is required"))
}

func TestLocalizeCoversEveryMessage(t *testing.T) {
	for en, id := range messagesID {
		assert.NotEmpty(t, id, en)
		assert.NotEqual(t, en, id)
	}
}
