package telegram

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/lingua-bot/internal/domain/entities"
)

var unsafeFileChars = regexp.MustCompile(`[^\p{L}\p{N}_-]+`)

// audioFileName maps a text to its pronunciation file name,
// e.g. "Je t'aime" -> "je_t_aime.mp3".
func audioFileName(text string) string {
	name := unsafeFileChars.ReplaceAllString(strings.ToLower(text), "_")
	return strings.Trim(name, "_") + ".mp3"
}

// buildPromptAudio returns the pronunciation of the prompt side of the item if
// a file exists for it. The answer side is never pronounced or captioned.
func (h *Handler) buildPromptAudio(
	chatID int64,
	item entities.VocabularyItem,
	direction entities.Direction,
) (*tgbotapi.AudioConfig, bool) {
	if h.audioDir == "" {
		return nil, false
	}

	prompt := item.Prompt(direction)
	name := audioFileName(prompt)
	if name == ".mp3" {
		return nil, false
	}

	path := filepath.Join(h.audioDir, name)
	if _, err := os.Stat(path); err != nil {
		return nil, false
	}

	a := tgbotapi.NewAudio(chatID, tgbotapi.FilePath(path))
	a.Caption = prompt

	return &a, true
}
