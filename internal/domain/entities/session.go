package entities

import "strings"

// Direction selects which language is prompted and which is expected.
type Direction string

const (
	DirectionRuFr Direction = "ru-fr" // Russian prompt, French answer
	DirectionFrRu Direction = "fr-ru" // French prompt, Russian answer
)

// ContentType selects the catalog a session draws from.
type ContentType string

const (
	ContentWords   ContentType = "words"
	ContentPhrases ContentType = "phrases"
)

// AudioMode toggles pronunciation playback.
type AudioMode string

const (
	AudioOn  AudioMode = "on"
	AudioOff AudioMode = "off"
)

// GameMode selects how the learner answers.
type GameMode string

const (
	ModeTranslation    GameMode = "translation"     // free-text translation
	ModeMultipleChoice GameMode = "multiple-choice" // one correct option among four
	ModeMissingWord    GameMode = "missing-word"    // fill the blank in the prompt sentence
)

// SessionConfig is chosen once per session and never changes afterwards.
// Every field is required: a zero value is a configuration error.
type SessionConfig struct {
	Direction   Direction
	ContentType ContentType
	Audio       AudioMode
	GameMode    GameMode
}

// AudioEnabled reports whether pronunciation playback was requested.
func (c SessionConfig) AudioEnabled() bool {
	return c.Audio == AudioOn
}

// Validate checks that every field is set to a known value.
func (c SessionConfig) Validate() error {
	switch c.Direction {
	case DirectionRuFr, DirectionFrRu:
	case "":
		return NewConfigurationError("direction", "is required")
	default:
		return NewConfigurationError("direction", "unknown value "+string(c.Direction))
	}

	switch c.ContentType {
	case ContentWords, ContentPhrases:
	case "":
		return NewConfigurationError("content_type", "is required")
	default:
		return NewConfigurationError("content_type", "unknown value "+string(c.ContentType))
	}

	switch c.Audio {
	case AudioOn, AudioOff:
	case "":
		return NewConfigurationError("audio", "is required")
	default:
		return NewConfigurationError("audio", "unknown value "+string(c.Audio))
	}

	switch c.GameMode {
	case ModeTranslation, ModeMultipleChoice, ModeMissingWord:
	case "":
		return NewConfigurationError("game_mode", "is required")
	default:
		return NewConfigurationError("game_mode", "unknown value "+string(c.GameMode))
	}

	return nil
}

// ParseSessionConfig builds a config from raw values, accepting both the
// canonical names and the short French aliases used by the configuration screen.
func ParseSessionConfig(direction, contentType, audio, gameMode string) (SessionConfig, error) {
	cfg := SessionConfig{
		Direction:   Direction(aliasOf(direction, directionAliases)),
		ContentType: ContentType(aliasOf(contentType, contentAliases)),
		Audio:       AudioMode(aliasOf(audio, audioAliases)),
		GameMode:    GameMode(aliasOf(gameMode, modeAliases)),
	}

	if err := cfg.Validate(); err != nil {
		return SessionConfig{}, err
	}

	return cfg, nil
}

// ParseContentType parses a content type or its French alias.
func ParseContentType(raw string) (ContentType, error) {
	ct := ContentType(aliasOf(raw, contentAliases))
	switch ct {
	case ContentWords, ContentPhrases:
		return ct, nil
	case "":
		return "", NewConfigurationError("content_type", "is required")
	default:
		return "", NewConfigurationError("content_type", "unknown value "+string(ct))
	}
}

var (
	directionAliases = map[string]string{
		"1": string(DirectionRuFr),
		"2": string(DirectionFrRu),
	}
	contentAliases = map[string]string{
		"mots": string(ContentWords),
	}
	audioAliases = map[string]string{
		"avec": string(AudioOn),
		"sans": string(AudioOff),
	}
	modeAliases = map[string]string{
		"traduction":   string(ModeTranslation),
		"qcm":          string(ModeMultipleChoice),
		"qcm1":         string(ModeMultipleChoice),
		"qcm2":         string(ModeMultipleChoice),
		"mot-manquant": string(ModeMissingWord),
	}
)

func aliasOf(raw string, aliases map[string]string) string {
	v := strings.ToLower(strings.TrimSpace(raw))
	if canonical, ok := aliases[v]; ok {
		return canonical
	}
	return v
}
