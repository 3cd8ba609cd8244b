package telegram

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/lingua-bot/internal/domain/entities"
	"github.com/aliskhannn/lingua-bot/internal/infra/filestore"
	"github.com/aliskhannn/lingua-bot/internal/repository"
	"github.com/aliskhannn/lingua-bot/internal/service"
	"github.com/aliskhannn/lingua-bot/internal/storage"
)

const (
	testChatID = int64(1)
	testUserID = int64(42)
)

type fakeBot struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	nextID   int
	updates  chan tgbotapi.Update
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, c)
	b.nextID++
	return tgbotapi.Message{MessageID: b.nextID}, nil
}

func (b *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (b *fakeBot) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return b.updates
}

func (b *fakeBot) sentCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.sent)
}

// lastText returns the text of the last sent message or edit.
func (b *fakeBot) lastText() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.sent) - 1; i >= 0; i-- {
		switch c := b.sent[i].(type) {
		case tgbotapi.MessageConfig:
			return c.Text
		case tgbotapi.EditMessageTextConfig:
			return c.Text
		}
	}
	return ""
}

func (b *fakeBot) lastMessage() (tgbotapi.MessageConfig, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.sent) - 1; i >= 0; i-- {
		if c, ok := b.sent[i].(tgbotapi.MessageConfig); ok {
			return c, true
		}
	}
	return tgbotapi.MessageConfig{}, false
}

func (b *fakeBot) lastToast() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.requests) - 1; i >= 0; i-- {
		if c, ok := b.requests[i].(tgbotapi.CallbackConfig); ok {
			return c.Text
		}
	}
	return ""
}

type fakeCatalog map[entities.ContentType][]entities.VocabularyItem

func (c fakeCatalog) Get(_ context.Context, ct entities.ContentType) ([]entities.VocabularyItem, error) {
	items, ok := c[ct]
	if !ok {
		return nil, repository.ErrCatalogNotFound
	}
	return items, nil
}

type testEnv struct {
	bot      *fakeBot
	handler  *Handler
	sessions *storage.SessionStorage
	stats    *filestore.StatsRepository
}

func newTestEnv(t *testing.T, catalog fakeCatalog) *testEnv {
	t.Helper()
	return newTestEnvWithAudio(t, catalog, "")
}

func newTestEnvWithAudio(t *testing.T, catalog fakeCatalog, audioDir string) *testEnv {
	t.Helper()

	logger := zap.NewNop()
	repo := filestore.NewStatsRepository(filepath.Join(t.TempDir(), "stats.json"))
	store := service.NewStatsStore(repo, logger, time.Second)

	bot := &fakeBot{updates: make(chan tgbotapi.Update)}
	sessions := storage.NewSessionStorage()

	h := NewHandler(
		bot,
		logger,
		service.NewDrillService(catalog, store, logger),
		service.NewProgressService(catalog, store),
		sessions,
		storage.NewDraftStorage(),
		audioDir,
	)

	return &testEnv{bot: bot, handler: h, sessions: sessions, stats: repo}
}

func (e *testEnv) command(text string) {
	cmd := strings.Fields(text)[0]
	e.handler.handleUpdate(context.Background(), tgbotapi.Update{
		Message: &tgbotapi.Message{
			Text:     text,
			Chat:     &tgbotapi.Chat{ID: testChatID},
			From:     &tgbotapi.User{ID: testUserID},
			Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}},
		},
	})
}

func (e *testEnv) text(text string) {
	e.textFrom(testUserID, text)
}

func (e *testEnv) textFrom(userID int64, text string) {
	e.handler.handleUpdate(context.Background(), tgbotapi.Update{
		Message: &tgbotapi.Message{
			Text: text,
			Chat: &tgbotapi.Chat{ID: testChatID},
			From: &tgbotapi.User{ID: userID},
		},
	})
}

func (e *testEnv) click(data string) {
	e.clickFrom(testUserID, data)
}

func (e *testEnv) clickFrom(userID int64, data string) {
	e.handler.handleUpdate(context.Background(), tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:   "cb",
			From: &tgbotapi.User{ID: userID},
			Message: &tgbotapi.Message{
				MessageID: 1,
				Chat:      &tgbotapi.Chat{ID: testChatID},
			},
			Data: data,
		},
	})
}

func TestHandler_PlayRequiresEveryParameter(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, fakeCatalog{
		entities.ContentWords: {entities.NewVocabularyItem("кот", "chat")},
	})

	env.command("/start")
	require.Contains(t, env.bot.lastText(), "Configurer la session")

	env.click(buildConfigCallback(storage.FieldDirection, "2"))
	env.click(buildConfigCallback(storage.FieldContent, "mots"))
	env.click(buildConfigCallback(storage.FieldAudio, "sans"))
	env.click(buildPlayCallback())

	assert.Equal(t, msgSelectAllParams, env.bot.lastToast())
	assert.Zero(t, env.sessions.Len())
}

func TestHandler_TranslationDrill(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, fakeCatalog{
		entities.ContentWords: {entities.NewVocabularyItem("кот", "chat")},
	})
	ctx := context.Background()

	env.command("/start")
	env.click(buildConfigCallback(storage.FieldDirection, "2"))
	env.click(buildConfigCallback(storage.FieldContent, "mots"))
	env.click(buildConfigCallback(storage.FieldAudio, "sans"))
	env.click(buildConfigCallback(storage.FieldMode, "traduction"))
	env.click(buildPlayCallback())

	session, ok := env.sessions.Get(testChatID)
	require.True(t, ok)
	require.Equal(t, 2, session.Runner.Len())
	assert.Contains(t, env.bot.lastText(), "chat")
	assert.Contains(t, env.bot.lastText(), "1 / 2")

	// Whitespace-only input is not an answer.
	before := env.bot.sentCount()
	env.text("   ")
	assert.Equal(t, before, env.bot.sentCount())

	env.text("кот")
	assert.Contains(t, env.bot.lastText(), "Correct")

	env.click(buildNextCallback(session.ID, 0))
	assert.Contains(t, env.bot.lastText(), "2 / 2")

	env.text("  КОТ ")
	assert.Contains(t, env.bot.lastText(), "Session terminée")
	assert.Contains(t, env.bot.lastText(), "2 / 2")
	assert.Zero(t, env.sessions.Len())

	rec, err := env.stats.Get(ctx, testUserID, "кот|chat")
	require.NoError(t, err)
	assert.Equal(t, 2, rec.TotalAttempts)
	assert.Equal(t, 2, rec.CorrectAttempts)

	// Buttons of a finished session are stale.
	env.click(buildNextCallback(session.ID, 1))
	assert.Equal(t, msgStaleButton, env.bot.lastToast())
}

func TestHandler_MultipleChoice(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, fakeCatalog{
		entities.ContentWords: {
			entities.NewVocabularyItem("кот", "chat"),
			entities.NewVocabularyItem("собака", "chien"),
			entities.NewVocabularyItem("дом", "maison"),
			entities.NewVocabularyItem("вода", "eau"),
		},
	})

	env.command("/start")
	env.click(buildConfigCallback(storage.FieldDirection, "1"))
	env.click(buildConfigCallback(storage.FieldContent, "mots"))
	env.click(buildConfigCallback(storage.FieldAudio, "sans"))
	env.click(buildConfigCallback(storage.FieldMode, "qcm1"))
	env.click(buildPlayCallback())

	session, ok := env.sessions.Get(testChatID)
	require.True(t, ok)

	msg, ok := env.bot.lastMessage()
	require.True(t, ok)
	kb, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, kb.InlineKeyboard, service.OptionsCount)

	q := session.Runner.Current()
	correct := -1
	for i, opt := range q.Options {
		if opt == q.Expected {
			correct = i
		}
	}
	require.NotEqual(t, -1, correct)

	// Typed answers are refused in multiple choice mode.
	env.text(q.Expected)
	assert.Equal(t, msgUseButtons, env.bot.lastText())

	env.click(buildAnswerCallback(session.ID, 0, correct))
	assert.Contains(t, env.bot.lastText(), "Correct")

	env.click(buildAnswerCallback(session.ID, 0, correct))
	assert.Equal(t, msgAlreadyAnswered, env.bot.lastToast())

	// A button of another item is stale.
	env.click(buildAnswerCallback(session.ID, 5, 0))
	assert.Equal(t, msgStaleButton, env.bot.lastToast())
}

func TestHandler_StopAndStats(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, fakeCatalog{
		entities.ContentWords: {entities.NewVocabularyItem("кот", "chat")},
	})

	env.command("/stop")
	assert.Equal(t, msgNoSession, env.bot.lastText())

	env.command("/stats phrases")
	assert.Equal(t, msgStatsUnavailable, env.bot.lastText())

	env.command("/stats oiseaux")
	assert.Equal(t, msgUnknownContentType, env.bot.lastText())

	env.command("/stats mots")
	assert.Contains(t, env.bot.lastText(), "Jamais vus :</b> 1")
}

func TestHandler_RunStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, fakeCatalog{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- env.handler.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("handler did not stop")
	}
}

func TestAudioFileName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "кот.mp3", audioFileName("кот"))
	assert.Equal(t, "я_люблю_тебя.mp3", audioFileName("Я люблю тебя"))
	assert.Equal(t, "je_t_aime.mp3", audioFileName("Je t'aime!"))
}

// sentAudio returns every audio attachment sent so far.
func (b *fakeBot) sentAudio() []tgbotapi.AudioConfig {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []tgbotapi.AudioConfig
	for _, c := range b.sent {
		if a, ok := c.(tgbotapi.AudioConfig); ok {
			out = append(out, a)
		}
	}
	return out
}

func writeAudio(t *testing.T, dir string, texts ...string) {
	t.Helper()
	for _, text := range texts {
		require.NoError(t, os.WriteFile(filepath.Join(dir, audioFileName(text)), []byte("ID3"), 0o644))
	}
}

func (e *testEnv) play(direction, audio, mode string) {
	e.command("/start")
	e.click(buildConfigCallback(storage.FieldDirection, direction))
	e.click(buildConfigCallback(storage.FieldContent, "mots"))
	e.click(buildConfigCallback(storage.FieldAudio, audio))
	e.click(buildConfigCallback(storage.FieldMode, mode))
	e.click(buildPlayCallback())
}

func TestHandler_AudioPronouncesPromptOnly(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		direction  string
		mode       string
		wantPrompt string
	}{
		{name: "ru-fr translation", direction: "1", mode: "traduction", wantPrompt: "кот"},
		{name: "fr-ru translation", direction: "2", mode: "traduction", wantPrompt: "chat"},
		{name: "ru-fr multiple choice", direction: "1", mode: "qcm1", wantPrompt: "кот"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeAudio(t, dir, "кот", "chat")

			env := newTestEnvWithAudio(t, fakeCatalog{
				entities.ContentWords: {entities.NewVocabularyItem("кот", "chat")},
			}, dir)
			env.play(tt.direction, "avec", tt.mode)

			session, ok := env.sessions.Get(testChatID)
			require.True(t, ok)
			q := session.Runner.Current()

			audio := env.bot.sentAudio()
			require.Len(t, audio, 1)
			assert.Equal(t, tt.wantPrompt, audio[0].Caption)
			assert.NotEqual(t, q.Expected, audio[0].Caption)

			file, ok := audio[0].File.(tgbotapi.FilePath)
			require.True(t, ok)
			assert.Equal(t, filepath.Join(dir, audioFileName(tt.wantPrompt)), string(file))
		})
	}
}

func TestHandler_AudioDisabled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeAudio(t, dir, "кот", "chat")

	env := newTestEnvWithAudio(t, fakeCatalog{
		entities.ContentWords: {entities.NewVocabularyItem("кот", "chat")},
	}, dir)
	env.play("1", "sans", "traduction")

	assert.Empty(t, env.bot.sentAudio())
}

func TestHandler_MissingWordAudioAfterAnswer(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeAudio(t, dir, "большой кот")

	env := newTestEnvWithAudio(t, fakeCatalog{
		entities.ContentWords: {entities.NewVocabularyItem("большой кот", "un gros chat")},
	}, dir)
	env.play("1", "avec", "mot-manquant")

	session, ok := env.sessions.Get(testChatID)
	require.True(t, ok)
	q := session.Runner.Current()
	require.Contains(t, q.Prompt, "_____")

	// The recording contains the missing word.
	assert.Empty(t, env.bot.sentAudio())

	env.text(q.Expected)

	audio := env.bot.sentAudio()
	require.Len(t, audio, 1)
	assert.Equal(t, "большой кот", audio[0].Caption)
}

func TestHandler_SessionBelongsToStarter(t *testing.T) {
	t.Parallel()

	const otherUserID = int64(99)

	env := newTestEnv(t, fakeCatalog{
		entities.ContentWords: {
			entities.NewVocabularyItem("кот", "chat"),
			entities.NewVocabularyItem("собака", "chien"),
			entities.NewVocabularyItem("дом", "maison"),
			entities.NewVocabularyItem("вода", "eau"),
		},
	})
	ctx := context.Background()

	env.play("1", "sans", "qcm1")

	session, ok := env.sessions.Get(testChatID)
	require.True(t, ok)
	require.Equal(t, testUserID, session.LearnerID)

	q := session.Runner.Current()

	// Another member of the chat can neither answer nor stop the session.
	env.clickFrom(otherUserID, buildAnswerCallback(session.ID, 0, 0))
	assert.Equal(t, msgNotYourSession, env.bot.lastToast())

	env.textFrom(otherUserID, q.Expected)
	assert.Equal(t, entities.PerformanceRecord{}, mustRecord(t, env, otherUserID, q.Item))

	env.handler.handleUpdate(ctx, tgbotapi.Update{
		Message: &tgbotapi.Message{
			Text:     "/stop",
			Chat:     &tgbotapi.Chat{ID: testChatID},
			From:     &tgbotapi.User{ID: otherUserID},
			Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len("/stop")}},
		},
	})
	assert.Equal(t, msgNotYourSession, env.bot.lastText())
	_, ok = env.sessions.Get(testChatID)
	require.True(t, ok)

	assert.Equal(t, service.StateUnanswered, session.Runner.State())
	assert.Zero(t, mustRecord(t, env, testUserID, q.Item).TotalAttempts)
}

func mustRecord(t *testing.T, env *testEnv, learnerID int64, item entities.VocabularyItem) entities.PerformanceRecord {
	t.Helper()

	rec, err := env.stats.Get(context.Background(), learnerID, item.Key())
	if errors.Is(err, repository.ErrStatsNotFound) {
		return entities.PerformanceRecord{}
	}
	require.NoError(t, err)
	return *rec
}
