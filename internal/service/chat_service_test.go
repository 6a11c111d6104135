package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/botstudio/botstudio/internal/domain"
	"github.com/botstudio/botstudio/internal/llm"
	"github.com/botstudio/botstudio/internal/repository"
	"github.com/botstudio/botstudio/internal/service"
)

// stubCompleter lets each test script the completion outcome.
type stubCompleter struct {
	fn func(ctx context.Context, in llm.CompletionInput) (string, error)
}

func (s *stubCompleter) Complete(ctx context.Context, in llm.CompletionInput) (string, error) {
	return s.fn(ctx, in)
}

type testEnv struct {
	chat      *service.ChatService
	admin     *service.AdminService
	guests    *repository.GuestRepository
	sessions  *repository.SessionRepository
	completer *stubCompleter
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := repository.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	chatbotRepo := repository.NewChatbotRepository(db)
	guestRepo := repository.NewGuestRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	completer := &stubCompleter{fn: func(context.Context, llm.CompletionInput) (string, error) {
		return "stub reply", nil
	}}

	return &testEnv{
		chat:      service.NewChatService(chatbotRepo, guestRepo, sessionRepo, completer, zap.NewNop()),
		admin:     service.NewAdminService(chatbotRepo, guestRepo, sessionRepo),
		guests:    guestRepo,
		sessions:  sessionRepo,
		completer: completer,
	}
}

func (e *testEnv) createChatbot(t *testing.T, name string, characteristics ...string) *domain.Chatbot {
	t.Helper()

	chatbot, err := e.admin.CreateChatbot(context.Background(), "owner", &domain.CreateChatbotRequest{
		Name:            name,
		Characteristics: characteristics,
	})
	require.NoError(t, err)
	return chatbot
}

func (e *testEnv) startSession(t *testing.T, chatbotID string) *domain.StartChatResponse {
	t.Helper()

	resp, err := e.chat.StartSession(context.Background(), &domain.StartChatRequest{
		ChatbotID: chatbotID,
		Name:      "Ana",
		Email:     "ana@x.com",
	})
	require.NoError(t, err)
	return resp
}

func TestStartSessionPersistsGreeting(t *testing.T) {
	env := newTestEnv(t)
	chatbot := env.createChatbot(t, "Support Bot", "I answer questions about hours.")

	resp := env.startSession(t, chatbot.ID)

	assert.Equal(t, "Ana", resp.Guest.Name)
	assert.Equal(t, chatbot.ID, resp.Session.ChatbotID)
	assert.Equal(t, resp.Guest.ID, resp.Session.GuestID)

	assert.Equal(t, domain.SenderAI, resp.Greeting.Sender)
	assert.Equal(t,
		"Hello Ana! Welcome to our chat. I'm Support Bot, your AI assistant. How can I help you today?",
		resp.Greeting.Content)

	// The greeting is the first (and only) transcript entry
	transcript, err := env.chat.Transcript(context.Background(), resp.Session.ID)
	require.NoError(t, err)
	require.Len(t, transcript.Messages, 1)
	assert.Equal(t, resp.Greeting.Content, transcript.Messages[0].Content)
	assert.Equal(t, "Support Bot", transcript.Chatbot.Name)
	assert.Equal(t, "ana@x.com", transcript.Guest.Email)
}

func TestStartSessionInvalidEmailWritesNothing(t *testing.T) {
	env := newTestEnv(t)
	chatbot := env.createChatbot(t, "Bot")

	_, err := env.chat.StartSession(context.Background(), &domain.StartChatRequest{
		ChatbotID: chatbot.ID,
		Name:      "Ana",
		Email:     "not-an-email",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	guests, err := env.guests.Count()
	require.NoError(t, err)
	assert.Zero(t, guests)

	sessions, err := env.sessions.CountSessions()
	require.NoError(t, err)
	assert.Zero(t, sessions)
}

func TestStartSessionEmptyName(t *testing.T) {
	env := newTestEnv(t)
	chatbot := env.createChatbot(t, "Bot")

	_, err := env.chat.StartSession(context.Background(), &domain.StartChatRequest{
		ChatbotID: chatbot.ID,
		Name:      "  ",
		Email:     "ana@x.com",
	})
	assert.ErrorIs(t, err, domain.ErrNameRequired)
}

func TestStartSessionUnknownChatbot(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.chat.StartSession(context.Background(), &domain.StartChatRequest{
		ChatbotID: "missing",
		Name:      "Ana",
		Email:     "ana@x.com",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExchangePersistsBothTurns(t *testing.T) {
	env := newTestEnv(t)
	chatbot := env.createChatbot(t, "Support Bot", "I know the store hours.")
	started := env.startSession(t, chatbot.ID)

	env.completer.fn = func(_ context.Context, in llm.CompletionInput) (string, error) {
		assert.Equal(t, "What are your hours?", in.Message)
		assert.Equal(t, "Support Bot", in.ChatbotName)
		assert.Equal(t, "Ana", in.UserName)
		assert.Equal(t, []string{"I know the store hours."}, in.Characteristics)
		return "We are open 9 to 5.", nil
	}

	resp, err := env.chat.Exchange(context.Background(), started.Session.ID, "What are your hours?")
	require.NoError(t, err)

	assert.Equal(t, domain.SenderUser, resp.UserMessage.Sender)
	assert.Equal(t, "What are your hours?", resp.UserMessage.Content)
	assert.Equal(t, domain.SenderAI, resp.Reply.Sender)
	assert.Equal(t, "We are open 9 to 5.", resp.Reply.Content)

	// Every user turn is immediately followed by its AI turn
	transcript, err := env.chat.Transcript(context.Background(), started.Session.ID)
	require.NoError(t, err)
	require.Len(t, transcript.Messages, 3)
	assert.Equal(t, domain.SenderAI, transcript.Messages[0].Sender) // greeting
	assert.Equal(t, domain.SenderUser, transcript.Messages[1].Sender)
	assert.Equal(t, domain.SenderAI, transcript.Messages[2].Sender)
}

func TestExchangeFallbackOnCompletionError(t *testing.T) {
	env := newTestEnv(t)
	chatbot := env.createChatbot(t, "Bot")
	started := env.startSession(t, chatbot.ID)

	env.completer.fn = func(context.Context, llm.CompletionInput) (string, error) {
		return "", errors.New("upstream returned 500")
	}

	resp, err := env.chat.Exchange(context.Background(), started.Session.ID, "What are your hours?")
	require.NoError(t, err)

	assert.Equal(t, service.FallbackReply, resp.Reply.Content)
	assert.Equal(t, domain.SenderAI, resp.Reply.Sender)

	// Both the user turn and the fallback reply are persisted
	transcript, err := env.chat.Transcript(context.Background(), started.Session.ID)
	require.NoError(t, err)
	require.Len(t, transcript.Messages, 3)
	assert.Equal(t, "What are your hours?", transcript.Messages[1].Content)
	assert.Equal(t, service.FallbackReply, transcript.Messages[2].Content)
}

func TestExchangeFallbackOnEmptyCompletion(t *testing.T) {
	env := newTestEnv(t)
	chatbot := env.createChatbot(t, "Bot")
	started := env.startSession(t, chatbot.ID)

	env.completer.fn = func(context.Context, llm.CompletionInput) (string, error) {
		return "", nil
	}

	resp, err := env.chat.Exchange(context.Background(), started.Session.ID, "hi")
	require.NoError(t, err)
	assert.Equal(t, service.FallbackReply, resp.Reply.Content)
}

func TestExchangeRejectsConcurrentSends(t *testing.T) {
	env := newTestEnv(t)
	chatbot := env.createChatbot(t, "Bot")
	started := env.startSession(t, chatbot.ID)

	entered := make(chan struct{})
	release := make(chan struct{})
	env.completer.fn = func(context.Context, llm.CompletionInput) (string, error) {
		close(entered)
		<-release
		return "slow reply", nil
	}

	done := make(chan error, 1)
	go func() {
		_, err := env.chat.Exchange(context.Background(), started.Session.ID, "first")
		done <- err
	}()

	<-entered

	// Second send on the same session while the first is in flight
	_, err := env.chat.Exchange(context.Background(), started.Session.ID, "second")
	assert.ErrorIs(t, err, domain.ErrExchangeInFlight)

	close(release)
	require.NoError(t, <-done)

	// Once the first completes, sending works again
	env.completer.fn = func(context.Context, llm.CompletionInput) (string, error) {
		return "ok", nil
	}
	_, err = env.chat.Exchange(context.Background(), started.Session.ID, "third")
	require.NoError(t, err)
}

func TestExchangeUnknownSession(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.chat.Exchange(context.Background(), "missing", "hi")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTranscriptIdempotent(t *testing.T) {
	env := newTestEnv(t)
	chatbot := env.createChatbot(t, "Bot")
	started := env.startSession(t, chatbot.ID)

	_, err := env.chat.Exchange(context.Background(), started.Session.ID, "hello")
	require.NoError(t, err)

	first, err := env.chat.Transcript(context.Background(), started.Session.ID)
	require.NoError(t, err)
	second, err := env.chat.Transcript(context.Background(), started.Session.ID)
	require.NoError(t, err)

	require.Len(t, second.Messages, len(first.Messages))
	for i := range first.Messages {
		assert.Equal(t, first.Messages[i].ID, second.Messages[i].ID)
		assert.Equal(t, first.Messages[i].Content, second.Messages[i].Content)
		assert.Equal(t, first.Messages[i].Sender, second.Messages[i].Sender)
	}
}

func TestCreateGuestValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.chat.CreateGuest(context.Background(), &domain.CreateGuestRequest{
		Name:  "Ana",
		Email: "not-an-email",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	guests, err := env.guests.Count()
	require.NoError(t, err)
	assert.Zero(t, guests)

	guest, err := env.chat.CreateGuest(context.Background(), &domain.CreateGuestRequest{
		Name:  "Ana",
		Email: "ana@x.com",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, guest.ID)
}

func TestCreateGuestNoDeduplication(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < 2; i++ {
		_, err := env.chat.CreateGuest(context.Background(), &domain.CreateGuestRequest{
			Name:  "Ana",
			Email: "ana@x.com",
		})
		require.NoError(t, err)
	}

	guests, err := env.guests.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, guests)
}

func TestCreateMessageValidation(t *testing.T) {
	env := newTestEnv(t)
	chatbot := env.createChatbot(t, "Bot")
	started := env.startSession(t, chatbot.ID)

	_, err := env.chat.CreateMessage(context.Background(), &domain.CreateMessageRequest{
		ChatSessionID: started.Session.ID,
		Content:       "hi",
		Sender:        "robot",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	_, err = env.chat.CreateMessage(context.Background(), &domain.CreateMessageRequest{
		ChatSessionID: "missing",
		Content:       "hi",
		Sender:        domain.SenderUser,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
