package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botstudio/botstudio/internal/domain"
)

func TestCreateChatbotWithCharacteristics(t *testing.T) {
	env := newTestEnv(t)

	chatbot, err := env.admin.CreateChatbot(context.Background(), "alice", &domain.CreateChatbotRequest{
		Name:            "Sales Bot",
		Characteristics: []string{"I know the catalog.", "I am persuasive."},
	})
	require.NoError(t, err)

	got, err := env.admin.GetChatbot(context.Background(), chatbot.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.UserID)
	require.Len(t, got.Characteristics, 2)
	assert.Equal(t, "I know the catalog.", got.Characteristics[0].Content)
}

func TestCreateChatbotRejectsBlankCharacteristic(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.admin.CreateChatbot(context.Background(), "alice", &domain.CreateChatbotRequest{
		Name:            "Bot",
		Characteristics: []string{"fine", "   "},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	chatbots, err := env.admin.ListChatbots(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, chatbots)
}

func TestBatchCharacteristicsAllOrNothing(t *testing.T) {
	env := newTestEnv(t)
	chatbot := env.createChatbot(t, "Bot", "existing")

	// One blank entry aborts the whole batch
	_, err := env.admin.AddCharacteristics(context.Background(), chatbot.ID, []string{"new one", ""})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	got, err := env.admin.GetChatbot(context.Background(), chatbot.ID)
	require.NoError(t, err)
	require.Len(t, got.Characteristics, 1)
	assert.Equal(t, "existing", got.Characteristics[0].Content)

	// A clean batch lands in order
	added, err := env.admin.AddCharacteristics(context.Background(), chatbot.ID, []string{"a", "b"})
	require.NoError(t, err)
	assert.Len(t, added, 2)

	got, err = env.admin.GetChatbot(context.Background(), chatbot.ID)
	require.NoError(t, err)
	require.Len(t, got.Characteristics, 3)
	assert.Equal(t, "b", got.Characteristics[2].Content)
}

func TestBatchCharacteristicsUnknownChatbot(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.admin.AddCharacteristics(context.Background(), "missing", []string{"a"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateChatbot(t *testing.T) {
	env := newTestEnv(t)
	chatbot := env.createChatbot(t, "Old Name")

	updated, err := env.admin.UpdateChatbot(context.Background(), chatbot.ID, &domain.UpdateChatbotRequest{Name: "New Name"})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)

	_, err = env.admin.UpdateChatbot(context.Background(), "missing", &domain.UpdateChatbotRequest{Name: "X"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListSessions(t *testing.T) {
	env := newTestEnv(t)
	chatbot := env.createChatbot(t, "Bot")
	started := env.startSession(t, chatbot.ID)

	sessions, err := env.admin.ListSessions(context.Background(), chatbot.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, started.Session.ID, sessions[0].ID)

	_, err = env.admin.ListSessions(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetStats(t *testing.T) {
	env := newTestEnv(t)
	chatbot := env.createChatbot(t, "Bot")
	started := env.startSession(t, chatbot.ID)

	_, err := env.chat.Exchange(context.Background(), started.Session.ID, "hello")
	require.NoError(t, err)

	stats, err := env.admin.GetStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.TotalChatbots)
	assert.Equal(t, 1, stats.TotalGuests)
	assert.Equal(t, 1, stats.TotalSessions)
	// greeting + user turn + AI turn
	assert.Equal(t, 3, stats.TotalMessages)
}
