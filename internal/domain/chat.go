package domain

import "time"

// Message sender values
const (
	SenderUser = "user"
	SenderAI   = "ai"
)

// ChatSession links exactly one guest to exactly one chatbot. Sessions have no
// terminal state; they simply stop receiving messages.
type ChatSession struct {
	ID        string    `json:"id"`
	ChatbotID string    `json:"chatbot_id"`
	GuestID   string    `json:"guest_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message is one append-only transcript entry, ordered by created_at ascending.
type Message struct {
	ID            string    `json:"id"`
	ChatSessionID string    `json:"chat_session_id"`
	Content       string    `json:"content"`
	Sender        string    `json:"sender"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateSessionRequest is the request to create a chat session
type CreateSessionRequest struct {
	ChatbotID string `json:"chatbot_id" binding:"required"`
	GuestID   string `json:"guest_id" binding:"required"`
}

// CreateMessageRequest is the request to append a message to a session
type CreateMessageRequest struct {
	ChatSessionID string `json:"chat_session_id" binding:"required"`
	Content       string `json:"content" binding:"required"`
	Sender        string `json:"sender" binding:"required"`
}

// StartChatRequest registers a guest and opens a session with a chatbot
type StartChatRequest struct {
	ChatbotID string `json:"chatbot_id" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required"`
}

// StartChatResponse is the result of a successful registration
type StartChatResponse struct {
	Session  *ChatSession `json:"session"`
	Guest    *Guest       `json:"guest"`
	Greeting *Message     `json:"greeting"`
}

// ExchangeRequest is the request to send a user message on a session
type ExchangeRequest struct {
	Content string `json:"content" binding:"required"`
}

// ExchangeResponse carries both persisted turns of one exchange
type ExchangeResponse struct {
	UserMessage *Message `json:"user_message"`
	Reply       *Message `json:"reply"`
}

// TranscriptChatbot is the chatbot projection embedded in a transcript
type TranscriptChatbot struct {
	Name string `json:"name"`
}

// TranscriptGuest is the guest projection embedded in a transcript
type TranscriptGuest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TranscriptResponse is the time-ordered view of a session's messages.
// The chatbots/guests keys mirror the session-messages contract.
type TranscriptResponse struct {
	Messages []*Message        `json:"messages"`
	Chatbot  TranscriptChatbot `json:"chatbots"`
	Guest    TranscriptGuest   `json:"guests"`
}

// CompletionRequest is the request to the completion endpoint
type CompletionRequest struct {
	Message         string   `json:"message" binding:"required"`
	Characteristics []string `json:"characteristics" binding:"required"`
	ChatbotName     string   `json:"chatbotName"`
	UserName        string   `json:"userName"`
}

// CompletionResponse is the completion endpoint response
type CompletionResponse struct {
	Response string `json:"response"`
}
