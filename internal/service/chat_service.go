package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/botstudio/botstudio/internal/domain"
	"github.com/botstudio/botstudio/internal/llm"
	"github.com/botstudio/botstudio/internal/repository"
)

// FallbackReply is persisted as the AI turn whenever the completion call fails
// or returns no content, so the log always pairs a reply with each user turn.
const FallbackReply = "I apologize, but I am unable to provide a response at this time."

// Greeting returns the synthesized (not model-generated) first AI message of a session.
func Greeting(guestName, chatbotName string) string {
	return fmt.Sprintf("Hello %s! Welcome to our chat. I'm %s, your AI assistant. How can I help you today?",
		guestName, chatbotName)
}

// ChatService runs the guest chat session protocol: registration, message
// exchange and transcript projection.
type ChatService struct {
	chatbotRepo *repository.ChatbotRepository
	guestRepo   *repository.GuestRepository
	sessionRepo *repository.SessionRepository
	completer   llm.Completer
	logger      *zap.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewChatService creates a new chat service
func NewChatService(
	chatbotRepo *repository.ChatbotRepository,
	guestRepo *repository.GuestRepository,
	sessionRepo *repository.SessionRepository,
	completer llm.Completer,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		chatbotRepo: chatbotRepo,
		guestRepo:   guestRepo,
		sessionRepo: sessionRepo,
		completer:   completer,
		logger:      logger,
		inFlight:    make(map[string]struct{}),
	}
}

// GetChatbot loads a chatbot profile for the chat widget
func (s *ChatService) GetChatbot(ctx context.Context, id string) (*domain.Chatbot, error) {
	chatbot, err := s.chatbotRepo.Get(id)
	if err != nil {
		return nil, err
	}
	if chatbot == nil {
		return nil, domain.ErrNotFound
	}
	return chatbot, nil
}

// CreateGuest registers a guest record. Validation happens before any write.
func (s *ChatService) CreateGuest(ctx context.Context, req *domain.CreateGuestRequest) (*domain.Guest, error) {
	if err := domain.ValidateGuest(req.Name, req.Email); err != nil {
		return nil, err
	}

	guest := &domain.Guest{Name: req.Name, Email: req.Email}
	if err := s.guestRepo.Create(guest); err != nil {
		return nil, err
	}
	return guest, nil
}

// CreateSession links an existing guest to an existing chatbot
func (s *ChatService) CreateSession(ctx context.Context, req *domain.CreateSessionRequest) (*domain.ChatSession, error) {
	chatbot, err := s.chatbotRepo.Get(req.ChatbotID)
	if err != nil {
		return nil, err
	}
	if chatbot == nil {
		return nil, domain.ErrNotFound
	}

	guest, err := s.guestRepo.Get(req.GuestID)
	if err != nil {
		return nil, err
	}
	if guest == nil {
		return nil, domain.ErrNotFound
	}

	session := &domain.ChatSession{ChatbotID: req.ChatbotID, GuestID: req.GuestID}
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, err
	}
	return session, nil
}

// CreateMessage appends a raw message to a session's log
func (s *ChatService) CreateMessage(ctx context.Context, req *domain.CreateMessageRequest) (*domain.Message, error) {
	if req.Sender != domain.SenderUser && req.Sender != domain.SenderAI {
		return nil, fmt.Errorf("%w: sender must be %q or %q", domain.ErrInvalidRequest, domain.SenderUser, domain.SenderAI)
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("%w: content is required", domain.ErrInvalidRequest)
	}

	session, err := s.sessionRepo.Get(req.ChatSessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrNotFound
	}

	message := &domain.Message{
		ChatSessionID: req.ChatSessionID,
		Content:       req.Content,
		Sender:        req.Sender,
	}
	if err := s.sessionRepo.CreateMessage(message); err != nil {
		return nil, err
	}
	return message, nil
}

// StartSession registers a guest, opens a session and persists the greeting in
// one transaction, so a partial failure leaves no orphaned guest record.
func (s *ChatService) StartSession(ctx context.Context, req *domain.StartChatRequest) (*domain.StartChatResponse, error) {
	if err := domain.ValidateGuest(req.Name, req.Email); err != nil {
		return nil, err
	}

	chatbot, err := s.chatbotRepo.Get(req.ChatbotID)
	if err != nil {
		return nil, err
	}
	if chatbot == nil {
		return nil, domain.ErrNotFound
	}

	guest := &domain.Guest{Name: req.Name, Email: req.Email}
	session := &domain.ChatSession{ChatbotID: chatbot.ID}
	greeting := &domain.Message{
		Content: Greeting(req.Name, chatbot.Name),
		Sender:  domain.SenderAI,
	}

	err = s.sessionRepo.WithTx(func(tx *sql.Tx) error {
		if err := s.guestRepo.CreateTx(tx, guest); err != nil {
			return fmt.Errorf("create guest: %w", err)
		}
		session.GuestID = guest.ID
		if err := s.sessionRepo.CreateTx(tx, session); err != nil {
			return fmt.Errorf("create chat session: %w", err)
		}
		greeting.ChatSessionID = session.ID
		if err := s.sessionRepo.CreateMessageTx(tx, greeting); err != nil {
			return fmt.Errorf("persist greeting: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("chat session started",
		zap.String("session_id", session.ID),
		zap.String("chatbot_id", chatbot.ID),
		zap.String("guest_id", guest.ID),
	)

	return &domain.StartChatResponse{Session: session, Guest: guest, Greeting: greeting}, nil
}

// Exchange runs one strict-order round trip: persist the user message, request
// a completion, persist the reply. A completion failure substitutes the fixed
// fallback reply; a user-message persist failure aborts before any completion
// call. Only one exchange may run per session at a time.
func (s *ChatService) Exchange(ctx context.Context, sessionID, content string) (*domain.ExchangeResponse, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content is required", domain.ErrInvalidRequest)
	}

	if !s.beginExchange(sessionID) {
		return nil, domain.ErrExchangeInFlight
	}
	defer s.endExchange(sessionID)

	session, err := s.sessionRepo.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrNotFound
	}

	chatbot, err := s.chatbotRepo.Get(session.ChatbotID)
	if err != nil {
		return nil, err
	}
	if chatbot == nil {
		return nil, domain.ErrNotFound
	}

	guest, err := s.guestRepo.Get(session.GuestID)
	if err != nil {
		return nil, err
	}
	if guest == nil {
		return nil, domain.ErrNotFound
	}

	userMessage := &domain.Message{
		ChatSessionID: session.ID,
		Content:       content,
		Sender:        domain.SenderUser,
	}
	if err := s.sessionRepo.CreateMessage(userMessage); err != nil {
		return nil, fmt.Errorf("persist user message: %w", err)
	}

	replyText, err := s.completer.Complete(ctx, llm.CompletionInput{
		Message:         content,
		ChatbotName:     chatbot.Name,
		UserName:        guest.Name,
		Characteristics: chatbot.CharacteristicContents(),
	})
	if err != nil {
		s.logger.Warn("completion failed, using fallback reply",
			zap.String("session_id", session.ID),
			zap.Error(err),
		)
		replyText = FallbackReply
	}
	if replyText == "" {
		replyText = FallbackReply
	}

	reply := &domain.Message{
		ChatSessionID: session.ID,
		Content:       replyText,
		Sender:        domain.SenderAI,
	}
	if err := s.sessionRepo.CreateMessage(reply); err != nil {
		return nil, fmt.Errorf("persist reply: %w", err)
	}

	if err := s.sessionRepo.Touch(session.ID); err != nil {
		return nil, err
	}

	return &domain.ExchangeResponse{UserMessage: userMessage, Reply: reply}, nil
}

// Transcript returns the time-ordered message log for a session together with
// the chatbot and guest projections. Re-fetching without new sends yields an
// identical result.
func (s *ChatService) Transcript(ctx context.Context, sessionID string) (*domain.TranscriptResponse, error) {
	session, err := s.sessionRepo.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrNotFound
	}

	messages, err := s.sessionRepo.GetMessages(sessionID)
	if err != nil {
		return nil, err
	}

	resp := &domain.TranscriptResponse{Messages: messages}

	chatbot, err := s.chatbotRepo.Get(session.ChatbotID)
	if err != nil {
		return nil, err
	}
	if chatbot != nil {
		resp.Chatbot = domain.TranscriptChatbot{Name: chatbot.Name}
	}

	guest, err := s.guestRepo.Get(session.GuestID)
	if err != nil {
		return nil, err
	}
	if guest != nil {
		resp.Guest = domain.TranscriptGuest{Name: guest.Name, Email: guest.Email}
	}

	return resp, nil
}

// Complete serves the raw completion endpoint. The fallback reply is returned
// when the model yields no content; call failures surface as errors.
func (s *ChatService) Complete(ctx context.Context, req *domain.CompletionRequest) (*domain.CompletionResponse, error) {
	text, err := s.completer.Complete(ctx, llm.CompletionInput{
		Message:         req.Message,
		ChatbotName:     req.ChatbotName,
		UserName:        req.UserName,
		Characteristics: req.Characteristics,
	})
	if err != nil {
		return nil, err
	}
	if text == "" {
		text = FallbackReply
	}
	return &domain.CompletionResponse{Response: text}, nil
}

func (s *ChatService) beginExchange(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[sessionID]; busy {
		return false
	}
	s.inFlight[sessionID] = struct{}{}
	return true
}

func (s *ChatService) endExchange(sessionID string) {
	s.mu.Lock()
	delete(s.inFlight, sessionID)
	s.mu.Unlock()
}
