package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/botstudio/botstudio/internal/domain"
	"github.com/botstudio/botstudio/internal/repository"
)

// AdminService handles dashboard operations: chatbot and characteristic
// management, session review and stats.
type AdminService struct {
	chatbotRepo *repository.ChatbotRepository
	guestRepo   *repository.GuestRepository
	sessionRepo *repository.SessionRepository
}

// NewAdminService creates a new admin service
func NewAdminService(
	chatbotRepo *repository.ChatbotRepository,
	guestRepo *repository.GuestRepository,
	sessionRepo *repository.SessionRepository,
) *AdminService {
	return &AdminService{
		chatbotRepo: chatbotRepo,
		guestRepo:   guestRepo,
		sessionRepo: sessionRepo,
	}
}

// CreateChatbot creates a chatbot and its initial characteristics in one
// transaction (all-or-nothing; no partial characteristic state).
func (s *AdminService) CreateChatbot(ctx context.Context, userID string, req *domain.CreateChatbotRequest) (*domain.Chatbot, error) {
	contents, err := cleanContents(req.Characteristics)
	if err != nil {
		return nil, err
	}

	chatbot := &domain.Chatbot{
		UserID: userID,
		Name:   req.Name,
	}
	for _, content := range contents {
		chatbot.Characteristics = append(chatbot.Characteristics, domain.Characteristic{Content: content})
	}

	if err := s.chatbotRepo.Create(chatbot); err != nil {
		return nil, err
	}
	return chatbot, nil
}

// GetChatbot retrieves a chatbot with its characteristics
func (s *AdminService) GetChatbot(ctx context.Context, id string) (*domain.Chatbot, error) {
	chatbot, err := s.chatbotRepo.Get(id)
	if err != nil {
		return nil, err
	}
	if chatbot == nil {
		return nil, domain.ErrNotFound
	}
	return chatbot, nil
}

// ListChatbots lists the caller's chatbots; an empty userID lists all
func (s *AdminService) ListChatbots(ctx context.Context, userID string) ([]*domain.Chatbot, error) {
	return s.chatbotRepo.List(userID)
}

// UpdateChatbot renames a chatbot
func (s *AdminService) UpdateChatbot(ctx context.Context, id string, req *domain.UpdateChatbotRequest) (*domain.Chatbot, error) {
	if err := s.chatbotRepo.UpdateName(id, req.Name); err != nil {
		return nil, err
	}
	return s.GetChatbot(ctx, id)
}

// DeleteChatbot removes a chatbot and everything hanging off it
func (s *AdminService) DeleteChatbot(ctx context.Context, id string) error {
	return s.chatbotRepo.Delete(id)
}

// AddCharacteristic appends a single characteristic to a chatbot
func (s *AdminService) AddCharacteristic(ctx context.Context, chatbotID, content string) (*domain.Characteristic, error) {
	characteristics, err := s.AddCharacteristics(ctx, chatbotID, []string{content})
	if err != nil {
		return nil, err
	}
	return &characteristics[0], nil
}

// AddCharacteristics appends characteristics all-or-nothing: a blank entry or
// a failed insert leaves the chatbot unchanged.
func (s *AdminService) AddCharacteristics(ctx context.Context, chatbotID string, contents []string) ([]domain.Characteristic, error) {
	cleaned, err := cleanContents(contents)
	if err != nil {
		return nil, err
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("%w: at least one characteristic is required", domain.ErrInvalidRequest)
	}

	chatbot, err := s.chatbotRepo.Get(chatbotID)
	if err != nil {
		return nil, err
	}
	if chatbot == nil {
		return nil, domain.ErrNotFound
	}

	return s.chatbotRepo.AddCharacteristics(chatbotID, cleaned)
}

// RemoveCharacteristic deletes a single characteristic
func (s *AdminService) RemoveCharacteristic(ctx context.Context, id string) error {
	return s.chatbotRepo.RemoveCharacteristic(id)
}

// ListSessions lists a chatbot's chat sessions for review
func (s *AdminService) ListSessions(ctx context.Context, chatbotID string) ([]*domain.ChatSession, error) {
	chatbot, err := s.chatbotRepo.Get(chatbotID)
	if err != nil {
		return nil, err
	}
	if chatbot == nil {
		return nil, domain.ErrNotFound
	}
	return s.sessionRepo.ListByChatbot(chatbotID)
}

// GetStats returns dashboard totals
func (s *AdminService) GetStats(ctx context.Context) (*domain.Stats, error) {
	chatbots, err := s.chatbotRepo.Count()
	if err != nil {
		return nil, err
	}
	guests, err := s.guestRepo.Count()
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessionRepo.CountSessions()
	if err != nil {
		return nil, err
	}
	messages, err := s.sessionRepo.CountMessages()
	if err != nil {
		return nil, err
	}

	return &domain.Stats{
		TotalChatbots: chatbots,
		TotalGuests:   guests,
		TotalSessions: sessions,
		TotalMessages: messages,
	}, nil
}

func cleanContents(contents []string) ([]string, error) {
	cleaned := make([]string, 0, len(contents))
	for _, content := range contents {
		trimmed := strings.TrimSpace(content)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: characteristic content must not be empty", domain.ErrInvalidRequest)
		}
		cleaned = append(cleaned, trimmed)
	}
	return cleaned, nil
}
