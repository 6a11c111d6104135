package domain

import "time"

// Characteristic is a free-text behavioral directive attached to a chatbot.
// The full set is concatenated into the completion system prompt.
type Characteristic struct {
	ID        string    `json:"id"`
	ChatbotID string    `json:"chatbot_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Chatbot is a named persona constraining model responses.
type Chatbot struct {
	ID              string           `json:"id"`
	UserID          string           `json:"user_id,omitempty"`
	Name            string           `json:"name"`
	Characteristics []Characteristic `json:"chatbot_characteristics"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// CharacteristicContents returns the characteristic texts in insertion order.
func (c *Chatbot) CharacteristicContents() []string {
	contents := make([]string, 0, len(c.Characteristics))
	for _, ch := range c.Characteristics {
		contents = append(contents, ch.Content)
	}
	return contents
}

// CreateChatbotRequest is the request to create a chatbot
type CreateChatbotRequest struct {
	Name            string   `json:"name" binding:"required"`
	Characteristics []string `json:"characteristics,omitempty"`
}

// UpdateChatbotRequest is the request to rename a chatbot
type UpdateChatbotRequest struct {
	Name string `json:"name" binding:"required"`
}

// AddCharacteristicRequest is the request to add one characteristic
type AddCharacteristicRequest struct {
	Content string `json:"content" binding:"required"`
}

// BatchCharacteristicsRequest is the request to add several characteristics at once.
// The batch is applied all-or-nothing.
type BatchCharacteristicsRequest struct {
	Contents []string `json:"contents" binding:"required"`
}

// Stats represents dashboard statistics
type Stats struct {
	TotalChatbots int `json:"total_chatbots"`
	TotalGuests   int `json:"total_guests"`
	TotalSessions int `json:"total_sessions"`
	TotalMessages int `json:"total_messages"`
}
