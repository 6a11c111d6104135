package repository

import (
	"database/sql"
	"time"

	"github.com/botstudio/botstudio/internal/domain"
	"github.com/google/uuid"
)

// SessionRepository handles chat session and message persistence
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// WithTx runs fn inside a transaction on the underlying database
func (r *SessionRepository) WithTx(fn func(tx *sql.Tx) error) error {
	return r.db.WithTx(fn)
}

// Create creates a new chat session
func (r *SessionRepository) Create(session *domain.ChatSession) error {
	stampSession(session)
	_, err := r.db.Exec(`
		INSERT INTO chat_sessions (id, chatbot_id, guest_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, session.ID, session.ChatbotID, session.GuestID, session.CreatedAt, session.UpdatedAt)
	return err
}

// CreateTx creates a new chat session inside an existing transaction
func (r *SessionRepository) CreateTx(tx *sql.Tx, session *domain.ChatSession) error {
	stampSession(session)
	_, err := tx.Exec(`
		INSERT INTO chat_sessions (id, chatbot_id, guest_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, session.ID, session.ChatbotID, session.GuestID, session.CreatedAt, session.UpdatedAt)
	return err
}

func stampSession(session *domain.ChatSession) {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	now := time.Now()
	session.CreatedAt = now
	session.UpdatedAt = now
}

// Get retrieves a session by ID
func (r *SessionRepository) Get(id string) (*domain.ChatSession, error) {
	session := &domain.ChatSession{}
	err := r.db.QueryRow(`
		SELECT id, chatbot_id, guest_id, created_at, updated_at
		FROM chat_sessions WHERE id = ?
	`, id).Scan(&session.ID, &session.ChatbotID, &session.GuestID,
		&session.CreatedAt, &session.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return session, nil
}

// ListByChatbot retrieves all sessions for a chatbot, newest first
func (r *SessionRepository) ListByChatbot(chatbotID string) ([]*domain.ChatSession, error) {
	rows, err := r.db.Query(`
		SELECT id, chatbot_id, guest_id, created_at, updated_at
		FROM chat_sessions WHERE chatbot_id = ?
		ORDER BY created_at DESC
	`, chatbotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*domain.ChatSession
	for rows.Next() {
		session := &domain.ChatSession{}
		if err := rows.Scan(&session.ID, &session.ChatbotID, &session.GuestID,
			&session.CreatedAt, &session.UpdatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

// Touch updates a session's updated_at timestamp
func (r *SessionRepository) Touch(id string) error {
	_, err := r.db.Exec(`UPDATE chat_sessions SET updated_at = ? WHERE id = ?`, time.Now(), id)
	return err
}

// CreateMessage appends a message to a session's log
func (r *SessionRepository) CreateMessage(message *domain.Message) error {
	stampMessage(message)
	_, err := r.db.Exec(`
		INSERT INTO messages (id, chat_session_id, content, sender, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, message.ID, message.ChatSessionID, message.Content, message.Sender, message.CreatedAt)
	return err
}

// CreateMessageTx appends a message inside an existing transaction
func (r *SessionRepository) CreateMessageTx(tx *sql.Tx, message *domain.Message) error {
	stampMessage(message)
	_, err := tx.Exec(`
		INSERT INTO messages (id, chat_session_id, content, sender, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, message.ID, message.ChatSessionID, message.Content, message.Sender, message.CreatedAt)
	return err
}

func stampMessage(message *domain.Message) {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	message.CreatedAt = time.Now()
}

// GetMessages retrieves all messages for a session in creation order
func (r *SessionRepository) GetMessages(sessionID string) ([]*domain.Message, error) {
	rows, err := r.db.Query(`
		SELECT id, chat_session_id, content, sender, created_at
		FROM messages WHERE chat_session_id = ?
		ORDER BY created_at ASC, rowid ASC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]*domain.Message, 0)
	for rows.Next() {
		message := &domain.Message{}
		if err := rows.Scan(&message.ID, &message.ChatSessionID, &message.Content,
			&message.Sender, &message.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}

	return messages, rows.Err()
}

// CountSessions returns the total number of chat sessions
func (r *SessionRepository) CountSessions() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM chat_sessions`).Scan(&count)
	return count, err
}

// CountMessages returns the total number of messages
func (r *SessionRepository) CountMessages() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM messages`).Scan(&count)
	return count, err
}
