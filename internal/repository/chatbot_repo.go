package repository

import (
	"database/sql"
	"time"

	"github.com/botstudio/botstudio/internal/domain"
	"github.com/google/uuid"
)

// ChatbotRepository handles chatbot and characteristic persistence
type ChatbotRepository struct {
	db *DB
}

// NewChatbotRepository creates a new chatbot repository
func NewChatbotRepository(db *DB) *ChatbotRepository {
	return &ChatbotRepository{db: db}
}

// Create creates a new chatbot together with its characteristics. The insert
// is all-or-nothing: a failing characteristic rolls back the chatbot as well.
func (r *ChatbotRepository) Create(chatbot *domain.Chatbot) error {
	if chatbot.ID == "" {
		chatbot.ID = uuid.New().String()
	}
	now := time.Now()
	chatbot.CreatedAt = now
	chatbot.UpdatedAt = now

	return r.db.WithTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO chatbots (id, user_id, name, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
		`, chatbot.ID, chatbot.UserID, chatbot.Name, chatbot.CreatedAt, chatbot.UpdatedAt)
		if err != nil {
			return err
		}

		for i := range chatbot.Characteristics {
			if err := insertCharacteristic(tx, &chatbot.Characteristics[i], chatbot.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertCharacteristic(tx *sql.Tx, ch *domain.Characteristic, chatbotID string) error {
	if ch.ID == "" {
		ch.ID = uuid.New().String()
	}
	ch.ChatbotID = chatbotID
	ch.CreatedAt = time.Now()

	_, err := tx.Exec(`
		INSERT INTO chatbot_characteristics (id, chatbot_id, content, created_at)
		VALUES (?, ?, ?, ?)
	`, ch.ID, ch.ChatbotID, ch.Content, ch.CreatedAt)
	return err
}

// Get retrieves a chatbot by ID, including its characteristics in insertion order
func (r *ChatbotRepository) Get(id string) (*domain.Chatbot, error) {
	chatbot := &domain.Chatbot{}
	var userID sql.NullString

	err := r.db.QueryRow(`
		SELECT id, user_id, name, created_at, updated_at
		FROM chatbots WHERE id = ?
	`, id).Scan(&chatbot.ID, &userID, &chatbot.Name, &chatbot.CreatedAt, &chatbot.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if userID.Valid {
		chatbot.UserID = userID.String
	}

	chatbot.Characteristics, err = r.characteristics(id)
	if err != nil {
		return nil, err
	}

	return chatbot, nil
}

func (r *ChatbotRepository) characteristics(chatbotID string) ([]domain.Characteristic, error) {
	rows, err := r.db.Query(`
		SELECT id, chatbot_id, content, created_at
		FROM chatbot_characteristics WHERE chatbot_id = ?
		ORDER BY created_at ASC, rowid ASC
	`, chatbotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	characteristics := make([]domain.Characteristic, 0)
	for rows.Next() {
		var ch domain.Characteristic
		if err := rows.Scan(&ch.ID, &ch.ChatbotID, &ch.Content, &ch.CreatedAt); err != nil {
			return nil, err
		}
		characteristics = append(characteristics, ch)
	}

	return characteristics, rows.Err()
}

// List retrieves all chatbots, or only those owned by userID when it is non-empty
func (r *ChatbotRepository) List(userID string) ([]*domain.Chatbot, error) {
	query := `SELECT id, user_id, name, created_at, updated_at FROM chatbots ORDER BY created_at DESC`
	args := []any{}
	if userID != "" {
		query = `SELECT id, user_id, name, created_at, updated_at FROM chatbots WHERE user_id = ? ORDER BY created_at DESC`
		args = append(args, userID)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chatbots []*domain.Chatbot
	for rows.Next() {
		chatbot := &domain.Chatbot{}
		var uid sql.NullString
		if err := rows.Scan(&chatbot.ID, &uid, &chatbot.Name, &chatbot.CreatedAt, &chatbot.UpdatedAt); err != nil {
			return nil, err
		}
		if uid.Valid {
			chatbot.UserID = uid.String
		}
		chatbots = append(chatbots, chatbot)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, chatbot := range chatbots {
		chatbot.Characteristics, err = r.characteristics(chatbot.ID)
		if err != nil {
			return nil, err
		}
	}

	return chatbots, nil
}

// UpdateName renames a chatbot
func (r *ChatbotRepository) UpdateName(id, name string) error {
	result, err := r.db.Exec(`
		UPDATE chatbots SET name = ?, updated_at = ? WHERE id = ?
	`, name, time.Now(), id)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// Delete deletes a chatbot; characteristics, sessions and messages cascade
func (r *ChatbotRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM chatbots WHERE id = ?`, id)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// AddCharacteristics appends characteristics to a chatbot all-or-nothing
func (r *ChatbotRepository) AddCharacteristics(chatbotID string, contents []string) ([]domain.Characteristic, error) {
	characteristics := make([]domain.Characteristic, len(contents))
	for i, content := range contents {
		characteristics[i] = domain.Characteristic{Content: content}
	}

	err := r.db.WithTx(func(tx *sql.Tx) error {
		for i := range characteristics {
			if err := insertCharacteristic(tx, &characteristics[i], chatbotID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return characteristics, nil
}

// RemoveCharacteristic deletes a single characteristic by ID
func (r *ChatbotRepository) RemoveCharacteristic(id string) error {
	result, err := r.db.Exec(`DELETE FROM chatbot_characteristics WHERE id = ?`, id)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// Count returns the total number of chatbots
func (r *ChatbotRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM chatbots`).Scan(&count)
	return count, err
}
