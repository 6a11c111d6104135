package repository

import (
	"database/sql"
	"time"

	"github.com/botstudio/botstudio/internal/domain"
	"github.com/google/uuid"
)

// GuestRepository handles guest persistence
type GuestRepository struct {
	db *DB
}

// NewGuestRepository creates a new guest repository
func NewGuestRepository(db *DB) *GuestRepository {
	return &GuestRepository{db: db}
}

// Create creates a new guest
func (r *GuestRepository) Create(guest *domain.Guest) error {
	stampGuest(guest)
	_, err := r.db.Exec(`
		INSERT INTO guests (id, name, email, created_at)
		VALUES (?, ?, ?, ?)
	`, guest.ID, guest.Name, guest.Email, guest.CreatedAt)
	return err
}

// CreateTx creates a new guest inside an existing transaction
func (r *GuestRepository) CreateTx(tx *sql.Tx, guest *domain.Guest) error {
	stampGuest(guest)
	_, err := tx.Exec(`
		INSERT INTO guests (id, name, email, created_at)
		VALUES (?, ?, ?, ?)
	`, guest.ID, guest.Name, guest.Email, guest.CreatedAt)
	return err
}

func stampGuest(guest *domain.Guest) {
	if guest.ID == "" {
		guest.ID = uuid.New().String()
	}
	guest.CreatedAt = time.Now()
}

// Get retrieves a guest by ID
func (r *GuestRepository) Get(id string) (*domain.Guest, error) {
	guest := &domain.Guest{}
	err := r.db.QueryRow(`
		SELECT id, name, email, created_at
		FROM guests WHERE id = ?
	`, id).Scan(&guest.ID, &guest.Name, &guest.Email, &guest.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return guest, nil
}

// Count returns the total number of guests
func (r *GuestRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM guests`).Scan(&count)
	return count, err
}
