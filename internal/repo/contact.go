package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/pcbuilderguide/pcbg/internal/models"
)

// ContactRepo persists contact form submissions. There is no update or delete.
type ContactRepo struct {
	DB *sql.DB
}

// NewContactRepo returns a new ContactRepo.
func NewContactRepo(db *sql.DB) *ContactRepo {
	return &ContactRepo{DB: db}
}

// Create stores a message with a server-assigned id and timestamp.
func (r *ContactRepo) Create(ctx context.Context, in models.NewContactMessage) (*models.ContactMessage, error) {
	query := `
		INSERT INTO contact_messages (name, email, subject, message, build_purpose, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	m := &models.ContactMessage{
		Name:         in.Name,
		Email:        in.Email,
		Subject:      in.Subject,
		Message:      in.Message,
		BuildPurpose: append([]string(nil), in.BuildPurpose...),
	}
	err := r.DB.QueryRowContext(ctx, query,
		in.Name, in.Email, in.Subject, in.Message, pq.Array(in.BuildPurpose), time.Now().UTC()).
		Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// List returns every message in insertion order. Unpaginated.
func (r *ContactRepo) List(ctx context.Context) ([]models.ContactMessage, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, name, email, subject, message, build_purpose, created_at FROM contact_messages ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.ContactMessage{}
	for rows.Next() {
		var m models.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message,
			pq.Array(&m.BuildPurpose), &m.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// Count returns the number of stored messages.
func (r *ContactRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM contact_messages`).Scan(&n)
	return n, err
}
