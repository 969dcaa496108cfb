package leads

import (
	"context"
	"database/sql"

	"site-integrations/internal/models"
)

// Repository stores contact-form submissions.
type Repository interface {
	CreateContact(ctx context.Context, c models.Contact) error
}

const insertContactQuery = `
	INSERT INTO contacts (
		id, name, email, phone, company, website,
		message, source, status, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateContact(ctx context.Context, c models.Contact) error {
	_, err := r.db.ExecContext(ctx, insertContactQuery,
		c.ID,
		c.Name,
		c.Email,
		nullable(c.Phone),
		nullable(c.Company),
		nullable(c.Website),
		nullable(c.Message),
		c.Source,
		c.Status,
		c.CreatedAt,
	)
	return err
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
