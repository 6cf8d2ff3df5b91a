package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"parts-store/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrClientNotFound      = errors.New("client not found")
	ErrClientAlreadyExists = errors.New("client with this email already exists")
)

// ClientRepository defines the interface for client data access
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	Update(ctx context.Context, client *domain.Client) error
	FindByEmail(ctx context.Context, email string) (*domain.Client, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Client, error)
	List(ctx context.Context) ([]*domain.Client, error)
}

type clientRepository struct {
	db *sql.DB
}

// NewClientRepository creates a new instance of ClientRepository
func NewClientRepository(db *sql.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	query := `
		INSERT INTO clients (id, name, email, password_hash, phone, address, verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		client.ID,
		client.Name,
		client.Email,
		client.PasswordHash,
		client.Phone,
		client.Address,
		client.Verified,
		client.CreatedAt,
		client.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err, "clients_email_key") {
			return ErrClientAlreadyExists
		}
		return fmt.Errorf("failed to create client: %w", err)
	}

	return nil
}

func (r *clientRepository) Update(ctx context.Context, client *domain.Client) error {
	query := `
		UPDATE clients
		SET name = $2, email = $3, phone = $4, address = $5, verified = $6
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		client.ID,
		client.Name,
		client.Email,
		client.Phone,
		client.Address,
		client.Verified,
	)
	if err != nil {
		if isUniqueViolation(err, "clients_email_key") {
			return ErrClientAlreadyExists
		}
		return fmt.Errorf("failed to update client: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrClientNotFound
	}

	return nil
}

func (r *clientRepository) FindByEmail(ctx context.Context, email string) (*domain.Client, error) {
	query := `
		SELECT id, name, email, password_hash, phone, address, verified, created_at, updated_at
		FROM clients
		WHERE email = $1
	`

	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *clientRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	query := `
		SELECT id, name, email, password_hash, phone, address, verified, created_at, updated_at
		FROM clients
		WHERE id = $1
	`

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *clientRepository) List(ctx context.Context) ([]*domain.Client, error) {
	query := `
		SELECT id, name, email, password_hash, phone, address, verified, created_at, updated_at
		FROM clients
		ORDER BY name ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	clients := []*domain.Client{}
	for rows.Next() {
		client := &domain.Client{}
		if err := rows.Scan(
			&client.ID,
			&client.Name,
			&client.Email,
			&client.PasswordHash,
			&client.Phone,
			&client.Address,
			&client.Verified,
			&client.CreatedAt,
			&client.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, client)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating clients: %w", err)
	}

	return clients, nil
}

func (r *clientRepository) scanOne(row *sql.Row) (*domain.Client, error) {
	client := &domain.Client{}
	err := row.Scan(
		&client.ID,
		&client.Name,
		&client.Email,
		&client.PasswordHash,
		&client.Phone,
		&client.Address,
		&client.Verified,
		&client.CreatedAt,
		&client.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to find client: %w", err)
	}

	return client, nil
}
