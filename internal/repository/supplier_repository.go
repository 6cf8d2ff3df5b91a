package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"parts-store/internal/domain"

	"github.com/google/uuid"
)

var ErrSupplierNotFound = errors.New("supplier not found")

// SupplierRepository defines the interface for supplier data access
type SupplierRepository interface {
	Create(ctx context.Context, supplier *domain.Supplier) error
	Update(ctx context.Context, supplier *domain.Supplier) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*domain.Supplier, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Supplier, error)
}

type supplierRepository struct {
	db *sql.DB
}

// NewSupplierRepository creates a new instance of SupplierRepository
func NewSupplierRepository(db *sql.DB) SupplierRepository {
	return &supplierRepository{db: db}
}

func (r *supplierRepository) Create(ctx context.Context, supplier *domain.Supplier) error {
	query := `
		INSERT INTO suppliers (id, name, contact, phone, email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		supplier.ID,
		supplier.Name,
		supplier.Contact,
		supplier.Phone,
		supplier.Email,
		supplier.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create supplier: %w", err)
	}

	return nil
}

func (r *supplierRepository) Update(ctx context.Context, supplier *domain.Supplier) error {
	query := `
		UPDATE suppliers
		SET name = $2, contact = $3, phone = $4, email = $5
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		supplier.ID,
		supplier.Name,
		supplier.Contact,
		supplier.Phone,
		supplier.Email,
	)
	if err != nil {
		return fmt.Errorf("failed to update supplier: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrSupplierNotFound
	}

	return nil
}

func (r *supplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete supplier: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrSupplierNotFound
	}

	return nil
}

func (r *supplierRepository) List(ctx context.Context) ([]*domain.Supplier, error) {
	query := `
		SELECT id, name, contact, phone, email, created_at
		FROM suppliers
		ORDER BY name ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	defer rows.Close()

	suppliers := []*domain.Supplier{}
	for rows.Next() {
		supplier := &domain.Supplier{}
		if err := rows.Scan(
			&supplier.ID,
			&supplier.Name,
			&supplier.Contact,
			&supplier.Phone,
			&supplier.Email,
			&supplier.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan supplier: %w", err)
		}
		suppliers = append(suppliers, supplier)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating suppliers: %w", err)
	}

	return suppliers, nil
}

func (r *supplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Supplier, error) {
	query := `
		SELECT id, name, contact, phone, email, created_at
		FROM suppliers
		WHERE id = $1
	`

	supplier := &domain.Supplier{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&supplier.ID,
		&supplier.Name,
		&supplier.Contact,
		&supplier.Phone,
		&supplier.Email,
		&supplier.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSupplierNotFound
		}
		return nil, fmt.Errorf("failed to find supplier by ID: %w", err)
	}

	return supplier, nil
}
