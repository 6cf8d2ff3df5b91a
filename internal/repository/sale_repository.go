package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"parts-store/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrSaleNotFound       = errors.New("sale not found")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrReceiptNumberTaken = errors.New("receipt number already in use")
)

// SaleListFilter narrows down sale listings. A non-nil SalespersonID
// restricts results to that seller's sales.
type SaleListFilter struct {
	SalespersonID *uuid.UUID
	ClientID      *uuid.UUID
}

// SaleRepository defines the interface for sale data access
type SaleRepository interface {
	// CreateSale persists the sale header, its line items, and the stock
	// decrements in a single transaction. Stock is re-checked under row
	// locks; ErrInsufficientStock aborts the whole operation.
	CreateSale(ctx context.Context, sale *domain.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Sale, error)
	List(ctx context.Context, filter SaleListFilter) ([]*domain.Sale, error)
	Update(ctx context.Context, sale *domain.Sale) error
	// LastReceiptNumber returns the receipt with the greatest numeric
	// suffix for the given prefix, or "" when none exists.
	LastReceiptNumber(ctx context.Context, prefix string) (string, error)
}

type saleRepository struct {
	db *sql.DB
}

// NewSaleRepository creates a new instance of SaleRepository
func NewSaleRepository(db *sql.DB) SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) CreateSale(ctx context.Context, sale *domain.Sale) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin sale transaction: %w", err)
	}
	defer tx.Rollback()

	// Sum quantities per product first: a product split across several cart
	// lines must be checked against its stock once, as a whole.
	needed := make(map[uuid.UUID]int, len(sale.Items))
	productIDs := make([]uuid.UUID, 0, len(sale.Items))
	for _, item := range sale.Items {
		if _, seen := needed[item.ProductID]; !seen {
			productIDs = append(productIDs, item.ProductID)
		}
		needed[item.ProductID] += item.Quantity
	}

	// Lock product rows in a stable order so two concurrent sales touching
	// the same products cannot deadlock.
	sort.Slice(productIDs, func(i, j int) bool {
		return productIDs[i].String() < productIDs[j].String()
	})

	for _, productID := range productIDs {
		var stock int
		err := tx.QueryRowContext(
			ctx,
			`SELECT stock FROM products WHERE id = $1 FOR UPDATE`,
			productID,
		).Scan(&stock)
		if err != nil {
			if err == sql.ErrNoRows {
				return ErrProductNotFound
			}
			return fmt.Errorf("failed to lock product %s: %w", productID, err)
		}

		if stock < needed[productID] {
			return fmt.Errorf("%w: product %s has %d units, %d requested",
				ErrInsufficientStock, productID, stock, needed[productID])
		}
	}

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO sales (id, client_id, salesperson_id, channel, status, payment_method, receipt_number, total, sold_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		sale.ID,
		sale.ClientID,
		sale.SalespersonID,
		sale.Channel,
		sale.Status,
		sale.PaymentMethod,
		sale.ReceiptNumber,
		sale.Total,
		sale.SoldAt,
	)
	if err != nil {
		if isUniqueViolation(err, "sales_receipt_number_key") {
			return ErrReceiptNumberTaken
		}
		return fmt.Errorf("failed to insert sale: %w", err)
	}

	for _, item := range sale.Items {
		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO sale_items (id, sale_id, product_id, quantity, unit_price)
			 VALUES ($1, $2, $3, $4, $5)`,
			item.ID,
			item.SaleID,
			item.ProductID,
			item.Quantity,
			item.UnitPrice,
		)
		if err != nil {
			return fmt.Errorf("failed to insert sale item: %w", err)
		}

		_, err = tx.ExecContext(
			ctx,
			`UPDATE products SET stock = stock - $2 WHERE id = $1`,
			item.ProductID,
			item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("failed to decrement stock: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit sale: %w", err)
	}

	return nil
}

func (r *saleRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Sale, error) {
	query := `
		SELECT id, client_id, salesperson_id, channel, status, payment_method, receipt_number, total, sold_at
		FROM sales
		WHERE id = $1
	`

	sale := &domain.Sale{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&sale.ID,
		&sale.ClientID,
		&sale.SalespersonID,
		&sale.Channel,
		&sale.Status,
		&sale.PaymentMethod,
		&sale.ReceiptNumber,
		&sale.Total,
		&sale.SoldAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("failed to find sale by ID: %w", err)
	}

	items, err := r.findItems(ctx, id)
	if err != nil {
		return nil, err
	}
	sale.Items = items

	return sale, nil
}

func (r *saleRepository) findItems(ctx context.Context, saleID uuid.UUID) ([]*domain.SaleLineItem, error) {
	query := `
		SELECT id, sale_id, product_id, quantity, unit_price
		FROM sale_items
		WHERE sale_id = $1
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sale items: %w", err)
	}
	defer rows.Close()

	items := []*domain.SaleLineItem{}
	for rows.Next() {
		item := &domain.SaleLineItem{}
		if err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan sale item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sale items: %w", err)
	}

	return items, nil
}

func (r *saleRepository) List(ctx context.Context, filter SaleListFilter) ([]*domain.Sale, error) {
	query := `
		SELECT id, client_id, salesperson_id, channel, status, payment_method, receipt_number, total, sold_at
		FROM sales
	`

	conditions := ""
	args := []interface{}{}
	argIndex := 1

	if filter.SalespersonID != nil {
		conditions = fmt.Sprintf("WHERE salesperson_id = $%d", argIndex)
		args = append(args, *filter.SalespersonID)
		argIndex++
	}
	if filter.ClientID != nil {
		if conditions == "" {
			conditions = fmt.Sprintf("WHERE client_id = $%d", argIndex)
		} else {
			conditions += fmt.Sprintf(" AND client_id = $%d", argIndex)
		}
		args = append(args, *filter.ClientID)
	}

	query = fmt.Sprintf("%s %s ORDER BY sold_at DESC", query, conditions)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	defer rows.Close()

	sales := []*domain.Sale{}
	for rows.Next() {
		sale := &domain.Sale{}
		if err := rows.Scan(
			&sale.ID,
			&sale.ClientID,
			&sale.SalespersonID,
			&sale.Channel,
			&sale.Status,
			&sale.PaymentMethod,
			&sale.ReceiptNumber,
			&sale.Total,
			&sale.SoldAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		sales = append(sales, sale)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sales: %w", err)
	}

	return sales, nil
}

// Update persists header changes (status, payment method, receipt number).
// Line items are immutable and sales are never deleted.
func (r *saleRepository) Update(ctx context.Context, sale *domain.Sale) error {
	query := `
		UPDATE sales
		SET status = $2, payment_method = $3, receipt_number = $4
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, sale.ID, sale.Status, sale.PaymentMethod, sale.ReceiptNumber)
	if err != nil {
		if isUniqueViolation(err, "sales_receipt_number_key") {
			return ErrReceiptNumberTaken
		}
		return fmt.Errorf("failed to update sale: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrSaleNotFound
	}

	return nil
}

// LastReceiptNumber orders by the numeric suffix rather than the raw string,
// so COMP-2025-10000 still sorts after COMP-2025-9999.
func (r *saleRepository) LastReceiptNumber(ctx context.Context, prefix string) (string, error) {
	query := `
		SELECT receipt_number
		FROM sales
		WHERE receipt_number LIKE $1 || '%'
		ORDER BY NULLIF(regexp_replace(substring(receipt_number FROM char_length($1) + 1), '\D', '', 'g'), '')::bigint DESC NULLS LAST
		LIMIT 1
	`

	var receipt string
	err := r.db.QueryRowContext(ctx, query, prefix).Scan(&receipt)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("failed to query last receipt number: %w", err)
	}

	return receipt, nil
}
