package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"parts-store/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AdminDashboard aggregates storewide counters for the admin landing page
type AdminDashboard struct {
	TotalUsers       int             `json:"total_users"`
	TotalClients     int             `json:"total_clients"`
	TotalProducts    int             `json:"total_products"`
	TotalSales       int             `json:"total_sales"`
	SalesToday       int             `json:"sales_today"`
	LowStockProducts int             `json:"low_stock_products"`
	ConfirmedRevenue decimal.Decimal `json:"confirmed_revenue"`
}

// SellerDashboard aggregates one salesperson's activity
type SellerDashboard struct {
	SalesToday       int             `json:"sales_today"`
	SalesThisMonth   int             `json:"sales_this_month"`
	TotalSales       int             `json:"total_sales"`
	RevenueThisMonth decimal.Decimal `json:"revenue_this_month"`
	RecentSales      []*domain.Sale  `json:"recent_sales"`
}

// StatusBreakdown is the count and total of sales in one status
type StatusBreakdown struct {
	Status domain.SaleStatus `json:"status"`
	Count  int               `json:"count"`
	Total  decimal.Decimal   `json:"total"`
}

// PaymentBreakdown is the count and total of sales per payment method
type PaymentBreakdown struct {
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
	Count         int                  `json:"count"`
	Total         decimal.Decimal      `json:"total"`
}

// TopProduct is a product ranked by units sold
type TopProduct struct {
	ProductID    uuid.UUID `json:"product_id"`
	Name         string    `json:"name"`
	QuantitySold int       `json:"quantity_sold"`
}

// TopClient is a client ranked by number of purchases
type TopClient struct {
	ClientID  uuid.UUID `json:"client_id"`
	Name      string    `json:"name"`
	Purchases int       `json:"purchases"`
}

// ClientNotification is one entry in a customer's notification feed,
// derived from the status of their own purchases
type ClientNotification struct {
	SaleID        uuid.UUID         `json:"sale_id"`
	ReceiptNumber *string           `json:"receipt_number,omitempty"`
	Status        domain.SaleStatus `json:"status"`
	Total         decimal.Decimal   `json:"total"`
	SoldAt        time.Time         `json:"sold_at"`
	Message       string            `json:"message,omitempty"`
}

// FavoriteProduct is a product ranked by how many units one client bought
type FavoriteProduct struct {
	ProductID      uuid.UUID `json:"product_id"`
	Name           string    `json:"name"`
	QuantityBought int       `json:"quantity_bought"`
}

// ReportRepository provides read-only aggregations over sales data
type ReportRepository interface {
	AdminDashboard(ctx context.Context) (*AdminDashboard, error)
	SellerDashboard(ctx context.Context, salespersonID uuid.UUID) (*SellerDashboard, error)
	SalesByStatus(ctx context.Context, from, to time.Time) ([]StatusBreakdown, error)
	SalesByPaymentMethod(ctx context.Context, from, to time.Time) ([]PaymentBreakdown, error)
	TopProducts(ctx context.Context, limit int) ([]TopProduct, error)
	TopClients(ctx context.Context, limit int) ([]TopClient, error)
	ClientNotifications(ctx context.Context, clientID uuid.UUID, limit int) ([]ClientNotification, error)
	FavoriteProducts(ctx context.Context, clientID uuid.UUID, limit int) ([]FavoriteProduct, error)
}

type reportRepository struct {
	db *sql.DB
}

// NewReportRepository creates a new instance of ReportRepository
func NewReportRepository(db *sql.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) AdminDashboard(ctx context.Context) (*AdminDashboard, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM clients),
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM sales),
			(SELECT COUNT(*) FROM sales WHERE sold_at::date = CURRENT_DATE),
			(SELECT COUNT(*) FROM products WHERE stock <= min_stock),
			(SELECT COALESCE(SUM(total), 0) FROM sales WHERE status = 'confirmed')
	`

	dashboard := &AdminDashboard{}
	err := r.db.QueryRowContext(ctx, query).Scan(
		&dashboard.TotalUsers,
		&dashboard.TotalClients,
		&dashboard.TotalProducts,
		&dashboard.TotalSales,
		&dashboard.SalesToday,
		&dashboard.LowStockProducts,
		&dashboard.ConfirmedRevenue,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build admin dashboard: %w", err)
	}

	return dashboard, nil
}

func (r *reportRepository) SellerDashboard(ctx context.Context, salespersonID uuid.UUID) (*SellerDashboard, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE sold_at::date = CURRENT_DATE),
			COUNT(*) FILTER (WHERE date_trunc('month', sold_at) = date_trunc('month', CURRENT_DATE)),
			COUNT(*),
			COALESCE(SUM(total) FILTER (WHERE status = 'confirmed' AND date_trunc('month', sold_at) = date_trunc('month', CURRENT_DATE)), 0)
		FROM sales
		WHERE salesperson_id = $1
	`

	dashboard := &SellerDashboard{}
	err := r.db.QueryRowContext(ctx, query, salespersonID).Scan(
		&dashboard.SalesToday,
		&dashboard.SalesThisMonth,
		&dashboard.TotalSales,
		&dashboard.RevenueThisMonth,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build seller dashboard: %w", err)
	}

	recentQuery := `
		SELECT id, client_id, salesperson_id, channel, status, payment_method, receipt_number, total, sold_at
		FROM sales
		WHERE salesperson_id = $1
		ORDER BY sold_at DESC
		LIMIT 5
	`

	rows, err := r.db.QueryContext(ctx, recentQuery, salespersonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent sales: %w", err)
	}
	defer rows.Close()

	dashboard.RecentSales = []*domain.Sale{}
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
			return nil, fmt.Errorf("failed to scan recent sale: %w", err)
		}
		dashboard.RecentSales = append(dashboard.RecentSales, sale)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recent sales: %w", err)
	}

	return dashboard, nil
}

func (r *reportRepository) SalesByStatus(ctx context.Context, from, to time.Time) ([]StatusBreakdown, error) {
	query := `
		SELECT status, COUNT(*), COALESCE(SUM(total), 0)
		FROM sales
		WHERE sold_at >= $1 AND sold_at < $2
		GROUP BY status
		ORDER BY status
	`

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to group sales by status: %w", err)
	}
	defer rows.Close()

	breakdowns := []StatusBreakdown{}
	for rows.Next() {
		var b StatusBreakdown
		if err := rows.Scan(&b.Status, &b.Count, &b.Total); err != nil {
			return nil, fmt.Errorf("failed to scan status breakdown: %w", err)
		}
		breakdowns = append(breakdowns, b)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status breakdown: %w", err)
	}

	return breakdowns, nil
}

func (r *reportRepository) SalesByPaymentMethod(ctx context.Context, from, to time.Time) ([]PaymentBreakdown, error) {
	query := `
		SELECT payment_method, COUNT(*), COALESCE(SUM(total), 0)
		FROM sales
		WHERE sold_at >= $1 AND sold_at < $2
		GROUP BY payment_method
		ORDER BY payment_method
	`

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to group sales by payment method: %w", err)
	}
	defer rows.Close()

	breakdowns := []PaymentBreakdown{}
	for rows.Next() {
		var b PaymentBreakdown
		if err := rows.Scan(&b.PaymentMethod, &b.Count, &b.Total); err != nil {
			return nil, fmt.Errorf("failed to scan payment breakdown: %w", err)
		}
		breakdowns = append(breakdowns, b)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment breakdown: %w", err)
	}

	return breakdowns, nil
}

func (r *reportRepository) TopProducts(ctx context.Context, limit int) ([]TopProduct, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT p.id, p.name, SUM(si.quantity) AS quantity_sold
		FROM sale_items si
		JOIN products p ON p.id = si.product_id
		GROUP BY p.id, p.name
		ORDER BY quantity_sold DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank top products: %w", err)
	}
	defer rows.Close()

	products := []TopProduct{}
	for rows.Next() {
		var p TopProduct
		if err := rows.Scan(&p.ProductID, &p.Name, &p.QuantitySold); err != nil {
			return nil, fmt.Errorf("failed to scan top product: %w", err)
		}
		products = append(products, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating top products: %w", err)
	}

	return products, nil
}

// ClientNotifications lists the client's own sales newest first, as the raw
// material for their notification feed
func (r *reportRepository) ClientNotifications(ctx context.Context, clientID uuid.UUID, limit int) ([]ClientNotification, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, receipt_number, status, total, sold_at
		FROM sales
		WHERE client_id = $1
		ORDER BY sold_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, clientID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list client notifications: %w", err)
	}
	defer rows.Close()

	notifications := []ClientNotification{}
	for rows.Next() {
		var n ClientNotification
		if err := rows.Scan(&n.SaleID, &n.ReceiptNumber, &n.Status, &n.Total, &n.SoldAt); err != nil {
			return nil, fmt.Errorf("failed to scan client notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating client notifications: %w", err)
	}

	return notifications, nil
}

// FavoriteProducts ranks the products one client buys most, skipping
// anything currently out of stock
func (r *reportRepository) FavoriteProducts(ctx context.Context, clientID uuid.UUID, limit int) ([]FavoriteProduct, error) {
	if limit <= 0 {
		limit = 5
	}

	query := `
		SELECT p.id, p.name, SUM(si.quantity) AS quantity_bought
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		JOIN products p ON p.id = si.product_id
		WHERE s.client_id = $1 AND p.stock > 0
		GROUP BY p.id, p.name
		ORDER BY quantity_bought DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, clientID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank favorite products: %w", err)
	}
	defer rows.Close()

	favorites := []FavoriteProduct{}
	for rows.Next() {
		var f FavoriteProduct
		if err := rows.Scan(&f.ProductID, &f.Name, &f.QuantityBought); err != nil {
			return nil, fmt.Errorf("failed to scan favorite product: %w", err)
		}
		favorites = append(favorites, f)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating favorite products: %w", err)
	}

	return favorites, nil
}

func (r *reportRepository) TopClients(ctx context.Context, limit int) ([]TopClient, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT c.id, c.name, COUNT(s.id) AS purchases
		FROM sales s
		JOIN clients c ON c.id = s.client_id
		GROUP BY c.id, c.name
		ORDER BY purchases DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank top clients: %w", err)
	}
	defer rows.Close()

	clients := []TopClient{}
	for rows.Next() {
		var c TopClient
		if err := rows.Scan(&c.ClientID, &c.Name, &c.Purchases); err != nil {
			return nil, fmt.Errorf("failed to scan top client: %w", err)
		}
		clients = append(clients, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating top clients: %w", err)
	}

	return clients, nil
}
