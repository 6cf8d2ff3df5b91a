package service

import (
	"context"
	"fmt"
	"strconv"

	"parts-store/internal/repository"
)

// receiptPrefix is the fixed company prefix on every receipt number
const receiptPrefix = "COMP"

// ReceiptNumberGenerator produces sequential, year-scoped receipt numbers
// in the form COMP-<year>-<NNNN>.
type ReceiptNumberGenerator interface {
	Next(ctx context.Context, year int) (string, error)
}

type receiptNumberGenerator struct {
	saleRepo repository.SaleRepository
}

// NewReceiptNumberGenerator creates a generator backed by the sales table
func NewReceiptNumberGenerator(saleRepo repository.SaleRepository) ReceiptNumberGenerator {
	return &receiptNumberGenerator{saleRepo: saleRepo}
}

// Next returns the next receipt number for the year. The sequence starts at
// 0001 and increments from the greatest numeric suffix already assigned; a
// suffix that fails to parse restarts the sequence rather than failing the
// sale.
func (g *receiptNumberGenerator) Next(ctx context.Context, year int) (string, error) {
	prefix := fmt.Sprintf("%s-%d-", receiptPrefix, year)

	last, err := g.saleRepo.LastReceiptNumber(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("failed to look up last receipt number: %w", err)
	}

	if last == "" || len(last) <= len(prefix) {
		return prefix + "0001", nil
	}

	suffix, err := strconv.Atoi(last[len(prefix):])
	if err != nil {
		return prefix + "0001", nil
	}

	// No clamp past 9999: the suffix simply grows to five digits.
	return fmt.Sprintf("%s%04d", prefix, suffix+1), nil
}
