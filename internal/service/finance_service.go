package service

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	domain "lomba-pmr/internal/domain/competition"
)

// FinanceSummaryRow is one aggregate bucket of the payment ledger.
type FinanceSummaryRow struct {
	Category string `db:"category" json:"category"`
	Status   string `db:"status" json:"status"`
	Payments int    `db:"payments" json:"payments"`
	Amount   int64  `db:"amount" json:"amount"`
}

// FinanceSummary is the committee's payment ledger overview.
type FinanceSummary struct {
	Rows          []FinanceSummaryRow `json:"rows"`
	TotalVerified int64               `json:"total_verified"`
}

// FinanceService aggregates the payment ledger with raw SQL; the grouping
// query does not fit the repository interfaces.
type FinanceService struct {
	db *sqlx.DB
}

// NewFinanceService creates a new finance service.
func NewFinanceService(db *sqlx.DB) *FinanceService {
	return &FinanceService{db: db}
}

// Summary aggregates payment totals by category and verification status.
func (s *FinanceService) Summary(ctx context.Context) (*FinanceSummary, error) {
	const query = `
		SELECT r.category AS category,
		       p.status AS status,
		       COUNT(*) AS payments,
		       COALESCE(SUM(p.amount), 0) AS amount
		FROM payment_records p
		JOIN school_registrations r ON r.id = p.registration_id
		GROUP BY r.category, p.status
		ORDER BY r.category, p.status`

	var rows []FinanceSummaryRow
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to aggregate payments: %w", err)
	}

	summary := &FinanceSummary{Rows: rows}
	for _, row := range rows {
		if row.Status == string(domain.PaymentVerified) {
			summary.TotalVerified += row.Amount
		}
	}
	return summary, nil
}
