package service

import (
	"context"

	"github.com/spec-kit/secops-service/internal/domain"
	"github.com/spec-kit/secops-service/internal/repository"
)

// FinancialService totals the ledger.
type FinancialService struct {
	records repository.Collection[domain.FinancialRecord]
}

func NewFinancialService(records repository.Collection[domain.FinancialRecord]) *FinancialService {
	return &FinancialService{records: records}
}

// Summary sums amounts by record type. Outstanding is the invoiced amount not yet paid.
func (s *FinancialService) Summary(ctx context.Context) (*domain.FinancialSummary, error) {
	items, err := s.records.List(ctx)
	if err != nil {
		return nil, translate("financial records", "", err)
	}
	summary := &domain.FinancialSummary{RecordCount: len(items)}
	for _, r := range items {
		switch r.RecordType {
		case domain.RecordTypeIncome:
			summary.TotalIncome += r.Amount
		case domain.RecordTypeExpense:
			summary.TotalExpenses += r.Amount
		case domain.RecordTypeInvoice:
			summary.TotalInvoiced += r.Amount
			if r.Status != domain.PaymentStatusPaid {
				summary.Outstanding += r.Amount
			}
		}
	}
	summary.NetIncome = summary.TotalIncome - summary.TotalExpenses
	return summary, nil
}
