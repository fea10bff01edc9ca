package domain

import (
	"errors"
	"time"
)

// FinancialRecordType distinguishes ledger entries.
type FinancialRecordType string

const (
	RecordTypeIncome  FinancialRecordType = "income"
	RecordTypeExpense FinancialRecordType = "expense"
	RecordTypeInvoice FinancialRecordType = "invoice"
)

// PaymentStatus enumerates settlement states.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusOverdue PaymentStatus = "overdue"
)

// FinancialRecord is a bookkeeping entry.
type FinancialRecord struct {
	Meta
	ClientID    *string             `json:"client_id"`
	RecordType  FinancialRecordType `json:"record_type"`
	Category    string              `json:"category"`
	Description string              `json:"description"`
	Amount      float64             `json:"amount"`
	Status      PaymentStatus       `json:"status"`
	RecordDate  time.Time           `json:"record_date"`
	DueDate     *time.Time          `json:"due_date"`
}

// Validate checks required fields and applies defaults.
func (f *FinancialRecord) Validate() error {
	switch f.RecordType {
	case RecordTypeIncome, RecordTypeExpense, RecordTypeInvoice:
	default:
		return errors.New("record_type must be income, expense or invoice")
	}
	if f.Amount < 0 {
		return errors.New("amount must not be negative")
	}
	if f.Status == "" {
		f.Status = PaymentStatusPending
	}
	return nil
}

// FinancialSummary totals the ledger.
type FinancialSummary struct {
	TotalIncome   float64 `json:"total_income"`
	TotalExpenses float64 `json:"total_expenses"`
	TotalInvoiced float64 `json:"total_invoiced"`
	Outstanding   float64 `json:"outstanding"`
	NetIncome     float64 `json:"net_income"`
	RecordCount   int     `json:"record_count"`
}
