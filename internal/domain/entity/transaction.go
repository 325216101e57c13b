// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionKind represents the kind of money movement a transaction records.
type TransactionKind string

const (
	KindDeposit       TransactionKind = "deposit"
	KindInvestment    TransactionKind = "investment"
	KindLoanGiven     TransactionKind = "loan_given"
	KindWithdrawal    TransactionKind = "withdrawal"
	KindDividend      TransactionKind = "dividend"
	KindInterest      TransactionKind = "interest"
	KindLoanRepayment TransactionKind = "loan_repayment"
)

// TransactionKinds lists every supported transaction kind.
var TransactionKinds = []TransactionKind{
	KindDeposit,
	KindInvestment,
	KindLoanGiven,
	KindWithdrawal,
	KindDividend,
	KindInterest,
	KindLoanRepayment,
}

// IsValid reports whether the kind belongs to the supported set.
func (k TransactionKind) IsValid() bool {
	for _, kind := range TransactionKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// TransactionStatus represents the processing status of a transaction.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
)

// IsValid reports whether the status belongs to the supported set.
func (s TransactionStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// InvestmentCategory tags the investment product a transaction belongs to.
// An empty category is treated as a generic, equity-like investment.
type InvestmentCategory string

const (
	CategoryNone        InvestmentCategory = ""
	CategoryCommodities InvestmentCategory = "commodities"
	CategoryEquity      InvestmentCategory = "equity"
	CategoryFixedIncome InvestmentCategory = "fixed_income"
)

// IsValid reports whether the category is empty or one of the supported products.
func (c InvestmentCategory) IsValid() bool {
	switch c {
	case CategoryNone, CategoryCommodities, CategoryEquity, CategoryFixedIncome:
		return true
	}
	return false
}

// Transaction represents a dated money movement on an investor's account.
type Transaction struct {
	ID                 uuid.UUID
	InvestorID         uuid.UUID
	Kind               TransactionKind
	Amount             decimal.Decimal // Always non-negative; the kind carries the direction
	OccurredOn         time.Time
	InvestmentCategory InvestmentCategory
	PayoutWindowStart  *time.Time
	PayoutWindowEnd    *time.Time
	Status             TransactionStatus
	Description        string
	Notes              string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DeletedAt          *time.Time // Soft-delete support
}

// NewTransaction creates a new Transaction entity ready for persistence.
func NewTransaction(
	investorID uuid.UUID,
	kind TransactionKind,
	amount decimal.Decimal,
	occurredOn time.Time,
	category InvestmentCategory,
	status TransactionStatus,
	description string,
	notes string,
) *Transaction {
	now := time.Now().UTC()

	return &Transaction{
		ID:                 uuid.New(),
		InvestorID:         investorID,
		Kind:               kind,
		Amount:             amount,
		OccurredOn:         occurredOn,
		InvestmentCategory: category,
		Status:             status,
		Description:        description,
		Notes:              notes,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// IsCompleted returns true if the transaction has settled.
func (t *Transaction) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// TransactionListResult represents the result of listing transactions.
type TransactionListResult struct {
	Transactions []*Transaction
	Total        int64
	Page         int
	Limit        int
	TotalPages   int
}
