package payout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/advisory-portal/backend/internal/domain/entity"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func txn(kind entity.TransactionKind, amount string, on time.Time, category entity.InvestmentCategory) *entity.Transaction {
	return &entity.Transaction{
		ID:                 uuid.New(),
		Kind:               kind,
		Amount:             dec(amount),
		OccurredOn:         on,
		InvestmentCategory: category,
		Status:             entity.StatusCompleted,
	}
}

func withStatus(t *entity.Transaction, status entity.TransactionStatus) *entity.Transaction {
	t.Status = status
	return t
}
