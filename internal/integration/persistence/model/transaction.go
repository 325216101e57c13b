// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/advisory-portal/backend/internal/domain/entity"
)

// TransactionModel represents the transactions table in the database.
// idx_payout_window keeps at most one live payout per investor, window and kind.
type TransactionModel struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	InvestorID         uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_payout_window,priority:1,where:deleted_at IS NULL"`
	Kind               string          `gorm:"type:varchar(20);not null;index;uniqueIndex:idx_payout_window,priority:4"`
	Amount             decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	OccurredOn         time.Time       `gorm:"type:date;not null;index"`
	InvestmentCategory string          `gorm:"type:varchar(30);index"`
	PayoutWindowStart  *time.Time      `gorm:"type:date;uniqueIndex:idx_payout_window,priority:2"`
	PayoutWindowEnd    *time.Time      `gorm:"type:date;uniqueIndex:idx_payout_window,priority:3"`
	Status             string          `gorm:"type:varchar(20);not null;default:'completed';index"`
	Description        string          `gorm:"type:varchar(255)"`
	Notes              string          `gorm:"type:text"`
	CreatedAt          time.Time       `gorm:"not null"`
	UpdatedAt          time.Time       `gorm:"not null"`
	DeletedAt          gorm.DeletedAt  `gorm:"index"`

	Investor *UserModel `gorm:"foreignKey:InvestorID;references:ID"`
}

// TableName returns the table name for the TransactionModel.
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToEntity converts a TransactionModel to a domain Transaction entity.
func (m *TransactionModel) ToEntity() *entity.Transaction {
	var deletedAt *time.Time
	if m.DeletedAt.Valid {
		deletedAt = &m.DeletedAt.Time
	}

	return &entity.Transaction{
		ID:                 m.ID,
		InvestorID:         m.InvestorID,
		Kind:               entity.TransactionKind(m.Kind),
		Amount:             m.Amount,
		OccurredOn:         m.OccurredOn,
		InvestmentCategory: entity.InvestmentCategory(m.InvestmentCategory),
		PayoutWindowStart:  m.PayoutWindowStart,
		PayoutWindowEnd:    m.PayoutWindowEnd,
		Status:             entity.TransactionStatus(m.Status),
		Description:        m.Description,
		Notes:              m.Notes,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
		DeletedAt:          deletedAt,
	}
}

// TransactionFromEntity creates a TransactionModel from a domain Transaction entity.
func TransactionFromEntity(transaction *entity.Transaction) *TransactionModel {
	var deletedAt gorm.DeletedAt
	if transaction.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *transaction.DeletedAt, Valid: true}
	}

	return &TransactionModel{
		ID:                 transaction.ID,
		InvestorID:         transaction.InvestorID,
		Kind:               string(transaction.Kind),
		Amount:             transaction.Amount,
		OccurredOn:         transaction.OccurredOn,
		InvestmentCategory: string(transaction.InvestmentCategory),
		PayoutWindowStart:  transaction.PayoutWindowStart,
		PayoutWindowEnd:    transaction.PayoutWindowEnd,
		Status:             string(transaction.Status),
		Description:        transaction.Description,
		Notes:              transaction.Notes,
		CreatedAt:          transaction.CreatedAt,
		UpdatedAt:          transaction.UpdatedAt,
		DeletedAt:          deletedAt,
	}
}
