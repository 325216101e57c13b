// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/advisory-portal/backend/internal/domain/entity"
)

// UserModel represents the user table in the database.
type UserModel struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Email              string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name               string     `gorm:"type:varchar(100);not null"`
	PasswordHash       string     `gorm:"type:varchar(255);not null"`
	Role               string     `gorm:"type:varchar(10);not null;default:'client';index"`
	PayoutWindowStart  *time.Time `gorm:"type:date"`
	PayoutWindowEnd    *time.Time `gorm:"type:date"`
	EmailNotifications bool       `gorm:"default:true"`
	CreatedAt          time.Time  `gorm:"not null"`
	UpdatedAt          time.Time  `gorm:"not null"`
}

// TableName returns the table name for the UserModel.
func (UserModel) TableName() string {
	return "users"
}

// ToEntity converts a UserModel to a domain User entity.
func (m *UserModel) ToEntity() *entity.User {
	return &entity.User{
		ID:                 m.ID,
		Email:              m.Email,
		Name:               m.Name,
		PasswordHash:       m.PasswordHash,
		Role:               entity.UserRole(m.Role),
		PayoutWindowStart:  m.PayoutWindowStart,
		PayoutWindowEnd:    m.PayoutWindowEnd,
		EmailNotifications: m.EmailNotifications,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

// FromEntity creates a UserModel from a domain User entity.
func FromEntity(user *entity.User) *UserModel {
	return &UserModel{
		ID:                 user.ID,
		Email:              user.Email,
		Name:               user.Name,
		PasswordHash:       user.PasswordHash,
		Role:               string(user.Role),
		PayoutWindowStart:  user.PayoutWindowStart,
		PayoutWindowEnd:    user.PayoutWindowEnd,
		EmailNotifications: user.EmailNotifications,
		CreatedAt:          user.CreatedAt,
		UpdatedAt:          user.UpdatedAt,
	}
}
