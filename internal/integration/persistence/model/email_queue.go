// Package model defines database models for persistence layer.
package model

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/advisory-portal/backend/internal/domain/entity"
)

// EmailQueueModel is a row of the outbound notification queue. A payout is announced by at
// most one row, enforced by the unique payout_id index.
type EmailQueueModel struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TemplateType   string     `gorm:"type:varchar(50);not null"`
	PayoutID       *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_email_queue_payout"`
	RecipientEmail string     `gorm:"type:varchar(255);not null"`
	RecipientName  string     `gorm:"type:varchar(255)"`
	Subject        string     `gorm:"type:varchar(500);not null"`
	TemplateData   string     `gorm:"type:jsonb;not null;default:'{}'"`
	Status         string     `gorm:"type:varchar(20);not null;default:'pending';index:idx_email_queue_ready,priority:1"`
	Attempts       int        `gorm:"not null;default:0"`
	MaxAttempts    int        `gorm:"not null;default:3"`
	LastError      string     `gorm:"type:text"`
	ResendID       string     `gorm:"type:varchar(100)"`
	CreatedAt      time.Time  `gorm:"not null"`
	ScheduledAt    time.Time  `gorm:"not null;index:idx_email_queue_ready,priority:2"`
	ProcessedAt    *time.Time `gorm:"type:timestamptz"`
}

func (EmailQueueModel) TableName() string {
	return "email_queue"
}

// ToEntity converts a queue row to an EmailJob. Unreadable template data becomes an empty map.
func (m *EmailQueueModel) ToEntity() *entity.EmailJob {
	data := make(map[string]any)
	if m.TemplateData != "" {
		if err := json.Unmarshal([]byte(m.TemplateData), &data); err != nil {
			slog.Warn("Failed to unmarshal email template data", "error", err, "jobID", m.ID)
			data = make(map[string]any)
		}
	}

	return &entity.EmailJob{
		ID:             m.ID,
		TemplateType:   entity.EmailTemplateType(m.TemplateType),
		PayoutID:       m.PayoutID,
		RecipientEmail: m.RecipientEmail,
		RecipientName:  m.RecipientName,
		Subject:        m.Subject,
		TemplateData:   data,
		Status:         entity.EmailStatus(m.Status),
		Attempts:       m.Attempts,
		MaxAttempts:    m.MaxAttempts,
		LastError:      m.LastError,
		ResendID:       m.ResendID,
		CreatedAt:      m.CreatedAt,
		ScheduledAt:    m.ScheduledAt,
		ProcessedAt:    m.ProcessedAt,
	}
}

// EmailQueueModelFromEntity creates a queue row from an EmailJob.
func EmailQueueModelFromEntity(job *entity.EmailJob) *EmailQueueModel {
	data, err := json.Marshal(job.TemplateData)
	if err != nil {
		slog.Error("Failed to marshal email template data", "error", err, "jobID", job.ID)
		data = []byte("{}")
	}

	return &EmailQueueModel{
		ID:             job.ID,
		TemplateType:   string(job.TemplateType),
		PayoutID:       job.PayoutID,
		RecipientEmail: job.RecipientEmail,
		RecipientName:  job.RecipientName,
		Subject:        job.Subject,
		TemplateData:   string(data),
		Status:         string(job.Status),
		Attempts:       job.Attempts,
		MaxAttempts:    job.MaxAttempts,
		LastError:      job.LastError,
		ResendID:       job.ResendID,
		CreatedAt:      job.CreatedAt,
		ScheduledAt:    job.ScheduledAt,
		ProcessedAt:    job.ProcessedAt,
	}
}
