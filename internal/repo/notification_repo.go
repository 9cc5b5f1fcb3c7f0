// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the notification log used as the
// at-most-once-per-day delivery ledger for reminders.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/domain"
)

// NotificationExists reports whether a delivery attempt for (subject, type,
// sendDate) was already recorded, whatever its outcome.
func NotificationExists(ctx context.Context, db *gorm.DB, subjectKey string, typ domain.NotificationType, sendDate time.Time) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.NotificationLog{}).
		Where("subject_key = ? AND type = ? AND send_date = ?", subjectKey, typ, sendDate).
		Count(&n).Error
	return n > 0, err
}

// CreateNotificationLog records a delivery attempt. A concurrent sweep that
// already logged the same key yields ErrDuplicate.
func CreateNotificationLog(ctx context.Context, db *gorm.DB, l *domain.NotificationLog) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	if err := db.WithContext(ctx).Create(l).Error; err != nil {
		if IsDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// ListNotificationLogs returns the delivery history for a subject key,
// newest first.
func ListNotificationLogs(ctx context.Context, db *gorm.DB, subjectKey string) ([]domain.NotificationLog, error) {
	var out []domain.NotificationLog
	err := db.WithContext(ctx).
		Where("subject_key = ?", subjectKey).
		Order("send_date desc").
		Order("created_at desc").
		Find(&out).Error
	return out, err
}
