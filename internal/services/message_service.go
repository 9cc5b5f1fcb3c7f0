// Package services – MessageService
//
// This file implements MessageService, which owns incident tickets that
// tenants open on their leases. A ticket is OPEN until the landlord closes
// it; the landlord may reply any number of times while it is open, and each
// reply overwrites the previous one and stamps the reply time.
//
// Observability: all public methods are OpenTelemetry-instrumented; spans
// include lease/ticket identifiers and pagination parameters where applicable.

package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/domain"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// MessageService coordinates incident ticket persistence.
type MessageService struct {
	DB *gorm.DB

	// Optional guard; zero means unlimited.
	MaxContentRunes int
}

func (s *MessageService) clean(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyContent
	}
	if s.MaxContentRunes > 0 && utf8.RuneCountInString(text) > s.MaxContentRunes {
		return "", ErrTooLong
	}
	return text, nil
}

// Open creates an OPEN ticket on a lease held by tenantID.
func (s *MessageService) Open(ctx context.Context, tenantID, leaseID, content string) (*domain.Message, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "Open",
		trace.WithAttributes(
			attribute.String("lease.id", leaseID),
			attribute.String("tenant.id", tenantID),
		),
	)
	defer span.End()

	content, err := s.clean(content)
	if err != nil {
		return nil, err
	}

	if _, err := repo.GetLeaseForTenant(ctx, s.DB, leaseID, tenantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeaseNotFound
		}
		return nil, err
	}
	return repo.CreateMessage(s.DB.WithContext(ctx), leaseID, tenantID, content)
}

// ListPage returns paginated tickets for a lease held by tenantID.
func (s *MessageService) ListPage(ctx context.Context, tenantID, leaseID string, page, pageSize int) ([]domain.Message, int64, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.String("lease.id", leaseID),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	if _, err := repo.GetLeaseForTenant(ctx, s.DB, leaseID, tenantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrLeaseNotFound
		}
		return nil, 0, err
	}

	total, err := repo.CountMessages(s.DB.WithContext(ctx), leaseID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Message{}, 0, nil
	}

	items, err := repo.ListMessagesPage(s.DB.WithContext(ctx), leaseID, offset, pageSize)
	return items, total, err
}

// ListForLandlord returns tickets across the landlord's leases. An empty
// status matches all.
func (s *MessageService) ListForLandlord(ctx context.Context, landlordID string, status domain.MessageStatus) ([]domain.Message, error) {
	return repo.ListLandlordMessages(s.DB.WithContext(ctx), landlordID, status)
}

// Reply stores the landlord's answer on an OPEN ticket.
func (s *MessageService) Reply(ctx context.Context, landlordID, id, reply string) (*domain.Message, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "Reply", trace.WithAttributes(attribute.String("message.id", id)))
	defer span.End()

	reply, err := s.clean(reply)
	if err != nil {
		return nil, err
	}

	var out *domain.Message
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := repo.GetLandlordMessage(tx, id, landlordID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMessageNotFound
			}
			return err
		}
		if m.Status != domain.MessageOpen {
			return ErrInvalidTransition
		}
		now := time.Now().UTC()
		if err := repo.ReplyMessage(tx, id, reply, now); err != nil {
			return err
		}
		m.Reply, m.RepliedAt, m.UpdatedAt = &reply, &now, now
		out = m
		return nil
	})
	return out, err
}

// Close moves an OPEN ticket to CLOSED. Closing twice is a conflict.
func (s *MessageService) Close(ctx context.Context, landlordID, id string) error {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "Close", trace.WithAttributes(attribute.String("message.id", id)))
	defer span.End()

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repo.GetLandlordMessage(tx, id, landlordID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMessageNotFound
			}
			return err
		}
		n, err := repo.SetMessageStatus(tx, id, domain.MessageOpen, domain.MessageClosed)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrInvalidTransition
		}
		return nil
	})
}
