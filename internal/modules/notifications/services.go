package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/notify"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/wellness"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvalidPermission    = errors.New("permission must be one of default, granted, denied")
	ErrNotificationNotFound = errors.New("notification not found")
)

type Service struct {
	db  *gorm.DB
	hub *notify.Hub
	now func() time.Time
}

func NewService(db *gorm.DB, hub *notify.Hub) *Service {
	return &Service{db: db, hub: hub, now: time.Now}
}

func (s *Service) Permission(userID uuid.UUID) (string, error) {
	var p Preference
	err := s.db.Scopes(identity.ForUser(userID)).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return PermissionDefault, nil
	}
	if err != nil {
		return "", err
	}
	return p.Permission, nil
}

func (s *Service) SetPermission(userID uuid.UUID, permission string) error {
	switch permission {
	case PermissionDefault, PermissionGranted, PermissionDenied:
	default:
		return ErrInvalidPermission
	}

	var p Preference
	err := s.db.Scopes(identity.ForUser(userID)).First(&p).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		p = Preference{UserID: userID}
	case err != nil:
		return err
	}
	p.Permission = permission
	return s.db.Save(&p).Error
}

// Dispatch delivers one due reminder: persisted to the inbox and pushed to
// open streams. Nothing happens unless the owner granted permission.
func (s *Service) Dispatch(ctx context.Context, userID uuid.UUID, reminder wellness.Reminder, at time.Time) error {
	m := metrics.Get()

	permission, err := s.Permission(userID)
	if err != nil {
		m.AlertsTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("load permission: %w", err)
	}
	if permission != PermissionGranted {
		m.AlertsTotal.WithLabelValues("skipped").Inc()
		return nil
	}

	n := Notification{
		UserID:     userID,
		ReminderID: reminder.ID,
		Title:      reminder.Activity,
		Body:       fmt.Sprintf("Hora de: %s (%s)", reminder.Activity, reminder.Time),
		CreatedAt:  at.UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&n).Error; err != nil {
		m.AlertsTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("store notification: %w", err)
	}

	s.hub.Publish(notify.Alert{
		ID:         n.ID,
		UserID:     userID,
		ReminderID: n.ReminderID,
		Title:      n.Title,
		Body:       n.Body,
		CreatedAt:  n.CreatedAt,
	})
	m.AlertsTotal.WithLabelValues("delivered").Inc()
	return nil
}

// Inbox lists delivered notifications newest first.
func (s *Service) Inbox(userID uuid.UUID, limit, offset int) (*InboxResponse, error) {
	resp := &InboxResponse{Limit: limit, Offset: offset}

	if err := s.db.Model(&Notification{}).Scopes(identity.ForUser(userID)).Count(&resp.Total).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&Notification{}).Scopes(identity.ForUser(userID)).
		Where("read_at IS NULL").Count(&resp.Unread).Error; err != nil {
		return nil, err
	}
	err := s.db.Scopes(identity.ForUser(userID)).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&resp.Notifications).Error
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *Service) MarkRead(userID, notificationID uuid.UUID) (*Notification, error) {
	var n Notification
	if err := s.db.Scopes(identity.ForUser(userID)).First(&n, "id = ?", notificationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	if n.ReadAt == nil {
		now := s.now().UTC()
		n.ReadAt = &now
		if err := s.db.Model(&n).Update("read_at", now).Error; err != nil {
			return nil, err
		}
	}
	return &n, nil
}

func (s *Service) Subscribe(userID uuid.UUID) *notify.Subscription {
	return s.hub.Subscribe(userID)
}

func (s *Service) Unsubscribe(sub *notify.Subscription) {
	s.hub.Unsubscribe(sub)
}
