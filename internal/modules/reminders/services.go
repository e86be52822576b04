package reminders

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/wellness"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrReminderNotFound = errors.New("reminder not found")

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Create validates the form and stores a new, enabled reminder.
func (s *Service) Create(userID uuid.UUID, req CreateReminderRequest) (*Reminder, error) {
	id := uuid.New()
	parsed, err := wellness.NewReminder(id.String(), req.Activity, req.Time, req.Days)
	if err != nil {
		return nil, err
	}

	reminder := Reminder{
		ID:       id,
		UserID:   userID,
		Activity: parsed.Activity,
		Time:     parsed.Time.String(),
		Days:     DayList(parsed.Days),
		Enabled:  parsed.Enabled,
	}
	if err := s.db.Create(&reminder).Error; err != nil {
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}
	return &reminder, nil
}

func (s *Service) List(userID uuid.UUID) ([]Reminder, error) {
	var reminders []Reminder
	err := s.db.Scopes(identity.ForUser(userID)).
		Order("time_of_day ASC").
		Order("created_at ASC").
		Find(&reminders).Error
	return reminders, err
}

func (s *Service) get(userID, reminderID uuid.UUID) (*Reminder, error) {
	var r Reminder
	if err := s.db.Scopes(identity.ForUser(userID)).First(&r, "id = ?", reminderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReminderNotFound
		}
		return nil, err
	}
	return &r, nil
}

// Toggle flips the enabled flag, the only mutation a reminder allows.
func (s *Service) Toggle(userID, reminderID uuid.UUID) (*Reminder, error) {
	r, err := s.get(userID, reminderID)
	if err != nil {
		return nil, err
	}
	r.Enabled = !r.Enabled
	if err := s.db.Model(r).Update("enabled", r.Enabled).Error; err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) Delete(userID, reminderID uuid.UUID) error {
	result := s.db.Scopes(identity.ForUser(userID)).Delete(&Reminder{}, "id = ?", reminderID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReminderNotFound
	}
	return nil
}

// DueAt returns the user's reminders that fire in the minute containing at,
// evaluated in loc.
func (s *Service) DueAt(userID uuid.UUID, at time.Time, loc *time.Location) ([]Reminder, error) {
	rows, err := s.List(userID)
	if err != nil {
		return nil, err
	}
	return dueRows(rows, at.In(loc)), nil
}

// Enabled returns every enabled reminder across all users.
func (s *Service) Enabled() ([]Reminder, error) {
	var reminders []Reminder
	err := s.db.Where("enabled = ?", true).Find(&reminders).Error
	return reminders, err
}

func dueRows(rows []Reminder, now time.Time) []Reminder {
	byID := make(map[string]Reminder, len(rows))
	candidates := make([]wellness.Reminder, 0, len(rows))
	for _, row := range rows {
		r, err := row.ToWellness()
		if err != nil {
			slog.Warn("skipping unreadable reminder", "reminder_id", row.ID, "error", err)
			continue
		}
		byID[r.ID] = row
		candidates = append(candidates, r)
	}

	due := wellness.DueReminders(candidates, now)
	out := make([]Reminder, 0, len(due))
	for _, r := range due {
		out = append(out, byID[r.ID])
	}
	return out
}
