package reminders

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/wellness"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DayList stores weekdays as comma separated labels ("Seg,Qua,Sex") so the
// column works the same on Postgres and SQLite.
type DayList []wellness.Weekday

func (d DayList) Value() (driver.Value, error) {
	return strings.Join(wellness.WeekdayLabels(d), ","), nil
}

func (d *DayList) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	case nil:
		*d = nil
		return nil
	default:
		return fmt.Errorf("DayList: unsupported type %T", src)
	}
	if raw == "" {
		*d = nil
		return nil
	}
	days, err := wellness.ParseWeekdays(strings.Split(raw, ","))
	if err != nil {
		return err
	}
	*d = days
	return nil
}

func (DayList) GormDataType() string {
	return "string"
}

type Reminder struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Activity  string    `gorm:"size:200;not null" json:"activity"`
	Time      string    `gorm:"column:time_of_day;size:5;not null" json:"time"`
	Days      DayList   `gorm:"size:40;not null" json:"days"`
	Enabled   bool      `gorm:"not null;index" json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Reminder) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// ToWellness converts a stored row for the matcher. Rows are validated on
// creation, so a parse failure means the row was edited out of band.
func (r Reminder) ToWellness() (wellness.Reminder, error) {
	tod, err := wellness.ParseTimeOfDay(r.Time)
	if err != nil {
		return wellness.Reminder{}, err
	}
	if len(r.Days) == 0 {
		return wellness.Reminder{}, errors.New("reminder has no days")
	}
	return wellness.Reminder{
		ID:       r.ID.String(),
		Activity: r.Activity,
		Time:     tod,
		Days:     []wellness.Weekday(r.Days),
		Enabled:  r.Enabled,
	}, nil
}

// --- DTOs ---

type CreateReminderRequest struct {
	Activity string   `json:"activity"`
	Time     string   `json:"time"`
	Days     []string `json:"days"`
}

type DueResponse struct {
	At        string     `json:"at"`
	Timezone  string     `json:"timezone"`
	Reminders []Reminder `json:"reminders"`
}
