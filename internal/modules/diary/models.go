package diary

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/wellness"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FoodEntry is one logged meal. Entries are never edited; they go away only
// through a history clear.
type FoodEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	Calories  float64   `gorm:"not null" json:"calories"`
	Protein   float64   `gorm:"not null" json:"protein"`
	Carbs     float64   `gorm:"not null" json:"carbs"`
	Fat       float64   `gorm:"not null" json:"fat"`
	Fiber     float64   `gorm:"not null" json:"fiber"`
	ImageRef  string    `gorm:"type:text" json:"image_ref,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (f *FoodEntry) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

func (f FoodEntry) toWellness() wellness.FoodEntry {
	return wellness.FoodEntry{
		Calories:  f.Calories,
		Protein:   f.Protein,
		Carbs:     f.Carbs,
		Fat:       f.Fat,
		Fiber:     f.Fiber,
		CreatedAt: f.CreatedAt,
	}
}

type ActivityEntry struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Type            string    `gorm:"size:100;not null" json:"type"`
	DurationMinutes int       `gorm:"not null" json:"duration_minutes"`
	CaloriesBurned  int       `gorm:"not null" json:"calories_burned"`
	Notes           string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
}

func (a *ActivityEntry) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (a ActivityEntry) toWellness() wellness.ActivityEntry {
	return wellness.ActivityEntry{Calories: a.CaloriesBurned, CreatedAt: a.CreatedAt}
}

// --- DTOs ---

type CreateFoodRequest struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
	ImageURL string  `json:"image_url"`
}

type AnalyzeURLRequest struct {
	ImageURL string `json:"image_url"`
}

type CreateActivityRequest struct {
	Type            string `json:"type"`
	DurationMinutes int    `json:"duration_minutes"`
	CaloriesBurned  int    `json:"calories_burned"`
	Notes           string `json:"notes"`
}

type FoodListResponse struct {
	Entries []FoodEntry `json:"entries"`
	Total   int64       `json:"total"`
	Limit   int         `json:"limit"`
	Offset  int         `json:"offset"`
}

type ActivityListResponse struct {
	Entries []ActivityEntry `json:"entries"`
	Total   int64           `json:"total"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
}

type ClearResponse struct {
	Deleted int64 `json:"deleted"`
}

// TodaySummary is the home screen card. Percentage is the raw ratio to the
// goal; DisplayPercentage is clamped to [0,100] for progress bars.
type TodaySummary struct {
	Date              string              `json:"date"`
	Timezone          string              `json:"timezone"`
	Stats             wellness.DailyStats `json:"stats"`
	DailyGoal         int                 `json:"daily_goal"`
	Percentage        float64             `json:"percentage"`
	DisplayPercentage float64             `json:"display_percentage"`
	NetCalories       float64             `json:"net_calories"`
	RemainingCalories float64             `json:"remaining_calories"`
}

type DaySummary struct {
	Date           string  `json:"date"`
	Weekday        string  `json:"weekday"`
	Calories       float64 `json:"calories"`
	CaloriesBurned int     `json:"calories_burned"`
	MealsCount     int     `json:"meals_count"`
	Percentage     float64 `json:"percentage"`
}

type WeekSummary struct {
	Timezone        string       `json:"timezone"`
	DailyGoal       int          `json:"daily_goal"`
	Days            []DaySummary `json:"days"`
	AverageCalories float64      `json:"average_calories"`
	TotalBurned     int          `json:"total_burned"`
	DaysOnTarget    int          `json:"days_on_target"`
}
