package profile

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/onboarding"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Profile is the committed questionnaire plus the user's preferences. One per
// user.
type Profile struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	CurrentWeightKg   *float64  `json:"current_weight_kg"`
	GoalWeightKg      *float64  `json:"goal_weight_kg"`
	HeightCm          *float64  `json:"height_cm"`
	DietExperience    string    `gorm:"size:40" json:"diet_experience"`
	ExerciseFrequency string    `gorm:"size:40" json:"exercise_frequency"`
	WaterIntake       string    `gorm:"size:40" json:"water_intake"`
	SleepHours        string    `gorm:"size:40" json:"sleep_hours"`
	DailyGoal         int       `gorm:"not null" json:"daily_goal"`
	Timezone          string    `gorm:"size:64" json:"timezone"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// QuestionnaireDraft holds an unfinished questionnaire between requests.
type QuestionnaireDraft struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Step      int            `gorm:"not null;default:0" json:"step"`
	Answers   datatypes.JSON `json:"answers"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (d *QuestionnaireDraft) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// --- DTOs ---

type UpdateGoalRequest struct {
	DailyGoal int `json:"daily_goal"`
}

type UpdateTimezoneRequest struct {
	Timezone string `json:"timezone"`
}

type AnswerRequest struct {
	QuestionID onboarding.QuestionID `json:"question_id"`
	Answer     string                `json:"answer"`
}

type BMIResponse struct {
	BMI      *float64 `json:"bmi"`
	Category string   `json:"category,omitempty"`
}

// QuestionnaireState is what a client needs to render the next screen. When
// Complete is set, Question is nil and Profile holds the committed profile.
type QuestionnaireState struct {
	Question *onboarding.Question             `json:"question"`
	Answered int                              `json:"answered"`
	Total    int                              `json:"total"`
	Answers  map[onboarding.QuestionID]string `json:"answers"`
	Complete bool                             `json:"complete"`
	Profile  *Profile                         `json:"profile,omitempty"`
}
