package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/onboarding"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/wellness"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrProfileNotFound = errors.New("profile not found, complete the questionnaire first")
	ErrInvalidTimezone = wellness.ErrInvalidTimezone
)

type Service struct {
	db          *gorm.DB
	defaultLoc  *time.Location
	defaultGoal func() int
}

// NewService builds the profile service. defaultGoal supplies the goal for
// users who have not completed the questionnaire; it is read on every call so
// admin changes apply without a restart.
func NewService(db *gorm.DB, defaultLoc *time.Location, defaultGoal func() int) *Service {
	if defaultLoc == nil {
		defaultLoc = time.UTC
	}
	return &Service{db: db, defaultLoc: defaultLoc, defaultGoal: defaultGoal}
}

func (s *Service) GetProfile(userID uuid.UUID) (*Profile, error) {
	var p Profile
	if err := s.db.Scopes(identity.ForUser(userID)).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Service) HasProfile(userID uuid.UUID) (bool, error) {
	var count int64
	if err := s.db.Model(&Profile{}).Scopes(identity.ForUser(userID)).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateGoal sets the daily calorie goal. Non-positive goals are rejected
// with wellness.ErrInvalidGoal.
func (s *Service) UpdateGoal(userID uuid.UUID, goal int) (*Profile, error) {
	if goal <= 0 {
		return nil, wellness.ErrInvalidGoal
	}
	p, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}
	p.DailyGoal = goal
	if err := s.db.Save(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) UpdateTimezone(userID uuid.UUID, tz string) (*Profile, error) {
	tz = strings.TrimSpace(tz)
	if _, err := wellness.LoadLocation(tz); err != nil {
		return nil, err
	}
	p, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}
	p.Timezone = tz
	if err := s.db.Save(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// DailyGoal returns the user's goal, or the default when there is no profile.
func (s *Service) DailyGoal(userID uuid.UUID) (int, error) {
	p, err := s.GetProfile(userID)
	if errors.Is(err, ErrProfileNotFound) {
		return s.fallbackGoal(), nil
	}
	if err != nil {
		return 0, err
	}
	if p.DailyGoal <= 0 {
		return s.fallbackGoal(), nil
	}
	return p.DailyGoal, nil
}

// Location returns the user's configured timezone, or the service default.
// An unloadable stored name also falls back to the default.
func (s *Service) Location(userID uuid.UUID) (*time.Location, error) {
	p, err := s.GetProfile(userID)
	if errors.Is(err, ErrProfileNotFound) {
		return s.defaultLoc, nil
	}
	if err != nil {
		return nil, err
	}
	if p.Timezone == "" {
		return s.defaultLoc, nil
	}
	loc, err := wellness.LoadLocation(p.Timezone)
	if err != nil {
		return s.defaultLoc, nil
	}
	return loc, nil
}

// Locations resolves many users at once for the reminder scheduler.
func (s *Service) Locations(userIDs []uuid.UUID) (map[uuid.UUID]*time.Location, error) {
	out := make(map[uuid.UUID]*time.Location, len(userIDs))
	for _, id := range userIDs {
		out[id] = s.defaultLoc
	}
	if len(userIDs) == 0 {
		return out, nil
	}

	var profiles []Profile
	if err := s.db.Select("user_id", "timezone").Where("user_id IN ?", userIDs).Find(&profiles).Error; err != nil {
		return nil, err
	}
	for _, p := range profiles {
		if p.Timezone == "" {
			continue
		}
		if loc, err := wellness.LoadLocation(p.Timezone); err == nil {
			out[p.UserID] = loc
		}
	}
	return out, nil
}

// BMI computes the body mass index from the profile. A missing profile yields
// an absent value, not an error.
func (s *Service) BMI(userID uuid.UUID) (*BMIResponse, error) {
	p, err := s.GetProfile(userID)
	if errors.Is(err, ErrProfileNotFound) {
		return &BMIResponse{}, nil
	}
	if err != nil {
		return nil, err
	}
	resp := &BMIResponse{BMI: wellness.BodyMassIndex(p.CurrentWeightKg, p.HeightCm)}
	if resp.BMI != nil {
		resp.Category = string(wellness.ClassifyBMI(*resp.BMI))
	}
	return resp, nil
}

// Questionnaire returns the current state, starting a draft if none exists.
func (s *Service) Questionnaire(userID uuid.UUID) (*QuestionnaireState, error) {
	draft, err := s.loadDraft(s.db, userID)
	if err != nil {
		return nil, err
	}
	return stateOf(draft, nil), nil
}

// Answer records the answer to the current question. The final answer
// commits the profile and removes the draft in one transaction.
func (s *Service) Answer(userID uuid.UUID, req AnswerRequest) (*QuestionnaireState, error) {
	var state *QuestionnaireState
	err := s.db.Transaction(func(tx *gorm.DB) error {
		draft, err := s.loadDraft(tx, userID)
		if err != nil {
			return err
		}

		id := req.QuestionID
		if id == "" {
			if q, ok := draft.Current(); ok {
				id = q.ID
			}
		}
		if err := draft.Answer(id, req.Answer); err != nil {
			return err
		}

		if !draft.Done() {
			if err := saveDraft(tx, userID, draft); err != nil {
				return err
			}
			state = stateOf(draft, nil)
			return nil
		}

		p, err := s.commit(tx, userID, draft)
		if err != nil {
			return err
		}
		state = stateOf(draft, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

// Back returns to the previous question.
func (s *Service) Back(userID uuid.UUID) (*QuestionnaireState, error) {
	var state *QuestionnaireState
	err := s.db.Transaction(func(tx *gorm.DB) error {
		draft, err := s.loadDraft(tx, userID)
		if err != nil {
			return err
		}
		draft.Back()
		if err := saveDraft(tx, userID, draft); err != nil {
			return err
		}
		state = stateOf(draft, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

// ResetQuestionnaire discards the draft. A committed profile is untouched.
func (s *Service) ResetQuestionnaire(userID uuid.UUID) error {
	return s.db.Scopes(identity.ForUser(userID)).Delete(&QuestionnaireDraft{}).Error
}

func (s *Service) commit(tx *gorm.DB, userID uuid.UUID, draft *onboarding.Draft) (*Profile, error) {
	answers, err := draft.Result()
	if err != nil {
		return nil, err
	}

	var p Profile
	err = tx.Scopes(identity.ForUser(userID)).First(&p).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		p = Profile{UserID: userID, DailyGoal: s.fallbackGoal()}
	case err != nil:
		return nil, err
	}

	p.CurrentWeightKg = &answers.CurrentWeightKg
	p.GoalWeightKg = &answers.GoalWeightKg
	p.HeightCm = &answers.HeightCm
	p.DietExperience = answers.DietExperience
	p.ExerciseFrequency = answers.ExerciseFrequency
	p.WaterIntake = answers.WaterIntake
	p.SleepHours = answers.SleepHours

	if err := tx.Save(&p).Error; err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	if err := tx.Scopes(identity.ForUser(userID)).Delete(&QuestionnaireDraft{}).Error; err != nil {
		return nil, fmt.Errorf("delete draft: %w", err)
	}
	return &p, nil
}

func (s *Service) loadDraft(db *gorm.DB, userID uuid.UUID) (*onboarding.Draft, error) {
	var row QuestionnaireDraft
	err := db.Scopes(identity.ForUser(userID)).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return onboarding.NewDraft(), nil
	}
	if err != nil {
		return nil, err
	}

	draft := onboarding.NewDraft()
	draft.Step = row.Step
	if len(row.Answers) > 0 {
		if err := json.Unmarshal(row.Answers, &draft.Answers); err != nil {
			return nil, fmt.Errorf("decode draft: %w", err)
		}
	}
	return draft, nil
}

func saveDraft(tx *gorm.DB, userID uuid.UUID, draft *onboarding.Draft) error {
	answers, err := json.Marshal(draft.Answers)
	if err != nil {
		return err
	}

	var row QuestionnaireDraft
	err = tx.Scopes(identity.ForUser(userID)).First(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		row = QuestionnaireDraft{UserID: userID}
	case err != nil:
		return err
	}
	row.Step = draft.Step
	row.Answers = datatypes.JSON(answers)
	return tx.Save(&row).Error
}

func (s *Service) fallbackGoal() int {
	if s.defaultGoal != nil {
		if g := s.defaultGoal(); g > 0 {
			return g
		}
	}
	return 2000
}

func stateOf(draft *onboarding.Draft, committed *Profile) *QuestionnaireState {
	answered, total := draft.Progress()
	state := &QuestionnaireState{
		Answered: answered,
		Total:    total,
		Answers:  draft.Answers,
		Complete: committed != nil,
		Profile:  committed,
	}
	if q, ok := draft.Current(); ok {
		state.Question = &q
	}
	return state
}
