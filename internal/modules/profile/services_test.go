package profile

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/onboarding"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/testutil"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/wellness"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fullAnswers = []AnswerRequest{
	{QuestionID: onboarding.CurrentWeight, Answer: "80"},
	{QuestionID: onboarding.GoalWeight, Answer: "72,5"},
	{QuestionID: onboarding.Height, Answer: "175"},
	{QuestionID: onboarding.DietExperience, Answer: "some_success"},
	{QuestionID: onboarding.ExerciseFrequency, Answer: "3_4_per_week"},
	{QuestionID: onboarding.WaterIntake, Answer: "1_2l"},
	{QuestionID: onboarding.SleepHours, Answer: "7_8h"},
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	db := testutil.NewDB(t, &Profile{}, &QuestionnaireDraft{})
	return NewService(db, time.UTC, func() int { return 1800 })
}

func completeQuestionnaire(t *testing.T, s *Service, userID uuid.UUID) *QuestionnaireState {
	t.Helper()
	var state *QuestionnaireState
	var err error
	for _, a := range fullAnswers {
		state, err = s.Answer(userID, a)
		require.NoError(t, err)
	}
	return state
}

func TestQuestionnaire_CommitsProfileOnLastAnswer(t *testing.T) {
	s := newTestService(t)
	userID := uuid.New()

	for i, a := range fullAnswers[:6] {
		state, err := s.Answer(userID, a)
		require.NoError(t, err)
		assert.False(t, state.Complete)
		assert.Equal(t, i+1, state.Answered)

		has, err := s.HasProfile(userID)
		require.NoError(t, err)
		assert.False(t, has, "profile must not exist before the last answer")
	}

	state, err := s.Answer(userID, fullAnswers[6])
	require.NoError(t, err)
	require.True(t, state.Complete)
	assert.Nil(t, state.Question)
	require.NotNil(t, state.Profile)
	assert.Equal(t, 72.5, *state.Profile.GoalWeightKg)
	assert.Equal(t, 1800, state.Profile.DailyGoal)

	var drafts int64
	require.NoError(t, s.db.Model(&QuestionnaireDraft{}).Count(&drafts).Error)
	assert.Zero(t, drafts)
}

func TestQuestionnaire_RejectsOutOfOrderAndEmpty(t *testing.T) {
	s := newTestService(t)
	userID := uuid.New()

	_, err := s.Answer(userID, AnswerRequest{QuestionID: onboarding.Height, Answer: "170"})
	assert.ErrorIs(t, err, onboarding.ErrOutOfOrder)

	_, err = s.Answer(userID, AnswerRequest{QuestionID: onboarding.CurrentWeight, Answer: "  "})
	assert.ErrorIs(t, err, onboarding.ErrEmptyAnswer)

	_, err = s.Answer(userID, AnswerRequest{QuestionID: onboarding.CurrentWeight, Answer: "NaN"})
	assert.ErrorIs(t, err, onboarding.ErrInvalidAnswer)

	state, err := s.Questionnaire(userID)
	require.NoError(t, err)
	assert.Equal(t, 0, state.Answered)
	require.NotNil(t, state.Question)
	assert.Equal(t, onboarding.CurrentWeight, state.Question.ID)
}

func TestQuestionnaire_DraftSurvivesAndBackKeepsAnswer(t *testing.T) {
	s := newTestService(t)
	userID := uuid.New()

	_, err := s.Answer(userID, fullAnswers[0])
	require.NoError(t, err)
	_, err = s.Answer(userID, AnswerRequest{Answer: "70"})
	require.NoError(t, err)

	state, err := s.Back(userID)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Answered)
	assert.Equal(t, onboarding.GoalWeight, state.Question.ID)
	assert.Equal(t, "70", state.Answers[onboarding.GoalWeight])

	require.NoError(t, s.ResetQuestionnaire(userID))
	state, err = s.Questionnaire(userID)
	require.NoError(t, err)
	assert.Equal(t, 0, state.Answered)
}

func TestQuestionnaire_RetakeKeepsPreferences(t *testing.T) {
	s := newTestService(t)
	userID := uuid.New()
	completeQuestionnaire(t, s, userID)

	_, err := s.UpdateGoal(userID, 1500)
	require.NoError(t, err)
	_, err = s.UpdateTimezone(userID, "America/Sao_Paulo")
	require.NoError(t, err)

	state := completeQuestionnaire(t, s, userID)
	assert.Equal(t, 1500, state.Profile.DailyGoal)
	assert.Equal(t, "America/Sao_Paulo", state.Profile.Timezone)

	var count int64
	require.NoError(t, s.db.Model(&Profile{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpdateGoal(t *testing.T) {
	s := newTestService(t)
	userID := uuid.New()

	_, err := s.UpdateGoal(userID, 2200)
	assert.ErrorIs(t, err, ErrProfileNotFound)

	completeQuestionnaire(t, s, userID)

	_, err = s.UpdateGoal(userID, 0)
	assert.ErrorIs(t, err, wellness.ErrInvalidGoal)
	_, err = s.UpdateGoal(userID, -5)
	assert.ErrorIs(t, err, wellness.ErrInvalidGoal)

	p, err := s.UpdateGoal(userID, 2200)
	require.NoError(t, err)
	assert.Equal(t, 2200, p.DailyGoal)

	goal, err := s.DailyGoal(userID)
	require.NoError(t, err)
	assert.Equal(t, 2200, goal)
}

func TestDailyGoal_DefaultWithoutProfile(t *testing.T) {
	s := newTestService(t)
	goal, err := s.DailyGoal(uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 1800, goal)
}

func TestLocation(t *testing.T) {
	s := newTestService(t)
	userID := uuid.New()

	loc, err := s.Location(userID)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	completeQuestionnaire(t, s, userID)
	_, err = s.UpdateTimezone(userID, "Mars/Olympus")
	assert.ErrorIs(t, err, ErrInvalidTimezone)
	_, err = s.UpdateTimezone(userID, "")
	assert.ErrorIs(t, err, ErrInvalidTimezone)
	_, err = s.UpdateTimezone(userID, "Local")
	assert.ErrorIs(t, err, ErrInvalidTimezone)

	_, err = s.UpdateTimezone(userID, "Asia/Tokyo")
	require.NoError(t, err)
	loc, err = s.Location(userID)
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", loc.String())

	other := uuid.New()
	locs, err := s.Locations([]uuid.UUID{userID, other})
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", locs[userID].String())
	assert.Equal(t, time.UTC, locs[other])
}

func TestBMI(t *testing.T) {
	s := newTestService(t)
	userID := uuid.New()

	resp, err := s.BMI(userID)
	require.NoError(t, err)
	assert.Nil(t, resp.BMI)
	assert.Empty(t, resp.Category)

	completeQuestionnaire(t, s, userID)
	resp, err = s.BMI(userID)
	require.NoError(t, err)
	require.NotNil(t, resp.BMI)
	assert.Equal(t, 26.1, *resp.BMI)
	assert.Equal(t, string(wellness.Overweight), resp.Category)
}
