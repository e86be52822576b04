// Package onboarding implements the seven-step profile questionnaire. A Draft
// buffers answers in strict order; nothing is committed until every question
// has a valid answer.
package onboarding

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type QuestionID string

const (
	CurrentWeight     QuestionID = "current_weight"
	GoalWeight        QuestionID = "goal_weight"
	Height            QuestionID = "height"
	DietExperience    QuestionID = "diet_experience"
	ExerciseFrequency QuestionID = "exercise_frequency"
	WaterIntake       QuestionID = "water_intake"
	SleepHours        QuestionID = "sleep_hours"
)

var (
	ErrEmptyAnswer   = errors.New("answer is required")
	ErrInvalidAnswer = errors.New("invalid answer")
	ErrOutOfOrder    = errors.New("answer does not belong to the current question")
	ErrComplete      = errors.New("questionnaire is already complete")
	ErrIncomplete    = errors.New("questionnaire is not complete")
)

type Question struct {
	ID      QuestionID `json:"id"`
	Prompt  string     `json:"prompt"`
	Kind    string     `json:"kind"` // number, choice
	Unit    string     `json:"unit,omitempty"`
	Min     float64    `json:"min,omitempty"`
	Max     float64    `json:"max,omitempty"`
	Options []string   `json:"options,omitempty"`
}

var questions = []Question{
	{ID: CurrentWeight, Prompt: "Qual é o seu peso atual?", Kind: "number", Unit: "kg", Min: 20, Max: 400},
	{ID: GoalWeight, Prompt: "Qual é o seu peso desejado?", Kind: "number", Unit: "kg", Min: 20, Max: 400},
	{ID: Height, Prompt: "Qual é a sua altura?", Kind: "number", Unit: "cm", Min: 50, Max: 260},
	{ID: DietExperience, Prompt: "Você já fez dieta antes?", Kind: "choice",
		Options: []string{"never", "tried_without_success", "some_success", "experienced"}},
	{ID: ExerciseFrequency, Prompt: "Com que frequência você se exercita?", Kind: "choice",
		Options: []string{"sedentary", "1_2_per_week", "3_4_per_week", "5_plus_per_week"}},
	{ID: WaterIntake, Prompt: "Quanta água você bebe por dia?", Kind: "choice",
		Options: []string{"under_1l", "1_2l", "2_3l", "over_3l"}},
	{ID: SleepHours, Prompt: "Quantas horas você dorme por noite?", Kind: "choice",
		Options: []string{"under_5h", "5_6h", "7_8h", "over_8h"}},
}

// Questions returns the questionnaire in the order it must be answered.
func Questions() []Question {
	out := make([]Question, len(questions))
	copy(out, questions)
	return out
}

// Draft is the in-progress answer buffer. Step is the index of the question
// awaiting an answer; Step == len(Questions()) means complete.
type Draft struct {
	Step    int                   `json:"step"`
	Answers map[QuestionID]string `json:"answers"`
}

func NewDraft() *Draft {
	return &Draft{Answers: make(map[QuestionID]string)}
}

// Current returns the question awaiting an answer.
func (d *Draft) Current() (Question, bool) {
	if d.Step < 0 || d.Step >= len(questions) {
		return Question{}, false
	}
	return questions[d.Step], true
}

func (d *Draft) Done() bool {
	return d.Step >= len(questions)
}

func (d *Draft) Progress() (answered, total int) {
	return d.Step, len(questions)
}

// Answer records the answer to the current question and advances. Answering
// any other question is rejected.
func (d *Draft) Answer(id QuestionID, value string) error {
	q, ok := d.Current()
	if !ok {
		return ErrComplete
	}
	if id != q.ID {
		return fmt.Errorf("%w: expected %s, got %s", ErrOutOfOrder, q.ID, id)
	}
	normalized, err := q.normalize(value)
	if err != nil {
		return err
	}
	if d.Answers == nil {
		d.Answers = make(map[QuestionID]string)
	}
	d.Answers[id] = normalized
	d.Step++
	return nil
}

// Back steps to the previous question, keeping its answer as a prefill.
func (d *Draft) Back() {
	if d.Step > 0 {
		d.Step--
	}
}

// Answers is a completed questionnaire.
type Answers struct {
	CurrentWeightKg   float64
	GoalWeightKg      float64
	HeightCm          float64
	DietExperience    string
	ExerciseFrequency string
	WaterIntake       string
	SleepHours        string
}

// Result converts a complete draft into typed answers.
func (d *Draft) Result() (Answers, error) {
	if !d.Done() {
		return Answers{}, ErrIncomplete
	}
	num := func(id QuestionID) (float64, error) {
		v, err := strconv.ParseFloat(d.Answers[id], 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s", ErrInvalidAnswer, id)
		}
		return v, nil
	}
	var a Answers
	var err error
	if a.CurrentWeightKg, err = num(CurrentWeight); err != nil {
		return Answers{}, err
	}
	if a.GoalWeightKg, err = num(GoalWeight); err != nil {
		return Answers{}, err
	}
	if a.HeightCm, err = num(Height); err != nil {
		return Answers{}, err
	}
	a.DietExperience = d.Answers[DietExperience]
	a.ExerciseFrequency = d.Answers[ExerciseFrequency]
	a.WaterIntake = d.Answers[WaterIntake]
	a.SleepHours = d.Answers[SleepHours]
	return a, nil
}

func (q Question) normalize(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", ErrEmptyAnswer
	}
	switch q.Kind {
	case "number":
		v, err := strconv.ParseFloat(strings.Replace(value, ",", ".", 1), 64)
		if err != nil {
			return "", fmt.Errorf("%w: %s must be a number", ErrInvalidAnswer, q.ID)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) || v < q.Min || v > q.Max {
			return "", fmt.Errorf("%w: %s must be between %g and %g %s", ErrInvalidAnswer, q.ID, q.Min, q.Max, q.Unit)
		}
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		for _, opt := range q.Options {
			if value == opt {
				return value, nil
			}
		}
		return "", fmt.Errorf("%w: %s must be one of %s", ErrInvalidAnswer, q.ID, strings.Join(q.Options, ", "))
	}
}
