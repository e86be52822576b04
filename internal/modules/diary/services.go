package diary

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/analysis"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/wellness"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const MaxImageBytes = 4 << 20

var (
	ErrInvalidFood     = errors.New("food name is required and nutrition values must be non-negative numbers")
	ErrInvalidActivity = errors.New("activity type is required, duration must be positive and calories burned non-negative")
	ErrImageTooLarge   = errors.New("image must be at most 4 MB")
	ErrUnsupportedType = errors.New("image must be JPEG, PNG or WebP")
	ErrInvalidImageURL = errors.New("image_url must be an http(s) URL")
	ErrInvalidTimezone = wellness.ErrInvalidTimezone
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// UserSettings resolves the per-user inputs of the summaries.
type UserSettings interface {
	DailyGoal(userID uuid.UUID) (int, error)
	Location(userID uuid.UUID) (*time.Location, error)
}

type Service struct {
	db       *gorm.DB
	analyzer analysis.Analyzer
	settings UserSettings
	now      func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(db *gorm.DB, analyzer analysis.Analyzer, settings UserSettings, opts ...Option) *Service {
	s := &Service{db: db, analyzer: analyzer, settings: settings, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) LogFood(userID uuid.UUID, req CreateFoodRequest) (*FoodEntry, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || !validAmounts(req.Calories, req.Protein, req.Carbs, req.Fat, req.Fiber) {
		return nil, ErrInvalidFood
	}

	entry := FoodEntry{
		UserID:    userID,
		Name:      req.Name,
		Calories:  req.Calories,
		Protein:   req.Protein,
		Carbs:     req.Carbs,
		Fat:       req.Fat,
		Fiber:     req.Fiber,
		ImageRef:  strings.TrimSpace(req.ImageURL),
		CreatedAt: s.now().UTC(),
	}
	if err := s.db.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("failed to create food entry: %w", err)
	}

	metrics.Get().EntriesLoggedTotal.WithLabelValues("food").Inc()
	return &entry, nil
}

// AnalyzeImage runs the analyzer on an uploaded photo and logs the result.
// The photo is kept as a data URL.
func (s *Service) AnalyzeImage(ctx context.Context, userID uuid.UUID, image []byte) (*FoodEntry, error) {
	if len(image) == 0 {
		return nil, analysis.ErrEmptyImage
	}
	if len(image) > MaxImageBytes {
		return nil, ErrImageTooLarge
	}
	mime := http.DetectContentType(image)
	if !allowedImageTypes[mime] {
		return nil, ErrUnsupportedType
	}

	ref := "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(image)
	return s.analyze(ctx, userID, image, "", ref)
}

// AnalyzeURL runs the analyzer on an already hosted photo and logs the
// result, keeping the URL as the image reference.
func (s *Service) AnalyzeURL(ctx context.Context, userID uuid.UUID, imageURL string) (*FoodEntry, error) {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return nil, analysis.ErrEmptyImage
	}
	if !strings.HasPrefix(imageURL, "https://") && !strings.HasPrefix(imageURL, "http://") {
		return nil, ErrInvalidImageURL
	}
	return s.analyze(ctx, userID, nil, imageURL, imageURL)
}

func (s *Service) analyze(ctx context.Context, userID uuid.UUID, image []byte, imageURL, ref string) (*FoodEntry, error) {
	m := metrics.Get()
	start := time.Now()
	result, err := s.analyzer.Analyze(ctx, image, imageURL)
	m.AnalysisDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			m.AnalysesTotal.WithLabelValues("canceled").Inc()
		} else {
			m.AnalysesTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}
	m.AnalysesTotal.WithLabelValues("ok").Inc()

	entry := FoodEntry{
		UserID:    userID,
		Name:      result.Name,
		Calories:  result.Calories,
		Protein:   result.Protein,
		Carbs:     result.Carbs,
		Fat:       result.Fat,
		Fiber:     result.Fiber,
		ImageRef:  ref,
		CreatedAt: s.now().UTC(),
	}
	if err := s.db.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("failed to create food entry: %w", err)
	}

	m.EntriesLoggedTotal.WithLabelValues("food_analyzed").Inc()
	return &entry, nil
}

// ListFoods returns the history newest first.
func (s *Service) ListFoods(userID uuid.UUID, limit, offset int) ([]FoodEntry, int64, error) {
	var entries []FoodEntry
	var total int64

	if err := s.db.Model(&FoodEntry{}).Scopes(identity.ForUser(userID)).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := s.db.Scopes(identity.ForUser(userID)).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error

	return entries, total, err
}

// ClearFoods deletes the user's whole food history.
func (s *Service) ClearFoods(userID uuid.UUID) (int64, error) {
	result := s.db.Scopes(identity.ForUser(userID)).Delete(&FoodEntry{})
	return result.RowsAffected, result.Error
}

func (s *Service) LogActivity(userID uuid.UUID, req CreateActivityRequest) (*ActivityEntry, error) {
	req.Type = strings.TrimSpace(req.Type)
	if req.Type == "" || req.DurationMinutes <= 0 || req.CaloriesBurned < 0 {
		return nil, ErrInvalidActivity
	}

	entry := ActivityEntry{
		UserID:          userID,
		Type:            req.Type,
		DurationMinutes: req.DurationMinutes,
		CaloriesBurned:  req.CaloriesBurned,
		Notes:           strings.TrimSpace(req.Notes),
		CreatedAt:       s.now().UTC(),
	}
	if err := s.db.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("failed to create activity: %w", err)
	}

	metrics.Get().EntriesLoggedTotal.WithLabelValues("activity").Inc()
	return &entry, nil
}

func (s *Service) ListActivities(userID uuid.UUID, limit, offset int) ([]ActivityEntry, int64, error) {
	var entries []ActivityEntry
	var total int64

	if err := s.db.Model(&ActivityEntry{}).Scopes(identity.ForUser(userID)).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := s.db.Scopes(identity.ForUser(userID)).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error

	return entries, total, err
}

func (s *Service) ClearActivities(userID uuid.UUID) (int64, error) {
	result := s.db.Scopes(identity.ForUser(userID)).Delete(&ActivityEntry{})
	return result.RowsAffected, result.Error
}

// Location resolves the observer's location: an explicit IANA name wins,
// then the user's profile, then the service default.
func (s *Service) Location(userID uuid.UUID, override string) (*time.Location, error) {
	if override != "" {
		return wellness.LoadLocation(override)
	}
	return s.settings.Location(userID)
}

// Today summarizes the local calendar day containing now in loc.
func (s *Service) Today(userID uuid.UUID, loc *time.Location) (*TodaySummary, error) {
	ref := s.now().In(loc)
	foods, activities, err := s.loadSince(userID, wellness.StartOfDay(ref))
	if err != nil {
		return nil, err
	}
	goal, err := s.settings.DailyGoal(userID)
	if err != nil {
		return nil, err
	}

	stats := wellness.AggregateToday(foods, activities, ref)
	pct, err := wellness.CaloriesPercentage(stats.TotalCalories, goal)
	if err != nil {
		return nil, err
	}

	burned := float64(stats.TotalCaloriesBurned)
	return &TodaySummary{
		Date:              ref.Format("2006-01-02"),
		Timezone:          loc.String(),
		Stats:             stats,
		DailyGoal:         goal,
		Percentage:        pct,
		DisplayPercentage: wellness.ClampPercentage(pct),
		NetCalories:       stats.TotalCalories - burned,
		RemainingCalories: float64(goal) - stats.TotalCalories + burned,
	}, nil
}

// Week summarizes the seven local days ending today, oldest first.
func (s *Service) Week(userID uuid.UUID, loc *time.Location) (*WeekSummary, error) {
	today := wellness.StartOfDay(s.now().In(loc))
	first := today.AddDate(0, 0, -6)

	foods, activities, err := s.loadSince(userID, first)
	if err != nil {
		return nil, err
	}
	goal, err := s.settings.DailyGoal(userID)
	if err != nil {
		return nil, err
	}

	summary := &WeekSummary{
		Timezone:  loc.String(),
		DailyGoal: goal,
		Days:      make([]DaySummary, 0, 7),
	}
	var intake float64
	for i := 0; i < 7; i++ {
		day := first.AddDate(0, 0, i)
		stats := wellness.AggregateToday(foods, activities, day)
		pct, err := wellness.CaloriesPercentage(stats.TotalCalories, goal)
		if err != nil {
			return nil, err
		}

		summary.Days = append(summary.Days, DaySummary{
			Date:           day.Format("2006-01-02"),
			Weekday:        wellness.WeekdayOf(day).String(),
			Calories:       stats.TotalCalories,
			CaloriesBurned: stats.TotalCaloriesBurned,
			MealsCount:     stats.MealsCount,
			Percentage:     pct,
		})
		intake += stats.TotalCalories
		summary.TotalBurned += stats.TotalCaloriesBurned
		if stats.MealsCount > 0 && stats.TotalCalories <= float64(goal) {
			summary.DaysOnTarget++
		}
	}
	summary.AverageCalories = math.Round(intake/7*10) / 10
	return summary, nil
}

// loadSince fetches entries from a day before from onwards. The extra day
// absorbs offset differences between stored instants and from; the
// aggregator does the exact local-date filtering.
func (s *Service) loadSince(userID uuid.UUID, from time.Time) ([]wellness.FoodEntry, []wellness.ActivityEntry, error) {
	bound := from.Add(-24 * time.Hour).UTC()

	var foodRows []FoodEntry
	if err := s.db.Scopes(identity.ForUser(userID)).
		Where("created_at >= ?", bound).
		Find(&foodRows).Error; err != nil {
		return nil, nil, err
	}
	var activityRows []ActivityEntry
	if err := s.db.Scopes(identity.ForUser(userID)).
		Where("created_at >= ?", bound).
		Find(&activityRows).Error; err != nil {
		return nil, nil, err
	}

	foods := make([]wellness.FoodEntry, len(foodRows))
	for i, f := range foodRows {
		foods[i] = f.toWellness()
	}
	activities := make([]wellness.ActivityEntry, len(activityRows))
	for i, a := range activityRows {
		activities[i] = a.toWellness()
	}
	return foods, activities, nil
}

func validAmounts(values ...float64) bool {
	for _, v := range values {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
