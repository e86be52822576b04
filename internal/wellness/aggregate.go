// Package wellness holds the pure daily-tracking logic: today's intake and
// burn totals, reminder matching and BMI. Nothing here reads the clock or
// touches storage; callers pass the reference instant explicitly.
package wellness

import (
	"errors"
	"math"
	"time"
)

var ErrInvalidGoal = errors.New("daily calorie goal must be greater than zero")

// FoodEntry is the part of a logged meal the aggregator needs.
type FoodEntry struct {
	Calories  float64
	Protein   float64
	Carbs     float64
	Fat       float64
	Fiber     float64
	CreatedAt time.Time
}

// ActivityEntry is the part of a logged activity the aggregator needs.
type ActivityEntry struct {
	Calories  int
	CreatedAt time.Time
}

type DailyStats struct {
	TotalCalories       float64 `json:"total_calories"`
	TotalProtein        float64 `json:"total_protein"`
	TotalCarbs          float64 `json:"total_carbs"`
	TotalFat            float64 `json:"total_fat"`
	MealsCount          int     `json:"meals_count"`
	TotalCaloriesBurned int     `json:"total_calories_burned"`
}

// AggregateToday sums the entries whose creation instant falls on the same
// calendar date as ref, both read in ref's location.
func AggregateToday(foods []FoodEntry, activities []ActivityEntry, ref time.Time) DailyStats {
	var stats DailyStats
	for _, f := range foods {
		if !SameLocalDate(f.CreatedAt, ref) {
			continue
		}
		stats.TotalCalories += f.Calories
		stats.TotalProtein += f.Protein
		stats.TotalCarbs += f.Carbs
		stats.TotalFat += f.Fat
		stats.MealsCount++
	}
	for _, a := range activities {
		if SameLocalDate(a.CreatedAt, ref) {
			stats.TotalCaloriesBurned += a.Calories
		}
	}
	return stats
}

// SameLocalDate reports whether t and ref share a calendar date in ref's
// location.
func SameLocalDate(t, ref time.Time) bool {
	y1, m1, d1 := t.In(ref.Location()).Date()
	y2, m2, d2 := ref.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// StartOfDay returns local midnight of the day containing t.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// CaloriesPercentage is total/goal*100, unclamped: 2500 of 2000 is 125.
func CaloriesPercentage(totalCalories float64, dailyGoal int) (float64, error) {
	if dailyGoal <= 0 {
		return 0, ErrInvalidGoal
	}
	return totalCalories / float64(dailyGoal) * 100, nil
}

// ClampPercentage bounds a percentage to [0, 100] for progress bars.
func ClampPercentage(p float64) float64 {
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	return math.Min(p, 100)
}
