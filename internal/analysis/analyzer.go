// Package analysis turns a meal photo into a nutrition estimate.
package analysis

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"
)

var ErrEmptyImage = errors.New("image is required")

// Result is the nutrition estimate for one photographed meal.
type Result struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
}

// Analyzer estimates nutrition from image bytes (or an image reference when
// the bytes live elsewhere).
type Analyzer interface {
	Analyze(ctx context.Context, image []byte, imageURL string) (*Result, error)
}

// Catalog is the fixed table the mock analyzer draws from.
var Catalog = []Result{
	{Name: "Arroz com Feijão", Calories: 350, Protein: 12, Carbs: 65, Fat: 5, Fiber: 8},
	{Name: "Frango Grelhado", Calories: 280, Protein: 45, Carbs: 0, Fat: 10, Fiber: 0},
	{Name: "Salada Verde", Calories: 80, Protein: 3, Carbs: 12, Fat: 2, Fiber: 5},
	{Name: "Macarrão Integral", Calories: 320, Protein: 11, Carbs: 60, Fat: 4, Fiber: 7},
	{Name: "Peixe Assado", Calories: 250, Protein: 40, Carbs: 0, Fat: 9, Fiber: 0},
	{Name: "Batata Doce", Calories: 180, Protein: 4, Carbs: 40, Fat: 0.5, Fiber: 6},
	{Name: "Ovo Mexido", Calories: 200, Protein: 18, Carbs: 2, Fat: 14, Fiber: 0},
	{Name: "Frutas Variadas", Calories: 120, Protein: 2, Carbs: 30, Fat: 0.5, Fiber: 4},
}

// MockAnalyzer ignores the image and returns a random catalog item after a
// fixed delay.
type MockAnalyzer struct {
	delay time.Duration
	mu    sync.Mutex
	rng   *rand.Rand
}

type MockOption func(*MockAnalyzer)

func WithDelay(d time.Duration) MockOption {
	return func(m *MockAnalyzer) { m.delay = d }
}

// WithSeed makes the picks reproducible.
func WithSeed(seed int64) MockOption {
	return func(m *MockAnalyzer) { m.rng = rand.New(rand.NewSource(seed)) }
}

func NewMockAnalyzer(opts ...MockOption) *MockAnalyzer {
	m := &MockAnalyzer{
		delay: 2 * time.Second,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MockAnalyzer) Analyze(ctx context.Context, image []byte, imageURL string) (*Result, error) {
	if len(image) == 0 && imageURL == "" {
		return nil, ErrEmptyImage
	}

	if m.delay > 0 {
		timer := time.NewTimer(m.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	pick := Catalog[m.rng.Intn(len(Catalog))]
	m.mu.Unlock()
	return &pick, nil
}
