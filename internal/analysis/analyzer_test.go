package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockAnalyzer_ReturnsCatalogItem(t *testing.T) {
	a := NewMockAnalyzer(WithDelay(0), WithSeed(1))

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		res, err := a.Analyze(context.Background(), []byte{0xff, 0xd8}, "")
		require.NoError(t, err)
		assert.Contains(t, Catalog, *res)
		seen[res.Name] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestMockAnalyzer_SameSeedSamePicks(t *testing.T) {
	a := NewMockAnalyzer(WithDelay(0), WithSeed(42))
	b := NewMockAnalyzer(WithDelay(0), WithSeed(42))
	for i := 0; i < 5; i++ {
		ra, err := a.Analyze(context.Background(), nil, "https://cdn.example/meal.jpg")
		require.NoError(t, err)
		rb, err := b.Analyze(context.Background(), nil, "https://cdn.example/meal.jpg")
		require.NoError(t, err)
		assert.Equal(t, ra, rb)
	}
}

func TestMockAnalyzer_RequiresImage(t *testing.T) {
	_, err := NewMockAnalyzer(WithDelay(0)).Analyze(context.Background(), nil, "")
	assert.ErrorIs(t, err, ErrEmptyImage)
}

func TestMockAnalyzer_HonorsCancellation(t *testing.T) {
	a := NewMockAnalyzer(WithDelay(time.Hour))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := a.Analyze(ctx, []byte{1}, "")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
