package factory

import (
	"time"

	"github.com/edugame/quizroom/internal/dependencies/mocks"
	"github.com/edugame/quizroom/internal/services/watcher"
	"github.com/edugame/quizroom/internal/storage/memory"
	"github.com/edugame/quizroom/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	// Fast polling keeps watcher-driven tests quick
	watcherCfg := watcher.Config{
		Interval:               10 * time.Millisecond,
		MaxConsecutiveFailures: 5,
	}

	app := newWithDependencies(store, mockClock, mockRandom, watcherCfg, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
