package tracker

import (
	"sync"
	"testing"

	"github.com/claude/weeklog/internal/catalog"
	"github.com/claude/weeklog/internal/models"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// TestGuardedSerialises verifies concurrent appends through Do are all applied.
func TestGuardedSerialises(t *testing.T) {
	g := NewGuarded(New(catalog.New(nil)))
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = g.Do(func(tr *Tracker) error {
				return tr.Append(i%7, models.Activity{MuscleGroup: "legs", WorkoutType: "Squats", Reps: i})
			})
		}(i)
	}
	wg.Wait()

	var total int
	_ = g.Do(func(tr *Tracker) error {
		total = tr.Summary().Activities
		return nil
	})
	if total != 50 {
		t.Errorf("activities = %d, want 50", total)
	}
}
