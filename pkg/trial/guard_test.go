package trial_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/billingkit/pkg/plan"
	"github.com/dmitrymomot/billingkit/pkg/trial"
)

func TestGuard(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("fresh email has not used trial", func(t *testing.T) {
		t.Parallel()

		guard := trial.NewGuard(trial.NewMemoryStore())

		used, err := guard.HasUsedTrial(ctx, "new@example.com", plan.Personal)
		require.NoError(t, err)
		assert.False(t, used)
	})

	t.Run("second record for same email and plan fails", func(t *testing.T) {
		t.Parallel()

		guard := trial.NewGuard(trial.NewMemoryStore())

		require.NoError(t, guard.RecordTrialUsed(ctx, "e@x.com", plan.Personal))

		err := guard.RecordTrialUsed(ctx, "e@x.com", plan.Personal)
		require.ErrorIs(t, err, trial.ErrAlreadyUsed)

		used, err := guard.HasUsedTrial(ctx, "e@x.com", plan.Personal)
		require.NoError(t, err)
		assert.True(t, used)
	})

	t.Run("plans are tracked independently", func(t *testing.T) {
		t.Parallel()

		guard := trial.NewGuard(trial.NewMemoryStore())

		require.NoError(t, guard.RecordTrialUsed(ctx, "e@x.com", plan.Personal))
		require.NoError(t, guard.RecordTrialUsed(ctx, "e@x.com", plan.Business))

		used, err := guard.HasUsedTrial(ctx, "e@x.com", plan.Business)
		require.NoError(t, err)
		assert.True(t, used)
	})

	t.Run("email comparison ignores case and whitespace", func(t *testing.T) {
		t.Parallel()

		guard := trial.NewGuard(trial.NewMemoryStore())

		require.NoError(t, guard.RecordTrialUsed(ctx, "E@X.com", plan.Personal))

		used, err := guard.HasUsedTrial(ctx, "  e@x.com ", plan.Personal)
		require.NoError(t, err)
		assert.True(t, used)

		err = guard.RecordTrialUsed(ctx, "e@x.COM", plan.Personal)
		require.ErrorIs(t, err, trial.ErrAlreadyUsed)
	})

	t.Run("rejects empty email and invalid plan", func(t *testing.T) {
		t.Parallel()

		guard := trial.NewGuard(trial.NewMemoryStore())

		_, err := guard.HasUsedTrial(ctx, "", plan.Personal)
		require.ErrorIs(t, err, trial.ErrEmptyEmail)

		err = guard.RecordTrialUsed(ctx, "e@x.com", plan.Plan("combined"))
		require.ErrorIs(t, err, trial.ErrInvalidPlan)
	})
}

func TestRecordTrialUsedConcurrent(t *testing.T) {
	t.Parallel()

	guard := trial.NewGuard(trial.NewMemoryStore())

	const callers = 32
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)

	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			err := guard.RecordTrialUsed(context.Background(), "race@example.com", plan.Personal)
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, trial.ErrAlreadyUsed)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes, "exactly one racing insert may win")
}
