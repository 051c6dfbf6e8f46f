package plan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/billingkit/pkg/plan"
)

func TestExpand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		selector plan.Selector
		want     []plan.Plan
		wantErr  error
	}{
		{
			name:     "personal",
			selector: plan.SelectPersonal,
			want:     []plan.Plan{plan.Personal},
		},
		{
			name:     "business",
			selector: plan.SelectBusiness,
			want:     []plan.Plan{plan.Business},
		},
		{
			name:     "combined expands to both plans personal first",
			selector: plan.SelectCombined,
			want:     []plan.Plan{plan.Personal, plan.Business},
		},
		{
			name:     "unknown selector",
			selector: plan.Selector("ENTERPRISE"),
			wantErr:  plan.ErrUnknownPlan,
		},
		{
			name:     "empty selector",
			selector: plan.Selector(""),
			wantErr:  plan.ErrUnknownPlan,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := plan.Expand(tt.selector)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlanValid(t *testing.T) {
	t.Parallel()

	assert.True(t, plan.Personal.Valid())
	assert.True(t, plan.Business.Valid())
	assert.False(t, plan.Plan("combined").Valid())
	assert.False(t, plan.Plan("").Valid())
}

func TestDisplayName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Personal", plan.Personal.DisplayName())
	assert.Equal(t, "Business", plan.Business.DisplayName())
}
