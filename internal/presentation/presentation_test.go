package presentation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealer-admin/internal/common/i18n"
)

func TestStepper(t *testing.T) {
	tests := []struct {
		steps     []string
		current   int
		wantWidth string
		wantLabel string
	}{
		{[]string{"A", "B", "C"}, 2, "66.67%", "B"},
		{[]string{"A", "B", "C"}, 1, "33.33%", "A"},
		{[]string{"A", "B", "C"}, 3, "100.00%", "C"},
		{[]string{"only"}, 1, "100.00%", "only"},
	}
	for _, tt := range tests {
		view, err := Stepper(tt.steps, tt.current)
		require.NoError(t, err)
		assert.Equal(t, tt.wantWidth, view.Width)
		assert.Equal(t, tt.wantLabel, view.Label)
		assert.Equal(t, tt.current, view.Current)
	}
}

func TestStepper_OutOfRange(t *testing.T) {
	for _, current := range []int{0, -1, 4} {
		_, err := Stepper([]string{"A", "B", "C"}, current)
		assert.ErrorIs(t, err, ErrStepOutOfRange)
	}
	_, err := Stepper(nil, 1)
	assert.ErrorIs(t, err, ErrStepOutOfRange)
}

func TestBadges(t *testing.T) {
	b := TestDriveStatusBadge("completed", i18n.English)
	assert.Equal(t, Badge{Status: "completed", Label: "Completed", Tone: ToneSuccess}, b)

	b = ReservationStatusBadge("cancelled", i18n.Arabic)
	assert.Equal(t, "ملغي", b.Label)
	assert.Equal(t, ToneDanger, b.Tone)

	b = VideoStatusBadge("processing", i18n.English)
	assert.Equal(t, ToneInfo, b.Tone)

	b = VideoStatusBadge("archived", i18n.Arabic)
	assert.Equal(t, Badge{Status: "archived", Label: "archived", Tone: ToneNeutral}, b)
}

func TestStepEmptyState(t *testing.T) {
	es := StepEmptyState("specs", i18n.Arabic)
	assert.Equal(t, "المواصفات", es.Title)
	assert.Equal(t, "specs", es.Step)

	es = StepEmptyState("seo", i18n.English)
	assert.Equal(t, "SEO", es.Title)
	assert.NotEmpty(t, es.Message)

	assert.Equal(t, "custom", StepEmptyState("custom", i18n.English).Title)
}
