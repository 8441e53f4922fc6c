package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fever-helpline/pkg"
)

func temp(f float64) *float64 { return &f }

func selfCareVerdict() pkg.TriageVerdict {
	return pkg.TriageVerdict{
		Level:     pkg.LevelSelfCare,
		Summary:   "Mild fever symptoms",
		NextSteps: []string{"Rest and stay hydrated"},
	}
}

func TestComposeGuidanceTiers(t *testing.T) {
	tests := []struct {
		name        string
		slots       pkg.Slots
		contains    []string
		notContains []string
	}{
		{
			name:     "high tier inclusive boundary",
			slots:    pkg.Slots{Temperature: temp(103)},
			contains: []string{"quite high"},
		},
		{
			name:        "fever tier inclusive boundary",
			slots:       pkg.Slots{Temperature: temp(100.4)},
			contains:    []string{"You have a fever"},
			notContains: []string{"quite high"},
		},
		{
			name:     "normal but symptomatic",
			slots:    pkg.Slots{Temperature: temp(99)},
			contains: []string{"within normal range"},
		},
		{
			name:        "no temperature omits the block",
			slots:       pkg.Slots{},
			notContains: []string{"quite high", "You have a fever", "within normal range"},
		},
		{
			name:     "infant caveat",
			slots:    pkg.Slots{AgeGroup: "infant"},
			contains: []string{"infants and children"},
		},
		{
			name:     "senior caveat",
			slots:    pkg.Slots{AgeGroup: "senior"},
			contains: []string{"For seniors"},
		},
		{
			name:     "persistent days caveat",
			slots:    pkg.Slots{Duration: "about 4 days now"},
			contains: []string{"persisted for several days"},
		},
		{
			name:        "two days is not persistent",
			slots:       pkg.Slots{Duration: "2 days"},
			notContains: []string{"persisted for several days", "persisted for a week"},
		},
		{
			name:        "week gets its own caveat",
			slots:       pkg.Slots{Duration: "more than a week"},
			contains:    []string{"persisted for a week or more"},
			notContains: []string{"persisted for several days"},
		},
		{
			name:        "counted days win over a week mention",
			slots:       pkg.Slots{Duration: "2 days into this week"},
			notContains: []string{"persisted for several days", "persisted for a week"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := ComposeGuidance(selfCareVerdict(), tt.slots)
			assert.Contains(t, text, "Next Steps")
			assert.Contains(t, text, Disclaimer)
			for _, want := range tt.contains {
				assert.Contains(t, text, want)
			}
			for _, not := range tt.notContains {
				assert.NotContains(t, text, not)
			}
		})
	}
}

// Scenario: 103°F, senior, two days.  High tier and senior caveat appear,
// the several-days caveat does not.
func TestComposeGuidanceCombined(t *testing.T) {
	slots := pkg.Slots{Temperature: temp(103), AgeGroup: "senior", Duration: "2 days"}
	text := ComposeGuidance(selfCareVerdict(), slots)
	assert.Contains(t, text, "quite high")
	assert.Contains(t, text, "For seniors")
	assert.NotContains(t, text, "persisted for several days")
}

func TestComposeGuidanceEscalation(t *testing.T) {
	verdict := selfCareVerdict()
	verdict.Level = pkg.LevelUrgent
	verdict.Escalate = true
	text := ComposeGuidance(verdict, pkg.Slots{Temperature: temp(104)})
	assert.Contains(t, text, "promptly")
}

func TestComposeGuidanceIdempotent(t *testing.T) {
	slots := pkg.Slots{Temperature: temp(101.5), AgeGroup: "child", Duration: "3 days"}
	first := ComposeGuidance(selfCareVerdict(), slots)
	second := ComposeGuidance(selfCareVerdict(), slots)
	assert.Equal(t, first, second)
}
