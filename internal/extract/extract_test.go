package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemperature(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
		found bool
	}{
		{"explicit fahrenheit", "my temp is 101 degrees Fahrenheit", 101, true},
		{"explicit celsius", "38.5 degrees Celsius", 101.3, true},
		{"bare f", "around 102F I think", 102, true},
		{"bare celsius word", "it read 39 celsius", 102.2, true},
		{"degrees only assumes fahrenheit", "103 degrees", 103, true},
		{"bare number assumes fahrenheit", "it's 104", 104, true},
		{"decimal", "100.6 degrees", 100.6, true},
		{"no number", "I have a mild fever", 0, false},
		{"empty", "", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := Temperature(tt.input)
			require.Equal(t, tt.found, found)
			if found {
				assert.InDelta(t, tt.want, got, 0.01)
			}
		})
	}
}

func TestAgeGroup(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		found bool
	}{
		{"infant", "it's for my baby", "infant", true},
		{"child", "my kid has a fever", "child", true},
		{"teenager", "I'm a teenager", "teenager", true},
		{"adult", "I'm an adult", "adult", true},
		{"senior", "I am 70 years old", "senior", true},
		{"elderly", "my elderly mother", "senior", true},
		{"first bucket wins", "a baby and a senior at home", "infant", true},
		{"no keyword", "just me", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := AgeGroup(tt.input)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMentionsDuration(t *testing.T) {
	assert.True(t, MentionsDuration("about 2 days now"))
	assert.True(t, MentionsDuration("a few hours"))
	assert.True(t, MentionsDuration("over a week"))
	assert.True(t, MentionsDuration("started 30 minutes ago"))
	assert.False(t, MentionsDuration("since yesterday"))
	assert.False(t, MentionsDuration(""))
}
