// Package extract pulls structured slot values out of free-text utterances.
// Every extractor is a pure function that reports absence instead of failing:
// unparseable input is an extraction miss, never an error.
package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// tempPattern pairs a numeric pattern with the unit it implies.  Patterns are
// tried in priority order: explicit Fahrenheit, explicit Celsius, bare unit,
// then a bare number assumed to be Fahrenheit.  The last assumption is a
// documented ambiguity, not a guess that varies per call.
type tempPattern struct {
	re      *regexp.Regexp
	celsius bool
}

var tempPatterns = []tempPattern{
	{regexp.MustCompile(`(?i)(\d+\.?\d*)\s*(?:degrees?|°)\s*(?:f|fahrenheit)`), false},
	{regexp.MustCompile(`(?i)(\d+\.?\d*)\s*(?:degrees?|°)\s*(?:c|celsius)`), true},
	{regexp.MustCompile(`(?i)(\d+\.?\d*)\s*(?:f|fahrenheit)`), false},
	{regexp.MustCompile(`(?i)(\d+\.?\d*)\s*(?:c|celsius)`), true},
	{regexp.MustCompile(`(?i)(\d+\.?\d*)\s*(?:degrees?|°)`), false},
	{regexp.MustCompile(`(\d+\.?\d*)`), false},
}

// Temperature extracts a body temperature in Fahrenheit.  Celsius readings
// are converted via F = C*9/5 + 32.  Returns false when the text carries no
// number at all.
func Temperature(text string) (float64, bool) {
	lower := strings.ToLower(text)
	for _, p := range tempPatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if p.celsius || strings.Contains(lower, "celsius") {
			value = value*9/5 + 32
		}
		return value, true
	}
	return 0, false
}

// ageBucket pairs a bucket name with the keywords that select it.  First
// matching bucket wins.
type ageBucket struct {
	name     string
	keywords []string
}

var ageBuckets = []ageBucket{
	{"infant", []string{"infant", "baby", "newborn"}},
	{"child", []string{"child", "kid", "children"}},
	{"teenager", []string{"teen", "teenager", "adolescent"}},
	{"adult", []string{"adult", "grown"}},
	{"senior", []string{"senior", "elderly", "old"}},
}

// AgeGroup extracts one of the five fixed age buckets, or false if no bucket
// keyword is present.
func AgeGroup(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, bucket := range ageBuckets {
		for _, kw := range bucket.keywords {
			if strings.Contains(lower, kw) {
				return bucket.name, true
			}
		}
	}
	return "", false
}

var durationWords = []string{"hour", "day", "week", "minute"}

// MentionsDuration reports whether the text talks about elapsed time.  When
// it does, the caller stores the entire raw utterance as the duration slot;
// downstream guidance re-parses it loosely.
func MentionsDuration(text string) bool {
	lower := strings.ToLower(text)
	for _, word := range durationWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}
