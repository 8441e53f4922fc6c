package redflag

import (
	"fmt"
	"strings"
)

// Detector scans free text for red-flag symptoms.  It is a pure lexical
// matcher over the fixed catalog: the first category (in catalog order) whose
// first keyword appears as a case-insensitive substring wins.  This check
// runs before any other interpretation of a turn; it is a safety gate.
type Detector struct {
	catalog Catalog
}

// NewDetector builds a detector over the given catalog.
func NewDetector(catalog Catalog) *Detector {
	return &Detector{catalog: catalog}
}

// Detect returns the first matching category, or false if the text contains
// no red-flag keyword.  The scan is linear in input length times keyword
// count, which is fine for a catalog this small.
func (d *Detector) Detect(text string) (Category, bool) {
	lower := strings.ToLower(text)
	for _, entry := range d.catalog {
		for _, keyword := range entry.Keywords {
			if strings.Contains(lower, keyword) {
				return entry.Category, true
			}
		}
	}
	return "", false
}

// Response is the literal emergency guidance shown when a red flag is
// detected. Wording matters here; do not rephrase casually.
func Response(category Category) string {
	return fmt.Sprintf(
		"⚠️ URGENT: I've detected a potential red flag symptom: %s.\n\n"+
			"**This may be serious. Please call emergency services or go to the nearest emergency department now. "+
			"I am not a doctor.**\n\n"+
			"• Call your local emergency number (e.g., 911, 999, 112)\n"+
			"• Go to the nearest emergency room\n"+
			"• Do not delay seeking medical attention\n",
		category,
	)
}
