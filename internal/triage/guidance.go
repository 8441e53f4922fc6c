package triage

import (
	"strconv"
	"strings"

	"fever-helpline/pkg"
)

// Temperature tiers in Fahrenheit.  Boundaries are inclusive on the lower
// bound of each tier.
const (
	highFeverF = 103.0
	feverF     = 100.4
)

// ComposeGuidance assembles the final advice text from a verdict and the
// collected slots.  It is a pure function: identical inputs produce
// byte-identical output, and it never performs I/O.
func ComposeGuidance(verdict pkg.TriageVerdict, slots pkg.Slots) string {
	var sb strings.Builder
	sb.WriteString("Based on the information you've provided:\n\n")

	// Temperature tier.  When no temperature was captured, the block is
	// omitted entirely.
	if slots.Temperature != nil {
		switch temp := *slots.Temperature; {
		case temp >= highFeverF:
			sb.WriteString(
				"⚠️ Your temperature is quite high. It's important to:\n" +
					"• Take fever-reducing medication as directed (if not allergic)\n" +
					"• Stay hydrated by drinking plenty of fluids\n" +
					"• Rest in a cool, comfortable environment\n" +
					"• Monitor your symptoms closely\n\n")
		case temp >= feverF:
			sb.WriteString(
				"You have a fever. Consider:\n" +
					"• Resting and staying hydrated\n" +
					"• Taking fever-reducing medication if needed (if not allergic)\n" +
					"• Monitoring your symptoms\n\n")
		default:
			sb.WriteString(
				"Your temperature is within normal range, but you're experiencing symptoms. " +
					"It's still important to monitor and rest.\n\n")
		}
	}

	switch slots.AgeGroup {
	case "infant", "child":
		sb.WriteString(
			"⚠️ For infants and children, fevers can be more concerning. " +
				"It's especially important to monitor closely and consult with a pediatrician " +
				"if symptoms persist or worsen.\n\n")
	case "senior":
		sb.WriteString(
			"⚠️ For seniors, fevers may require closer monitoring. " +
				"Please consult with a healthcare provider, especially if symptoms persist.\n\n")
	}

	if caveat := durationCaveat(slots.Duration); caveat != "" {
		sb.WriteString(caveat)
	}

	if verdict.Escalate && verdict.Level != pkg.LevelEmergency {
		sb.WriteString(
			"⚠️ Based on your answers, please contact a healthcare provider promptly " +
				"rather than waiting for symptoms to pass.\n\n")
	}

	sb.WriteString(
		"**Next Steps:**\n" +
			"• Continue monitoring your symptoms\n" +
			"• Stay well-hydrated\n" +
			"• Get plenty of rest\n" +
			"• If symptoms worsen or persist, contact a healthcare provider\n" +
			"• If you develop any red flag symptoms, seek emergency care immediately\n\n")
	sb.WriteString(Disclaimer)

	return sb.String()
}

// durationCaveat loosely re-parses the stored duration utterance.  A day
// count of three or more gets the several-days caveat; otherwise a mention of
// "week" gets the week caveat.  The day branch is checked first, so a counted
// day answer decides even when "week" also appears.
func durationCaveat(duration string) string {
	if duration == "" {
		return ""
	}
	lower := strings.ToLower(duration)
	if strings.Contains(lower, "day") && strings.ContainsAny(lower, "0123456789") {
		for _, field := range strings.Fields(lower) {
			if days, err := strconv.Atoi(field); err == nil {
				if days >= 3 {
					return "⚠️ Since your fever has persisted for several days, " +
						"it's advisable to consult with a healthcare provider.\n\n"
				}
				break
			}
		}
		return ""
	}
	if strings.Contains(lower, "week") {
		return "⚠️ Since your symptoms have persisted for a week or more, " +
			"it's important to consult with a healthcare provider.\n\n"
	}
	return ""
}
