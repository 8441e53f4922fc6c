package triage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"fever-helpline/internal/llm"
	"fever-helpline/internal/metrics"
	"fever-helpline/internal/redflag"
	"fever-helpline/pkg"
)

// Assessor produces a triage verdict from the conversation so far.  It never
// returns an error: failures inside a strategy degrade to a conservative
// fallback verdict, because under-triage is the unacceptable failure mode.
//
// There are exactly two implementations, chosen once at configuration time:
// RuleAssessor and ModelAssessor.
type Assessor interface {
	Assess(ctx context.Context, history []pkg.ConversationTurn, current string) pkg.TriageVerdict
}

// emergencyVerdict is the fixed verdict for a detected red flag.
func emergencyVerdict(category redflag.Category) pkg.TriageVerdict {
	return pkg.TriageVerdict{
		Level:    pkg.LevelEmergency,
		Escalate: true,
		Summary:  fmt.Sprintf("Red flag symptom detected: %s", category),
		NextSteps: []string{
			"Call emergency services immediately",
			"Go to the nearest emergency room",
			"Do not delay seeking medical attention",
		},
		RedFlag: string(category),
	}
}

// safeDefaultVerdict is returned whenever the external delegate fails.  It
// deliberately over-triages toward "see a provider" rather than guessing.
func safeDefaultVerdict() pkg.TriageVerdict {
	return pkg.TriageVerdict{
		Level:    pkg.LevelFollowUp,
		Escalate: false,
		Summary:  "Fever symptoms reported. Please consult with a healthcare provider.",
		NextSteps: []string{
			"Monitor your symptoms",
			"Stay hydrated",
			"Get plenty of rest",
			"Consult a healthcare provider if symptoms persist or worsen",
		},
		NextQuestion: "Is there anything else you'd like to tell me about your symptoms?",
	}
}

// RuleAssessor is the deterministic strategy: keyword thresholds over the
// current utterance.  It is deliberately coarser than the model-backed
// strategy and also serves as the no-credentials mode for the whole service.
type RuleAssessor struct {
	detector *redflag.Detector
}

// NewRuleAssessor builds the rule-based strategy.
func NewRuleAssessor(detector *redflag.Detector) *RuleAssessor {
	return &RuleAssessor{detector: detector}
}

var urgentWords = []string{"high", "very hot", "103", "104", "105"}

// Assess applies the red-flag gate, then simple threshold logic.
func (a *RuleAssessor) Assess(_ context.Context, _ []pkg.ConversationTurn, current string) pkg.TriageVerdict {
	if category, found := a.detector.Detect(current); found {
		return emergencyVerdict(category)
	}

	lower := strings.ToLower(current)
	for _, word := range urgentWords {
		if strings.Contains(lower, word) {
			return pkg.TriageVerdict{
				Level:    pkg.LevelUrgent,
				Escalate: true,
				Summary:  "High fever detected",
				NextSteps: []string{
					"Take fever-reducing medication if not allergic",
					"Stay hydrated",
					"Consult a healthcare provider soon",
				},
				NextQuestion: "How long have you been experiencing this fever?",
			}
		}
	}

	return pkg.TriageVerdict{
		Level:    pkg.LevelSelfCare,
		Escalate: false,
		Summary:  "Mild fever symptoms",
		NextSteps: []string{
			"Rest and stay hydrated",
			"Monitor your temperature",
			"Consult a doctor if symptoms persist",
		},
		NextQuestion: "Are you experiencing any other symptoms?",
	}
}

// ModelAssessor delegates assessment to an external text-completion service.
// Any service failure, malformed payload, or schema violation falls back to
// safeDefaultVerdict; errors never reach the caller.
type ModelAssessor struct {
	detector *redflag.Detector
	client   llm.Client
	logger   *slog.Logger
}

// NewModelAssessor builds the delegate strategy around a completion client.
func NewModelAssessor(detector *redflag.Detector, client llm.Client, logger *slog.Logger) *ModelAssessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &ModelAssessor{detector: detector, client: client, logger: logger}
}

// assessmentPayload is the JSON schema the completion service must follow.
type assessmentPayload struct {
	TriageLevel          string   `json:"triage_level"`
	Escalate             bool     `json:"escalate"`
	Summary              string   `json:"summary"`
	RecommendedNextSteps []string `json:"recommended_next_steps"`
	NextQuestion         *string  `json:"next_question"`
}

// Assess re-checks red flags locally, then asks the completion service for a
// structured verdict.  The red-flag gate runs here even though the engine has
// its own, so the assessor stays safe when used standalone.
func (a *ModelAssessor) Assess(ctx context.Context, history []pkg.ConversationTurn, current string) pkg.TriageVerdict {
	if category, found := a.detector.Detect(current); found {
		return emergencyVerdict(category)
	}

	var sb strings.Builder
	sb.WriteString("Conversation History:\n")
	for _, turn := range history {
		fmt.Fprintf(&sb, "%s: %s\n", turn.Role, turn.Content)
	}
	fmt.Fprintf(&sb, "\nCurrent message: %s\n\n", current)
	sb.WriteString(triageInstruction)

	raw, err := a.client.Complete(ctx, systemPrompt, []llm.Turn{{Role: "user", Content: sb.String()}}, true)
	if err != nil {
		a.logger.Warn("triage assessment delegate failed, using safe default", "error", err)
		metrics.AssessorFallbacks.Inc()
		return safeDefaultVerdict()
	}

	verdict, err := parseAssessment(raw)
	if err != nil {
		a.logger.Warn("triage assessment response malformed, using safe default", "error", err)
		metrics.AssessorFallbacks.Inc()
		return safeDefaultVerdict()
	}
	return verdict
}

// parseAssessment decodes and validates a completion payload.  Models
// sometimes wrap JSON in a markdown fence; strip it before decoding.
func parseAssessment(raw string) (pkg.TriageVerdict, error) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var payload assessmentPayload
	if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
		return pkg.TriageVerdict{}, fmt.Errorf("decode assessment: %w", err)
	}

	level := pkg.TriageLevel(payload.TriageLevel)
	if !pkg.ValidLevel(level) {
		return pkg.TriageVerdict{}, fmt.Errorf("unknown triage level %q", payload.TriageLevel)
	}
	if len(payload.RecommendedNextSteps) == 0 {
		return pkg.TriageVerdict{}, fmt.Errorf("assessment has no recommended next steps")
	}

	verdict := pkg.TriageVerdict{
		Level:     level,
		Escalate:  payload.Escalate,
		Summary:   payload.Summary,
		NextSteps: payload.RecommendedNextSteps,
	}
	if verdict.Summary == "" {
		verdict.Summary = "Fever-related symptoms detected"
	}
	if payload.NextQuestion != nil {
		verdict.NextQuestion = *payload.NextQuestion
	}
	return verdict, nil
}
