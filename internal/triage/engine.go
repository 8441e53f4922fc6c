package triage

import (
	"context"
	"log/slog"
	"time"

	"fever-helpline/internal/extract"
	"fever-helpline/internal/metrics"
	"fever-helpline/internal/redflag"
	"fever-helpline/pkg"
)

// Engine owns the five-stage dialog flow: initial → temperature → duration →
// age → symptoms → done.  It decides the next prompt, terminates early on a
// red flag, and invokes the assessor at the terminal stage.
//
// The engine holds no per-conversation state itself; all mutable state lives
// in the pkg.Session the caller passes in.  One session must be owned by one
// processing path at a time, but independent sessions can be processed
// concurrently without coordination.
type Engine struct {
	detector *redflag.Detector
	assessor Assessor
	logger   *slog.Logger
	now      func() time.Time
}

// NewEngine wires a detector and an assessment strategy into an engine.
func NewEngine(detector *redflag.Detector, assessor Assessor, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		detector: detector,
		assessor: assessor,
		logger:   logger,
		now:      time.Now,
	}
}

// turnOutcome is the fully computed result of a turn, staged before any
// session mutation.  If processing is abandoned mid-turn, nothing has been
// written to the session yet, so no partial extraction can leak into the
// next turn.
type turnOutcome struct {
	slots    pkg.Slots
	stage    pkg.Stage
	locked   bool
	response string
	complete bool
	verdict  *pkg.TriageVerdict
}

// ProcessTurn is the single entry point a transport layer wraps.  It returns
// the assistant's response text, whether the conversation is complete, and
// the triage verdict when one was produced this turn.
//
// The red-flag check runs before any other interpretation of the utterance.
// Session mutation happens only after the whole turn has been computed.
func (e *Engine) ProcessTurn(ctx context.Context, session *pkg.Session, utterance string) (string, bool, *pkg.TriageVerdict) {
	metrics.TurnsProcessed.WithLabelValues(string(session.Stage)).Inc()

	// Absorbing lock: once a red flag ended the conversation, further input
	// is ignored entirely.
	if session.RedFlagLocked {
		return "", true, nil
	}

	// A normally completed conversation is just as inert: no extraction, no
	// history growth, no new verdict.
	if session.Stage == pkg.StageDone {
		return "", true, nil
	}

	outcome := e.computeTurn(ctx, session, utterance)

	if outcome.verdict != nil {
		if err := outcome.verdict.Validate(); err != nil {
			// Internal defect, not a user-facing condition.
			e.logger.Error("triage verdict violates invariant", "session_id", session.ID, "error", err)
		}
	}

	e.commit(session, utterance, outcome)
	return outcome.response, outcome.complete, outcome.verdict
}

func (e *Engine) computeTurn(ctx context.Context, session *pkg.Session, utterance string) turnOutcome {
	outcome := turnOutcome{
		slots: session.Slots,
		stage: session.Stage,
	}

	// Safety gate first.
	if category, found := e.detector.Detect(utterance); found {
		metrics.RedFlagsDetected.WithLabelValues(string(category)).Inc()
		e.logger.Info("red flag detected", "session_id", session.ID, "category", category)
		verdict := emergencyVerdict(category)
		outcome.locked = true
		outcome.stage = pkg.StageDone
		outcome.response = redflag.Response(category)
		outcome.complete = true
		outcome.verdict = &verdict
		return outcome
	}

	// Opportunistic slot extraction runs on every turn.  Slots are filled
	// once and kept: a later utterance that happens to contain a number must
	// not clobber an answered temperature.
	if outcome.slots.Temperature == nil {
		if temp, found := extract.Temperature(utterance); found {
			outcome.slots.Temperature = &temp
		}
	}
	if outcome.slots.AgeGroup == "" {
		if age, found := extract.AgeGroup(utterance); found {
			outcome.slots.AgeGroup = age
		}
	}
	if outcome.slots.Duration == "" && extract.MentionsDuration(utterance) {
		outcome.slots.Duration = utterance
	}

	switch session.Stage {
	case pkg.StageInitial:
		// The raw utterance is the chief complaint; advance regardless of
		// what the extractors found.
		outcome.slots.InitialSymptoms = utterance
		outcome.response = askTemperature
		outcome.stage = pkg.StageTemperature

	case pkg.StageTemperature:
		// The one retry loop besides age: without a temperature we cannot
		// tier the guidance, so re-prompt instead of advancing.
		if outcome.slots.Temperature == nil {
			outcome.response = retryTemperature
			break
		}
		outcome.response = askDuration
		outcome.stage = pkg.StageDuration

	case pkg.StageDuration:
		// Duration never blocks progress: absent a match, keep the raw
		// utterance as a best-effort answer.
		if outcome.slots.Duration == "" {
			outcome.slots.Duration = utterance
		}
		outcome.response = askAgeGroup
		outcome.stage = pkg.StageAge

	case pkg.StageAge:
		if outcome.slots.AgeGroup == "" {
			outcome.response = retryAgeGroup
			break
		}
		outcome.response = askAdditionalSymptoms
		outcome.stage = pkg.StageSymptoms

	case pkg.StageSymptoms:
		outcome.slots.AdditionalSymptoms = utterance
		verdict := e.assessor.Assess(ctx, session.History, utterance)
		// The conversation ends here, so the verdict carries no follow-up
		// question even if the strategy proposed one.
		verdict.NextQuestion = ""
		outcome.response = ComposeGuidance(verdict, outcome.slots)
		outcome.stage = pkg.StageDone
		outcome.complete = true
		outcome.verdict = &verdict
	}

	return outcome
}

// commit applies a fully computed outcome to the session.
func (e *Engine) commit(session *pkg.Session, utterance string, outcome turnOutcome) {
	now := e.now()
	session.Slots = outcome.slots
	session.Stage = outcome.stage
	if outcome.locked {
		session.RedFlagLocked = true
	}
	session.History = append(session.History,
		pkg.ConversationTurn{Role: pkg.RoleUser, Content: utterance, Timestamp: now})
	if outcome.response != "" {
		session.History = append(session.History,
			pkg.ConversationTurn{Role: pkg.RoleAssistant, Content: outcome.response, Timestamp: now})
	}
}

// NewSession creates a fresh session at the initial stage.
func NewSession(id string, now time.Time) *pkg.Session {
	return &pkg.Session{
		ID:        id,
		Stage:     pkg.StageInitial,
		CreatedAt: now,
	}
}
