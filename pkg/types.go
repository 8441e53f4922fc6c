package pkg

import (
	"errors"
	"time"
)

// TriageLevel classifies clinical urgency.  Levels are ordered by severity:
// EMERGENCY > URGENT > SELF_CARE > FOLLOW_UP.  The ordering is documentation
// only; nothing compares levels numerically.
type TriageLevel string

const (
	LevelEmergency TriageLevel = "EMERGENCY"
	LevelUrgent    TriageLevel = "URGENT"
	LevelSelfCare  TriageLevel = "SELF_CARE"
	LevelFollowUp  TriageLevel = "FOLLOW_UP"
)

// ValidLevel reports whether l is one of the four known triage levels.
func ValidLevel(l TriageLevel) bool {
	switch l {
	case LevelEmergency, LevelUrgent, LevelSelfCare, LevelFollowUp:
		return true
	}
	return false
}

// Role describes who authored a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationTurn is one message in a session's history.  The history is
// append-only; turns are never edited after the fact.
type ConversationTurn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// TriageVerdict is the structured result of an assessment.  It is a value
// type: assessors build one and hand it over, nobody mutates it afterwards.
type TriageVerdict struct {
	Level        TriageLevel `json:"triage_level"`
	Escalate     bool        `json:"escalate"`
	Summary      string      `json:"summary"`
	NextSteps    []string    `json:"recommended_next_steps"`
	NextQuestion string      `json:"next_question,omitempty"`
	RedFlag      string      `json:"red_flag_symptom,omitempty"`
}

// Validate checks the verdict invariant: a red flag forces EMERGENCY,
// escalation, and no follow-up question.  A violation is an internal defect,
// not a recoverable condition.
func (v TriageVerdict) Validate() error {
	if !ValidLevel(v.Level) {
		return errors.New("unknown triage level")
	}
	if v.RedFlag != "" {
		if v.Level != LevelEmergency {
			return errors.New("red flag verdict must be EMERGENCY")
		}
		if !v.Escalate {
			return errors.New("red flag verdict must escalate")
		}
		if v.NextQuestion != "" {
			return errors.New("red flag verdict must not ask a follow-up question")
		}
	}
	return nil
}

// Stage is a node in the fixed question sequence of a conversation.
type Stage string

const (
	StageInitial     Stage = "initial"
	StageTemperature Stage = "temperature"
	StageDuration    Stage = "duration"
	StageAge         Stage = "age"
	StageSymptoms    Stage = "symptoms"
	StageDone        Stage = "done"
)

// Slots holds the structured fields pulled out of free text over the course
// of a conversation.  A nil Temperature or empty string means the slot has
// not been captured yet.
type Slots struct {
	Temperature        *float64 `json:"temperature,omitempty"`
	Duration           string   `json:"duration,omitempty"`
	AgeGroup           string   `json:"age_group,omitempty"`
	InitialSymptoms    string   `json:"initial_symptoms,omitempty"`
	AdditionalSymptoms string   `json:"additional_symptoms,omitempty"`
}

// Session is the per-conversation mutable state.  Each instance is owned by
// exactly one conversation's processing path at a time; durability is the
// persistence layer's problem, not the session's.
type Session struct {
	ID            string             `json:"id"`
	Stage         Stage              `json:"stage"`
	Slots         Slots              `json:"slots"`
	RedFlagLocked bool               `json:"red_flag_locked"`
	History       []ConversationTurn `json:"history"`
	CreatedAt     time.Time          `json:"created_at"`
}

// ConversationRecord is the persisted shape of a finished or in-flight
// conversation, as stored by the repository.
type ConversationRecord struct {
	SessionID   string             `json:"session_id"`
	Turns       []ConversationTurn `json:"turns"`
	TriageLevel string             `json:"triage_level,omitempty"`
	Summary     string             `json:"summary,omitempty"`
	RedFlag     string             `json:"red_flag,omitempty"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// TriageRequest is the body of POST /api/triage.
type TriageRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// TriageResponse is the reply to a processed turn.
type TriageResponse struct {
	SessionID            string         `json:"session_id"`
	Message              string         `json:"message"`
	TriageResult         *TriageVerdict `json:"triage_result,omitempty"`
	ConversationComplete bool           `json:"conversation_complete"`
}

// SummaryResponse is returned by GET /api/summary/{session_id}.
type SummaryResponse struct {
	SessionID            string      `json:"session_id"`
	Summary              string      `json:"summary"`
	TriageLevel          TriageLevel `json:"triage_level"`
	RecommendedNextSteps []string    `json:"recommended_next_steps"`
	ConversationCount    int         `json:"conversation_count"`
}
