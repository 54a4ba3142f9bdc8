package models

import "time"

// ScoreDimensions is the fixed, ordered set of scored dimensions.
var ScoreDimensions = []string{
	"technical_accuracy",
	"communication_clarity",
	"body_language",
	"eye_contact",
	"speaking_pace",
}

const (
	MinScore = 0
	MaxScore = 10
)

// ScoreVector holds one round's per-dimension scores, each in [0,10].
// Zero means the dimension was not applicable or not scored.
type ScoreVector struct {
	TechnicalAccuracy    int `json:"technical_accuracy"`
	CommunicationClarity int `json:"communication_clarity"`
	BodyLanguage         int `json:"body_language"`
	EyeContact           int `json:"eye_contact"`
	SpeakingPace         int `json:"speaking_pace"`
}

// Values returns the scores in ScoreDimensions order.
func (s ScoreVector) Values() []int {
	return []int{
		s.TechnicalAccuracy,
		s.CommunicationClarity,
		s.BodyLanguage,
		s.EyeContact,
		s.SpeakingPace,
	}
}

// Evaluation is the adapter's structured reading of one answered question.
type Evaluation struct {
	Scores   ScoreVector `json:"scores"`
	Feedback string      `json:"feedback"`
	Answer   string      `json:"answer"`
}

// RoundRecord is one completed interview turn. Records are appended to the
// history and never modified afterwards.
type RoundRecord struct {
	Question string      `json:"question"`
	Answer   string      `json:"answer"`
	Feedback string      `json:"feedback"`
	Scores   ScoreVector `json:"scores"`
}

// InterviewHistory is ordered oldest first.
type InterviewHistory []RoundRecord

type AggregateMetrics struct {
	TechnicalAccuracy    float64 `json:"technical_accuracy"`
	CommunicationClarity float64 `json:"communication_clarity"`
	BodyLanguage         float64 `json:"body_language"`
	EyeContact           float64 `json:"eye_contact"`
	SpeakingPace         float64 `json:"speaking_pace"`
}

type TerminationReason string

const (
	ReasonContinue  TerminationReason = "continue"
	ReasonLowScore  TerminationReason = "low_score"
	ReasonMaxRounds TerminationReason = "max_rounds"
)

type TerminationDecision struct {
	Continue bool
	Reason   TerminationReason
}

type InterviewAnalysis struct {
	OverallAssessment     string   `json:"overall_assessment"`
	Strengths             []string `json:"strengths"`
	Weaknesses            []string `json:"weaknesses"`
	TechnicalAnalysis     string   `json:"technical_analysis"`
	CommunicationAnalysis string   `json:"communication_analysis"`
	Recommendations       []string `json:"recommendations"`
	ReadinessLevel        string   `json:"readiness_level"`
	RoundCount            int      `json:"round_count"`
	FinalFeedback         string   `json:"final_feedback,omitempty"`
}

// DefaultInterviewAnalysis is substituted when the oracle's structured
// analysis cannot be parsed.
func DefaultInterviewAnalysis(roundCount int) InterviewAnalysis {
	return InterviewAnalysis{
		OverallAssessment:     "Analysis not available",
		Strengths:             []string{},
		Weaknesses:            []string{},
		TechnicalAnalysis:     "Technical analysis not available",
		CommunicationAnalysis: "Communication analysis not available",
		Recommendations:       []string{},
		ReadinessLevel:        "Unknown",
		RoundCount:            roundCount,
	}
}

type InterviewSummary struct {
	TotalQuestions    int    `json:"total_questions"`
	InterviewDuration string `json:"interview_duration"`
	Company           string `json:"company"`
	Timestamp         string `json:"timestamp"`
}

type DashboardData struct {
	OverallMetrics   AggregateMetrics  `json:"overall_metrics"`
	DetailedAnalysis InterviewAnalysis `json:"detailed_analysis"`
	InterviewSummary InterviewSummary  `json:"interview_summary"`
}

// RoundInput is everything one /next-question call supplies.
type RoundInput struct {
	Media            MediaRef
	PreviousQuestion string
	Company          string
	QuestionCount    int
	History          InterviewHistory
	StartedAt        *time.Time
}

// MediaRef points at a locally stored media file awaiting submission.
type MediaRef struct {
	Path     string
	MIMEType string
}

// RoundOutcome is the controller's result for one round. Exactly one of
// NextQuestion or (FinalFeedback, Dashboard) is populated, depending on Done.
type RoundOutcome struct {
	Done          bool
	Reason        TerminationReason
	Evaluation    Evaluation
	NextQuestion  string
	FinalFeedback string
	History       InterviewHistory
	Dashboard     *DashboardData
}
