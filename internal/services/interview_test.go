package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/interview-prep/internal/config"
	"alfredoptarigan/interview-prep/internal/models"
)

type fakeEvaluator struct {
	eval models.Evaluation
	err  error
}

func (f *fakeEvaluator) Evaluate(context.Context, models.MediaRef, string, string, int) (models.Evaluation, error) {
	return f.eval, f.err
}

type fakeKnowledge struct {
	KnowledgeService
	snippets []string
	err      error
}

func (f *fakeKnowledge) Retrieve(context.Context, string, string) ([]string, error) {
	return f.snippets, f.err
}

func newTestInterview(oracle Oracle, evaluator EvaluationService, cfg config.InterviewConfig) *interviewService {
	svc := NewInterviewService(oracle, evaluator, nil, cfg).(*interviewService)
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC) }
	return svc
}

func defaultInterviewConfig() config.InterviewConfig {
	return config.InterviewConfig{ContinueThreshold: 3.0}
}

// terminalOracle routes the two closing prompts by their content.
func terminalOracle(analysis, feedback string) *fakeOracle {
	return &fakeOracle{reply: func(prompt string) (string, error) {
		if strings.Contains(prompt, "hiring manager") {
			return analysis, nil
		}
		return feedback, nil
	}}
}

func TestDecide_ThresholdBoundary(t *testing.T) {
	svc := newTestInterview(&fakeOracle{}, &fakeEvaluator{}, defaultInterviewConfig())

	tests := []struct {
		name      string
		composite float64
		want      bool
	}{
		{"just below", 2.999, false},
		{"exactly at", 3.0, true},
		{"just above", 3.0001, true},
		{"zero", 0, false},
		{"perfect", 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := svc.Decide(tt.composite, 1)
			assert.Equal(t, tt.want, decision.Continue)
			if tt.want {
				assert.Equal(t, models.ReasonContinue, decision.Reason)
			} else {
				assert.Equal(t, models.ReasonLowScore, decision.Reason)
			}
		})
	}
}

func TestDecide_MaxRounds(t *testing.T) {
	svc := newTestInterview(&fakeOracle{}, &fakeEvaluator{}, config.InterviewConfig{ContinueThreshold: 3, MaxRounds: 5})

	assert.True(t, svc.Decide(8, 4).Continue)

	decision := svc.Decide(8, 5)
	assert.False(t, decision.Continue)
	assert.Equal(t, models.ReasonMaxRounds, decision.Reason)

	assert.Equal(t, models.ReasonLowScore, svc.Decide(1, 5).Reason, "low score wins over the cap")
}

func TestPlayRound_ContinuesOnGoodAnswer(t *testing.T) {
	oracle := &fakeOracle{responses: []string{"How would you shard that cache?"}}
	evaluator := &fakeEvaluator{eval: models.Evaluation{
		Scores:   uniformScores(7),
		Feedback: "Clear explanation.",
		Answer:   "I would use consistent hashing.",
	}}
	svc := newTestInterview(oracle, evaluator, defaultInterviewConfig())

	outcome, err := svc.PlayRound(context.Background(), models.RoundInput{
		Media:            answerVideo,
		PreviousQuestion: "Design a distributed cache.",
		Company:          "Google",
		QuestionCount:    1,
		History:          models.InterviewHistory{},
	})
	require.NoError(t, err)

	assert.False(t, outcome.Done)
	assert.Equal(t, models.ReasonContinue, outcome.Reason)
	assert.Equal(t, "How would you shard that cache?", outcome.NextQuestion)
	assert.Nil(t, outcome.Dashboard)

	require.Len(t, outcome.History, 1)
	assert.Equal(t, models.RoundRecord{
		Question: "Design a distributed cache.",
		Answer:   "I would use consistent hashing.",
		Feedback: "Clear explanation.",
		Scores:   uniformScores(7),
	}, outcome.History[0])

	require.Equal(t, 1, oracle.calls())
	assert.Contains(t, oracle.prompts[0], "Design a distributed cache.")
	assert.Contains(t, oracle.prompts[0], "Clear explanation.")
	assert.Contains(t, oracle.prompts[0], "increases in difficulty")
	assert.Nil(t, oracle.media[0])
}

func TestPlayRound_TerminatesOnLowScore(t *testing.T) {
	history := models.InterviewHistory{round(1), round(2), round(3), round(4)}
	for i := range history {
		history[i].Scores = uniformScores(8)
	}
	original := append(models.InterviewHistory(nil), history...)

	oracle := terminalOracle("```json\n"+`{
  "overall_assessment": "Strong start, weak finish.",
  "strengths": ["system design"],
  "weaknesses": ["concurrency"],
  "technical_analysis": "Good",
  "communication_analysis": "Fine",
  "recommendations": ["practice"],
  "readiness_level": "Almost Ready",
  "round_count": 99
}`+"\n```", "## Final feedback")
	evaluator := &fakeEvaluator{eval: models.Evaluation{Scores: uniformScores(2), Feedback: "Struggled.", Answer: "Not sure."}}
	svc := newTestInterview(oracle, evaluator, defaultInterviewConfig())

	started := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	outcome, err := svc.PlayRound(context.Background(), models.RoundInput{
		Media:            answerVideo,
		PreviousQuestion: "Explain the memory model.",
		Company:          "Amazon",
		QuestionCount:    5,
		History:          history,
		StartedAt:        &started,
	})
	require.NoError(t, err)

	assert.True(t, outcome.Done)
	assert.Equal(t, models.ReasonLowScore, outcome.Reason)
	assert.Empty(t, outcome.NextQuestion)
	assert.Equal(t, "## Final feedback", outcome.FinalFeedback)
	require.Len(t, outcome.History, 5)
	assert.Equal(t, original, history, "caller history untouched")

	require.NotNil(t, outcome.Dashboard)
	// (8*4 + 2) / 5
	assert.InDelta(t, 6.8, outcome.Dashboard.OverallMetrics.TechnicalAccuracy, 1e-9)
	assert.InDelta(t, 6.8, outcome.Dashboard.OverallMetrics.SpeakingPace, 1e-9)

	analysis := outcome.Dashboard.DetailedAnalysis
	assert.Equal(t, "Strong start, weak finish.", analysis.OverallAssessment)
	assert.Equal(t, 5, analysis.RoundCount)
	assert.Equal(t, "## Final feedback", analysis.FinalFeedback)

	summary := outcome.Dashboard.InterviewSummary
	assert.Equal(t, 5, summary.TotalQuestions)
	assert.Equal(t, "Amazon", summary.Company)
	assert.Equal(t, "30m0s", summary.InterviewDuration)
	assert.Equal(t, "2025-03-01T12:30:00Z", summary.Timestamp)

	assert.Equal(t, 2, oracle.calls())
}

func TestPlayRound_DefaultAnalysisOnGarbage(t *testing.T) {
	oracle := terminalOracle("not json at all", "Keep practicing.")
	evaluator := &fakeEvaluator{eval: models.Evaluation{Scores: uniformScores(1)}}
	svc := newTestInterview(oracle, evaluator, defaultInterviewConfig())

	outcome, err := svc.PlayRound(context.Background(), models.RoundInput{
		Media:            answerVideo,
		PreviousQuestion: "q1",
		Company:          "Meta",
		QuestionCount:    1,
	})
	require.NoError(t, err)
	require.True(t, outcome.Done)

	analysis := outcome.Dashboard.DetailedAnalysis
	assert.Equal(t, "Unknown", analysis.ReadinessLevel)
	assert.Equal(t, "Analysis not available", analysis.OverallAssessment)
	assert.Equal(t, []string{}, analysis.Strengths)
	assert.Equal(t, 1, analysis.RoundCount)
	assert.Equal(t, "Keep practicing.", analysis.FinalFeedback)
	assert.Equal(t, "unknown", outcome.Dashboard.InterviewSummary.InterviewDuration)
}

func TestPlayRound_MaxRoundsTerminates(t *testing.T) {
	oracle := terminalOracle("{}", "Done.")
	evaluator := &fakeEvaluator{eval: models.Evaluation{Scores: uniformScores(9)}}
	svc := newTestInterview(oracle, evaluator, config.InterviewConfig{ContinueThreshold: 3, MaxRounds: 2})

	outcome, err := svc.PlayRound(context.Background(), models.RoundInput{
		PreviousQuestion: "q2",
		Company:          "Netflix",
		QuestionCount:    2,
		History:          models.InterviewHistory{round(1)},
	})
	require.NoError(t, err)
	assert.True(t, outcome.Done)
	assert.Equal(t, models.ReasonMaxRounds, outcome.Reason)
	require.NotNil(t, outcome.Dashboard)
}

func TestPlayRound_OracleFailures(t *testing.T) {
	t.Run("evaluation", func(t *testing.T) {
		svc := newTestInterview(&fakeOracle{}, &fakeEvaluator{err: ErrOracleCallFailed}, defaultInterviewConfig())
		_, err := svc.PlayRound(context.Background(), models.RoundInput{PreviousQuestion: "q", Company: "Google"})
		assert.True(t, errors.Is(err, ErrOracleCallFailed))
	})

	t.Run("next question", func(t *testing.T) {
		oracle := &fakeOracle{err: ErrOracleCallFailed}
		svc := newTestInterview(oracle, &fakeEvaluator{eval: models.Evaluation{Scores: uniformScores(9)}}, defaultInterviewConfig())
		_, err := svc.PlayRound(context.Background(), models.RoundInput{PreviousQuestion: "q", Company: "Google"})
		assert.True(t, errors.Is(err, ErrOracleCallFailed))
		assert.Equal(t, 1, oracle.calls(), "no retry in the controller")
	})

	t.Run("final feedback", func(t *testing.T) {
		oracle := &fakeOracle{reply: func(prompt string) (string, error) {
			if strings.Contains(prompt, "hiring manager") {
				return "{}", nil
			}
			return "", ErrOracleCallFailed
		}}
		svc := newTestInterview(oracle, &fakeEvaluator{eval: models.Evaluation{Scores: uniformScores(1)}}, defaultInterviewConfig())
		_, err := svc.PlayRound(context.Background(), models.RoundInput{PreviousQuestion: "q", Company: "Google"})
		assert.True(t, errors.Is(err, ErrOracleCallFailed))
	})
}

func TestFirstQuestion(t *testing.T) {
	t.Run("resume text in prompt", func(t *testing.T) {
		oracle := &fakeOracle{responses: []string{"Tell me about Raft."}}
		svc := newTestInterview(oracle, &fakeEvaluator{}, defaultInterviewConfig())
		svc.knowledge = &fakeKnowledge{snippets: []string{"Focus on distributed systems"}}

		question, err := svc.FirstQuestion(context.Background(), FirstQuestionInput{
			Company:        "Google",
			JobDescription: "Backend engineer",
			ResumeText:     "Built a Raft implementation in Go",
			ResumeMedia:    &models.MediaRef{Path: "/r.pdf", MIMEType: "application/pdf"},
		})
		require.NoError(t, err)
		assert.Equal(t, "Tell me about Raft.", question)
		assert.Contains(t, oracle.prompts[0], "Built a Raft implementation in Go")
		assert.Contains(t, oracle.prompts[0], "Focus on distributed systems")
		assert.Nil(t, oracle.media[0])
	})

	t.Run("resume attached when no text", func(t *testing.T) {
		oracle := &fakeOracle{responses: []string{"q"}}
		svc := newTestInterview(oracle, &fakeEvaluator{}, defaultInterviewConfig())
		svc.knowledge = &fakeKnowledge{err: errors.New("qdrant down")}

		pdf := &models.MediaRef{Path: "/r.pdf", MIMEType: "application/pdf"}
		_, err := svc.FirstQuestion(context.Background(), FirstQuestionInput{Company: "Apple", ResumeMedia: pdf})
		require.NoError(t, err)
		assert.Equal(t, pdf, oracle.media[0])
	})
}
