package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"alfredoptarigan/interview-prep/internal/config"
	"alfredoptarigan/interview-prep/internal/models"
)

// InterviewService drives the interview. It keeps no session state: every
// call is reconstructed from the inputs the client supplies.
type InterviewService interface {
	FirstQuestion(ctx context.Context, req FirstQuestionInput) (string, error)
	AnalyzeAnswer(ctx context.Context, media models.MediaRef, question, company string, questionCount int) (models.Evaluation, error)
	PlayRound(ctx context.Context, input models.RoundInput) (*models.RoundOutcome, error)
	Decide(composite float64, rounds int) models.TerminationDecision
}

// FirstQuestionInput carries the résumé for the opening question. When
// ResumeText is empty ResumeMedia is attached to the oracle call instead.
type FirstQuestionInput struct {
	Company        string
	JobDescription string
	ResumeText     string
	ResumeMedia    *models.MediaRef
}

type interviewService struct {
	oracle        Oracle
	evaluator     EvaluationService
	knowledge     KnowledgeService
	promptBuilder *PromptBuilder
	parser        *ResponseParser
	threshold     float64
	maxRounds     int
	now           func() time.Time
}

// NewInterviewService wires the controller. knowledge may be nil when the
// company knowledge base is disabled.
func NewInterviewService(oracle Oracle, evaluator EvaluationService, knowledge KnowledgeService, cfg config.InterviewConfig) InterviewService {
	return &interviewService{
		oracle:        oracle,
		evaluator:     evaluator,
		knowledge:     knowledge,
		promptBuilder: NewPromptBuilder(),
		parser:        DefaultResponseParser(),
		threshold:     cfg.ContinueThreshold,
		maxRounds:     cfg.MaxRounds,
		now:           time.Now,
	}
}

// FirstQuestion implements InterviewService.
func (s *interviewService) FirstQuestion(ctx context.Context, req FirstQuestionInput) (string, error) {
	var companyContext []string
	if s.knowledge != nil {
		snippets, err := s.knowledge.Retrieve(ctx, req.Company, req.JobDescription)
		if err != nil {
			log.Printf("⚠️  Warning: Failed to retrieve company context: %v\n", err)
		} else {
			companyContext = snippets
		}
	}

	prompt := s.promptBuilder.BuildInitialQuestionPrompt(req.Company, req.JobDescription, req.ResumeText, companyContext)

	var media *models.MediaRef
	if req.ResumeText == "" {
		media = req.ResumeMedia
	}

	log.Printf("🤖 Generating first question for %s\n", req.Company)
	question, err := s.oracle.Generate(ctx, prompt, media)
	if err != nil {
		return "", fmt.Errorf("failed to generate first question: %w", err)
	}
	return question, nil
}

// AnalyzeAnswer implements InterviewService.
func (s *interviewService) AnalyzeAnswer(ctx context.Context, media models.MediaRef, question, company string, questionCount int) (models.Evaluation, error) {
	return s.evaluator.Evaluate(ctx, media, question, company, questionCount)
}

// Decide implements InterviewService. rounds counts completed rounds
// including the one just scored.
func (s *interviewService) Decide(composite float64, rounds int) models.TerminationDecision {
	if composite < s.threshold {
		return models.TerminationDecision{Continue: false, Reason: models.ReasonLowScore}
	}
	if s.maxRounds > 0 && rounds >= s.maxRounds {
		return models.TerminationDecision{Continue: false, Reason: models.ReasonMaxRounds}
	}
	return models.TerminationDecision{Continue: true, Reason: models.ReasonContinue}
}

// PlayRound implements InterviewService: score the answer, fold it into the
// history, then either ask the next question or close the interview.
func (s *interviewService) PlayRound(ctx context.Context, input models.RoundInput) (*models.RoundOutcome, error) {
	evaluation, err := s.evaluator.Evaluate(ctx, input.Media, input.PreviousQuestion, input.Company, input.QuestionCount)
	if err != nil {
		return nil, err
	}

	history := AppendRound(input.History, models.RoundRecord{
		Question: input.PreviousQuestion,
		Answer:   evaluation.Answer,
		Feedback: evaluation.Feedback,
		Scores:   evaluation.Scores,
	})

	composite := CompositeScore(evaluation.Scores)
	decision := s.Decide(composite, len(history))
	log.Printf("📊 Round %d composite %.2f -> %s\n", len(history), composite, decision.Reason)

	outcome := &models.RoundOutcome{
		Done:       !decision.Continue,
		Reason:     decision.Reason,
		Evaluation: evaluation,
		History:    history,
	}

	if decision.Continue {
		prompt := s.promptBuilder.BuildNextQuestionPrompt(input.PreviousQuestion, evaluation, input.Company)
		next, err := s.oracle.Generate(ctx, prompt, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to generate next question: %w", err)
		}
		outcome.NextQuestion = next
		return outcome, nil
	}

	feedback, dashboard, err := s.conclude(ctx, history, input.Company, input.StartedAt)
	if err != nil {
		return nil, err
	}
	outcome.FinalFeedback = feedback
	outcome.Dashboard = dashboard
	return outcome, nil
}

// conclude builds the final report. The analysis and feedback calls are
// independent and run concurrently; both must finish before returning.
func (s *interviewService) conclude(ctx context.Context, history models.InterviewHistory, company string, startedAt *time.Time) (string, *models.DashboardData, error) {
	metrics, err := AggregateScores(history)
	if err != nil {
		return "", nil, err
	}

	transcript := s.promptBuilder.BuildTranscript(history)
	roundCount := len(history)

	var analysisText, feedback string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		prompt := s.promptBuilder.BuildFinalAnalysisPrompt(transcript, metrics, company, roundCount)
		text, err := s.oracle.Generate(gctx, prompt, nil)
		if err != nil {
			return fmt.Errorf("failed to generate final analysis: %w", err)
		}
		analysisText = text
		return nil
	})
	g.Go(func() error {
		prompt := s.promptBuilder.BuildFinalFeedbackPrompt(transcript, metrics, company)
		text, err := s.oracle.Generate(gctx, prompt, nil)
		if err != nil {
			return fmt.Errorf("failed to generate final feedback: %w", err)
		}
		feedback = text
		return nil
	})
	if err := g.Wait(); err != nil {
		return "", nil, err
	}

	analysis, ok := DecodeOr(s.parser, analysisText, models.DefaultInterviewAnalysis(roundCount))
	if !ok {
		log.Println("⚠️  Could not parse final analysis, using defaults")
	}
	analysis.RoundCount = roundCount
	analysis.Strengths = nonNil(analysis.Strengths)
	analysis.Weaknesses = nonNil(analysis.Weaknesses)
	analysis.Recommendations = nonNil(analysis.Recommendations)
	analysis.FinalFeedback = feedback

	log.Printf("✅ Interview for %s concluded after %d rounds\n", company, roundCount)

	return feedback, &models.DashboardData{
		OverallMetrics:   metrics,
		DetailedAnalysis: analysis,
		InterviewSummary: s.summary(roundCount, company, startedAt),
	}, nil
}

func (s *interviewService) summary(rounds int, company string, startedAt *time.Time) models.InterviewSummary {
	now := s.now()
	duration := "unknown"
	if startedAt != nil && !startedAt.After(now) {
		duration = now.Sub(*startedAt).Round(time.Second).String()
	}
	return models.InterviewSummary{
		TotalQuestions:    rounds,
		InterviewDuration: duration,
		Company:           company,
		Timestamp:         now.UTC().Format(time.RFC3339),
	}
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
