package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"alfredoptarigan/interview-prep/internal/models"
)

// EvaluationService scores one recorded answer against the question it answers.
type EvaluationService interface {
	Evaluate(ctx context.Context, media models.MediaRef, question, company string, questionCount int) (models.Evaluation, error)
}

type evaluationService struct {
	oracle        Oracle
	promptBuilder *PromptBuilder
	parser        *ResponseParser
}

func NewEvaluationService(oracle Oracle) EvaluationService {
	return &evaluationService{
		oracle:        oracle,
		promptBuilder: NewPromptBuilder(),
		parser:        DefaultResponseParser(),
	}
}

// rawEvaluation mirrors the oracle's JSON loosely; scores may arrive as
// numbers, numeric strings or not at all, and the text fields as strings or
// lists of strings.
type rawEvaluation struct {
	Scores   map[string]any `json:"scores"`
	Feedback any            `json:"feedback"`
	Answer   any            `json:"answer"`
}

// Evaluate implements EvaluationService. Oracle failures are returned;
// empty or unparsable oracle text yields a zero evaluation instead.
func (e *evaluationService) Evaluate(ctx context.Context, media models.MediaRef, question, company string, questionCount int) (models.Evaluation, error) {
	prompt := e.promptBuilder.BuildAnswerEvaluationPrompt(question, company, questionCount)

	log.Printf("🎥 Evaluating answer %d for %s\n", questionCount, company)
	text, err := e.oracle.Generate(ctx, prompt, &media)
	if errors.Is(err, ErrEmptyResponse) {
		log.Println("⚠️  Oracle returned no evaluation text, using zero scores")
		return models.Evaluation{}, nil
	}
	if err != nil {
		return models.Evaluation{}, fmt.Errorf("failed to evaluate answer: %w", err)
	}

	return e.parseEvaluation(text), nil
}

func (e *evaluationService) parseEvaluation(text string) models.Evaluation {
	raw, ok := DecodeOr(e.parser, text, rawEvaluation{})
	if !ok {
		log.Println("⚠️  Could not parse evaluation response, using zero scores")
		return models.Evaluation{}
	}

	return models.Evaluation{
		Scores:   normalizeScores(raw.Scores),
		Feedback: textValue(raw.Feedback),
		Answer:   textValue(raw.Answer),
	}
}

// normalizeScores fills every dimension, defaulting missing or unreadable
// values to 0 and clamping the rest into range.
func normalizeScores(raw map[string]any) models.ScoreVector {
	values := make([]int, len(models.ScoreDimensions))
	for i, dim := range models.ScoreDimensions {
		if v, ok := raw[dim]; ok {
			values[i] = scoreValue(v)
		}
	}

	return models.ScoreVector{
		TechnicalAccuracy:    values[0],
		CommunicationClarity: values[1],
		BodyLanguage:         values[2],
		EyeContact:           values[3],
		SpeakingPace:         values[4],
	}
}

func scoreValue(v any) int {
	switch n := v.(type) {
	case float64:
		return ClampScore(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return ClampScore(f)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return ClampScore(f)
	default:
		return 0
	}
}

// textValue flattens a string or a list of strings; anything else is "".
func textValue(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := textValue(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "\n")
	default:
		return ""
	}
}
