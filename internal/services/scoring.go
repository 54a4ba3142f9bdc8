package services

import (
	"fmt"

	"alfredoptarigan/interview-prep/internal/models"
)

// CompositeScore is the unweighted mean of a round's five dimensions.
func CompositeScore(scores models.ScoreVector) float64 {
	values := scores.Values()
	total := 0
	for _, v := range values {
		total += v
	}
	return float64(total) / float64(len(values))
}

// AggregateScores returns the per-dimension mean across every round in the
// history. Aggregation only runs at termination, so an empty history is a
// caller bug and reported as ErrEmptyHistory.
func AggregateScores(history models.InterviewHistory) (models.AggregateMetrics, error) {
	if len(history) == 0 {
		return models.AggregateMetrics{}, fmt.Errorf("cannot aggregate scores: %w", ErrEmptyHistory)
	}

	var sum models.ScoreVector
	for _, round := range history {
		sum.TechnicalAccuracy += round.Scores.TechnicalAccuracy
		sum.CommunicationClarity += round.Scores.CommunicationClarity
		sum.BodyLanguage += round.Scores.BodyLanguage
		sum.EyeContact += round.Scores.EyeContact
		sum.SpeakingPace += round.Scores.SpeakingPace
	}

	n := float64(len(history))
	return models.AggregateMetrics{
		TechnicalAccuracy:    float64(sum.TechnicalAccuracy) / n,
		CommunicationClarity: float64(sum.CommunicationClarity) / n,
		BodyLanguage:         float64(sum.BodyLanguage) / n,
		EyeContact:           float64(sum.EyeContact) / n,
		SpeakingPace:         float64(sum.SpeakingPace) / n,
	}, nil
}

// ClampScore folds an arbitrary oracle number into [0,10], rounding to the
// nearest integer.
func ClampScore(v float64) int {
	if v != v || v <= models.MinScore {
		return models.MinScore
	}
	if v >= models.MaxScore {
		return models.MaxScore
	}
	return int(v + 0.5)
}
