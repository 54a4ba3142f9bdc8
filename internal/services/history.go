package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"alfredoptarigan/interview-prep/internal/models"
)

// AppendRound returns a new history with round appended. The caller's slice
// is never written to, even when it has spare capacity.
func AppendRound(history models.InterviewHistory, round models.RoundRecord) models.InterviewHistory {
	out := make(models.InterviewHistory, len(history), len(history)+1)
	copy(out, history)
	return append(out, round)
}

// SerializeHistory encodes the history in its wire form, a JSON array of
// round records. An empty history encodes as "[]".
func SerializeHistory(history models.InterviewHistory) (string, error) {
	if history == nil {
		history = models.InterviewHistory{}
	}
	data, err := json.Marshal(history)
	if err != nil {
		return "", fmt.Errorf("failed to serialize history: %w", err)
	}
	return string(data), nil
}

// DeserializeHistory decodes the wire form. Blank input means the interview
// just started and yields an empty history; anything else must be a valid
// JSON array whose scores all lie in [MinScore, MaxScore], or
// ErrHistoryDecode is returned.
func DeserializeHistory(raw string) (models.InterviewHistory, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return models.InterviewHistory{}, nil
	}

	var history models.InterviewHistory
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHistoryDecode, err)
	}
	if history == nil {
		history = models.InterviewHistory{}
	}
	for i, r := range history {
		if err := checkScoreRange(r.Scores); err != nil {
			return nil, fmt.Errorf("%w: round %d: %v", ErrHistoryDecode, i+1, err)
		}
	}
	return history, nil
}

func checkScoreRange(scores models.ScoreVector) error {
	for i, v := range scores.Values() {
		if v < models.MinScore || v > models.MaxScore {
			return fmt.Errorf("%s score %d out of range", models.ScoreDimensions[i], v)
		}
	}
	return nil
}
