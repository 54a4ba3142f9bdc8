package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/interview-prep/internal/models"
)

func round(i int) models.RoundRecord {
	return models.RoundRecord{
		Question: fmt.Sprintf("question %d", i),
		Answer:   fmt.Sprintf("answer %d with \"quotes\" and\nnewlines", i),
		Feedback: fmt.Sprintf("feedback %d", i),
		Scores:   uniformScores(i % 11),
	}
}

func TestAppendRound_DoesNotMutateInput(t *testing.T) {
	base := make(models.InterviewHistory, 2, 8)
	base[0], base[1] = round(1), round(2)
	snapshot := append(models.InterviewHistory{}, base...)

	first := AppendRound(base, round(3))
	second := AppendRound(base, round(4))

	assert.Equal(t, snapshot, base)
	require.Len(t, first, 3)
	require.Len(t, second, 3)
	assert.Equal(t, round(3), first[2])
	assert.Equal(t, round(4), second[2])
}

func TestAppendRound_Empty(t *testing.T) {
	got := AppendRound(nil, round(1))
	require.Len(t, got, 1)
	assert.Equal(t, round(1), got[0])
}

func TestSerializeHistory_RoundTrip(t *testing.T) {
	for n := 0; n <= 6; n++ {
		var history models.InterviewHistory
		for i := 0; i < n; i++ {
			history = AppendRound(history, round(i))
		}
		if history == nil {
			history = models.InterviewHistory{}
		}

		encoded, err := SerializeHistory(history)
		require.NoError(t, err)

		decoded, err := DeserializeHistory(encoded)
		require.NoError(t, err)
		assert.Equal(t, history, decoded, "history of length %d", n)
	}
}

func TestSerializeHistory_NilIsEmptyArray(t *testing.T) {
	encoded, err := SerializeHistory(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", encoded)
}

func TestDeserializeHistory_Blank(t *testing.T) {
	for _, raw := range []string{"", "   ", "null", "[]"} {
		history, err := DeserializeHistory(raw)
		require.NoError(t, err, "input %q", raw)
		assert.NotNil(t, history)
		assert.Empty(t, history)
	}
}

func TestDeserializeHistory_Invalid(t *testing.T) {
	for _, raw := range []string{"{", `{"question":"q"}`, "not json", `[{"scores":"high"}]`} {
		_, err := DeserializeHistory(raw)
		require.Error(t, err, "input %q", raw)
		assert.True(t, errors.Is(err, ErrHistoryDecode))
	}
}

func TestDeserializeHistory_RejectsOutOfRangeScores(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"above max", `[{"question":"q","answer":"a","feedback":"f","scores":{"technical_accuracy":100,"communication_clarity":5,"body_language":5,"eye_contact":5,"speaking_pace":5}}]`},
		{"below min", `[{"question":"q","answer":"a","feedback":"f","scores":{"technical_accuracy":5,"communication_clarity":-40,"body_language":5,"eye_contact":5,"speaking_pace":5}}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			history, err := DeserializeHistory(tt.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrHistoryDecode))
			assert.Nil(t, history)
		})
	}
}

func TestDeserializeHistory_AcceptsBoundaryScores(t *testing.T) {
	raw, err := SerializeHistory(models.InterviewHistory{round(0), round(10)})
	require.NoError(t, err)

	history, err := DeserializeHistory(raw)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, uniformScores(10), history[1].Scores)
}
