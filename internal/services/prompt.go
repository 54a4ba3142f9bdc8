package services

import (
	"fmt"
	"strings"

	"alfredoptarigan/interview-prep/internal/models"
)

// weakScoreCutoff marks a scored dimension as a weakness worth probing.
const weakScoreCutoff = 6

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildInitialQuestionPrompt asks for the opening question. When resumeText
// is empty the résumé is expected to be attached to the call as media.
func (pb *PromptBuilder) BuildInitialQuestionPrompt(company, jobDescription, resumeText string, companyContext []string) string {
	var b strings.Builder

	if strings.TrimSpace(resumeText) != "" {
		fmt.Fprintf(&b, "CANDIDATE RESUME:\n%s\n\n", strings.TrimSpace(resumeText))
	} else {
		b.WriteString("The candidate's resume is attached.\n\n")
	}

	if jd := strings.TrimSpace(jobDescription); jd != "" {
		fmt.Fprintf(&b, "JOB DESCRIPTION:\n%s\n\n", jd)
	}

	if len(companyContext) > 0 {
		fmt.Fprintf(&b, "WHAT %s INTERVIEWS ARE KNOWN TO FOCUS ON:\n", strings.ToUpper(company))
		for i, snippet := range companyContext {
			fmt.Fprintf(&b, "--- Note %d ---\n%s\n", i+1, strings.TrimSpace(snippet))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, `Based on this resume, generate ONE technical interview question that might be asked at %s.
The question should be challenging but appropriate for the candidate's experience level.`, company)
	if strings.TrimSpace(jobDescription) != "" {
		b.WriteString("\nTie the question to the requirements in the job description.")
	}
	b.WriteString("\nReturn ONLY the question as a string, no additional text or formatting.")

	return b.String()
}

// BuildAnswerEvaluationPrompt is the rubric sent alongside the answer video.
func (pb *PromptBuilder) BuildAnswerEvaluationPrompt(question, company string, questionCount int) string {
	return fmt.Sprintf(`You are an experienced technical interviewer at %s reviewing a recorded video answer.
This is question %d of the interview.

QUESTION ASKED:
%s

Watch the video, transcribe what the candidate says, and evaluate the answer.
Score each dimension from 1 to 10. If a dimension is not applicable (for example the
candidate is not visible on camera), set it to 0.

Respond with exactly one fenced JSON block in the following format:
`+"```json"+`
{
  "scores": {
    "technical_accuracy": 0,
    "communication_clarity": 0,
    "body_language": 0,
    "eye_contact": 0,
    "speaking_pace": 0
  },
  "feedback": "<specific, constructive feedback on this answer>",
  "answer": "<verbatim transcription of the candidate's answer>"
}
`+"```", company, questionCount, question)
}

// BuildNextQuestionPrompt asks for a harder follow-up aimed at the weakest
// dimensions of the answer just scored.
func (pb *PromptBuilder) BuildNextQuestionPrompt(previousQuestion string, evaluation models.Evaluation, company string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Based on the previous question: '%s'\n\n", previousQuestion)
	b.WriteString("The answer was rated as follows (0 means not applicable):\n")
	b.WriteString(formatScores(evaluation.Scores))
	if fb := strings.TrimSpace(evaluation.Feedback); fb != "" {
		fmt.Fprintf(&b, "\nInterviewer feedback: %s\n", fb)
	}

	weak := WeakDimensions(evaluation.Scores)
	if len(weak) > 0 {
		fmt.Fprintf(&b, "\nWeakest areas: %s\n", strings.Join(humanizeAll(weak), ", "))
	}

	fmt.Fprintf(&b, `
Generate a follow-up technical question for a %s interview that:
1. Addresses any weaknesses shown in the previous answer
2. Progressively increases in difficulty
3. Stays relevant to the candidate's experience

Return ONLY the question as a string.`, company)

	return b.String()
}

// BuildTranscript renders every round in order for the final prompts.
func (pb *PromptBuilder) BuildTranscript(history models.InterviewHistory) string {
	var b strings.Builder
	for i, round := range history {
		fmt.Fprintf(&b, "Round %d\n", i+1)
		fmt.Fprintf(&b, "Question: %s\n", round.Question)
		fmt.Fprintf(&b, "Answer: %s\n", round.Answer)
		fmt.Fprintf(&b, "Feedback: %s\n", round.Feedback)
		b.WriteString("Scores:\n")
		b.WriteString(formatScores(round.Scores))
		b.WriteString("\n")
	}
	return b.String()
}

func (pb *PromptBuilder) BuildFinalAnalysisPrompt(transcript string, metrics models.AggregateMetrics, company string, roundCount int) string {
	return fmt.Sprintf(`You are a senior hiring manager at %s reviewing a completed mock technical interview.

INTERVIEW TRANSCRIPT:
%s
AVERAGE SCORES ACROSS %d ROUNDS:
%s
Analyze the candidate's overall performance and respond with exactly one fenced JSON block:
`+"```json"+`
{
  "overall_assessment": "<2-3 sentence summary>",
  "strengths": ["<strength>", "..."],
  "weaknesses": ["<weakness>", "..."],
  "technical_analysis": "<analysis of technical depth and accuracy>",
  "communication_analysis": "<analysis of clarity, pace, body language and eye contact>",
  "recommendations": ["<actionable recommendation>", "..."],
  "readiness_level": "<Ready | Almost Ready | Needs Improvement>",
  "round_count": %d
}
`+"```", company, transcript, roundCount, formatMetrics(metrics), roundCount)
}

func (pb *PromptBuilder) BuildFinalFeedbackPrompt(transcript string, metrics models.AggregateMetrics, company string) string {
	return fmt.Sprintf(`Based on all the previous interactions, provide a comprehensive feedback summary for the candidate.

INTERVIEW TRANSCRIPT:
%s
AVERAGE SCORES:
%s
Include:
1. Overall technical proficiency
2. Key strengths demonstrated
3. Areas for improvement
4. Readiness for a role at %s

Format the response in Markdown with headings and bullet points.
Make it constructive and actionable.`, transcript, formatMetrics(metrics), company)
}

// WeakDimensions lists scored dimensions below the weakness cutoff, in
// canonical order. Unscored (zero) dimensions are skipped.
func WeakDimensions(scores models.ScoreVector) []string {
	var weak []string
	for i, v := range scores.Values() {
		if v > 0 && v < weakScoreCutoff {
			weak = append(weak, models.ScoreDimensions[i])
		}
	}
	return weak
}

func formatScores(scores models.ScoreVector) string {
	var b strings.Builder
	for i, v := range scores.Values() {
		fmt.Fprintf(&b, "- %s: %d/10\n", models.ScoreDimensions[i], v)
	}
	return b.String()
}

func formatMetrics(m models.AggregateMetrics) string {
	values := []float64{m.TechnicalAccuracy, m.CommunicationClarity, m.BodyLanguage, m.EyeContact, m.SpeakingPace}
	var b strings.Builder
	for i, v := range values {
		fmt.Fprintf(&b, "- %s: %.2f/10\n", models.ScoreDimensions[i], v)
	}
	return b.String()
}

func humanizeAll(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = strings.ReplaceAll(k, "_", " ")
	}
	return out
}
