package models

import "encoding/json"

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type UpdateProfileRequest struct {
	Email           string `json:"email" validate:"omitempty,email"`
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password" validate:"omitempty,min=8"`
}

type UseExistingResumeRequest struct {
	Filename       string `json:"filename" validate:"required"`
	Company        string `json:"company" validate:"required"`
	JobDescription string `json:"job_description"`
}

type QuestionResponse struct {
	Question string `json:"question"`
}

type ResumeListResponse struct {
	Resumes []Resume `json:"resumes"`
}

type CompaniesResponse struct {
	Companies []string `json:"companies"`
}

// RoundRequest carries the non-file multipart fields of /analyze-video and
// /next-question.
type RoundRequest struct {
	Question         string `form:"question"`
	PreviousQuestion string `form:"previous_question"`
	Company          string `form:"company" validate:"required"`
	QuestionCount    int    `form:"question_count" validate:"gte=0"`
	InterviewHistory string `form:"interview_history"`
	StartedAt        string `form:"started_at"`
}

// NextQuestionResponse serves both branches of /next-question. The history
// is embedded as its wire form so clients can echo it back verbatim.
type NextQuestionResponse struct {
	Done             bool              `json:"done"`
	Reason           TerminationReason `json:"reason"`
	NextQuestion     string            `json:"next_question,omitempty"`
	Analysis         Evaluation        `json:"analysis"`
	FinalFeedback    string            `json:"final_feedback,omitempty"`
	InterviewHistory json.RawMessage   `json:"interview_history"`
	DashboardData    *DashboardData    `json:"dashboard_data,omitempty"`
}
