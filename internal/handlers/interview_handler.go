package handlers

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/interview-prep/internal/models"
	"alfredoptarigan/interview-prep/internal/services"
)

type InterviewHandler struct {
	interviewService services.InterviewService
	storageService   services.StorageService
	companies        []string
}

func NewInterviewHandler(
	interviewService services.InterviewService,
	storageService services.StorageService,
	companies []string,
) *InterviewHandler {
	return &InterviewHandler{
		interviewService: interviewService,
		storageService:   storageService,
		companies:        companies,
	}
}

func (h *InterviewHandler) HandleCompanies(c *fiber.Ctx) error {
	return c.JSON(models.CompaniesResponse{Companies: h.companies})
}

// HandleAnalyzeVideo scores a single answer without advancing the interview.
func (h *InterviewHandler) HandleAnalyzeVideo(c *fiber.Ctx) error {
	req, errMsg := parseRoundRequest(c)
	if errMsg != "" {
		return badRequest(c, errMsg)
	}
	if strings.TrimSpace(req.Question) == "" {
		return badRequest(c, "question is required")
	}

	media, ok, err := h.saveVideo(c)
	if !ok {
		return err
	}
	defer h.storageService.ReleaseMedia(media)

	evaluation, err := h.interviewService.AnalyzeAnswer(c.UserContext(), media, req.Question, req.Company, req.QuestionCount)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(evaluation)
}

// HandleNextQuestion plays one round: the answer to previous_question is
// scored and either the next question or the final report is returned.
func (h *InterviewHandler) HandleNextQuestion(c *fiber.Ctx) error {
	req, errMsg := parseRoundRequest(c)
	if errMsg != "" {
		return badRequest(c, errMsg)
	}
	if strings.TrimSpace(req.PreviousQuestion) == "" {
		return badRequest(c, "previous_question is required")
	}

	history, err := services.DeserializeHistory(req.InterviewHistory)
	if err != nil {
		return respondError(c, err)
	}

	var startedAt *time.Time
	if req.StartedAt != "" {
		t, err := time.Parse(time.RFC3339, req.StartedAt)
		if err != nil {
			return badRequest(c, "started_at must be an RFC3339 timestamp")
		}
		startedAt = &t
	}

	media, ok, err := h.saveVideo(c)
	if !ok {
		return err
	}
	defer h.storageService.ReleaseMedia(media)

	outcome, err := h.interviewService.PlayRound(c.UserContext(), models.RoundInput{
		Media:            media,
		PreviousQuestion: req.PreviousQuestion,
		Company:          req.Company,
		QuestionCount:    req.QuestionCount,
		History:          history,
		StartedAt:        startedAt,
	})
	if err != nil {
		return respondError(c, err)
	}

	wire, err := services.SerializeHistory(outcome.History)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.NextQuestionResponse{
		Done:             outcome.Done,
		Reason:           outcome.Reason,
		NextQuestion:     strings.TrimSpace(outcome.NextQuestion),
		Analysis:         outcome.Evaluation,
		FinalFeedback:    outcome.FinalFeedback,
		InterviewHistory: json.RawMessage(wire),
		DashboardData:    outcome.Dashboard,
	})
}

func parseRoundRequest(c *fiber.Ctx) (models.RoundRequest, string) {
	var req models.RoundRequest
	if err := c.BodyParser(&req); err != nil {
		return req, "invalid form"
	}
	req.Company = strings.TrimSpace(req.Company)
	if msg := validateStruct(req); msg != "" {
		return req, msg
	}
	return req, ""
}

// saveVideo parks the uploaded answer on disk. When ok is false the error
// response has already been written and err is the result of writing it.
func (h *InterviewHandler) saveVideo(c *fiber.Ctx) (media models.MediaRef, ok bool, err error) {
	file, err := c.FormFile("video")
	if err != nil {
		return models.MediaRef{}, false, badRequest(c, "video is required")
	}

	media, err = h.storageService.SaveTempMedia(file)
	if err != nil {
		return models.MediaRef{}, false, respondError(c, err)
	}
	return media, true, nil
}
