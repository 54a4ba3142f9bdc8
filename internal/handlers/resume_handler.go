package handlers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/interview-prep/internal/models"
	"alfredoptarigan/interview-prep/internal/services"
)

type ResumeHandler struct {
	resumeService services.ResumeService
}

func NewResumeHandler(resumeService services.ResumeService) *ResumeHandler {
	return &ResumeHandler{
		resumeService: resumeService,
	}
}

// HandleUpload stores a résumé and returns the opening question.
func (h *ResumeHandler) HandleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file is required")
	}
	company := strings.TrimSpace(c.FormValue("company"))
	if company == "" {
		return badRequest(c, "company is required")
	}

	question, err := h.resumeService.UploadAndStart(c.UserContext(), currentUser(c), file, company, c.FormValue("job_description"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.QuestionResponse{Question: strings.TrimSpace(question)})
}

func (h *ResumeHandler) HandleUploadUserResume(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file is required")
	}

	if _, err := h.resumeService.Upload(currentUser(c), file); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"detail": "Resume uploaded successfully",
	})
}

func (h *ResumeHandler) HandleListResumes(c *fiber.Ctx) error {
	resumes, err := h.resumeService.List(currentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	if resumes == nil {
		resumes = []models.Resume{}
	}

	return c.JSON(models.ResumeListResponse{Resumes: resumes})
}

func (h *ResumeHandler) HandleDeleteResume(c *fiber.Ctx) error {
	if err := h.resumeService.Delete(currentUser(c), c.Params("filename")); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"detail": "Resume deleted successfully",
	})
}

func (h *ResumeHandler) HandleUseExistingResume(c *fiber.Ctx) error {
	var req models.UseExistingResumeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if msg := validateStruct(req); msg != "" {
		return badRequest(c, msg)
	}

	question, err := h.resumeService.StartFromExisting(c.UserContext(), currentUser(c), req.Filename, req.Company, req.JobDescription)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.QuestionResponse{Question: strings.TrimSpace(question)})
}

// HandleViewResume streams the PDF inline so browsers render it.
func (h *ResumeHandler) HandleViewResume(c *fiber.Ctx) error {
	resume, data, err := h.resumeService.Read(currentUser(c), c.Params("filename"))
	if err != nil {
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", resume.Filename))
	return c.Send(data)
}
