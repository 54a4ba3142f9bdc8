package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"

	"alfredoptarigan/interview-prep/internal/models"
	"alfredoptarigan/interview-prep/internal/repositories"
)

// ResumeService manages a user's stored résumés and opens interviews from them.
type ResumeService interface {
	Upload(user *models.User, file *multipart.FileHeader) (*models.Resume, error)
	UploadAndStart(ctx context.Context, user *models.User, file *multipart.FileHeader, company, jobDescription string) (string, error)
	StartFromExisting(ctx context.Context, user *models.User, filename, company, jobDescription string) (string, error)
	List(user *models.User) ([]models.Resume, error)
	Read(user *models.User, filename string) (*models.Resume, []byte, error)
	Delete(user *models.User, filename string) error
}

type resumeService struct {
	repo      repositories.UserRepository
	storage   StorageService
	pdfParser PDFParserService
	interview InterviewService
}

func NewResumeService(
	repo repositories.UserRepository,
	storage StorageService,
	pdfParser PDFParserService,
	interview InterviewService,
) ResumeService {
	return &resumeService{
		repo:      repo,
		storage:   storage,
		pdfParser: pdfParser,
		interview: interview,
	}
}

// Upload implements ResumeService.
func (r *resumeService) Upload(user *models.User, file *multipart.FileHeader) (*models.Resume, error) {
	path, err := r.storage.SaveResume(file, user.Username)
	if err != nil {
		return nil, err
	}

	pageCount := 0
	if content, err := r.pdfParser.ExtractTextWithMetaData(path); err != nil {
		log.Printf("⚠️  Warning: Failed to parse %s: %v\n", file.Filename, err)
	} else {
		pageCount = content.PageCount
	}

	resume := &models.Resume{
		UserID:    user.ID,
		Filename:  filepath.Base(file.Filename),
		FilePath:  path,
		PageCount: pageCount,
	}
	if err := r.repo.AddResume(resume); err != nil {
		_ = r.storage.Delete(path)
		return nil, err
	}

	log.Printf("📄 Stored resume %s for %s\n", resume.Filename, user.Username)
	return resume, nil
}

// UploadAndStart implements ResumeService. When no question can be
// generated the upload is rolled back.
func (r *resumeService) UploadAndStart(ctx context.Context, user *models.User, file *multipart.FileHeader, company, jobDescription string) (string, error) {
	resume, err := r.Upload(user, file)
	if err != nil {
		return "", err
	}

	question, err := r.start(ctx, resume, company, jobDescription)
	if err != nil {
		if delErr := r.repo.DeleteResume(resume.ID); delErr != nil {
			log.Printf("⚠️  Failed to roll back resume record: %v\n", delErr)
		}
		_ = r.storage.Delete(resume.FilePath)
		return "", err
	}
	return question, nil
}

// StartFromExisting implements ResumeService.
func (r *resumeService) StartFromExisting(ctx context.Context, user *models.User, filename, company, jobDescription string) (string, error) {
	resume, err := r.find(user, filename)
	if err != nil {
		return "", err
	}
	return r.start(ctx, resume, company, jobDescription)
}

// List implements ResumeService.
func (r *resumeService) List(user *models.User) ([]models.Resume, error) {
	return r.repo.ListResumes(user.ID)
}

// Read implements ResumeService.
func (r *resumeService) Read(user *models.User, filename string) (*models.Resume, []byte, error) {
	resume, err := r.find(user, filename)
	if err != nil {
		return nil, nil, err
	}

	data, err := r.storage.Read(resume.FilePath)
	if err != nil {
		return nil, nil, err
	}
	return resume, data, nil
}

// Delete implements ResumeService.
func (r *resumeService) Delete(user *models.User, filename string) error {
	resume, err := r.find(user, filename)
	if err != nil {
		return err
	}

	if err := r.storage.Delete(resume.FilePath); err != nil {
		return err
	}
	return r.repo.DeleteResume(resume.ID)
}

func (r *resumeService) find(user *models.User, filename string) (*models.Resume, error) {
	resume, err := r.repo.FindResume(user.ID, filename)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: resume %s", ErrNotFound, filename)
		}
		return nil, err
	}
	return resume, nil
}

// start asks for the opening question. Extracted text goes into the prompt;
// a résumé without a text layer is attached to the call instead.
func (r *resumeService) start(ctx context.Context, resume *models.Resume, company, jobDescription string) (string, error) {
	var text string
	if content, err := r.pdfParser.ExtractTextWithMetaData(resume.FilePath); err != nil {
		log.Printf("⚠️  Warning: Failed to extract text from %s, attaching the PDF: %v\n", resume.Filename, err)
	} else {
		text = content.Text
	}

	return r.interview.FirstQuestion(ctx, FirstQuestionInput{
		Company:        company,
		JobDescription: jobDescription,
		ResumeText:     text,
		ResumeMedia:    &models.MediaRef{Path: resume.FilePath, MIMEType: "application/pdf"},
	})
}
