package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/interview-prep/internal/models"
)

type fakePDFParser struct {
	text string
	err  error
}

func (f *fakePDFParser) ExtractTextWithMetaData(path string) (*PDFContent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &PDFContent{Text: f.text, PageCount: 1, FilePath: path}, nil
}

type fakeInterview struct {
	InterviewService
	question string
	err      error
	last     FirstQuestionInput
}

func (f *fakeInterview) FirstQuestion(_ context.Context, req FirstQuestionInput) (string, error) {
	f.last = req
	return f.question, f.err
}

type resumeFixture struct {
	svc       ResumeService
	repo      *memoryUserRepo
	interview *fakeInterview
	parser    *fakePDFParser
	user      *models.User
	dir       string
}

func newResumeFixture(t *testing.T) *resumeFixture {
	t.Helper()
	dir := t.TempDir()
	storage := NewStorageService(dir, filepath.Join(dir, "media"), 1<<20, 1<<20)
	require.NoError(t, storage.EnsureDirs())

	repo := newMemoryUserRepo()
	user := &models.User{Username: "alice"}
	require.NoError(t, repo.CreateUser(user))

	f := &resumeFixture{
		repo:      repo,
		interview: &fakeInterview{question: "Walk me through your Kafka project."},
		parser:    &fakePDFParser{text: "Kafka, Go, Postgres"},
		user:      user,
		dir:       dir,
	}
	f.svc = NewResumeService(repo, storage, f.parser, f.interview)
	return f
}

func pdfCount(t *testing.T, dir string) int {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "*.pdf"))
	require.NoError(t, err)
	return len(matches)
}

func TestResume_UploadAndStart(t *testing.T) {
	f := newResumeFixture(t)

	question, err := f.svc.UploadAndStart(context.Background(), f.user, newFileHeader(t, "cv.pdf", samplePDF), "Google", "SRE")
	require.NoError(t, err)
	assert.Equal(t, "Walk me through your Kafka project.", question)

	assert.Equal(t, "Google", f.interview.last.Company)
	assert.Equal(t, "SRE", f.interview.last.JobDescription)
	assert.Equal(t, "Kafka, Go, Postgres", f.interview.last.ResumeText)

	list, err := f.svc.List(f.user)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "cv.pdf", list[0].Filename)
	assert.Equal(t, 1, pdfCount(t, f.dir))
}

func TestResume_UploadAndStartRollsBack(t *testing.T) {
	f := newResumeFixture(t)
	f.interview.err = ErrOracleCallFailed

	_, err := f.svc.UploadAndStart(context.Background(), f.user, newFileHeader(t, "cv.pdf", samplePDF), "Google", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOracleCallFailed))

	list, err := f.svc.List(f.user)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, 0, pdfCount(t, f.dir))
}

func TestResume_StartFromExistingAttachesScannedPDF(t *testing.T) {
	f := newResumeFixture(t)
	_, err := f.svc.Upload(f.user, newFileHeader(t, "scan.pdf", samplePDF))
	require.NoError(t, err)

	f.parser.text = ""
	_, err = f.svc.StartFromExisting(context.Background(), f.user, "scan.pdf", "Apple", "")
	require.NoError(t, err)
	assert.Empty(t, f.interview.last.ResumeText)
	require.NotNil(t, f.interview.last.ResumeMedia)
	assert.Equal(t, "application/pdf", f.interview.last.ResumeMedia.MIMEType)

	_, err = f.svc.StartFromExisting(context.Background(), f.user, "missing.pdf", "Apple", "")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestResume_ReadAndDelete(t *testing.T) {
	f := newResumeFixture(t)
	resume, err := f.svc.Upload(f.user, newFileHeader(t, "cv.pdf", samplePDF))
	require.NoError(t, err)

	_, data, err := f.svc.Read(f.user, "cv.pdf")
	require.NoError(t, err)
	assert.Equal(t, samplePDF, data)

	other := &models.User{Username: "bob"}
	require.NoError(t, f.repo.CreateUser(other))
	_, _, err = f.svc.Read(other, "cv.pdf")
	assert.True(t, errors.Is(err, ErrNotFound), "résumés are scoped to their owner")

	require.NoError(t, f.svc.Delete(f.user, "cv.pdf"))
	_, err = os.Stat(resume.FilePath)
	assert.True(t, os.IsNotExist(err))
	assert.True(t, errors.Is(f.svc.Delete(f.user, "cv.pdf"), ErrNotFound))
}
