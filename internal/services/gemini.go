package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"google.golang.org/genai"

	"alfredoptarigan/interview-prep/internal/config"
	"alfredoptarigan/interview-prep/internal/models"
)

// Oracle is the generative content capability the interview core depends on.
// media is optional; when set the file is submitted alongside the prompt.
type Oracle interface {
	Generate(ctx context.Context, prompt string, media *models.MediaRef) (string, error)
}

type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type GeminiService interface {
	Oracle
	Embedder
}

// fileAPI and modelAPI are the slices of the genai client we use.
type fileAPI interface {
	Upload(ctx context.Context, r io.Reader, config *genai.UploadFileConfig) (*genai.File, error)
	Get(ctx context.Context, name string, config *genai.GetFileConfig) (*genai.File, error)
	Delete(ctx context.Context, name string, config *genai.DeleteFileConfig) (*genai.DeleteFileResponse, error)
}

type modelAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

type geminiService struct {
	files           fileAPI
	models          modelAPI
	modelName       string
	videoModel      string
	embedModel      string
	temperature     float32
	pollInterval    time.Duration
	pollTimeout     time.Duration
	retryInitial    time.Duration
	retryMaxElapsed time.Duration
}

func NewGeminiService(cfg config.GeminiConfig) (GeminiService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		files:           client.Files,
		models:          client.Models,
		modelName:       cfg.Model,
		videoModel:      cfg.VideoModel,
		embedModel:      cfg.EmbedModel,
		temperature:     cfg.Temperature,
		pollInterval:    cfg.PollInterval,
		pollTimeout:     cfg.PollTimeout,
		retryInitial:    500 * time.Millisecond,
		retryMaxElapsed: cfg.RetryMaxElapsed,
	}, nil
}

// Generate implements Oracle.
func (g *geminiService) Generate(ctx context.Context, prompt string, media *models.MediaRef) (string, error) {
	if media == nil {
		return g.generate(ctx, g.modelName, genai.Text(prompt))
	}

	file, err := g.uploadMedia(ctx, media)
	if err != nil {
		return "", err
	}
	defer g.deleteRemote(file.Name)

	file, err = g.waitForActive(ctx, file)
	if err != nil {
		return "", err
	}

	parts := []*genai.Part{
		genai.NewPartFromURI(file.URI, file.MIMEType),
		genai.NewPartFromText(prompt),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	return g.generate(ctx, g.videoModel, contents)
}

// GenerateEmbedding implements Embedder.
func (g *geminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	// Truncate text if too long (max ~10000 tokens for embedding)
	if len(text) > 40000 {
		text = text[:40000]
	}

	var result *genai.EmbedContentResponse
	err := g.retry(ctx, func() error {
		var err error
		result, err = g.models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to generate embedding: %v", ErrOracleCallFailed, err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("%w: empty embedding result", ErrOracleCallFailed)
	}

	return result.Embeddings[0].Values, nil
}

func (g *geminiService) generate(ctx context.Context, model string, contents []*genai.Content) (string, error) {
	temperature := g.temperature
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 8192,
	}

	var resp *genai.GenerateContentResponse
	err := g.retry(ctx, func() error {
		var err error
		resp, err = g.models.GenerateContent(ctx, model, contents, cfg)
		return err
	})
	if err != nil {
		log.Printf("❌ Gemini API error: %v\n", err)
		return "", fmt.Errorf("%w: %v", ErrOracleCallFailed, err)
	}

	if resp == nil {
		return "", fmt.Errorf("%w: nil response", ErrOracleCallFailed)
	}

	text := resp.Text()
	if text == "" {
		if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != "" {
			log.Printf("⚠️ Gemini returned no text (finish reason: %s)\n", resp.Candidates[0].FinishReason)
		}
		return "", fmt.Errorf("%w: %w", ErrOracleCallFailed, ErrEmptyResponse)
	}

	return text, nil
}

func (g *geminiService) uploadMedia(ctx context.Context, media *models.MediaRef) (*genai.File, error) {
	var file *genai.File
	err := g.retry(ctx, func() error {
		f, err := os.Open(media.Path)
		if err != nil {
			return backoff.Permanent(err)
		}
		defer f.Close()

		file, err = g.files.Upload(ctx, f, &genai.UploadFileConfig{
			MIMEType:    media.MIMEType,
			DisplayName: filepath.Base(media.Path),
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to upload media: %v", ErrOracleCallFailed, err)
	}

	log.Printf("📤 Uploaded media '%s' as %s\n", filepath.Base(media.Path), file.Name)
	return file, nil
}

// waitForActive polls until the oracle reports the file ACTIVE. The wait
// suspends only the calling goroutine.
func (g *geminiService) waitForActive(ctx context.Context, file *genai.File) (*genai.File, error) {
	ctx, cancel := context.WithTimeout(ctx, g.pollTimeout)
	defer cancel()

	current := file
	for {
		switch current.State {
		case genai.FileStateActive:
			return current, nil
		case genai.FileStateProcessing, "":
		default:
			reason := string(current.State)
			if current.Error != nil && current.Error.Message != "" {
				reason = fmt.Sprintf("%s: %s", reason, current.Error.Message)
			}
			return nil, fmt.Errorf("%w: file %s (%s)", ErrMediaProcessingFailed, file.Name, reason)
		}

		timer := time.NewTimer(g.pollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("%w: waiting for file %s: %v", ErrMediaProcessingFailed, file.Name, ctx.Err())
		case <-timer.C:
		}

		next, err := g.files.Get(ctx, file.Name, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to poll file %s: %v", ErrOracleCallFailed, file.Name, err)
		}
		current = next
	}
}

// deleteRemote runs detached from the request context so a cancelled
// request still releases the uploaded file.
func (g *geminiService) deleteRemote(name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := g.files.Delete(ctx, name, nil); err != nil {
		log.Printf("⚠️  Failed to delete remote media %s: %v\n", name, err)
	}
}

func (g *geminiService) retry(ctx context.Context, op func() error) error {
	// A zero budget would mean "retry forever" to backoff.
	if g.retryMaxElapsed <= 0 {
		err := op()
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			return permanent.Err
		}
		return err
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = g.retryInitial
	expo.MaxInterval = 5 * time.Second
	expo.MaxElapsedTime = g.retryMaxElapsed

	return backoff.Retry(func() error {
		err := op()
		if err != nil && !isRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(expo, ctx))
}

// isRetryable reports whether a failed oracle call is worth repeating:
// rate limiting and server-side errors are, client errors are not.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
	}
	return true
}
