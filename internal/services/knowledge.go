package services

import (
	"context"
	"fmt"
	"log"
	"strings"
)

const knowledgeTopK = 3

// KnowledgeService retrieves company interview guidance for the opening
// question and ingests new guides.
type KnowledgeService interface {
	Retrieve(ctx context.Context, company, query string) ([]string, error)
	Ingest(ctx context.Context, guideID, company, text string) (int, error)
}

type knowledgeService struct {
	store    GuideStore
	embedder Embedder
	chunker  TextChunker
}

func NewKnowledgeService(store GuideStore, embedder Embedder, chunker TextChunker) KnowledgeService {
	return &knowledgeService{
		store:    store,
		embedder: embedder,
		chunker:  chunker,
	}
}

// Retrieve implements KnowledgeService.
func (k *knowledgeService) Retrieve(ctx context.Context, company, query string) ([]string, error) {
	text := strings.TrimSpace(fmt.Sprintf("%s technical interview %s", company, query))

	embedding, err := k.embedder.GenerateEmbedding(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	results, err := k.store.SearchCompany(ctx, embedding, company, knowledgeTopK)
	if err != nil {
		return nil, err
	}

	snippets := make([]string, 0, len(results))
	for _, r := range results {
		if strings.TrimSpace(r.Text) != "" {
			snippets = append(snippets, r.Text)
		}
	}
	return snippets, nil
}

// Ingest implements KnowledgeService. Any previous version of the guide is
// removed first. It returns the number of chunks stored.
func (k *knowledgeService) Ingest(ctx context.Context, guideID, company, text string) (int, error) {
	if err := k.store.DeleteGuide(ctx, guideID); err != nil {
		log.Printf("⚠️  Warning: Failed to delete old chunks of %s: %v\n", guideID, err)
	}

	chunks := k.chunker.ChunkText(text)
	for i, chunk := range chunks {
		embedding, err := k.embedder.GenerateEmbedding(ctx, chunk)
		if err != nil {
			return i, fmt.Errorf("failed to embed chunk %d: %w", i, err)
		}

		if err := k.store.UpsertChunk(ctx, GuideChunk{
			GuideID: guideID,
			Company: company,
			Index:   i,
			Text:    chunk,
		}, embedding); err != nil {
			return i, fmt.Errorf("failed to store chunk %d: %w", i, err)
		}
	}

	log.Printf("✅ Ingested %d chunks of %s for %s\n", len(chunks), guideID, company)
	return len(chunks), nil
}
