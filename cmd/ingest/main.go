// Command ingest loads company interview guides into the knowledge base
// used when generating opening questions.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"alfredoptarigan/interview-prep/internal/config"
	"alfredoptarigan/interview-prep/internal/services"
)

var (
	ingestCompany   string
	ingestChunkSize int
	ingestOverlap   int
)

var rootCmd = &cobra.Command{
	Use:   "ingest --company <name> <guide.pdf>...",
	Short: "Ingest company interview guides into Qdrant",
	Long:  "Extracts text from interview guide PDFs, chunks and embeds it, and stores the chunks tagged with the target company.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runIngest,
}

func init() {
	rootCmd.Flags().StringVarP(&ingestCompany, "company", "c", "", "Company the guides describe (required)")
	rootCmd.Flags().IntVar(&ingestChunkSize, "chunk-size", 1000, "Maximum chunk size in characters")
	rootCmd.Flags().IntVar(&ingestOverlap, "overlap", 200, "Characters carried over between chunks")
	_ = rootCmd.MarkFlagRequired("company")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runIngest(cmd *cobra.Command, paths []string) error {
	log.Println("🚀 Starting guide ingestion...")

	cfg := config.Load()
	if !cfg.Knowledge.Enabled() {
		return fmt.Errorf("QDRANT_URL is not set")
	}

	geminiService, err := services.NewGeminiService(cfg.Gemini)
	if err != nil {
		return fmt.Errorf("failed to initialize Gemini: %w", err)
	}

	store, err := services.NewQdrantService(cfg.Knowledge.URL, cfg.Knowledge.APIKey, cfg.Knowledge.Collection)
	if err != nil {
		return fmt.Errorf("failed to initialize Qdrant: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := store.InitCollection(ctx); err != nil {
		return fmt.Errorf("failed to initialize collection: %w", err)
	}

	pdfParser := services.NewPDFParserService()
	knowledge := services.NewKnowledgeService(store, geminiService, services.NewTextChunker(ingestChunkSize, ingestOverlap))

	successCount := 0
	failCount := 0

	for _, path := range paths {
		log.Printf("\n📄 Processing: %s", path)

		content, err := pdfParser.ExtractTextWithMetaData(path)
		if err != nil {
			log.Printf("   ❌ Failed to extract text: %v", err)
			failCount++
			continue
		}
		if strings.TrimSpace(content.Text) == "" {
			log.Printf("   ⚠️  No text layer, skipping...")
			failCount++
			continue
		}
		log.Printf("   ✅ Extracted %d pages, %d characters", content.PageCount, len(content.Text))

		guideID := fmt.Sprintf("%s/%s", strings.ToLower(ingestCompany), filepath.Base(path))
		n, err := knowledge.Ingest(ctx, guideID, ingestCompany, content.Text)
		if err != nil {
			log.Printf("   ❌ Failed after %d chunks: %v", n, err)
			failCount++
			continue
		}

		successCount++
	}

	log.Println("\n" + strings.Repeat("=", 60))
	log.Printf("📊 Ingestion Summary:")
	log.Printf("   ✅ Successful: %d guides", successCount)
	log.Printf("   ❌ Failed: %d guides", failCount)
	log.Println(strings.Repeat("=", 60))

	if failCount > 0 {
		return fmt.Errorf("%d guides failed to ingest", failCount)
	}

	log.Println("✅ All guides ingested successfully!")
	return nil
}
