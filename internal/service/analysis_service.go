package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"dataanalyst/internal/config"
	"dataanalyst/internal/domain"
	"dataanalyst/internal/llm"
	"dataanalyst/internal/port"
	"dataanalyst/internal/scraper"
)

// AnalysisService defines the question-bundle analysis contract.
type AnalysisService interface {
	Analyze(ctx context.Context, bundle domain.Bundle) (*domain.AnalysisResult, error)
}

type analysisService struct {
	generator port.TextGenerator
	fetcher   port.TableFetcher
	gemini    *config.GeminiConfig
	maxRows   int
	log       *zap.Logger
}

// NewAnalysisService creates a new AnalysisService implementation.
func NewAnalysisService(
	generator port.TextGenerator,
	fetcher port.TableFetcher,
	geminiCfg *config.GeminiConfig,
	scraperCfg *config.ScraperConfig,
	log *zap.Logger,
) AnalysisService {
	maxRows := scraperCfg.MaxRows
	if maxRows <= 0 {
		maxRows = 100
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &analysisService{
		generator: generator,
		fetcher:   fetcher,
		gemini:    geminiCfg,
		maxRows:   maxRows,
		log:       log,
	}
}

func (s *analysisService) Analyze(ctx context.Context, bundle domain.Bundle) (*domain.AnalysisResult, error) {
	if !utf8.ValidString(bundle.Questions) {
		return nil, fmt.Errorf("%w: questions.txt is not valid UTF-8", domain.ErrInvalidUpload)
	}
	if bundle.HasCSV && !utf8.ValidString(bundle.CSV) {
		return nil, fmt.Errorf("%w: data.csv is not valid UTF-8", domain.ErrInvalidUpload)
	}

	var image *port.InlineImage
	if bundle.HasImage && s.gemini.AttachImage {
		mimeType := http.DetectContentType(bundle.Image)
		if _, ok := domain.AllowedImageTypes[mimeType]; !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedImage, mimeType)
		}
		image = &port.InlineImage{MimeType: mimeType, Data: bundle.Image}
	}

	apiKey := s.gemini.ResolveAPIKey()
	if apiKey == "" {
		return nil, domain.ErrAPIKeyMissing
	}

	var notes []string
	if scraped := s.scrape(ctx, bundle.Questions); scraped != "" {
		notes = append(notes, "Scraped Data: "+scraped)
	}
	if bundle.HasImage {
		notes = append(notes, "Image file provided: "+bundle.ImageName)
	}

	prompt := llm.BuildAnalysisPrompt(llm.PromptInput{
		Questions: bundle.Questions,
		CSV:       bundle.CSV,
		Notes:     notes,
	})

	start := time.Now()
	out, err := s.generator.Generate(ctx, port.GenerateInput{
		APIKey: apiKey,
		Prompt: prompt,
		Image:  image,
		Config: port.GenerationConfig{
			Temperature:     s.gemini.Temperature,
			TopP:            s.gemini.TopP,
			TopK:            s.gemini.TopK,
			MaxOutputTokens: s.gemini.MaxOutputTokens,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrModelFailure, err)
	}
	if strings.TrimSpace(out.Text) == "" {
		return nil, domain.ErrEmptyModelResponse
	}

	s.log.Info("model answered",
		zap.String("model", out.ModelUsed),
		zap.String("finish_reason", out.FinishReason),
		zap.Int("prompt_bytes", len(prompt)),
		zap.Int("answer_bytes", len(out.Text)),
		zap.Duration("latency", time.Since(start)),
	)

	return NormalizeResponse(out.Text)
}

// scrape returns the scrape note for the question text, or "" when the
// question does not ask for web data or names no URL. Fetch failures are
// folded into the returned text.
func (s *analysisService) scrape(ctx context.Context, questions string) string {
	if !scraper.ShouldScrape(questions) {
		return ""
	}
	url, ok := scraper.ExtractURL(questions)
	if !ok {
		return ""
	}

	table, err := s.fetcher.FetchTable(ctx, url)
	if err != nil {
		s.log.Warn("scrape failed", zap.String("url", url), zap.Error(err))
		return "Error scraping data: " + err.Error()
	}
	if table == nil {
		s.log.Info("no qualifying table", zap.String("url", url))
		return ""
	}

	s.log.Info("scraped table",
		zap.String("url", url),
		zap.Int("columns", len(table.Header)),
		zap.Int("rows", len(table.Rows)),
	)
	return table.Format(url, s.maxRows)
}

// NormalizeResponse cleans model text and returns it verbatim when it is
// valid JSON, otherwise wrapped in a FallbackResponse.
func NormalizeResponse(text string) (*domain.AnalysisResult, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.ReplaceAll(cleaned, "\n", "")
	cleaned = strings.ReplaceAll(cleaned, "  ", " ")
	cleaned = strings.TrimSpace(cleaned)

	if json.Valid([]byte(cleaned)) {
		return &domain.AnalysisResult{Body: json.RawMessage(cleaned), Parsed: true}, nil
	}

	body, err := json.Marshal(domain.FallbackResponse{
		Response: cleaned,
		Status:   domain.ResultStatusSuccess,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding fallback response: %w", err)
	}
	return &domain.AnalysisResult{Body: body, Parsed: false}, nil
}
