package extract

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"

	"github.com/brunomdrs/processo-extractor/internal/models"
	"github.com/brunomdrs/processo-extractor/pkg/logger"
)

const extractorSystemPrompt = "You are a specialist analyzer of Brazilian legal documents. " +
	"Your task is to find every case number (numero do processo, CNJ format NNNNNNN-DD.AAAA.J.TR.OOOO) " +
	"and the venue (foro / comarca) it belongs to. You must output your response as a valid JSON array."

const extractorUserPrompt = `Analyze the provided document content and list every legal process it mentions.

Follow these rules precisely:
1. Create a JSON object for each (case number, venue) pair you find.
2. Each JSON object must have exactly two keys:
   - "processo": the full case number exactly as written in the document.
   - "foro": the venue (foro or comarca) the case belongs to, e.g. "Jaboticabal" or "Ribeirão Preto".
3. Keep the pairs in the order they appear in the document. Do not deduplicate.
4. If the venue of a case cannot be determined, use an empty string for "foro".
5. The final output MUST be a single, valid JSON array of these objects, and nothing else.
   If the document contains no case numbers, output [].`

// GeminiExtractor implements Extractor on top of a Vertex AI generative model.
type GeminiExtractor struct {
	model      *genai.GenerativeModel
	baseClient *genai.Client
	logger     logger.Logger
}

type GeminiConfig struct {
	ProjectID string
	Region    string
	Model     string
}

func NewGeminiExtractor(ctx context.Context, cfg GeminiConfig, log logger.Logger) (*GeminiExtractor, error) {
	if cfg.ProjectID == "" || cfg.Region == "" {
		return nil, fmt.Errorf("gemini extractor: project ID and region cannot be empty")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-pro"
	}

	baseClient, err := genai.NewClient(ctx, cfg.ProjectID, cfg.Region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	model := baseClient.GenerativeModel(cfg.Model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(extractorSystemPrompt)},
	}
	model.GenerationConfig = genai.GenerationConfig{
		// Force JSON output, low temperature for deterministic extraction.
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0.0),
	}
	model.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockNone},
	}

	return &GeminiExtractor{
		model:      model,
		baseClient: baseClient,
		logger:     log,
	}, nil
}

func (g *GeminiExtractor) Close() error {
	if g.baseClient != nil {
		return g.baseClient.Close()
	}
	return nil
}

// ExtractFromText implements Extractor.
func (g *GeminiExtractor) ExtractFromText(ctx context.Context, text string, filter []string) ([]models.LegalProcess, error) {
	parts := []genai.Part{
		genai.Text(buildPrompt(filter)),
		genai.Text("Document content:\n\n" + text),
	}
	return g.generate(ctx, parts, filter)
}

// ExtractFromPayload implements Extractor.
func (g *GeminiExtractor) ExtractFromPayload(ctx context.Context, payload []byte, mimeType string, filter []string) ([]models.LegalProcess, error) {
	parts := []genai.Part{
		genai.Text(buildPrompt(filter)),
		genai.Blob{MIMEType: mimeType, Data: payload},
	}
	return g.generate(ctx, parts, filter)
}

func (g *GeminiExtractor) generate(ctx context.Context, parts []genai.Part, filter []string) ([]models.LegalProcess, error) {
	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("extraction request failed: %w", err)
	}

	raw := responseText(resp)
	if strings.TrimSpace(raw) == "" {
		return []models.LegalProcess{}, nil
	}

	procs, err := DecodeProcesses(raw)
	if err != nil {
		g.logger.Warn("Unparseable model response",
			logger.Int("responseLength", len(raw)),
			logger.Error(err),
		)
		return nil, err
	}
	return ApplyFilter(procs, filter), nil
}

func buildPrompt(filter []string) string {
	if len(filter) == 0 {
		return extractorUserPrompt
	}
	return extractorUserPrompt +
		"\n\nRestriction: only include pairs whose \"processo\" is one of the following case numbers; omit every other case:\n" +
		strings.Join(filter, "\n")
}

func responseText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}
	return sb.String()
}
