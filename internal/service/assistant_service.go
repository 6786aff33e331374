package service

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/generative-ai-go/genai"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/vxacademy/academy/config"
	"github.com/vxacademy/academy/internal/apperr"
	"github.com/vxacademy/academy/internal/dto"
	"github.com/vxacademy/academy/internal/model"
	"github.com/vxacademy/academy/internal/repository"
	"go.uber.org/fx"
	"google.golang.org/api/option"
)

// maxImageBlocks caps the images attached to one prompt.
const maxImageBlocks = 3

var supportedImageTypes = map[string]bool{
	"image/png": true, "image/jpeg": true, "image/webp": true,
	"image/gif": true, "image/heic": true, "image/heif": true,
}

// AssistantService answers learner questions with Gemini, optionally grounded
// in the learning blocks of one unit.
type AssistantService interface {
	Ask(ctx context.Context, req dto.AskAssistantRequest) (*dto.AssistantAnswerResponse, error)
}

// generator is the part of the Gemini model the assistant needs.
type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type assistantService struct {
	model    generator
	http     *resty.Client
	userRepo repository.UserRepository
	unitRepo repository.UnitRepository
}

// NewAssistantService opens the Gemini client when an API key is configured
// and closes it when the application stops.
func NewAssistantService(
	lc fx.Lifecycle,
	cfg *config.Config,
	userRepo repository.UserRepository,
	unitRepo repository.UnitRepository,
) (AssistantService, error) {
	s := &assistantService{
		http:     resty.New().SetTimeout(15 * time.Second).SetRetryCount(1),
		userRepo: userRepo,
		unitRepo: unitRepo,
	}
	if cfg.Assistant.GeminiAPIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. The learning assistant is disabled.")
		return s, nil
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.Assistant.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	m := client.GenerativeModel(cfg.Assistant.Model)
	m.SetTemperature(0.3)
	s.model = m
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			log.Info().Msg("Closing Gemini client")
			return client.Close()
		},
	})
	return s, nil
}

func (s *assistantService) Ask(ctx context.Context, req dto.AskAssistantRequest) (*dto.AssistantAnswerResponse, error) {
	if s.model == nil {
		return nil, errors.Wrap(apperr.ErrUnavailable, "learning assistant is not configured")
	}
	if strings.TrimSpace(req.Question) == "" {
		return nil, apperr.Invalid("question", "must not be empty")
	}
	if _, err := s.userRepo.FindByID(ctx, req.UserID); err != nil {
		return nil, err
	}

	var (
		unit  *model.Unit
		parts []genai.Part
	)
	if req.UnitID != nil {
		var err error
		if unit, err = s.unitRepo.FindByIDWithBlocks(ctx, *req.UnitID); err != nil {
			return nil, err
		}
		parts = append(parts, s.imageParts(ctx, unit.LearningBlocks)...)
	}
	parts = append(parts, genai.Text(buildAssistantPrompt(req.Question, unit)))

	resp, err := s.model.GenerateContent(ctx, parts...)
	if err != nil {
		log.Error().Err(err).Uint("userID", req.UserID).Msg("Gemini API error while answering")
		return nil, errors.Wrap(err, "assistant request failed")
	}
	answer := responseText(resp)
	if answer == "" {
		return nil, errors.New("assistant returned no text content")
	}
	return &dto.AssistantAnswerResponse{Answer: answer}, nil
}

// buildAssistantPrompt frames the question, quoting the unit's text blocks in order.
func buildAssistantPrompt(question string, unit *model.Unit) string {
	var b strings.Builder
	b.WriteString("You are the VX Academy learning assistant. Answer the learner's question clearly and briefly.\n")
	if unit != nil {
		b.WriteString("Base your answer on the following unit material. If the material does not cover the question, say so.\n\n")
		fmt.Fprintf(&b, "Unit: %s\n", unit.Name)
		if unit.Description != "" {
			fmt.Fprintf(&b, "Summary: %s\n", unit.Description)
		}
		for _, block := range unit.LearningBlocks {
			if block.Type != model.BlockText || strings.TrimSpace(block.Content) == "" {
				continue
			}
			fmt.Fprintf(&b, "---\n%s\n%s\n", block.Title, strings.TrimSpace(block.Content))
		}
		b.WriteString("---\n")
	}
	b.WriteString("\nQuestion:\n")
	b.WriteString(strings.TrimSpace(question))
	b.WriteString("\n")
	return b.String()
}

// imageParts downloads image blocks for a multimodal prompt. Failed downloads are skipped.
func (s *assistantService) imageParts(ctx context.Context, blocks []model.LearningBlock) []genai.Part {
	var parts []genai.Part
	for _, block := range blocks {
		if len(parts) == maxImageBlocks {
			break
		}
		if block.Type != model.BlockImage || block.MediaURL == "" {
			continue
		}
		data, mimeType, err := s.fetchImage(ctx, block.MediaURL)
		if err != nil {
			log.Warn().Err(err).Uint("blockID", block.ID).Msg("Skipping image block")
			continue
		}
		parts = append(parts, genai.ImageData(strings.TrimPrefix(mimeType, "image/"), data))
	}
	return parts
}

func (s *assistantService) fetchImage(ctx context.Context, url string) ([]byte, string, error) {
	resp, err := s.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, "", errors.Wrapf(err, "failed to fetch image %s", url)
	}
	if resp.IsError() {
		return nil, "", errors.Errorf("failed to fetch image %s: status %d", url, resp.StatusCode())
	}
	mimeType := ""
	if parsed, _, err := mime.ParseMediaType(resp.Header().Get("Content-Type")); err == nil && strings.HasPrefix(parsed, "image/") {
		mimeType = parsed
	}
	if mimeType == "" {
		mimeType = mime.TypeByExtension(filepath.Ext(url))
	}
	if !supportedImageTypes[mimeType] {
		return nil, "", errors.Errorf("unsupported image type %q for %s", mimeType, url)
	}
	return resp.Body(), mimeType, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return strings.TrimSpace(b.String())
}
