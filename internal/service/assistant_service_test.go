package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vxacademy/academy/internal/apperr"
	"github.com/vxacademy/academy/internal/dto"
	"github.com/vxacademy/academy/internal/model"
	"github.com/vxacademy/academy/internal/repository"
	"github.com/vxacademy/academy/internal/testutil"
	"go.uber.org/fx/fxtest"
)

type fakeGenerator struct {
	parts  []genai.Part
	answer string
}

func (f *fakeGenerator) GenerateContent(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	f.parts = parts
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []genai.Part{genai.Text(f.answer)}},
	}}}, nil
}

func TestAssistantDisabledWithoutKey(t *testing.T) {
	e := newEnv(t)
	lc := fxtest.NewLifecycle(t)
	svc, err := NewAssistantService(lc, e.cfg, repository.NewUserRepository(e.db), repository.NewUnitRepository(e.db))
	require.NoError(t, err)
	lc.RequireStart().RequireStop()

	_, err = svc.Ask(context.Background(), dto.AskAssistantRequest{UserID: 1, Question: "What is PPE?"})
	assert.True(t, apperr.IsUnavailable(err))
}

func TestAssistantGroundsAnswerInUnit(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := testutil.SeedHierarchy(t, e.db, 0)
	learner := testutil.SeedLearner(t, e.db, "Adele Goldberg")

	images := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("\x89PNG"))
	}))
	defer images.Close()

	blocks := []model.LearningBlock{
		{UnitID: h.Units[0].ID, Type: model.BlockText, Title: "Hard hats", Content: "Always wear a hard hat on site.", Order: 1},
		{UnitID: h.Units[0].ID, Type: model.BlockVideo, Title: "Walkthrough", MediaURL: images.URL + "/video.mp4", Order: 2},
		{UnitID: h.Units[0].ID, Type: model.BlockImage, Title: "Sign", MediaURL: images.URL + "/sign.png", Order: 3},
		{UnitID: h.Units[0].ID, Type: model.BlockImage, Title: "Broken", MediaURL: images.URL + "/missing.png", Order: 4},
	}
	for i := range blocks {
		require.NoError(t, e.db.Create(&blocks[i]).Error)
	}

	gen := &fakeGenerator{answer: "  Wear a hard hat.  "}
	svc := &assistantService{
		model:    gen,
		http:     resty.New(),
		userRepo: repository.NewUserRepository(e.db),
		unitRepo: repository.NewUnitRepository(e.db),
	}

	got, err := svc.Ask(ctx, dto.AskAssistantRequest{UserID: learner.ID, Question: "Do I need a helmet?", UnitID: &h.Units[0].ID})
	require.NoError(t, err)
	assert.Equal(t, "Wear a hard hat.", got.Answer)

	require.Len(t, gen.parts, 2)
	blob, ok := gen.parts[0].(genai.Blob)
	require.True(t, ok)
	assert.Equal(t, "image/png", blob.MIMEType)

	prompt, ok := gen.parts[1].(genai.Text)
	require.True(t, ok)
	assert.Contains(t, string(prompt), "Always wear a hard hat on site.")
	assert.Contains(t, string(prompt), "Do I need a helmet?")
	assert.NotContains(t, string(prompt), "Walkthrough")

	_, err = svc.Ask(ctx, dto.AskAssistantRequest{UserID: learner.ID, Question: "   "})
	assert.True(t, apperr.IsValidation(err))
	_, err = svc.Ask(ctx, dto.AskAssistantRequest{UserID: 999, Question: "Hello"})
	assert.True(t, apperr.IsNotFound(err))
}

func TestBuildAssistantPromptWithoutUnit(t *testing.T) {
	prompt := buildAssistantPrompt(" What is a permit to work? ", nil)
	assert.True(t, strings.HasSuffix(prompt, "Question:\nWhat is a permit to work?\n"))
	assert.NotContains(t, prompt, "Unit:")
}
