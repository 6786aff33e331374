package service

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/vxacademy/academy/internal/apperr"
	"github.com/vxacademy/academy/internal/dto"
	"github.com/vxacademy/academy/internal/model"
	"github.com/vxacademy/academy/internal/repository"
	"gorm.io/gorm"
)

var trueFalseOptions = []string{"True", "False"}

// AssessmentService manages assessments, their questions and learner attempts.
type AssessmentService interface {
	CreateAssessment(ctx context.Context, req dto.CreateAssessmentRequest) (*dto.AssessmentResponse, error)
	GetAssessment(ctx context.Context, id uint, withAnswers bool) (*dto.AssessmentResponse, error)
	ListAssessments(ctx context.Context, owner *model.AssessmentOwner) ([]dto.AssessmentResponse, error)
	UpdateAssessment(ctx context.Context, id uint, req dto.UpdateAssessmentRequest) (*dto.AssessmentResponse, error)
	DeleteAssessment(ctx context.Context, id uint) error

	CreateQuestion(ctx context.Context, assessmentID uint, req dto.CreateQuestionRequest) (*dto.QuestionResponse, error)
	UpdateQuestion(ctx context.Context, id uint, req dto.UpdateQuestionRequest) (*dto.QuestionResponse, error)
	DeleteQuestion(ctx context.Context, id uint) error

	Submit(ctx context.Context, assessmentID uint, req dto.SubmitAssessmentRequest) (*dto.AttemptResponse, error)
	ListAttempts(ctx context.Context, assessmentID uint, userID *uint) ([]dto.AttemptResponse, error)
	GetAttempt(ctx context.Context, id uint) (*dto.AttemptResponse, error)
}

type assessmentService struct {
	db             *gorm.DB
	assessmentRepo repository.AssessmentRepository
	questionRepo   repository.QuestionRepository
	attemptRepo    repository.AttemptRepository
	areaRepo       repository.TrainingAreaRepository
	moduleRepo     repository.ModuleRepository
	courseRepo     repository.CourseRepository
	unitRepo       repository.UnitRepository
	userRepo       repository.UserRepository
	progress       ProgressService
	certificates   CertificateService
}

func NewAssessmentService(
	db *gorm.DB,
	assessmentRepo repository.AssessmentRepository,
	questionRepo repository.QuestionRepository,
	attemptRepo repository.AttemptRepository,
	areaRepo repository.TrainingAreaRepository,
	moduleRepo repository.ModuleRepository,
	courseRepo repository.CourseRepository,
	unitRepo repository.UnitRepository,
	userRepo repository.UserRepository,
	progress ProgressService,
	certificates CertificateService,
) AssessmentService {
	return &assessmentService{
		db:             db,
		assessmentRepo: assessmentRepo,
		questionRepo:   questionRepo,
		attemptRepo:    attemptRepo,
		areaRepo:       areaRepo,
		moduleRepo:     moduleRepo,
		courseRepo:     courseRepo,
		unitRepo:       unitRepo,
		userRepo:       userRepo,
		progress:       progress,
		certificates:   certificates,
	}
}

// ownerExists checks the owning content entity; kind must already be valid.
func (s *assessmentService) ownerExists(ctx context.Context, owner model.AssessmentOwner) error {
	var err error
	switch owner.Kind {
	case model.OwnerTrainingArea:
		_, err = s.areaRepo.FindByID(ctx, owner.ID)
	case model.OwnerModule:
		_, err = s.moduleRepo.FindByID(ctx, owner.ID)
	case model.OwnerCourse:
		_, err = s.courseRepo.FindByID(ctx, owner.ID)
	case model.OwnerUnit:
		_, err = s.unitRepo.FindByID(ctx, owner.ID)
	default:
		err = apperr.Invalid("owner.type", "unknown owner type")
	}
	return err
}

// buildQuestion validates a question against its options. True/false
// questions default to the two fixed options and accept no others.
func buildQuestion(text string, qType model.QuestionType, options []string, correct string, order int) (*model.Question, error) {
	switch qType {
	case model.QuestionTrueFalse:
		if len(options) == 0 {
			options = trueFalseOptions
		}
		if len(options) != 2 || options[0] != trueFalseOptions[0] || options[1] != trueFalseOptions[1] {
			return nil, apperr.Invalid("options", "true_false questions must have the options True and False")
		}
	case model.QuestionMCQ:
		if len(options) < 2 {
			return nil, apperr.Invalid("options", "mcq questions need at least two options")
		}
	default:
		return nil, apperr.Invalid("type", "must be mcq or true_false")
	}
	seen := make(map[string]bool, len(options))
	for _, opt := range options {
		if seen[opt] {
			return nil, apperr.Invalid("options", "options must be unique")
		}
		seen[opt] = true
	}
	if !seen[correct] {
		return nil, apperr.Invalid("correct_answer", "must be one of the options")
	}
	return &model.Question{
		Text:          text,
		Type:          qType,
		Options:       append([]string(nil), options...),
		CorrectAnswer: correct,
		Order:         order,
	}, nil
}

func (s *assessmentService) CreateAssessment(ctx context.Context, req dto.CreateAssessmentRequest) (*dto.AssessmentResponse, error) {
	owner := model.AssessmentOwner{Kind: model.OwnerKind(req.Owner.Type), ID: req.Owner.ID}
	if !owner.Kind.Valid() {
		return nil, apperr.Invalid("owner.type", "unknown owner type")
	}
	if err := s.ownerExists(ctx, owner); err != nil {
		return nil, err
	}

	assessment := model.Assessment{
		Owner:               owner,
		Title:               req.Title,
		Description:         req.Description,
		Placement:           model.PlacementEnd,
		PassingScore:        req.PassingScore,
		TimeLimit:           req.TimeLimit,
		MaxRetakes:          req.MaxRetakes,
		XPReward:            req.XPReward,
		CertificateTemplate: req.CertificateTemplate,
	}
	if req.Placement != "" {
		assessment.Placement = model.Placement(req.Placement)
	}
	if assessment.MaxRetakes < 1 {
		return nil, apperr.Invalid("max_retakes", "must be at least 1")
	}
	for i, qr := range req.Questions {
		order := qr.Order
		if order == 0 {
			order = i + 1
		}
		q, err := buildQuestion(qr.Text, model.QuestionType(qr.Type), qr.Options, qr.CorrectAnswer, order)
		if err != nil {
			return nil, err
		}
		assessment.Questions = append(assessment.Questions, *q)
	}

	if err := s.assessmentRepo.Create(ctx, &assessment); err != nil {
		log.Error().Err(err).Str("owner", owner.String()).Msg("CreateAssessment: failed to save")
		return nil, err
	}
	return toAssessmentResponse(&assessment, len(assessment.Questions), true), nil
}

func (s *assessmentService) GetAssessment(ctx context.Context, id uint, withAnswers bool) (*dto.AssessmentResponse, error) {
	assessment, err := s.assessmentRepo.FindByIDWithQuestions(ctx, id)
	if err != nil {
		return nil, err
	}
	return toAssessmentResponse(assessment, len(assessment.Questions), withAnswers), nil
}

func (s *assessmentService) ListAssessments(ctx context.Context, owner *model.AssessmentOwner) ([]dto.AssessmentResponse, error) {
	if owner != nil && !owner.Kind.Valid() {
		return nil, apperr.Invalid("owner_type", "unknown owner type")
	}
	rows, err := s.assessmentRepo.FindByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AssessmentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, *toAssessmentResponse(&rows[i].Assessment, rows[i].QuestionCount, false))
	}
	return out, nil
}

func (s *assessmentService) UpdateAssessment(ctx context.Context, id uint, req dto.UpdateAssessmentRequest) (*dto.AssessmentResponse, error) {
	assessment, err := s.assessmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	setIf(&assessment.Title, req.Title)
	setIf(&assessment.Description, req.Description)
	if req.Placement != nil {
		assessment.Placement = model.Placement(*req.Placement)
	}
	setIf(&assessment.PassingScore, req.PassingScore)
	setIf(&assessment.TimeLimit, req.TimeLimit)
	setIf(&assessment.MaxRetakes, req.MaxRetakes)
	setIf(&assessment.XPReward, req.XPReward)
	setIf(&assessment.CertificateTemplate, req.CertificateTemplate)
	if assessment.MaxRetakes < 1 {
		return nil, apperr.Invalid("max_retakes", "must be at least 1")
	}
	if err := s.assessmentRepo.Update(ctx, assessment); err != nil {
		log.Error().Err(err).Uint("assessmentID", id).Msg("UpdateAssessment: failed to save")
		return nil, err
	}
	count, err := s.questionRepo.CountByAssessmentID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toAssessmentResponse(assessment, int(count), true), nil
}

func (s *assessmentService) DeleteAssessment(ctx context.Context, id uint) error {
	if err := s.assessmentRepo.Delete(ctx, id); err != nil {
		if !apperr.IsNotFound(err) {
			log.Error().Err(err).Uint("assessmentID", id).Msg("DeleteAssessment: failed")
		}
		return err
	}
	log.Info().Uint("assessmentID", id).Msg("Assessment deleted")
	return nil
}

func (s *assessmentService) CreateQuestion(ctx context.Context, assessmentID uint, req dto.CreateQuestionRequest) (*dto.QuestionResponse, error) {
	if _, err := s.assessmentRepo.FindByID(ctx, assessmentID); err != nil {
		return nil, err
	}
	order := req.Order
	if order == 0 {
		n, err := s.questionRepo.CountByAssessmentID(ctx, assessmentID)
		if err != nil {
			return nil, err
		}
		order = int(n) + 1
	}
	q, err := buildQuestion(req.Text, model.QuestionType(req.Type), req.Options, req.CorrectAnswer, order)
	if err != nil {
		return nil, err
	}
	q.AssessmentID = assessmentID
	if err := s.questionRepo.Create(ctx, q); err != nil {
		log.Error().Err(err).Uint("assessmentID", assessmentID).Msg("CreateQuestion: failed to save")
		return nil, err
	}
	resp := toQuestionResponse(q, true)
	return &resp, nil
}

func (s *assessmentService) UpdateQuestion(ctx context.Context, id uint, req dto.UpdateQuestionRequest) (*dto.QuestionResponse, error) {
	existing, err := s.questionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	text, qType, options, correct, order := existing.Text, existing.Type, []string(existing.Options), existing.CorrectAnswer, existing.Order
	setIf(&text, req.Text)
	if req.Type != nil {
		qType = model.QuestionType(*req.Type)
		if qType == model.QuestionTrueFalse && req.Options == nil {
			options = nil
		}
	}
	if req.Options != nil {
		options = req.Options
	}
	setIf(&correct, req.CorrectAnswer)
	setIf(&order, req.Order)

	q, err := buildQuestion(text, qType, options, correct, order)
	if err != nil {
		return nil, err
	}
	q.ID = existing.ID
	q.AssessmentID = existing.AssessmentID
	q.CreatedAt = existing.CreatedAt
	if err := s.questionRepo.Update(ctx, q); err != nil {
		log.Error().Err(err).Uint("questionID", id).Msg("UpdateQuestion: failed to save")
		return nil, err
	}
	resp := toQuestionResponse(q, true)
	return &resp, nil
}

func (s *assessmentService) DeleteQuestion(ctx context.Context, id uint) error {
	return s.questionRepo.Delete(ctx, id)
}
