package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vxacademy/academy/internal/apperr"
	"github.com/vxacademy/academy/internal/dto"
	"github.com/vxacademy/academy/internal/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Submit grades a full set of answers. The retake limit is checked before
// grading. A pass awards the assessment XP once per learner and completes the
// owning course or course unit.
func (s *assessmentService) Submit(ctx context.Context, assessmentID uint, req dto.SubmitAssessmentRequest) (*dto.AttemptResponse, error) {
	now := time.Now()
	var (
		assessment *model.Assessment
		attempt    model.AssessmentAttempt
		result     scoreResult
		used       int64
		xpAwarded  int
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		assessment, err = s.assessmentRepo.WithTx(tx).FindByIDWithQuestions(ctx, assessmentID)
		if err != nil {
			return err
		}
		if len(assessment.Questions) == 0 {
			return apperr.Invalid("assessment_id", "assessment has no questions")
		}
		// held until commit, so concurrent submits of one learner count each other's attempts
		if err := s.userRepo.WithTx(tx).Lock(ctx, req.UserID); err != nil {
			return err
		}
		if req.CourseUnitID != nil {
			if err := s.checkCourseUnit(ctx, tx, assessment, *req.CourseUnitID); err != nil {
				return err
			}
		}

		attempts := s.attemptRepo.WithTx(tx)
		used, err = attempts.Count(ctx, assessmentID, req.UserID)
		if err != nil {
			return err
		}
		if used >= int64(assessment.MaxRetakes) {
			return apperr.ErrAttemptLimitExceeded
		}
		passedBefore, err := attempts.HasPassed(ctx, assessmentID, req.UserID)
		if err != nil {
			return err
		}

		for qid := range req.Answers {
			if !containsQuestion(assessment.Questions, qid) {
				log.Warn().Uint("questionID", qid).Uint("assessmentID", assessmentID).Msg("Submit: answer for a question outside this assessment ignored")
			}
		}
		result = gradeAnswers(assessment.Questions, req.Answers, assessment.PassingScore)

		startedAt := now
		if req.StartedAt != nil && !req.StartedAt.After(now) {
			startedAt = *req.StartedAt
		}
		attempt = model.AssessmentAttempt{
			UserID:          req.UserID,
			AssessmentID:    assessmentID,
			Score:           result.Score,
			Passed:          result.Passed,
			Answers:         datatypes.NewJSONType(req.Answers),
			SelectedIndexes: datatypes.NewJSONType(result.Selected),
			StartedAt:       startedAt,
			CompletedAt:     now,
		}
		if err := attempts.Create(ctx, &attempt); err != nil {
			return err
		}
		used++

		if result.Passed && !passedBefore && assessment.XPReward > 0 {
			if err := s.userRepo.WithTx(tx).AddXP(ctx, req.UserID, assessment.XPReward); err != nil {
				return err
			}
			xpAwarded = assessment.XPReward
		}
		return nil
	})
	if err != nil {
		if apperr.IsAttemptLimitExceeded(err) {
			log.Warn().Uint("userID", req.UserID).Uint("assessmentID", assessmentID).Msg("Submit: attempt limit reached")
		} else if !isClientError(err) {
			log.Error().Err(err).Uint("userID", req.UserID).Uint("assessmentID", assessmentID).Msg("Submit: transaction failed")
		}
		return nil, err
	}

	resp := toAttemptResponse(&attempt, assessment.MaxRetakes, used)
	resp.CorrectCount = result.Correct
	resp.TotalQuestions = result.Total
	resp.XPAwarded = xpAwarded
	if result.Passed {
		resp.Certificate = s.completeOwner(ctx, assessment, req)
	}
	log.Info().
		Uint("attemptID", attempt.ID).
		Uint("userID", req.UserID).
		Int("score", attempt.Score).
		Bool("passed", attempt.Passed).
		Msg("Assessment submitted")
	return resp, nil
}

// checkCourseUnit ensures a course unit passed with a submission places the owning unit.
func (s *assessmentService) checkCourseUnit(ctx context.Context, tx *gorm.DB, assessment *model.Assessment, courseUnitID uint) error {
	cu, err := s.courseRepo.WithTx(tx).FindCourseUnit(ctx, courseUnitID)
	if err != nil {
		return err
	}
	if assessment.Owner.Kind == model.OwnerUnit && cu.UnitID != assessment.Owner.ID {
		return apperr.Invalid("course_unit_id", "course unit does not place the assessed unit")
	}
	return nil
}

// completeOwner feeds a passed attempt into certificates and progress. It runs
// after the attempt is stored, so failures are logged and the attempt stands.
func (s *assessmentService) completeOwner(ctx context.Context, assessment *model.Assessment, req dto.SubmitAssessmentRequest) *dto.CertificateResponse {
	switch assessment.Owner.Kind {
	case model.OwnerCourse:
		courseID := assessment.Owner.ID
		if _, err := s.progress.CompleteCourse(ctx, req.UserID, courseID); err != nil {
			log.Error().Err(err).Uint("userID", req.UserID).Uint("courseID", courseID).Msg("Submit: failed to complete course")
		}
		cert, err := s.certificates.Issue(ctx, req.UserID, courseID)
		if err != nil {
			log.Error().Err(err).Uint("userID", req.UserID).Uint("courseID", courseID).Msg("Submit: failed to issue certificate")
			return nil
		}
		return cert
	case model.OwnerUnit:
		if req.CourseUnitID == nil {
			return nil
		}
		if _, err := s.progress.CompleteCourseUnit(ctx, req.UserID, *req.CourseUnitID); err != nil {
			log.Error().Err(err).Uint("userID", req.UserID).Uint("courseUnitID", *req.CourseUnitID).Msg("Submit: failed to complete course unit")
		}
	}
	return nil
}

func containsQuestion(questions []model.Question, id uint) bool {
	for _, q := range questions {
		if q.ID == id {
			return true
		}
	}
	return false
}

func (s *assessmentService) ListAttempts(ctx context.Context, assessmentID uint, userID *uint) ([]dto.AttemptResponse, error) {
	assessment, err := s.assessmentRepo.FindByID(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	attempts, err := s.attemptRepo.FindByAssessment(ctx, assessmentID, userID)
	if err != nil {
		return nil, err
	}
	used := make(map[uint]int64)
	for _, a := range attempts {
		used[a.UserID]++
	}
	out := make([]dto.AttemptResponse, 0, len(attempts))
	for i := range attempts {
		out = append(out, *toAttemptResponse(&attempts[i], assessment.MaxRetakes, used[attempts[i].UserID]))
	}
	return out, nil
}

func (s *assessmentService) GetAttempt(ctx context.Context, id uint) (*dto.AttemptResponse, error) {
	attempt, err := s.attemptRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	assessment, err := s.assessmentRepo.FindByID(ctx, attempt.AssessmentID)
	if err != nil {
		return nil, err
	}
	used, err := s.attemptRepo.Count(ctx, attempt.AssessmentID, attempt.UserID)
	if err != nil {
		return nil, err
	}
	return toAttemptResponse(attempt, assessment.MaxRetakes, used), nil
}

func toAttemptResponse(a *model.AssessmentAttempt, maxRetakes int, used int64) *dto.AttemptResponse {
	resp := &dto.AttemptResponse{
		ID:              a.ID,
		AssessmentID:    a.AssessmentID,
		UserID:          a.UserID,
		Score:           a.Score,
		Passed:          a.Passed,
		Answers:         a.Answers.Data(),
		SelectedIndexes: a.SelectedIndexes.Data(),
		AttemptsUsed:    used,
		StartedAt:       a.StartedAt,
		CompletedAt:     a.CompletedAt,
	}
	if left := int64(maxRetakes) - used; left > 0 {
		resp.AttemptsLeft = left
	}
	resp.TotalQuestions = len(resp.SelectedIndexes)
	return resp
}
