package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vxacademy/academy/config"
	"github.com/vxacademy/academy/internal/apperr"
	"github.com/vxacademy/academy/internal/dto"
	"github.com/vxacademy/academy/internal/model"
	"github.com/vxacademy/academy/internal/repository"
	"gorm.io/gorm"
)

// ProgressService records learner activity and rolls it up the content
// hierarchy. A parent's percentage is the mean over all of its children,
// counting children without a progress row as 0%.
type ProgressService interface {
	RecordUnitProgress(ctx context.Context, userID, courseUnitID uint, percentage float64) (*dto.RollupResponse, error)
	CompleteLearningBlock(ctx context.Context, userID, courseUnitID, blockID uint) (*dto.RollupResponse, error)
	CompleteCourseUnit(ctx context.Context, userID, courseUnitID uint) (*dto.RollupResponse, error)
	CompleteCourse(ctx context.Context, userID, courseID uint) (*dto.RollupResponse, error)
	GetCourseProgress(ctx context.Context, userID, courseID uint) (*dto.CourseProgressResponse, error)
	GetLearnerOverview(ctx context.Context, userID uint) (*dto.LearnerOverviewResponse, error)
}

type progressService struct {
	db             *gorm.DB
	progressRepo   repository.ProgressRepository
	courseRepo     repository.CourseRepository
	unitRepo       repository.UnitRepository
	userRepo       repository.UserRepository
	enrollmentRepo repository.EnrollmentRepository
	ancestors      *ancestors
	retries        int
}

func NewProgressService(
	db *gorm.DB,
	cfg *config.Config,
	progressRepo repository.ProgressRepository,
	courseRepo repository.CourseRepository,
	moduleRepo repository.ModuleRepository,
	unitRepo repository.UnitRepository,
	userRepo repository.UserRepository,
	enrollmentRepo repository.EnrollmentRepository,
	notificationRepo repository.NotificationRepository,
) ProgressService {
	return &progressService{
		db:             db,
		progressRepo:   progressRepo,
		courseRepo:     courseRepo,
		unitRepo:       unitRepo,
		userRepo:       userRepo,
		enrollmentRepo: enrollmentRepo,
		ancestors: &ancestors{
			progressRepo:     progressRepo,
			courseRepo:       courseRepo,
			moduleRepo:       moduleRepo,
			userRepo:         userRepo,
			notificationRepo: notificationRepo,
		},
		retries: cfg.Progress.RollupRetries,
	}
}

// meanWithMissing averages present over total children; absent children count as 0.
func meanWithMissing(present []float64, total int) float64 {
	if total <= 0 {
		return 0
	}
	var sum float64
	for _, v := range present {
		sum += v
	}
	return sum / float64(total)
}

func clampPercentage(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

// completedAt keeps the first completion time once set.
func completedAt(prev *time.Time, status model.ProgressStatus, now time.Time) *time.Time {
	if prev != nil {
		return prev
	}
	if status == model.StatusCompleted {
		return &now
	}
	return nil
}

func (s *progressService) RecordUnitProgress(ctx context.Context, userID, courseUnitID uint, percentage float64) (*dto.RollupResponse, error) {
	if percentage < 0 || percentage > 100 {
		return nil, apperr.Invalid("percentage", "must be between 0 and 100")
	}
	var out *dto.RollupResponse
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		var err error
		out, err = s.rollup(ctx, tx, userID, courseUnitID, func(*gorm.DB, *model.CourseUnit) (float64, error) {
			return percentage, nil
		})
		return err
	})
	return out, err
}

func (s *progressService) CompleteCourseUnit(ctx context.Context, userID, courseUnitID uint) (*dto.RollupResponse, error) {
	return s.RecordUnitProgress(ctx, userID, courseUnitID, 100)
}

func (s *progressService) CompleteLearningBlock(ctx context.Context, userID, courseUnitID, blockID uint) (*dto.RollupResponse, error) {
	var out *dto.RollupResponse
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		var err error
		out, err = s.rollup(ctx, tx, userID, courseUnitID, func(tx *gorm.DB, cu *model.CourseUnit) (float64, error) {
			units := s.unitRepo.WithTx(tx)
			block, err := units.FindBlock(ctx, blockID)
			if err != nil {
				return 0, err
			}
			if block.UnitID != cu.UnitID {
				return 0, apperr.Invalid("learning_block_id", "block does not belong to this unit")
			}
			progress := s.progressRepo.WithTx(tx)
			if err := progress.AddBlockCompletion(ctx, &model.LearningBlockCompletion{
				UserID:          userID,
				CourseUnitID:    cu.ID,
				LearningBlockID: block.ID,
				CompletedAt:     time.Now(),
			}); err != nil {
				return 0, err
			}
			done, err := progress.CountBlockCompletions(ctx, userID, cu.ID)
			if err != nil {
				return 0, err
			}
			total, err := units.CountBlocks(ctx, cu.UnitID)
			if err != nil {
				return 0, err
			}
			if total == 0 {
				return 0, nil
			}
			return clampPercentage(100 * float64(done) / float64(total)), nil
		})
		return err
	})
	return out, err
}

func (s *progressService) CompleteCourse(ctx context.Context, userID, courseID uint) (*dto.RollupResponse, error) {
	var out *dto.RollupResponse
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.courseRepo.WithTx(tx).FindByID(ctx, courseID); err != nil {
			return err
		}
		cus, err := s.courseRepo.WithTx(tx).FindCourseUnits(ctx, courseID)
		if err != nil {
			return err
		}
		if len(cus) == 0 {
			return apperr.Invalid("course_id", "course has no units")
		}
		for _, cu := range cus {
			out, err = s.rollup(ctx, tx, userID, cu.ID, func(*gorm.DB, *model.CourseUnit) (float64, error) {
				return 100, nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return out, err
}

// inTx runs fn in one transaction, retrying on infrastructure errors up to the configured count.
func (s *progressService) inTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 0; attempt <= s.retries; attempt++ {
		err = s.db.WithContext(ctx).Transaction(fn)
		if err == nil || isClientError(err) || ctx.Err() != nil {
			return err
		}
		log.Warn().Err(err).Int("attempt", attempt+1).Msg("Progress rollup transaction failed")
	}
	log.Error().Err(err).Msg("Progress rollup aborted")
	return err
}

func isClientError(err error) bool {
	return apperr.IsNotFound(err) || apperr.IsValidation(err) || apperr.IsConflict(err) || apperr.IsAttemptLimitExceeded(err)
}

type leafPercentage func(tx *gorm.DB, cu *model.CourseUnit) (float64, error)

// rollup writes the leaf row for (userID, courseUnitID) and recomputes the
// course, module and training area rows above it. It must run inside tx and
// holds the learner's row lock until tx ends.
func (s *progressService) rollup(ctx context.Context, tx *gorm.DB, userID, courseUnitID uint, leaf leafPercentage) (*dto.RollupResponse, error) {
	now := time.Now()
	users := s.userRepo.WithTx(tx)
	progress := s.progressRepo.WithTx(tx)

	if err := users.Lock(ctx, userID); err != nil {
		return nil, err
	}
	cu, err := s.courseRepo.WithTx(tx).FindCourseUnit(ctx, courseUnitID)
	if err != nil {
		return nil, err
	}
	course, err := s.courseRepo.WithTx(tx).FindByID(ctx, cu.CourseID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureEnrolled(ctx, tx, userID, course.ID, now); err != nil {
		return nil, err
	}

	pct, err := leaf(tx, cu)
	if err != nil {
		return nil, err
	}
	out := &dto.RollupResponse{}

	unitRow, err := progress.UnitProgress(ctx, userID, cu.ID)
	if err != nil {
		return nil, err
	}
	firstUnitCompletion := unitRow.CompletedAt == nil && pct == 100
	unitRow.CompletionPercentage = pct
	unitRow.Status = model.DeriveStatus(pct)
	unitRow.CompletedAt = completedAt(unitRow.CompletedAt, unitRow.Status, now)
	if err := progress.Save(ctx, unitRow); err != nil {
		return nil, err
	}
	out.UnitProgress = entry(cu.ID, unitRow.Status, unitRow.CompletionPercentage, unitRow.CompletedAt)

	if firstUnitCompletion {
		unit, err := s.unitRepo.WithTx(tx).FindByID(ctx, cu.UnitID)
		if err != nil {
			return nil, err
		}
		if err := users.AddXP(ctx, userID, unit.XPPoints); err != nil {
			return nil, err
		}
		out.XPAwarded = unit.XPPoints
	}

	rows, err := s.ancestors.fromCourse(ctx, tx, userID, course, now)
	if err != nil {
		return nil, err
	}
	out.CourseCompleted = rows.courseCompleted
	out.CourseProgress = entry(course.ID, rows.course.Status, rows.course.CompletionPercentage, rows.course.CompletedAt)
	out.ModuleProgress = entry(rows.module.ModuleID, rows.module.Status, rows.module.CompletionPercentage, rows.module.CompletedAt)
	out.TrainingAreaProgress = entry(rows.area.TrainingAreaID, rows.area.Status, rows.area.CompletionPercentage, rows.area.CompletedAt)

	log.Debug().
		Uint("userID", userID).
		Uint("courseUnitID", cu.ID).
		Float64("unit", pct).
		Float64("course", rows.course.CompletionPercentage).
		Float64("module", rows.module.CompletionPercentage).
		Float64("trainingArea", rows.area.CompletionPercentage).
		Msg("Progress rolled up")
	return out, nil
}

func (s *progressService) ensureEnrolled(ctx context.Context, tx *gorm.DB, userID, courseID uint, now time.Time) error {
	enrollments := s.enrollmentRepo.WithTx(tx)
	existing, err := enrollments.Find(ctx, userID, courseID)
	if err != nil || existing != nil {
		return err
	}
	return enrollments.Create(ctx, &model.CourseEnrollment{
		UserID:     userID,
		CourseID:   courseID,
		EnrolledAt: now,
		Source:     model.SourceSelf,
	})
}

func entry(id uint, status model.ProgressStatus, pct float64, completedAt *time.Time) dto.ProgressEntry {
	return dto.ProgressEntry{EntityID: id, Status: string(status), CompletionPercentage: pct, CompletedAt: completedAt}
}

func (s *progressService) GetCourseProgress(ctx context.Context, userID, courseID uint) (*dto.CourseProgressResponse, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	course, err := s.courseRepo.FindByIDWithUnits(ctx, courseID)
	if err != nil {
		return nil, err
	}
	row, err := s.progressRepo.CourseProgress(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	rows, err := s.progressRepo.ListUnitProgress(ctx, userID, courseUnitIDs(course.CourseUnits))
	if err != nil {
		return nil, err
	}
	byCourseUnit := make(map[uint]model.UserCourseUnitProgress, len(rows))
	for _, r := range rows {
		byCourseUnit[r.CourseUnitID] = r
	}

	resp := &dto.CourseProgressResponse{
		UserID:               userID,
		CourseID:             courseID,
		Status:               string(row.Status),
		CompletionPercentage: row.CompletionPercentage,
		CompletedAt:          row.CompletedAt,
		Units:                make([]dto.ProgressEntry, 0, len(course.CourseUnits)),
	}
	for _, cu := range course.CourseUnits {
		e := entry(cu.ID, model.StatusNotStarted, 0, nil)
		if r, ok := byCourseUnit[cu.ID]; ok {
			e = entry(cu.ID, r.Status, r.CompletionPercentage, r.CompletedAt)
		}
		if cu.Unit != nil {
			e.Name = cu.Unit.Name
		}
		resp.Units = append(resp.Units, e)
	}
	return resp, nil
}

func (s *progressService) GetLearnerOverview(ctx context.Context, userID uint) (*dto.LearnerOverviewResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := &dto.LearnerOverviewResponse{
		UserID:        userID,
		XP:            user.XP,
		TrainingAreas: []dto.ProgressEntry{},
		Modules:       []dto.ProgressEntry{},
		Courses:       []dto.ProgressEntry{},
	}

	areas, err := s.progressRepo.ListTrainingAreaProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, r := range areas {
		resp.TrainingAreas = append(resp.TrainingAreas, entry(r.TrainingAreaID, r.Status, r.CompletionPercentage, r.CompletedAt))
	}
	modules, err := s.progressRepo.ListModuleProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, r := range modules {
		resp.Modules = append(resp.Modules, entry(r.ModuleID, r.Status, r.CompletionPercentage, r.CompletedAt))
	}
	courses, err := s.progressRepo.ListCourseProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, r := range courses {
		resp.Courses = append(resp.Courses, entry(r.CourseID, r.Status, r.CompletionPercentage, r.CompletedAt))
	}
	return resp, nil
}
