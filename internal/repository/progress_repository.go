package repository

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"github.com/vxacademy/academy/internal/apperr"
	"github.com/vxacademy/academy/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressRepository reads and writes the four progress levels plus the block
// completions that feed the unit level.
type ProgressRepository interface {
	WithTx(tx *gorm.DB) ProgressRepository

	UnitProgress(ctx context.Context, userID, courseUnitID uint) (*model.UserCourseUnitProgress, error)
	CourseProgress(ctx context.Context, userID, courseID uint) (*model.UserCourseProgress, error)
	ModuleProgress(ctx context.Context, userID, moduleID uint) (*model.UserModuleProgress, error)
	TrainingAreaProgress(ctx context.Context, userID, trainingAreaID uint) (*model.UserTrainingAreaProgress, error)
	// Save inserts or updates any of the progress rows.
	Save(ctx context.Context, row interface{}) error

	// Percentages of existing rows only; callers account for missing children.
	UnitPercentages(ctx context.Context, userID uint, courseUnitIDs []uint) ([]float64, error)
	CoursePercentages(ctx context.Context, userID uint, courseIDs []uint) ([]float64, error)
	ModulePercentages(ctx context.Context, userID uint, moduleIDs []uint) ([]float64, error)

	CourseUnitIDs(ctx context.Context, courseID uint) ([]uint, error)
	CourseIDs(ctx context.Context, moduleID uint) ([]uint, error)
	ModuleIDs(ctx context.Context, trainingAreaID uint) ([]uint, error)
	// CoursesPlacing lists the courses a unit is placed in.
	CoursesPlacing(ctx context.Context, unitID uint) ([]uint, error)

	// Learners holding progress on the entity or directly below it, ascending.
	CourseLearners(ctx context.Context, courseID uint) ([]uint, error)
	ModuleLearners(ctx context.Context, moduleID uint) ([]uint, error)
	TrainingAreaLearners(ctx context.Context, trainingAreaID uint) ([]uint, error)

	// AddBlockCompletion is a no-op when the block is already completed.
	AddBlockCompletion(ctx context.Context, c *model.LearningBlockCompletion) error
	CountBlockCompletions(ctx context.Context, userID, courseUnitID uint) (int64, error)

	ListUnitProgress(ctx context.Context, userID uint, courseUnitIDs []uint) ([]model.UserCourseUnitProgress, error)
	ListCourseProgress(ctx context.Context, userID uint) ([]model.UserCourseProgress, error)
	ListModuleProgress(ctx context.Context, userID uint) ([]model.UserModuleProgress, error)
	ListTrainingAreaProgress(ctx context.Context, userID uint) ([]model.UserTrainingAreaProgress, error)
}

type progressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) WithTx(tx *gorm.DB) ProgressRepository {
	return NewProgressRepository(tx)
}

// firstOrInit loads the (user, entity) row or returns a fresh one with the keys set.
func firstOrInit[T any](ctx context.Context, db *gorm.DB, column string, userID, entityID uint, init T) (*T, error) {
	row := init
	err := db.WithContext(ctx).Where("user_id = ? AND "+column+" = ?", userID, entityID).Limit(1).Find(&row).Error
	if err != nil {
		return nil, apperr.FromDB(err, "progress", 0, "failed to load progress")
	}
	return &row, nil
}

func (r *progressRepository) UnitProgress(ctx context.Context, userID, courseUnitID uint) (*model.UserCourseUnitProgress, error) {
	return firstOrInit(ctx, r.db, "course_unit_id", userID, courseUnitID, model.UserCourseUnitProgress{
		UserID: userID, CourseUnitID: courseUnitID, Status: model.StatusNotStarted,
	})
}

func (r *progressRepository) CourseProgress(ctx context.Context, userID, courseID uint) (*model.UserCourseProgress, error) {
	return firstOrInit(ctx, r.db, "course_id", userID, courseID, model.UserCourseProgress{
		UserID: userID, CourseID: courseID, Status: model.StatusNotStarted,
	})
}

func (r *progressRepository) ModuleProgress(ctx context.Context, userID, moduleID uint) (*model.UserModuleProgress, error) {
	return firstOrInit(ctx, r.db, "module_id", userID, moduleID, model.UserModuleProgress{
		UserID: userID, ModuleID: moduleID, Status: model.StatusNotStarted,
	})
}

func (r *progressRepository) TrainingAreaProgress(ctx context.Context, userID, trainingAreaID uint) (*model.UserTrainingAreaProgress, error) {
	return firstOrInit(ctx, r.db, "training_area_id", userID, trainingAreaID, model.UserTrainingAreaProgress{
		UserID: userID, TrainingAreaID: trainingAreaID, Status: model.StatusNotStarted,
	})
}

// Save reports a duplicate key as a plain error: it only happens when two
// first writes of the same row race, and the rollup retries those.
func (r *progressRepository) Save(ctx context.Context, row interface{}) error {
	err := r.db.WithContext(ctx).Save(row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errors.Wrap(err, "concurrent progress write")
	}
	return apperr.FromDB(err, "progress", 0, "failed to save progress")
}

func (r *progressRepository) percentages(ctx context.Context, m interface{}, column string, userID uint, ids []uint) ([]float64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []float64
	err := r.db.WithContext(ctx).Model(m).
		Where("user_id = ? AND "+column+" IN ?", userID, ids).
		Pluck("completion_percentage", &out).Error
	return out, apperr.FromDB(err, "progress", 0, "failed to read progress")
}

func (r *progressRepository) UnitPercentages(ctx context.Context, userID uint, courseUnitIDs []uint) ([]float64, error) {
	return r.percentages(ctx, &model.UserCourseUnitProgress{}, "course_unit_id", userID, courseUnitIDs)
}

func (r *progressRepository) CoursePercentages(ctx context.Context, userID uint, courseIDs []uint) ([]float64, error) {
	return r.percentages(ctx, &model.UserCourseProgress{}, "course_id", userID, courseIDs)
}

func (r *progressRepository) ModulePercentages(ctx context.Context, userID uint, moduleIDs []uint) ([]float64, error) {
	return r.percentages(ctx, &model.UserModuleProgress{}, "module_id", userID, moduleIDs)
}

func (r *progressRepository) CourseUnitIDs(ctx context.Context, courseID uint) ([]uint, error) {
	ids, err := pluckIDs(r.db.WithContext(ctx), &model.CourseUnit{}, "course_id = ?", courseID)
	return ids, apperr.FromDB(err, "course unit", 0, "failed to list course units")
}

func (r *progressRepository) CourseIDs(ctx context.Context, moduleID uint) ([]uint, error) {
	ids, err := pluckIDs(r.db.WithContext(ctx), &model.Course{}, "module_id = ?", moduleID)
	return ids, apperr.FromDB(err, "course", 0, "failed to list courses")
}

func (r *progressRepository) ModuleIDs(ctx context.Context, trainingAreaID uint) ([]uint, error) {
	ids, err := pluckIDs(r.db.WithContext(ctx), &model.Module{}, "training_area_id = ?", trainingAreaID)
	return ids, apperr.FromDB(err, "module", 0, "failed to list modules")
}

func (r *progressRepository) CoursesPlacing(ctx context.Context, unitID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&model.CourseUnit{}).
		Where("unit_id = ?", unitID).
		Distinct().Order("course_id ASC").
		Pluck("course_id", &ids).Error
	return ids, apperr.FromDB(err, "course unit", 0, "failed to list placements")
}

func (r *progressRepository) CourseLearners(ctx context.Context, courseID uint) ([]uint, error) {
	db := r.db.WithContext(ctx)
	return learners(
		db.Model(&model.UserCourseProgress{}).Where("course_id = ?", courseID),
		db.Model(&model.UserCourseUnitProgress{}).
			Where("course_unit_id IN (?)", db.Model(&model.CourseUnit{}).Select("id").Where("course_id = ?", courseID)),
	)
}

func (r *progressRepository) ModuleLearners(ctx context.Context, moduleID uint) ([]uint, error) {
	db := r.db.WithContext(ctx)
	return learners(
		db.Model(&model.UserModuleProgress{}).Where("module_id = ?", moduleID),
		db.Model(&model.UserCourseProgress{}).
			Where("course_id IN (?)", db.Model(&model.Course{}).Select("id").Where("module_id = ?", moduleID)),
	)
}

func (r *progressRepository) TrainingAreaLearners(ctx context.Context, trainingAreaID uint) ([]uint, error) {
	db := r.db.WithContext(ctx)
	return learners(
		db.Model(&model.UserTrainingAreaProgress{}).Where("training_area_id = ?", trainingAreaID),
		db.Model(&model.UserModuleProgress{}).
			Where("module_id IN (?)", db.Model(&model.Module{}).Select("id").Where("training_area_id = ?", trainingAreaID)),
	)
}

// learners merges the user_id columns of the given queries.
func learners(queries ...*gorm.DB) ([]uint, error) {
	seen := make(map[uint]struct{})
	out := []uint{}
	for _, q := range queries {
		var ids []uint
		if err := q.Pluck("user_id", &ids).Error; err != nil {
			return nil, apperr.FromDB(err, "progress", 0, "failed to list learners")
		}
		for _, id := range ids {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				out = append(out, id)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (r *progressRepository) AddBlockCompletion(ctx context.Context, c *model.LearningBlockCompletion) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(c).Error
	return apperr.FromDB(err, "learning block completion", 0, "failed to record block completion")
}

func (r *progressRepository) CountBlockCompletions(ctx context.Context, userID, courseUnitID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.LearningBlockCompletion{}).
		Where("user_id = ? AND course_unit_id = ?", userID, courseUnitID).
		Count(&n).Error
	return n, apperr.FromDB(err, "learning block completion", 0, "failed to count block completions")
}

func (r *progressRepository) ListUnitProgress(ctx context.Context, userID uint, courseUnitIDs []uint) ([]model.UserCourseUnitProgress, error) {
	var rows []model.UserCourseUnitProgress
	err := r.db.WithContext(ctx).Where("user_id = ? AND course_unit_id IN ?", userID, courseUnitIDs).Find(&rows).Error
	return rows, apperr.FromDB(err, "progress", 0, "failed to list unit progress")
}

func (r *progressRepository) ListCourseProgress(ctx context.Context, userID uint) ([]model.UserCourseProgress, error) {
	var rows []model.UserCourseProgress
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("course_id ASC").Find(&rows).Error
	return rows, apperr.FromDB(err, "progress", 0, "failed to list course progress")
}

func (r *progressRepository) ListModuleProgress(ctx context.Context, userID uint) ([]model.UserModuleProgress, error) {
	var rows []model.UserModuleProgress
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("module_id ASC").Find(&rows).Error
	return rows, apperr.FromDB(err, "progress", 0, "failed to list module progress")
}

func (r *progressRepository) ListTrainingAreaProgress(ctx context.Context, userID uint) ([]model.UserTrainingAreaProgress, error) {
	var rows []model.UserTrainingAreaProgress
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("training_area_id ASC").Find(&rows).Error
	return rows, apperr.FromDB(err, "progress", 0, "failed to list training area progress")
}
