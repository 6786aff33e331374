package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vxacademy/academy/internal/model"
	"github.com/vxacademy/academy/internal/repository"
	"gorm.io/gorm"
)

// ancestors recomputes stored course, module and training area progress from
// the rows one level below. Every method must run inside tx.
type ancestors struct {
	progressRepo     repository.ProgressRepository
	courseRepo       repository.CourseRepository
	moduleRepo       repository.ModuleRepository
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
}

type ancestorRows struct {
	course          *model.UserCourseProgress
	module          *model.UserModuleProgress
	area            *model.UserTrainingAreaProgress
	courseCompleted bool
}

// fromCourse recomputes course, module and training area rows of one learner.
func (a *ancestors) fromCourse(ctx context.Context, tx *gorm.DB, userID uint, course *model.Course, now time.Time) (*ancestorRows, error) {
	courseRow, completed, err := a.course(ctx, tx, userID, course, now)
	if err != nil {
		return nil, err
	}
	module, err := a.moduleRepo.WithTx(tx).FindByID(ctx, course.ModuleID)
	if err != nil {
		return nil, err
	}
	out, err := a.fromModule(ctx, tx, userID, module, now)
	if err != nil {
		return nil, err
	}
	out.course = courseRow
	out.courseCompleted = completed
	return out, nil
}

func (a *ancestors) fromModule(ctx context.Context, tx *gorm.DB, userID uint, module *model.Module, now time.Time) (*ancestorRows, error) {
	moduleRow, err := a.module(ctx, tx, userID, module.ID, now)
	if err != nil {
		return nil, err
	}
	areaRow, err := a.area(ctx, tx, userID, module.TrainingAreaID, now)
	if err != nil {
		return nil, err
	}
	return &ancestorRows{module: moduleRow, area: areaRow}, nil
}

// course reports true when this call completed the course for the first time.
func (a *ancestors) course(ctx context.Context, tx *gorm.DB, userID uint, course *model.Course, now time.Time) (*model.UserCourseProgress, bool, error) {
	progress := a.progressRepo.WithTx(tx)
	childIDs, err := progress.CourseUnitIDs(ctx, course.ID)
	if err != nil {
		return nil, false, err
	}
	values, err := progress.UnitPercentages(ctx, userID, childIDs)
	if err != nil {
		return nil, false, err
	}
	row, err := progress.CourseProgress(ctx, userID, course.ID)
	if err != nil {
		return nil, false, err
	}
	first := row.CompletedAt == nil
	row.CompletionPercentage = meanWithMissing(values, len(childIDs))
	row.Status = model.DeriveStatus(row.CompletionPercentage)
	row.CompletedAt = completedAt(row.CompletedAt, row.Status, now)
	if err := progress.Save(ctx, row); err != nil {
		return nil, false, err
	}
	if !first || row.Status != model.StatusCompleted {
		return row, false, nil
	}
	err = a.notificationRepo.WithTx(tx).Create(ctx, &model.Notification{
		UserID:  userID,
		Type:    model.NotificationCourseCompleted,
		Title:   "Course completed",
		Message: fmt.Sprintf("You completed %s.", course.Name),
		Payload: map[string]interface{}{"course_id": course.ID},
	})
	if err != nil {
		return nil, false, err
	}
	return row, true, nil
}

func (a *ancestors) module(ctx context.Context, tx *gorm.DB, userID, moduleID uint, now time.Time) (*model.UserModuleProgress, error) {
	progress := a.progressRepo.WithTx(tx)
	childIDs, err := progress.CourseIDs(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	values, err := progress.CoursePercentages(ctx, userID, childIDs)
	if err != nil {
		return nil, err
	}
	row, err := progress.ModuleProgress(ctx, userID, moduleID)
	if err != nil {
		return nil, err
	}
	row.CompletionPercentage = meanWithMissing(values, len(childIDs))
	row.Status = model.DeriveStatus(row.CompletionPercentage)
	row.CompletedAt = completedAt(row.CompletedAt, row.Status, now)
	return row, progress.Save(ctx, row)
}

func (a *ancestors) area(ctx context.Context, tx *gorm.DB, userID, areaID uint, now time.Time) (*model.UserTrainingAreaProgress, error) {
	progress := a.progressRepo.WithTx(tx)
	childIDs, err := progress.ModuleIDs(ctx, areaID)
	if err != nil {
		return nil, err
	}
	values, err := progress.ModulePercentages(ctx, userID, childIDs)
	if err != nil {
		return nil, err
	}
	row, err := progress.TrainingAreaProgress(ctx, userID, areaID)
	if err != nil {
		return nil, err
	}
	row.CompletionPercentage = meanWithMissing(values, len(childIDs))
	row.Status = model.DeriveStatus(row.CompletionPercentage)
	row.CompletedAt = completedAt(row.CompletedAt, row.Status, now)
	return row, progress.Save(ctx, row)
}

// The refresh helpers run after a structural change to the hierarchy. They
// lock every affected learner before recomputing, in the same order a
// progress event would.

func (a *ancestors) refreshCourse(ctx context.Context, tx *gorm.DB, courseID uint) error {
	course, err := a.courseRepo.WithTx(tx).FindByID(ctx, courseID)
	if err != nil {
		return err
	}
	learners, err := a.progressRepo.WithTx(tx).CourseLearners(ctx, courseID)
	if err != nil || len(learners) == 0 {
		return err
	}
	if err := a.userRepo.WithTx(tx).LockMany(ctx, learners); err != nil {
		return err
	}
	now := time.Now()
	for _, userID := range learners {
		if _, err := a.fromCourse(ctx, tx, userID, course, now); err != nil {
			return err
		}
	}
	log.Debug().Uint("courseID", courseID).Int("learners", len(learners)).Msg("Course progress refreshed")
	return nil
}

func (a *ancestors) refreshModule(ctx context.Context, tx *gorm.DB, moduleID uint) error {
	module, err := a.moduleRepo.WithTx(tx).FindByID(ctx, moduleID)
	if err != nil {
		return err
	}
	learners, err := a.progressRepo.WithTx(tx).ModuleLearners(ctx, moduleID)
	if err != nil || len(learners) == 0 {
		return err
	}
	if err := a.userRepo.WithTx(tx).LockMany(ctx, learners); err != nil {
		return err
	}
	now := time.Now()
	for _, userID := range learners {
		if _, err := a.fromModule(ctx, tx, userID, module, now); err != nil {
			return err
		}
	}
	log.Debug().Uint("moduleID", moduleID).Int("learners", len(learners)).Msg("Module progress refreshed")
	return nil
}

func (a *ancestors) refreshArea(ctx context.Context, tx *gorm.DB, areaID uint) error {
	learners, err := a.progressRepo.WithTx(tx).TrainingAreaLearners(ctx, areaID)
	if err != nil || len(learners) == 0 {
		return err
	}
	if err := a.userRepo.WithTx(tx).LockMany(ctx, learners); err != nil {
		return err
	}
	now := time.Now()
	for _, userID := range learners {
		if _, err := a.area(ctx, tx, userID, areaID, now); err != nil {
			return err
		}
	}
	return nil
}
