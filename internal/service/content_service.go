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

// ContentService manages the content hierarchy: training areas, modules,
// courses, units, the placement of units in courses and learning blocks.
type ContentService interface {
	CreateTrainingArea(ctx context.Context, req dto.CreateTrainingAreaRequest) (*dto.TrainingAreaResponse, error)
	GetTrainingArea(ctx context.Context, id uint) (*dto.TrainingAreaResponse, error)
	ListTrainingAreas(ctx context.Context, search string) ([]dto.TrainingAreaResponse, error)
	UpdateTrainingArea(ctx context.Context, id uint, req dto.UpdateTrainingAreaRequest) (*dto.TrainingAreaResponse, error)
	DeleteTrainingArea(ctx context.Context, id uint) error

	CreateModule(ctx context.Context, req dto.CreateModuleRequest) (*dto.ModuleResponse, error)
	GetModule(ctx context.Context, id uint) (*dto.ModuleResponse, error)
	ListModules(ctx context.Context, filter repository.ModuleFilter) ([]dto.ModuleResponse, error)
	UpdateModule(ctx context.Context, id uint, req dto.UpdateModuleRequest) (*dto.ModuleResponse, error)
	DeleteModule(ctx context.Context, id uint) error

	CreateCourse(ctx context.Context, req dto.CreateCourseRequest) (*dto.CourseResponse, error)
	GetCourse(ctx context.Context, id uint) (*dto.CourseResponse, error)
	ListCourses(ctx context.Context, filter repository.CourseFilter) ([]dto.CourseResponse, error)
	UpdateCourse(ctx context.Context, id uint, req dto.UpdateCourseRequest) (*dto.CourseResponse, error)
	DeleteCourse(ctx context.Context, id uint) error

	CreateUnit(ctx context.Context, req dto.CreateUnitRequest) (*dto.UnitResponse, error)
	GetUnit(ctx context.Context, id uint) (*dto.UnitResponse, error)
	ListUnits(ctx context.Context, filter repository.UnitFilter) ([]dto.UnitResponse, error)
	UpdateUnit(ctx context.Context, id uint, req dto.UpdateUnitRequest) (*dto.UnitResponse, error)
	DeleteUnit(ctx context.Context, id uint) error

	AttachUnit(ctx context.Context, courseID uint, req dto.AttachUnitRequest) ([]dto.CourseUnitResponse, error)
	DetachUnit(ctx context.Context, courseUnitID uint) ([]dto.CourseUnitResponse, error)
	ReorderCourseUnit(ctx context.Context, courseUnitID uint, order int) ([]dto.CourseUnitResponse, error)

	CreateLearningBlock(ctx context.Context, unitID uint, req dto.CreateLearningBlockRequest) ([]dto.LearningBlockResponse, error)
	UpdateLearningBlock(ctx context.Context, id uint, req dto.UpdateLearningBlockRequest) (*dto.LearningBlockResponse, error)
	DeleteLearningBlock(ctx context.Context, id uint) ([]dto.LearningBlockResponse, error)
	ReorderLearningBlock(ctx context.Context, id uint, order int) ([]dto.LearningBlockResponse, error)
}

// Structural changes recompute the stored progress of the parents whose set
// of children they alter, in the same transaction.
type contentService struct {
	db           *gorm.DB
	areaRepo     repository.TrainingAreaRepository
	moduleRepo   repository.ModuleRepository
	courseRepo   repository.CourseRepository
	unitRepo     repository.UnitRepository
	progressRepo repository.ProgressRepository
	ancestors    *ancestors
}

func NewContentService(
	db *gorm.DB,
	areaRepo repository.TrainingAreaRepository,
	moduleRepo repository.ModuleRepository,
	courseRepo repository.CourseRepository,
	unitRepo repository.UnitRepository,
	progressRepo repository.ProgressRepository,
	userRepo repository.UserRepository,
	notificationRepo repository.NotificationRepository,
) ContentService {
	return &contentService{
		db:           db,
		areaRepo:     areaRepo,
		moduleRepo:   moduleRepo,
		courseRepo:   courseRepo,
		unitRepo:     unitRepo,
		progressRepo: progressRepo,
		ancestors: &ancestors{
			progressRepo:     progressRepo,
			courseRepo:       courseRepo,
			moduleRepo:       moduleRepo,
			userRepo:         userRepo,
			notificationRepo: notificationRepo,
		},
	}
}

func (s *contentService) CreateTrainingArea(ctx context.Context, req dto.CreateTrainingAreaRequest) (*dto.TrainingAreaResponse, error) {
	area := model.TrainingArea{Name: req.Name, Description: req.Description, ImageURL: req.ImageURL}
	if err := s.areaRepo.Create(ctx, &area); err != nil {
		log.Error().Err(err).Msg("CreateTrainingArea: failed to save")
		return nil, err
	}
	return toTrainingAreaResponse(&area), nil
}

func (s *contentService) GetTrainingArea(ctx context.Context, id uint) (*dto.TrainingAreaResponse, error) {
	area, err := s.areaRepo.FindByIDWithModules(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTrainingAreaResponse(area), nil
}

func (s *contentService) ListTrainingAreas(ctx context.Context, search string) ([]dto.TrainingAreaResponse, error) {
	areas, err := s.areaRepo.FindAll(ctx, search)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TrainingAreaResponse, 0, len(areas))
	for i := range areas {
		out = append(out, *toTrainingAreaResponse(&areas[i]))
	}
	return out, nil
}

func (s *contentService) UpdateTrainingArea(ctx context.Context, id uint, req dto.UpdateTrainingAreaRequest) (*dto.TrainingAreaResponse, error) {
	area, err := s.areaRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	setIf(&area.Name, req.Name)
	setIf(&area.Description, req.Description)
	setIf(&area.ImageURL, req.ImageURL)
	if err := s.areaRepo.Update(ctx, area); err != nil {
		log.Error().Err(err).Uint("trainingAreaID", id).Msg("UpdateTrainingArea: failed to save")
		return nil, err
	}
	return toTrainingAreaResponse(area), nil
}

func (s *contentService) DeleteTrainingArea(ctx context.Context, id uint) error {
	if err := s.areaRepo.Delete(ctx, id); err != nil {
		if !apperr.IsNotFound(err) {
			log.Error().Err(err).Uint("trainingAreaID", id).Msg("DeleteTrainingArea: cascade failed")
		}
		return err
	}
	log.Info().Uint("trainingAreaID", id).Msg("Training area deleted with its subtree")
	return nil
}

func (s *contentService) CreateModule(ctx context.Context, req dto.CreateModuleRequest) (*dto.ModuleResponse, error) {
	module := model.Module{
		TrainingAreaID: req.TrainingAreaID,
		Name:           req.Name,
		Description:    req.Description,
		ImageURL:       req.ImageURL,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.areaRepo.WithTx(tx).FindByID(ctx, req.TrainingAreaID); err != nil {
			return err
		}
		if err := s.moduleRepo.WithTx(tx).Create(ctx, &module); err != nil {
			return err
		}
		return s.ancestors.refreshArea(ctx, tx, module.TrainingAreaID)
	})
	if err != nil {
		if !apperr.IsNotFound(err) {
			log.Error().Err(err).Msg("CreateModule: failed to save")
		}
		return nil, err
	}
	return toModuleResponse(&module), nil
}

func (s *contentService) GetModule(ctx context.Context, id uint) (*dto.ModuleResponse, error) {
	module, err := s.moduleRepo.FindByIDWithCourses(ctx, id)
	if err != nil {
		return nil, err
	}
	return toModuleResponse(module), nil
}

func (s *contentService) ListModules(ctx context.Context, filter repository.ModuleFilter) ([]dto.ModuleResponse, error) {
	modules, err := s.moduleRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ModuleResponse, 0, len(modules))
	for i := range modules {
		out = append(out, *toModuleResponse(&modules[i]))
	}
	return out, nil
}

func (s *contentService) UpdateModule(ctx context.Context, id uint, req dto.UpdateModuleRequest) (*dto.ModuleResponse, error) {
	var module *model.Module
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		modules := s.moduleRepo.WithTx(tx)
		var err error
		if module, err = modules.FindByID(ctx, id); err != nil {
			return err
		}
		prevArea := module.TrainingAreaID
		if req.TrainingAreaID != nil && *req.TrainingAreaID != prevArea {
			if _, err := s.areaRepo.WithTx(tx).FindByID(ctx, *req.TrainingAreaID); err != nil {
				return err
			}
			module.TrainingAreaID = *req.TrainingAreaID
		}
		setIf(&module.Name, req.Name)
		setIf(&module.Description, req.Description)
		setIf(&module.ImageURL, req.ImageURL)
		if err := modules.Update(ctx, module); err != nil {
			return err
		}
		if module.TrainingAreaID == prevArea {
			return nil
		}
		if err := s.ancestors.refreshArea(ctx, tx, prevArea); err != nil {
			return err
		}
		return s.ancestors.refreshArea(ctx, tx, module.TrainingAreaID)
	})
	if err != nil {
		if !apperr.IsNotFound(err) {
			log.Error().Err(err).Uint("moduleID", id).Msg("UpdateModule: failed to save")
		}
		return nil, err
	}
	return toModuleResponse(module), nil
}

func (s *contentService) DeleteModule(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		module, err := s.moduleRepo.WithTx(tx).FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.moduleRepo.WithTx(tx).Delete(ctx, id); err != nil {
			return err
		}
		return s.ancestors.refreshArea(ctx, tx, module.TrainingAreaID)
	})
	if err != nil && !apperr.IsNotFound(err) {
		log.Error().Err(err).Uint("moduleID", id).Msg("DeleteModule: cascade failed")
	}
	return err
}

func (s *contentService) CreateCourse(ctx context.Context, req dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	course := model.Course{
		ModuleID:     req.ModuleID,
		Name:         req.Name,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		Duration:     req.Duration,
		Level:        model.LevelBeginner,
		ShowDuration: true,
		ShowLevel:    true,
	}
	if req.Level != "" {
		course.Level = model.CourseLevel(req.Level)
	}
	setIf(&course.ShowDuration, req.ShowDuration)
	setIf(&course.ShowLevel, req.ShowLevel)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.moduleRepo.WithTx(tx).FindByID(ctx, req.ModuleID); err != nil {
			return err
		}
		if err := s.courseRepo.WithTx(tx).Create(ctx, &course); err != nil {
			return err
		}
		return s.ancestors.refreshModule(ctx, tx, course.ModuleID)
	})
	if err != nil {
		if !apperr.IsNotFound(err) {
			log.Error().Err(err).Msg("CreateCourse: failed to save")
		}
		return nil, err
	}
	return toCourseResponse(&course), nil
}

func (s *contentService) GetCourse(ctx context.Context, id uint) (*dto.CourseResponse, error) {
	course, err := s.courseRepo.FindByIDWithUnits(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCourseResponse(course), nil
}

func (s *contentService) ListCourses(ctx context.Context, filter repository.CourseFilter) ([]dto.CourseResponse, error) {
	courses, err := s.courseRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		out = append(out, *toCourseResponse(&courses[i]))
	}
	return out, nil
}

func (s *contentService) UpdateCourse(ctx context.Context, id uint, req dto.UpdateCourseRequest) (*dto.CourseResponse, error) {
	var course *model.Course
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		courses := s.courseRepo.WithTx(tx)
		var err error
		if course, err = courses.FindByID(ctx, id); err != nil {
			return err
		}
		prevModule := course.ModuleID
		if req.ModuleID != nil && *req.ModuleID != prevModule {
			if _, err := s.moduleRepo.WithTx(tx).FindByID(ctx, *req.ModuleID); err != nil {
				return err
			}
			course.ModuleID = *req.ModuleID
		}
		setIf(&course.Name, req.Name)
		setIf(&course.Description, req.Description)
		setIf(&course.ImageURL, req.ImageURL)
		setIf(&course.Duration, req.Duration)
		if req.Level != nil {
			course.Level = model.CourseLevel(*req.Level)
		}
		setIf(&course.ShowDuration, req.ShowDuration)
		setIf(&course.ShowLevel, req.ShowLevel)
		if err := courses.Update(ctx, course); err != nil {
			return err
		}
		if course.ModuleID == prevModule {
			return nil
		}
		if err := s.ancestors.refreshModule(ctx, tx, prevModule); err != nil {
			return err
		}
		return s.ancestors.refreshModule(ctx, tx, course.ModuleID)
	})
	if err != nil {
		if !apperr.IsNotFound(err) {
			log.Error().Err(err).Uint("courseID", id).Msg("UpdateCourse: failed to save")
		}
		return nil, err
	}
	return toCourseResponse(course), nil
}

// DeleteCourse keeps the units; only their placements in this course go.
func (s *contentService) DeleteCourse(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		course, err := s.courseRepo.WithTx(tx).FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.courseRepo.WithTx(tx).Delete(ctx, id); err != nil {
			return err
		}
		return s.ancestors.refreshModule(ctx, tx, course.ModuleID)
	})
	if err != nil && !apperr.IsNotFound(err) {
		log.Error().Err(err).Uint("courseID", id).Msg("DeleteCourse: cascade failed")
	}
	return err
}

func (s *contentService) CreateUnit(ctx context.Context, req dto.CreateUnitRequest) (*dto.UnitResponse, error) {
	unit := model.Unit{
		Name:        req.Name,
		Description: req.Description,
		Order:       req.Order,
		Duration:    req.Duration,
		XPPoints:    req.XPPoints,
	}
	if err := s.unitRepo.Create(ctx, &unit); err != nil {
		log.Error().Err(err).Msg("CreateUnit: failed to save")
		return nil, err
	}
	return toUnitResponse(&unit), nil
}

func (s *contentService) GetUnit(ctx context.Context, id uint) (*dto.UnitResponse, error) {
	unit, err := s.unitRepo.FindByIDWithBlocks(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUnitResponse(unit), nil
}

func (s *contentService) ListUnits(ctx context.Context, filter repository.UnitFilter) ([]dto.UnitResponse, error) {
	units, err := s.unitRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UnitResponse, 0, len(units))
	for i := range units {
		out = append(out, *toUnitResponse(&units[i]))
	}
	return out, nil
}

func (s *contentService) UpdateUnit(ctx context.Context, id uint, req dto.UpdateUnitRequest) (*dto.UnitResponse, error) {
	unit, err := s.unitRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	setIf(&unit.Name, req.Name)
	setIf(&unit.Description, req.Description)
	setIf(&unit.Order, req.Order)
	setIf(&unit.Duration, req.Duration)
	setIf(&unit.XPPoints, req.XPPoints)
	if err := s.unitRepo.Update(ctx, unit); err != nil {
		log.Error().Err(err).Uint("unitID", id).Msg("UpdateUnit: failed to save")
		return nil, err
	}
	return toUnitResponse(unit), nil
}

func (s *contentService) DeleteUnit(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		courseIDs, err := s.progressRepo.WithTx(tx).CoursesPlacing(ctx, id)
		if err != nil {
			return err
		}
		if err := s.unitRepo.WithTx(tx).Delete(ctx, id); err != nil {
			return err
		}
		for _, courseID := range courseIDs {
			if err := s.ancestors.refreshCourse(ctx, tx, courseID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil && !apperr.IsNotFound(err) {
		log.Error().Err(err).Uint("unitID", id).Msg("DeleteUnit: cascade failed")
	}
	return err
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
