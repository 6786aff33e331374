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

// Course unit and learning block orders are kept as 1..n within their parent.
// Attaching or detaching a unit changes what a course averages over, so both
// refresh the course's stored progress.

func (s *contentService) AttachUnit(ctx context.Context, courseID uint, req dto.AttachUnitRequest) ([]dto.CourseUnitResponse, error) {
	var out []dto.CourseUnitResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		courses := s.courseRepo.WithTx(tx)
		if _, err := courses.FindByID(ctx, courseID); err != nil {
			return err
		}
		if _, err := s.unitRepo.WithTx(tx).FindByID(ctx, req.UnitID); err != nil {
			return err
		}
		exists, err := courses.ExistsCourseUnit(ctx, courseID, req.UnitID)
		if err != nil {
			return err
		}
		if exists {
			return apperr.Conflict("course unit", "unit_id", "")
		}
		current, err := courses.FindCourseUnits(ctx, courseID)
		if err != nil {
			return err
		}
		if _, err := insertAt(courseUnitIDs(current), 0, req.Order); err != nil {
			return err
		}

		cu := model.CourseUnit{CourseID: courseID, UnitID: req.UnitID, Order: len(current) + 1}
		if err := courses.CreateCourseUnit(ctx, &cu); err != nil {
			return err
		}
		ids, _ := insertAt(courseUnitIDs(current), cu.ID, req.Order)
		if err := courses.SetCourseUnitOrder(ctx, ids); err != nil {
			return err
		}
		if err := s.ancestors.refreshCourse(ctx, tx, courseID); err != nil {
			return err
		}
		out, err = s.courseUnitList(ctx, courses, courseID)
		return err
	})
	if err != nil && !apperr.IsNotFound(err) && !apperr.IsConflict(err) && !apperr.IsValidation(err) {
		log.Error().Err(err).Uint("courseID", courseID).Uint("unitID", req.UnitID).Msg("AttachUnit: transaction failed")
	}
	return out, err
}

func (s *contentService) DetachUnit(ctx context.Context, courseUnitID uint) ([]dto.CourseUnitResponse, error) {
	var out []dto.CourseUnitResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		courses := s.courseRepo.WithTx(tx)
		cu, err := courses.FindCourseUnit(ctx, courseUnitID)
		if err != nil {
			return err
		}
		if err := courses.DeleteCourseUnit(ctx, cu.ID); err != nil {
			return err
		}
		rest, err := courses.FindCourseUnits(ctx, cu.CourseID)
		if err != nil {
			return err
		}
		if err := courses.SetCourseUnitOrder(ctx, courseUnitIDs(rest)); err != nil {
			return err
		}
		if err := s.ancestors.refreshCourse(ctx, tx, cu.CourseID); err != nil {
			return err
		}
		out, err = s.courseUnitList(ctx, courses, cu.CourseID)
		return err
	})
	return out, err
}

func (s *contentService) ReorderCourseUnit(ctx context.Context, courseUnitID uint, order int) ([]dto.CourseUnitResponse, error) {
	var out []dto.CourseUnitResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		courses := s.courseRepo.WithTx(tx)
		cu, err := courses.FindCourseUnit(ctx, courseUnitID)
		if err != nil {
			return err
		}
		current, err := courses.FindCourseUnits(ctx, cu.CourseID)
		if err != nil {
			return err
		}
		ids, err := moveTo(courseUnitIDs(current), cu.ID, order)
		if err != nil {
			return err
		}
		if err := courses.SetCourseUnitOrder(ctx, ids); err != nil {
			return err
		}
		out, err = s.courseUnitList(ctx, courses, cu.CourseID)
		return err
	})
	return out, err
}

func (s *contentService) courseUnitList(ctx context.Context, courses repository.CourseRepository, courseID uint) ([]dto.CourseUnitResponse, error) {
	cus, err := courses.FindCourseUnits(ctx, courseID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CourseUnitResponse, 0, len(cus))
	for i := range cus {
		out = append(out, toCourseUnitResponse(&cus[i]))
	}
	return out, nil
}

func courseUnitIDs(cus []model.CourseUnit) []uint {
	ids := make([]uint, 0, len(cus))
	for _, cu := range cus {
		ids = append(ids, cu.ID)
	}
	return ids
}

func (s *contentService) CreateLearningBlock(ctx context.Context, unitID uint, req dto.CreateLearningBlockRequest) ([]dto.LearningBlockResponse, error) {
	var out []dto.LearningBlockResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		units := s.unitRepo.WithTx(tx)
		if _, err := units.FindByID(ctx, unitID); err != nil {
			return err
		}
		current, err := units.FindBlocks(ctx, unitID)
		if err != nil {
			return err
		}
		if _, err := insertAt(blockIDs(current), 0, req.Order); err != nil {
			return err
		}
		block := model.LearningBlock{
			UnitID:   unitID,
			Type:     model.BlockType(req.Type),
			Title:    req.Title,
			Content:  req.Content,
			MediaURL: req.MediaURL,
			Order:    len(current) + 1,
			XPPoints: req.XPPoints,
		}
		if err := units.CreateBlock(ctx, &block); err != nil {
			return err
		}
		ids, _ := insertAt(blockIDs(current), block.ID, req.Order)
		if err := units.SetBlockOrder(ctx, ids); err != nil {
			return err
		}
		out, err = blockList(ctx, units, unitID)
		return err
	})
	return out, err
}

func (s *contentService) UpdateLearningBlock(ctx context.Context, id uint, req dto.UpdateLearningBlockRequest) (*dto.LearningBlockResponse, error) {
	block, err := s.unitRepo.FindBlock(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Type != nil {
		block.Type = model.BlockType(*req.Type)
	}
	setIf(&block.Title, req.Title)
	setIf(&block.Content, req.Content)
	setIf(&block.MediaURL, req.MediaURL)
	setIf(&block.XPPoints, req.XPPoints)
	if err := s.unitRepo.UpdateBlock(ctx, block); err != nil {
		log.Error().Err(err).Uint("blockID", id).Msg("UpdateLearningBlock: failed to save")
		return nil, err
	}
	resp := toBlockResponse(block)
	return &resp, nil
}

func (s *contentService) DeleteLearningBlock(ctx context.Context, id uint) ([]dto.LearningBlockResponse, error) {
	var out []dto.LearningBlockResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		units := s.unitRepo.WithTx(tx)
		block, err := units.FindBlock(ctx, id)
		if err != nil {
			return err
		}
		if err := units.DeleteBlock(ctx, id); err != nil {
			return err
		}
		rest, err := units.FindBlocks(ctx, block.UnitID)
		if err != nil {
			return err
		}
		if err := units.SetBlockOrder(ctx, blockIDs(rest)); err != nil {
			return err
		}
		out, err = blockList(ctx, units, block.UnitID)
		return err
	})
	return out, err
}

func (s *contentService) ReorderLearningBlock(ctx context.Context, id uint, order int) ([]dto.LearningBlockResponse, error) {
	var out []dto.LearningBlockResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		units := s.unitRepo.WithTx(tx)
		block, err := units.FindBlock(ctx, id)
		if err != nil {
			return err
		}
		current, err := units.FindBlocks(ctx, block.UnitID)
		if err != nil {
			return err
		}
		ids, err := moveTo(blockIDs(current), block.ID, order)
		if err != nil {
			return err
		}
		if err := units.SetBlockOrder(ctx, ids); err != nil {
			return err
		}
		out, err = blockList(ctx, units, block.UnitID)
		return err
	})
	return out, err
}

func blockList(ctx context.Context, units repository.UnitRepository, unitID uint) ([]dto.LearningBlockResponse, error) {
	blocks, err := units.FindBlocks(ctx, unitID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LearningBlockResponse, 0, len(blocks))
	for i := range blocks {
		out = append(out, toBlockResponse(&blocks[i]))
	}
	return out, nil
}

func blockIDs(blocks []model.LearningBlock) []uint {
	ids := make([]uint, 0, len(blocks))
	for _, b := range blocks {
		ids = append(ids, b.ID)
	}
	return ids
}
