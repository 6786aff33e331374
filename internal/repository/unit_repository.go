package repository

import (
	"context"

	"github.com/vxacademy/academy/internal/apperr"
	"github.com/vxacademy/academy/internal/model"
	"gorm.io/gorm"
)

// UnitFilter narrows units to those placed in a course below the most
// specific level set. A unit placed in several courses matches through any of them.
type UnitFilter struct {
	TrainingAreaID *uint
	ModuleID       *uint
	CourseID       *uint
	Search         string
}

type UnitRepository interface {
	WithTx(tx *gorm.DB) UnitRepository
	Create(ctx context.Context, unit *model.Unit) error
	FindByID(ctx context.Context, id uint) (*model.Unit, error)
	FindByIDWithBlocks(ctx context.Context, id uint) (*model.Unit, error)
	FindAll(ctx context.Context, filter UnitFilter) ([]model.Unit, error)
	// MissingIDs returns the ids that do not name an existing unit.
	MissingIDs(ctx context.Context, ids []uint) ([]uint, error)
	Update(ctx context.Context, unit *model.Unit) error
	// Delete removes the unit, its blocks and every course placement of it.
	// Courses that lose a placement are renumbered.
	Delete(ctx context.Context, id uint) error

	CreateBlock(ctx context.Context, block *model.LearningBlock) error
	FindBlock(ctx context.Context, id uint) (*model.LearningBlock, error)
	FindBlocks(ctx context.Context, unitID uint) ([]model.LearningBlock, error)
	CountBlocks(ctx context.Context, unitID uint) (int64, error)
	UpdateBlock(ctx context.Context, block *model.LearningBlock) error
	DeleteBlock(ctx context.Context, id uint) error
	SetBlockOrder(ctx context.Context, ids []uint) error
}

type unitRepository struct {
	db    *gorm.DB
	store store[model.Unit]
}

func NewUnitRepository(db *gorm.DB) UnitRepository {
	return &unitRepository{db: db, store: newStore[model.Unit](db, "unit")}
}

func (r *unitRepository) WithTx(tx *gorm.DB) UnitRepository {
	return NewUnitRepository(tx)
}

func (r *unitRepository) Create(ctx context.Context, unit *model.Unit) error {
	return r.store.create(ctx, unit)
}

func (r *unitRepository) FindByID(ctx context.Context, id uint) (*model.Unit, error) {
	return r.store.findByID(ctx, id)
}

func (r *unitRepository) FindByIDWithBlocks(ctx context.Context, id uint) (*model.Unit, error) {
	var unit model.Unit
	err := r.db.WithContext(ctx).Preload("LearningBlocks", func(db *gorm.DB) *gorm.DB {
		return db.Order("learning_blocks.sort_order ASC")
	}).First(&unit, id).Error
	if err != nil {
		return nil, apperr.FromDB(err, "unit", id, "failed to load unit")
	}
	return &unit, nil
}

func (r *unitRepository) FindAll(ctx context.Context, filter UnitFilter) ([]model.Unit, error) {
	placed := func(db *gorm.DB) *gorm.DB {
		var courses interface{}
		switch {
		case filter.CourseID != nil:
			courses = []uint{*filter.CourseID}
		case filter.ModuleID != nil:
			courses = r.db.Model(&model.Course{}).Select("id").Where("module_id = ?", *filter.ModuleID)
		case filter.TrainingAreaID != nil:
			modules := r.db.Model(&model.Module{}).Select("id").Where("training_area_id = ?", *filter.TrainingAreaID)
			courses = r.db.Model(&model.Course{}).Select("id").Where("module_id IN (?)", modules)
		default:
			return db
		}
		return db.Where("id IN (?)", r.db.Model(&model.CourseUnit{}).Select("unit_id").Where("course_id IN (?)", courses))
	}
	return r.store.findAll(ctx, placed, nameLike("name", filter.Search))
}

func (r *unitRepository) MissingIDs(ctx context.Context, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	found, err := pluckIDs(r.db.WithContext(ctx), &model.Unit{}, "id IN ?", ids)
	if err != nil {
		return nil, apperr.FromDB(err, "unit", 0, "failed to look up units")
	}
	seen := make(map[uint]bool, len(found))
	for _, id := range found {
		seen[id] = true
	}
	var missing []uint
	for _, id := range ids {
		if !seen[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (r *unitRepository) Update(ctx context.Context, unit *model.Unit) error {
	return r.store.update(ctx, unit)
}

func (r *unitRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := NewUnitRepository(tx).FindByID(ctx, id); err != nil {
			return err
		}
		err := func() error {
			var placements []model.CourseUnit
			if err := tx.Where("unit_id = ?", id).Find(&placements).Error; err != nil {
				return err
			}
			ids := make([]uint, 0, len(placements))
			for _, cu := range placements {
				ids = append(ids, cu.ID)
			}
			if err := deleteCourseUnits(tx, ids); err != nil {
				return err
			}
			for _, cu := range placements {
				remaining, err := pluckOrdered(tx, &model.CourseUnit{}, "course_id = ?", cu.CourseID)
				if err != nil {
					return err
				}
				if err := renumber(tx, &model.CourseUnit{}, remaining); err != nil {
					return err
				}
			}
			if err := deleteOwnedAssessments(tx, model.OwnerUnit, []uint{id}); err != nil {
				return err
			}
			blockIDs, err := pluckIDs(tx, &model.LearningBlock{}, "unit_id = ?", id)
			if err != nil {
				return err
			}
			if err := tx.Where("learning_block_id IN ?", blockIDs).Delete(&model.LearningBlockCompletion{}).Error; err != nil {
				return err
			}
			if err := tx.Where("unit_id = ?", id).Delete(&model.LearningBlock{}).Error; err != nil {
				return err
			}
			if err := tx.Where("unit_id = ?", id).Delete(&model.AssignmentUnit{}).Error; err != nil {
				return err
			}
			return tx.Delete(&model.Unit{}, id).Error
		}()
		return apperr.FromDB(err, "unit", id, "failed to delete unit")
	})
}

func (r *unitRepository) CreateBlock(ctx context.Context, block *model.LearningBlock) error {
	return apperr.FromDB(r.db.WithContext(ctx).Create(block).Error, "learning block", 0, "failed to create learning block")
}

func (r *unitRepository) FindBlock(ctx context.Context, id uint) (*model.LearningBlock, error) {
	var block model.LearningBlock
	if err := r.db.WithContext(ctx).First(&block, id).Error; err != nil {
		return nil, apperr.FromDB(err, "learning block", id, "failed to load learning block")
	}
	return &block, nil
}

func (r *unitRepository) FindBlocks(ctx context.Context, unitID uint) ([]model.LearningBlock, error) {
	var blocks []model.LearningBlock
	err := r.db.WithContext(ctx).Where("unit_id = ?", unitID).Order("sort_order ASC").Order("id ASC").Find(&blocks).Error
	if err != nil {
		return nil, apperr.FromDB(err, "learning block", 0, "failed to list learning blocks")
	}
	return blocks, nil
}

func (r *unitRepository) CountBlocks(ctx context.Context, unitID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.LearningBlock{}).Where("unit_id = ?", unitID).Count(&n).Error
	return n, apperr.FromDB(err, "learning block", 0, "failed to count learning blocks")
}

func (r *unitRepository) UpdateBlock(ctx context.Context, block *model.LearningBlock) error {
	return apperr.FromDB(r.db.WithContext(ctx).Save(block).Error, "learning block", block.ID, "failed to update learning block")
}

func (r *unitRepository) DeleteBlock(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("learning_block_id = ?", id).Delete(&model.LearningBlockCompletion{}).Error; err != nil {
			return apperr.FromDB(err, "learning block", id, "failed to delete block completions")
		}
		res := tx.Delete(&model.LearningBlock{}, id)
		if res.Error != nil {
			return apperr.FromDB(res.Error, "learning block", id, "failed to delete learning block")
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("learning block", id)
		}
		return nil
	})
}

func (r *unitRepository) SetBlockOrder(ctx context.Context, ids []uint) error {
	err := renumber(r.db.WithContext(ctx), &model.LearningBlock{}, ids)
	return apperr.FromDB(err, "learning block", 0, "failed to reorder learning blocks")
}
