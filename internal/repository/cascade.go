package repository

import (
	"github.com/vxacademy/academy/internal/model"
	"gorm.io/gorm"
)

// The helpers below remove a subtree explicitly so the outcome does not depend
// on the database enforcing ON DELETE CASCADE. They must run inside a transaction.

func deleteTrainingAreas(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	moduleIDs, err := pluckIDs(tx, &model.Module{}, "training_area_id IN ?", ids)
	if err != nil {
		return err
	}
	if err := deleteModules(tx, moduleIDs); err != nil {
		return err
	}
	if err := deleteOwnedAssessments(tx, model.OwnerTrainingArea, ids); err != nil {
		return err
	}
	if err := tx.Where("training_area_id IN ?", ids).Delete(&model.UserTrainingAreaProgress{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&model.TrainingArea{}).Error
}

func deleteModules(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	courseIDs, err := pluckIDs(tx, &model.Course{}, "module_id IN ?", ids)
	if err != nil {
		return err
	}
	if err := deleteCourses(tx, courseIDs); err != nil {
		return err
	}
	if err := deleteOwnedAssessments(tx, model.OwnerModule, ids); err != nil {
		return err
	}
	if err := tx.Where("module_id IN ?", ids).Delete(&model.UserModuleProgress{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&model.Module{}).Error
}

func deleteCourses(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	courseUnitIDs, err := pluckIDs(tx, &model.CourseUnit{}, "course_id IN ?", ids)
	if err != nil {
		return err
	}
	if err := deleteCourseUnits(tx, courseUnitIDs); err != nil {
		return err
	}
	if err := deleteOwnedAssessments(tx, model.OwnerCourse, ids); err != nil {
		return err
	}
	for _, m := range []interface{}{&model.Certificate{}, &model.CourseEnrollment{}, &model.UserCourseProgress{}} {
		if err := tx.Where("course_id IN ?", ids).Delete(m).Error; err != nil {
			return err
		}
	}
	return tx.Where("id IN ?", ids).Delete(&model.Course{}).Error
}

func deleteCourseUnits(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	for _, m := range []interface{}{&model.LearningBlockCompletion{}, &model.UserCourseUnitProgress{}} {
		if err := tx.Where("course_unit_id IN ?", ids).Delete(m).Error; err != nil {
			return err
		}
	}
	return tx.Where("id IN ?", ids).Delete(&model.CourseUnit{}).Error
}

func deleteOwnedAssessments(tx *gorm.DB, kind model.OwnerKind, ownerIDs []uint) error {
	if len(ownerIDs) == 0 {
		return nil
	}
	ids, err := pluckIDs(tx, &model.Assessment{}, "owner_type = ? AND owner_id IN ?", kind, ownerIDs)
	if err != nil {
		return err
	}
	return deleteAssessments(tx, ids)
}

func deleteAssessments(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	for _, m := range []interface{}{&model.AssessmentAttempt{}, &model.Question{}} {
		if err := tx.Where("assessment_id IN ?", ids).Delete(m).Error; err != nil {
			return err
		}
	}
	return tx.Where("id IN ?", ids).Delete(&model.Assessment{}).Error
}

// renumber rewrites sort_order as 1..n following the order of ids.
func renumber(tx *gorm.DB, m interface{}, ids []uint) error {
	for i, id := range ids {
		if err := tx.Model(m).Where("id = ?", id).UpdateColumn("sort_order", i+1).Error; err != nil {
			return err
		}
	}
	return nil
}
