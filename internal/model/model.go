// Package model holds the gorm entities of the academy schema.
package model

// All lists every entity in migration order.
func All() []interface{} {
	return []interface{}{
		&Asset{}, &SubAsset{}, &Organization{}, &SubOrganization{},
		&RoleCategory{}, &Role{}, &SeniorityLevel{},
		&User{}, &SubAdminDetail{}, &NormalUserDetail{},
		&TrainingArea{}, &Module{}, &Course{}, &Unit{}, &CourseUnit{}, &LearningBlock{},
		&Assessment{}, &Question{}, &AssessmentAttempt{},
		&UnitRoleAssignment{}, &AssignmentUnit{},
		&CourseEnrollment{},
		&UserCourseUnitProgress{}, &UserCourseProgress{}, &UserModuleProgress{}, &UserTrainingAreaProgress{},
		&LearningBlockCompletion{},
		&Certificate{}, &Badge{}, &UserBadge{}, &Notification{},
	}
}
