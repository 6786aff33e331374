package dto

type CreateTrainingAreaRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url" binding:"omitempty,url"`
}

type UpdateTrainingAreaRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url" binding:"omitempty,url"`
}

type CreateModuleRequest struct {
	TrainingAreaID uint   `json:"training_area_id" binding:"required"`
	Name           string `json:"name" binding:"required,max=255"`
	Description    string `json:"description"`
	ImageURL       string `json:"image_url" binding:"omitempty,url"`
}

type UpdateModuleRequest struct {
	TrainingAreaID *uint   `json:"training_area_id"`
	Name           *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description    *string `json:"description"`
	ImageURL       *string `json:"image_url" binding:"omitempty,url"`
}

type CreateCourseRequest struct {
	ModuleID     uint   `json:"module_id" binding:"required"`
	Name         string `json:"name" binding:"required,max=255"`
	Description  string `json:"description"`
	ImageURL     string `json:"image_url" binding:"omitempty,url"`
	Duration     int    `json:"duration" binding:"min=0"`
	Level        string `json:"level" binding:"omitempty,oneof=beginner intermediate advanced"`
	ShowDuration *bool  `json:"show_duration"`
	ShowLevel    *bool  `json:"show_level"`
}

type UpdateCourseRequest struct {
	ModuleID     *uint   `json:"module_id"`
	Name         *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description  *string `json:"description"`
	ImageURL     *string `json:"image_url" binding:"omitempty,url"`
	Duration     *int    `json:"duration" binding:"omitempty,min=0"`
	Level        *string `json:"level" binding:"omitempty,oneof=beginner intermediate advanced"`
	ShowDuration *bool   `json:"show_duration"`
	ShowLevel    *bool   `json:"show_level"`
}

type CreateUnitRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
	Order       int    `json:"order" binding:"min=0"`
	Duration    int    `json:"duration" binding:"min=0"`
	XPPoints    int    `json:"xp_points" binding:"min=0"`
}

type UpdateUnitRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	Order       *int    `json:"order" binding:"omitempty,min=0"`
	Duration    *int    `json:"duration" binding:"omitempty,min=0"`
	XPPoints    *int    `json:"xp_points" binding:"omitempty,min=0"`
}

// AttachUnitRequest places a unit in a course. Order 0 appends.
type AttachUnitRequest struct {
	UnitID uint `json:"unit_id" binding:"required"`
	Order  int  `json:"order" binding:"min=0"`
}

type ReorderRequest struct {
	Order int `json:"order" binding:"required,min=1"`
}

type CreateLearningBlockRequest struct {
	Type     string `json:"type" binding:"required,oneof=video text image interactive"`
	Title    string `json:"title" binding:"max=255"`
	Content  string `json:"content"`
	MediaURL string `json:"media_url" binding:"omitempty,url"`
	Order    int    `json:"order" binding:"min=0"`
	XPPoints int    `json:"xp_points" binding:"min=0"`
}

type UpdateLearningBlockRequest struct {
	Type     *string `json:"type" binding:"omitempty,oneof=video text image interactive"`
	Title    *string `json:"title" binding:"omitempty,max=255"`
	Content  *string `json:"content"`
	MediaURL *string `json:"media_url" binding:"omitempty,url"`
	XPPoints *int    `json:"xp_points" binding:"omitempty,min=0"`
}
