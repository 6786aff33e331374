package user

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/vxacademy/academy/internal/controller"
	"github.com/vxacademy/academy/internal/dto"
	"github.com/vxacademy/academy/internal/service"
)

// LearningController records learner progress and assessment attempts.
type LearningController struct {
	progress    service.ProgressService
	assessments service.AssessmentService
}

func NewLearningController(progress service.ProgressService, assessments service.AssessmentService) *LearningController {
	return &LearningController{progress: progress, assessments: assessments}
}

func (ctrl *LearningController) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/course-units/:id/progress", ctrl.RecordUnitProgress)
	rg.POST("/course-units/:id/complete", ctrl.CompleteCourseUnit)
	rg.POST("/course-units/:id/blocks/:block_id/complete", ctrl.CompleteLearningBlock)
	rg.POST("/courses/:id/complete", ctrl.CompleteCourse)
	rg.GET("/courses/:id/progress", ctrl.GetCourseProgress)
	rg.GET("/users/:id/overview", ctrl.GetLearnerOverview)

	rg.GET("/assessments/:id", ctrl.GetAssessment)
	rg.POST("/assessments/:id/attempts", ctrl.SubmitAssessment)
	rg.GET("/assessments/:id/my-attempts", ctrl.ListMyAttempts)
	rg.GET("/attempts/:id", ctrl.GetAttempt)
}

// RecordUnitProgress godoc
// @Summary (User) Record progress on a unit of a course
// @Description Stores the unit percentage and recomputes the course, module and training area progress of the learner. Enrolls the learner when needed.
// @Tags User - Progress
// @Accept json
// @Produce json
// @Param id path int true "Course unit ID"
// @Param body body dto.RecordProgressRequest true "Learner and percentage"
// @Success 200 {object} dto.Response{data=dto.RollupResponse}
// @Failure 404 {object} dto.Response
// @Failure 422 {object} dto.Response
// @Router /course-units/{id}/progress [post]
func (ctrl *LearningController) RecordUnitProgress(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.RecordProgressRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	resp, err := ctrl.progress.RecordUnitProgress(c.Request.Context(), req.UserID, id, *req.Percentage)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// CompleteCourseUnit godoc
// @Summary (User) Mark a unit of a course as completed
// @Tags User - Progress
// @Accept json
// @Produce json
// @Param id path int true "Course unit ID"
// @Param body body dto.CompleteRequest true "Learner"
// @Success 200 {object} dto.Response{data=dto.RollupResponse}
// @Router /course-units/{id}/complete [post]
func (ctrl *LearningController) CompleteCourseUnit(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.CompleteRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	resp, err := ctrl.progress.CompleteCourseUnit(c.Request.Context(), req.UserID, id)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// CompleteLearningBlock godoc
// @Summary (User) Mark a learning block as done
// @Description The unit percentage becomes the share of its blocks the learner has completed.
// @Tags User - Progress
// @Accept json
// @Produce json
// @Param id path int true "Course unit ID"
// @Param block_id path int true "Learning block ID"
// @Param body body dto.CompleteRequest true "Learner"
// @Success 200 {object} dto.Response{data=dto.RollupResponse}
// @Router /course-units/{id}/blocks/{block_id}/complete [post]
func (ctrl *LearningController) CompleteLearningBlock(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	blockID, ok := controller.ParamID(c, "block_id")
	if !ok {
		return
	}
	var req dto.CompleteRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	resp, err := ctrl.progress.CompleteLearningBlock(c.Request.Context(), req.UserID, id, blockID)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// CompleteCourse godoc
// @Summary (User) Mark every unit of a course as completed
// @Tags User - Progress
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param body body dto.CompleteRequest true "Learner"
// @Success 200 {object} dto.Response{data=dto.RollupResponse}
// @Router /courses/{id}/complete [post]
func (ctrl *LearningController) CompleteCourse(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.CompleteRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	resp, err := ctrl.progress.CompleteCourse(c.Request.Context(), req.UserID, id)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// GetCourseProgress godoc
// @Summary (User) Progress of a learner in a course, unit by unit
// @Tags User - Progress
// @Produce json
// @Param id path int true "Course ID"
// @Param user_id query int true "Learner"
// @Success 200 {object} dto.Response{data=dto.CourseProgressResponse}
// @Router /courses/{id}/progress [get]
func (ctrl *LearningController) GetCourseProgress(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	userID, ok := controller.RequiredQueryID(c, "user_id")
	if !ok {
		return
	}
	resp, err := ctrl.progress.GetCourseProgress(c.Request.Context(), userID, id)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// GetLearnerOverview godoc
// @Summary (User) Dashboard of a learner
// @Description XP and progress rows at training area, module and course level.
// @Tags User - Progress
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.Response{data=dto.LearnerOverviewResponse}
// @Router /users/{id}/overview [get]
func (ctrl *LearningController) GetLearnerOverview(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	resp, err := ctrl.progress.GetLearnerOverview(c.Request.Context(), id)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// GetAssessment godoc
// @Summary (User) Get an assessment to take
// @Description Questions are returned without their correct answers.
// @Tags User - Assessments
// @Produce json
// @Param id path int true "Assessment ID"
// @Success 200 {object} dto.Response{data=dto.AssessmentResponse}
// @Failure 404 {object} dto.Response
// @Router /assessments/{id} [get]
func (ctrl *LearningController) GetAssessment(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	resp, err := ctrl.assessments.GetAssessment(c.Request.Context(), id, false)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// SubmitAssessment godoc
// @Summary (User) Submit an attempt
// @Description Grades the answers, stores the attempt and, on a pass, completes the owning course or course unit. Answers map question IDs to the selected option text.
// @Tags User - Assessments
// @Accept json
// @Produce json
// @Param id path int true "Assessment ID"
// @Param body body dto.SubmitAssessmentRequest true "Answers"
// @Success 201 {object} dto.Response{data=dto.AttemptResponse}
// @Failure 403 {object} dto.Response "No retakes left"
// @Failure 404 {object} dto.Response
// @Failure 422 {object} dto.Response
// @Router /assessments/{id}/attempts [post]
func (ctrl *LearningController) SubmitAssessment(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.SubmitAssessmentRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	log.Info().Uint("assessmentID", id).Uint("userID", req.UserID).Int("answers", len(req.Answers)).Msg("SubmitAssessment: received")
	resp, err := ctrl.assessments.Submit(c.Request.Context(), id, req)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.Created(c, resp)
}

// ListMyAttempts godoc
// @Summary (User) Attempts of a learner on an assessment
// @Tags User - Assessments
// @Produce json
// @Param id path int true "Assessment ID"
// @Param user_id query int true "Learner"
// @Success 200 {object} dto.Response{data=[]dto.AttemptResponse}
// @Router /assessments/{id}/my-attempts [get]
func (ctrl *LearningController) ListMyAttempts(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	userID, ok := controller.RequiredQueryID(c, "user_id")
	if !ok {
		return
	}
	resp, err := ctrl.assessments.ListAttempts(c.Request.Context(), id, &userID)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// GetAttempt godoc
// @Summary (User) Get one attempt
// @Tags User - Assessments
// @Produce json
// @Param id path int true "Attempt ID"
// @Success 200 {object} dto.Response{data=dto.AttemptResponse}
// @Router /attempts/{id} [get]
func (ctrl *LearningController) GetAttempt(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	resp, err := ctrl.assessments.GetAttempt(c.Request.Context(), id)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}
