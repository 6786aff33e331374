package admin

import (
	"github.com/gin-gonic/gin"
	"github.com/vxacademy/academy/internal/apperr"
	"github.com/vxacademy/academy/internal/controller"
	"github.com/vxacademy/academy/internal/dto"
	"github.com/vxacademy/academy/internal/model"
	"github.com/vxacademy/academy/internal/service"
	"github.com/vxacademy/academy/internal/tableview"
)

type AssessmentController struct {
	assessments service.AssessmentService
}

func NewAssessmentController(assessments service.AssessmentService) *AssessmentController {
	return &AssessmentController{assessments: assessments}
}

func (ctrl *AssessmentController) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/assessments")
	g.POST("", ctrl.CreateAssessment)
	g.GET("", ctrl.ListAssessments)
	g.GET("/:id", ctrl.GetAssessment)
	g.PUT("/:id", ctrl.UpdateAssessment)
	g.DELETE("/:id", ctrl.DeleteAssessment)
	g.POST("/:id/questions", ctrl.CreateQuestion)
	g.GET("/:id/attempts", ctrl.ListAttempts)

	rg.PUT("/questions/:id", ctrl.UpdateQuestion)
	rg.DELETE("/questions/:id", ctrl.DeleteQuestion)
	rg.GET("/attempts/:id", ctrl.GetAttempt)
}

// CreateAssessment godoc
// @Summary (Admin) Create an assessment
// @Description Attaches an assessment to exactly one training area, module, course or unit. Questions may be sent inline.
// @Tags Admin - Assessments
// @Accept json
// @Produce json
// @Param body body dto.CreateAssessmentRequest true "Assessment"
// @Success 201 {object} dto.Response{data=dto.AssessmentResponse}
// @Failure 404 {object} dto.Response "Owner not found"
// @Failure 422 {object} dto.Response
// @Router /admin/assessments [post]
func (ctrl *AssessmentController) CreateAssessment(c *gin.Context) {
	var req dto.CreateAssessmentRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	resp, err := ctrl.assessments.CreateAssessment(c.Request.Context(), req)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.Created(c, resp)
}

// ListAssessments godoc
// @Summary (Admin) List assessments
// @Tags Admin - Assessments
// @Produce json
// @Param owner_type query string false "Owner kind" Enums(training_area, module, course, unit)
// @Param owner_id query int false "Owner ID, required with owner_type"
// @Param search query string false "Search on title and description"
// @Param sort query string false "Sortable column" Enums(title, owner_type)
// @Param dir query string false "Sort direction" Enums(asc, desc)
// @Success 200 {object} dto.Response{data=[]dto.AssessmentResponse}
// @Router /admin/assessments [get]
func (ctrl *AssessmentController) ListAssessments(c *gin.Context) {
	q, ok := controller.TableQuery(c, tableview.Assessments)
	if !ok {
		return
	}
	var owner *model.AssessmentOwner
	if kind := model.OwnerKind(c.Query("owner_type")); kind != "" {
		if !kind.Valid() {
			controller.BadRequest(c, "unknown owner type", apperr.FieldError{Field: "owner_type", Error: "must be one of training_area module course unit"})
			return
		}
		id, ok := controller.RequiredQueryID(c, "owner_id")
		if !ok {
			return
		}
		owner = &model.AssessmentOwner{Kind: kind, ID: id}
	}
	list, err := ctrl.assessments.ListAssessments(c.Request.Context(), owner)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, tableview.ApplyTo(tableview.Assessments, list, q, func(a dto.AssessmentResponse) tableview.Row {
		return tableview.Row{
			"id": a.ID, "title": a.Title, "description": a.Description,
			"owner_type": a.Owner.Type, "passing_score": a.PassingScore,
		}
	}))
}

// GetAssessment godoc
// @Summary (Admin) Get an assessment with its questions and correct answers
// @Tags Admin - Assessments
// @Produce json
// @Param id path int true "Assessment ID"
// @Success 200 {object} dto.Response{data=dto.AssessmentResponse}
// @Failure 404 {object} dto.Response
// @Router /admin/assessments/{id} [get]
func (ctrl *AssessmentController) GetAssessment(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	resp, err := ctrl.assessments.GetAssessment(c.Request.Context(), id, true)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// UpdateAssessment godoc
// @Summary (Admin) Update an assessment
// @Tags Admin - Assessments
// @Accept json
// @Produce json
// @Param id path int true "Assessment ID"
// @Param body body dto.UpdateAssessmentRequest true "Fields to change"
// @Success 200 {object} dto.Response{data=dto.AssessmentResponse}
// @Router /admin/assessments/{id} [put]
func (ctrl *AssessmentController) UpdateAssessment(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateAssessmentRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	resp, err := ctrl.assessments.UpdateAssessment(c.Request.Context(), id, req)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// DeleteAssessment godoc
// @Summary (Admin) Delete an assessment, its questions and attempts
// @Tags Admin - Assessments
// @Param id path int true "Assessment ID"
// @Success 200 {object} dto.Response
// @Router /admin/assessments/{id} [delete]
func (ctrl *AssessmentController) DeleteAssessment(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.assessments.DeleteAssessment(c.Request.Context(), id); err != nil {
		controller.Fail(c, err)
		return
	}
	controller.Message(c, "assessment deleted")
}

// CreateQuestion godoc
// @Summary (Admin) Add a question to an assessment
// @Description True/false questions default to the options True and False. The correct answer must be one of the options.
// @Tags Admin - Assessments
// @Accept json
// @Produce json
// @Param id path int true "Assessment ID"
// @Param body body dto.CreateQuestionRequest true "Question"
// @Success 201 {object} dto.Response{data=dto.QuestionResponse}
// @Failure 422 {object} dto.Response
// @Router /admin/assessments/{id}/questions [post]
func (ctrl *AssessmentController) CreateQuestion(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateQuestionRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	resp, err := ctrl.assessments.CreateQuestion(c.Request.Context(), id, req)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.Created(c, resp)
}

// UpdateQuestion godoc
// @Summary (Admin) Update a question
// @Tags Admin - Assessments
// @Accept json
// @Produce json
// @Param id path int true "Question ID"
// @Param body body dto.UpdateQuestionRequest true "Fields to change"
// @Success 200 {object} dto.Response{data=dto.QuestionResponse}
// @Router /admin/questions/{id} [put]
func (ctrl *AssessmentController) UpdateQuestion(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateQuestionRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	resp, err := ctrl.assessments.UpdateQuestion(c.Request.Context(), id, req)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// DeleteQuestion godoc
// @Summary (Admin) Delete a question
// @Tags Admin - Assessments
// @Param id path int true "Question ID"
// @Success 200 {object} dto.Response
// @Router /admin/questions/{id} [delete]
func (ctrl *AssessmentController) DeleteQuestion(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.assessments.DeleteQuestion(c.Request.Context(), id); err != nil {
		controller.Fail(c, err)
		return
	}
	controller.Message(c, "question deleted")
}

// ListAttempts godoc
// @Summary (Admin) List the attempts of an assessment
// @Tags Admin - Assessments
// @Produce json
// @Param id path int true "Assessment ID"
// @Param user_id query int false "Only attempts of this learner"
// @Success 200 {object} dto.Response{data=[]dto.AttemptResponse}
// @Router /admin/assessments/{id}/attempts [get]
func (ctrl *AssessmentController) ListAttempts(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	userID, ok := controller.QueryID(c, "user_id")
	if !ok {
		return
	}
	resp, err := ctrl.assessments.ListAttempts(c.Request.Context(), id, userID)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// GetAttempt godoc
// @Summary (Admin) Get one attempt
// @Tags Admin - Assessments
// @Produce json
// @Param id path int true "Attempt ID"
// @Success 200 {object} dto.Response{data=dto.AttemptResponse}
// @Router /admin/attempts/{id} [get]
func (ctrl *AssessmentController) GetAttempt(c *gin.Context) {
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
