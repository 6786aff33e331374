package admin

import (
	"github.com/gin-gonic/gin"
	"github.com/vxacademy/academy/internal/controller"
	"github.com/vxacademy/academy/internal/dto"
	"github.com/vxacademy/academy/internal/repository"
	"github.com/vxacademy/academy/internal/service"
	"github.com/vxacademy/academy/internal/tableview"
)

type ContentController struct {
	content service.ContentService
}

func NewContentController(content service.ContentService) *ContentController {
	return &ContentController{content: content}
}

func (ctrl *ContentController) RegisterRoutes(rg *gin.RouterGroup) {
	areas := rg.Group("/training-areas")
	areas.POST("", ctrl.CreateTrainingArea)
	areas.GET("", ctrl.ListTrainingAreas)
	areas.GET("/:id", ctrl.GetTrainingArea)
	areas.PUT("/:id", ctrl.UpdateTrainingArea)
	areas.DELETE("/:id", ctrl.DeleteTrainingArea)

	modules := rg.Group("/modules")
	modules.POST("", ctrl.CreateModule)
	modules.GET("", ctrl.ListModules)
	modules.GET("/:id", ctrl.GetModule)
	modules.PUT("/:id", ctrl.UpdateModule)
	modules.DELETE("/:id", ctrl.DeleteModule)

	courses := rg.Group("/courses")
	courses.POST("", ctrl.CreateCourse)
	courses.GET("", ctrl.ListCourses)
	courses.GET("/:id", ctrl.GetCourse)
	courses.PUT("/:id", ctrl.UpdateCourse)
	courses.DELETE("/:id", ctrl.DeleteCourse)
	courses.POST("/:id/units", ctrl.AttachUnit)

	rg.PUT("/course-units/:id/order", ctrl.ReorderCourseUnit)
	rg.DELETE("/course-units/:id", ctrl.DetachUnit)

	units := rg.Group("/units")
	units.POST("", ctrl.CreateUnit)
	units.GET("", ctrl.ListUnits)
	units.GET("/:id", ctrl.GetUnit)
	units.PUT("/:id", ctrl.UpdateUnit)
	units.DELETE("/:id", ctrl.DeleteUnit)
	units.POST("/:id/blocks", ctrl.CreateLearningBlock)

	blocks := rg.Group("/learning-blocks")
	blocks.PUT("/:id", ctrl.UpdateLearningBlock)
	blocks.PUT("/:id/order", ctrl.ReorderLearningBlock)
	blocks.DELETE("/:id", ctrl.DeleteLearningBlock)
}

// CreateTrainingArea godoc
// @Summary (Admin) Create a training area
// @Tags Admin - Content
// @Accept json
// @Produce json
// @Param body body dto.CreateTrainingAreaRequest true "Training area"
// @Success 201 {object} dto.Response{data=dto.TrainingAreaResponse}
// @Failure 422 {object} dto.Response
// @Router /admin/training-areas [post]
func (ctrl *ContentController) CreateTrainingArea(c *gin.Context) {
	var req dto.CreateTrainingAreaRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	resp, err := ctrl.content.CreateTrainingArea(c.Request.Context(), req)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.Created(c, resp)
}

// ListTrainingAreas godoc
// @Summary (Admin) List training areas
// @Tags Admin - Content
// @Produce json
// @Param search query string false "Case-insensitive search on name and description"
// @Param sort query string false "Sortable column" Enums(name)
// @Param dir query string false "Sort direction" Enums(asc, desc)
// @Param training_area_id query int false "Training area filter"
// @Success 200 {object} dto.Response{data=[]dto.TrainingAreaResponse}
// @Router /admin/training-areas [get]
func (ctrl *ContentController) ListTrainingAreas(c *gin.Context) {
	q, ok := controller.TableQuery(c, tableview.TrainingAreas)
	if !ok {
		return
	}
	areas, err := ctrl.content.ListTrainingAreas(c.Request.Context(), "")
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, tableview.ApplyTo(tableview.TrainingAreas, areas, q, func(a dto.TrainingAreaResponse) tableview.Row {
		return tableview.Row{"id": a.ID, "name": a.Name, "description": a.Description, "created_at": a.CreatedAt}
	}))
}

// GetTrainingArea godoc
// @Summary (Admin) Get a training area with its modules
// @Tags Admin - Content
// @Produce json
// @Param id path int true "Training area ID"
// @Success 200 {object} dto.Response{data=dto.TrainingAreaResponse}
// @Failure 404 {object} dto.Response
// @Router /admin/training-areas/{id} [get]
func (ctrl *ContentController) GetTrainingArea(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	resp, err := ctrl.content.GetTrainingArea(c.Request.Context(), id)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// UpdateTrainingArea godoc
// @Summary (Admin) Update a training area
// @Tags Admin - Content
// @Accept json
// @Produce json
// @Param id path int true "Training area ID"
// @Param body body dto.UpdateTrainingAreaRequest true "Fields to change"
// @Success 200 {object} dto.Response{data=dto.TrainingAreaResponse}
// @Router /admin/training-areas/{id} [put]
func (ctrl *ContentController) UpdateTrainingArea(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTrainingAreaRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	resp, err := ctrl.content.UpdateTrainingArea(c.Request.Context(), id, req)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// DeleteTrainingArea godoc
// @Summary (Admin) Delete a training area and everything below it
// @Tags Admin - Content
// @Produce json
// @Param id path int true "Training area ID"
// @Success 200 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /admin/training-areas/{id} [delete]
func (ctrl *ContentController) DeleteTrainingArea(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.content.DeleteTrainingArea(c.Request.Context(), id); err != nil {
		controller.Fail(c, err)
		return
	}
	controller.Message(c, "training area deleted")
}

// CreateModule godoc
// @Summary (Admin) Create a module in a training area
// @Tags Admin - Content
// @Accept json
// @Produce json
// @Param body body dto.CreateModuleRequest true "Module"
// @Success 201 {object} dto.Response{data=dto.ModuleResponse}
// @Failure 404 {object} dto.Response "Training area not found"
// @Router /admin/modules [post]
func (ctrl *ContentController) CreateModule(c *gin.Context) {
	var req dto.CreateModuleRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	resp, err := ctrl.content.CreateModule(c.Request.Context(), req)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.Created(c, resp)
}

// ListModules godoc
// @Summary (Admin) List modules
// @Tags Admin - Content
// @Produce json
// @Param training_area_id query int false "Training area filter"
// @Param module_id query int false "Module filter"
// @Param search query string false "Search"
// @Param sort query string false "Sortable column" Enums(name)
// @Param dir query string false "Sort direction" Enums(asc, desc)
// @Success 200 {object} dto.Response{data=[]dto.ModuleResponse}
// @Router /admin/modules [get]
func (ctrl *ContentController) ListModules(c *gin.Context) {
	q, ok := controller.TableQuery(c, tableview.Modules)
	if !ok {
		return
	}
	modules, err := ctrl.content.ListModules(c.Request.Context(), repository.ModuleFilter{TrainingAreaID: q.Filter.TrainingAreaID})
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, tableview.ApplyTo(tableview.Modules, modules, q, func(m dto.ModuleResponse) tableview.Row {
		return tableview.Row{"id": m.ID, "name": m.Name, "description": m.Description, "training_area_id": m.TrainingAreaID}
	}))
}

// GetModule godoc
// @Summary (Admin) Get a module with its courses
// @Tags Admin - Content
// @Produce json
// @Param id path int true "Module ID"
// @Success 200 {object} dto.Response{data=dto.ModuleResponse}
// @Router /admin/modules/{id} [get]
func (ctrl *ContentController) GetModule(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	resp, err := ctrl.content.GetModule(c.Request.Context(), id)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// UpdateModule godoc
// @Summary (Admin) Update a module
// @Tags Admin - Content
// @Accept json
// @Produce json
// @Param id path int true "Module ID"
// @Param body body dto.UpdateModuleRequest true "Fields to change"
// @Success 200 {object} dto.Response{data=dto.ModuleResponse}
// @Router /admin/modules/{id} [put]
func (ctrl *ContentController) UpdateModule(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateModuleRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	resp, err := ctrl.content.UpdateModule(c.Request.Context(), id, req)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// DeleteModule godoc
// @Summary (Admin) Delete a module and its courses
// @Tags Admin - Content
// @Param id path int true "Module ID"
// @Success 200 {object} dto.Response
// @Router /admin/modules/{id} [delete]
func (ctrl *ContentController) DeleteModule(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.content.DeleteModule(c.Request.Context(), id); err != nil {
		controller.Fail(c, err)
		return
	}
	controller.Message(c, "module deleted")
}

// CreateCourse godoc
// @Summary (Admin) Create a course in a module
// @Tags Admin - Content
// @Accept json
// @Produce json
// @Param body body dto.CreateCourseRequest true "Course"
// @Success 201 {object} dto.Response{data=dto.CourseResponse}
// @Router /admin/courses [post]
func (ctrl *ContentController) CreateCourse(c *gin.Context) {
	var req dto.CreateCourseRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	resp, err := ctrl.content.CreateCourse(c.Request.Context(), req)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.Created(c, resp)
}

// ListCourses godoc
// @Summary (Admin) List courses
// @Tags Admin - Content
// @Produce json
// @Param training_area_id query int false "Training area filter"
// @Param module_id query int false "Module filter"
// @Param course_id query int false "Course filter"
// @Param search query string false "Search"
// @Param sort query string false "Sortable column" Enums(name)
// @Param dir query string false "Sort direction" Enums(asc, desc)
// @Success 200 {object} dto.Response{data=[]dto.CourseResponse}
// @Router /admin/courses [get]
func (ctrl *ContentController) ListCourses(c *gin.Context) {
	q, ok := controller.TableQuery(c, tableview.Courses)
	if !ok {
		return
	}
	courses, err := ctrl.content.ListCourses(c.Request.Context(), repository.CourseFilter{
		TrainingAreaID: q.Filter.TrainingAreaID,
		ModuleID:       q.Filter.ModuleID,
	})
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, tableview.ApplyTo(tableview.Courses, courses, q, func(co dto.CourseResponse) tableview.Row {
		return tableview.Row{
			"id": co.ID, "name": co.Name, "description": co.Description,
			"module_id": co.ModuleID, "level": co.Level, "duration": co.Duration,
		}
	}))
}

// GetCourse godoc
// @Summary (Admin) Get a course with its ordered units
// @Tags Admin - Content
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.Response{data=dto.CourseResponse}
// @Router /admin/courses/{id} [get]
func (ctrl *ContentController) GetCourse(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	resp, err := ctrl.content.GetCourse(c.Request.Context(), id)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// UpdateCourse godoc
// @Summary (Admin) Update a course
// @Tags Admin - Content
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param body body dto.UpdateCourseRequest true "Fields to change"
// @Success 200 {object} dto.Response{data=dto.CourseResponse}
// @Router /admin/courses/{id} [put]
func (ctrl *ContentController) UpdateCourse(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateCourseRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	resp, err := ctrl.content.UpdateCourse(c.Request.Context(), id, req)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// DeleteCourse godoc
// @Summary (Admin) Delete a course
// @Description Units survive; only their placements in the course are removed.
// @Tags Admin - Content
// @Param id path int true "Course ID"
// @Success 200 {object} dto.Response
// @Router /admin/courses/{id} [delete]
func (ctrl *ContentController) DeleteCourse(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.content.DeleteCourse(c.Request.Context(), id); err != nil {
		controller.Fail(c, err)
		return
	}
	controller.Message(c, "course deleted")
}

// AttachUnit godoc
// @Summary (Admin) Place a unit in a course
// @Description Order 0 appends; an order inside the list inserts and shifts the following units down.
// @Tags Admin - Content
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param body body dto.AttachUnitRequest true "Unit and position"
// @Success 201 {object} dto.Response{data=[]dto.CourseUnitResponse}
// @Failure 409 {object} dto.Response "Unit already in the course"
// @Router /admin/courses/{id}/units [post]
func (ctrl *ContentController) AttachUnit(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.AttachUnitRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	resp, err := ctrl.content.AttachUnit(c.Request.Context(), id, req)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.Created(c, resp)
}

// ReorderCourseUnit godoc
// @Summary (Admin) Move a unit to another position in its course
// @Tags Admin - Content
// @Accept json
// @Produce json
// @Param id path int true "Course unit ID"
// @Param body body dto.ReorderRequest true "New position"
// @Success 200 {object} dto.Response{data=[]dto.CourseUnitResponse}
// @Router /admin/course-units/{id}/order [put]
func (ctrl *ContentController) ReorderCourseUnit(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.ReorderRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	resp, err := ctrl.content.ReorderCourseUnit(c.Request.Context(), id, req.Order)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// DetachUnit godoc
// @Summary (Admin) Remove a unit from a course
// @Tags Admin - Content
// @Param id path int true "Course unit ID"
// @Success 200 {object} dto.Response{data=[]dto.CourseUnitResponse}
// @Router /admin/course-units/{id} [delete]
func (ctrl *ContentController) DetachUnit(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	resp, err := ctrl.content.DetachUnit(c.Request.Context(), id)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// CreateUnit godoc
// @Summary (Admin) Create a unit
// @Tags Admin - Content
// @Accept json
// @Produce json
// @Param body body dto.CreateUnitRequest true "Unit"
// @Success 201 {object} dto.Response{data=dto.UnitResponse}
// @Router /admin/units [post]
func (ctrl *ContentController) CreateUnit(c *gin.Context) {
	var req dto.CreateUnitRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	resp, err := ctrl.content.CreateUnit(c.Request.Context(), req)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.Created(c, resp)
}

// ListUnits godoc
// @Summary (Admin) List units
// @Tags Admin - Content
// @Produce json
// @Param training_area_id query int false "Only units placed in a course of this training area"
// @Param module_id query int false "Only units placed in a course of this module"
// @Param course_id query int false "Only units placed in this course"
// @Param unit_id query int false "Unit filter"
// @Param search query string false "Search"
// @Param sort query string false "Sortable column" Enums(name)
// @Param dir query string false "Sort direction" Enums(asc, desc)
// @Success 200 {object} dto.Response{data=[]dto.UnitResponse}
// @Router /admin/units [get]
func (ctrl *ContentController) ListUnits(c *gin.Context) {
	q, ok := controller.TableQuery(c, tableview.Units)
	if !ok {
		return
	}
	units, err := ctrl.content.ListUnits(c.Request.Context(), repository.UnitFilter{
		TrainingAreaID: q.Filter.TrainingAreaID,
		ModuleID:       q.Filter.ModuleID,
		CourseID:       q.Filter.CourseID,
	})
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, tableview.ApplyTo(tableview.Units, units, q, func(u dto.UnitResponse) tableview.Row {
		return tableview.Row{"id": u.ID, "name": u.Name, "description": u.Description, "duration": u.Duration, "xp_points": u.XPPoints}
	}))
}

// GetUnit godoc
// @Summary (Admin) Get a unit with its ordered learning blocks
// @Tags Admin - Content
// @Produce json
// @Param id path int true "Unit ID"
// @Success 200 {object} dto.Response{data=dto.UnitResponse}
// @Router /admin/units/{id} [get]
func (ctrl *ContentController) GetUnit(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	resp, err := ctrl.content.GetUnit(c.Request.Context(), id)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// UpdateUnit godoc
// @Summary (Admin) Update a unit
// @Tags Admin - Content
// @Accept json
// @Produce json
// @Param id path int true "Unit ID"
// @Param body body dto.UpdateUnitRequest true "Fields to change"
// @Success 200 {object} dto.Response{data=dto.UnitResponse}
// @Router /admin/units/{id} [put]
func (ctrl *ContentController) UpdateUnit(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateUnitRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	resp, err := ctrl.content.UpdateUnit(c.Request.Context(), id, req)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// DeleteUnit godoc
// @Summary (Admin) Delete a unit, its blocks and placements
// @Tags Admin - Content
// @Param id path int true "Unit ID"
// @Success 200 {object} dto.Response
// @Router /admin/units/{id} [delete]
func (ctrl *ContentController) DeleteUnit(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.content.DeleteUnit(c.Request.Context(), id); err != nil {
		controller.Fail(c, err)
		return
	}
	controller.Message(c, "unit deleted")
}

// CreateLearningBlock godoc
// @Summary (Admin) Add a learning block to a unit
// @Tags Admin - Content
// @Accept json
// @Produce json
// @Param id path int true "Unit ID"
// @Param body body dto.CreateLearningBlockRequest true "Block"
// @Success 201 {object} dto.Response{data=[]dto.LearningBlockResponse}
// @Router /admin/units/{id}/blocks [post]
func (ctrl *ContentController) CreateLearningBlock(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateLearningBlockRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	resp, err := ctrl.content.CreateLearningBlock(c.Request.Context(), id, req)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.Created(c, resp)
}

// UpdateLearningBlock godoc
// @Summary (Admin) Update a learning block
// @Tags Admin - Content
// @Accept json
// @Produce json
// @Param id path int true "Learning block ID"
// @Param body body dto.UpdateLearningBlockRequest true "Fields to change"
// @Success 200 {object} dto.Response{data=dto.LearningBlockResponse}
// @Router /admin/learning-blocks/{id} [put]
func (ctrl *ContentController) UpdateLearningBlock(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateLearningBlockRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	resp, err := ctrl.content.UpdateLearningBlock(c.Request.Context(), id, req)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// ReorderLearningBlock godoc
// @Summary (Admin) Move a learning block within its unit
// @Tags Admin - Content
// @Accept json
// @Produce json
// @Param id path int true "Learning block ID"
// @Param body body dto.ReorderRequest true "New position"
// @Success 200 {object} dto.Response{data=[]dto.LearningBlockResponse}
// @Router /admin/learning-blocks/{id}/order [put]
func (ctrl *ContentController) ReorderLearningBlock(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.ReorderRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	resp, err := ctrl.content.ReorderLearningBlock(c.Request.Context(), id, req.Order)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// DeleteLearningBlock godoc
// @Summary (Admin) Delete a learning block
// @Tags Admin - Content
// @Param id path int true "Learning block ID"
// @Success 200 {object} dto.Response{data=[]dto.LearningBlockResponse}
// @Router /admin/learning-blocks/{id} [delete]
func (ctrl *ContentController) DeleteLearningBlock(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	resp, err := ctrl.content.DeleteLearningBlock(c.Request.Context(), id)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}
