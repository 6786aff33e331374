package user

import (
	"github.com/gin-gonic/gin"
	"github.com/vxacademy/academy/internal/controller"
	"github.com/vxacademy/academy/internal/repository"
	"github.com/vxacademy/academy/internal/service"
)

// CatalogController exposes the read side of the content hierarchy to learners.
type CatalogController struct {
	content service.ContentService
}

func NewCatalogController(content service.ContentService) *CatalogController {
	return &CatalogController{content: content}
}

func (ctrl *CatalogController) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/training-areas", ctrl.ListTrainingAreas)
	rg.GET("/training-areas/:id", ctrl.GetTrainingArea)
	rg.GET("/modules/:id", ctrl.GetModule)
	rg.GET("/courses", ctrl.ListCourses)
	rg.GET("/courses/:id", ctrl.GetCourse)
	rg.GET("/units/:id", ctrl.GetUnit)
}

// ListTrainingAreas godoc
// @Summary (User) List training areas
// @Tags User - Catalog
// @Produce json
// @Param search query string false "Search on name"
// @Success 200 {object} dto.Response{data=[]dto.TrainingAreaResponse}
// @Router /training-areas [get]
func (ctrl *CatalogController) ListTrainingAreas(c *gin.Context) {
	resp, err := ctrl.content.ListTrainingAreas(c.Request.Context(), c.Query("search"))
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// GetTrainingArea godoc
// @Summary (User) Get a training area with its modules
// @Tags User - Catalog
// @Produce json
// @Param id path int true "Training area ID"
// @Success 200 {object} dto.Response{data=dto.TrainingAreaResponse}
// @Failure 404 {object} dto.Response
// @Router /training-areas/{id} [get]
func (ctrl *CatalogController) GetTrainingArea(c *gin.Context) {
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

// GetModule godoc
// @Summary (User) Get a module with its courses
// @Tags User - Catalog
// @Produce json
// @Param id path int true "Module ID"
// @Success 200 {object} dto.Response{data=dto.ModuleResponse}
// @Router /modules/{id} [get]
func (ctrl *CatalogController) GetModule(c *gin.Context) {
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

// ListCourses godoc
// @Summary (User) Browse courses
// @Tags User - Catalog
// @Produce json
// @Param training_area_id query int false "Training area"
// @Param module_id query int false "Module"
// @Param search query string false "Search on name and description"
// @Success 200 {object} dto.Response{data=[]dto.CourseResponse}
// @Router /courses [get]
func (ctrl *CatalogController) ListCourses(c *gin.Context) {
	var filter repository.CourseFilter
	var ok bool
	if filter.TrainingAreaID, ok = controller.QueryID(c, "training_area_id"); !ok {
		return
	}
	if filter.ModuleID, ok = controller.QueryID(c, "module_id"); !ok {
		return
	}
	filter.Search = c.Query("search")
	resp, err := ctrl.content.ListCourses(c.Request.Context(), filter)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// GetCourse godoc
// @Summary (User) Get a course with its ordered units
// @Tags User - Catalog
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.Response{data=dto.CourseResponse}
// @Router /courses/{id} [get]
func (ctrl *CatalogController) GetCourse(c *gin.Context) {
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

// GetUnit godoc
// @Summary (User) Get a unit with its learning blocks
// @Tags User - Catalog
// @Produce json
// @Param id path int true "Unit ID"
// @Success 200 {object} dto.Response{data=dto.UnitResponse}
// @Router /units/{id} [get]
func (ctrl *CatalogController) GetUnit(c *gin.Context) {
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
