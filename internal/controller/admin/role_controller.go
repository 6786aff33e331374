package admin

import (
	"github.com/gin-gonic/gin"
	"github.com/vxacademy/academy/internal/controller"
	"github.com/vxacademy/academy/internal/dto"
	"github.com/vxacademy/academy/internal/service"
)

type RoleController struct {
	roles service.RoleService
}

func NewRoleController(roles service.RoleService) *RoleController {
	return &RoleController{roles: roles}
}

func (ctrl *RoleController) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/role-categories", ctrl.CreateCategory)
	rg.GET("/role-categories", ctrl.ListCategories)
	rg.PUT("/role-categories/:id", ctrl.UpdateCategory)
	rg.DELETE("/role-categories/:id", ctrl.DeleteCategory)

	rg.POST("/roles", ctrl.CreateRole)
	rg.GET("/roles", ctrl.ListRoles)
	rg.PUT("/roles/:id", ctrl.UpdateRole)
	rg.DELETE("/roles/:id", ctrl.DeleteRole)

	rg.POST("/seniority-levels", ctrl.CreateSeniority)
	rg.GET("/seniority-levels", ctrl.ListSeniorities)
	rg.PUT("/seniority-levels/:id", ctrl.UpdateSeniority)
	rg.DELETE("/seniority-levels/:id", ctrl.DeleteSeniority)

	g := rg.Group("/assignments")
	g.POST("", ctrl.CreateAssignment)
	g.GET("", ctrl.ListAssignments)
	g.GET("/units", ctrl.UnitsFor)
	g.GET("/:id", ctrl.GetAssignment)
	g.PUT("/:id", ctrl.UpdateAssignment)
	g.DELETE("/:id", ctrl.DeleteAssignment)
}

// CreateCategory godoc
// @Summary (Admin) Create a role category
// @Tags Admin - Roles
// @Param body body dto.RoleCategoryRequest true "Category"
// @Success 201 {object} dto.Response{data=model.RoleCategory}
// @Router /admin/role-categories [post]
func (ctrl *RoleController) CreateCategory(c *gin.Context) {
	var req dto.RoleCategoryRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	resp, err := ctrl.roles.CreateCategory(c.Request.Context(), req)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.Created(c, resp)
}

// ListCategories godoc
// @Summary (Admin) List role categories
// @Tags Admin - Roles
// @Success 200 {object} dto.Response{data=[]model.RoleCategory}
// @Router /admin/role-categories [get]
func (ctrl *RoleController) ListCategories(c *gin.Context) {
	resp, err := ctrl.roles.ListCategories(c.Request.Context())
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// UpdateCategory godoc
// @Summary (Admin) Update a role category
// @Tags Admin - Roles
// @Param id path int true "Category ID"
// @Param body body dto.RoleCategoryRequest true "Category"
// @Success 200 {object} dto.Response{data=model.RoleCategory}
// @Router /admin/role-categories/{id} [put]
func (ctrl *RoleController) UpdateCategory(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.RoleCategoryRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	resp, err := ctrl.roles.UpdateCategory(c.Request.Context(), id, req)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// DeleteCategory godoc
// @Summary (Admin) Delete a role category and its roles
// @Tags Admin - Roles
// @Param id path int true "Category ID"
// @Success 200 {object} dto.Response
// @Router /admin/role-categories/{id} [delete]
func (ctrl *RoleController) DeleteCategory(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.roles.DeleteCategory(c.Request.Context(), id); err != nil {
		controller.Fail(c, err)
		return
	}
	controller.Message(c, "role category deleted")
}

// CreateRole godoc
// @Summary (Admin) Create a role in a category
// @Tags Admin - Roles
// @Param body body dto.RoleRequest true "Role"
// @Success 201 {object} dto.Response{data=model.Role}
// @Router /admin/roles [post]
func (ctrl *RoleController) CreateRole(c *gin.Context) {
	var req dto.RoleRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	resp, err := ctrl.roles.CreateRole(c.Request.Context(), req)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.Created(c, resp)
}

// ListRoles godoc
// @Summary (Admin) List roles
// @Tags Admin - Roles
// @Param role_category_id query int false "Category filter"
// @Success 200 {object} dto.Response{data=[]model.Role}
// @Router /admin/roles [get]
func (ctrl *RoleController) ListRoles(c *gin.Context) {
	categoryID, ok := controller.QueryID(c, "role_category_id")
	if !ok {
		return
	}
	resp, err := ctrl.roles.ListRoles(c.Request.Context(), categoryID)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// UpdateRole godoc
// @Summary (Admin) Update a role
// @Tags Admin - Roles
// @Param id path int true "Role ID"
// @Param body body dto.RoleRequest true "Role"
// @Success 200 {object} dto.Response{data=model.Role}
// @Router /admin/roles/{id} [put]
func (ctrl *RoleController) UpdateRole(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.RoleRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	resp, err := ctrl.roles.UpdateRole(c.Request.Context(), id, req)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// DeleteRole godoc
// @Summary (Admin) Delete a role
// @Tags Admin - Roles
// @Param id path int true "Role ID"
// @Success 200 {object} dto.Response
// @Router /admin/roles/{id} [delete]
func (ctrl *RoleController) DeleteRole(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.roles.DeleteRole(c.Request.Context(), id); err != nil {
		controller.Fail(c, err)
		return
	}
	controller.Message(c, "role deleted")
}

// CreateSeniority godoc
// @Summary (Admin) Create a seniority level
// @Tags Admin - Roles
// @Param body body dto.SeniorityLevelRequest true "Seniority level"
// @Success 201 {object} dto.Response{data=model.SeniorityLevel}
// @Router /admin/seniority-levels [post]
func (ctrl *RoleController) CreateSeniority(c *gin.Context) {
	var req dto.SeniorityLevelRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	resp, err := ctrl.roles.CreateSeniority(c.Request.Context(), req)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.Created(c, resp)
}

// ListSeniorities godoc
// @Summary (Admin) List seniority levels by rank
// @Tags Admin - Roles
// @Success 200 {object} dto.Response{data=[]model.SeniorityLevel}
// @Router /admin/seniority-levels [get]
func (ctrl *RoleController) ListSeniorities(c *gin.Context) {
	resp, err := ctrl.roles.ListSeniorities(c.Request.Context())
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// UpdateSeniority godoc
// @Summary (Admin) Update a seniority level
// @Tags Admin - Roles
// @Param id path int true "Seniority level ID"
// @Param body body dto.SeniorityLevelRequest true "Seniority level"
// @Success 200 {object} dto.Response{data=model.SeniorityLevel}
// @Router /admin/seniority-levels/{id} [put]
func (ctrl *RoleController) UpdateSeniority(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.SeniorityLevelRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	resp, err := ctrl.roles.UpdateSeniority(c.Request.Context(), id, req)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// DeleteSeniority godoc
// @Summary (Admin) Delete a seniority level
// @Tags Admin - Roles
// @Param id path int true "Seniority level ID"
// @Success 200 {object} dto.Response
// @Router /admin/seniority-levels/{id} [delete]
func (ctrl *RoleController) DeleteSeniority(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.roles.DeleteSeniority(c.Request.Context(), id); err != nil {
		controller.Fail(c, err)
		return
	}
	controller.Message(c, "seniority level deleted")
}

// CreateAssignment godoc
// @Summary (Admin) Create a training assignment
// @Description Maps a (role category, seniority level, asset) tuple to the units learners in that position must take. The tuple is unique.
// @Tags Admin - Assignments
// @Accept json
// @Produce json
// @Param body body dto.AssignmentRequest true "Assignment"
// @Success 201 {object} dto.Response{data=dto.AssignmentResponse}
// @Failure 404 {object} dto.Response "Category, seniority, asset or unit not found"
// @Failure 409 {object} dto.Response "Tuple already assigned"
// @Router /admin/assignments [post]
func (ctrl *RoleController) CreateAssignment(c *gin.Context) {
	var req dto.AssignmentRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	resp, err := ctrl.roles.CreateAssignment(c.Request.Context(), req)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.Created(c, resp)
}

// ListAssignments godoc
// @Summary (Admin) List training assignments
// @Tags Admin - Assignments
// @Success 200 {object} dto.Response{data=[]dto.AssignmentResponse}
// @Router /admin/assignments [get]
func (ctrl *RoleController) ListAssignments(c *gin.Context) {
	resp, err := ctrl.roles.ListAssignments(c.Request.Context())
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// GetAssignment godoc
// @Summary (Admin) Get a training assignment
// @Tags Admin - Assignments
// @Param id path int true "Assignment ID"
// @Success 200 {object} dto.Response{data=dto.AssignmentResponse}
// @Router /admin/assignments/{id} [get]
func (ctrl *RoleController) GetAssignment(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	resp, err := ctrl.roles.GetAssignment(c.Request.Context(), id)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// UpdateAssignment godoc
// @Summary (Admin) Replace a training assignment
// @Tags Admin - Assignments
// @Param id path int true "Assignment ID"
// @Param body body dto.AssignmentRequest true "Assignment"
// @Success 200 {object} dto.Response{data=dto.AssignmentResponse}
// @Router /admin/assignments/{id} [put]
func (ctrl *RoleController) UpdateAssignment(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.AssignmentRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	resp, err := ctrl.roles.UpdateAssignment(c.Request.Context(), id, req)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// DeleteAssignment godoc
// @Summary (Admin) Delete a training assignment
// @Tags Admin - Assignments
// @Param id path int true "Assignment ID"
// @Success 200 {object} dto.Response
// @Router /admin/assignments/{id} [delete]
func (ctrl *RoleController) DeleteAssignment(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.roles.DeleteAssignment(c.Request.Context(), id); err != nil {
		controller.Fail(c, err)
		return
	}
	controller.Message(c, "assignment deleted")
}

// UnitsFor godoc
// @Summary (Admin) Units assigned to a position
// @Tags Admin - Assignments
// @Param role_category_id query int true "Role category"
// @Param seniority_level_id query int true "Seniority level"
// @Param asset_id query int true "Asset"
// @Success 200 {object} dto.Response{data=[]dto.UnitResponse}
// @Router /admin/assignments/units [get]
func (ctrl *RoleController) UnitsFor(c *gin.Context) {
	categoryID, ok := controller.RequiredQueryID(c, "role_category_id")
	if !ok {
		return
	}
	seniorityID, ok := controller.RequiredQueryID(c, "seniority_level_id")
	if !ok {
		return
	}
	assetID, ok := controller.RequiredQueryID(c, "asset_id")
	if !ok {
		return
	}
	resp, err := ctrl.roles.UnitsFor(c.Request.Context(), categoryID, seniorityID, assetID)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}
