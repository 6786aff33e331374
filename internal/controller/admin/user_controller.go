package admin

import (
	"github.com/gin-gonic/gin"
	"github.com/vxacademy/academy/internal/apperr"
	"github.com/vxacademy/academy/internal/controller"
	"github.com/vxacademy/academy/internal/dto"
	"github.com/vxacademy/academy/internal/model"
	"github.com/vxacademy/academy/internal/repository"
	"github.com/vxacademy/academy/internal/service"
	"github.com/vxacademy/academy/internal/tableview"
)

type UserController struct {
	users service.UserService
}

func NewUserController(users service.UserService) *UserController {
	return &UserController{users: users}
}

func (ctrl *UserController) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/users")
	g.POST("", ctrl.CreateUser)
	g.GET("", ctrl.ListUsers)
	g.GET("/:id", ctrl.GetUser)
	g.PUT("/:id", ctrl.UpdateUser)
	g.DELETE("/:id", ctrl.DeleteUser)
}

// CreateUser godoc
// @Summary (Admin) Create a user
// @Description Sub-admins need sub_admin_detail and learners need normal_user_detail; admins carry neither.
// @Tags Admin - Users
// @Accept json
// @Produce json
// @Param body body dto.CreateUserRequest true "User"
// @Success 201 {object} dto.Response{data=dto.UserResponse}
// @Failure 409 {object} dto.Response "Email or EID already used"
// @Failure 422 {object} dto.Response
// @Router /admin/users [post]
func (ctrl *UserController) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	resp, err := ctrl.users.CreateUser(c.Request.Context(), req)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.Created(c, resp)
}

// ListUsers godoc
// @Summary (Admin) List users
// @Tags Admin - Users
// @Produce json
// @Param user_type query string false "User type" Enums(admin, sub_admin, user)
// @Param organization_id query int false "Organization filter"
// @Param asset_id query int false "Asset filter"
// @Param search query string false "Search on name and email"
// @Param sort query string false "Sortable column" Enums(name, email)
// @Param dir query string false "Sort direction" Enums(asc, desc)
// @Success 200 {object} dto.Response{data=[]dto.UserResponse}
// @Router /admin/users [get]
func (ctrl *UserController) ListUsers(c *gin.Context) {
	q, ok := controller.TableQuery(c, tableview.Users)
	if !ok {
		return
	}
	var filter repository.UserFilter
	if raw := c.Query("user_type"); raw != "" {
		ut := model.UserType(raw)
		if !ut.Valid() {
			controller.BadRequest(c, "unknown user type", apperr.FieldError{Field: "user_type", Error: "must be one of admin sub_admin user"})
			return
		}
		filter.UserType = &ut
	}
	if filter.OrganizationID, ok = controller.QueryID(c, "organization_id"); !ok {
		return
	}
	if filter.AssetID, ok = controller.QueryID(c, "asset_id"); !ok {
		return
	}
	users, err := ctrl.users.ListUsers(c.Request.Context(), filter)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, tableview.ApplyTo(tableview.Users, users, q, func(u dto.UserResponse) tableview.Row {
		return tableview.Row{"id": u.ID, "name": u.Name, "email": u.Email, "user_type": u.UserType, "xp": u.XP}
	}))
}

// GetUser godoc
// @Summary (Admin) Get a user
// @Tags Admin - Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.Response{data=dto.UserResponse}
// @Failure 404 {object} dto.Response
// @Router /admin/users/{id} [get]
func (ctrl *UserController) GetUser(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	resp, err := ctrl.users.GetUser(c.Request.Context(), id)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// UpdateUser godoc
// @Summary (Admin) Update a user
// @Tags Admin - Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param body body dto.UpdateUserRequest true "Fields to change"
// @Success 200 {object} dto.Response{data=dto.UserResponse}
// @Router /admin/users/{id} [put]
func (ctrl *UserController) UpdateUser(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateUserRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	resp, err := ctrl.users.UpdateUser(c.Request.Context(), id, req)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// DeleteUser godoc
// @Summary (Admin) Delete a user with their progress, attempts and certificates
// @Tags Admin - Users
// @Param id path int true "User ID"
// @Success 200 {object} dto.Response
// @Router /admin/users/{id} [delete]
func (ctrl *UserController) DeleteUser(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.users.DeleteUser(c.Request.Context(), id); err != nil {
		controller.Fail(c, err)
		return
	}
	controller.Message(c, "user deleted")
}
