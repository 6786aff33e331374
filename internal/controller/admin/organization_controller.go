package admin

import (
	"github.com/gin-gonic/gin"
	"github.com/vxacademy/academy/internal/controller"
	"github.com/vxacademy/academy/internal/dto"
	"github.com/vxacademy/academy/internal/service"
)

type OrganizationController struct {
	orgs service.OrganizationService
}

func NewOrganizationController(orgs service.OrganizationService) *OrganizationController {
	return &OrganizationController{orgs: orgs}
}

func (ctrl *OrganizationController) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/assets", ctrl.CreateAsset)
	rg.GET("/assets", ctrl.ListAssets)
	rg.PUT("/assets/:id", ctrl.UpdateAsset)
	rg.DELETE("/assets/:id", ctrl.DeleteAsset)

	rg.POST("/sub-assets", ctrl.CreateSubAsset)
	rg.GET("/sub-assets", ctrl.ListSubAssets)
	rg.PUT("/sub-assets/:id", ctrl.UpdateSubAsset)
	rg.DELETE("/sub-assets/:id", ctrl.DeleteSubAsset)

	rg.POST("/organizations", ctrl.CreateOrganization)
	rg.GET("/organizations", ctrl.ListOrganizations)
	rg.PUT("/organizations/:id", ctrl.UpdateOrganization)
	rg.DELETE("/organizations/:id", ctrl.DeleteOrganization)

	rg.POST("/sub-organizations", ctrl.CreateSubOrganization)
	rg.GET("/sub-organizations", ctrl.ListSubOrganizations)
	rg.PUT("/sub-organizations/:id", ctrl.UpdateSubOrganization)
	rg.DELETE("/sub-organizations/:id", ctrl.DeleteSubOrganization)
}

// CreateAsset godoc
// @Summary (Admin) Create an asset
// @Tags Admin - Organizations
// @Accept json
// @Produce json
// @Param body body dto.NamedRequest true "Asset"
// @Success 201 {object} dto.Response{data=model.Asset}
// @Failure 409 {object} dto.Response
// @Router /admin/assets [post]
func (ctrl *OrganizationController) CreateAsset(c *gin.Context) {
	var req dto.NamedRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	resp, err := ctrl.orgs.CreateAsset(c.Request.Context(), req)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.Created(c, resp)
}

// ListAssets godoc
// @Summary (Admin) List assets
// @Tags Admin - Organizations
// @Produce json
// @Param search query string false "Name search"
// @Success 200 {object} dto.Response{data=[]model.Asset}
// @Router /admin/assets [get]
func (ctrl *OrganizationController) ListAssets(c *gin.Context) {
	resp, err := ctrl.orgs.ListAssets(c.Request.Context(), c.Query("search"))
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// UpdateAsset godoc
// @Summary (Admin) Rename an asset
// @Tags Admin - Organizations
// @Param id path int true "Asset ID"
// @Param body body dto.NamedRequest true "Asset"
// @Success 200 {object} dto.Response{data=model.Asset}
// @Router /admin/assets/{id} [put]
func (ctrl *OrganizationController) UpdateAsset(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.NamedRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	resp, err := ctrl.orgs.UpdateAsset(c.Request.Context(), id, req)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// DeleteAsset godoc
// @Summary (Admin) Delete an asset and its sub-assets
// @Tags Admin - Organizations
// @Param id path int true "Asset ID"
// @Success 200 {object} dto.Response
// @Router /admin/assets/{id} [delete]
func (ctrl *OrganizationController) DeleteAsset(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.orgs.DeleteAsset(c.Request.Context(), id); err != nil {
		controller.Fail(c, err)
		return
	}
	controller.Message(c, "asset deleted")
}

// CreateSubAsset godoc
// @Summary (Admin) Create a sub-asset
// @Tags Admin - Organizations
// @Param body body dto.SubAssetRequest true "Sub-asset"
// @Success 201 {object} dto.Response{data=model.SubAsset}
// @Router /admin/sub-assets [post]
func (ctrl *OrganizationController) CreateSubAsset(c *gin.Context) {
	var req dto.SubAssetRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	resp, err := ctrl.orgs.CreateSubAsset(c.Request.Context(), req)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.Created(c, resp)
}

// ListSubAssets godoc
// @Summary (Admin) List sub-assets
// @Tags Admin - Organizations
// @Param asset_id query int false "Parent asset"
// @Success 200 {object} dto.Response{data=[]model.SubAsset}
// @Router /admin/sub-assets [get]
func (ctrl *OrganizationController) ListSubAssets(c *gin.Context) {
	assetID, ok := controller.QueryID(c, "asset_id")
	if !ok {
		return
	}
	resp, err := ctrl.orgs.ListSubAssets(c.Request.Context(), assetID)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// UpdateSubAsset godoc
// @Summary (Admin) Update a sub-asset
// @Tags Admin - Organizations
// @Param id path int true "Sub-asset ID"
// @Param body body dto.SubAssetRequest true "Sub-asset"
// @Success 200 {object} dto.Response{data=model.SubAsset}
// @Router /admin/sub-assets/{id} [put]
func (ctrl *OrganizationController) UpdateSubAsset(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.SubAssetRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	resp, err := ctrl.orgs.UpdateSubAsset(c.Request.Context(), id, req)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// DeleteSubAsset godoc
// @Summary (Admin) Delete a sub-asset
// @Tags Admin - Organizations
// @Param id path int true "Sub-asset ID"
// @Success 200 {object} dto.Response
// @Router /admin/sub-assets/{id} [delete]
func (ctrl *OrganizationController) DeleteSubAsset(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.orgs.DeleteSubAsset(c.Request.Context(), id); err != nil {
		controller.Fail(c, err)
		return
	}
	controller.Message(c, "sub-asset deleted")
}

// CreateOrganization godoc
// @Summary (Admin) Create an organization
// @Description An organization may be tagged with an asset and one of its sub-assets.
// @Tags Admin - Organizations
// @Param body body dto.OrganizationRequest true "Organization"
// @Success 201 {object} dto.Response{data=model.Organization}
// @Router /admin/organizations [post]
func (ctrl *OrganizationController) CreateOrganization(c *gin.Context) {
	var req dto.OrganizationRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	resp, err := ctrl.orgs.CreateOrganization(c.Request.Context(), req)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.Created(c, resp)
}

// ListOrganizations godoc
// @Summary (Admin) List organizations
// @Tags Admin - Organizations
// @Param search query string false "Name search"
// @Success 200 {object} dto.Response{data=[]model.Organization}
// @Router /admin/organizations [get]
func (ctrl *OrganizationController) ListOrganizations(c *gin.Context) {
	resp, err := ctrl.orgs.ListOrganizations(c.Request.Context(), c.Query("search"))
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// UpdateOrganization godoc
// @Summary (Admin) Update an organization
// @Tags Admin - Organizations
// @Param id path int true "Organization ID"
// @Param body body dto.OrganizationRequest true "Organization"
// @Success 200 {object} dto.Response{data=model.Organization}
// @Router /admin/organizations/{id} [put]
func (ctrl *OrganizationController) UpdateOrganization(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.OrganizationRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	resp, err := ctrl.orgs.UpdateOrganization(c.Request.Context(), id, req)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// DeleteOrganization godoc
// @Summary (Admin) Delete an organization and its sub-organizations
// @Tags Admin - Organizations
// @Param id path int true "Organization ID"
// @Success 200 {object} dto.Response
// @Router /admin/organizations/{id} [delete]
func (ctrl *OrganizationController) DeleteOrganization(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.orgs.DeleteOrganization(c.Request.Context(), id); err != nil {
		controller.Fail(c, err)
		return
	}
	controller.Message(c, "organization deleted")
}

// CreateSubOrganization godoc
// @Summary (Admin) Create a sub-organization
// @Tags Admin - Organizations
// @Param body body dto.SubOrganizationRequest true "Sub-organization"
// @Success 201 {object} dto.Response{data=model.SubOrganization}
// @Router /admin/sub-organizations [post]
func (ctrl *OrganizationController) CreateSubOrganization(c *gin.Context) {
	var req dto.SubOrganizationRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	resp, err := ctrl.orgs.CreateSubOrganization(c.Request.Context(), req)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.Created(c, resp)
}

// ListSubOrganizations godoc
// @Summary (Admin) List sub-organizations
// @Tags Admin - Organizations
// @Param organization_id query int false "Parent organization"
// @Success 200 {object} dto.Response{data=[]model.SubOrganization}
// @Router /admin/sub-organizations [get]
func (ctrl *OrganizationController) ListSubOrganizations(c *gin.Context) {
	orgID, ok := controller.QueryID(c, "organization_id")
	if !ok {
		return
	}
	resp, err := ctrl.orgs.ListSubOrganizations(c.Request.Context(), orgID)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// UpdateSubOrganization godoc
// @Summary (Admin) Update a sub-organization
// @Tags Admin - Organizations
// @Param id path int true "Sub-organization ID"
// @Param body body dto.SubOrganizationRequest true "Sub-organization"
// @Success 200 {object} dto.Response{data=model.SubOrganization}
// @Router /admin/sub-organizations/{id} [put]
func (ctrl *OrganizationController) UpdateSubOrganization(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.SubOrganizationRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	resp, err := ctrl.orgs.UpdateSubOrganization(c.Request.Context(), id, req)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// DeleteSubOrganization godoc
// @Summary (Admin) Delete a sub-organization
// @Tags Admin - Organizations
// @Param id path int true "Sub-organization ID"
// @Success 200 {object} dto.Response
// @Router /admin/sub-organizations/{id} [delete]
func (ctrl *OrganizationController) DeleteSubOrganization(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.orgs.DeleteSubOrganization(c.Request.Context(), id); err != nil {
		controller.Fail(c, err)
		return
	}
	controller.Message(c, "sub-organization deleted")
}
