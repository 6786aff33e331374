package admin

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vxacademy/academy/internal/controller"
	"github.com/vxacademy/academy/internal/dto"
	"github.com/vxacademy/academy/internal/service"
)

// EngagementController serves enrollments, certificates, badges and the
// completion report.
type EngagementController struct {
	enrollments  service.EnrollmentService
	certificates service.CertificateService
	badges       service.BadgeService
	reports      service.ReportService
}

func NewEngagementController(
	enrollments service.EnrollmentService,
	certificates service.CertificateService,
	badges service.BadgeService,
	reports service.ReportService,
) *EngagementController {
	return &EngagementController{
		enrollments:  enrollments,
		certificates: certificates,
		badges:       badges,
		reports:      reports,
	}
}

func (ctrl *EngagementController) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/courses/:id/enrollments", ctrl.Enroll)
	rg.GET("/courses/:id/enrollments", ctrl.ListCourseEnrollments)
	rg.GET("/users/:id/enrollments", ctrl.ListUserEnrollments)

	rg.POST("/certificates", ctrl.IssueCertificate)
	rg.POST("/certificates/expire", ctrl.ExpireCertificates)
	rg.POST("/certificates/:id/revoke", ctrl.RevokeCertificate)
	rg.GET("/users/:id/certificates", ctrl.ListUserCertificates)

	rg.POST("/badges", ctrl.CreateBadge)
	rg.GET("/badges", ctrl.ListBadges)
	rg.DELETE("/badges/:id", ctrl.DeleteBadge)
	rg.POST("/badges/:id/award", ctrl.AwardBadge)
	rg.GET("/users/:id/badges", ctrl.ListUserBadges)

	rg.GET("/reports/course-completion", ctrl.CourseCompletionReport)
}

// Enroll godoc
// @Summary (Admin) Enroll a learner in a course
// @Tags Admin - Enrollments
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param body body dto.EnrollRequest true "Learner and source"
// @Success 201 {object} dto.Response{data=dto.EnrollmentResponse}
// @Failure 409 {object} dto.Response "Already enrolled"
// @Router /admin/courses/{id}/enrollments [post]
func (ctrl *EngagementController) Enroll(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.EnrollRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	resp, err := ctrl.enrollments.Enroll(c.Request.Context(), id, req)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.Created(c, resp)
}

// ListCourseEnrollments godoc
// @Summary (Admin) List the learners enrolled in a course
// @Tags Admin - Enrollments
// @Param id path int true "Course ID"
// @Success 200 {object} dto.Response{data=[]dto.EnrollmentResponse}
// @Router /admin/courses/{id}/enrollments [get]
func (ctrl *EngagementController) ListCourseEnrollments(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	resp, err := ctrl.enrollments.ListByCourse(c.Request.Context(), id)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// ListUserEnrollments godoc
// @Summary (Admin) List the enrollments of a learner
// @Tags Admin - Enrollments
// @Param id path int true "User ID"
// @Success 200 {object} dto.Response{data=[]dto.EnrollmentResponse}
// @Router /admin/users/{id}/enrollments [get]
func (ctrl *EngagementController) ListUserEnrollments(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	resp, err := ctrl.enrollments.ListByUser(c.Request.Context(), id)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// IssueCertificate godoc
// @Summary (Admin) Issue a course certificate
// @Description Returns the active certificate when one already exists for the learner and course.
// @Tags Admin - Certificates
// @Accept json
// @Produce json
// @Param body body dto.IssueCertificateRequest true "Learner and course"
// @Success 201 {object} dto.Response{data=dto.CertificateResponse}
// @Router /admin/certificates [post]
func (ctrl *EngagementController) IssueCertificate(c *gin.Context) {
	var req dto.IssueCertificateRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	resp, err := ctrl.certificates.Issue(c.Request.Context(), req.UserID, req.CourseID)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.Created(c, resp)
}

// RevokeCertificate godoc
// @Summary (Admin) Revoke an active certificate
// @Tags Admin - Certificates
// @Param id path int true "Certificate ID"
// @Success 200 {object} dto.Response{data=dto.CertificateResponse}
// @Failure 422 {object} dto.Response "Certificate is not active"
// @Router /admin/certificates/{id}/revoke [post]
func (ctrl *EngagementController) RevokeCertificate(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	resp, err := ctrl.certificates.Revoke(c.Request.Context(), id)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// ExpireCertificates godoc
// @Summary (Admin) Expire every active certificate past its expiry date
// @Description Runs the same sweep as the nightly scheduler.
// @Tags Admin - Certificates
// @Success 200 {object} dto.Response{data=map[string]int}
// @Router /admin/certificates/expire [post]
func (ctrl *EngagementController) ExpireCertificates(c *gin.Context) {
	n, err := ctrl.certificates.ExpireDue(c.Request.Context(), time.Now())
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, gin.H{"expired": n})
}

// ListUserCertificates godoc
// @Summary (Admin) List the certificates of a learner
// @Tags Admin - Certificates
// @Param id path int true "User ID"
// @Success 200 {object} dto.Response{data=[]dto.CertificateResponse}
// @Router /admin/users/{id}/certificates [get]
func (ctrl *EngagementController) ListUserCertificates(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	resp, err := ctrl.certificates.ListByUser(c.Request.Context(), id)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// CreateBadge godoc
// @Summary (Admin) Create a badge
// @Tags Admin - Badges
// @Param body body dto.CreateBadgeRequest true "Badge"
// @Success 201 {object} dto.Response{data=model.Badge}
// @Failure 409 {object} dto.Response
// @Router /admin/badges [post]
func (ctrl *EngagementController) CreateBadge(c *gin.Context) {
	var req dto.CreateBadgeRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	resp, err := ctrl.badges.CreateBadge(c.Request.Context(), req)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.Created(c, resp)
}

// ListBadges godoc
// @Summary (Admin) List badges
// @Tags Admin - Badges
// @Success 200 {object} dto.Response{data=[]model.Badge}
// @Router /admin/badges [get]
func (ctrl *EngagementController) ListBadges(c *gin.Context) {
	resp, err := ctrl.badges.ListBadges(c.Request.Context())
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// DeleteBadge godoc
// @Summary (Admin) Delete a badge
// @Tags Admin - Badges
// @Param id path int true "Badge ID"
// @Success 200 {object} dto.Response
// @Router /admin/badges/{id} [delete]
func (ctrl *EngagementController) DeleteBadge(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.badges.DeleteBadge(c.Request.Context(), id); err != nil {
		controller.Fail(c, err)
		return
	}
	controller.Message(c, "badge deleted")
}

// AwardBadge godoc
// @Summary (Admin) Award a badge to a learner
// @Tags Admin - Badges
// @Param id path int true "Badge ID"
// @Param body body dto.AwardBadgeRequest true "Learner"
// @Success 201 {object} dto.Response{data=dto.UserBadgeResponse}
// @Failure 409 {object} dto.Response "Already awarded"
// @Router /admin/badges/{id}/award [post]
func (ctrl *EngagementController) AwardBadge(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.AwardBadgeRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	resp, err := ctrl.badges.Award(c.Request.Context(), id, req)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.Created(c, resp)
}

// ListUserBadges godoc
// @Summary (Admin) List the badges of a learner
// @Tags Admin - Badges
// @Param id path int true "User ID"
// @Success 200 {object} dto.Response{data=[]dto.UserBadgeResponse}
// @Router /admin/users/{id}/badges [get]
func (ctrl *EngagementController) ListUserBadges(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	resp, err := ctrl.badges.ListUserBadges(c.Request.Context(), id)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// CourseCompletionReport godoc
// @Summary (Admin) Course completion dashboard
// @Description Enrollments in the window, completions and average progress per course. Without from/to the current month is used.
// @Tags Admin - Reports
// @Produce json
// @Param course_id query int false "Course"
// @Param organization_id query int false "Organization"
// @Param sub_organization_id query int false "Sub-organization"
// @Param asset_id query int false "Asset"
// @Param sub_asset_id query int false "Sub-asset"
// @Param from query string false "First day (YYYY-MM-DD)"
// @Param to query string false "Last day (YYYY-MM-DD)"
// @Success 200 {object} dto.Response{data=dto.CompletionReportResponse}
// @Router /admin/reports/course-completion [get]
func (ctrl *EngagementController) CourseCompletionReport(c *gin.Context) {
	var q service.ReportQuery
	for name, dst := range map[string]**uint{
		"course_id":           &q.CourseID,
		"organization_id":     &q.OrganizationID,
		"sub_organization_id": &q.SubOrganizationID,
		"asset_id":            &q.AssetID,
		"sub_asset_id":        &q.SubAssetID,
	} {
		id, ok := controller.QueryID(c, name)
		if !ok {
			return
		}
		*dst = id
	}
	var ok bool
	if q.From, ok = controller.QueryDate(c, "from"); !ok {
		return
	}
	if q.To, ok = controller.QueryDate(c, "to"); !ok {
		return
	}
	resp, err := ctrl.reports.CourseCompletion(c.Request.Context(), q)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}
