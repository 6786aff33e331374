package user

import (
	"github.com/gin-gonic/gin"
	"github.com/vxacademy/academy/internal/controller"
	"github.com/vxacademy/academy/internal/dto"
	"github.com/vxacademy/academy/internal/model"
	"github.com/vxacademy/academy/internal/service"
)

// ProfileController serves what a learner owns: enrollments, certificates,
// badges, notifications and the assistant.
type ProfileController struct {
	enrollments   service.EnrollmentService
	certificates  service.CertificateService
	badges        service.BadgeService
	notifications service.NotificationService
	assistant     service.AssistantService
}

func NewProfileController(
	enrollments service.EnrollmentService,
	certificates service.CertificateService,
	badges service.BadgeService,
	notifications service.NotificationService,
	assistant service.AssistantService,
) *ProfileController {
	return &ProfileController{
		enrollments:   enrollments,
		certificates:  certificates,
		badges:        badges,
		notifications: notifications,
		assistant:     assistant,
	}
}

func (ctrl *ProfileController) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/courses/:id/enroll", ctrl.Enroll)
	rg.GET("/users/:id/enrollments", ctrl.ListEnrollments)
	rg.GET("/users/:id/certificates", ctrl.ListCertificates)
	rg.GET("/users/:id/badges", ctrl.ListBadges)
	rg.GET("/users/:id/notifications", ctrl.ListNotifications)
	rg.PUT("/users/:id/notifications/:notification_id/read", ctrl.MarkNotificationRead)
	rg.POST("/assistant/ask", ctrl.AskAssistant)
}

// Enroll godoc
// @Summary (User) Enroll in a course
// @Tags User - Enrollments
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param body body dto.CompleteRequest true "Learner"
// @Success 201 {object} dto.Response{data=dto.EnrollmentResponse}
// @Failure 409 {object} dto.Response "Already enrolled"
// @Router /courses/{id}/enroll [post]
func (ctrl *ProfileController) Enroll(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.CompleteRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	resp, err := ctrl.enrollments.Enroll(c.Request.Context(), id, dto.EnrollRequest{
		UserID: req.UserID,
		Source: string(model.SourceSelf),
	})
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.Created(c, resp)
}

// ListEnrollments godoc
// @Summary (User) My enrollments
// @Tags User - Enrollments
// @Param id path int true "User ID"
// @Success 200 {object} dto.Response{data=[]dto.EnrollmentResponse}
// @Router /users/{id}/enrollments [get]
func (ctrl *ProfileController) ListEnrollments(c *gin.Context) {
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

// ListCertificates godoc
// @Summary (User) My certificates
// @Tags User - Certificates
// @Param id path int true "User ID"
// @Success 200 {object} dto.Response{data=[]dto.CertificateResponse}
// @Router /users/{id}/certificates [get]
func (ctrl *ProfileController) ListCertificates(c *gin.Context) {
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

// ListBadges godoc
// @Summary (User) My badges
// @Tags User - Badges
// @Param id path int true "User ID"
// @Success 200 {object} dto.Response{data=[]dto.UserBadgeResponse}
// @Router /users/{id}/badges [get]
func (ctrl *ProfileController) ListBadges(c *gin.Context) {
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

// ListNotifications godoc
// @Summary (User) My notifications, newest first
// @Tags User - Notifications
// @Param id path int true "User ID"
// @Param unread query bool false "Only unread notifications"
// @Success 200 {object} dto.Response{data=[]dto.NotificationResponse}
// @Router /users/{id}/notifications [get]
func (ctrl *ProfileController) ListNotifications(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	resp, err := ctrl.notifications.List(c.Request.Context(), id, c.Query("unread") == "true")
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}

// MarkNotificationRead godoc
// @Summary (User) Mark a notification as read
// @Tags User - Notifications
// @Param id path int true "User ID"
// @Param notification_id path int true "Notification ID"
// @Success 200 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /users/{id}/notifications/{notification_id}/read [put]
func (ctrl *ProfileController) MarkNotificationRead(c *gin.Context) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	notificationID, ok := controller.ParamID(c, "notification_id")
	if !ok {
		return
	}
	if err := ctrl.notifications.MarkRead(c.Request.Context(), id, notificationID); err != nil {
		controller.Fail(c, err)
		return
	}
	controller.Message(c, "notification marked as read")
}

// AskAssistant godoc
// @Summary (User) Ask the learning assistant
// @Description Answers a question, optionally grounded on the content of a unit.
// @Tags User - Assistant
// @Accept json
// @Produce json
// @Param body body dto.AskAssistantRequest true "Question"
// @Success 200 {object} dto.Response{data=dto.AssistantAnswerResponse}
// @Failure 503 {object} dto.Response "Assistant not configured"
// @Router /assistant/ask [post]
func (ctrl *ProfileController) AskAssistant(c *gin.Context) {
	var req dto.AskAssistantRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	resp, err := ctrl.assistant.Ask(c.Request.Context(), req)
	if err != nil {
		controller.Fail(c, err)
		return
	}
	controller.OK(c, resp)
}
