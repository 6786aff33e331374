package service

import (
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/vxacademy/academy/internal/dto"
	"github.com/vxacademy/academy/internal/model"
)

// copyInto maps a model onto its response shape. Mapping failures are
// programming errors and only logged.
func copyInto(to, from interface{}) {
	if err := copier.Copy(to, from); err != nil {
		log.Error().Err(err).Msg("copyInto: failed to map model to response")
	}
}

func toTrainingAreaResponse(m *model.TrainingArea) *dto.TrainingAreaResponse {
	var resp dto.TrainingAreaResponse
	copyInto(&resp, m)
	return &resp
}

func toModuleResponse(m *model.Module) *dto.ModuleResponse {
	var resp dto.ModuleResponse
	copyInto(&resp, m)
	return &resp
}

func toCourseResponse(m *model.Course) *dto.CourseResponse {
	var resp dto.CourseResponse
	copyInto(&resp, m)
	return &resp
}

func toCourseUnitResponse(m *model.CourseUnit) dto.CourseUnitResponse {
	var resp dto.CourseUnitResponse
	copyInto(&resp, m)
	return resp
}

func toUnitResponse(m *model.Unit) *dto.UnitResponse {
	var resp dto.UnitResponse
	copyInto(&resp, m)
	return &resp
}

func toBlockResponse(m *model.LearningBlock) dto.LearningBlockResponse {
	var resp dto.LearningBlockResponse
	copyInto(&resp, m)
	return resp
}

func toQuestionResponse(m *model.Question, withAnswer bool) dto.QuestionResponse {
	resp := dto.QuestionResponse{
		ID:           m.ID,
		AssessmentID: m.AssessmentID,
		Text:         m.Text,
		Type:         string(m.Type),
		Options:      append([]string(nil), m.Options...),
		Order:        m.Order,
	}
	if withAnswer {
		resp.CorrectAnswer = m.CorrectAnswer
	}
	return resp
}

func toAssessmentResponse(m *model.Assessment, questionCount int, withAnswers bool) *dto.AssessmentResponse {
	var resp dto.AssessmentResponse
	copyInto(&resp, m)
	resp.Owner = dto.AssessmentOwnerDTO{Type: string(m.Owner.Kind), ID: m.Owner.ID}
	resp.Questions = nil
	for i := range m.Questions {
		resp.Questions = append(resp.Questions, toQuestionResponse(&m.Questions[i], withAnswers))
	}
	if len(m.Questions) > 0 {
		questionCount = len(m.Questions)
	}
	resp.QuestionCount = questionCount
	return &resp
}

func toCertificateResponse(m *model.Certificate) *dto.CertificateResponse {
	var resp dto.CertificateResponse
	copyInto(&resp, m)
	return &resp
}

func toEnrollmentResponse(m *model.CourseEnrollment) dto.EnrollmentResponse {
	var resp dto.EnrollmentResponse
	copyInto(&resp, m)
	return resp
}

func toUserResponse(m *model.User) *dto.UserResponse {
	var resp dto.UserResponse
	copyInto(&resp, m)
	return &resp
}

func toNotificationResponse(m *model.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:        m.ID,
		Type:      string(m.Type),
		Title:     m.Title,
		Message:   m.Message,
		Payload:   m.Payload,
		Read:      m.Read,
		CreatedAt: m.CreatedAt,
	}
}
