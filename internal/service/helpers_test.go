package service

import (
	"testing"

	"github.com/vxacademy/academy/config"
	"github.com/vxacademy/academy/internal/mailer"
	"github.com/vxacademy/academy/internal/repository"
	"github.com/vxacademy/academy/internal/testutil"
	"gorm.io/gorm"
)

// env is every service wired on one in-memory database.
type env struct {
	db           *gorm.DB
	cfg          *config.Config
	mail         *mailer.LogMailer
	content      ContentService
	progress     ProgressService
	assessments  AssessmentService
	certificates CertificateService
	enrollments  EnrollmentService
	badges       BadgeService
	users        UserService
	orgs         OrganizationService
	roles        RoleService
	reports      *reportService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.NewDB(t)
	cfg := testutil.Config()

	areaRepo := repository.NewTrainingAreaRepository(db)
	moduleRepo := repository.NewModuleRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	unitRepo := repository.NewUnitRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	certRepo := repository.NewCertificateRepository(db)

	e := &env{db: db, cfg: cfg, mail: mailer.NewLogMailer()}
	e.content = NewContentService(db, areaRepo, moduleRepo, courseRepo, unitRepo, progressRepo, userRepo, notificationRepo)
	e.progress = NewProgressService(db, cfg, progressRepo, courseRepo, moduleRepo, unitRepo, userRepo, enrollmentRepo, notificationRepo)
	e.certificates = NewCertificateService(db, cfg, certRepo, userRepo, courseRepo, notificationRepo, e.mail)
	e.assessments = NewAssessmentService(db,
		repository.NewAssessmentRepository(db),
		repository.NewQuestionRepository(db),
		repository.NewAttemptRepository(db),
		areaRepo, moduleRepo, courseRepo, unitRepo, userRepo,
		e.progress, e.certificates,
	)
	e.enrollments = NewEnrollmentService(enrollmentRepo, userRepo, courseRepo)
	e.badges = NewBadgeService(db, repository.NewBadgeRepository(db), userRepo, notificationRepo)
	e.users = NewUserService(db, cfg, userRepo, orgRepo, roleRepo)
	e.orgs = NewOrganizationService(orgRepo)
	e.roles = NewRoleService(db, roleRepo, orgRepo, unitRepo)
	e.reports = NewReportService(repository.NewReportRepository(db)).(*reportService)
	return e
}

func uptr(v uint) *uint { return &v }
