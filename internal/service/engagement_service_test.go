package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vxacademy/academy/internal/apperr"
	"github.com/vxacademy/academy/internal/dto"
	"github.com/vxacademy/academy/internal/model"
	"github.com/vxacademy/academy/internal/repository"
	"github.com/vxacademy/academy/internal/testutil"
)

func TestIssueCertificateIsIdempotent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := testutil.SeedHierarchy(t, e.db, 0)
	learner := testutil.SeedLearner(t, e.db, "Niklaus Wirth")

	first, err := e.certificates.Issue(ctx, learner.ID, h.Course.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first.CertificateNumber, "VXA-"))
	assert.Len(t, first.CertificateNumber, len("VXA-2026-")+12)
	assert.WithinDuration(t, first.IssueDate.AddDate(0, 0, 365), first.ExpiryDate, time.Second)

	again, err := e.certificates.Issue(ctx, learner.ID, h.Course.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Len(t, e.mail.Sent(), 1)

	list, err := e.certificates.ListByUser(ctx, learner.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = e.certificates.Issue(ctx, learner.ID, 999)
	assert.True(t, apperr.IsNotFound(err))
}

func TestIssueDrawsAnotherNumberOnCollision(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := testutil.SeedHierarchy(t, e.db, 0)
	first := testutil.SeedLearner(t, e.db, "Carl Hewitt")
	second := testutil.SeedLearner(t, e.db, "Leslie Lamport")

	numbers := []string{"VXA-2026-AAAAAAAAAAAA", "VXA-2026-AAAAAAAAAAAA", "VXA-2026-BBBBBBBBBBBB"}
	certs := e.certificates.(*certificateService)
	certs.number = func(time.Time) string {
		n := numbers[0]
		numbers = numbers[1:]
		return n
	}

	a, err := e.certificates.Issue(ctx, first.ID, h.Course.ID)
	require.NoError(t, err)
	b, err := e.certificates.Issue(ctx, second.ID, h.Course.ID)
	require.NoError(t, err)

	assert.Equal(t, "VXA-2026-AAAAAAAAAAAA", a.CertificateNumber)
	assert.Equal(t, "VXA-2026-BBBBBBBBBBBB", b.CertificateNumber)
	assert.Empty(t, numbers)
	assert.Len(t, e.mail.Sent(), 2)
}

func TestRevokedCertificateCanBeReissued(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := testutil.SeedHierarchy(t, e.db, 0)
	learner := testutil.SeedLearner(t, e.db, "Tony Hoare")

	cert, err := e.certificates.Issue(ctx, learner.ID, h.Course.ID)
	require.NoError(t, err)
	revoked, err := e.certificates.Revoke(ctx, cert.ID)
	require.NoError(t, err)
	assert.Equal(t, "revoked", revoked.Status)

	_, err = e.certificates.Revoke(ctx, cert.ID)
	assert.True(t, apperr.IsValidation(err))

	fresh, err := e.certificates.Issue(ctx, learner.ID, h.Course.ID)
	require.NoError(t, err)
	assert.NotEqual(t, cert.ID, fresh.ID)
}

func TestExpireDueFlipsStatusAndNotifies(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := testutil.SeedHierarchy(t, e.db, 0)
	learner := testutil.SeedLearner(t, e.db, "Leslie Lamport")

	cert, err := e.certificates.Issue(ctx, learner.ID, h.Course.ID)
	require.NoError(t, err)

	n, err := e.certificates.ExpireDue(ctx, time.Now())
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = e.certificates.ExpireDue(ctx, cert.ExpiryDate.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var stored model.Certificate
	require.NoError(t, e.db.First(&stored, cert.ID).Error)
	assert.Equal(t, model.CertificateExpired, stored.Status)

	var expired int64
	require.NoError(t, e.db.Model(&model.Notification{}).
		Where("user_id = ? AND type = ?", learner.ID, model.NotificationCertificateExpired).
		Count(&expired).Error)
	assert.EqualValues(t, 1, expired)

	n, err = e.certificates.ExpireDue(ctx, cert.ExpiryDate.Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAwardBadgeOnce(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	learner := testutil.SeedLearner(t, e.db, "Margaret Hamilton")

	badge, err := e.badges.CreateBadge(ctx, dto.CreateBadgeRequest{Name: "First steps", XPPoints: 15})
	require.NoError(t, err)
	_, err = e.badges.CreateBadge(ctx, dto.CreateBadgeRequest{Name: "First steps"})
	assert.True(t, apperr.IsConflict(err))

	got, err := e.badges.Award(ctx, badge.ID, dto.AwardBadgeRequest{UserID: learner.ID})
	require.NoError(t, err)
	assert.Equal(t, "First steps", got.Name)

	_, err = e.badges.Award(ctx, badge.ID, dto.AwardBadgeRequest{UserID: learner.ID})
	assert.True(t, apperr.IsConflict(err))

	var user model.User
	require.NoError(t, e.db.First(&user, learner.ID).Error)
	assert.Equal(t, 15, user.XP)

	owned, err := e.badges.ListUserBadges(ctx, learner.ID)
	require.NoError(t, err)
	assert.Len(t, owned, 1)
}

func TestNotificationsMarkRead(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	learner := testutil.SeedLearner(t, e.db, "Radia Perlman")
	other := testutil.SeedLearner(t, e.db, "Vint Cerf")
	notifications := NewNotificationService(repository.NewNotificationRepository(e.db), repository.NewUserRepository(e.db))

	badge, err := e.badges.CreateBadge(ctx, dto.CreateBadgeRequest{Name: "Networker"})
	require.NoError(t, err)
	_, err = e.badges.Award(ctx, badge.ID, dto.AwardBadgeRequest{UserID: learner.ID})
	require.NoError(t, err)

	unread, err := notifications.List(ctx, learner.ID, true)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "badge_earned", unread[0].Type)

	assert.True(t, apperr.IsNotFound(notifications.MarkRead(ctx, other.ID, unread[0].ID)))
	require.NoError(t, notifications.MarkRead(ctx, learner.ID, unread[0].ID))

	unread, err = notifications.List(ctx, learner.ID, true)
	require.NoError(t, err)
	assert.Empty(t, unread)
	all, err := notifications.List(ctx, learner.ID, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestEnrollOncePerCourse(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := testutil.SeedHierarchy(t, e.db, 0)
	learner := testutil.SeedLearner(t, e.db, "Dennis Ritchie")

	got, err := e.enrollments.Enroll(ctx, h.Course.ID, dto.EnrollRequest{UserID: learner.ID})
	require.NoError(t, err)
	assert.Equal(t, "admin", got.Source)

	_, err = e.enrollments.Enroll(ctx, h.Course.ID, dto.EnrollRequest{UserID: learner.ID, Source: "self"})
	assert.True(t, apperr.IsConflict(err))

	_, err = e.enrollments.Enroll(ctx, 4040, dto.EnrollRequest{UserID: learner.ID})
	assert.True(t, apperr.IsNotFound(err))

	byCourse, err := e.enrollments.ListByCourse(ctx, h.Course.ID)
	require.NoError(t, err)
	assert.Len(t, byCourse, 1)
}
