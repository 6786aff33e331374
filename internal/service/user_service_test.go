package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vxacademy/academy/internal/apperr"
	"github.com/vxacademy/academy/internal/dto"
	"github.com/vxacademy/academy/internal/model"
	"github.com/vxacademy/academy/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

func learnerRequest(email, eid string) dto.CreateUserRequest {
	return dto.CreateUserRequest{
		Name:             "Site Operator",
		Email:            email,
		Password:         "correct horse",
		UserType:         "user",
		NormalUserDetail: &dto.NormalUserDetailDTO{EID: eid},
	}
}

func TestCreateUserHashesPasswordAndNormalisesEmail(t *testing.T) {
	e := newEnv(t)
	got, err := e.users.CreateUser(context.Background(), learnerRequest(" Operator@Example.COM ", "EID-1"))
	require.NoError(t, err)
	assert.Equal(t, "operator@example.com", got.Email)
	require.NotNil(t, got.NormalUserDetail)
	assert.Equal(t, "EID-1", got.NormalUserDetail.EID)

	var stored model.User
	require.NoError(t, e.db.First(&stored, got.ID).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("correct horse")))
}

func TestCreateUserConflicts(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, err := e.users.CreateUser(ctx, learnerRequest("a@example.com", "EID-1"))
	require.NoError(t, err)

	_, err = e.users.CreateUser(ctx, learnerRequest("A@example.com", "EID-2"))
	assert.True(t, apperr.IsConflict(err), "email is case insensitive")

	sub := dto.CreateUserRequest{
		Name: "Supervisor", Email: "b@example.com", Password: "correct horse", UserType: "sub_admin",
		SubAdminDetail: &dto.SubAdminDetailDTO{EID: "EID-1"},
	}
	_, err = e.users.CreateUser(ctx, sub)
	assert.True(t, apperr.IsConflict(err), "eid is unique across both detail kinds")
}

func TestCreateUserDetailMustMatchType(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	req := learnerRequest("c@example.com", "EID-3")
	req.NormalUserDetail = nil
	_, err := e.users.CreateUser(ctx, req)
	assert.True(t, apperr.IsValidation(err))

	req = learnerRequest("c@example.com", "EID-3")
	req.UserType = "admin"
	_, err = e.users.CreateUser(ctx, req)
	assert.True(t, apperr.IsValidation(err))

	req = learnerRequest("c@example.com", "EID-3")
	req.SubAdminDetail = &dto.SubAdminDetailDTO{EID: "EID-4"}
	_, err = e.users.CreateUser(ctx, req)
	assert.True(t, apperr.IsValidation(err))

	admin := dto.CreateUserRequest{Name: "Root", Email: "root@example.com", Password: "correct horse", UserType: "admin"}
	got, err := e.users.CreateUser(ctx, admin)
	require.NoError(t, err)
	assert.Nil(t, got.SubAdminDetail)
	assert.Nil(t, got.NormalUserDetail)
}

func TestCreateUserChecksClassification(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	asset, err := e.orgs.CreateAsset(ctx, dto.NamedRequest{Name: "Terminal A"})
	require.NoError(t, err)
	otherAsset, err := e.orgs.CreateAsset(ctx, dto.NamedRequest{Name: "Terminal B"})
	require.NoError(t, err)
	sub, err := e.orgs.CreateSubAsset(ctx, dto.SubAssetRequest{AssetID: otherAsset.ID, Name: "Gate 4"})
	require.NoError(t, err)

	req := learnerRequest("d@example.com", "EID-5")
	req.AssetID, req.SubAssetID = &asset.ID, &sub.ID
	_, err = e.users.CreateUser(ctx, req)
	assert.True(t, apperr.IsValidation(err))

	req.AssetID = &otherAsset.ID
	got, err := e.users.CreateUser(ctx, req)
	require.NoError(t, err)

	filtered, err := e.users.ListUsers(ctx, repository.UserFilter{AssetID: &otherAsset.ID})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, got.ID, filtered[0].ID)

	req = learnerRequest("e@example.com", "EID-6")
	req.OrganizationID = uptr(999)
	_, err = e.users.CreateUser(ctx, req)
	assert.True(t, apperr.IsNotFound(err))
}

func TestUpdateUserKeepsType(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	created, err := e.users.CreateUser(ctx, learnerRequest("f@example.com", "EID-7"))
	require.NoError(t, err)

	_, err = e.users.UpdateUser(ctx, created.ID, dto.UpdateUserRequest{SubAdminDetail: &dto.SubAdminDetailDTO{EID: "EID-8"}})
	assert.True(t, apperr.IsValidation(err))

	name := "Renamed"
	got, err := e.users.UpdateUser(ctx, created.ID, dto.UpdateUserRequest{
		Name:             &name,
		NormalUserDetail: &dto.NormalUserDetailDTO{EID: "EID-9"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, "EID-9", got.NormalUserDetail.EID)

	var details int64
	require.NoError(t, e.db.Model(&model.NormalUserDetail{}).Count(&details).Error)
	assert.EqualValues(t, 1, details)
}

func TestDeleteUserRemovesActivity(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	created, err := e.users.CreateUser(ctx, learnerRequest("g@example.com", "EID-10"))
	require.NoError(t, err)

	require.NoError(t, e.users.DeleteUser(ctx, created.ID))
	_, err = e.users.GetUser(ctx, created.ID)
	assert.True(t, apperr.IsNotFound(err))

	var details int64
	require.NoError(t, e.db.Model(&model.NormalUserDetail{}).Count(&details).Error)
	assert.Zero(t, details)
}

func TestListUsersRejectsUnknownType(t *testing.T) {
	e := newEnv(t)
	bad := model.UserType("guest")
	_, err := e.users.ListUsers(context.Background(), repository.UserFilter{UserType: &bad})
	assert.True(t, apperr.IsValidation(err))
}
