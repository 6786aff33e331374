package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vxacademy/academy/internal/apperr"
	"github.com/vxacademy/academy/internal/dto"
	"github.com/vxacademy/academy/internal/testutil"
)

type roleFixture struct {
	categoryID, seniorityID, assetID uint
}

func seedRoleFixture(t *testing.T, e *env) roleFixture {
	t.Helper()
	ctx := context.Background()
	cat, err := e.roles.CreateCategory(ctx, dto.RoleCategoryRequest{Name: "Operations"})
	require.NoError(t, err)
	lvl, err := e.roles.CreateSeniority(ctx, dto.SeniorityLevelRequest{Name: "Junior", Rank: 1})
	require.NoError(t, err)
	asset, err := e.orgs.CreateAsset(ctx, dto.NamedRequest{Name: "Plant 1"})
	require.NoError(t, err)
	return roleFixture{categoryID: cat.ID, seniorityID: lvl.ID, assetID: asset.ID}
}

func (f roleFixture) request(name string, units ...uint) dto.AssignmentRequest {
	return dto.AssignmentRequest{
		Name:             name,
		RoleCategoryID:   f.categoryID,
		SeniorityLevelID: f.seniorityID,
		AssetID:          f.assetID,
		UnitIDs:          units,
	}
}

func TestAssignmentUnitsFor(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := testutil.SeedHierarchy(t, e.db, 0, 0, 0)
	f := seedRoleFixture(t, e)

	a, err := e.roles.CreateAssignment(ctx, f.request("Onboarding", h.Units[2].ID, h.Units[0].ID, h.Units[0].ID))
	require.NoError(t, err)
	assert.Equal(t, []uint{h.Units[0].ID, h.Units[2].ID}, a.UnitIDs)

	units, err := e.roles.UnitsFor(ctx, f.categoryID, f.seniorityID, f.assetID)
	require.NoError(t, err)
	assert.Len(t, units, 2)

	none, err := e.roles.UnitsFor(ctx, f.categoryID, f.seniorityID, f.assetID+1)
	require.NoError(t, err)
	assert.Empty(t, none)

	updated, err := e.roles.UpdateAssignment(ctx, a.ID, f.request("Onboarding", h.Units[1].ID))
	require.NoError(t, err)
	assert.Equal(t, []uint{h.Units[1].ID}, updated.UnitIDs)
}

func TestAssignmentConflictAndMissingUnit(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := testutil.SeedHierarchy(t, e.db, 0)
	f := seedRoleFixture(t, e)

	_, err := e.roles.CreateAssignment(ctx, f.request("Onboarding", h.Units[0].ID))
	require.NoError(t, err)
	_, err = e.roles.CreateAssignment(ctx, f.request("Onboarding"))
	assert.True(t, apperr.IsConflict(err))

	_, err = e.roles.CreateAssignment(ctx, f.request("Refresher", 9999))
	assert.True(t, apperr.IsNotFound(err))

	bad := f.request("Refresher")
	bad.AssetID = 9999
	_, err = e.roles.CreateAssignment(ctx, bad)
	assert.True(t, apperr.IsNotFound(err))

	list, err := e.roles.ListAssignments(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRolesByCategory(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	f := seedRoleFixture(t, e)

	_, err := e.roles.CreateRole(ctx, dto.RoleRequest{RoleCategoryID: f.categoryID, Name: "Forklift driver"})
	require.NoError(t, err)
	_, err = e.roles.CreateRole(ctx, dto.RoleRequest{RoleCategoryID: 777, Name: "Ghost"})
	assert.True(t, apperr.IsNotFound(err))

	roles, err := e.roles.ListRoles(ctx, &f.categoryID)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, "Forklift driver", roles[0].Name)
}

func TestSubOrganizationBelongsToOrganization(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.orgs.CreateSubOrganization(ctx, dto.SubOrganizationRequest{OrganizationID: 5, Name: "Night shift"})
	assert.True(t, apperr.IsNotFound(err))

	org, err := e.orgs.CreateOrganization(ctx, dto.OrganizationRequest{Name: "Contractor Ltd"})
	require.NoError(t, err)
	sub, err := e.orgs.CreateSubOrganization(ctx, dto.SubOrganizationRequest{OrganizationID: org.ID, Name: "Night shift"})
	require.NoError(t, err)

	subs, err := e.orgs.ListSubOrganizations(ctx, &org.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, sub.ID, subs[0].ID)

	found, err := e.orgs.ListOrganizations(ctx, "contract")
	require.NoError(t, err)
	assert.Len(t, found, 1)
}
