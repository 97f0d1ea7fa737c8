package permissions

import (
	"testing"

	"cfp/models"

	"github.com/stretchr/testify/assert"
)

func TestMatrixIsConsistent(t *testing.T) {
	for _, role := range models.Roles {
		set := CapabilitiesOf(role)
		for _, c := range Capabilities {
			assert.Equal(t, set[c], contains(RolesGranting(c), role), "role %s capability %s", role, c)
			assert.Equal(t, set[c], Grants(role, c))
		}
	}
}

func TestEveryCapabilityIsListed(t *testing.T) {
	assert.Len(t, Capabilities, len(matrix))
	for _, c := range Capabilities {
		_, ok := matrix[c]
		assert.True(t, ok, "capability %s missing from matrix", c)
	}
}

func TestOwnerHasSuperset(t *testing.T) {
	owner := CapabilitiesOf(models.RoleOwner)
	for _, role := range []models.Role{models.RoleMember, models.RoleReviewer} {
		for c, granted := range CapabilitiesOf(role) {
			if granted && c != CanLeaveTeam {
				assert.True(t, owner[c], "owner lacks %s held by %s", c, role)
			}
		}
	}
}

func TestMemberCapabilities(t *testing.T) {
	member := CapabilitiesOf(models.RoleMember)

	assert.True(t, member.Has(CanEditEvent))
	assert.True(t, member.Has(CanChangeProposalStatus))
	assert.True(t, member.Has(CanEditEventProposal))
	assert.False(t, member.Has(CanManageTeamMembers))
	assert.False(t, member.Has(CanDeleteTeam))
	assert.False(t, member.Has(CanExportEventProposals))
}

func TestReviewerCapabilities(t *testing.T) {
	reviewer := CapabilitiesOf(models.RoleReviewer)

	assert.True(t, reviewer.Has(CanAccessEvent))
	assert.True(t, reviewer.Has(CanReviewEventProposals))
	assert.False(t, reviewer.Has(CanEditEvent))
	assert.False(t, reviewer.Has(CanExportEventProposals))
	assert.False(t, reviewer.Has(CanChangeProposalStatus))
}

func TestUnknownRoleHasNothing(t *testing.T) {
	for c, granted := range CapabilitiesOf(models.Role("GUEST")) {
		assert.False(t, granted, c)
	}
}

func TestRolesGrantingReturnsCopy(t *testing.T) {
	roles := RolesGranting(CanAccessEvent)
	roles[0] = "MUTATED"

	assert.Equal(t, models.RoleOwner, RolesGranting(CanAccessEvent)[0])
}

func contains(roles []models.Role, role models.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
