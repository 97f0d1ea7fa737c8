package authz

import (
	"context"
	"errors"
	"testing"

	"cfp/apperrors"
	"cfp/models"
	"cfp/permissions"
	"cfp/store"
	"cfp/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMembers struct {
	member    *models.TeamMember
	err       error
	lastRoles []models.Role
}

func (f *fakeMembers) FindMembership(_ context.Context, _ uint, _ string, roles ...models.Role) (*models.TeamMember, error) {
	f.lastRoles = roles
	if f.err != nil {
		return nil, f.err
	}
	if f.member == nil {
		return nil, store.ErrNotFound
	}
	if len(roles) > 0 {
		for _, r := range roles {
			if r == f.member.Role {
				return f.member, nil
			}
		}
		return nil, store.ErrNotFound
	}
	return f.member, nil
}

type fakeEvents struct {
	event *models.Event
}

func (f *fakeEvents) FindTeamEvent(_ context.Context, teamID uint, slug string) (*models.Event, error) {
	if f.event == nil || f.event.TeamID != teamID || f.event.Slug != slug {
		return nil, store.ErrNotFound
	}
	return f.event, nil
}

func TestRequireTeamCapabilityUsesRolePredicate(t *testing.T) {
	members := &fakeMembers{member: &models.TeamMember{TeamID: 1, UserID: 2, Role: models.RoleMember}}
	gate := NewGate(members, &fakeEvents{})

	member, err := gate.RequireTeamCapability(context.Background(), 2, "team", permissions.CanEditEvent)
	require.NoError(t, err)
	assert.Equal(t, models.RoleMember, member.Role)
	assert.ElementsMatch(t, []models.Role{models.RoleOwner, models.RoleMember}, members.lastRoles)

	_, err = gate.RequireTeamCapability(context.Background(), 2, "team", permissions.CanExportEventProposals)
	assert.ErrorIs(t, err, apperrors.ErrForbiddenOperation)
}

func TestRequireTeamCapabilityHidesMissingTeam(t *testing.T) {
	gate := NewGate(&fakeMembers{}, &fakeEvents{})

	_, err := gate.RequireTeamCapability(context.Background(), 2, "ghost", permissions.CanAccessTeam)
	assert.ErrorIs(t, err, apperrors.ErrForbiddenOperation)
}

func TestRequireTeamCapabilityPropagatesStoreFailure(t *testing.T) {
	gate := NewGate(&fakeMembers{err: errors.New("connection reset")}, &fakeEvents{})

	_, err := gate.RequireTeamCapability(context.Background(), 2, "team", permissions.CanAccessTeam)
	require.Error(t, err)
	assert.False(t, apperrors.IsBusiness(err))
}

func TestRequireEventCapability(t *testing.T) {
	members := &fakeMembers{member: &models.TeamMember{TeamID: 1, UserID: 2, Role: models.RoleReviewer}}
	events := &fakeEvents{event: &models.Event{ID: 10, TeamID: 1, Slug: "conf"}}
	gate := NewGate(members, events)

	access, err := gate.RequireEventCapability(context.Background(), 2, "team", "conf", permissions.CanAccessEvent)
	require.NoError(t, err)
	assert.Equal(t, uint(10), access.Event.ID)
	assert.True(t, access.Permissions.Has(permissions.CanReviewEventProposals))
	assert.False(t, access.Permissions.Has(permissions.CanEditEvent))

	_, err = gate.RequireEventCapability(context.Background(), 2, "team", "other", permissions.CanAccessEvent)
	assert.ErrorIs(t, err, apperrors.ErrForbiddenOperation)

	_, err = gate.RequireEventCapability(context.Background(), 2, "team", "conf", permissions.CanChangeProposalStatus)
	assert.ErrorIs(t, err, apperrors.ErrForbiddenOperation)
}

func TestEventAccessVisibility(t *testing.T) {
	owner := &EventAccess{
		Event:  &models.Event{DisplayProposalsReviews: false},
		Member: &models.TeamMember{Role: models.RoleOwner},
	}
	reviewer := &EventAccess{
		Event:  &models.Event{DisplayProposalsReviews: false, DisplayProposalsSpeakers: true},
		Member: &models.TeamMember{Role: models.RoleReviewer},
	}

	assert.True(t, owner.CanSeeTeamReviews())
	assert.False(t, reviewer.CanSeeTeamReviews())
	assert.True(t, reviewer.CanSeeSpeakers())
}

func TestPermissionsOf(t *testing.T) {
	gate := NewGate(&fakeMembers{member: &models.TeamMember{Role: models.RoleOwner}}, &fakeEvents{})
	perms, err := gate.PermissionsOf(context.Background(), 1, "team")
	require.NoError(t, err)
	assert.True(t, perms.Has(permissions.CanDeleteTeam))

	gate = NewGate(&fakeMembers{}, &fakeEvents{})
	perms, err = gate.PermissionsOf(context.Background(), 1, "team")
	require.NoError(t, err)
	assert.False(t, perms.Has(permissions.CanAccessTeam))
}

func TestGateAgainstStore(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)

	alice := fx.User("alice")
	bob := fx.User("bob")
	teamA := fx.Team("team-a")
	teamB := fx.Team("team-b")
	fx.Member(teamA, alice, models.RoleOwner)
	fx.Member(teamB, bob, models.RoleOwner)
	fx.Event(teamA, "conf-a")
	fx.Event(teamB, "conf-b")

	gate := NewGate(store.NewMemberships(db), store.NewEvents(db))
	ctx := context.Background()

	access, err := gate.RequireEventCapability(ctx, alice.ID, "team-a", "conf-a", permissions.CanExportEventProposals)
	require.NoError(t, err)
	assert.Equal(t, "conf-a", access.Event.Slug)
	require.NotNil(t, access.Member.Team)
	assert.Equal(t, "team-a", access.Member.Team.Slug)

	_, errOtherTeamsEvent := gate.RequireEventCapability(ctx, alice.ID, "team-a", "conf-b", permissions.CanAccessEvent)
	_, errNotMember := gate.RequireEventCapability(ctx, alice.ID, "team-b", "conf-b", permissions.CanAccessEvent)
	_, errNoTeam := gate.RequireEventCapability(ctx, alice.ID, "team-z", "conf-b", permissions.CanAccessEvent)

	for _, err := range []error{errOtherTeamsEvent, errNotMember, errNoTeam} {
		assert.ErrorIs(t, err, apperrors.ErrForbiddenOperation)
		assert.Equal(t, apperrors.ErrForbiddenOperation.Message, err.Error())
	}
}
