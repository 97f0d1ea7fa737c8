// Package authz enforces team role capabilities before any team or event
// scoped operation runs.
package authz

import (
	"context"
	"errors"
	"fmt"

	"cfp/apperrors"
	"cfp/models"
	"cfp/permissions"
	"cfp/store"
)

type MembershipStore interface {
	FindMembership(ctx context.Context, userID uint, teamSlug string, roles ...models.Role) (*models.TeamMember, error)
}

type EventStore interface {
	FindTeamEvent(ctx context.Context, teamID uint, eventSlug string) (*models.Event, error)
}

// EventAccess is what a successful event check resolves to: the event, the
// caller's membership in its team, and the caller's full capability set.
type EventAccess struct {
	Event       *models.Event
	Member      *models.TeamMember
	Permissions permissions.Set
}

// CanSeeTeamReviews reports whether team-wide review summaries are shown to
// this caller. Owners always see them.
func (a *EventAccess) CanSeeTeamReviews() bool {
	return a.Event.DisplayProposalsReviews || a.Member.IsOwner()
}

// CanSeeSpeakers reports whether speaker identities are disclosed.
func (a *EventAccess) CanSeeSpeakers() bool {
	return a.Event.DisplayProposalsSpeakers
}

type Gate struct {
	members MembershipStore
	events  EventStore
}

func NewGate(members MembershipStore, events EventStore) *Gate {
	return &Gate{members: members, events: events}
}

// RequireTeamCapability resolves the caller's membership when their role
// grants capability. A missing team and a missing permission fail the same
// way.
func (g *Gate) RequireTeamCapability(ctx context.Context, userID uint, teamSlug string, capability permissions.Capability) (*models.TeamMember, error) {
	member, err := g.members.FindMembership(ctx, userID, teamSlug, permissions.RolesGranting(capability)...)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.ErrForbiddenOperation
	}
	if err != nil {
		return nil, fmt.Errorf("authorize team %s: %w", teamSlug, err)
	}
	return member, nil
}

// RequireEventCapability is RequireTeamCapability plus the event lookup. An
// event slug that exists under another team fails like a missing one.
func (g *Gate) RequireEventCapability(ctx context.Context, userID uint, teamSlug, eventSlug string, capability permissions.Capability) (*EventAccess, error) {
	member, err := g.RequireTeamCapability(ctx, userID, teamSlug, capability)
	if err != nil {
		return nil, err
	}

	event, err := g.events.FindTeamEvent(ctx, member.TeamID, eventSlug)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.ErrForbiddenOperation
	}
	if err != nil {
		return nil, fmt.Errorf("authorize event %s: %w", eventSlug, err)
	}

	return &EventAccess{
		Event:       event,
		Member:      member,
		Permissions: permissions.CapabilitiesOf(member.Role),
	}, nil
}

// PermissionsOf returns the caller's capabilities in the team without failing
// on a missing membership: non-members get an all-false set.
func (g *Gate) PermissionsOf(ctx context.Context, userID uint, teamSlug string) (permissions.Set, error) {
	member, err := g.members.FindMembership(ctx, userID, teamSlug)
	if errors.Is(err, store.ErrNotFound) {
		return permissions.CapabilitiesOf(""), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load permissions for team %s: %w", teamSlug, err)
	}
	return permissions.CapabilitiesOf(member.Role), nil
}
