// Package permissions maps team roles to the capabilities they grant.
//
// The mapping is a plain table keyed by capability. Nothing here touches the
// store; the authorization gate turns RolesGranting into a single
// "role IN (...)" predicate.
package permissions

import (
	"cfp/models"
)

type Capability string

const (
	CanAccessTeam           Capability = "canAccessTeam"
	CanEditTeam             Capability = "canEditTeam"
	CanManageTeamMembers    Capability = "canManageTeamMembers"
	CanDeleteTeam           Capability = "canDeleteTeam"
	CanLeaveTeam            Capability = "canLeaveTeam"
	CanAccessEvent          Capability = "canAccessEvent"
	CanCreateEvent          Capability = "canCreateEvent"
	CanEditEvent            Capability = "canEditEvent"
	CanDeleteEvent          Capability = "canDeleteEvent"
	CanReviewEventProposals Capability = "canReviewEventProposals"
	CanViewSpeakerInfo      Capability = "canViewSpeakerInfo"
	CanCreateEventProposal  Capability = "canCreateEventProposal"
	CanEditEventProposal    Capability = "canEditEventProposal"
	CanChangeProposalStatus Capability = "canChangeProposalStatus"
	CanPublishEventResults  Capability = "canPublishEventResults"
	CanExportEventProposals Capability = "canExportEventProposals"
)

var (
	all            = []models.Role{models.RoleOwner, models.RoleMember, models.RoleReviewer}
	ownerAndMember = []models.Role{models.RoleOwner, models.RoleMember}
	ownerOnly      = []models.Role{models.RoleOwner}
	notOwner       = []models.Role{models.RoleMember, models.RoleReviewer}
)

var matrix = map[Capability][]models.Role{
	CanAccessTeam:           all,
	CanEditTeam:             ownerOnly,
	CanManageTeamMembers:    ownerOnly,
	CanDeleteTeam:           ownerOnly,
	CanLeaveTeam:            notOwner,
	CanAccessEvent:          all,
	CanCreateEvent:          ownerOnly,
	CanEditEvent:            ownerAndMember,
	CanDeleteEvent:          ownerOnly,
	CanReviewEventProposals: all,
	CanViewSpeakerInfo:      all,
	CanCreateEventProposal:  ownerAndMember,
	CanEditEventProposal:    ownerAndMember,
	CanChangeProposalStatus: ownerAndMember,
	CanPublishEventResults:  ownerAndMember,
	CanExportEventProposals: ownerOnly,
}

// Capabilities lists every capability in a stable order.
var Capabilities = []Capability{
	CanAccessTeam,
	CanEditTeam,
	CanManageTeamMembers,
	CanDeleteTeam,
	CanLeaveTeam,
	CanAccessEvent,
	CanCreateEvent,
	CanEditEvent,
	CanDeleteEvent,
	CanReviewEventProposals,
	CanViewSpeakerInfo,
	CanCreateEventProposal,
	CanEditEventProposal,
	CanChangeProposalStatus,
	CanPublishEventResults,
	CanExportEventProposals,
}

// Set is the set of capabilities held by a role. Missing keys are false.
type Set map[Capability]bool

func (s Set) Has(c Capability) bool {
	return s[c]
}

// CapabilitiesOf returns the full capability set for role. Unknown roles get
// every capability set to false.
func CapabilitiesOf(role models.Role) Set {
	set := make(Set, len(Capabilities))
	for _, c := range Capabilities {
		set[c] = false
		for _, r := range matrix[c] {
			if r == role {
				set[c] = true
				break
			}
		}
	}
	return set
}

// RolesGranting returns the roles holding capability c. The returned slice is
// a copy.
func RolesGranting(c Capability) []models.Role {
	roles := matrix[c]
	out := make([]models.Role, len(roles))
	copy(out, roles)
	return out
}

// Grants reports whether role holds capability c.
func Grants(role models.Role, c Capability) bool {
	for _, r := range matrix[c] {
		if r == role {
			return true
		}
	}
	return false
}
