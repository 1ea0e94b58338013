package permissions

import (
	"strings"
	"time"
)

// Role is one of the four canonical platform roles. Legacy role names from
// earlier releases (club, principal, dean and admin variants) are collapsed
// onto these by NormalizeRole at the boundary.
type Role string

const (
	RoleStudent      Role = "student"
	RoleAlumni       Role = "alumni"
	RoleFaculty      Role = "faculty"
	RoleOrganization Role = "organization"
)

// Capability is a named action gated by the role matrix.
type Capability string

const (
	CapCreatePost               Capability = "create_post"
	CapComment                  Capability = "comment"
	CapReact                    Capability = "react"
	CapSendConnectionRequest    Capability = "send_connection_request"
	CapMessageWithoutConnection Capability = "message_without_connection"
	CapCreateEvent              Capability = "create_event"
	CapPostJob                  Capability = "post_job"
	CapCreateProject            Capability = "create_project"
	CapListMarketplaceItem      Capability = "list_marketplace_item"
	CapMentor                   Capability = "mentor"
	CapModerateContent          Capability = "moderate_content"
	CapManagePlatform           Capability = "manage_platform"
)

// legacyRoles maps deprecated role names onto the canonical four.
var legacyRoles = map[string]Role{
	"club":         RoleOrganization,
	"organisation": RoleOrganization,
	"principal":    RoleFaculty,
	"dean":         RoleFaculty,
	"professor":    RoleFaculty,
	"alum":         RoleAlumni,
	"graduate":     RoleAlumni,
}

// matrix is the single consolidated role→capability table. Pure and static:
// recomputed from source on every call, never persisted.
var matrix = map[Role]map[Capability]bool{
	RoleStudent: {
		CapCreatePost:            true,
		CapComment:               true,
		CapReact:                 true,
		CapSendConnectionRequest: true,
		CapCreateProject:         true,
		CapListMarketplaceItem:   true,
	},
	RoleAlumni: {
		CapCreatePost:               true,
		CapComment:                  true,
		CapReact:                    true,
		CapSendConnectionRequest:    true,
		CapMessageWithoutConnection: true,
		CapCreateProject:            true,
		CapListMarketplaceItem:      true,
		CapPostJob:                  true,
		CapMentor:                   true,
	},
	RoleFaculty: {
		CapCreatePost:               true,
		CapComment:                  true,
		CapReact:                    true,
		CapSendConnectionRequest:    true,
		CapMessageWithoutConnection: true,
		CapCreateEvent:              true,
		CapCreateProject:            true,
		CapPostJob:                  true,
		CapMentor:                   true,
		CapModerateContent:          true,
		CapManagePlatform:           true,
	},
	RoleOrganization: {
		CapCreatePost:               true,
		CapComment:                  true,
		CapReact:                    true,
		CapSendConnectionRequest:    true,
		CapMessageWithoutConnection: true,
		CapCreateEvent:              true,
		CapPostJob:                  true,
		CapListMarketplaceItem:      true,
	},
}

// NormalizeRole collapses a raw role string (any casing, legacy names included)
// to a canonical Role. Unknown roles return ("", false).
func NormalizeRole(raw string) (Role, bool) {
	r := strings.ToLower(strings.TrimSpace(raw))
	switch Role(r) {
	case RoleStudent, RoleAlumni, RoleFaculty, RoleOrganization:
		return Role(r), true
	}
	if canonical, ok := legacyRoles[r]; ok {
		return canonical, true
	}
	return "", false
}

// HasPermission is a pure table lookup: unknown roles and unknown capabilities
// yield false (closed-world default deny).
func HasPermission(role Role, capability Capability) bool {
	caps, ok := matrix[role]
	if !ok {
		return false
	}
	return caps[capability]
}

// HasPermissionRaw normalizes a raw role string before the lookup.
func HasPermissionRaw(rawRole string, capability Capability) bool {
	role, ok := NormalizeRole(rawRole)
	if !ok {
		return false
	}
	return HasPermission(role, capability)
}

// CanMessageWithoutConnection reports whether role belongs to the privileged
// set that may message users without a prior accepted connection.
func CanMessageWithoutConnection(role Role) bool {
	return HasPermission(role, CapMessageWithoutConnection)
}

// ClassifyByGraduationYear derives the role of a student-track account from
// its graduation year: once the year has passed the account is alumni.
func ClassifyByGraduationYear(graduationYear int, now time.Time) Role {
	if graduationYear < now.Year() {
		return RoleAlumni
	}
	return RoleStudent
}
