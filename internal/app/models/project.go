package models

import "time"

// ApplicationStatus is the state of a project application
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

// Project defines the team-up/project model based on the 'projects' table.
// MemberCount and OpenRoles are counters recomputed from membership rows, not
// incremented, so a retried step converges.
type Project struct {
	ID            string    `json:"id" db:"id"`
	OwnerID       string    `json:"ownerId" db:"owner_id"`
	Title         string    `json:"title" db:"title"`
	Description   string    `json:"description" db:"description"`
	CollegeDomain string    `json:"collegeDomain" db:"college_domain"`
	TeamSize      int       `json:"teamSize" db:"team_size"`
	MemberCount   int       `json:"memberCount" db:"member_count"`
	OpenRoles     int       `json:"openRoles" db:"open_roles"`
	IsOpen        bool      `json:"isOpen" db:"is_open"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`

	Owner *Profile `json:"owner,omitempty"`
}

// ProjectApplication defines a request to join a project
type ProjectApplication struct {
	ID          string            `json:"id" db:"id"`
	ProjectID   string            `json:"projectId" db:"project_id"`
	ApplicantID string            `json:"applicantId" db:"applicant_id"`
	Pitch       *string           `json:"pitch,omitempty" db:"pitch"`
	Status      ApplicationStatus `json:"status" db:"status"`
	CreatedAt   time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time         `json:"updatedAt" db:"updated_at"`

	Applicant *Profile `json:"applicant,omitempty"`
}

// ProjectMember defines an accepted membership row
type ProjectMember struct {
	ID        string    `json:"id" db:"id"`
	ProjectID string    `json:"projectId" db:"project_id"`
	ProfileID string    `json:"profileId" db:"profile_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
