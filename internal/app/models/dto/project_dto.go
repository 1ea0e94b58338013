package dto

import "time"

// CreateProjectRequest creates a team-up project
type CreateProjectRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	TeamSize    int    `json:"teamSize" binding:"required,min=1"`
}

// UpdateProjectRequest edits a project
type UpdateProjectRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	TeamSize    int    `json:"teamSize" binding:"required,min=1"`
	IsOpen      bool   `json:"isOpen"`
}

// ProjectResponse is the wire shape of a project
type ProjectResponse struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	TeamSize    int                   `json:"teamSize"`
	MemberCount int                   `json:"memberCount"`
	OpenRoles   int                   `json:"openRoles"`
	IsOpen      bool                  `json:"isOpen"`
	Owner       *ProfileBasicResponse `json:"owner,omitempty"`
	CreatedAt   time.Time             `json:"createdAt"`
}

// ProjectListResponse is a page of projects
type ProjectListResponse struct {
	Projects       []ProjectResponse `json:"projects"`
	PaginationInfo PaginationInfo    `json:"pagination"`
}

// ApplyToProjectRequest asks to join a project
type ApplyToProjectRequest struct {
	Pitch *string `json:"pitch"`
}

// ApplicationResponse is the wire shape of a project application
type ApplicationResponse struct {
	ID        string                `json:"id"`
	ProjectID string                `json:"projectId"`
	Status    string                `json:"status"`
	Pitch     *string               `json:"pitch,omitempty"`
	Applicant *ProfileBasicResponse `json:"applicant,omitempty"`
	CreatedAt time.Time             `json:"createdAt"`
}
