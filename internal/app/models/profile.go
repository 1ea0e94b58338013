package models

import (
	"time"
)

// Profile defines the user profile model based on the 'profiles' table.
// Every profile belongs to exactly one tenant (CollegeDomain); the domain is
// set at onboarding and never empty for an active account.
type Profile struct {
	ID             string     `json:"id" db:"id"`
	Email          string     `json:"email" db:"email"`
	Password       string     `json:"-" db:"password"`
	FullName       string     `json:"fullName" db:"full_name"`
	Headline       *string    `json:"headline,omitempty" db:"headline"`
	Bio            *string    `json:"bio,omitempty" db:"bio"`
	Role           string     `json:"role" db:"role"`
	CollegeDomain  string     `json:"collegeDomain" db:"college_domain"`
	GraduationYear *int       `json:"graduationYear,omitempty" db:"graduation_year"`
	AvatarURL      *string    `json:"avatarUrl,omitempty" db:"avatar_url"`
	ResumeURL      *string    `json:"resumeUrl,omitempty" db:"resume_url"`
	LinkedinURL    *string    `json:"linkedinUrl,omitempty" db:"linkedin_url"`
	GithubURL      *string    `json:"githubUrl,omitempty" db:"github_url"`
	IsActive       bool       `json:"isActive" db:"is_active"`
	EmailVerified  bool       `json:"emailVerified" db:"email_verified"`
	DeactivatedAt  *time.Time `json:"deactivatedAt,omitempty" db:"deactivated_at"`
	LastLoginAt    *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time  `json:"updatedAt" db:"updated_at"`
}

// Experience defines a work/education entry owned by a profile
type Experience struct {
	ID          string     `json:"id" db:"id"`
	ProfileID   string     `json:"profileId" db:"profile_id"`
	Title       string     `json:"title" db:"title"`
	Company     string     `json:"company" db:"company"`
	Description *string    `json:"description,omitempty" db:"description"`
	StartDate   time.Time  `json:"startDate" db:"start_date"`
	EndDate     *time.Time `json:"endDate,omitempty" db:"end_date"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
}

// Skill defines a named skill attached to a profile
type Skill struct {
	ID        string    `json:"id" db:"id"`
	ProfileID string    `json:"profileId" db:"profile_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
