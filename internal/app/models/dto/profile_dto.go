package dto

import "time"

// ProfileBasicResponse is the denormalized author/owner shape embedded in
// resource responses
type ProfileBasicResponse struct {
	ID        string  `json:"id"`
	FullName  string  `json:"fullName"`
	Headline  *string `json:"headline,omitempty"`
	Role      string  `json:"role"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

// ProfileResponse is the full profile shape
type ProfileResponse struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	FullName       string     `json:"fullName"`
	Headline       *string    `json:"headline,omitempty"`
	Bio            *string    `json:"bio,omitempty"`
	Role           string     `json:"role"`
	CollegeDomain  string     `json:"collegeDomain"`
	GraduationYear *int       `json:"graduationYear,omitempty"`
	AvatarURL      *string    `json:"avatarUrl,omitempty"`
	ResumeURL      *string    `json:"resumeUrl,omitempty"`
	LinkedinURL    *string    `json:"linkedinUrl,omitempty"`
	GithubURL      *string    `json:"githubUrl,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	LastLoginAt    *time.Time `json:"lastLoginAt,omitempty"`
}

// UpdateProfileRequest carries the mutable profile fields
type UpdateProfileRequest struct {
	FullName       *string `json:"fullName"`
	Headline       *string `json:"headline"`
	Bio            *string `json:"bio"`
	GraduationYear *int    `json:"graduationYear"`
	LinkedinURL    *string `json:"linkedinUrl"`
	GithubURL      *string `json:"githubUrl"`
}

// AddExperienceRequest creates an experience entry
type AddExperienceRequest struct {
	Title       string     `json:"title" binding:"required"`
	Company     string     `json:"company" binding:"required"`
	Description *string    `json:"description"`
	StartDate   time.Time  `json:"startDate" binding:"required"`
	EndDate     *time.Time `json:"endDate"`
}

// AddSkillRequest creates a skill entry
type AddSkillRequest struct {
	Name string `json:"name" binding:"required"`
}

// SkillAnalysisResponse is the derived skill-gap shape; cosmetic, may be empty
type SkillAnalysisResponse struct {
	TopSkills     []string `json:"topSkills"`
	MissingSkills []string `json:"missingSkills"`
}
