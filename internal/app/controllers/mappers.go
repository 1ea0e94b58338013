package controllers

import (
	"github.com/campuslink/campuslink/internal/app/models"
	"github.com/campuslink/campuslink/internal/app/models/dto"
)

func toProfileBasic(p *models.Profile) *dto.ProfileBasicResponse {
	if p == nil {
		return nil
	}
	return &dto.ProfileBasicResponse{
		ID:        p.ID,
		FullName:  p.FullName,
		Headline:  p.Headline,
		Role:      p.Role,
		AvatarURL: p.AvatarURL,
	}
}

func toProfileResponse(p *models.Profile) dto.ProfileResponse {
	return dto.ProfileResponse{
		ID:             p.ID,
		Email:          p.Email,
		FullName:       p.FullName,
		Headline:       p.Headline,
		Bio:            p.Bio,
		Role:           p.Role,
		CollegeDomain:  p.CollegeDomain,
		GraduationYear: p.GraduationYear,
		AvatarURL:      p.AvatarURL,
		ResumeURL:      p.ResumeURL,
		LinkedinURL:    p.LinkedinURL,
		GithubURL:      p.GithubURL,
		CreatedAt:      p.CreatedAt,
		LastLoginAt:    p.LastLoginAt,
	}
}

func toConnectionResponse(c *models.Connection, viewerID string) dto.ConnectionResponse {
	peer := c.Requester
	if c.RequesterID == viewerID {
		peer = c.Receiver
	}
	return dto.ConnectionResponse{
		ID:          c.ID,
		RequesterID: c.RequesterID,
		ReceiverID:  c.ReceiverID,
		Status:      string(c.Status),
		Peer:        toProfileBasic(peer),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toMessageResponse(m *models.Message) dto.MessageResponse {
	return dto.MessageResponse{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Content:    m.Content,
		IsRead:     m.IsRead,
		Sender:     toProfileBasic(m.Sender),
		CreatedAt:  m.CreatedAt,
	}
}

func toConversationResponse(c *models.Conversation) dto.ConversationResponse {
	resp := dto.ConversationResponse{
		PeerID:      c.PeerID,
		Peer:        toProfileBasic(c.Peer),
		UnreadCount: c.UnreadCount,
		UpdatedAt:   c.UpdatedAt,
	}
	if c.LastMessage != nil {
		last := toMessageResponse(c.LastMessage)
		resp.LastMessage = &last
	}
	return resp
}

func toPostResponse(p *models.Post) dto.PostResponse {
	return dto.PostResponse{
		ID:            p.ID,
		Content:       p.Content,
		Author:        toProfileBasic(p.Author),
		AttachmentURL: p.AttachmentURL,
		CommentCount:  p.CommentCount,
		ReactionCount: p.ReactionCount,
		SavedByCaller: p.SavedByCaller,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toCommentResponse(c *models.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		Content:   c.Content,
		Author:    toProfileBasic(c.Author),
		CreatedAt: c.CreatedAt,
	}
}

func toEventResponse(e *models.Event) dto.EventResponse {
	return dto.EventResponse{
		ID:            e.ID,
		Title:         e.Title,
		Description:   e.Description,
		Location:      e.Location,
		StartsAt:      e.StartsAt,
		EndsAt:        e.EndsAt,
		Capacity:      e.Capacity,
		AttendeeCount: e.AttendeeCount,
		IsCancelled:   e.IsCancelled,
		Organizer:     toProfileBasic(e.Organizer),
		CreatedAt:     e.CreatedAt,
	}
}

func toProjectResponse(p *models.Project) dto.ProjectResponse {
	return dto.ProjectResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		TeamSize:    p.TeamSize,
		MemberCount: p.MemberCount,
		OpenRoles:   p.OpenRoles,
		IsOpen:      p.IsOpen,
		Owner:       toProfileBasic(p.Owner),
		CreatedAt:   p.CreatedAt,
	}
}

func toApplicationResponse(a *models.ProjectApplication) dto.ApplicationResponse {
	return dto.ApplicationResponse{
		ID:        a.ID,
		ProjectID: a.ProjectID,
		Status:    string(a.Status),
		Pitch:     a.Pitch,
		Applicant: toProfileBasic(a.Applicant),
		CreatedAt: a.CreatedAt,
	}
}

func toItemResponse(item *models.MarketplaceItem, saved bool) dto.ItemResponse {
	return dto.ItemResponse{
		ID:            item.ID,
		Title:         item.Title,
		Description:   item.Description,
		PriceCents:    item.PriceCents,
		ImageURL:      item.ImageURL,
		IsSold:        item.IsSold,
		Seller:        toProfileBasic(item.Seller),
		SavedByCaller: saved,
		CreatedAt:     item.CreatedAt,
	}
}
