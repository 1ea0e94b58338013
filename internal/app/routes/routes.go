package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/campuslink/campuslink/internal/app/controllers"
)

// Controllers groups everything SetupRouter needs to register endpoints
type Controllers struct {
	Auth        *controllers.AuthController
	Profile     *controllers.ProfileController
	Connection  *controllers.ConnectionController
	Message     *controllers.MessageController
	Post        *controllers.PostController
	Event       *controllers.EventController
	Project     *controllers.ProjectController
	Marketplace *controllers.MarketplaceController
	Moderation  *controllers.ModerationController
	Realtime    *controllers.RealtimeController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c *Controllers, authRequired gin.HandlerFunc) {
	v1 := router.Group("/api/v1")

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.Auth.Register)
		auth.POST("/login", c.Auth.Login)
		auth.POST("/refresh", c.Auth.RefreshToken)
		auth.GET("/verify-email", c.Auth.VerifyEmail)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authRequired)
	{
		authenticated.POST("/auth/logout", c.Auth.Logout)

		profiles := authenticated.Group("/profiles")
		{
			profiles.GET("", c.Profile.Search)
			profiles.GET("/me", c.Profile.GetMe)
			profiles.PUT("/me", c.Profile.Update)
			profiles.DELETE("/me", c.Profile.Deactivate)
			profiles.POST("/me/avatar", c.Profile.UploadAvatar)
			profiles.POST("/me/resume", c.Profile.UploadResume)
			profiles.GET("/me/skill-analysis", c.Profile.AnalyzeSkills)
			profiles.POST("/me/experiences", c.Profile.AddExperience)
			profiles.DELETE("/me/experiences/:experienceId", c.Profile.DeleteExperience)
			profiles.POST("/me/skills", c.Profile.AddSkill)
			profiles.DELETE("/me/skills/:skillId", c.Profile.DeleteSkill)
			profiles.GET("/:id", c.Profile.Get)
			profiles.GET("/:id/experiences", c.Profile.ListExperiences)
			profiles.GET("/:id/skills", c.Profile.ListSkills)
		}

		connections := authenticated.Group("/connections")
		{
			connections.POST("", c.Connection.Request)
			connections.GET("", c.Connection.List)
			connections.PUT("/:id", c.Connection.Respond)
			connections.DELETE("/:id", c.Connection.Remove)
			connections.POST("/block/:peerId", c.Connection.Block)
			connections.GET("/mutual/:peerId", c.Connection.MutualCount)
		}

		messages := authenticated.Group("/messages")
		{
			messages.POST("", c.Message.Send)
			messages.GET("", c.Message.Conversations)
			messages.GET("/:peerId", c.Message.ListConversation)
		}

		posts := authenticated.Group("/posts")
		{
			posts.POST("", c.Post.Create)
			posts.POST("/attachments", c.Post.UploadAttachment)
			posts.GET("/:id", c.Post.Get)
			posts.PUT("/:id", c.Post.Update)
			posts.DELETE("/:id", c.Post.Delete)
			posts.POST("/:id/comments", c.Post.Comment)
			posts.GET("/:id/comments", c.Post.ListComments)
			posts.DELETE("/comments/:commentId", c.Post.DeleteComment)
			posts.POST("/:id/reactions", c.Post.ToggleReaction)
			posts.POST("/:id/save", c.Post.ToggleSave)
		}

		authenticated.GET("/feed", c.Post.Feed)
		authenticated.GET("/feed/trending", c.Post.Trending)
		authenticated.GET("/saved", c.Post.ListSaved)

		events := authenticated.Group("/events")
		{
			events.POST("", c.Event.Create)
			events.GET("", c.Event.List)
			events.GET("/:id", c.Event.Get)
			events.PUT("/:id", c.Event.Update)
			events.DELETE("/:id", c.Event.Cancel)
			events.POST("/:id/rsvp", c.Event.RSVP)
			events.DELETE("/:id/rsvp", c.Event.WithdrawRSVP)
			events.GET("/:id/attendees", c.Event.ListAttendees)
		}

		projects := authenticated.Group("/projects")
		{
			projects.POST("", c.Project.Create)
			projects.GET("", c.Project.List)
			projects.GET("/:id", c.Project.Get)
			projects.PUT("/:id", c.Project.Update)
			projects.DELETE("/:id", c.Project.Delete)
			projects.POST("/:id/applications", c.Project.Apply)
			projects.GET("/:id/applications", c.Project.ListApplications)
			projects.PUT("/applications/:applicationId", c.Project.RespondToApplication)
			projects.GET("/:id/members", c.Project.ListMembers)
		}

		marketplace := authenticated.Group("/marketplace")
		{
			marketplace.POST("", c.Marketplace.Create)
			marketplace.GET("", c.Marketplace.List)
			marketplace.GET("/:id", c.Marketplace.Get)
			marketplace.PUT("/:id", c.Marketplace.Update)
			marketplace.DELETE("/:id", c.Marketplace.Delete)
			marketplace.POST("/:id/sold", c.Marketplace.MarkSold)
			marketplace.POST("/:id/image", c.Marketplace.UploadImage)
			marketplace.POST("/:id/save", c.Marketplace.ToggleSave)
		}

		reports := authenticated.Group("/reports")
		{
			reports.POST("", c.Moderation.Report)
			reports.GET("", c.Moderation.Queue)
			reports.PUT("/:id/resolve", c.Moderation.Resolve)
		}

		ws := authenticated.Group("/ws")
		{
			ws.GET("/messages/:peerId", c.Realtime.SubscribeMessages)
			ws.GET("/feed", c.Realtime.SubscribeFeed)
			ws.GET("/events", c.Realtime.SubscribeEvents)
		}
	}
}
