package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/memberdir/internal/app/controllers"
	"github.com/yigit/memberdir/internal/middleware"
)

// Controllers groups every HTTP handler the router mounts
type Controllers struct {
	Auth            *controllers.AuthController
	Member          *controllers.MemberController
	BusinessProfile *controllers.BusinessProfileController
	Family          *controllers.FamilyController
	Category        *controllers.CategoryController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	v1.POST("/members/register", authMiddleware.OptionalJWTAuth(), c.Member.RegisterMember)
	v1.POST("/auth/login", c.Auth.Login)
	v1.GET("/categories", c.Category.ListCategories)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	admin := authenticated.Group("")
	admin.Use(authMiddleware.AdminRequired())

	members := authenticated.Group("/members")
	{
		members.GET("/:id", c.Member.GetMember)
		members.PUT("/:id", c.Member.UpdateMember)
		members.GET("/:id/notifications", c.Member.ListNotifications)

		members.POST("/:id/business-profiles", c.BusinessProfile.CreateForMember)
		members.GET("/:id/business-profiles", c.BusinessProfile.ListByMember)

		members.GET("/:id/family", c.Family.GetFamily)
		members.POST("/:id/family", c.Family.AddFamily)
		members.PUT("/:id/family", c.Family.UpsertFamily)
	}

	profiles := authenticated.Group("/business-profiles")
	{
		profiles.GET("/:id", c.BusinessProfile.GetByID)
		profiles.PUT("/:id", c.BusinessProfile.Update)
		profiles.DELETE("/:id", c.BusinessProfile.Delete)
	}

	authenticated.DELETE("/families/:id", c.Family.DeleteFamily)

	// --- Admin routes ---
	admin.GET("/members", c.Member.ListMembers)
	admin.DELETE("/members/:id", c.Member.DeleteMember)
	admin.PATCH("/business-profiles/:id/status", c.BusinessProfile.UpdateStatus)
	admin.POST("/categories", c.Category.CreateCategory)
	admin.DELETE("/categories/:id", c.Category.DeleteCategory)
}
