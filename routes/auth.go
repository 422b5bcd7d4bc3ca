package routes

import (
	"github.com/abubakar8866/Bookify-Online-Book-Shopping/auth"
	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes registers the public authentication endpoints.
func SetupAuthRoutes(r *gin.Engine, deps Deps) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", auth.RegisterHandler(deps.DB))
		authGroup.POST("/login", auth.LoginHandler(deps.DB))
		authGroup.POST("/forgot-password", auth.ForgotPasswordHandler(deps.DB))
		authGroup.POST("/reset-password", auth.ResetPasswordHandler(deps.DB))
	}
}
