package routes

import (
	returnControllers "github.com/abubakar8866/Bookify-Online-Book-Shopping/controllers/returns"
	"github.com/abubakar8866/Bookify-Online-Book-Shopping/middleware"
	"github.com/gin-gonic/gin"
)

// SetupReturnRoutes registers the user-facing return/replacement endpoints.
func SetupReturnRoutes(r *gin.Engine, deps Deps) {
	returns := r.Group("/returns")
	returns.Use(middleware.ValidateToken)
	{
		returns.POST("/", returnControllers.CreateRequestHandler(deps.DB, deps.Files))
		returns.GET("/user/:userID", returnControllers.GetUserRequestsHandler(deps.DB))
		returns.PUT("/:returnID", returnControllers.EditRequestHandler(deps.DB, deps.Files))
		returns.DELETE("/:returnID", returnControllers.DeleteRequestHandler(deps.DB, deps.Files))
	}
}
