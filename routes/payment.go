package routes

import (
	paymentControllers "github.com/abubakar8866/Bookify-Online-Book-Shopping/controllers/payment"
	"github.com/abubakar8866/Bookify-Online-Book-Shopping/middleware"
	"github.com/gin-gonic/gin"
)

// SetupPaymentRoutes registers the gateway-facing endpoints.
func SetupPaymentRoutes(r *gin.Engine, deps Deps) {
	payments := r.Group("/payment")
	payments.Use(middleware.ValidateToken)
	{
		payments.GET("/key", paymentControllers.GetKeyHandler(deps.Gateway))
		payments.POST("/create-order", paymentControllers.CreateGatewayOrderHandler(deps.Gateway))
		payments.POST("/verify", paymentControllers.VerifyPaymentHandler(deps.Gateway))
		payments.POST("/place-order", paymentControllers.PlaceVerifiedOrderHandler(deps.DB, deps.Gateway, deps.Events))
		payments.GET("/info/:orderID", paymentControllers.GetPaymentInfoHandler(deps.DB))
	}
}
