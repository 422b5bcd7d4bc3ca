package routes

import (
	orderControllers "github.com/abubakar8866/Bookify-Online-Book-Shopping/controllers/order"
	"github.com/abubakar8866/Bookify-Online-Book-Shopping/middleware"
	"github.com/gin-gonic/gin"
)

// SetupOrderRoutes registers the user-facing order endpoints.
func SetupOrderRoutes(r *gin.Engine, deps Deps) {
	orders := r.Group("/order")
	orders.Use(middleware.ValidateToken)
	{
		orders.POST("/place", orderControllers.PlaceOrderHandler(deps.DB, deps.Events))
		orders.GET("/user/:userID", orderControllers.GetUserOrdersHandler(deps.DB))
		orders.GET("/:orderID", orderControllers.GetOrderByIDHandler(deps.DB))
		orders.PUT("/edit/:orderID", orderControllers.EditOrderHandler(deps.DB))
		orders.DELETE("/:orderID", orderControllers.RemoveOrderHandler(deps.DB, deps.Gateway))
		orders.DELETE("/:orderID/book/:bookID", orderControllers.RemoveOrderItemHandler(deps.DB, deps.Gateway))
		orders.POST("/:orderID/book/:bookID/review", orderControllers.AddReviewHandler(deps.DB))
		orders.GET("/:orderID/invoice", orderControllers.ExportInvoiceHandler(deps.DB))
	}
}
