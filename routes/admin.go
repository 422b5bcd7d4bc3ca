package routes

import (
	bookControllers "github.com/abubakar8866/Bookify-Online-Book-Shopping/controllers/book"
	orderControllers "github.com/abubakar8866/Bookify-Online-Book-Shopping/controllers/order"
	paymentControllers "github.com/abubakar8866/Bookify-Online-Book-Shopping/controllers/payment"
	returnControllers "github.com/abubakar8866/Bookify-Online-Book-Shopping/controllers/returns"
	userControllers "github.com/abubakar8866/Bookify-Online-Book-Shopping/controllers/user"
	"github.com/abubakar8866/Bookify-Online-Book-Shopping/middleware"
	"github.com/gin-gonic/gin"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires a JWT with
// the admin role.
func SetupAdminRoutes(r *gin.Engine, deps Deps) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateToken, middleware.RequireAdmin)
	{
		adminGroup.GET("/users", userControllers.GetAllUsers(deps.DB))

		bookAdmin := adminGroup.Group("/books")
		{
			bookAdmin.POST("", bookControllers.CreateBook(deps.DB))
			bookAdmin.PUT("/:bookID", bookControllers.UpdateBook(deps.DB))
			bookAdmin.DELETE("/:bookID", bookControllers.DeleteBook(deps.DB))
		}
		adminGroup.POST("/authors", bookControllers.CreateAuthor(deps.DB))

		orderAdmin := adminGroup.Group("/orders")
		{
			orderAdmin.GET("", orderControllers.GetAllOrdersHandler(deps.DB))
			orderAdmin.PUT("/:orderID/status", orderControllers.UpdateOrderStatusHandler(deps.DB, deps.Events))
			orderAdmin.GET("/info/:orderID", paymentControllers.GetPaymentInfoHandler(deps.DB))
			orderAdmin.GET("/stats", orderControllers.GetOrderStatsHandler(deps.DB))
			orderAdmin.POST("/stats/range", orderControllers.GetOrderStatsByRangeHandler(deps.DB))
			orderAdmin.GET("/stats/weekly", orderControllers.GetWeeklyStatsHandler(deps.DB))
			orderAdmin.GET("/stats/monthly", orderControllers.GetMonthlyStatsHandler(deps.DB))
		}

		returnAdmin := adminGroup.Group("/returns")
		{
			returnAdmin.GET("/all", returnControllers.GetAllRequestsHandler(deps.DB))
			returnAdmin.GET("/status/:status", returnControllers.GetRequestsByStatusHandler(deps.DB))
			returnAdmin.PUT("/update-status/:id", returnControllers.UpdateStatusHandler(deps.DB))
			returnAdmin.PUT("/refund/:returnId", returnControllers.RefundRequestHandler(deps.DB, deps.Gateway))
		}
	}
}
