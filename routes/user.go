package routes

import (
	bookControllers "github.com/abubakar8866/Bookify-Online-Book-Shopping/controllers/book"
	cartControllers "github.com/abubakar8866/Bookify-Online-Book-Shopping/controllers/cart"
	userControllers "github.com/abubakar8866/Bookify-Online-Book-Shopping/controllers/user"
	wishlistControllers "github.com/abubakar8866/Bookify-Online-Book-Shopping/controllers/wishlist"
	"github.com/abubakar8866/Bookify-Online-Book-Shopping/middleware"
	"github.com/gin-gonic/gin"
)

// SetupUserRoutes registers all "/user/*" endpoints plus public catalog
// browsing. User endpoints require a JWT.
func SetupUserRoutes(r *gin.Engine, deps Deps) {
	// Public catalog
	r.GET("/books", bookControllers.GetBooks(deps.DB))
	r.GET("/books/:bookID", bookControllers.GetBookByID(deps.DB))
	r.GET("/authors", bookControllers.GetAuthors(deps.DB))

	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken)
	{
		userGroup.GET("/", userControllers.GetUser(deps.DB))
		userGroup.PUT("/", userControllers.UpdateUser(deps.DB))

		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("/", cartControllers.GetUserCart(deps.DB))
			cartGroup.POST("/", cartControllers.AddToCart(deps.DB))
			cartGroup.DELETE("/:bookID", cartControllers.RemoveCartItem(deps.DB))
			cartGroup.DELETE("/", cartControllers.ClearUserCart(deps.DB))
		}

		wishlistGroup := userGroup.Group("/wishlist")
		{
			wishlistGroup.GET("/", wishlistControllers.GetUserWishlist(deps.DB))
			wishlistGroup.POST("/", wishlistControllers.AddToWishlist(deps.DB))
			wishlistGroup.DELETE("/:bookID", wishlistControllers.RemoveFromWishlist(deps.DB))
		}
	}
}
