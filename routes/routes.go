package routes

import (
	"github.com/abubakar8866/Bookify-Online-Book-Shopping/events"
	"github.com/abubakar8866/Bookify-Online-Book-Shopping/filestore"
	"github.com/abubakar8866/Bookify-Online-Book-Shopping/payment"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps carries the shared collaborators the route groups wire into their
// handlers.
type Deps struct {
	DB      *gorm.DB
	Gateway payment.Gateway
	Events  *events.Publisher
	Files   *filestore.Store
}

// SetupRoutes is the single entry point that wires up all route groups.
func SetupRoutes(r *gin.Engine, deps Deps) {
	SetupAuthRoutes(r, deps)
	SetupUserRoutes(r, deps)
	SetupOrderRoutes(r, deps)
	SetupPaymentRoutes(r, deps)
	SetupReturnRoutes(r, deps)
	SetupAdminRoutes(r, deps)
}
