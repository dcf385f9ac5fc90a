package routes

import (
	"net/http"
	"time"

	"therapia/handlers"
	"therapia/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterTherapistRoutes registers the therapist directory endpoints.
func RegisterTherapistRoutes(r *gin.Engine) {
	api := r.Group("/api/therapists")
	{
		api.POST("", handlers.CreateTherapist)
		api.GET("", handlers.ListTherapists)
		api.GET("/:providerID", handlers.GetTherapist)
		api.PUT("/:providerID", handlers.UpdateTherapist)
		api.GET("/:providerID/availability", handlers.GetAvailability)
	}
}

// RegisterMatchRoutes registers the matching endpoint.
func RegisterMatchRoutes(r *gin.Engine) {
	api := r.Group("/api/match")
	{
		api.POST("", handlers.MatchTherapists)
	}
}

// RegisterBookingRoutes registers all endpoints for the booking flow.
func RegisterBookingRoutes(r *gin.Engine) {
	booking := r.Group("/api/booking")
	{
		booking.POST("/propose", handlers.ProposeBooking)                         // Phase 1: hold a slot
		booking.POST("/confirm", handlers.ConfirmBooking)                         // Phase 2: commit the hold
		booking.DELETE("/appointments/:appointmentID", handlers.CancelAppointment)
		booking.PUT("/appointments/:appointmentID/complete", handlers.CompleteAppointment)
		booking.GET("/users/:userID/appointments", handlers.ListUserAppointments)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Therapia"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterHealthRoute(r)
	RegisterTherapistRoutes(r)
	RegisterMatchRoutes(r)
	RegisterBookingRoutes(r)
}
