package transport

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/poolpass/pool-booking/internal/transport/middleware"
)

func InitRoutes(
	reservationHandler *ReservationHandler,
	timeslotHandler *TimeslotHandler,
	educationHandler *EducationHandler,
	holidayHandler *HolidayHandler,
	checkInHandler *CheckInHandler,
) *gin.Engine {

	router := gin.New()

	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.Timeout(30 * time.Second))

	api := router.Group("/api/v1")
	{
		reservations := api.Group("/reservations")
		{
			reservations.POST("", reservationHandler.CreateReservation)
			reservations.GET("/:id", reservationHandler.GetReservation)
			reservations.DELETE("/:id", reservationHandler.CancelReservation)
			reservations.GET("/members/:member_id", reservationHandler.GetMemberReservations)
		}

		timeslots := api.Group("/timeslots")
		{
			timeslots.GET("/available", timeslotHandler.ListAvailable)
		}

		checkin := api.Group("/checkin")
		{
			checkin.POST("/token", checkInHandler.IssueToken)
			checkin.POST("", checkInHandler.ConsumeToken)
		}

		holidays := api.Group("/holidays")
		{
			holidays.GET("", holidayHandler.ListHolidays)
		}

		admin := api.Group("/admin")
		{
			admin.POST("/reservations/:id/complete", reservationHandler.MarkCompleted)
			admin.POST("/reservations/:id/no-show", reservationHandler.MarkNoShow)
			admin.POST("/reservations/sweep", reservationHandler.SweepMissed)

			admin.POST("/timeslots/generate", timeslotHandler.Generate)
			admin.POST("/timeslots/ensure", timeslotHandler.EnsureAvailability)

			windows := admin.Group("/education-windows")
			{
				windows.POST("", educationHandler.CreateWindow)
				windows.GET("", educationHandler.ListWindows)
				windows.GET("/:id", educationHandler.GetWindow)
				windows.PATCH("/:id", educationHandler.UpdateWindow)
				windows.DELETE("/:id", educationHandler.DeleteWindow)
			}

			admin.POST("/holidays", holidayHandler.AddHoliday)
			admin.DELETE("/holidays/:id", holidayHandler.RemoveHoliday)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return router
}
