package transport

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/poolpass/pool-booking/internal/service"
)

type TimeslotHandler struct {
	bookingService  service.BookingService
	timeslotService service.TimeslotService
}

func NewTimeslotHandler(bookingService service.BookingService, timeslotService service.TimeslotService) *TimeslotHandler {
	return &TimeslotHandler{
		bookingService:  bookingService,
		timeslotService: timeslotService,
	}
}

// ListAvailable returns the slots bookable by one member with one package at
// one facility on one date.
func (h *TimeslotHandler) ListAvailable(c *gin.Context) {
	memberID, err := strconv.ParseInt(c.Query("member_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member id"})
		return
	}
	packageID, err := strconv.ParseInt(c.Query("package_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid package id"})
		return
	}
	facilityID, err := strconv.ParseInt(c.Query("facility_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid facility id"})
		return
	}
	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	slots, err := h.bookingService.ListAvailableTimeslots(c.Request.Context(), &service.AvailableTimeslotsRequest{
		MemberID:   memberID,
		PackageID:  packageID,
		FacilityID: facilityID,
		Date:       date,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, slots)
}

// Generate runs the full timeslot generation pass.
func (h *TimeslotHandler) Generate(c *gin.Context) {
	result, err := h.timeslotService.GenerateTimeslots(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// EnsureAvailability triggers generation only when the near-term window has
// gaps.
func (h *TimeslotHandler) EnsureAvailability(c *gin.Context) {
	result, err := h.timeslotService.EnsureMinimumAvailability(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if result == nil {
		c.JSON(http.StatusOK, gin.H{"message": "availability sufficient, nothing generated"})
		return
	}
	c.JSON(http.StatusOK, result)
}
