package transport

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/poolpass/pool-booking/internal/entity"
)

var notFoundErrors = []error{
	entity.ErrTimeslotNotFound,
	entity.ErrReservationNotFound,
	entity.ErrPackageNotFound,
	entity.ErrPackageTypeNotFound,
	entity.ErrFacilityNotFound,
	entity.ErrEducationWindowNotFound,
	entity.ErrHolidayNotFound,
}

// respondError maps domain errors onto HTTP statuses: not-found sentinels to
// 404, retryable storage contention to 409, everything else is a business
// rule violation reported as 400.
func respondError(c *gin.Context, err error) {
	status := http.StatusBadRequest

	for _, sentinel := range notFoundErrors {
		if errors.Is(err, sentinel) {
			status = http.StatusNotFound
			break
		}
	}
	if errors.Is(err, entity.ErrConcurrentUpdate) {
		status = http.StatusConflict
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
