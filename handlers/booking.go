package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"therapia/config"
	appointmentRepo "therapia/database/repository/appointment"
	therapistRepo "therapia/database/repository/therapist"
	"therapia/models"
	"therapia/services/scheduling"
	"therapia/utils"

	"github.com/gin-gonic/gin"
)

const reservationKeyPrefix = "resv:"

var (
	schedulerService scheduling.Scheduler
	availability     scheduling.AvailabilityManager
	directory        therapistRepo.TherapistRepository
	appointments     appointmentRepo.AppointmentRepository
)

// SetSchedulingServices injects the scheduling dependencies used by the handlers.
func SetSchedulingServices(sched scheduling.Scheduler, avail scheduling.AvailabilityManager,
	therapists therapistRepo.TherapistRepository, appts appointmentRepo.AppointmentRepository) {
	schedulerService = sched
	availability = avail
	directory = therapists
	appointments = appts
}

// GetAvailability lists a therapist's free slots over the booking window.
// The slot ledger covers live holds; active appointments from the store are
// subtracted as well so a cold ledger never resurrects a booked slot.
func GetAvailability(c *gin.Context) {
	providerID := c.Param("providerID")
	profile, err := directory.GetByID(c.Request.Context(), providerID)
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "therapist not found", err.Error())
		return
	}

	days := config.AppConfig.BookingWindowDays
	slots, err := availability.ListFreeSlots(c.Request.Context(), *profile, days)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list availability", err.Error())
		return
	}

	now := time.Now()
	fromDate := now.Format(models.DateLayout)
	toDate := now.AddDate(0, 0, days).Format(models.DateLayout)
	active, err := appointments.ListActiveByProvider(c.Request.Context(), providerID, fromDate, toDate)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list availability", err.Error())
		return
	}
	taken := make(map[string]struct{}, len(active))
	for _, appt := range active {
		taken[models.SlotKey(appt.ProviderID, appt.Date, appt.TimeLabel)] = struct{}{}
	}
	free := slots[:0]
	for _, slot := range slots {
		if _, ok := taken[slot.Key()]; !ok {
			free = append(free, slot)
		}
	}

	c.JSON(http.StatusOK, gin.H{"providerId": providerID, "slots": free})
}

// ProposeBooking holds a slot and returns the pending reservation. The
// reservation is cached for the hold's lifetime so confirm can pick it up.
func ProposeBooking(c *gin.Context) {
	var input struct {
		UserID     string `json:"userId"`
		ProviderID string `json:"providerId"`
		Date       string `json:"date"`
		TimeLabel  string `json:"time"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	res, err := schedulerService.Propose(c.Request.Context(), input.UserID, input.ProviderID, input.Date, input.TimeLabel)
	if err != nil {
		switch {
		case errors.Is(err, scheduling.ErrInvalidRequest):
			utils.JSONError(c, http.StatusBadRequest, "invalid booking request", err.Error())
		case errors.Is(err, scheduling.ErrSlotUnavailable):
			utils.JSONError(c, http.StatusConflict, "slot unavailable", "the slot was taken; re-check availability")
		default:
			utils.JSONError(c, http.StatusInternalServerError, "failed to propose booking", err.Error())
		}
		return
	}

	data, err := json.Marshal(res)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to marshal reservation", err.Error())
		return
	}
	ttl := time.Until(res.Hold.ExpiresAt)
	if err := utils.GetCacheClient().Set(c.Request.Context(), reservationKeyPrefix+res.ID, data, ttl).Err(); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to store reservation", err.Error())
		return
	}
	c.JSON(http.StatusOK, res)
}

// ConfirmBooking commits a pending reservation into a scheduled appointment.
func ConfirmBooking(c *gin.Context) {
	var input struct {
		ReservationID string `json:"reservationId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.ReservationID == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body", "reservationId is required")
		return
	}

	key := reservationKeyPrefix + input.ReservationID
	data, err := utils.GetCacheClient().Get(c.Request.Context(), key).Result()
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "reservation not found or expired", "propose the booking again")
		return
	}
	var res models.Reservation
	if err := json.Unmarshal([]byte(data), &res); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to parse reservation", err.Error())
		return
	}

	appt, err := schedulerService.Commit(c.Request.Context(), res)
	if err != nil {
		switch {
		case errors.Is(err, scheduling.ErrSlotUnavailable):
			utils.JSONError(c, http.StatusConflict, "slot unavailable", "the slot was taken; re-check availability")
		case errors.Is(err, scheduling.ErrPersistenceFailed):
			utils.JSONError(c, http.StatusBadGateway, "booking not saved", "the hold was released; you may retry the booking")
		default:
			utils.JSONError(c, http.StatusInternalServerError, "failed to confirm booking", err.Error())
		}
		return
	}

	_ = utils.GetCacheClient().Del(c.Request.Context(), key).Err()
	c.JSON(http.StatusCreated, appt)
}

// CancelAppointment cancels a scheduled appointment, freeing its slot.
func CancelAppointment(c *gin.Context) {
	transitionAppointment(c, schedulerService.Cancel)
}

// CompleteAppointment marks a scheduled appointment completed.
func CompleteAppointment(c *gin.Context) {
	transitionAppointment(c, schedulerService.Complete)
}

func transitionAppointment(c *gin.Context, op func(ctx context.Context, id string) error) {
	id := c.Param("appointmentID")
	err := op(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, scheduling.ErrAppointmentNotFound):
			utils.JSONError(c, http.StatusNotFound, "appointment not found", err.Error())
		case errors.Is(err, scheduling.ErrInvalidTransition):
			utils.JSONError(c, http.StatusConflict, "invalid transition", err.Error())
		default:
			utils.JSONError(c, http.StatusInternalServerError, "failed to update appointment", err.Error())
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "ok": true})
}

// ListUserAppointments returns all appointments for a user.
func ListUserAppointments(c *gin.Context) {
	userID := c.Param("userID")
	appointments, err := schedulerService.ListUserAppointments(c.Request.Context(), userID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list appointments", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"userId": userID, "appointments": appointments})
}
