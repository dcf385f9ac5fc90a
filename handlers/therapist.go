package handlers

import (
	"net/http"

	"therapia/models"
	"therapia/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreateTherapist registers a new therapist profile.
func CreateTherapist(c *gin.Context) {
	var profile models.TherapistProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if profile.Name == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid profile", "name is required")
		return
	}
	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}

	if err := directory.Create(c.Request.Context(), &profile); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to create therapist", err.Error())
		return
	}
	c.JSON(http.StatusCreated, profile)
}

// GetTherapist fetches a single therapist profile by id.
func GetTherapist(c *gin.Context) {
	id := c.Param("providerID")
	profile, err := directory.GetByID(c.Request.Context(), id)
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "therapist not found", err.Error())
		return
	}
	c.JSON(http.StatusOK, profile)
}

// ListTherapists returns the full therapist directory.
func ListTherapists(c *gin.Context) {
	profiles, err := directory.ListTherapists(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list therapists", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"therapists": profiles, "count": len(profiles)})
}

// UpdateTherapist replaces a therapist profile.
func UpdateTherapist(c *gin.Context) {
	id := c.Param("providerID")
	var profile models.TherapistProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	profile.ID = id

	if err := directory.Update(c.Request.Context(), &profile); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to update therapist", err.Error())
		return
	}
	c.JSON(http.StatusOK, profile)
}
