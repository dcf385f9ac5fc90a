package handlers

import (
	"net/http"

	"therapia/models"
	"therapia/services/matching"
	"therapia/utils"

	"github.com/gin-gonic/gin"
)

var matchService matching.MatchService

// SetMatchService injects the matching service used by the handlers.
func SetMatchService(svc matching.MatchService) {
	matchService = svc
}

// MatchTherapists runs one match request: raw filters in, ranked result out.
func MatchTherapists(c *gin.Context) {
	var raw models.RawMatchCriteria
	if err := c.ShouldBindJSON(&raw); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := matchService.Match(c.Request.Context(), raw)
	if err != nil {
		if matching.IsInvalidCriteria(err) {
			utils.JSONError(c, http.StatusBadRequest, "invalid criteria", err.Error())
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to match therapists", err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}
