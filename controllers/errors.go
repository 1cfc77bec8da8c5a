package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/catering-app/services"
	"github.com/yeremiapane/catering-app/utils"
)

var ErrInvalidID = errors.New("invalid id")

// respondServiceError maps the service error taxonomy onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	code := http.StatusInternalServerError
	switch services.KindOf(err) {
	case services.KindValidation, services.KindConflict:
		code = http.StatusBadRequest
	case services.KindUnauthorized:
		code = http.StatusUnauthorized
	case services.KindForbidden:
		code = http.StatusForbidden
	case services.KindNotFound:
		code = http.StatusNotFound
	}

	if code == http.StatusInternalServerError {
		c.Error(err)
		utils.ErrorLogger.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		utils.RespondError(c, code, errors.New("internal server error"))
		return
	}
	utils.RespondError(c, code, err)
}

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusBadRequest, ErrInvalidID)
		return 0, false
	}
	return uint(id), true
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}
