package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/aieta/internal/utils"
)

const internalErrorDetail = "An internal server error occurred"

type APIError struct {
	Detail string     `json:"detail"`
	Code   utils.Code `json:"code,omitempty"`
}

func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)
	_ = c.Error(err)

	var ae *utils.AppError
	if errors.As(err, &ae) {
		msg := ae.Message
		if msg == "" {
			msg = internalErrorDetail
		}
		c.AbortWithStatusJSON(status, APIError{Detail: msg, Code: ae.Code})
		return
	}

	c.AbortWithStatusJSON(status, APIError{Detail: internalErrorDetail, Code: utils.CodeInternal})
}

func bindJSON(c *gin.Context, op string, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
		return false
	}
	return true
}
