package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Recovery turns a panic into the generic 500 body and logs the cause.
func Recovery(l *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				reqID, _ := c.Get("request_id")
				l.WithFields(logrus.Fields{
					"request_id": reqID,
					"path":       c.Request.URL.Path,
					"panic":      fmt.Sprint(r),
					"stack":      string(debug.Stack()),
				}).Error("unhandled panic")

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"detail": "An internal server error occurred",
				})
			}
		}()
		c.Next()
	}
}
