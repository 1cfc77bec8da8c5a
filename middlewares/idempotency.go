package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/catering-app/utils"
)

const (
	IdempotencyHeader    = "Idempotency-Key"
	maxIdempotencyKeyLen = 100
	ctxIdempotencyKey    = "idempotency_key"
)

// IdempotencyKey validates the optional Idempotency-Key header and stores it
// for the handler.
func IdempotencyKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(IdempotencyHeader))
		if len(key) > maxIdempotencyKeyLen {
			utils.RespondError(c, http.StatusBadRequest, errors.New("Idempotency-Key must be at most 100 characters"))
			c.Abort()
			return
		}
		for _, r := range key {
			if r < 0x21 || r > 0x7e {
				utils.RespondError(c, http.StatusBadRequest, errors.New("Idempotency-Key must be printable ASCII"))
				c.Abort()
				return
			}
		}
		c.Set(ctxIdempotencyKey, key)
		c.Next()
	}
}

func CurrentIdempotencyKey(c *gin.Context) string {
	return c.GetString(ctxIdempotencyKey)
}
