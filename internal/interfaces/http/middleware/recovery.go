package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/sandrasocial/sselfie-9g-sub000/internal/interfaces/http/dto"
	"github.com/sandrasocial/sselfie-9g-sub000/pkg/errors"
	"github.com/sandrasocial/sselfie-9g-sub000/pkg/logger"
)

// Recovery Panic 恢复中间件
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error(c.Request.Context(), "panic recovered",
					fmt.Errorf("%v", rec),
					"stack", string(debug.Stack()),
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
				)

				appErr := errors.New(errors.CodeInternalError, "internal server error")
				appErr.HTTPStatus = http.StatusInternalServerError
				dto.AppError(c, appErr)
			}
		}()

		c.Next()
	}
}
