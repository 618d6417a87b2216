package uow

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	pkglog "github.com/trailgram/social-graph-service/pkg/log"
	"github.com/trailgram/social-graph-service/pkg/response"
)

// Middleware opens a transaction for every mutating request and injects it
// into the request context. The transaction commits when the handler wrote a
// success status and rolls back otherwise. The deferred rollback also covers
// panics and requests that died without writing a response, so an abandoned
// request can never hold a transaction open.
func Middleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		default:
			c.Next()
			return
		}

		ctx := c.Request.Context()
		l := pkglog.Ctx(ctx)

		tx := db.WithContext(ctx).Begin()
		if tx.Error != nil {
			l.Error().Err(tx.Error).Msg("failed to begin transaction")
			response.InternalError(c)
			c.Abort()
			return
		}

		committed := false
		defer func() {
			if p := recover(); p != nil {
				tx.Rollback()
				panic(p)
			}
			if !committed {
				tx.Rollback()
			}
		}()

		c.Request = c.Request.WithContext(With(ctx, tx))

		c.Next()

		if c.Writer.Status() < http.StatusBadRequest && len(c.Errors) == 0 {
			if err := tx.Commit().Error; err != nil {
				l.Error().Err(err).Msg("failed to commit transaction")
				return
			}
			committed = true
		}
	}
}
