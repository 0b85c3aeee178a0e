package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"moments/internal/feed"
)

func (s *Server) snapshotView(snap feed.Snapshot) feed.Snapshot {
	snap.Posts = s.viewAll(snap.Posts)
	return snap
}

// feedSnapshotHandler handles GET /feed
func (s *Server) feedSnapshotHandler(c *gin.Context) {
	respond(c, http.StatusOK, "", s.snapshotView(s.Pager.Snapshot()))
}

// loadNextHandler handles POST /feed/next. A client disconnect does not
// cancel the page fetch.
func (s *Server) loadNextHandler(c *gin.Context) {
	snap, err := s.Pager.LoadNext(context.WithoutCancel(c.Request.Context()))
	switch {
	case errors.Is(err, feed.ErrLoadInProgress):
		c.JSON(http.StatusConflict, Response{Success: false, Message: err.Error(), Data: s.snapshotView(snap)})
	case errors.Is(err, feed.ErrExhausted):
		respond(c, http.StatusOK, "No more pages", s.snapshotView(snap))
	case err != nil:
		fail(c, http.StatusInternalServerError, "LOAD_FAILED", err)
	default:
		respond(c, http.StatusOK, "", s.snapshotView(snap))
	}
}

// retryHandler handles POST /feed/retry
func (s *Server) retryHandler(c *gin.Context) {
	snap, err := s.Pager.Retry(context.WithoutCancel(c.Request.Context()))
	if err != nil {
		c.JSON(http.StatusConflict, Response{Success: false, Message: err.Error(), Data: s.snapshotView(snap)})
		return
	}
	respond(c, http.StatusOK, "", s.snapshotView(snap))
}

// resetHandler handles POST /feed/reset
func (s *Server) resetHandler(c *gin.Context) {
	s.Pager.Reset()
	respond(c, http.StatusOK, "Feed reset", s.snapshotView(s.Pager.Snapshot()))
}
