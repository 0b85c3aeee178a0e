package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"moments/internal/engagement"
	"moments/internal/events"
	"moments/internal/posts"
)

// view applies local like state and local comments to a stored post
func (s *Server) view(p posts.Post) posts.Post {
	p = s.Tracker.Overlay(p)
	p.Comments = s.Threads.List(p)
	return p
}

func (s *Server) viewAll(list []posts.Post) []posts.Post {
	out := make([]posts.Post, len(list))
	for i, p := range list {
		out[i] = s.view(p)
	}
	return out
}

// lookup finds a post in the store first, then among paged posts
func (s *Server) lookup(id int64) (posts.Post, bool) {
	if p, err := s.Posts.Get(id); err == nil {
		return p, true
	}
	return s.Pager.Find(id)
}

// listPostsHandler handles GET /posts
func (s *Server) listPostsHandler(c *gin.Context) {
	respond(c, http.StatusOK, "", s.viewAll(s.Store.GetAll()))
}

// getPostHandler handles GET /posts/:id
func (s *Server) getPostHandler(c *gin.Context) {
	id, ok := parsePostID(c)
	if !ok {
		return
	}

	post, found := s.lookup(id)
	if !found {
		fail(c, http.StatusNotFound, "POST_NOT_FOUND", posts.ErrPostNotFound)
		return
	}
	respond(c, http.StatusOK, "", s.view(post))
}

// createPostHandler handles POST /posts
func (s *Server) createPostHandler(c *gin.Context) {
	var req posts.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "INVALID_REQUEST", errors.New("invalid request body: "+err.Error()))
		return
	}

	post, err := s.Posts.Create(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, posts.ErrEmptyPost), errors.Is(err, posts.ErrContentTooLong):
			fail(c, http.StatusBadRequest, "VALIDATION_FAILED", err)
		default:
			fail(c, http.StatusInternalServerError, "CREATE_FAILED", err)
		}
		return
	}

	respond(c, http.StatusCreated, "Post created successfully", post)
}

type likeResponse struct {
	PostID int64 `json:"post_id"`
	engagement.LikeState
}

// toggleLikeHandler handles POST /posts/:id/like
func (s *Server) toggleLikeHandler(c *gin.Context) {
	id, ok := parsePostID(c)
	if !ok {
		return
	}

	post, found := s.lookup(id)
	if !found {
		fail(c, http.StatusNotFound, "POST_NOT_FOUND", posts.ErrPostNotFound)
		return
	}

	state := s.Tracker.Toggle(post)
	respond(c, http.StatusOK, "", likeResponse{PostID: id, LikeState: state})
}

type commentsResponse struct {
	PostID   int64           `json:"post_id"`
	Count    int             `json:"count"`
	Comments []posts.Comment `json:"comments"`
}

// listCommentsHandler handles GET /posts/:id/comments
func (s *Server) listCommentsHandler(c *gin.Context) {
	id, ok := parsePostID(c)
	if !ok {
		return
	}

	post, found := s.lookup(id)
	if !found {
		fail(c, http.StatusNotFound, "POST_NOT_FOUND", posts.ErrPostNotFound)
		return
	}

	comments := s.Threads.List(post)
	respond(c, http.StatusOK, "", commentsResponse{
		PostID:   id,
		Count:    s.Tracker.CommentCount(post),
		Comments: comments,
	})
}

type submitCommentRequest struct {
	Content string `json:"content"`
}

// submitCommentHandler handles POST /posts/:id/comments
func (s *Server) submitCommentHandler(c *gin.Context) {
	id, ok := parsePostID(c)
	if !ok {
		return
	}

	if _, found := s.lookup(id); !found {
		fail(c, http.StatusNotFound, "POST_NOT_FOUND", posts.ErrPostNotFound)
		return
	}

	var req submitCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "INVALID_REQUEST", errors.New("invalid request body: "+err.Error()))
		return
	}

	comment, err := s.Threads.Submit(id, req.Content)
	if err != nil {
		fail(c, http.StatusBadRequest, "VALIDATION_FAILED", err)
		return
	}

	if s.Emitter != nil {
		s.Emitter.Emit(c.Request.Context(), events.Event{
			Type:    events.CommentSubmitted,
			PostID:  id,
			Payload: map[string]any{"comment_id": comment.ID},
		})
	}

	respond(c, http.StatusCreated, "Comment added", comment)
}
