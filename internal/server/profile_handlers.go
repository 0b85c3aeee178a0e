package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"moments/internal/profile"
	"moments/internal/storage"
)

// maxImageUpload bounds multipart profile image uploads
const maxImageUpload = storage.MaxImageSize

func profileStatus(err error) (int, string) {
	switch {
	case errors.Is(err, profile.ErrEmptyName),
		errors.Is(err, profile.ErrNameTooLong),
		errors.Is(err, profile.ErrBioTooLong),
		errors.Is(err, profile.ErrInvalidMood),
		errors.Is(err, profile.ErrInvalidTag),
		errors.Is(err, profile.ErrNotAnImage),
		errors.Is(err, profile.ErrUnknownKind):
		return http.StatusBadRequest, "VALIDATION_FAILED"
	case errors.Is(err, profile.ErrNoImageStore):
		return http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE"
	default:
		return http.StatusInternalServerError, "PROFILE_UPDATE_FAILED"
	}
}

// getProfileHandler handles GET /profile
func (s *Server) getProfileHandler(c *gin.Context) {
	respond(c, http.StatusOK, "", s.Profile.Get())
}

// updateProfileHandler handles PUT /profile
func (s *Server) updateProfileHandler(c *gin.Context) {
	var req profile.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "INVALID_REQUEST", errors.New("invalid request body: "+err.Error()))
		return
	}

	updated, err := s.Profile.Update(c.Request.Context(), req)
	if err != nil {
		status, code := profileStatus(err)
		fail(c, status, code, err)
		return
	}
	respond(c, http.StatusOK, "Profile updated", updated)
}

// toggleTagHandler handles POST /profile/tags/:tag
func (s *Server) toggleTagHandler(c *gin.Context) {
	updated, err := s.Profile.ToggleTag(c.Request.Context(), c.Param("tag"))
	if err != nil {
		status, code := profileStatus(err)
		fail(c, status, code, err)
		return
	}
	respond(c, http.StatusOK, "", updated)
}

// uploadProfileImageHandler handles POST /profile/avatar and /profile/background
// with a multipart "file" field.
func (s *Server) uploadProfileImageHandler(c *gin.Context) {
	kind, err := profile.ParseKind(c.Param("kind"))
	if err != nil {
		fail(c, http.StatusNotFound, "NOT_FOUND", err)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageUpload)
	header, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, "INVALID_REQUEST", errors.New("multipart field \"file\" is required"))
		return
	}

	file, err := header.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}
	defer file.Close()

	updated, err := s.Profile.SetImage(c.Request.Context(), kind, file)
	if err != nil {
		status, code := profileStatus(err)
		fail(c, status, code, err)
		return
	}
	respond(c, http.StatusOK, "Profile image updated", updated)
}

// uploadURLHandler handles POST /uploads/url
func (s *Server) uploadURLHandler(c *gin.Context) {
	if s.Uploads == nil {
		fail(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", errors.New("storage service is not available"))
		return
	}

	var req storage.UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "INVALID_REQUEST", errors.New("invalid request body: "+err.Error()))
		return
	}

	resp, err := s.Uploads.GenerateUploadURL(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrInvalidFilename), errors.Is(err, storage.ErrInvalidContentType):
			fail(c, http.StatusBadRequest, "VALIDATION_FAILED", err)
		default:
			fail(c, http.StatusInternalServerError, "GENERATION_FAILED", err)
		}
		return
	}
	respond(c, http.StatusOK, "", resp)
}
