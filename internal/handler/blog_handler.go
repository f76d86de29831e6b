package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"inkwell/internal/errors"
	"inkwell/internal/repository"
	"inkwell/internal/service"
)

// BlogHandler handles blog post endpoints.
type BlogHandler struct {
	postService       service.PostService
	engagementService service.EngagementService
}

// NewBlogHandler creates a new blog handler.
func NewBlogHandler(postService service.PostService, engagementService service.EngagementService) *BlogHandler {
	return &BlogHandler{
		postService:       postService,
		engagementService: engagementService,
	}
}

// CommentRequest represents a comment submission.
type CommentRequest struct {
	Text string `json:"text" validate:"required"`
}

// LikeResponse represents the outcome of a like toggle.
type LikeResponse struct {
	Message   string `json:"message"`
	Liked     bool   `json:"liked"`
	LikeCount int64  `json:"like_count"`
}

// List godoc
// @Summary List blog posts, newest first
// @Tags blogs
// @Produce json
// @Param search query string false "Case-insensitive substring over title and description"
// @Param category query string false "Category (case-insensitive)"
// @Success 200 {array} model.Post
// @Failure 500 {object} errors.ErrorResponse
// @Router /blogs [get]
func (h *BlogHandler) List(c echo.Context) error {
	posts, err := h.postService.ListPosts(c.Request().Context(), repository.PostFilter{
		Search:   c.QueryParam("search"),
		Category: c.QueryParam("category"),
	})
	if err != nil {
		return h.fail(err)
	}
	return c.JSON(http.StatusOK, posts)
}

// Get godoc
// @Summary Get a single blog post
// @Tags blogs
// @Produce json
// @Param id path string true "Post id"
// @Success 200 {object} model.Post
// @Failure 404 {object} errors.ErrorResponse
// @Router /blogs/{id} [get]
func (h *BlogHandler) Get(c echo.Context) error {
	id, err := parsePostID(c)
	if err != nil {
		return h.fail(errors.ErrPostNotFound)
	}

	post, err := h.postService.GetPost(c.Request().Context(), id)
	if err != nil {
		return h.fail(err)
	}
	return c.JSON(http.StatusOK, post)
}

// Create godoc
// @Summary Create a blog post
// @Tags blogs
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param description formData string true "Short description"
// @Param content formData string true "Full content"
// @Param category formData string true "Category"
// @Param image formData file false "Cover image"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /blogs [post]
func (h *BlogHandler) Create(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	image, closeImage := imageFromForm(c)
	if closeImage != nil {
		defer closeImage()
	}

	post, err := h.postService.CreatePost(c.Request().Context(), user.ID, service.PostInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Content:     c.FormValue("content"),
		Category:    c.FormValue("category"),
	}, image)
	if err != nil {
		return h.fail(err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "blog created successfully",
		"blog":    post,
	})
}

// Update godoc
// @Summary Update a blog post (owner only, partial fields)
// @Tags blogs
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post id"
// @Param title formData string false "Title"
// @Param description formData string false "Short description"
// @Param content formData string false "Full content"
// @Param category formData string false "Category"
// @Param image formData file false "Replacement cover image"
// @Param removeImage formData string false "Set to true to clear the image"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /blogs/{id} [put]
func (h *BlogHandler) Update(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	id, err := parsePostID(c)
	if err != nil {
		return h.fail(errors.ErrPostNotFound)
	}

	image, closeImage := imageFromForm(c)
	if closeImage != nil {
		defer closeImage()
	}
	removeImage := c.FormValue("removeImage") == "true"

	post, err := h.postService.UpdatePost(c.Request().Context(), user.ID, id, service.PostPatch{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Content:     c.FormValue("content"),
		Category:    c.FormValue("category"),
	}, image, removeImage)
	if err != nil {
		return h.fail(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "blog updated successfully",
		"blog":    post,
	})
}

// Delete godoc
// @Summary Delete a blog post (owner only)
// @Tags blogs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post id"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /blogs/{id} [delete]
func (h *BlogHandler) Delete(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	id, err := parsePostID(c)
	if err != nil {
		return h.fail(errors.ErrPostNotFound)
	}

	if err := h.postService.DeletePost(c.Request().Context(), user.ID, id); err != nil {
		return h.fail(err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "blog deleted successfully",
	})
}

// ToggleLike godoc
// @Summary Toggle the acting user's like on a post
// @Tags blogs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post id"
// @Success 200 {object} LikeResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /blogs/{id}/like [post]
func (h *BlogHandler) ToggleLike(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	id, err := parsePostID(c)
	if err != nil {
		return h.fail(errors.ErrPostNotFound)
	}

	liked, count, err := h.engagementService.ToggleLike(c.Request().Context(), user.ID, id)
	if err != nil {
		return h.fail(err)
	}

	message := "blog unliked"
	if liked {
		message = "blog liked"
	}
	return c.JSON(http.StatusOK, LikeResponse{
		Message:   message,
		Liked:     liked,
		LikeCount: count,
	})
}

// AddComment godoc
// @Summary Add a comment to a post
// @Tags blogs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post id"
// @Param request body CommentRequest true "Comment text"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /blogs/{id}/comment [post]
func (h *BlogHandler) AddComment(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	id, err := parsePostID(c)
	if err != nil {
		return h.fail(errors.ErrPostNotFound)
	}

	var req CommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	comment, err := h.engagementService.AddComment(c.Request().Context(), user.ID, user.Name, id, req.Text)
	if err != nil {
		return h.fail(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "comment added successfully",
		"comment": comment,
	})
}

// DeleteComment godoc
// @Summary Delete a comment (comment author only)
// @Tags blogs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post id"
// @Param cid path string true "Comment id"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /blogs/{id}/comment/{cid} [delete]
func (h *BlogHandler) DeleteComment(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	id, err := parsePostID(c)
	if err != nil {
		return h.fail(errors.ErrPostNotFound)
	}
	commentID, err := uuid.Parse(c.Param("cid"))
	if err != nil {
		return h.fail(errors.ErrCommentNotFound)
	}

	if err := h.engagementService.DeleteComment(c.Request().Context(), user.ID, id, commentID); err != nil {
		return h.fail(err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "comment deleted successfully",
	})
}

// ServeImage redirects a legacy bare-image-id URL to the media delivery URL.
func (h *BlogHandler) ServeImage(c echo.Context) error {
	imageID := c.Param("imageId")
	if imageID == "" {
		return echo.NewHTTPError(http.StatusNotFound, "image not found")
	}
	url, err := h.postService.ImageURL(imageID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "image not found")
	}
	return c.Redirect(http.StatusFound, url)
}

// fail maps a domain error to the echo error carrying its HTTP shape.
func (h *BlogHandler) fail(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func parsePostID(c echo.Context) (uuid.UUID, error) {
	return uuid.Parse(c.Param("id"))
}

// imageFromForm extracts an optional multipart image. The returned closer is
// nil when no file was supplied.
func imageFromForm(c echo.Context) (*service.ImageUpload, func()) {
	fh, err := c.FormFile("image")
	if err != nil {
		return nil, nil
	}
	src, err := fh.Open()
	if err != nil {
		return nil, nil
	}
	return &service.ImageUpload{
		Reader:      src,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
	}, func() { _ = src.Close() }
}
