package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkwell/blog-api/internal/api/metrics"
)

// AddComment handles POST /blogs/:id/comments.
//
// @Summary      Comment on a post
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Post id"
// @Param        body  body      commentRequest  true  "Comment"
// @Success      201   {object}  blogResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /blogs/{id}/comments [post]
func (h *BlogHandler) AddComment(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	var req commentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	post, err := h.service.AddComment(c.Request().Context(), caller, c.Param("id"), req.Content)
	if err != nil {
		return err
	}

	metrics.CommentsTotal.WithLabelValues("create").Inc()
	return c.JSON(http.StatusCreated, toBlogResponse(post))
}

// ListComments handles GET /blogs/:id/comments.
//
// @Summary      List comments on a post
// @Tags         comments
// @Produce      json
// @Param        id   path      string  true  "Post id"
// @Success      200  {array}   commentResponse
// @Failure      404  {object}  map[string]string
// @Router       /blogs/{id}/comments [get]
func (h *BlogHandler) ListComments(c echo.Context) error {
	comments, err := h.service.ListComments(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCommentResponses(comments))
}

// GetComment handles GET /blogs/:id/comments/:commentId.
//
// @Summary      Get a comment
// @Tags         comments
// @Produce      json
// @Param        id         path      string  true  "Post id"
// @Param        commentId  path      string  true  "Comment id"
// @Success      200        {object}  commentResponse
// @Failure      404        {object}  map[string]string
// @Router       /blogs/{id}/comments/{commentId} [get]
func (h *BlogHandler) GetComment(c echo.Context) error {
	comment, err := h.service.GetComment(c.Request().Context(), c.Param("id"), c.Param("commentId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCommentResponse(*comment))
}

// UpdateComment handles PUT /blogs/:id/comments/:commentId.
//
// @Summary      Edit a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id         path      string          true  "Post id"
// @Param        commentId  path      string          true  "Comment id"
// @Param        body       body      commentRequest  true  "Comment"
// @Success      200        {object}  blogResponse
// @Failure      403        {object}  map[string]string
// @Failure      404        {object}  map[string]string
// @Router       /blogs/{id}/comments/{commentId} [put]
func (h *BlogHandler) UpdateComment(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	var req commentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	post, err := h.service.UpdateComment(c.Request().Context(), caller, c.Param("id"), c.Param("commentId"), req.Content)
	if err != nil {
		return err
	}

	metrics.CommentsTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, toBlogResponse(post))
}

// DeleteComment handles DELETE /blogs/:id/comments/:commentId.
//
// @Summary      Delete a comment
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id         path      string  true  "Post id"
// @Param        commentId  path      string  true  "Comment id"
// @Success      200        {object}  blogResponse
// @Failure      403        {object}  map[string]string
// @Failure      404        {object}  map[string]string
// @Router       /blogs/{id}/comments/{commentId} [delete]
func (h *BlogHandler) DeleteComment(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	post, err := h.service.DeleteComment(c.Request().Context(), caller, c.Param("id"), c.Param("commentId"))
	if err != nil {
		return err
	}

	metrics.CommentsTotal.WithLabelValues("delete").Inc()
	return c.JSON(http.StatusOK, toBlogResponse(post))
}
