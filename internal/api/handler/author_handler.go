package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkwell/blog-api/internal/api/metrics"
	"github.com/inkwell/blog-api/internal/core/ports"
)

// AuthorHandler serves author profiles, both self-service and administrative.
type AuthorHandler struct {
	service       ports.AuthorService
	publicBaseURL string
}

func NewAuthorHandler(service ports.AuthorService, publicBaseURL string) *AuthorHandler {
	return &AuthorHandler{service: service, publicBaseURL: publicBaseURL}
}

// List handles GET /authors.
//
// @Summary      List authors
// @Tags         authors
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query     int     false  "Page size (default 20, max 100)"
// @Param        offset  query     int     false  "Items to skip"
// @Param        sort    query     string  false  "Comma-separated fields, '-' for descending"
// @Success      200     {object}  listAuthorsResponse
// @Failure      400     {object}  map[string]string
// @Failure      401     {object}  map[string]string
// @Failure      403     {object}  map[string]string
// @Router       /authors [get]
func (h *AuthorHandler) List(c echo.Context) error {
	page, err := h.service.List(c.Request().Context(), c.QueryString())
	if err != nil {
		return err
	}

	metrics.ListPageSize.WithLabelValues("authors").Observe(float64(len(page.Items)))
	return c.JSON(http.StatusOK, listAuthorsResponse{
		Links:      page.Query.Links(listBaseURL(c, h.publicBaseURL), page.Total),
		TotalPages: page.Query.TotalPages(page.Total),
		Authors:    toAuthorResponses(page.Items),
	})
}

// Get handles GET /authors/:id.
//
// @Summary      Get an author
// @Tags         authors
// @Produce      json
// @Param        id   path      string  true  "Author id"
// @Success      200  {object}  authorResponse
// @Failure      404  {object}  map[string]string
// @Router       /authors/{id} [get]
func (h *AuthorHandler) Get(c echo.Context) error {
	author, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAuthorResponse(author))
}

// Me handles GET /authors/me.
//
// @Summary      Current author
// @Tags         authors
// @Produce      json
// @Security     BasicAuth
// @Success      200  {object}  authorResponse
// @Failure      401  {object}  map[string]string
// @Router       /authors/me [get]
func (h *AuthorHandler) Me(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	if caller.Author != nil {
		return c.JSON(http.StatusOK, toAuthorResponse(caller.Author))
	}
	author, err := h.service.Get(c.Request().Context(), caller.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAuthorResponse(author))
}

// UpdateMe handles PUT /authors/me.
//
// @Summary      Update current author
// @Tags         authors
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        body  body      updateAuthorRequest  true  "Fields to change"
// @Success      200   {object}  authorResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /authors/me [put]
func (h *AuthorHandler) UpdateMe(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	var req updateAuthorRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	author, err := h.service.UpdateSelf(c.Request().Context(), caller, toAuthorPatch(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAuthorResponse(author))
}

// DeleteMe handles DELETE /authors/me.
//
// @Summary      Delete current author
// @Tags         authors
// @Security     BasicAuth
// @Success      204
// @Failure      401  {object}  map[string]string
// @Router       /authors/me [delete]
func (h *AuthorHandler) DeleteMe(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), caller.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// MyStories handles GET /authors/me/stories.
//
// @Summary      Posts by the current author
// @Tags         authors
// @Produce      json
// @Security     BasicAuth
// @Success      200  {array}   blogResponse
// @Failure      401  {object}  map[string]string
// @Router       /authors/me/stories [get]
func (h *AuthorHandler) MyStories(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	posts, err := h.service.Stories(c.Request().Context(), caller.ID)
	if err != nil {
		return err
	}
	for _, p := range posts {
		p.Author = caller.Author
	}
	return c.JSON(http.StatusOK, toBlogResponses(posts))
}

// Update handles PUT /authors/:id.
//
// @Summary      Update an author (admin)
// @Tags         authors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Author id"
// @Param        body  body      updateAuthorRequest  true  "Fields to change"
// @Success      200   {object}  authorResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /authors/{id} [put]
func (h *AuthorHandler) Update(c echo.Context) error {
	var req updateAuthorRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	author, err := h.service.UpdateByAdmin(c.Request().Context(), c.Param("id"), toAuthorPatch(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAuthorResponse(author))
}

// Delete handles DELETE /authors/:id.
//
// @Summary      Delete an author (admin)
// @Tags         authors
// @Security     BearerAuth
// @Param        id   path  string  true  "Author id"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /authors/{id} [delete]
func (h *AuthorHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
