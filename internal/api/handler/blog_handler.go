package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkwell/blog-api/internal/api/metrics"
	"github.com/inkwell/blog-api/internal/core/ports"
)

// BlogHandler handles HTTP requests for posts and their comments.
type BlogHandler struct {
	service       ports.BlogService
	publicBaseURL string
}

func NewBlogHandler(service ports.BlogService, publicBaseURL string) *BlogHandler {
	return &BlogHandler{service: service, publicBaseURL: publicBaseURL}
}

// Create handles POST /blogs. The caller becomes the owner; any author in
// the body is ignored.
//
// @Summary      Create a post
// @Tags         blogs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createBlogRequest  true  "Post"
// @Success      201   {object}  createdResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /blogs [post]
func (h *BlogHandler) Create(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	var req createBlogRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	id, err := h.service.Create(c.Request().Context(), caller, toCreateBlogInput(req))
	if err != nil {
		return err
	}

	metrics.PostsTotal.WithLabelValues("create").Inc()
	c.Response().Header().Set(echo.HeaderLocation, "/blogs/"+id)
	return c.JSON(http.StatusCreated, createdResponse{ID: id})
}

// List handles GET /blogs.
//
// @Summary      List posts
// @Tags         blogs
// @Produce      json
// @Param        limit     query     int     false  "Page size (default 20, max 100)"
// @Param        offset    query     int     false  "Items to skip"
// @Param        sort      query     string  false  "Comma-separated fields, '-' for descending"
// @Param        category  query     string  false  "Filter by category"
// @Success      200       {object}  listBlogsResponse
// @Failure      400       {object}  map[string]string
// @Router       /blogs [get]
func (h *BlogHandler) List(c echo.Context) error {
	page, err := h.service.List(c.Request().Context(), c.QueryString())
	if err != nil {
		return err
	}

	metrics.ListPageSize.WithLabelValues("blogs").Observe(float64(len(page.Items)))
	return c.JSON(http.StatusOK, listBlogsResponse{
		Links:      page.Query.Links(listBaseURL(c, h.publicBaseURL), page.Total),
		TotalPages: page.Query.TotalPages(page.Total),
		Blogs:      toBlogResponses(page.Items),
	})
}

// Get handles GET /blogs/:id.
//
// @Summary      Get a post
// @Tags         blogs
// @Produce      json
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  blogResponse
// @Failure      404  {object}  map[string]string
// @Router       /blogs/{id} [get]
func (h *BlogHandler) Get(c echo.Context) error {
	post, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBlogResponse(post))
}

// Update handles PUT /blogs/:id.
//
// @Summary      Update a post
// @Tags         blogs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Post id"
// @Param        body  body      updateBlogRequest  true  "Fields to change"
// @Success      200   {object}  blogResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /blogs/{id} [put]
func (h *BlogHandler) Update(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	var req updateBlogRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	post, err := h.service.Update(c.Request().Context(), caller, c.Param("id"), toBlogPatch(req))
	if err != nil {
		return err
	}

	metrics.PostsTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, toBlogResponse(post))
}

// Delete handles DELETE /blogs/:id.
//
// @Summary      Delete a post
// @Tags         blogs
// @Security     BearerAuth
// @Param        id   path  string  true  "Post id"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /blogs/{id} [delete]
func (h *BlogHandler) Delete(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}

	metrics.PostsTotal.WithLabelValues("delete").Inc()
	return c.NoContent(http.StatusNoContent)
}
