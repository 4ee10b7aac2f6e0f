package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/inkwell/blog-api/internal/api/middleware"
	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/service"
	"github.com/inkwell/blog-api/internal/testutil"
)

type blogFixture struct {
	e       *echo.Echo
	handler *BlogHandler
	authors *testutil.AuthorStore
}

func newBlogFixture() *blogFixture {
	authors := testutil.NewAuthorStore()
	svc := service.NewBlogService(testutil.NewBlogStore(), authors, zerolog.New(io.Discard))
	return &blogFixture{
		e:       newTestEcho(),
		handler: NewBlogHandler(svc, "https://api.example.com"),
		authors: authors,
	}
}

func (f *blogFixture) caller(name string) domain.Caller {
	a := &domain.Author{Name: name, Email: name + "@example.com", PasswordHash: "$2a$secret", Role: domain.RoleStandard}
	f.authors.Put(a)
	return domain.Caller{ID: a.ID, Role: a.Role, Method: domain.AuthMethodBearer}
}

func (f *blogFixture) do(t *testing.T, h echo.HandlerFunc, req *http.Request, caller *domain.Caller, params ...string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	rec := httptest.NewRecorder()
	c := f.e.NewContext(req, rec)
	if len(params)%2 != 0 {
		t.Fatalf("params must be name/value pairs")
	}
	var names, values []string
	for i := 0; i < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	if caller != nil {
		middleware.SetCaller(c, *caller)
	}
	return rec, h(c)
}

func (f *blogFixture) create(t *testing.T, owner domain.Caller) string {
	t.Helper()
	rec, err := f.do(t, f.handler.Create,
		jsonRequest(http.MethodPost, "/blogs", `{"category":"go","title":"T","content":"C","readTime":{"value":3,"unit":"min"},"author":"someone-else"}`),
		&owner)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp createdResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.ID == "" {
		t.Fatalf("unexpected body %s err=%v", rec.Body.String(), err)
	}
	return resp.ID
}

func TestBlogHandler_CreateAndGet(t *testing.T) {
	f := newBlogFixture()
	owner := f.caller("owner")
	id := f.create(t, owner)

	rec, err := f.do(t, f.handler.Get, httptest.NewRequest(http.MethodGet, "/blogs/"+id, nil), nil, "id", id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var post blogResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &post); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if post.Author == nil || post.Author.ID != owner.ID {
		t.Fatalf("expected owner to be the caller, got %+v", post.Author)
	}
	if post.ReadTime == nil || post.ReadTime.Unit != "min" {
		t.Fatalf("unexpected read time: %+v", post.ReadTime)
	}
	if strings.Contains(rec.Body.String(), `"password"`) || strings.Contains(rec.Body.String(), "$2a$") {
		t.Fatalf("response leaks password: %s", rec.Body.String())
	}
}

func TestBlogHandler_Create_RequiresCaller(t *testing.T) {
	f := newBlogFixture()
	_, err := f.do(t, f.handler.Create, jsonRequest(http.MethodPost, "/blogs", `{"category":"go","title":"T","content":"C"}`), nil)
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestBlogHandler_Get_NotFound(t *testing.T) {
	f := newBlogFixture()
	_, err := f.do(t, f.handler.Get, httptest.NewRequest(http.MethodGet, "/blogs/nope", nil), nil, "id", "nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBlogHandler_List(t *testing.T) {
	f := newBlogFixture()
	owner := f.caller("owner")
	for i := 0; i < 5; i++ {
		f.create(t, owner)
	}

	rec, err := f.do(t, f.handler.List, httptest.NewRequest(http.MethodGet, "/blogs?category=go&limit=2&offset=2", nil), nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var resp listBlogsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.TotalPages != 3 || len(resp.Blogs) != 2 {
		t.Fatalf("unexpected page: totalPages=%d blogs=%d", resp.TotalPages, len(resp.Blogs))
	}
	if resp.Links.Prev == "" || resp.Links.Next == "" || resp.Links.First == "" || resp.Links.Last == "" {
		t.Fatalf("expected all links, got %+v", resp.Links)
	}
	if !strings.HasPrefix(resp.Links.Next, "https://api.example.com/blogs?") || !strings.Contains(resp.Links.Next, "category=go") {
		t.Fatalf("next link lost base or filter: %s", resp.Links.Next)
	}
}

func TestBlogHandler_Update_NonOwner(t *testing.T) {
	f := newBlogFixture()
	owner := f.caller("owner")
	other := f.caller("other")
	id := f.create(t, owner)

	_, err := f.do(t, f.handler.Update, jsonRequest(http.MethodPut, "/blogs/"+id, `{"title":"hijacked"}`), &other, "id", id)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	rec, err := f.do(t, f.handler.Update, jsonRequest(http.MethodPut, "/blogs/"+id, `{"title":"renamed"}`), &owner, "id", id)
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"title":"renamed"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestBlogHandler_Comments(t *testing.T) {
	f := newBlogFixture()
	owner := f.caller("owner")
	reader := f.caller("reader")
	id := f.create(t, owner)

	rec, err := f.do(t, f.handler.AddComment, jsonRequest(http.MethodPost, "/blogs/"+id+"/comments", `{"content":"first!"}`), &reader, "id", id)
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var post blogResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &post); err != nil || len(post.Comments) != 1 {
		t.Fatalf("unexpected body %s err=%v", rec.Body.String(), err)
	}
	comment := post.Comments[0]
	if comment.Content != "first!" || comment.Author != reader.ID {
		t.Fatalf("unexpected comment %+v", comment)
	}

	_, err = f.do(t, f.handler.UpdateComment, jsonRequest(http.MethodPut, "/", `{"content":"edited"}`), &owner, "id", id, "commentId", comment.ID)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	rec, err = f.do(t, f.handler.GetComment, httptest.NewRequest(http.MethodGet, "/", nil), nil, "id", id, "commentId", comment.ID)
	if err != nil || !strings.Contains(rec.Body.String(), `"content":"first!"`) {
		t.Fatalf("get comment: %s err=%v", rec.Body.String(), err)
	}

	rec, err = f.do(t, f.handler.DeleteComment, httptest.NewRequest(http.MethodDelete, "/", nil), &reader, "id", id, "commentId", comment.ID)
	if err != nil {
		t.Fatalf("delete comment: %v", err)
	}

	rec, err = f.do(t, f.handler.ListComments, httptest.NewRequest(http.MethodGet, "/", nil), nil, "id", id)
	if err != nil || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected no comments, got %s err=%v", rec.Body.String(), err)
	}

	_, err = f.do(t, f.handler.AddComment, jsonRequest(http.MethodPost, "/", `{"content":""}`), &reader, "id", id)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
