package handler

import (
	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/ports"
)

// --- Request → Service input ---

func toRegisterInput(req registerRequest) ports.RegisterInput {
	return ports.RegisterInput{
		Name:     req.Name,
		LastName: req.LastName,
		Avatar:   req.Avatar,
		Email:    req.Email,
		Password: req.Password,
	}
}

func toAuthorPatch(req updateAuthorRequest) domain.AuthorPatch {
	patch := domain.AuthorPatch{
		Name:     req.Name,
		LastName: req.LastName,
		Avatar:   req.Avatar,
		Email:    req.Email,
		Password: req.Password,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		patch.Role = &role
	}
	return patch
}

func toReadTime(req *readTimeRequest) *domain.ReadTime {
	if req == nil {
		return nil
	}
	return &domain.ReadTime{Value: req.Value, Unit: req.Unit}
}

func toCreateBlogInput(req createBlogRequest) ports.CreateBlogInput {
	return ports.CreateBlogInput{
		Category: req.Category,
		Title:    req.Title,
		Cover:    req.Cover,
		ReadTime: toReadTime(req.ReadTime),
		Content:  req.Content,
	}
}

func toBlogPatch(req updateBlogRequest) domain.BlogPatch {
	return domain.BlogPatch{
		Category: req.Category,
		Title:    req.Title,
		Cover:    req.Cover,
		ReadTime: toReadTime(req.ReadTime),
		Content:  req.Content,
	}
}

// --- Domain → Response ---

func toAuthorResponse(a *domain.Author) *authorResponse {
	if a == nil {
		return nil
	}
	return &authorResponse{
		ID:       a.ID,
		Name:     a.Name,
		LastName: a.LastName,
		Avatar:   a.Avatar,
		Email:    a.Email,
		Role:     a.Role.String(),
		GoogleID: a.GoogleID,
	}
}

func toAuthorResponses(authors []*domain.Author) []authorResponse {
	out := make([]authorResponse, 0, len(authors))
	for _, a := range authors {
		out = append(out, *toAuthorResponse(a))
	}
	return out
}

func toCommentResponse(c domain.Comment) commentResponse {
	return commentResponse{
		ID:          c.ID,
		Content:     c.Content,
		Author:      c.AuthorID,
		CommentDate: c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toCommentResponses(comments []domain.Comment) []commentResponse {
	out := make([]commentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, toCommentResponse(c))
	}
	return out
}

func toBlogResponse(p *domain.BlogPost) blogResponse {
	resp := blogResponse{
		ID:        p.ID,
		Category:  p.Category,
		Title:     p.Title,
		Cover:     p.Cover,
		Author:    toAuthorResponse(p.Author),
		Content:   p.Content,
		Comments:  toCommentResponses(p.Comments),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.ReadTime != nil {
		resp.ReadTime = &readTimeResponse{Value: p.ReadTime.Value, Unit: p.ReadTime.Unit}
	}
	return resp
}

func toBlogResponses(posts []*domain.BlogPost) []blogResponse {
	out := make([]blogResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toBlogResponse(p))
	}
	return out
}
