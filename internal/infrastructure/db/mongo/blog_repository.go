package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/query"
)

var blogIDFields = toSet("_id", "author", "comments._id", "comments.author")

type readTimeDocument struct {
	Value float64 `bson:"value"`
	Unit  string  `bson:"unit"`
}

type commentDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Content   string             `bson:"content"`
	Author    primitive.ObjectID `bson:"author,omitempty"`
	CreatedAt time.Time          `bson:"commentDate"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

type blogDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Category  string             `bson:"category"`
	Title     string             `bson:"title"`
	Cover     string             `bson:"cover,omitempty"`
	ReadTime  *readTimeDocument  `bson:"readTime,omitempty"`
	Author    primitive.ObjectID `bson:"author"`
	Content   string             `bson:"content"`
	Comments  []commentDocument  `bson:"comments"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func hexOrEmpty(oid primitive.ObjectID) string {
	if oid.IsZero() {
		return ""
	}
	return oid.Hex()
}

func (c commentDocument) toDomain() domain.Comment {
	return domain.Comment{
		ID:        c.ID.Hex(),
		Content:   c.Content,
		AuthorID:  hexOrEmpty(c.Author),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (d *blogDocument) toDomain() *domain.BlogPost {
	post := &domain.BlogPost{
		ID:        d.ID.Hex(),
		Category:  d.Category,
		Title:     d.Title,
		Cover:     d.Cover,
		AuthorID:  hexOrEmpty(d.Author),
		Content:   d.Content,
		Comments:  make([]domain.Comment, 0, len(d.Comments)),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if d.ReadTime != nil {
		post.ReadTime = &domain.ReadTime{Value: d.ReadTime.Value, Unit: d.ReadTime.Unit}
	}
	for _, c := range d.Comments {
		post.Comments = append(post.Comments, c.toDomain())
	}
	return post
}

func newBlogDocument(p *domain.BlogPost) (*blogDocument, error) {
	author, ok := objectID(p.AuthorID)
	if !ok {
		return nil, domain.Invalid("author %q is not a valid id", p.AuthorID)
	}
	doc := &blogDocument{
		Category:  p.Category,
		Title:     p.Title,
		Cover:     p.Cover,
		Author:    author,
		Content:   p.Content,
		Comments:  []commentDocument{},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.ReadTime != nil {
		doc.ReadTime = &readTimeDocument{Value: p.ReadTime.Value, Unit: p.ReadTime.Unit}
	}
	return doc, nil
}

type BlogRepository struct {
	col *mongo.Collection
}

func NewBlogRepository(db *mongo.Database) *BlogRepository {
	return &BlogRepository{col: db.Collection(collectionBlogs)}
}

func (r *BlogRepository) Create(ctx context.Context, post *domain.BlogPost) (string, error) {
	doc, err := newBlogDocument(post)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("insert blog: %w", err)
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (r *BlogRepository) FindByID(ctx context.Context, id string) (*domain.BlogPost, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrBlogNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc blogDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBlogNotFound
		}
		return nil, fmt.Errorf("find blog: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *BlogRepository) List(ctx context.Context, q *query.Query) ([]*domain.BlogPost, int64, error) {
	filter, err := buildFilter(q.Criteria, blogIDFields)
	if err != nil {
		return nil, 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count blogs: %w", err)
	}
	cur, err := r.col.Find(ctx, filter, findOptions(q))
	if err != nil {
		return nil, 0, fmt.Errorf("list blogs: %w", err)
	}
	items, err := decodeBlogs(ctx, cur)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *BlogRepository) ListByAuthor(ctx context.Context, authorID string) ([]*domain.BlogPost, error) {
	oid, ok := objectID(authorID)
	if !ok {
		return []*domain.BlogPost{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"author": oid}, opts)
	if err != nil {
		return nil, fmt.Errorf("list blogs by author: %w", err)
	}
	return decodeBlogs(ctx, cur)
}

func decodeBlogs(ctx context.Context, cur *mongo.Cursor) ([]*domain.BlogPost, error) {
	defer cur.Close(ctx)
	out := []*domain.BlogPost{}
	for cur.Next(ctx) {
		var doc blogDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode blog: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate blogs: %w", err)
	}
	return out, nil
}

func blogPatchUpdate(patch domain.BlogPatch, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Cover != nil {
		set["cover"] = *patch.Cover
	}
	if patch.ReadTime != nil {
		set["readTime"] = readTimeDocument{Value: patch.ReadTime.Value, Unit: patch.ReadTime.Unit}
	}
	if patch.Content != nil {
		set["content"] = *patch.Content
	}
	return bson.M{"$set": set}
}

// Update matches on id and owner in one write. A miss is classified by a
// follow-up read.
func (r *BlogRepository) Update(ctx context.Context, id, ownerID string, patch domain.BlogPatch) (*domain.BlogPost, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrBlogNotFound
	}
	owner, ok := objectID(ownerID)
	if !ok {
		return nil, domain.Forbidden("only the author can modify this post")
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc blogDocument
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "author": owner},
		blogPatchUpdate(patch, time.Now().UTC()),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, r.classifyMiss(ctx, oid)
	}
	if err != nil {
		return nil, fmt.Errorf("update blog: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *BlogRepository) Delete(ctx context.Context, id, ownerID string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrBlogNotFound
	}
	owner, ok := objectID(ownerID)
	if !ok {
		return domain.Forbidden("only the author can modify this post")
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid, "author": owner})
	if err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}
	if res.DeletedCount == 0 {
		return r.classifyMiss(ctx, oid)
	}
	return nil
}

func (r *BlogRepository) classifyMiss(ctx context.Context, oid primitive.ObjectID) error {
	n, err := r.col.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("find blog: %w", err)
	}
	if n == 0 {
		return domain.ErrBlogNotFound
	}
	return domain.Forbidden("only the author can modify this post")
}

func (r *BlogRepository) AddComment(ctx context.Context, postID string, comment domain.Comment) (*domain.BlogPost, error) {
	oid, ok := objectID(postID)
	if !ok {
		return nil, domain.ErrBlogNotFound
	}
	author, ok := objectID(comment.AuthorID)
	if !ok {
		return nil, domain.Invalid("author %q is not a valid id", comment.AuthorID)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := commentDocument{
		ID:        primitive.NewObjectID(),
		Content:   comment.Content,
		Author:    author,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}
	var post blogDocument
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$push": bson.M{"comments": doc}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrBlogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	return post.toDomain(), nil
}

func (r *BlogRepository) FindComment(ctx context.Context, postID, commentID string) (*domain.Comment, error) {
	oid, ok := objectID(postID)
	if !ok {
		return nil, domain.ErrBlogNotFound
	}
	cid, ok := objectID(commentID)
	if !ok {
		return nil, domain.ErrCommentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := r.findWithComment(ctx, oid, cid)
	if err != nil {
		return nil, err
	}
	if len(doc.Comments) == 0 {
		return nil, domain.ErrCommentNotFound
	}
	c := doc.Comments[0].toDomain()
	return &c, nil
}

// findWithComment loads a post projected down to the single matching
// comment, if any.
func (r *BlogRepository) findWithComment(ctx context.Context, oid, cid primitive.ObjectID) (*blogDocument, error) {
	opts := options.FindOne().SetProjection(bson.M{
		"author":   1,
		"comments": bson.M{"$elemMatch": bson.M{"_id": cid}},
	})
	var doc blogDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBlogNotFound
		}
		return nil, fmt.Errorf("find comment: %w", err)
	}
	return &doc, nil
}

func (r *BlogRepository) UpdateComment(ctx context.Context, postID, commentID, authorID, content string) (*domain.BlogPost, error) {
	return r.mutateComment(ctx, postID, commentID, authorID, func(cid primitive.ObjectID) bson.M {
		return bson.M{"$set": bson.M{
			"comments.$.content":   content,
			"comments.$.updatedAt": time.Now().UTC(),
		}}
	})
}

func (r *BlogRepository) DeleteComment(ctx context.Context, postID, commentID, authorID string) (*domain.BlogPost, error) {
	return r.mutateComment(ctx, postID, commentID, authorID, func(cid primitive.ObjectID) bson.M {
		return bson.M{"$pull": bson.M{"comments": bson.M{"_id": cid}}}
	})
}

// mutateComment applies update to a comment only when authorID wrote it.
// The match and the write are one operation.
func (r *BlogRepository) mutateComment(ctx context.Context, postID, commentID, authorID string, update func(primitive.ObjectID) bson.M) (*domain.BlogPost, error) {
	oid, ok := objectID(postID)
	if !ok {
		return nil, domain.ErrBlogNotFound
	}
	cid, ok := objectID(commentID)
	if !ok {
		return nil, domain.ErrCommentNotFound
	}
	author, ok := objectID(authorID)
	if !ok {
		return nil, domain.Forbidden("only the author can modify this comment")
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"_id":      oid,
		"comments": bson.M{"$elemMatch": bson.M{"_id": cid, "author": author}},
	}
	var doc blogDocument
	err := r.col.FindOneAndUpdate(ctx, filter, update(cid),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, r.classifyCommentMiss(ctx, oid, cid)
	}
	if err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *BlogRepository) classifyCommentMiss(ctx context.Context, oid, cid primitive.ObjectID) error {
	doc, err := r.findWithComment(ctx, oid, cid)
	if err != nil {
		return err
	}
	if len(doc.Comments) == 0 {
		return domain.ErrCommentNotFound
	}
	return domain.Forbidden("only the author can modify this comment")
}
