package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/inkwell/blog-api/internal/core/domain"
)

func newMock(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func ns(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func cursor(mt *mtest.T, docs ...bson.D) bson.D {
	return mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, docs...)
}

func count(mt *mtest.T, n int32) bson.D {
	return cursor(mt, bson.D{{Key: "n", Value: n}})
}

func noDocument() bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil})
}

func found(doc bson.D) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "value", Value: doc})
}

func googleAuthorDoc(id primitive.ObjectID) bson.D {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: "Gail"},
		{Key: "email", Value: "gail@example.com"},
		{Key: "role", Value: "User"},
		{Key: "googleId", Value: "g-1"},
		{Key: "createdAt", Value: now},
		{Key: "updatedAt", Value: now},
	}
}

var gail = domain.ExternalProfile{Provider: "google", ExternalID: "g-1", Name: "Gail", Email: "gail@example.com"}

func TestAuthorRepository_FindOrCreateByExternalID(t *testing.T) {
	mt := newMock(t)

	mt.Run("inserted", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(
				bson.E{Key: "n", Value: 1},
				bson.E{Key: "nModified", Value: 0},
				bson.E{Key: "upserted", Value: bson.A{bson.D{{Key: "index", Value: 0}, {Key: "_id", Value: id}}}},
			),
			cursor(mt, googleAuthorDoc(id)),
		)
		repo := &AuthorRepository{col: mt.Coll}

		author, created, err := repo.FindOrCreateByExternalID(context.Background(), gail)
		require.NoError(mt, err)
		assert.True(mt, created)
		assert.Equal(mt, id.Hex(), author.ID)
		assert.Equal(mt, "g-1", author.GoogleID)
		assert.Equal(mt, domain.RoleStandard, author.Role)

		upsert := mt.GetStartedEvent()
		require.NotNil(mt, upsert)
		assert.Equal(mt, "update", upsert.CommandName)
	})

	mt.Run("matched existing", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 0}),
			cursor(mt, googleAuthorDoc(id)),
		)
		repo := &AuthorRepository{col: mt.Coll}

		author, created, err := repo.FindOrCreateByExternalID(context.Background(), gail)
		require.NoError(mt, err)
		assert.False(mt, created)
		assert.Equal(mt, id.Hex(), author.ID)
	})

	mt.Run("duplicate key falls back to read", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "E11000 duplicate key error"}),
			cursor(mt, googleAuthorDoc(id)),
		)
		repo := &AuthorRepository{col: mt.Coll}

		author, created, err := repo.FindOrCreateByExternalID(context.Background(), gail)
		require.NoError(mt, err)
		assert.False(mt, created)
		assert.Equal(mt, id.Hex(), author.ID)
	})

	mt.Run("other write error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 2, Message: "bad value"}))
		repo := &AuthorRepository{col: mt.Coll}

		_, _, err := repo.FindOrCreateByExternalID(context.Background(), gail)
		require.Error(mt, err)
		assert.NotErrorIs(mt, err, domain.ErrNotFound)
	})
}

func TestAuthorRepository_FindByEmail_PrefersPasswordAccount(t *testing.T) {
	mt := newMock(t)

	mt.Run("sort", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		doc := append(googleAuthorDoc(id), bson.E{Key: "password", Value: "$2a$10$hash"})
		mt.AddMockResponses(cursor(mt, doc))
		repo := &AuthorRepository{col: mt.Coll}

		author, err := repo.FindByEmail(context.Background(), "gail@example.com")
		require.NoError(mt, err)
		assert.Equal(mt, "$2a$10$hash", author.PasswordHash)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		require.Equal(mt, "find", evt.CommandName)
		elems, err := evt.Command.Lookup("sort").Document().Elements()
		require.NoError(mt, err)
		require.Len(mt, elems, 2)
		assert.Equal(mt, "password", elems[0].Key())
		assert.Equal(mt, int64(-1), elems[0].Value().AsInt64())
		assert.Equal(mt, "_id", elems[1].Key())
	})

	mt.Run("not found", func(mt *mtest.T) {
		mt.AddMockResponses(cursor(mt))
		repo := &AuthorRepository{col: mt.Coll}

		_, err := repo.FindByEmail(context.Background(), "nobody@example.com")
		assert.ErrorIs(mt, err, domain.ErrAuthorNotFound)
	})
}

func blogDoc(id, owner primitive.ObjectID, comments ...bson.D) bson.D {
	arr := bson.A{}
	for _, c := range comments {
		arr = append(arr, c)
	}
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "category", Value: "go"},
		{Key: "title", Value: "Channels"},
		{Key: "author", Value: owner},
		{Key: "content", Value: "body"},
		{Key: "comments", Value: arr},
		{Key: "createdAt", Value: now},
		{Key: "updatedAt", Value: now},
	}
}

func commentDoc(id, author primitive.ObjectID, content string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "content", Value: content},
		{Key: "author", Value: author},
		{Key: "commentDate", Value: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)},
	}
}

func TestBlogRepository_Update_MissClassification(t *testing.T) {
	mt := newMock(t)
	title := "Renamed"
	patch := domain.BlogPatch{Title: &title}

	mt.Run("owner match", func(mt *mtest.T) {
		id, owner := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(found(blogDoc(id, owner)))
		repo := &BlogRepository{col: mt.Coll}

		post, err := repo.Update(context.Background(), id.Hex(), owner.Hex(), patch)
		require.NoError(mt, err)
		assert.Equal(mt, owner.Hex(), post.AuthorID)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "findAndModify", evt.CommandName)
		assert.Equal(mt, owner, evt.Command.Lookup("query", "author").ObjectID())
	})

	mt.Run("missing post", func(mt *mtest.T) {
		mt.AddMockResponses(noDocument(), count(mt, 0))
		repo := &BlogRepository{col: mt.Coll}

		_, err := repo.Update(context.Background(), primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex(), patch)
		assert.ErrorIs(mt, err, domain.ErrBlogNotFound)
	})

	mt.Run("someone else's post", func(mt *mtest.T) {
		mt.AddMockResponses(noDocument(), count(mt, 1))
		repo := &BlogRepository{col: mt.Coll}

		_, err := repo.Update(context.Background(), primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex(), patch)
		assert.ErrorIs(mt, err, domain.ErrForbidden)
	})
}

func TestBlogRepository_Delete_MissClassification(t *testing.T) {
	mt := newMock(t)

	mt.Run("missing post", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}), count(mt, 0))
		repo := &BlogRepository{col: mt.Coll}

		err := repo.Delete(context.Background(), primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, domain.ErrBlogNotFound)
	})

	mt.Run("someone else's post", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}), count(mt, 1))
		repo := &BlogRepository{col: mt.Coll}

		err := repo.Delete(context.Background(), primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, domain.ErrForbidden)
	})
}

func TestBlogRepository_UpdateComment(t *testing.T) {
	mt := newMock(t)

	mt.Run("comment author", func(mt *mtest.T) {
		id, owner, writer, cid := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(found(blogDoc(id, owner, commentDoc(cid, writer, "edited"))))
		repo := &BlogRepository{col: mt.Coll}

		post, err := repo.UpdateComment(context.Background(), id.Hex(), cid.Hex(), writer.Hex(), "edited")
		require.NoError(mt, err)
		require.Len(mt, post.Comments, 1)
		assert.Equal(mt, "edited", post.Comments[0].Content)
		assert.Equal(mt, writer.Hex(), post.Comments[0].AuthorID)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		match := evt.Command.Lookup("query", "comments", "$elemMatch").Document()
		assert.Equal(mt, cid, match.Lookup("_id").ObjectID())
		assert.Equal(mt, writer, match.Lookup("author").ObjectID())
		_, ok := evt.Command.Lookup("update", "$set", "comments.$.content").StringValueOK()
		assert.True(mt, ok, "expected positional update of the matched comment")
	})

	mt.Run("missing comment", func(mt *mtest.T) {
		id, owner := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(noDocument(), cursor(mt, blogDoc(id, owner)))
		repo := &BlogRepository{col: mt.Coll}

		_, err := repo.UpdateComment(context.Background(), id.Hex(), primitive.NewObjectID().Hex(), owner.Hex(), "x")
		assert.ErrorIs(mt, err, domain.ErrCommentNotFound)
	})

	mt.Run("someone else's comment", func(mt *mtest.T) {
		id, owner, writer, cid := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(noDocument(), cursor(mt, blogDoc(id, owner, commentDoc(cid, writer, "hi"))))
		repo := &BlogRepository{col: mt.Coll}

		_, err := repo.UpdateComment(context.Background(), id.Hex(), cid.Hex(), owner.Hex(), "x")
		assert.ErrorIs(mt, err, domain.ErrForbidden)
	})

	mt.Run("missing post", func(mt *mtest.T) {
		mt.AddMockResponses(noDocument(), cursor(mt))
		repo := &BlogRepository{col: mt.Coll}

		_, err := repo.UpdateComment(context.Background(), primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex(), "x")
		assert.ErrorIs(mt, err, domain.ErrBlogNotFound)
	})
}

func TestBlogRepository_DeleteComment(t *testing.T) {
	mt := newMock(t)

	mt.Run("comment author", func(mt *mtest.T) {
		id, owner, writer, cid := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(found(blogDoc(id, owner)))
		repo := &BlogRepository{col: mt.Coll}

		post, err := repo.DeleteComment(context.Background(), id.Hex(), cid.Hex(), writer.Hex())
		require.NoError(mt, err)
		assert.Empty(mt, post.Comments)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, cid, evt.Command.Lookup("update", "$pull", "comments", "_id").ObjectID())
	})

	mt.Run("someone else's comment", func(mt *mtest.T) {
		id, owner, writer, cid := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(noDocument(), cursor(mt, blogDoc(id, owner, commentDoc(cid, writer, "hi"))))
		repo := &BlogRepository{col: mt.Coll}

		_, err := repo.DeleteComment(context.Background(), id.Hex(), cid.Hex(), owner.Hex())
		assert.ErrorIs(mt, err, domain.ErrForbidden)
	})
}
