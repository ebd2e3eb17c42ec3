package mongostore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/baechuer/notepad-service/internal/domain"
)

func TestUserRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create assigns object id", func(mt *mtest.T) {
		repo := NewUserRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		u, err := repo.Create(ctx, domain.User{Name: "Ann", Email: " Ann@X.io", PasswordHash: "h", Phone: "1"})
		require.NoError(mt, err)
		assert.True(mt, primitive.IsValidObjectID(u.ID))
		assert.Equal(mt, "ann@x.io", u.Email)
	})

	mt.Run("create duplicate email", func(mt *mtest.T) {
		repo := NewUserRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "E11000 duplicate key error",
		}))

		_, err := repo.Create(ctx, domain.User{Email: "a@x.io", PasswordHash: "h"})
		assert.True(mt, domain.Is(err, "email_already_exists"), "got %v", err)
	})

	mt.Run("get by email found", func(mt *mtest.T) {
		repo := NewUserRepo(mt.DB)
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid},
			{Key: "name", Value: "Ann"},
			{Key: "email", Value: "ann@x.io"},
			{Key: "password", Value: "hash"},
			{Key: "phone", Value: "1"},
		}))

		u, err := repo.GetByEmail(ctx, "ANN@x.io")
		require.NoError(mt, err)
		assert.Equal(mt, oid.Hex(), u.ID)
		assert.Equal(mt, "hash", u.PasswordHash)
	})

	mt.Run("get by email missing", func(mt *mtest.T) {
		repo := NewUserRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch))

		_, err := repo.GetByEmail(ctx, "nobody@x.io")
		assert.True(mt, domain.Is(err, "user_not_found"))
	})

	mt.Run("get by malformed id", func(mt *mtest.T) {
		repo := NewUserRepo(mt.DB)

		_, err := repo.GetByID(ctx, "not-hex")
		assert.True(mt, domain.Is(err, "user_not_found"))
	})

	mt.Run("server error", func(mt *mtest.T) {
		repo := NewUserRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 13, Message: "unauthorized", Name: "Unauthorized",
		}))

		_, err := repo.GetByEmail(ctx, "a@x.io")
		assert.True(mt, domain.Is(err, "db_unavailable"))
	})
}

func TestNoteRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	mt.Run("create", func(mt *mtest.T) {
		repo := NewNoteRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		n := &domain.Note{UserID: "u1", Content: "hi", CreatedAt: now, UpdatedAt: now}
		require.NoError(mt, repo.Create(ctx, n))
		assert.True(mt, primitive.IsValidObjectID(n.ID))
	})

	mt.Run("list by owner", func(mt *mtest.T) {
		repo := NewNoteRepo(mt.DB)
		a, b := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.notes", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: a}, {Key: "user_id", Value: "u1"}, {Key: "content", Value: "first"}, {Key: "created_at", Value: now}},
			bson.D{{Key: "_id", Value: b}, {Key: "user_id", Value: "u1"}, {Key: "content", Value: "second"}, {Key: "created_at", Value: now}},
		))

		list, err := repo.ListByOwner(ctx, "u1")
		require.NoError(mt, err)
		require.Len(mt, list, 2)
		assert.Equal(mt, a.Hex(), list[0].ID)
		assert.Equal(mt, "second", list[1].Content)
	})

	mt.Run("list empty is not nil", func(mt *mtest.T) {
		repo := NewNoteRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.notes", mtest.FirstBatch))

		list, err := repo.ListByOwner(ctx, "u1")
		require.NoError(mt, err)
		assert.NotNil(mt, list)
		assert.Empty(mt, list)
	})

	mt.Run("get owned missing", func(mt *mtest.T) {
		repo := NewNoteRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.notes", mtest.FirstBatch))

		_, err := repo.GetOwned(ctx, primitive.NewObjectID().Hex(), "intruder")
		assert.True(mt, domain.Is(err, "note_not_found"))
	})

	mt.Run("update matched and unmatched", func(mt *mtest.T) {
		repo := NewNoteRepo(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
		)

		n := &domain.Note{ID: primitive.NewObjectID().Hex(), UserID: "u1", Content: "v2", UpdatedAt: now}
		require.NoError(mt, repo.Update(ctx, n))
		assert.True(mt, domain.Is(repo.Update(ctx, n), "note_not_found"))
	})

	mt.Run("delete", func(mt *mtest.T) {
		repo := NewNoteRepo(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
		)

		id := primitive.NewObjectID().Hex()
		require.NoError(mt, repo.Delete(ctx, id, "u1"))
		assert.True(mt, domain.Is(repo.Delete(ctx, id, "u1"), "note_not_found"))
	})

	mt.Run("malformed id never hits the server", func(mt *mtest.T) {
		repo := NewNoteRepo(mt.DB)

		_, err := repo.GetOwned(ctx, "42", "u1")
		assert.True(mt, domain.Is(err, "note_not_found"))
		assert.True(mt, domain.Is(repo.Delete(ctx, "42", "u1"), "note_not_found"))
		assert.True(mt, domain.Is(repo.Update(ctx, &domain.Note{ID: "42", UserID: "u1"}), "note_not_found"))
	})
}

func TestEnsureIndexes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("creates both indexes", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(), mtest.CreateSuccessResponse())
		require.NoError(mt, EnsureIndexes(context.Background(), mt.DB))
	})

	mt.Run("propagates failure", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "bad", Name: "BadValue"}))
		err := EnsureIndexes(context.Background(), mt.DB)
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "users index")
	})
}
