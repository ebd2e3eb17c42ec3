package mongostore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/baechuer/notepad-service/internal/domain"
)

type NoteRepo struct {
	coll *mongo.Collection
}

func NewNoteRepo(db *mongo.Database) *NoteRepo {
	return &NoteRepo{coll: db.Collection(notesCollection)}
}

// ownedFilter returns ok=false for ids that cannot exist in this store.
func ownedFilter(id, userID string) (bson.M, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, false
	}
	return bson.M{"_id": oid, "user_id": userID}, true
}

func (r *NoteRepo) Create(ctx context.Context, n *domain.Note) error {
	doc := noteDoc{
		ID:        primitive.NewObjectID(),
		UserID:    n.UserID,
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n.ID = doc.ID.Hex()
	return nil
}

func (r *NoteRepo) ListByOwner(ctx context.Context, userID string) ([]*domain.Note, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer cur.Close(ctx)

	out := make([]*domain.Note, 0)
	for cur.Next(ctx) {
		var doc noteDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		out = append(out, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

func (r *NoteRepo) GetOwned(ctx context.Context, id, userID string) (*domain.Note, error) {
	filter, ok := ownedFilter(id, userID)
	if !ok {
		return nil, domain.ErrNoteNotFound()
	}

	var doc noteDoc
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNoteNotFound()
	}
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return doc.toDomain(), nil
}

func (r *NoteRepo) Update(ctx context.Context, n *domain.Note) error {
	filter, ok := ownedFilter(n.ID, n.UserID)
	if !ok {
		return domain.ErrNoteNotFound()
	}

	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"content":    n.Content,
		"updated_at": n.UpdatedAt,
	}})
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNoteNotFound()
	}
	return nil
}

func (r *NoteRepo) Delete(ctx context.Context, id, userID string) error {
	filter, ok := ownedFilter(id, userID)
	if !ok {
		return domain.ErrNoteNotFound()
	}

	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNoteNotFound()
	}
	return nil
}
