package repo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"interiorai/internal/domain"
)

// DocumentStoreMongo implements domain.DocumentStore with one Mongo
// collection per document collection. The caller's id becomes _id.
type DocumentStoreMongo struct {
	db *mongo.Database
}

func NewDocumentStoreMongo(db *mongo.Database) *DocumentStoreMongo {
	return &DocumentStoreMongo{db: db}
}

func (r *DocumentStoreMongo) Create(ctx context.Context, collection, id string, fields map[string]any) error {
	doc := bson.M{"_id": id}
	for k, v := range fields {
		doc[k] = v
	}
	if _, err := r.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (r *DocumentStoreMongo) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	res, err := r.db.Collection(collection).UpdateByID(ctx, id, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *DocumentStoreMongo) FindByField(ctx context.Context, collection, field string, value any, limit int) ([]domain.Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := r.db.Collection(collection).Find(ctx, bson.M{field: value}, opts)
	if err != nil {
		return nil, fmt.Errorf("find documents: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.Document
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		out = append(out, toDocument(raw))
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// toDocument lifts _id out of a raw record.
func toDocument(raw bson.M) domain.Document {
	id := fmt.Sprint(raw["_id"])
	delete(raw, "_id")
	return domain.Document{ID: id, Fields: map[string]any(raw)}
}

var _ domain.DocumentStore = (*DocumentStoreMongo)(nil)
