package image

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Collection is the MongoDB collection holding upload records.
const Collection = "uploaded_images"

type mongoRecord struct {
	ID         bson.ObjectID `bson:"_id,omitempty"`
	URL        string        `bson:"url"`
	UploadedAt time.Time     `bson:"uploadedAt"`
}

// MongoRepository stores records as documents in a MongoDB collection.
type MongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository creates a repository on the uploaded_images collection of db.
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(Collection)}
}

// Insert adds a document and returns its ObjectID in hex.
func (r *MongoRepository) Insert(ctx context.Context, rec Record) (string, error) {
	doc := mongoRecord{
		ID:         bson.NewObjectID(),
		URL:        rec.URL,
		UploadedAt: rec.UploadedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("insert document: %w", err)
	}
	return doc.ID.Hex(), nil
}

// Recent returns the newest documents, breaking timestamp ties by insertion order.
func (r *MongoRepository) Recent(ctx context.Context, limit int) ([]Record, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "uploadedAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find documents: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoRecord
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode documents: %w", err)
	}

	out := make([]Record, 0, len(docs))
	for _, d := range docs {
		out = append(out, Record{ID: d.ID.Hex(), URL: d.URL, UploadedAt: d.UploadedAt})
	}
	return out, nil
}
