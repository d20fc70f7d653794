package repository

import (
	"context"
	"fmt"

	"github.com/gogotex/collab-editor/internal/document"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps one BSON document per record, keyed by the document id.
// Documents are never deleted, so upserting every record on Save rewrites the
// full snapshot.
type MongoStore struct {
	col *mongo.Collection
}

// mongoRecord stores a document with its position in the snapshot so Load
// returns records in the order they were saved.
type mongoRecord struct {
	document.Document `bson:",inline"`
	Seq               int `bson:"seq"`
}

func toMongoRecords(docs []*document.Document) []mongoRecord {
	out := make([]mongoRecord, 0, len(docs))
	for i, d := range docs {
		if d == nil {
			continue
		}
		out = append(out, mongoRecord{Document: *d, Seq: i})
	}
	return out
}

func NewMongoStore(col *mongo.Collection) *MongoStore {
	return &MongoStore{col: col}
}

func (m *MongoStore) Load(ctx context.Context) ([]*document.Document, error) {
	cur, err := m.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "seq", Value: 1}, {Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("mongo find: %w", err)
	}
	defer cur.Close(ctx)
	out := []*document.Document{}
	for cur.Next(ctx) {
		var rec mongoRecord
		if err := cur.Decode(&rec); err != nil {
			return nil, fmt.Errorf("mongo decode: %w", err)
		}
		d := rec.Document
		out = append(out, &d)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("mongo cursor: %w", err)
	}
	return out, nil
}

func (m *MongoStore) Save(ctx context.Context, docs []*document.Document) error {
	if len(docs) == 0 {
		return nil
	}
	recs := toMongoRecords(docs)
	models := make([]mongo.WriteModel, 0, len(recs))
	for _, rec := range recs {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": rec.ID}).
			SetReplacement(rec).
			SetUpsert(true))
	}
	if len(models) == 0 {
		return nil
	}
	if _, err := m.col.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("mongo bulk upsert: %w", err)
	}
	return nil
}
