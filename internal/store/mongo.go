package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nimbusfeed/backend/internal/apperrors"
)

// MongoStore implements DocumentStore on top of a MongoDB database.
type MongoStore struct {
	db *mongo.Database
}

// NewMongoStore creates a new MongoStore
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

// Create inserts a new document under id
func (s *MongoStore) Create(ctx context.Context, collection, id string, doc Document) error {
	insert := bson.M{"_id": id}
	for k, v := range doc {
		if k == "_id" {
			continue
		}
		insert[k] = v
	}
	_, err := s.db.Collection(collection).InsertOne(ctx, insert)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.Wrap(apperrors.KindConflict, "document already exists: "+id, err)
		}
		return apperrors.Wrap(apperrors.KindRemote, "insert failed", err)
	}
	return nil
}

// Get returns the document stored under id
func (s *MongoStore) Get(ctx context.Context, collection, id string) (Document, error) {
	var doc Document
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.New(apperrors.KindNotFound, "document not found: "+id)
		}
		return nil, apperrors.Wrap(apperrors.KindRemote, "lookup failed", err)
	}
	return doc, nil
}

// Update merges the given fields into an existing document
func (s *MongoStore) Update(ctx context.Context, collection, id string, fields Document) error {
	res, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return apperrors.Wrap(apperrors.KindRemote, "update failed", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.New(apperrors.KindNotFound, "document not found: "+id)
	}
	return nil
}

// Delete removes the document under id
func (s *MongoStore) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperrors.Wrap(apperrors.KindRemote, "delete failed", err)
	}
	if res.DeletedCount == 0 {
		return apperrors.New(apperrors.KindNotFound, "document not found: "+id)
	}
	return nil
}

// ListAll returns every document in the collection
func (s *MongoStore) ListAll(ctx context.Context, collection string) ([]Document, error) {
	cursor, err := s.db.Collection(collection).Find(ctx, bson.D{})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindRemote, "list failed", err)
	}
	defer cursor.Close(ctx)

	var docs []Document
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, apperrors.Wrap(apperrors.KindRemote, "cursor drain failed", err)
	}
	return docs, nil
}

// QueryByField returns documents whose field satisfies the operator against value
func (s *MongoStore) QueryByField(ctx context.Context, collection, field, op string, value any) ([]Document, error) {
	filter, err := mongoFilter(field, op, value)
	if err != nil {
		return nil, err
	}
	cursor, err := s.db.Collection(collection).Find(ctx, filter)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindRemote, "query failed", err)
	}
	defer cursor.Close(ctx)

	var docs []Document
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, apperrors.Wrap(apperrors.KindRemote, "cursor drain failed", err)
	}
	return docs, nil
}

func mongoFilter(field, op string, value any) (bson.M, error) {
	switch op {
	case OpEqual:
		return bson.M{field: value}, nil
	case OpNotEqual:
		return bson.M{field: bson.M{"$ne": value}}, nil
	case OpGreater:
		return bson.M{field: bson.M{"$gt": value}}, nil
	case OpGreaterOrEqual:
		return bson.M{field: bson.M{"$gte": value}}, nil
	case OpLess:
		return bson.M{field: bson.M{"$lt": value}}, nil
	case OpLessOrEqual:
		return bson.M{field: bson.M{"$lte": value}}, nil
	case OpArrayContains:
		// Equality against an array field matches membership.
		return bson.M{field: value}, nil
	default:
		return nil, apperrors.New(apperrors.KindValidation, "unsupported query operator: "+op)
	}
}
