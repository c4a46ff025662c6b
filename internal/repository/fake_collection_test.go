package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// fakeCollection is an in-memory Collection.  Each primitive returns the
// canned result configured by the test and records what it was called with.
type fakeCollection struct {
	calls []string

	findDocs []any
	findErr  error
	findOpts []*options.FindOptions

	findOneDoc any
	findOneErr error

	aggDocs  []any
	aggErr   error
	pipeline any

	insertRes *mongo.InsertOneResult
	insertErr error
	inserted  any

	updateRes *mongo.UpdateResult
	updateErr error
	update    any

	deleteRes *mongo.DeleteResult
	deleteErr error

	filters []any
}

var _ Collection = (*fakeCollection)(nil)

func (f *fakeCollection) Find(_ context.Context, filter any, opts ...*options.FindOptions) (*mongo.Cursor, error) {
	f.calls = append(f.calls, "Find")
	f.filters = append(f.filters, filter)
	f.findOpts = opts
	if f.findErr != nil {
		return nil, f.findErr
	}
	return mongo.NewCursorFromDocuments(f.findDocs, nil, nil)
}

func (f *fakeCollection) FindOne(_ context.Context, filter any, _ ...*options.FindOneOptions) *mongo.SingleResult {
	f.calls = append(f.calls, "FindOne")
	f.filters = append(f.filters, filter)
	if f.findOneErr != nil {
		return mongo.NewSingleResultFromDocument(bson.D{}, f.findOneErr, nil)
	}
	if f.findOneDoc == nil {
		return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
	}
	return mongo.NewSingleResultFromDocument(f.findOneDoc, nil, nil)
}

func (f *fakeCollection) Aggregate(_ context.Context, pipeline any, _ ...*options.AggregateOptions) (*mongo.Cursor, error) {
	f.calls = append(f.calls, "Aggregate")
	f.pipeline = pipeline
	if f.aggErr != nil {
		return nil, f.aggErr
	}
	return mongo.NewCursorFromDocuments(f.aggDocs, nil, nil)
}

func (f *fakeCollection) InsertOne(_ context.Context, document any, _ ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	f.calls = append(f.calls, "InsertOne")
	f.inserted = document
	return f.insertRes, f.insertErr
}

func (f *fakeCollection) UpdateOne(_ context.Context, filter any, update any, _ ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	f.calls = append(f.calls, "UpdateOne")
	f.filters = append(f.filters, filter)
	f.update = update
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.updateRes, nil
}

func (f *fakeCollection) DeleteOne(_ context.Context, filter any, _ ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	f.calls = append(f.calls, "DeleteOne")
	f.filters = append(f.filters, filter)
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	return f.deleteRes, nil
}
