package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/sample-data-api/internal/model"
)

// MovieRepo encapsulates all queries against the movies collection.  Each
// method validates its input first and then issues exactly one query or
// single-document mutation.
type MovieRepo struct {
	movies Collection
}

// NewMovieRepo constructs a MovieRepo over the movies collection.
func NewMovieRepo(movies Collection) *MovieRepo {
	return &MovieRepo{movies: movies}
}

// List returns up to ten movies, longest runtime first, projected to title.
func (r *MovieRepo) List(ctx context.Context) ([]model.MovieTitle, error) {
	const op = "repository/movies/List"

	opts := options.Find().
		SetLimit(listLimit).
		SetProjection(bson.D{{Key: "title", Value: 1}}).
		SetSort(bson.D{{Key: "runtime", Value: -1}})

	cur, err := r.movies.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out, err := decodeAll[model.MovieTitle](ctx, cur)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// GetByID fetches a single movie.  A malformed id yields ErrInvalidID and
// no query; a missing movie yields ErrNotFound.
func (r *MovieRepo) GetByID(ctx context.Context, id string) (model.Document, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, newError(ErrInvalidID, "The id: %s is not a valid movie-Id", id)
	}
	return r.findOne(ctx, "repository/movies/GetByID", bson.D{{Key: "_id", Value: oid}}, id)
}

// GetByTitle fetches the first movie whose title matches exactly.
func (r *MovieRepo) GetByTitle(ctx context.Context, title string) (model.Document, error) {
	return r.findOne(ctx, "repository/movies/GetByTitle", bson.D{{Key: "title", Value: title}}, title)
}

// GetByIDOrTitle treats a well-formed ObjectID as an id and anything else as
// a title.
func (r *MovieRepo) GetByIDOrTitle(ctx context.Context, identifier string) (model.Document, error) {
	if _, ok := parseID(identifier); ok {
		return r.GetByID(ctx, identifier)
	}
	return r.GetByTitle(ctx, identifier)
}

func (r *MovieRepo) findOne(ctx context.Context, op string, filter bson.D, identifier string) (model.Document, error) {
	var doc model.Document
	if err := r.movies.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, newError(ErrNotFound, "No item found with identifier %s.", identifier)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return doc, nil
}

// ListByGenre returns up to ten movies tagged with genre, ordered by title.
func (r *MovieRepo) ListByGenre(ctx context.Context, genre string) ([]model.MovieGenres, error) {
	const op = "repository/movies/ListByGenre"

	filter := bson.D{{Key: "genres", Value: bson.D{{Key: "$in", Value: bson.A{genre}}}}}
	opts := options.Find().
		SetLimit(listLimit).
		SetProjection(bson.D{{Key: "title", Value: 1}, {Key: "genres", Value: 1}}).
		SetSort(bson.D{{Key: "title", Value: 1}})

	cur, err := r.movies.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out, err := decodeAll[model.MovieGenres](ctx, cur)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// Create inserts doc as-is.  The document must carry a non-empty string
// title; otherwise nothing is written.
func (r *MovieRepo) Create(ctx context.Context, doc model.Document) (*model.Created, error) {
	if title, _ := doc["title"].(string); strings.TrimSpace(title) == "" {
		return nil, newError(ErrMissingField, "Movies must have a title.")
	}
	delete(doc, "_id")

	res, err := r.movies.InsertOne(ctx, doc)
	if err != nil {
		return nil, writeError("repository/movies/Create", err)
	}
	oid := insertedID(res)
	return &model.Created{NewObjectID: oid, Message: fmt.Sprintf("Item created! ID: %s", oid.Hex())}, nil
}

// Update sets title and, when supplied, plot on a single movie and returns
// the stored record afterwards.  No other field can be changed.
func (r *MovieRepo) Update(ctx context.Context, id string, upd model.MovieUpdate) (model.Document, error) {
	const op = "repository/movies/Update"

	oid, ok := parseID(id)
	if !ok {
		return nil, newError(ErrInvalidID, "The movie id: %s is invalid. Please try another one.", id)
	}
	if strings.TrimSpace(upd.Title) == "" {
		return nil, newError(ErrMissingField, "Movies must have a title.")
	}

	set := bson.D{{Key: "title", Value: upd.Title}}
	if upd.Plot != nil {
		set = append(set, bson.E{Key: "plot", Value: *upd.Plot})
	}
	res, err := r.movies.UpdateOne(ctx, bson.D{{Key: "_id", Value: oid}}, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return nil, writeError(op, err)
	}
	if res.ModifiedCount != 1 {
		return nil, newError(ErrUnexpectedCount, "Something went wrong. %d movies were updated. Please try again.", res.ModifiedCount)
	}
	return r.GetByID(ctx, id)
}

// Delete removes a single movie.  Its comments are left in place.
func (r *MovieRepo) Delete(ctx context.Context, id string) (*model.Deleted, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, newError(ErrInvalidID, "The given id: %s is invalid. Please try another one.", id)
	}
	res, err := r.movies.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return nil, writeError("repository/movies/Delete", err)
	}
	if res.DeletedCount != 1 {
		return nil, newError(ErrUnexpectedCount, "Something went wrong. %d movies were deleted. Please try again.", res.DeletedCount)
	}
	return &model.Deleted{Message: fmt.Sprintf("Deleted %d movie.", res.DeletedCount)}, nil
}
