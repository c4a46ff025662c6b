package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonboulle/clockwork"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/iliyamo/sample-data-api/internal/model"
)

// CommentRepo encapsulates all queries against the comments collection.
// Comment timestamps come from clock so tests can pin them.
type CommentRepo struct {
	comments Collection
	clock    clockwork.Clock
}

// NewCommentRepo constructs a CommentRepo.  A nil clock means wall time.
func NewCommentRepo(comments Collection, clock clockwork.Clock) *CommentRepo {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &CommentRepo{comments: comments, clock: clock}
}

// ListByMovie returns every comment attached to movieID.
func (r *CommentRepo) ListByMovie(ctx context.Context, movieID string) ([]model.Document, error) {
	const op = "repository/comments/ListByMovie"

	oid, ok := parseID(movieID)
	if !ok {
		return nil, newError(ErrInvalidID, "The id: %s is not a valid movie-Id", movieID)
	}
	cur, err := r.comments.Find(ctx, bson.D{{Key: "movie_id", Value: oid}})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out, err := decodeAll[model.Document](ctx, cur)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// GetByID fetches one comment.
func (r *CommentRepo) GetByID(ctx context.Context, id string) (model.Document, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, newError(ErrInvalidID, "The id: %s is not a valid commentId", id)
	}
	var doc model.Document
	if err := r.comments.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, newError(ErrNotFound, "No comment found with id: %s.", id)
		}
		return nil, fmt.Errorf("repository/comments/GetByID: %w", err)
	}
	return doc, nil
}

// Create inserts doc under movieID.  movie_id and date are always set by the
// server, overriding anything in the body.
func (r *CommentRepo) Create(ctx context.Context, movieID string, doc model.Document) (*model.Created, error) {
	if name, ok := doc["name"]; !ok || name == nil || name == "" {
		return nil, newError(ErrMissingField, "Comments must have a user's name.")
	}
	oid, ok := parseID(movieID)
	if !ok {
		return nil, newError(ErrInvalidID, "Invalid movie id: %s. Please input a valid one.", movieID)
	}

	delete(doc, "_id")
	doc["movie_id"] = oid
	doc["date"] = r.clock.Now().UTC()

	res, err := r.comments.InsertOne(ctx, doc)
	if err != nil {
		return nil, writeError("repository/comments/Create", err)
	}
	newID := insertedID(res)
	return &model.Created{NewObjectID: newID, Message: fmt.Sprintf("Comment created! ID: %s", newID.Hex())}, nil
}

// Update sets the comment text (when supplied) and stamps a fresh date, then
// returns the stored comment.
func (r *CommentRepo) Update(ctx context.Context, id string, upd model.CommentUpdate) (model.Document, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, newError(ErrInvalidID, "the comment id: %s is invalid. Please try another one.", id)
	}

	set := bson.D{}
	if upd.Text != nil {
		set = append(set, bson.E{Key: "text", Value: *upd.Text})
	}
	set = append(set, bson.E{Key: "date", Value: r.clock.Now().UTC()})

	res, err := r.comments.UpdateOne(ctx, bson.D{{Key: "_id", Value: oid}}, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return nil, writeError("repository/comments/Update", err)
	}
	if res.ModifiedCount != 1 {
		return nil, newError(ErrUnexpectedCount, "Something went wrong. %d comments were updated. Please try again.", res.ModifiedCount)
	}
	return r.GetByID(ctx, id)
}

// Delete removes one comment.
func (r *CommentRepo) Delete(ctx context.Context, id string) (*model.Deleted, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, newError(ErrInvalidID, "The given id: %s is invalid. Please try another one.", id)
	}
	res, err := r.comments.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return nil, writeError("repository/comments/Delete", err)
	}
	if res.DeletedCount != 1 {
		return nil, newError(ErrUnexpectedCount, "Something went wrong. %d comments were deleted. Please try again.", res.DeletedCount)
	}
	return &model.Deleted{Message: fmt.Sprintf("Deleted %d comment.", res.DeletedCount)}, nil
}
