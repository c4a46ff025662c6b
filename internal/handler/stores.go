// Package handler exposes the HTTP handlers of the movies and weather API.
// Handlers validate the request shape, delegate to one store call and map the
// outcome to a status code.
package handler

import (
	"context"

	"github.com/iliyamo/sample-data-api/internal/model"
	"github.com/iliyamo/sample-data-api/internal/repository"
)

// MovieStore is the subset of repository.MovieRepo the handlers use.
type MovieStore interface {
	List(ctx context.Context) ([]model.MovieTitle, error)
	GetByIDOrTitle(ctx context.Context, identifier string) (model.Document, error)
	ListByGenre(ctx context.Context, genre string) ([]model.MovieGenres, error)
	Create(ctx context.Context, doc model.Document) (*model.Created, error)
	Update(ctx context.Context, id string, upd model.MovieUpdate) (model.Document, error)
	Delete(ctx context.Context, id string) (*model.Deleted, error)
}

// CommentStore is the subset of repository.CommentRepo the handlers use.
type CommentStore interface {
	ListByMovie(ctx context.Context, movieID string) ([]model.Document, error)
	GetByID(ctx context.Context, id string) (model.Document, error)
	Create(ctx context.Context, movieID string, doc model.Document) (*model.Created, error)
	Update(ctx context.Context, id string, upd model.CommentUpdate) (model.Document, error)
	Delete(ctx context.Context, id string) (*model.Deleted, error)
}

// WeatherStore is the subset of repository.WeatherRepo the handlers use.
type WeatherStore interface {
	Query(ctx context.Context, f repository.WeatherFilter) (*repository.WeatherResult, error)
	ByCallLetters(ctx context.Context, callLetters string) ([]model.WeatherCallLetters, error)
	Create(ctx context.Context, doc model.Document) (*model.Created, error)
}

var (
	_ MovieStore   = (*repository.MovieRepo)(nil)
	_ CommentStore = (*repository.CommentRepo)(nil)
	_ WeatherStore = (*repository.WeatherRepo)(nil)
)
