package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/sample-data-api/internal/model"
	"github.com/iliyamo/sample-data-api/internal/observability"
	q "github.com/iliyamo/sample-data-api/internal/queue"
	"github.com/iliyamo/sample-data-api/internal/repository"
	"github.com/iliyamo/sample-data-api/internal/service"
)

// MovieHandler serves /movies and the comments nested under it.
type MovieHandler struct {
	base
	Movies   MovieStore
	Comments CommentStore
}

// NewMovieHandler panics if a store is nil.
func NewMovieHandler(movies MovieStore, comments CommentStore, log *zap.Logger, m *observability.Metrics, events service.EventPublisher) *MovieHandler {
	if movies == nil || comments == nil {
		panic("nil store passed to NewMovieHandler")
	}
	return &MovieHandler{base: newBase(log, m, events), Movies: movies, Comments: comments}
}

// List returns up to ten movie titles; an empty list is still a 200.
func (h *MovieHandler) List(c echo.Context) error {
	items, err := h.Movies.List(c.Request().Context())
	if err != nil {
		return h.internal(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// Get resolves :id as an ObjectID when well formed, otherwise as a title.
func (h *MovieHandler) Get(c echo.Context) error {
	doc, err := h.Movies.GetByIDOrTitle(c.Request().Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	}
	if err != nil {
		return h.fail(c, http.StatusBadRequest, err)
	}
	return c.JSON(http.StatusOK, doc)
}

func (h *MovieHandler) ListByGenre(c echo.Context) error {
	genre := c.Param("genreName")
	items, err := h.Movies.ListByGenre(c.Request().Context(), genre)
	if err != nil {
		return h.fail(c, http.StatusBadRequest, err)
	}
	if len(items) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "No movie found with the genre: " + genre})
	}
	return c.JSON(http.StatusOK, items)
}

func (h *MovieHandler) Create(c echo.Context) error {
	doc, ok, err := bindDocument(c)
	if !ok {
		return err
	}
	created, err := h.Movies.Create(c.Request().Context(), doc)
	if err != nil {
		return h.fail(c, http.StatusBadRequest, err)
	}
	h.changed(c, "movies", q.ActionCreated, created.NewObjectID.Hex(), "")
	return c.JSON(http.StatusOK, created)
}

// Update sets title and, when supplied, plot, then returns the stored record.
func (h *MovieHandler) Update(c echo.Context) error {
	var upd model.MovieUpdate
	if ok, err := bindBody(c, &upd); !ok {
		return err
	}
	id := c.Param("id")
	doc, err := h.Movies.Update(c.Request().Context(), id, upd)
	if err != nil {
		return h.fail(c, http.StatusBadRequest, err)
	}
	h.changed(c, "movies", q.ActionUpdated, id, "")
	return c.JSON(http.StatusOK, doc)
}

func (h *MovieHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	res, err := h.Movies.Delete(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, http.StatusBadRequest, err)
	}
	h.changed(c, "movies", q.ActionDeleted, id, "")
	return c.JSON(http.StatusOK, res)
}

// ListComments answers 404 both for a malformed movie id and for a movie
// without comments.
func (h *MovieHandler) ListComments(c echo.Context) error {
	movieID := c.Param("id")
	items, err := h.Comments.ListByMovie(c.Request().Context(), movieID)
	if err != nil && !errors.Is(err, repository.ErrInvalidID) {
		return h.fail(c, http.StatusBadRequest, err)
	}
	if len(items) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "No comment found with the movie id: " + movieID})
	}
	return c.JSON(http.StatusOK, items)
}

func (h *MovieHandler) GetComment(c echo.Context) error {
	doc, err := h.Comments.GetByID(c.Request().Context(), c.Param("commentId"))
	if err != nil {
		return h.fail(c, http.StatusNotFound, err)
	}
	return c.JSON(http.StatusOK, doc)
}

func (h *MovieHandler) CreateComment(c echo.Context) error {
	doc, ok, err := bindDocument(c)
	if !ok {
		return err
	}
	movieID := c.Param("id")
	created, err := h.Comments.Create(c.Request().Context(), movieID, doc)
	if err != nil {
		return h.fail(c, http.StatusBadRequest, err)
	}
	h.changed(c, "comments", q.ActionCreated, created.NewObjectID.Hex(), movieID)
	return c.JSON(http.StatusOK, created)
}

// UpdateComment changes the text and always stamps a fresh date; a date in
// the body is ignored.
func (h *MovieHandler) UpdateComment(c echo.Context) error {
	var upd model.CommentUpdate
	if ok, err := bindBody(c, &upd); !ok {
		return err
	}
	id := c.Param("commentId")
	doc, err := h.Comments.Update(c.Request().Context(), id, upd)
	if err != nil {
		return h.fail(c, http.StatusBadRequest, err)
	}
	h.changed(c, "comments", q.ActionUpdated, id, c.Param("id"))
	return c.JSON(http.StatusOK, doc)
}

func (h *MovieHandler) DeleteComment(c echo.Context) error {
	id := c.Param("commentId")
	res, err := h.Comments.Delete(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, http.StatusBadRequest, err)
	}
	h.changed(c, "comments", q.ActionDeleted, id, c.Param("id"))
	return c.JSON(http.StatusOK, res)
}
