package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/sample-data-api/internal/handler"
	"github.com/iliyamo/sample-data-api/internal/model"
	"github.com/iliyamo/sample-data-api/internal/observability"
	q "github.com/iliyamo/sample-data-api/internal/queue"
	"github.com/iliyamo/sample-data-api/internal/repository"
	"github.com/iliyamo/sample-data-api/internal/router"
)

var errStore = errors.New("server selection timeout")

func domainErr(kind error, msg string) error {
	return &repository.Error{Kind: kind, Msg: msg}
}

type fakeMovies struct {
	list    func() ([]model.MovieTitle, error)
	get     func(identifier string) (model.Document, error)
	byGenre func(genre string) ([]model.MovieGenres, error)
	create  func(doc model.Document) (*model.Created, error)
	update  func(id string, upd model.MovieUpdate) (model.Document, error)
	del     func(id string) (*model.Deleted, error)
	calls   int
}

func (f *fakeMovies) List(context.Context) ([]model.MovieTitle, error) {
	f.calls++
	return f.list()
}

func (f *fakeMovies) GetByIDOrTitle(_ context.Context, identifier string) (model.Document, error) {
	f.calls++
	return f.get(identifier)
}

func (f *fakeMovies) ListByGenre(_ context.Context, genre string) ([]model.MovieGenres, error) {
	f.calls++
	return f.byGenre(genre)
}

func (f *fakeMovies) Create(_ context.Context, doc model.Document) (*model.Created, error) {
	f.calls++
	return f.create(doc)
}

func (f *fakeMovies) Update(_ context.Context, id string, upd model.MovieUpdate) (model.Document, error) {
	f.calls++
	return f.update(id, upd)
}

func (f *fakeMovies) Delete(_ context.Context, id string) (*model.Deleted, error) {
	f.calls++
	return f.del(id)
}

type fakeComments struct {
	list   func(movieID string) ([]model.Document, error)
	get    func(id string) (model.Document, error)
	create func(movieID string, doc model.Document) (*model.Created, error)
	update func(id string, upd model.CommentUpdate) (model.Document, error)
	del    func(id string) (*model.Deleted, error)
}

func (f *fakeComments) ListByMovie(_ context.Context, movieID string) ([]model.Document, error) {
	return f.list(movieID)
}

func (f *fakeComments) GetByID(_ context.Context, id string) (model.Document, error) {
	return f.get(id)
}

func (f *fakeComments) Create(_ context.Context, movieID string, doc model.Document) (*model.Created, error) {
	return f.create(movieID, doc)
}

func (f *fakeComments) Update(_ context.Context, id string, upd model.CommentUpdate) (model.Document, error) {
	return f.update(id, upd)
}

func (f *fakeComments) Delete(_ context.Context, id string) (*model.Deleted, error) {
	return f.del(id)
}

type fakeWeather struct {
	query         func(f repository.WeatherFilter) (*repository.WeatherResult, error)
	byCallLetters func(callLetters string) ([]model.WeatherCallLetters, error)
	create        func(doc model.Document) (*model.Created, error)
	lastFilter    repository.WeatherFilter
}

func (f *fakeWeather) Query(_ context.Context, filter repository.WeatherFilter) (*repository.WeatherResult, error) {
	f.lastFilter = filter
	return f.query(filter)
}

func (f *fakeWeather) ByCallLetters(_ context.Context, callLetters string) ([]model.WeatherCallLetters, error) {
	return f.byCallLetters(callLetters)
}

func (f *fakeWeather) Create(_ context.Context, doc model.Document) (*model.Created, error) {
	return f.create(doc)
}

type recordingPublisher struct {
	events []q.DocumentChanged
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev q.DocumentChanged) error {
	p.events = append(p.events, ev)
	return p.err
}

type testServer struct {
	e       *echo.Echo
	metrics *observability.Metrics
	events  *recordingPublisher
}

func newMovieServer(t *testing.T, movies *fakeMovies, comments *fakeComments) *testServer {
	t.Helper()
	if movies == nil {
		movies = &fakeMovies{}
	}
	if comments == nil {
		comments = &fakeComments{}
	}
	ts := &testServer{e: echo.New(), metrics: observability.NewMetrics(), events: &recordingPublisher{}}
	router.RegisterMovies(ts.e, handler.NewMovieHandler(movies, comments, zap.NewNop(), ts.metrics, ts.events))
	return ts
}

func newWeatherServer(t *testing.T, weather *fakeWeather) *testServer {
	t.Helper()
	ts := &testServer{e: echo.New(), metrics: observability.NewMetrics(), events: &recordingPublisher{}}
	router.RegisterWeather(ts.e, handler.NewWeatherHandler(weather, zap.NewNop(), ts.metrics, ts.events))
	return ts
}

func (ts *testServer) do(method, target, body string) *httptest.ResponseRecorder {
	return ts.doRaw(method, target, body, echo.MIMEApplicationJSON)
}

func (ts *testServer) doRaw(method, target, body, contentType string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	return rec
}
