package handler

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/sample-data-api/internal/model"
)

// bindDocument decodes a JSON object body into an opaque document.  Numbers
// keep their integer type: integral values in int32 range become int32,
// larger integers int64, everything else float64, so "year": 1999 is stored
// as a BSON int rather than a double.  An empty body yields an empty
// document.
func bindDocument(c echo.Context) (model.Document, bool, error) {
	req := c.Request()
	if req.ContentLength == 0 {
		return model.Document{}, true, nil
	}
	if !strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		return nil, false, c.JSON(http.StatusBadRequest, echo.Map{"error": msgInvalidBody})
	}

	dec := json.NewDecoder(req.Body)
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, false, c.JSON(http.StatusBadRequest, echo.Map{"error": msgInvalidBody})
	}

	doc := make(model.Document, len(raw))
	for k, v := range raw {
		doc[k] = normalizeNumbers(v)
	}
	return doc, true, nil
}

func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		return jsonNumber(t)
	case map[string]any:
		for k, child := range t {
			t[k] = normalizeNumbers(child)
		}
		return t
	case []any:
		for i, child := range t {
			t[i] = normalizeNumbers(child)
		}
		return t
	}
	return v
}

func jsonNumber(n json.Number) any {
	f, ferr := n.Float64()
	if ferr == nil && f == math.Trunc(f) && f >= math.MinInt32 && f <= math.MaxInt32 {
		return int32(f)
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if ferr == nil {
		return f
	}
	return n.String()
}
