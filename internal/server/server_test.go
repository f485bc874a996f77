package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tghp/wpgraphql-mb/internal/engine"
	"github.com/tghp/wpgraphql-mb/internal/eventbus"
	"github.com/tghp/wpgraphql-mb/internal/events"
	"github.com/tghp/wpgraphql-mb/internal/reqid"
	"github.com/tghp/wpgraphql-mb/internal/site"
)

func newTestHandler(t *testing.T, opts ...Option) *Handler {
	t.Helper()
	s, err := site.Load("../site/testdata/site.yaml")
	require.NoError(t, err)
	schema, err := engine.Build(context.Background(), s)
	require.NoError(t, err)
	return New(engine.New(schema), opts...)
}

func post(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/graphql", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestPostQuery(t *testing.T) {
	h := newTestHandler(t)
	w := post(h, `{"query":"query P($id: Int!) { post(id: $id) { title subtitle } }","variables":{"id":1},"operationName":"P"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":{"post":{"title":"Hello World","subtitle":"A first post"}}}`, w.Body.String())
}

func TestGetQuery(t *testing.T) {
	h := newTestHandler(t)
	q := url.Values{"query": {"{ post(id: 1) { subtitle } }"}}
	req := httptest.NewRequest("GET", "/graphql?"+q.Encode(), nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"post":{"subtitle":"A first post"}}}`, w.Body.String())
}

func TestGetRejectsMutation(t *testing.T) {
	h := newTestHandler(t)
	q := url.Values{"query": {"mutation { x }"}}
	req := httptest.NewRequest("GET", "/graphql?"+q.Encode(), nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), "only query operations")
}

func TestBatch(t *testing.T) {
	h := newTestHandler(t)
	w := post(h, `[{"query":"{ post(id: 1) { title } }"},{"query":"{ post(id: 999) { title } }"}]`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"data":{"post":{"title":"Hello World"}}},{"data":{"post":null}}]`, w.Body.String())
}

func TestSyntaxErrorHasLocations(t *testing.T) {
	h := newTestHandler(t)
	w := post(h, `{"query":"{ post(id: 1) { title }"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var res specResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Len(t, res.Errors, 1)
	assert.Nil(t, res.Data)
	assert.NotEmpty(t, res.Errors[0].Locations)
}

func TestUnknownFieldError(t *testing.T) {
	h := newTestHandler(t)
	w := post(h, `{"query":"{ post(id: 1) { title nope } }"}`)
	var res specResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.NotEmpty(t, res.Errors)
	assert.Contains(t, res.Errors[0].Message, "nope")
}

func TestBadRequests(t *testing.T) {
	h := newTestHandler(t)
	for name, body := range map[string]string{
		"invalid json":  `{"query":`,
		"missing query": `{"variables":{}}`,
		"empty batch":   `[]`,
	} {
		t.Run(name, func(t *testing.T) {
			w := post(h, body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	req := httptest.NewRequest("POST", "/graphql", bytes.NewBufferString(`query`))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req = httptest.NewRequest("PUT", "/graphql", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestCORSAndPreflight(t *testing.T) {
	h := newTestHandler(t, WithCORS("*"))

	// simple request
	req := httptest.NewRequest("POST", "/", bytes.NewBufferString(`{"query":"{ post(id: 1) { title } }"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "http://example.com")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	// preflight
	pre := httptest.NewRequest("OPTIONS", "/", nil)
	pre.Header.Set("Origin", "http://example.com")
	pre.Header.Set("Access-Control-Request-Headers", "X-Test")
	pw := httptest.NewRecorder()
	h.ServeHTTP(pw, pre)
	assert.Equal(t, http.StatusNoContent, pw.Code)
	assert.Equal(t, "*", pw.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "X-Test", pw.Header().Get("Access-Control-Allow-Headers"))
}

func TestCORSSpecificOrigin(t *testing.T) {
	h := newTestHandler(t, WithCORS("https://site.test"))

	for origin, want := range map[string]string{
		"https://site.test":  "https://site.test",
		"https://other.test": "",
	} {
		req := httptest.NewRequest("POST", "/", bytes.NewBufferString(`{"query":"{ post(id: 1) { title } }"}`))
		req.Header.Set("Origin", origin)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, want, w.Header().Get("Access-Control-Allow-Origin"), origin)
	}
}

func TestMaxBodyBytes(t *testing.T) {
	h := newTestHandler(t, WithMaxBodyBytes(10))
	w := post(h, `{"query":"1234567890"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestPretty(t *testing.T) {
	h := newTestHandler(t, WithPretty())
	w := post(h, `{"query":"{ post(id: 1) { title } }"}`)
	assert.Contains(t, w.Body.String(), "\n  \"data\"")
}

func TestRequestIDAndEvents(t *testing.T) {
	eventbus.Use(eventbus.New())
	t.Cleanup(func() { eventbus.Use(nil) })

	var ids []string
	var opType string
	var status int
	record := func(ctx context.Context) {
		id, _ := reqid.FromContext(ctx)
		ids = append(ids, id)
	}
	eventbus.Subscribe(func(ctx context.Context, e events.HTTPStart) { record(ctx) })
	eventbus.Subscribe(func(ctx context.Context, e events.GraphQLStart) { record(ctx); opType = e.OperationType })
	eventbus.Subscribe(func(ctx context.Context, e events.HTTPFinish) { record(ctx); status = e.Status })

	h := newTestHandler(t)
	w := post(h, `{"query":"{ post(id: 1) { title } }"}`)
	require.Equal(t, http.StatusOK, w.Code)

	rid := w.Header().Get(reqid.Header)
	require.NotEmpty(t, rid)
	assert.Equal(t, []string{rid, rid, rid}, ids)
	assert.Equal(t, "query", opType)
	assert.Equal(t, http.StatusOK, status)

	req := httptest.NewRequest("POST", "/", bytes.NewBufferString(`{"query":"{ post(id: 1) { title } }"}`))
	req.Header.Set(reqid.Header, "upstream-7")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "upstream-7", w.Header().Get(reqid.Header))
}
