package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gogotex/collab-editor/internal/document"
	"github.com/gogotex/collab-editor/internal/document/repository"
	"github.com/gogotex/collab-editor/internal/document/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	reg := service.NewRegistry(repository.NewMemoryStore(), service.WithSaveDelay(time.Hour))
	require.NoError(t, reg.Load(context.Background()))
	g := gin.New()
	RegisterDocumentRoutes(g, reg)
	RegisterDocumentRoutes(g.Group("/api"), reg)
	return g
}

func TestDocumentHandler_CreateGetList(t *testing.T) {
	g := newRouter(t)

	// create
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/documents", strings.NewReader(`{"title":"Notes"}`))
	req.Header.Set("Content-Type", "application/json")
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	id, _ := created["id"].(string)
	_, err := uuid.Parse(id)
	require.NoError(t, err, "id should be a uuid")
	assert.Equal(t, "Notes", created["title"])
	assert.Equal(t, "", created["content"])
	assert.NotEmpty(t, created["createdAt"])
	assert.Equal(t, created["createdAt"], created["updatedAt"])

	// get returns the same record
	w = httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/documents/"+id, nil))
	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, created, got)

	// list omits content, keeps insertion order, default first
	w = httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/documents", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, document.DefaultID, list[0]["id"])
	assert.Equal(t, id, list[1]["id"])
	_, hasContent := list[1]["content"]
	assert.False(t, hasContent)
}

func TestDocumentHandler_CreateWithoutTitle(t *testing.T) {
	g := newRouter(t)
	for _, body := range []string{`{}`, `{"title":""}`, ``, `not json`} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/documents", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		g.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, "body %q", body)
		var d document.Document
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &d))
		assert.Equal(t, "Untitled Document", d.Title, "body %q", body)
	}
}

func TestDocumentHandler_NotFound(t *testing.T) {
	g := newRouter(t)
	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/documents/unknown-id", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Document not found"}`, w.Body.String())
}
