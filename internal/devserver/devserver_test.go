package devserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomkit/loom"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func post(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(string(data)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	router := New().Router()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, loom.Version, body["version"])
}

func TestCompileAnnotation(t *testing.T) {
	router := New().Router()
	rec := post(t, router, "/v1/compile", CompileRequest{
		Source:  "Task {\n  title: text\n  done\n}\n",
		AppName: "tracker",
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp CompileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RequestID)
	assert.Equal(t, "tracker", resp.AppName)
	assert.Contains(t, resp.Artifacts, loom.PathEntity)
	assert.Contains(t, resp.Artifacts, loom.PathDeploy)
	assert.Contains(t, resp.Artifacts[loom.PathEntity], "export class Tracker {")
}

func TestCompileDiagram(t *testing.T) {
	router := New().Router()
	rec := post(t, router, "/v1/compile", CompileRequest{
		Format: "diagram",
		Source: "erDiagram\n  User {\n    string name\n  }\n",
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestCompileParseErrors(t *testing.T) {
	router := New().Router()
	rec := post(t, router, "/v1/compile", CompileRequest{
		Format: "diagram",
		Source: "erDiagram\n  User {\n    !!!invalid\n  }\n",
	})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RequestID)
	require.NotEmpty(t, resp.Errors)
	assert.Equal(t, 3, resp.Errors[0].Line)
}

func TestCompileMissingSource(t *testing.T) {
	router := New().Router()
	rec := post(t, router, "/v1/compile", map[string]string{"format": "diagram"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestIDsAreUnique(t *testing.T) {
	s := New()
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := s.requestID()
		require.False(t, seen[id])
		seen[id] = true
	}
}

func TestRequestIDsConcurrent(t *testing.T) {
	s := New()

	const (
		goroutines = 8
		perRoutine = 200
	)
	ids := make(chan string, goroutines*perRoutine)

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perRoutine; j++ {
				ids <- s.requestID()
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool, goroutines*perRoutine)
	for id := range ids {
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	require.Len(t, seen, goroutines*perRoutine)
}
