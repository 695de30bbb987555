// Package devserver exposes the compiler as a local HTTP service: editors
// and build tools POST a schema document and get back either the compiled
// artifacts or line-numbered errors.
package devserver

import (
	"io"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"

	"github.com/loomkit/loom"
	"github.com/loomkit/loom/codegen"
)

// CompileRequest is the body of POST /v1/compile.
type CompileRequest struct {
	// Format is "diagram" or "annotation". Empty means annotation.
	Format string `json:"format"`
	Source string `json:"source" binding:"required"`
	// AppName overrides the app name of the compiled schema.
	AppName string `json:"appName"`
	// Mode selects the deployment config variant.
	Mode string `json:"mode"`
}

// CompileResponse is the success body: artifact contents keyed by path.
type CompileResponse struct {
	RequestID string            `json:"requestId"`
	AppName   string            `json:"appName"`
	Artifacts map[string]string `json:"artifacts"`
}

// ErrorResponse carries compile failures back to the caller.
type ErrorResponse struct {
	RequestID string         `json:"requestId"`
	Errors    []CompileError `json:"errors"`
}

// CompileError is one line-numbered failure.
type CompileError struct {
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

// Server is the dev compile service.
type Server struct {
	// mu guards entropy: the monotonic ulid reader is not safe for
	// concurrent use, and gin serves handlers in parallel.
	mu      sync.Mutex
	entropy io.Reader
}

// New creates a server.
func New() *Server {
	src := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Server{entropy: ulid.Monotonic(src, 0)}
}

// requestID mints a sortable per-request id.
func (s *Server) requestID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

// Router builds the gin engine.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()
	r.GET("/healthz", s.health)
	v1 := r.Group("/v1")
	{
		v1.POST("/compile", s.compile)
	}
	return r
}

// Run serves on addr until the listener fails.
func (s *Server) Run(addr string) error {
	return s.Router().Run(addr)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": loom.Version})
}

func (s *Server) compile(c *gin.Context) {
	id := s.requestID()

	var req CompileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			RequestID: id,
			Errors:    []CompileError{{Message: err.Error()}},
		})
		return
	}

	format := loom.Format(req.Format)
	if req.Format == "" {
		format = loom.FormatAnnotation
	}

	app, parseErrs := loom.Compile(format, req.Source, req.AppName)
	if len(parseErrs) > 0 {
		resp := ErrorResponse{RequestID: id}
		for _, pe := range parseErrs {
			resp.Errors = append(resp.Errors, CompileError{Message: pe.Message, Line: pe.Line})
		}
		c.JSON(http.StatusUnprocessableEntity, resp)
		return
	}

	var opts []codegen.Option
	if req.Mode != "" {
		opts = append(opts, codegen.WithMode(codegen.Mode(req.Mode)))
	}
	artifacts, err := loom.Artifacts(app, opts...)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			RequestID: id,
			Errors:    []CompileError{{Message: err.Error()}},
		})
		return
	}

	resp := CompileResponse{
		RequestID: id,
		AppName:   app.Name,
		Artifacts: make(map[string]string, len(artifacts)),
	}
	for _, a := range artifacts {
		resp.Artifacts[a.Path] = string(a.Content)
	}
	c.JSON(http.StatusOK, resp)
}
