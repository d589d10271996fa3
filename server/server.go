// Package server provides the Echo web shell around the analysis core:
// one multipart upload endpoint that decodes the file, runs the pipeline
// and returns the attribute tuple as JSON. The shell owns every
// operational concern (upload limits, temp files, status codes); the core
// stays free of I/O.
package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/tempokey/tempokey/analysis"
	"github.com/tempokey/tempokey/logging"
	"github.com/tempokey/tempokey/transcode"
)

// Max upload size, matching the 16MB cap of the classic upload shells
const maxUploadSize = "16M"

// AnalyzeResponse is the success payload
type AnalyzeResponse struct {
	Success bool           `json:"success"`
	Results ResultsPayload `json:"results"`
}

// ResultsPayload carries the three derived attributes
type ResultsPayload struct {
	Key   string  `json:"key"`
	BPM   float64 `json:"bpm"`
	Genre string  `json:"genre"`
}

// ErrorResponse is the failure payload
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server wires the upload endpoint to the decoder and analyzer
type Server struct {
	e        *echo.Echo
	analyzer *analysis.Analyzer
	decoder  *transcode.Decoder
	logger   logging.Logger
}

// New creates a server with the default analyzer and decoder
func New() *Server {
	return NewWith(analysis.New(), transcode.NewDecoder(nil))
}

// NewWith creates a server around the given collaborators
func NewWith(analyzer *analysis.Analyzer, decoder *transcode.Decoder) *Server {
	s := &Server{
		e:        echo.New(),
		analyzer: analyzer,
		decoder:  decoder,
		logger:   logging.GetGlobalLogger().WithFields(logging.Fields{"component": "server"}),
	}

	s.e.HideBanner = true
	s.e.Use(middleware.Logger())
	s.e.Use(middleware.Recover())
	s.e.Use(middleware.BodyLimit(maxUploadSize))

	s.e.GET("/healthz", s.handleHealth)
	s.e.POST("/api/analyze", s.handleAnalyze)

	return s
}

// Start runs the server on addr until it fails or is shut down
func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

// ServeHTTP implements http.Handler, mainly for tests
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.e.ServeHTTP(w, r)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleAnalyze accepts a multipart upload, analyzes it and returns the
// attribute tuple. The uploaded file lives in a temp file only for the
// duration of the request.
func (s *Server) handleAnalyze(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no file uploaded"})
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !transcode.IsSupported(ext) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: fmt.Sprintf("invalid file type %q, supported: %s", ext, strings.Join(transcode.SupportedExtensions(), ", ")),
		})
	}

	tmpPath, err := s.saveUpload(fileHeader, ext)
	if err != nil {
		s.logger.Error(err, "failed to save upload")
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to save upload"})
	}
	defer os.Remove(tmpPath)

	audio, err := s.decoder.DecodeFile(c.Request().Context(), tmpPath)
	if err != nil {
		s.logger.Error(err, "decode failed", logging.Fields{"filename": fileHeader.Filename})
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "could not decode audio file"})
	}

	result, err := s.analyzer.Analyze(audio.PCM, audio.SampleRate)
	if err != nil {
		return s.analysisError(c, fileHeader.Filename, err)
	}

	return c.JSON(http.StatusOK, AnalyzeResponse{
		Success: true,
		Results: ResultsPayload{
			Key:   result.Key,
			BPM:   result.BPM,
			Genre: result.Genre,
		},
	})
}

// analysisError translates typed pipeline failures into HTTP responses
func (s *Server) analysisError(c echo.Context, filename string, err error) error {
	s.logger.Error(err, "analysis failed", logging.Fields{"filename": filename})

	kind, ok := analysis.KindOf(err)
	if !ok {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "analysis failed"})
	}

	var ae *analysis.Error
	errors.As(err, &ae)

	switch kind {
	case analysis.KindInput:
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: ae.Error()})
	default:
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: ae.Error()})
	}
}

// saveUpload writes the multipart file to a temp file, preserving the
// extension so the decoder can dispatch on it.
func (s *Server) saveUpload(fileHeader *multipart.FileHeader, ext string) (string, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.CreateTemp("", "tempokey-*"+ext)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", err
	}

	return dst.Name(), nil
}
