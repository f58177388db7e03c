package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nguyentantai21042004/audio-sentinel/internal/pipeline"
	"github.com/nguyentantai21042004/audio-sentinel/internal/store"
)

type uploadResponse struct {
	SavedFiles []string              `json:"saved_files"`
	Summaries  []store.SummaryRecord `json:"summaries"`
	Failures   []uploadError         `json:"failures,omitempty"`
}

type uploadError struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

// uploadAudio runs the ingestion pipeline over the multipart upload.
// The request blocks until every file is processed; progress can be
// followed separately on /progress.
func (s *Server) uploadAudio(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid multipart form"})
		return
	}

	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "At least one file is required"})
		return
	}

	opts := pipeline.Options{
		Location: c.PostForm("location"),
	}

	// A non-numeric case number is treated as absent, not an error.
	if raw := c.PostForm("case_number"); raw != "" {
		if caseNumber, err := strconv.Atoi(raw); err == nil {
			opts.CaseNumber = &caseNumber
		}
	}

	latRaw, longRaw := c.PostForm("latitude"), c.PostForm("longitude")
	if latRaw != "" || longRaw != "" {
		lat, latErr := strconv.ParseFloat(latRaw, 64)
		long, longErr := strconv.ParseFloat(longRaw, 64)
		if latErr != nil || longErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "latitude and longitude must both be numbers"})
			return
		}
		opts.Latitude = &lat
		opts.Longitude = &long
	}

	files := make([]pipeline.File, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Unreadable file: " + fh.Filename})
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Unreadable file: " + fh.Filename})
			return
		}
		files = append(files, pipeline.File{Name: fh.Filename, Data: data})
	}

	result, err := s.pipeline.Ingest(c.Request.Context(), files, opts)
	if err != nil {
		var verr *pipeline.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"message": verr.Msg})
			return
		}
		s.logger.Error(c.Request.Context(), "Ingestion failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ingestion failed"})
		return
	}

	// Empty slices marshal as [] rather than null when every file fails.
	resp := uploadResponse{
		SavedFiles: result.SavedFiles,
		Summaries:  result.Records,
	}
	if resp.SavedFiles == nil {
		resp.SavedFiles = []string{}
	}
	if resp.Summaries == nil {
		resp.Summaries = []store.SummaryRecord{}
	}
	for _, failure := range result.Failures {
		resp.Failures = append(resp.Failures, uploadError{
			Filename: failure.Filename,
			Error:    failure.Err.Error(),
		})
	}

	c.JSON(http.StatusOK, resp)
}
