package server

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/nguyentantai21042004/audio-sentinel/internal/report"
)

// summaryReport renders one record as a downloadable docx briefing.
func (s *Server) summaryReport(c *gin.Context) {
	rec, err := s.store.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeStoreError(c, err)
		return
	}

	if err := os.MkdirAll(s.cfg.Paths.Temp, 0755); err != nil {
		s.logger.Error(c.Request.Context(), "Create temp dir: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Report generation failed"})
		return
	}
	tmpDir, err := os.MkdirTemp(s.cfg.Paths.Temp, "report-*")
	if err != nil {
		s.logger.Error(c.Request.Context(), "Create report dir: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Report generation failed"})
		return
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, rec.ID.Hex()+".docx")
	if err := report.Write(rec, path); err != nil {
		s.logger.Error(c.Request.Context(), "Render report for %s: %v", rec.ID.Hex(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Report generation failed"})
		return
	}

	c.FileAttachment(path, "summary-"+rec.ID.Hex()+".docx")
}
