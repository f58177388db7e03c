package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	api := s.engine.Group("/api")
	api.POST("/summaries", s.createSummary)
	api.GET("/summaries", s.listSummaries)
	api.DELETE("/summaries", s.deleteAllSummaries)
	api.GET("/summaries/search", s.searchSummaries)
	api.GET("/summaries/locations", s.caseLocations)
	api.PATCH("/summaries/case_number", s.bulkUpdateCaseNumber)
	api.GET("/summaries/:id", s.getSummary)
	api.DELETE("/summaries/:id", s.deleteSummary)
	api.PATCH("/summaries/:id", s.updateSummary)
	api.PATCH("/summaries/:id/case_number", s.updateCaseNumber)
	api.GET("/summaries/:id/report", s.summaryReport)

	s.engine.POST("/upload_audio", s.uploadAudio)
	s.engine.GET("/progress", s.progressStream)
}
