package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nguyentantai21042004/audio-sentinel/internal/analysis"
	"github.com/nguyentantai21042004/audio-sentinel/internal/store"
)

const dateLayout = "2006-01-02"

func validDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

// writeStoreError maps store failures onto HTTP statuses.
func (s *Server) writeStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Summary not found"})
	case errors.Is(err, store.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid summary id"})
	default:
		s.logger.Error(c.Request.Context(), "Store error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}
}

type createSummaryRequest struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Summary     string   `json:"summary"`
	KeyTerms    []string `json:"key_terms"`
	Date        string   `json:"date"`
	ThreatLevel string   `json:"threat_level"`
	Location    string   `json:"location"`
	CaseNumber  *int     `json:"case_number"`
	Resolved    bool     `json:"resolved"`
}

// createSummary persists a manually supplied record. Word counts are
// always computed here, never taken from the client.
func (s *Server) createSummary(c *gin.Context) {
	var req createSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	if req.Date == "" {
		req.Date = time.Now().Format(dateLayout)
	} else if !validDate(req.Date) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid date format, expected YYYY-MM-DD"})
		return
	}

	rec := &store.SummaryRecord{
		Title:         req.Title,
		Content:       req.Content,
		ContentLength: analysis.WordCount(req.Content),
		Summary:       req.Summary,
		SummaryLength: analysis.WordCount(req.Summary),
		KeyTerms:      req.KeyTerms,
		Date:          req.Date,
		ThreatLevel:   req.ThreatLevel,
		Location:      req.Location,
		CaseNumber:    req.CaseNumber,
		Resolved:      req.Resolved,
	}

	created, err := s.store.Create(c.Request.Context(), rec)
	if err != nil {
		s.writeStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (s *Server) listSummaries(c *gin.Context) {
	records, err := s.store.List(c.Request.Context())
	if err != nil {
		s.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (s *Server) getSummary(c *gin.Context) {
	rec, err := s.store.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) deleteSummary(c *gin.Context) {
	if err := s.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.writeStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) deleteAllSummaries(c *gin.Context) {
	count, err := s.store.DeleteAll(c.Request.Context())
	if err != nil {
		s.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted_count": count})
}

func (s *Server) updateSummary(c *gin.Context) {
	var fields store.UpdateFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	if fields.Date != nil && !validDate(*fields.Date) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid date format, expected YYYY-MM-DD"})
		return
	}

	rec, err := s.store.Update(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		s.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

type caseNumberRequest struct {
	CaseNumber *int `json:"case_number"`
}

func (s *Server) updateCaseNumber(c *gin.Context) {
	var req caseNumberRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CaseNumber == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "case_number is required"})
		return
	}

	if err := s.store.UpdateCaseNumber(c.Request.Context(), c.Param("id"), *req.CaseNumber); err != nil {
		s.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Case number updated"})
}

type bulkCaseNumberRequest struct {
	IDs        []string `json:"ids"`
	CaseNumber *int     `json:"case_number"`
}

func (s *Server) bulkUpdateCaseNumber(c *gin.Context) {
	var req bulkCaseNumberRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CaseNumber == nil || len(req.IDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ids and case_number are required"})
		return
	}

	count, err := s.store.BulkUpdateCaseNumber(c.Request.Context(), req.IDs, *req.CaseNumber)
	if err != nil {
		s.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"modified_count": count})
}

func (s *Server) caseLocations(c *gin.Context) {
	raw := c.Query("case_number")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "case_number query parameter is required"})
		return
	}
	caseNumber, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "case_number must be an integer"})
		return
	}

	locations, err := s.store.LocationsForCase(c.Request.Context(), caseNumber)
	if err != nil {
		s.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, locations)
}

// searchSummaries translates query parameters into store filters.
func (s *Server) searchSummaries(c *gin.Context) {
	filters := store.SearchFilters{
		Title:       c.Query("title"),
		Content:     c.Query("content"),
		Summary:     c.Query("summary"),
		Location:    c.Query("location"),
		ThreatLevel: c.Query("threat_level"),
		Date:        c.Query("date"),
		DateBefore:  c.Query("date_before"),
		DateAfter:   c.Query("date_after"),
	}

	if raw := c.Query("key_terms"); raw != "" {
		for _, term := range strings.Split(raw, ",") {
			if t := strings.TrimSpace(term); t != "" {
				filters.KeyTerms = append(filters.KeyTerms, t)
			}
		}
	}

	ok := true
	filters.CaseNumber = s.intQuery(c, "case_number", &ok)
	filters.ContentLength = s.intQuery(c, "content_length", &ok)
	filters.SummaryLength = s.intQuery(c, "summary_length", &ok)
	filters.Resolved = s.boolQuery(c, "resolved", &ok)
	filters.Latitude = s.floatQuery(c, "latitude", &ok)
	filters.Longitude = s.floatQuery(c, "longitude", &ok)
	if !ok {
		return
	}

	records, err := s.store.Search(c.Request.Context(), filters)
	if err != nil {
		s.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (s *Server) intQuery(c *gin.Context, name string, ok *bool) *int {
	raw := c.Query(name)
	if raw == "" || !*ok {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": name + " must be an integer"})
		*ok = false
		return nil
	}
	return &v
}

func (s *Server) boolQuery(c *gin.Context, name string, ok *bool) *bool {
	raw := c.Query(name)
	if raw == "" || !*ok {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": name + " must be true or false"})
		*ok = false
		return nil
	}
	return &v
}

func (s *Server) floatQuery(c *gin.Context, name string, ok *bool) *float64 {
	raw := c.Query(name)
	if raw == "" || !*ok {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": name + " must be a number"})
		*ok = false
		return nil
	}
	return &v
}
