package server

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

// progressStream is a one-way SSE stream of ingestion progress. It
// emits processed/total once per second until the running ingestion
// finishes, sends the final total/total message and closes. With no
// ingestion in flight the counters are 0/0, so the stream reports once
// and terminates instead of spinning.
func (s *Server) progressStream(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	progress := s.pipeline.Progress()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-ticker.C:
			processed, total := progress.Snapshot()
			fmt.Fprintf(c.Writer, "data: %d/%d\n\n", processed, total)
			c.Writer.Flush()
			if processed >= total {
				return
			}
		}
	}
}
