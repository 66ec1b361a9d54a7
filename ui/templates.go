package ui

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
)

// renderHTML writes a pre-rendered page, warning when it looks truncated
func (s *Server) renderHTML(c *gin.Context, page []byte) {
	if !bytes.Contains(page, []byte("</html>")) {
		s.logger.Warn("[Report] rendered page appears truncated - missing </html> tag (%d bytes)", len(page))
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}
