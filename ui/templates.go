package ui

import (
	"bytes"
	"html/template"
	"strings"

	"payslip/internal/payroll"

	"github.com/gin-gonic/gin"
)

// pageData is shared by every portal page
type pageData struct {
	Notice  template.HTML
	Error   string
	Message string

	// lookup
	EmployeeID string
	Name       string
	SlipURL    string

	// admin
	UsingFallback bool
	Authorized    bool
	Status        *datasetStatus
	Result        *payroll.ReplaceResult
	MaxUploadMB   int64
}

// datasetStatus is the admin view of the serving file
type datasetStatus struct {
	Available bool
	Summary   *payroll.Summary
}

// renderTemplate executes a template with the given data
func (s *Server) renderTemplate(c *gin.Context, status int, templateName string, data interface{}) {
	// First render to a buffer to catch any errors before writing to response
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		s.logger.Error("[Template] %s: %v", templateName, err)
		c.AbortWithStatusJSON(500, gin.H{"error": "Template rendering failed"})
		return
	}

	if !strings.Contains(buf.String(), "</html>") {
		s.logger.Warn("[Template] %s appears truncated, missing </html>", templateName)
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Writer.WriteHeader(status)
	if _, err := buf.WriteTo(c.Writer); err != nil {
		s.logger.Error("[Template] writing response: %v", err)
	}
}
