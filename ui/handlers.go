package ui

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"payslip/domain/core"
	apperrors "payslip/internal/errors"
	"payslip/internal/payroll"

	"github.com/gin-gonic/gin"
)

const (
	msgGreeting      = "مرحباً: %s"
	msgUploadSuccess = "تم تحديث البيانات بنجاح"
)

// multipart framing allowance on top of the file limit
const formOverhead = 1 << 20

func (s *Server) page() pageData {
	return pageData{Notice: s.notice}
}

// handleIndex serves the lookup form
func (s *Server) handleIndex(c *gin.Context) {
	s.renderTemplate(c, http.StatusOK, "index.html", s.page())
}

// handleLookup finds the employee and checks the slip renders before offering
// the download link.
func (s *Server) handleLookup(c *gin.Context) {
	data := s.page()
	data.EmployeeID = strings.TrimSpace(c.PostForm("employee_id"))

	rec, _, err := s.lookup.Slip(c.Request.Context(), data.EmployeeID)
	if err != nil {
		data.Error = apperrors.UserMessage(err)
		s.renderTemplate(c, apperrors.HTTPStatus(err), "index.html", data)
		return
	}

	data.Name = rec.Name()
	data.Message = fmt.Sprintf(msgGreeting, rec.Name())
	data.SlipURL = "/slips/" + url.PathEscape(rec.ID())
	s.renderTemplate(c, http.StatusOK, "index.html", data)
}

// handleSlip streams the rendered slip as an attachment
func (s *Server) handleSlip(c *gin.Context) {
	_, doc, err := s.lookup.Slip(c.Request.Context(), c.Param("id"))
	if err != nil {
		data := s.page()
		data.EmployeeID = c.Param("id")
		data.Error = apperrors.UserMessage(err)
		s.renderTemplate(c, apperrors.HTTPStatus(err), "index.html", data)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	c.Data(http.StatusOK, doc.ContentType, doc.Bytes())
}

func (s *Server) adminPage(c *gin.Context) pageData {
	data := s.page()
	data.UsingFallback = s.opts.UsingFallback
	data.MaxUploadMB = s.opts.MaxUploadBytes >> 20

	status := &datasetStatus{}
	if ds, err := s.lookup.Dataset(c.Request.Context()); err == nil {
		status.Available = true
		status.Summary = payroll.Summarize(ds)
	}
	data.Status = status
	return data
}

// handleAdmin serves the password + upload form
func (s *Server) handleAdmin(c *gin.Context) {
	s.renderTemplate(c, http.StatusOK, "admin.html", s.adminPage(c))
}

// handleAdminUpload replaces the dataset. A wrong password re-renders the
// form without saying why.
func (s *Server) handleAdminUpload(c *gin.Context) {
	if s.opts.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.opts.MaxUploadBytes+formOverhead)
	}

	// parse first so an oversized body is reported, not read as a blank password
	if _, err := c.MultipartForm(); err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		s.logger.Warn("[Admin] unreadable upload form: %v", err)
		data := s.adminPage(c)
		data.Error = apperrors.UserMessage(core.NewUploadError("read", err))
		s.renderTemplate(c, status, "admin.html", data)
		return
	}

	password := c.PostForm("password")
	if !s.updater.Authorize(password) {
		s.logger.Warn("[Admin] upload denied")
		s.renderTemplate(c, http.StatusOK, "admin.html", s.adminPage(c))
		return
	}

	data := s.adminPage(c)
	data.Authorized = true

	fh, err := c.FormFile(payroll.UploadField)
	if err != nil {
		err = core.NewUploadError("read", err)
		data.Error = apperrors.UserMessage(err)
		s.renderTemplate(c, http.StatusBadRequest, "admin.html", data)
		return
	}

	upload, err := payroll.ReadUpload(fh, s.opts.MaxUploadBytes)
	if err != nil {
		data.Error = apperrors.UserMessage(err)
		s.renderTemplate(c, http.StatusBadRequest, "admin.html", data)
		return
	}

	result, err := s.updater.Replace(c.Request.Context(), password, upload)
	if err != nil {
		data.Error = apperrors.UserMessage(err)
		s.renderTemplate(c, apperrors.HTTPStatus(err), "admin.html", data)
		return
	}

	data.Result = result
	data.Message = msgUploadSuccess
	data.Status = &datasetStatus{Available: true, Summary: result.Summary}
	s.renderTemplate(c, http.StatusOK, "admin.html", data)
}

// handleHealth reports whether the serving dataset loads
func (s *Server) handleHealth(c *gin.Context) {
	ds, err := s.lookup.Dataset(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": apperrors.GetCode(apperrors.FromDomain(err))})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "records": ds.Len()})
}
