package ui

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"payslip/internal"
	"payslip/internal/payroll"
	"payslip/ui/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Options are the portal settings taken from configuration.
type Options struct {
	MaxUploadBytes int64
	UsingFallback  bool
	NoticeFile     string
}

// Server is the employee-facing web portal
type Server struct {
	router    *gin.Engine
	files     fs.FS
	templates *template.Template
	notice    template.HTML

	lookup  *payroll.LookupService
	updater *payroll.Updater
	opts    Options
	logger  *internal.Logger
}

// NewServer creates a new web server instance. files must contain the
// templates/ and static/ trees; Files is the embedded copy.
func NewServer(files fs.FS, lookup *payroll.LookupService, updater *payroll.Updater, opts Options, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.Discard
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(logger))
	return &Server{
		router:  router,
		files:   files,
		lookup:  lookup,
		updater: updater,
		opts:    opts,
		logger:  logger,
	}
}

// Initialize parses templates, loads the notice and registers routes
func (s *Server) Initialize() error {
	funcMap := template.FuncMap{
		"money": formatAmount,
	}

	templatesFS, err := fs.Sub(s.files, "templates")
	if err != nil {
		return fmt.Errorf("failed to create templates filesystem: %w", err)
	}
	s.templates, err = template.New("").Funcs(funcMap).ParseFS(templatesFS, "*.html")
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	s.logger.Debug("[TemplateInit] parsed %s", s.templates.DefinedTemplates())

	if s.opts.NoticeFile != "" {
		notice, err := loadNotice(s.opts.NoticeFile)
		if err != nil {
			// a missing notice never blocks the portal
			s.logger.Warn("[TemplateInit] notice %s not loaded: %v", s.opts.NoticeFile, err)
		} else {
			s.notice = notice
		}
	}

	if err := s.setupMiddleware(); err != nil {
		return err
	}
	s.setupRoutes()
	return nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/healthz", s.handleHealth)

	private := s.router.Group("/", middleware.NoStore())
	private.POST("/lookup", s.handleLookup)
	private.GET("/slips/:id", s.handleSlip)
	private.GET("/admin", s.handleAdmin)
	private.POST("/admin/upload", s.handleAdminUpload)
}

// Handler exposes the router, mostly for tests and custom listeners
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the web server
func (s *Server) Start(addr string) error {
	s.logger.Info("[Server] portal listening on http://%s", addr)
	return s.router.Run(addr)
}

// loadNotice renders the Markdown notice shown above the lookup form. Raw HTML
// in the source is dropped.
func loadNotice(path string) (template.HTML, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	r := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags | mdhtml.SkipHTML})
	return template.HTML(markdown.ToHTML(src, p, r)), nil
}

func formatAmount(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimSuffix(s, ".00")
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String() + frac
	if neg {
		out = "-" + out
	}
	return out
}
