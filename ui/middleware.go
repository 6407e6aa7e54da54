package ui

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
)

//go:embed templates/*.html static/css/*.css
var Files embed.FS

// setupMiddleware mounts the static assets
func (s *Server) setupMiddleware() error {
	staticFS, err := fs.Sub(s.files, "static")
	if err != nil {
		return fmt.Errorf("failed to create static filesystem: %w", err)
	}
	s.logger.Debug("[Static] serving static files at /static")
	s.router.StaticFS("/static", http.FS(staticFS))
	return nil
}
