package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// getCacheStats returns the manager's usage report.
func (s *Server) getCacheStats(c echo.Context) error {
	stats := s.cacheSvc.Stats(c.Request().Context())
	return c.JSON(http.StatusOK, stats)
}

// invalidateNamespace wipes every entry in a namespace.
func (s *Server) invalidateNamespace(c echo.Context) error {
	namespace := c.Param("namespace")
	if namespace == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "namespace is required")
	}

	s.cacheSvc.Invalidate(c.Request().Context(), namespace, "", nil)
	if s.logger != nil {
		s.logger.WithField("namespace", namespace).Info("cache namespace invalidated")
	}
	return c.NoContent(http.StatusNoContent)
}

// invalidateKey deletes a single namespace/identifier entry.
func (s *Server) invalidateKey(c echo.Context) error {
	namespace := c.Param("namespace")
	identifier := c.Param("identifier")
	if namespace == "" || identifier == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "namespace and identifier are required")
	}

	s.cacheSvc.Invalidate(c.Request().Context(), namespace, identifier, nil)
	return c.NoContent(http.StatusNoContent)
}
