package httpserver

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	api := s.echo.Group("/api/v1")
	cacheGroup := api.Group("/cache")
	cacheGroup.GET("/stats", s.getCacheStats)
	cacheGroup.DELETE("/:namespace", s.invalidateNamespace)
	cacheGroup.DELETE("/:namespace/:identifier", s.invalidateKey)
}
