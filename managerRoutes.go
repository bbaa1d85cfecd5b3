package workgraphManager

import (
	"net/http"

	"github.com/workgraphui/manager/entity"
	"github.com/workgraphui/manager/handler"
	mw "github.com/workgraphui/manager/middleware"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// SetupRoutes configures all view and API routes for the manager service
func SetupRoutes(e *echo.Echo, h *handler.ManagerHandler, staticDir string) {
	// Middleware
	// e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.Gzip())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
	}))

	e.HTTPErrorHandler = handler.HandleErrorView
	e.Static("/static", staticDir)

	// Custom Middleware
	m := mw.NewMiddleware()
	e.Use(m.RequestContextMiddleware)

	// View routes. CSRF protection covers the views only; the API stays
	// open for the row updater and external clients.
	e.GET("/health", h.HealthCheck)
	e.GET("/debug", h.Debug)
	e.GET("/", redirectToWorkgraphs, m.CsrfMiddleware())

	for _, descriptor := range entity.All() {
		d := descriptor
		e.GET("/"+d.Entity()+"s", h.EntityTableView(d), m.CsrfMiddleware())
		e.POST("/"+d.Entity()+"s/updateRow", h.UpdateRowView(d), m.CsrfMiddleware())
		e.GET("/"+d.Entity()+"s/deletePopup", h.DeletePopupView(d), m.CsrfMiddleware())
		e.GET("/"+d.Entity()+"/:pk", h.NodeDetailView, m.CsrfMiddleware())
	}

	// API routes
	api := e.Group("/api")
	api.GET("", h.Welcome)

	for _, descriptor := range entity.All() {
		d := descriptor
		api.GET("/"+d.Entity()+"-data", h.GetEntityData(d))
		api.PUT("/"+d.Entity()+"-data/:pk", h.UpdateEntityData(d))
		api.GET("/"+d.Entity()+"/export/:pk", h.ExportEntity(d))
		api.DELETE("/"+d.Entity()+"/delete/:pk", h.DeleteEntity(d))
		api.GET("/"+d.Entity()+"/delete-preview/:pk", h.DeletePreview(d))
		api.GET("/"+d.Entity()+"/:pk", h.GetEntity(d))
	}

	process := api.Group("/process")
	process.POST("/pause/:pk", h.PauseProcess)
	process.POST("/play/:pk", h.PlayProcess)
	process.GET("/logs/:pk", h.GetProcessLogs)

	node := api.Group("/node")
	node.GET("/:pk/repository", h.ListNodeFiles)
	node.POST("/:pk/repository", h.UploadNodeFiles)
	node.GET("/:pk/repository/:filename", h.DownloadNodeFile)
	node.DELETE("/:pk/repository/:filename", h.DeleteNodeFile)
}

func redirectToWorkgraphs(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/workgraphs")
}
