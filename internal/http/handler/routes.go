package handler

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"evidenceapi/docs"
	"evidenceapi/internal/auth"
	"evidenceapi/internal/http/middleware"
	"evidenceapi/internal/service"
	"evidenceapi/internal/storage"
)

// Dependencies are the services the HTTP layer calls into.
type Dependencies struct {
	Store    storage.Storage
	Cases    service.CaseService
	Analysis service.AnalysisService
	Search   service.SearchService
	Session  *auth.Session
	Jobs     *Jobs
	Gatherer prometheus.Gatherer
	Location *time.Location
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay thin; business rules live in the service layer.
func RegisterRoutes(app *fiber.App, d Dependencies) {
	app.Get("/health", HealthCheck(d.Store))
	app.Get("/healthz", LivenessProbe())

	if d.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	a := app.Group("/auth")
	a.Post("/login", Login(d.Session))
	a.Post("/logout", Logout(d.Session))
	a.Get("/me", Me(d.Session))

	cases := app.Group("/cases", middleware.RequireUser(d.Session))
	cases.Post("/", CreateCase(d.Cases))
	cases.Get("/", ListCases(d.Cases))
	cases.Get("/:id", GetCase(d.Cases))
	cases.Post("/:id/evidence", UploadEvidence(d.Cases))
	cases.Get("/:id/evidence/:eid/content", EvidenceContent(d.Cases))
	cases.Get("/:id/evidence/:eid/url", EvidenceURL(d.Cases))
	cases.Post("/:id/analysis/estimate", EstimateAnalysis(d.Analysis))
	cases.Post("/:id/analysis", StartAnalysis(d.Analysis, d.Jobs))
	cases.Post("/:id/search", SearchCase(d.Search))
	cases.Get("/:id/report.pdf", CaseReport(d.Cases, d.Location))
}
