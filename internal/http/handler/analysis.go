package handler

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"evidenceapi/internal/http/middleware"
	"evidenceapi/internal/service"
)

type analysisRequest struct {
	EvidenceIDs []string `json:"evidence_ids"`
	Confirm     bool     `json:"confirm"`
}

type notConfirmedPayload struct {
	errorPayload
	Estimate service.Estimate `json:"estimate"`
}

// Jobs runs confirmed batches after the HTTP response has been sent. Wait blocks
// until every started batch has finished.
type Jobs struct {
	wg  sync.WaitGroup
	log *slog.Logger
}

func NewJobs(logger *slog.Logger) *Jobs {
	if logger == nil {
		logger = slog.Default()
	}
	return &Jobs{log: logger}
}

// Go runs fn in the background with a context detached from the request.
func (j *Jobs) Go(ctx context.Context, fn func(ctx context.Context)) {
	ctx = context.WithoutCancel(ctx)
	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				j.log.ErrorContext(ctx, "background_job_panic", slog.Any("panic", r))
			}
		}()
		fn(ctx)
	}()
}

func (j *Jobs) Wait() { j.wg.Wait() }

// EstimateAnalysis prices the NOT_STARTED subset of the selection without changing anything.
//
// @Summary Estimate analysis cost
// @Tags analysis
// @Accept json
// @Produce json
// @Param id path string true "case id"
// @Param body body analysisRequest true "selection"
// @Success 200 {object} service.Estimate
// @Failure 404 {object} errorPayload
// @Router /cases/{id}/analysis/estimate [post]
func EstimateAnalysis(svc service.AnalysisService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req analysisRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		est, err := svc.Estimate(c.UserContext(), c.Params("id"), req.EvidenceIDs)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(est)
	}
}

// StartAnalysis runs a batch over the selection. Without confirm=true it answers 409 with
// the estimate. With ?wait=true it answers 200 with the batch report once every file is
// terminal; otherwise 202 with the estimate while the batch runs in the background.
//
// @Summary Analyze evidence
// @Tags analysis
// @Accept json
// @Produce json
// @Param id path string true "case id"
// @Param wait query bool false "block until the batch finishes"
// @Param body body analysisRequest true "selection and confirmation"
// @Success 200 {object} service.BatchReport
// @Success 202 {object} service.Estimate
// @Failure 404 {object} errorPayload
// @Failure 409 {object} notConfirmedPayload
// @Router /cases/{id}/analysis [post]
func StartAnalysis(svc service.AnalysisService, jobs *Jobs) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req analysisRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		// Params are only valid until the handler returns; the background batch outlives it.
		caseID := utils.CopyString(c.Params("id"))
		ctx := c.UserContext()

		if !req.Confirm || c.QueryBool("wait") {
			var seen service.Estimate
			confirm := func(_ context.Context, est service.Estimate) bool {
				seen = est
				return req.Confirm
			}
			rep, err := svc.Analyze(ctx, caseID, service.NewSelection(req.EvidenceIDs...), confirm)
			if errors.Is(err, service.ErrNotConfirmed) {
				return c.Status(fiber.StatusConflict).JSON(notConfirmedPayload{
					errorPayload: errorPayload{
						RequestID: middleware.RequestIDFromCtx(c),
						Error:     errorEnvelope{Code: "NOT_CONFIRMED", Message: "analysis cost must be confirmed"},
					},
					Estimate: seen,
				})
			}
			if err != nil {
				return writeServiceError(c, err)
			}
			return c.JSON(rep)
		}

		est, err := svc.Estimate(ctx, caseID, req.EvidenceIDs)
		if err != nil {
			return writeServiceError(c, err)
		}
		if est.Count == 0 {
			return c.Status(fiber.StatusAccepted).JSON(est)
		}
		sel := service.NewSelection(est.EvidenceIDs...)
		jobs.Go(ctx, func(ctx context.Context) {
			rep, err := svc.Analyze(ctx, caseID, sel, func(context.Context, service.Estimate) bool { return true })
			if err != nil {
				jobs.log.ErrorContext(ctx, "analysis_batch_failed",
					slog.String("case_id", caseID),
					slog.String("request_id", middleware.RequestIDFromContext(ctx)),
					slog.String("error", err.Error()),
				)
				return
			}
			jobs.log.InfoContext(ctx, "analysis_batch_finished",
				slog.String("case_id", caseID),
				slog.String("request_id", middleware.RequestIDFromContext(ctx)),
				slog.Int("completed", rep.Completed),
				slog.Int("failed", rep.Failed),
			)
		})
		return c.Status(fiber.StatusAccepted).JSON(est)
	}
}

type searchRequest struct {
	Query string `json:"query"`
}

// SearchCase matches completed evidence of a case against a free-text query.
//
// @Summary Search evidence
// @Tags search
// @Accept json
// @Produce json
// @Param id path string true "case id"
// @Param body body searchRequest true "query"
// @Success 200 {object} service.SearchResult
// @Failure 404 {object} errorPayload
// @Router /cases/{id}/search [post]
func SearchCase(svc service.SearchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req searchRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		res, err := svc.Search(c.UserContext(), c.Params("id"), req.Query)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}
