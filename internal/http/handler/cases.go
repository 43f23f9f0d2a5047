package handler

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"evidenceapi/internal/report"
	"evidenceapi/internal/service"
)

type createCaseRequest struct {
	Name string `json:"name"`
}

// CreateCase creates an empty case.
//
// @Summary Create case
// @Tags cases
// @Accept json
// @Produce json
// @Param body body createCaseRequest true "case name"
// @Success 201 {object} model.Case
// @Failure 400 {object} errorPayload
// @Router /cases [post]
func CreateCase(svc service.CaseService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createCaseRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		cs, err := svc.CreateCase(c.UserContext(), req.Name)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(cs)
	}
}

// ListCases lists cases with limit & offset.
//
// @Summary List cases
// @Tags cases
// @Produce json
// @Param limit query int false "page size" default(50)
// @Param offset query int false "offset" default(0)
// @Success 200 {object} service.CaseListResult
// @Router /cases [get]
func ListCases(svc service.CaseService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "50"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.ListCases(c.UserContext(), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetCase returns a case with its evidence.
//
// @Summary Get case
// @Tags cases
// @Produce json
// @Param id path string true "case id"
// @Success 200 {object} model.Case
// @Failure 404 {object} errorPayload
// @Router /cases/{id} [get]
func GetCase(svc service.CaseService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cs, err := svc.GetCase(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(cs)
	}
}

// UploadEvidence appends the uploaded files (multipart field "files") to a case.
//
// @Summary Upload evidence
// @Tags evidence
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "case id"
// @Param files formData file true "evidence files"
// @Success 201 {object} model.Case
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /cases/{id}/evidence [post]
func UploadEvidence(svc service.CaseService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		form, err := c.MultipartForm()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILES_REQUIRED", "at least one file is required")
		}
		headers := form.File["files"]
		if len(headers) == 0 {
			return writeError(c, fiber.StatusBadRequest, "FILES_REQUIRED", "at least one file is required")
		}

		uploads := make([]service.Upload, 0, len(headers))
		var opened []multipart.File
		defer func() {
			for _, f := range opened {
				f.Close()
			}
		}()
		for _, fh := range headers {
			f, err := fh.Open()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			opened = append(opened, f)
			uploads = append(uploads, service.Upload{
				Filename:    fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Size:        fh.Size,
				Reader:      f,
			})
		}

		if _, err := svc.AddEvidence(c.UserContext(), c.Params("id"), uploads); err != nil {
			return writeServiceError(c, err)
		}
		cs, err := svc.GetCase(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(cs)
	}
}

// EvidenceContent streams the raw bytes of one evidence file.
//
// @Summary Evidence content
// @Tags evidence
// @Produce octet-stream
// @Param id path string true "case id"
// @Param eid path string true "evidence id"
// @Success 200 {file} binary
// @Failure 404 {object} errorPayload
// @Router /cases/{id}/evidence/{eid}/content [get]
func EvidenceContent(svc service.CaseService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rc, ev, err := svc.OpenContent(c.UserContext(), c.Params("id"), c.Params("eid"))
		if err != nil {
			return writeServiceError(c, err)
		}
		c.Set(fiber.HeaderContentType, ev.Type)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", ev.Name))
		return c.SendStream(rc, int(ev.Size))
	}
}

// EvidenceURL returns a time-limited download URL for one evidence file.
//
// @Summary Evidence download URL
// @Tags evidence
// @Produce json
// @Param id path string true "case id"
// @Param eid path string true "evidence id"
// @Param expiry query int false "seconds" default(900)
// @Success 200 {object} map[string]string
// @Failure 404 {object} errorPayload
// @Router /cases/{id}/evidence/{eid}/url [get]
func EvidenceURL(svc service.CaseService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		secs, err := strconv.Atoi(c.Query("expiry", "900"))
		if err != nil || secs <= 0 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_EXPIRY", "invalid expiry")
		}
		u, err := svc.ContentURL(c.UserContext(), c.Params("id"), c.Params("eid"), time.Duration(secs)*time.Second)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"url": u})
	}
}

// CaseReport renders the case as a PDF.
//
// @Summary Case PDF report
// @Tags cases
// @Produce application/pdf
// @Param id path string true "case id"
// @Success 200 {file} binary
// @Failure 404 {object} errorPayload
// @Router /cases/{id}/report.pdf [get]
func CaseReport(svc service.CaseService, loc *time.Location) fiber.Handler {
	if loc == nil {
		loc = time.UTC
	}
	return func(c *fiber.Ctx) error {
		cs, err := svc.GetCase(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		var buf bytes.Buffer
		if err := report.WriteCasePDF(&buf, cs, time.Now().In(loc)); err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", cs.StorageLabel+".pdf"))
		return c.Send(buf.Bytes())
	}
}
