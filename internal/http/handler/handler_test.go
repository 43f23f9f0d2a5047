package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"evidenceapi/internal/auth"
	"evidenceapi/internal/model"
	"evidenceapi/internal/service"
	serviceMocks "evidenceapi/internal/service/mocks"
	storeMocks "evidenceapi/internal/storage/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func jsonReq(method, url, body string) *http.Request {
	req := httptest.NewRequest(method, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeError(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var body errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHealthCheck(t *testing.T) {
	store := new(storeMocks.MockStorage)
	app := fiber.New()
	app.Get("/health", HealthCheck(store))

	t.Run("healthy", func(t *testing.T) {
		store.On("Ping", mock.Anything).Return(nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		store.On("Ping", mock.Anything).Return(errors.New("bucket gone")).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, resp).Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthHandlers(t *testing.T) {
	session := auth.NewSession()
	app := fiber.New()
	app.Post("/auth/login", Login(session))
	app.Post("/auth/logout", Logout(session))
	app.Get("/auth/me", Me(session))

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = app.Test(jsonReq(http.MethodPost, "/auth/login", `{"email":""}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "EMAIL_REQUIRED", decodeError(t, resp).Error.Code)

	resp, _ = app.Test(jsonReq(http.MethodPost, "/auth/login", `{"email":"chief.admin@police.example"}`))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var u model.User
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&u))
	assert.Equal(t, model.RoleAdmin, u.Role)
	assert.Equal(t, "Chief Admin", u.Name)

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = app.Test(httptest.NewRequest(http.MethodPost, "/auth/logout", nil))
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	_, ok := session.Current()
	assert.False(t, ok)
}

func TestCreateCase(t *testing.T) {
	mockSvc := new(serviceMocks.MockCaseService)
	app := fiber.New()
	app.Post("/cases", CreateCase(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("CreateCase", mock.Anything, "Robbery").Return(&model.Case{ID: "case-1", Name: "Robbery"}, nil).Once()

		resp, _ := app.Test(jsonReq(http.MethodPost, "/cases", `{"name":"Robbery"}`))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var got model.Case
		json.NewDecoder(resp.Body).Decode(&got)
		assert.Equal(t, "case-1", got.ID)
	})

	t.Run("blank name", func(t *testing.T) {
		mockSvc.On("CreateCase", mock.Anything, "").Return(nil, service.ErrNameRequired).Once()

		resp, _ := app.Test(jsonReq(http.MethodPost, "/cases", `{"name":""}`))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "NAME_REQUIRED", decodeError(t, resp).Error.Code)
	})

	t.Run("invalid body", func(t *testing.T) {
		resp, _ := app.Test(jsonReq(http.MethodPost, "/cases", `{`))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_BODY", decodeError(t, resp).Error.Code)
	})
	mockSvc.AssertExpectations(t)
}

func TestListCases(t *testing.T) {
	mockSvc := new(serviceMocks.MockCaseService)
	app := fiber.New()
	app.Get("/cases", ListCases(mockSvc))

	t.Run("success", func(t *testing.T) {
		expected := &service.CaseListResult{Items: []model.Case{{ID: "case-1"}}, Total: 1}
		mockSvc.On("ListCases", mock.Anything, 10, 0).Return(expected, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/cases?limit=10&offset=0", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result service.CaseListResult
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Len(t, result.Items, 1)
		assert.Equal(t, 1, result.Total)
	})

	t.Run("invalid limit", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/cases?limit=abc", nil))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_LIMIT", decodeError(t, resp).Error.Code)
	})

	t.Run("invalid offset", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/cases?offset=x", nil))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_OFFSET", decodeError(t, resp).Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("ListCases", mock.Anything, 50, 0).Return(nil, errors.New("boom")).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/cases", nil))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "INTERNAL_ERROR", decodeError(t, resp).Error.Code)
	})
	mockSvc.AssertExpectations(t)
}

func TestGetCase(t *testing.T) {
	mockSvc := new(serviceMocks.MockCaseService)
	app := fiber.New()
	app.Get("/cases/:id", GetCase(mockSvc))

	mockSvc.On("GetCase", mock.Anything, "case-1").Return(&model.Case{ID: "case-1"}, nil).Once()
	mockSvc.On("GetCase", mock.Anything, "case-404").Return(nil, service.ErrCaseNotFound).Once()

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/cases/case-1", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/cases/case-404", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "CASE_NOT_FOUND", decodeError(t, resp).Error.Code)
	mockSvc.AssertExpectations(t)
}

func TestUploadEvidence(t *testing.T) {
	mockSvc := new(serviceMocks.MockCaseService)
	app := fiber.New()
	app.Post("/cases/:id/evidence", UploadEvidence(mockSvc))

	t.Run("success", func(t *testing.T) {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		for _, name := range []string{"a.jpg", "b.mp4"} {
			part, _ := writer.CreateFormFile("files", name)
			part.Write([]byte("data of " + name))
		}
		writer.Close()

		mockSvc.On("AddEvidence", mock.Anything, "case-1", mock.MatchedBy(func(ups []service.Upload) bool {
			if len(ups) != 2 || ups[0].Filename != "a.jpg" || ups[1].Filename != "b.mp4" {
				return false
			}
			b, _ := io.ReadAll(ups[0].Reader)
			return string(b) == "data of a.jpg"
		})).Return([]model.EvidenceFile{{ID: "ev-1"}, {ID: "ev-2"}}, nil).Once()
		mockSvc.On("GetCase", mock.Anything, "case-1").Return(&model.Case{ID: "case-1", Evidence: []model.EvidenceFile{{ID: "ev-1"}, {ID: "ev-2"}}}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/cases/case-1/evidence", body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var got model.Case
		json.NewDecoder(resp.Body).Decode(&got)
		assert.Len(t, got.Evidence, 2)
	})

	t.Run("no files", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/cases/case-1/evidence", nil))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "FILES_REQUIRED", decodeError(t, resp).Error.Code)
	})

	t.Run("unknown case", func(t *testing.T) {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, _ := writer.CreateFormFile("files", "a.jpg")
		part.Write([]byte("x"))
		writer.Close()
		mockSvc.On("AddEvidence", mock.Anything, "case-404", mock.Anything).Return(nil, service.ErrCaseNotFound).Once()

		req := httptest.NewRequest(http.MethodPost, "/cases/case-404/evidence", body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
	mockSvc.AssertExpectations(t)
}

func TestEvidenceContent(t *testing.T) {
	mockSvc := new(serviceMocks.MockCaseService)
	app := fiber.New()
	app.Get("/cases/:id/evidence/:eid/content", EvidenceContent(mockSvc))
	app.Get("/cases/:id/evidence/:eid/url", EvidenceURL(mockSvc))

	mockSvc.On("OpenContent", mock.Anything, "case-1", "ev-1").
		Return(io.NopCloser(strings.NewReader("jpeg")), &model.EvidenceFile{ID: "ev-1", Name: "a.jpg", Type: "image/jpeg", Size: 4}, nil).Once()
	mockSvc.On("OpenContent", mock.Anything, "case-1", "ev-9").Return(nil, nil, service.ErrEvidenceNotFound).Once()
	mockSvc.On("ContentURL", mock.Anything, "case-1", "ev-1", 60*time.Second).Return("https://minio/evidence/x?sig", nil).Once()

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/cases/case-1/evidence/ev-1/content", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))
	b, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "jpeg", string(b))

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/cases/case-1/evidence/ev-9/content", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "EVIDENCE_NOT_FOUND", decodeError(t, resp).Error.Code)

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/cases/case-1/evidence/ev-1/url?expiry=60", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var u map[string]string
	json.NewDecoder(resp.Body).Decode(&u)
	assert.Equal(t, "https://minio/evidence/x?sig", u["url"])

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/cases/case-1/evidence/ev-1/url?expiry=-1", nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	mockSvc.AssertExpectations(t)
}

func TestCaseReport(t *testing.T) {
	mockSvc := new(serviceMocks.MockCaseService)
	app := fiber.New()
	app.Get("/cases/:id/report.pdf", CaseReport(mockSvc, time.UTC))

	mockSvc.On("GetCase", mock.Anything, "case-1").Return(&model.Case{ID: "case-1", Name: "Robbery", StorageLabel: "dee-robbery-1"}, nil).Once()

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/cases/case-1/report.pdf", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "dee-robbery-1.pdf")
	b, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF-")))
}

func TestEstimateAnalysis(t *testing.T) {
	mockSvc := new(serviceMocks.MockAnalysisService)
	app := fiber.New()
	app.Post("/cases/:id/analysis/estimate", EstimateAnalysis(mockSvc))

	est := &service.Estimate{CaseID: "case-1", EvidenceIDs: []string{"ev-1"}, Count: 1, Cost: 0.0025, Display: "$0.0025"}
	mockSvc.On("Estimate", mock.Anything, "case-1", []string{"ev-1", "ev-2"}).Return(est, nil).Once()

	resp, _ := app.Test(jsonReq(http.MethodPost, "/cases/case-1/analysis/estimate", `{"evidence_ids":["ev-1","ev-2"]}`))

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got service.Estimate
	json.NewDecoder(resp.Body).Decode(&got)
	assert.Equal(t, "$0.0025", got.Display)
	mockSvc.AssertExpectations(t)
}

func TestStartAnalysis(t *testing.T) {
	est := service.Estimate{CaseID: "case-1", EvidenceIDs: []string{"ev-1"}, Count: 1, Cost: 0.02, Display: "$0.0200"}

	t.Run("not confirmed", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockAnalysisService)
		app := fiber.New()
		app.Post("/cases/:id/analysis", StartAnalysis(mockSvc, NewJobs(nil)))
		mockSvc.On("Analyze", mock.Anything, "case-1", []string{"ev-1"}).Return(nil, nil, est).Once()

		resp, _ := app.Test(jsonReq(http.MethodPost, "/cases/case-1/analysis", `{"evidence_ids":["ev-1"]}`))

		require.Equal(t, http.StatusConflict, resp.StatusCode)
		var body notConfirmedPayload
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "NOT_CONFIRMED", body.Error.Code)
		assert.Equal(t, "$0.0200", body.Estimate.Display)
		mockSvc.AssertExpectations(t)
	})

	t.Run("wait", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockAnalysisService)
		app := fiber.New()
		app.Post("/cases/:id/analysis", StartAnalysis(mockSvc, NewJobs(nil)))
		rep := &service.BatchReport{Estimate: est, Completed: 1}
		mockSvc.On("Analyze", mock.Anything, "case-1", []string{"ev-1"}).Return(rep, nil, est).Once()

		resp, _ := app.Test(jsonReq(http.MethodPost, "/cases/case-1/analysis?wait=true", `{"evidence_ids":["ev-1"],"confirm":true}`))

		require.Equal(t, http.StatusOK, resp.StatusCode)
		var got service.BatchReport
		json.NewDecoder(resp.Body).Decode(&got)
		assert.Equal(t, 1, got.Completed)
		mockSvc.AssertExpectations(t)
	})

	t.Run("background", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockAnalysisService)
		jobs := NewJobs(nil)
		app := fiber.New()
		app.Post("/cases/:id/analysis", StartAnalysis(mockSvc, jobs))

		var ran sync.WaitGroup
		ran.Add(1)
		mockSvc.On("Estimate", mock.Anything, "case-1", []string{"ev-1", "ev-done"}).Return(&est, nil).Once()
		mockSvc.On("Analyze", mock.Anything, "case-1", []string{"ev-1"}).
			Run(func(mock.Arguments) { ran.Done() }).
			Return(&service.BatchReport{Estimate: est, Completed: 1}, nil, est).Once()

		resp, _ := app.Test(jsonReq(http.MethodPost, "/cases/case-1/analysis", `{"evidence_ids":["ev-1","ev-done"],"confirm":true}`))

		require.Equal(t, http.StatusAccepted, resp.StatusCode)
		var got service.Estimate
		json.NewDecoder(resp.Body).Decode(&got)
		assert.Equal(t, 1, got.Count)

		ran.Wait()
		jobs.Wait()
		mockSvc.AssertExpectations(t)
	})

	t.Run("unknown case", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockAnalysisService)
		app := fiber.New()
		app.Post("/cases/:id/analysis", StartAnalysis(mockSvc, NewJobs(nil)))
		mockSvc.On("Estimate", mock.Anything, "case-404", mock.Anything).Return(nil, service.ErrCaseNotFound).Once()

		resp, _ := app.Test(jsonReq(http.MethodPost, "/cases/case-404/analysis", `{"evidence_ids":["ev-1"],"confirm":true}`))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestSearchCase(t *testing.T) {
	mockSvc := new(serviceMocks.MockSearchService)
	app := fiber.New()
	app.Post("/cases/:id/search", SearchCase(mockSvc))

	res := &service.SearchResult{Query: "blue hoodie", Keywords: []string{"blue", "hoodie"}, EvidenceIDs: []string{"ev-1"},
		Results: []model.AnalysisResult{{FileID: "ev-1", Summary: "blue hoodie"}}}
	mockSvc.On("Search", mock.Anything, "case-1", "blue hoodie").Return(res, nil).Once()

	resp, _ := app.Test(jsonReq(http.MethodPost, "/cases/case-1/search", `{"query":"blue hoodie"}`))

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got service.SearchResult
	json.NewDecoder(resp.Body).Decode(&got)
	assert.Equal(t, []string{"ev-1"}, got.EvidenceIDs)
	mockSvc.AssertExpectations(t)
}

func TestRegisterRoutes_RequiresSignIn(t *testing.T) {
	session := auth.NewSession()
	cases := new(serviceMocks.MockCaseService)
	store := new(storeMocks.MockStorage)
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	RegisterRoutes(app, Dependencies{
		Store:    store,
		Cases:    cases,
		Analysis: new(serviceMocks.MockAnalysisService),
		Search:   new(serviceMocks.MockSearchService),
		Session:  session,
		Jobs:     NewJobs(nil),
		Gatherer: prometheus.NewRegistry(),
	})

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/cases", nil))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHENTICATED", decodeError(t, resp).Error.Code)

	_, err := session.Login("jane.doe@police.example")
	require.NoError(t, err)
	cases.On("ListCases", mock.Anything, 50, 0).Return(&service.CaseListResult{Items: []model.Case{}}, nil).Once()

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/cases", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
}
