package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-lancers-notifier/internal/config"
	"go-lancers-notifier/internal/models"
	"go-lancers-notifier/internal/pipeline"
	"go-lancers-notifier/internal/record"
)

type memStore struct {
	rec *record.Record
}

func (m memStore) Latest() (record.Record, error) {
	if m.rec == nil {
		return record.Record{}, record.ErrNoRecords
	}
	return *m.rec, nil
}

type memRuns struct{}

func (memRuns) RecentRuns(_ context.Context, limit int) ([]models.RunRow, error) {
	return []models.RunRow{{ID: "run-1", TotalJobs: limit}}, nil
}

func testRouter(t *testing.T, h *handlers) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if h.previewer == nil {
		deps := config.Default().PipelineDeps()
		p, err := pipeline.New(deps)
		require.NoError(t, err)
		h.previewer = previewFunc(p.Execute)
	}
	if h.records == nil {
		h.records = memStore{}
	}
	return newRouter(h, zap.NewNop())
}

type previewFunc func(context.Context, []models.Candidate) (pipeline.Result, error)

func (f previewFunc) Preview(ctx context.Context, c []models.Candidate) (pipeline.Result, error) {
	return f(ctx, c)
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	w := do(testRouter(t, &handlers{}), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestPreview(t *testing.T) {
	body := `{"candidates": [
		{"text": "NEW NEW  Python  API   開発   急募", "href": "/work/detail/1",
		 "details": {"price": "価格情報なし", "deadline": "期限情報なし", "urgency": true, "applicant_count": 0, "applicant_count_known": true, "recruitment_count": 1, "status": "募集中"}},
		{"text": "NEW NEW  Python  API   開発   急募", "href": "/work/detail/1"},
		{"text": "ロゴデザイン制作のお願い", "href": "/work/detail/2"}
	]}`

	w := do(testRouter(t, &handlers{}), http.MethodPost, "/preview", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Listings  []models.JobListing `json:"listings"`
		Displayed int                 `json:"displayed"`
		Card      map[string]any      `json:"card"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Listings, 1)
	assert.Equal(t, 445, resp.Listings[0].Score)
	assert.Equal(t, 1, resp.Displayed)
	assert.Equal(t, "MessageCard", resp.Card["@type"])
}

func TestPreview_PartialDetailsKeepDefaults(t *testing.T) {
	body := `{"candidates": [
		{"text": "Python API 開発案件", "href": "/work/detail/10"},
		{"text": "Python API 開発案件", "href": "/work/detail/11", "details": {"price": "100,000円"}}
	]}`

	w := do(testRouter(t, &handlers{}), http.MethodPost, "/preview", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Listings []models.JobListing `json:"listings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Listings, 2)

	byLink := map[string]models.JobListing{}
	for _, l := range resp.Listings {
		byLink[l.Link] = l
	}
	plain := byLink["https://www.lancers.jp/work/detail/10"]
	priced := byLink["https://www.lancers.jp/work/detail/11"]

	assert.True(t, priced.Recruitment.ApplicantCountKnown)
	assert.Equal(t, 1, priced.Recruitment.RecruitmentCount)
	assert.Equal(t, models.StatusOpen, priced.Recruitment.Status)
	assert.Equal(t, models.NoDeadline, priced.Recruitment.Deadline)
	// only the price differs: the 100,000 yen value bonus
	assert.Equal(t, plain.Score+8, priced.Score)
	assert.Equal(t, priced.Link, resp.Listings[0].Link)
}

func TestPreview_BadRequest(t *testing.T) {
	r := testRouter(t, &handlers{})
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/preview", `{"candidates": []}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/preview", `not json`).Code)
}

func TestLatestRecord(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, do(testRouter(t, &handlers{}), http.MethodGet, "/records/latest", "").Code)

	rec := record.Build(nil, time.Date(2026, 10, 13, 16, 0, 0, 0, time.UTC))
	w := do(testRouter(t, &handlers{records: memStore{rec: &rec}}), http.MethodGet, "/records/latest", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), rec.RunID)
}

func TestRecentRuns(t *testing.T) {
	assert.Equal(t, http.StatusNotImplemented, do(testRouter(t, &handlers{}), http.MethodGet, "/runs", "").Code)

	r := testRouter(t, &handlers{runs: memRuns{}})
	w := do(r, http.MethodGet, "/runs?limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_jobs":5`)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/runs?limit=0", "").Code)
}
