package router

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/user/tcas-fee-crawler/internal/delivery/http/handler"
	"github.com/user/tcas-fee-crawler/internal/delivery/http/middleware"
	"github.com/user/tcas-fee-crawler/internal/entity"
	"github.com/user/tcas-fee-crawler/internal/repository"
	"github.com/user/tcas-fee-crawler/internal/usecase"
)

type staticTable struct {
	records []entity.ProgramRecord
	err     error
}

func (s staticTable) Read(context.Context) ([]entity.ProgramRecord, error) { return s.records, s.err }
func (s staticTable) Source() string                                    { return "tcas_data.xlsx" }

func rec(inst, prog, campus, fee, url string) entity.ProgramRecord {
	return entity.ProgramRecord{
		SearchKeyword:   "วิศวกรรมคอมพิวเตอร์",
		InstitutionName: entity.Some(inst),
		ProgramName:     entity.Some(prog),
		Campus:          entity.Some(campus),
		TuitionFeeRaw:   entity.Some(fee),
		SourceURL:       url,
	}
}

func newServer(t *testing.T, table staticTable, checks map[string]handler.Check) *httptest.Server {
	t.Helper()
	logger := zaptest.NewLogger(t)
	d := usecase.NewDashboard([]repository.TableReader{table}, nil, usecase.DashboardOptions{
		SessionTTL:      time.Minute,
		SessionCapacity: 16,
	}, logger)
	_ = d.Load(context.Background())

	srv := httptest.NewServer(New(handler.NewHandler(d, checks, logger), time.Minute, logger))
	t.Cleanup(srv.Close)
	return srv
}

func sampleTable() staticTable {
	return staticTable{records: []entity.ProgramRecord{
		rec("มหาวิทยาลัยเกษตรศาสตร์", "วิศวกรรมคอมพิวเตอร์", "บางเขน", "15,000 บาท", "https://mytcas.com/programs/1"),
		rec("มหาวิทยาลัยเกษตรศาสตร์", "วิศวกรรมไฟฟ้า", "บางเขน", "https://eng.ku.ac.th/fees", "https://mytcas.com/programs/2"),
		rec("จุฬาลงกรณ์มหาวิทยาลัย", "วิศวกรรมคอมพิวเตอร์", "", "21,000 บาท", "https://mytcas.com/programs/3"),
	}}
}

func get(t *testing.T, srv *httptest.Server, path string) (*http.Response, string) {
	t.Helper()
	resp, err := srv.Client().Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	var sb strings.Builder
	_, err = io.Copy(&sb, resp.Body)
	require.NoError(t, err)
	return resp, sb.String()
}

func TestHTMLPages(t *testing.T) {
	srv := newServer(t, sampleTable(), nil)

	tests := []struct {
		path string
		want []string
	}{
		{"/", []string{"Tuition fee overview", "15k-20k", "18,000 บาท", "<svg"}},
		{"/institutions?institution=" + url.QueryEscape("มหาวิทยาลัยเกษตรศาสตร์") + "&campus=" + url.QueryEscape("บางเขน"),
			[]string{"วิศวกรรมคอมพิวเตอร์", "15,000 บาท", "https://eng.ku.ac.th/fees"}},
		{"/institutions?institution=" + url.QueryEscape("จุฬาลงกรณ์มหาวิทยาลัย"), []string{"campus not found", "21,000 บาท"}},
		{"/programs", []string{"Value ranking", "+3,000 บาท", "-3,000 บาท"}},
		{"/missing", []string{"https://eng.ku.ac.th/fees", "1 programs"}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, body := get(t, srv, tt.path)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
			for _, w := range tt.want {
				assert.Contains(t, body, w)
			}
		})
	}
}

func TestSessionCookieIsIssuedOnce(t *testing.T) {
	srv := newServer(t, sampleTable(), nil)

	resp, _ := get(t, srv, "/")
	var session *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookie {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/programs", nil)
	require.NoError(t, err)
	req.AddCookie(session)
	again, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer again.Body.Close()
	assert.Empty(t, again.Cookies())
}

func TestAPIOverview(t *testing.T) {
	srv := newServer(t, sampleTable(), nil)

	resp, body := get(t, srv, "/api/overview")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var v usecase.OverviewView
	require.NoError(t, json.Unmarshal([]byte(body), &v))
	assert.Equal(t, 3, v.Total)
	assert.Equal(t, 2, v.WithFee)
	assert.Equal(t, 1, v.MissingFeeInstitutionCount)
	assert.Equal(t, 18000.0, v.Stats.Mean)
}

func TestAPIInstitutionNoMatchIsEmpty(t *testing.T) {
	srv := newServer(t, staticTable{}, nil)

	resp, body := get(t, srv, "/api/institutions")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var v usecase.InstitutionView
	require.NoError(t, json.Unmarshal([]byte(body), &v))
	assert.Empty(t, v.Offerings)
}

func TestInstitutionWithoutRowsShowsNotice(t *testing.T) {
	srv := newServer(t, sampleTable(), nil)
	query := "?institution=" + url.QueryEscape("มหาวิทยาลัยมหิดล") + "&campus=" + url.QueryEscape("ศาลายา")

	resp, body := get(t, srv, "/institutions"+query)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "No programs found for this institution and campus.")
	assert.NotContains(t, body, "15,000 บาท")
	assert.NotContains(t, body, "21,000 บาท")

	resp, body = get(t, srv, "/api/institutions"+query)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var v usecase.InstitutionView
	require.NoError(t, json.Unmarshal([]byte(body), &v))
	assert.NotNil(t, v.Offerings)
	assert.Empty(t, v.Offerings)
	assert.Equal(t, "มหาวิทยาลัยมหิดล", v.Institution)
	for _, o := range v.Institutions {
		assert.False(t, o.Selected, o.Value)
	}
}

func TestAPIDoesNotOpenSessions(t *testing.T) {
	srv := newServer(t, sampleTable(), nil)

	for _, path := range []string{"/api/overview", "/api/institutions", "/api/programs", "/api/missing", "/api/overview"} {
		resp, _ := get(t, srv, path)
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Empty(t, resp.Cookies(), path)
	}

	sessions := func() int {
		_, body := get(t, srv, "/api/health")
		var h struct {
			Dataset usecase.HealthView `json:"dataset"`
		}
		require.NoError(t, json.Unmarshal([]byte(body), &h))
		return h.Dataset.Sessions
	}
	assert.Zero(t, sessions())

	get(t, srv, "/")
	assert.Equal(t, 1, sessions())
}

func TestLoadFailureBlocksViews(t *testing.T) {
	srv := newServer(t, staticTable{err: repository.ErrInvalidTable}, nil)

	for _, path := range []string{"/", "/institutions", "/programs", "/missing"} {
		resp, body := get(t, srv, path)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, path)
		assert.Contains(t, body, "Data unavailable", path)
		assert.NotContains(t, body, "<svg", path)
	}

	resp, body := get(t, srv, "/api/programs")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, body, "invalid table")

	resp, _ = get(t, srv, "/api/health")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestHealthReportsChecks(t *testing.T) {
	checks := map[string]handler.Check{
		"redis":    func(context.Context) error { return nil },
		"postgres": func(context.Context) error { return errors.New("connection refused") },
	}
	srv := newServer(t, sampleTable(), checks)

	resp, body := get(t, srv, "/api/health")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var h struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &h))
	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, map[string]string{"redis": "healthy", "postgres": "unhealthy"}, h.Checks)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newServer(t, sampleTable(), nil)
	get(t, srv, "/programs")

	resp, body := get(t, srv, "/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `http_requests_total{method="GET",path="/programs",status="200"}`)
}
