package router

import (
	"avsepg/internal/app/epg"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeGenerator struct {
	channels []epg.Channel
	loc      *time.Location
	err      error
	calls    int
}

func (f *fakeGenerator) Generate(_ context.Context) (*epg.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	doc, err := epg.Build(f.channels, f.loc, epg.GeneratorInfo{Name: "avsepg", URL: "http://example.com"}, "pt")
	if err != nil {
		return nil, err
	}
	return &epg.Result{Channels: f.channels, EPG: doc}, nil
}

func ts(v int64) *int64 {
	return &v
}

// 2024-03-09 10:00 -0300
const morning = int64(1709989200)

func newTestController(t *testing.T) (*EPGController, *fakeGenerator, string) {
	t.Helper()
	recife, err := epg.LoadLocation("America/Recife")
	require.NoError(t, err)

	g := &fakeGenerator{
		loc: recife,
		channels: []epg.Channel{
			{Name: "A", Schedules: []epg.Program{
				{Title: "Bom Dia", EpisodeName: "Ep 1", Description: "Jornal", StartTime: ts(morning), EndTime: ts(morning + 3600)},
				{Title: "Amanhã", StartTime: ts(morning + 86400), EndTime: ts(morning + 90000)},
			}},
			{Name: "B", Schedules: []epg.Program{
				{Title: "Outro", StartTime: ts(morning), EndTime: ts(morning + 1800)},
			}},
		},
	}
	outputFile := filepath.Join(t.TempDir(), "epg.xml")
	return NewEPGController(g, outputFile, recife), g, outputFile
}

func serve(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestEPGController_BeforeRefresh(t *testing.T) {
	controller, _, _ := newTestController(t)
	r := newEngine(controller)

	assert.Equal(t, http.StatusServiceUnavailable, serve(r, "/epg/xml").Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(r, "/epg/xml.gz").Code)

	w := serve(r, "/epg/json?ch=A&date=2024-03-09")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"channel_name":"A","date":"2024-03-09","epg_data":[]}`, w.Body.String())
}

func TestEPGController_Refresh(t *testing.T) {
	controller, _, outputFile := newTestController(t)
	require.NoError(t, controller.Refresh(context.Background()))

	data, err := os.ReadFile(outputFile)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, string(data), `<channel id="A">`)
}

func TestEPGController_RefreshFailureKeepsCache(t *testing.T) {
	controller, g, _ := newTestController(t)
	require.NoError(t, controller.Refresh(context.Background()))

	g.err = errors.New("upstream down")
	assert.Error(t, controller.Refresh(context.Background()))
	assert.Equal(t, 2, g.calls)

	w := serve(newEngine(controller), "/epg/xml")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<channel id="B">`)
}

func TestGetXmlEPG(t *testing.T) {
	controller, _, _ := newTestController(t)
	require.NoError(t, controller.Refresh(context.Background()))

	w := serve(newEngine(controller), "/epg/xml")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `<tv generator-info-name="avsepg" generator-info-url="http://example.com">`)
	assert.Contains(t, body, `<programme start="202403091000 -0300" stop="202403091100 -0300" channel="A">`)
	assert.Contains(t, body, `<title lang="pt">Bom Dia - Ep 1</title>`)
	assert.Equal(t, 3, strings.Count(body, "<programme "))
}

func TestGetXmlEPGWithGzip(t *testing.T) {
	controller, _, _ := newTestController(t)
	require.NoError(t, controller.Refresh(context.Background()))

	w := serve(newEngine(controller), "/epg/xml.gz")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "attachment; filename=epg.xml.gz", w.Header().Get("Content-Disposition"))

	zr, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	data, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, string(data), `<desc lang="pt">Jornal</desc>`)
}

func TestGetJsonEPG(t *testing.T) {
	controller, _, _ := newTestController(t)
	require.NoError(t, controller.Refresh(context.Background()))
	r := newEngine(controller)

	w := serve(r, "/epg/json?ch=A&date=2024-03-09")
	require.Equal(t, http.StatusOK, w.Code)

	var resp ChannelDateJsonEPG
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "A", resp.ChannelName)
	assert.Equal(t, []JsonEPG{
		{Title: "Bom Dia - Ep 1", Desc: "Jornal", Start: "10:00", End: "11:00"},
	}, resp.EPGData)

	w = serve(r, "/epg/json?ch=A&date=2024-03-10")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.EPGData, 1)
	assert.Equal(t, "Amanhã", resp.EPGData[0].Title)

	assert.Equal(t, http.StatusBadRequest, serve(r, "/epg/json?date=2024-03-09").Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, "/epg/json?ch=A&date=09/03/2024").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	controller, _, _ := newTestController(t)

	w := serve(newEngine(controller), "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestSchedule(t *testing.T) {
	controller, _, _ := newTestController(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c, err := Schedule(ctx, controller, "@every 1h", controller.loc)
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)

	_, err = Schedule(ctx, controller, "not a schedule", controller.loc)
	assert.Error(t, err)
}

func TestJobChain_SkipIfStillRunning(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32

	job := jobChain(zap.NewNop()).Then(cron.FuncJob(func() {
		calls.Add(1)
		close(started)
		<-release
	}))

	done := make(chan struct{})
	go func() {
		job.Run()
		close(done)
	}()
	<-started

	// 第一次刷新未完成，第二次直接跳过
	job.Run()
	assert.Equal(t, int32(1), calls.Load())

	close(release)
	<-done
}
