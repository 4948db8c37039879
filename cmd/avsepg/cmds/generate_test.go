package cmds

import (
	"avsepg/internal/app/epg"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const previousEPG = `<?xml version="1.0" encoding="UTF-8"?><tv></tv>`

// writeTestConfig 在临时目录写入配置文件和上一次生成的EPG文件
func writeTestConfig(t *testing.T, baseURL string) (string, string) {
	t.Helper()
	dir := t.TempDir()

	cfgPath := filepath.Join(dir, "config.yml")
	data := fmt.Sprintf(`locations:
  - location: RECIFE,PERNAMBUCO
    channelIds: "128"
timezone: America/Recife
outputFile: epg.xml
generator:
  name: avsepg
  url: http://example.com
api:
  baseURL: %s
log:
  level: error
  isStdout: true
`, baseURL)
	require.NoError(t, os.WriteFile(cfgPath, []byte(data), 0644))

	epgPath := filepath.Join(dir, "epg.xml")
	require.NoError(t, os.WriteFile(epgPath, []byte(previousEPG), 0644))
	return cfgPath, epgPath
}

func runGenerate(t *testing.T, cfgPath string) error {
	t.Helper()
	cmd := NewRootCLI()
	cmd.SetArgs([]string{"--config", cfgPath, "generate"})
	return cmd.ExecuteContext(context.Background())
}

func TestGenerate_FetchFailureKeepsOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfgPath, epgPath := writeTestConfig(t, srv.URL)
	err := runGenerate(t, cfgPath)
	assert.ErrorIs(t, err, epg.ErrFetch)

	// 失败时不覆盖上一次生成的文件
	data, err := os.ReadFile(epgPath)
	require.NoError(t, err)
	assert.Equal(t, previousEPG, string(data))

	entries, err := os.ReadDir(filepath.Dir(epgPath))
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestGenerate_WritesOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":{"liveChannels":[{"name":"CH1","schedules":[{"title":"News","startTime":1700000000,"endTime":1700003600}]}]}}`))
	}))
	defer srv.Close()

	cfgPath, epgPath := writeTestConfig(t, srv.URL)
	require.NoError(t, runGenerate(t, cfgPath))

	data, err := os.ReadFile(epgPath)
	require.NoError(t, err)
	out := string(data)
	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, out, `<channel id="CH1">`)
	assert.Contains(t, out, `<programme start="202311141913 -0300" stop="202311142013 -0300" channel="CH1">`)
}
