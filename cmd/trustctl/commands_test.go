package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/xela07ax/truverse-dashboard/internal/domain"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestScoreCmd(t *testing.T) {
	out, err := run(t, "score", "--scanned", "12431", "--flagged", "1284", "--blocked", "312", "--reported", "98")
	require.NoError(t, err)

	var got domain.TrustScoreResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 92, got.Score)
	assert.InDelta(t, 10.3, got.FlaggedRate, 1e-9)

	_, err = run(t, "score", "--scanned", "-1")
	assert.Error(t, err)
}

func TestViewCmd(t *testing.T) {
	out, err := run(t, "view", "--range", "7d")
	require.NoError(t, err)

	var view domain.DashboardView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, domain.Range7d, view.Range)
	assert.Equal(t, 92, view.KPI.TrustScore)

	_, err = run(t, "view", "--range", "1y")
	assert.ErrorIs(t, err, domain.ErrUnknownRange)
}

func TestViewCmd_SnapshotFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scanned: 1000\nflagged: 500\n"), 0o600))

	out, err := run(t, "view", "--snapshot", path)
	require.NoError(t, err)

	var view domain.DashboardView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, domain.OriginOverride, view.Origin)
	assert.Equal(t, int64(1000), view.KPI.Scanned)
	assert.InDelta(t, 50.0, view.KPI.FlaggedRate, 1e-9)

	// Битый файл не ломает вывод: остается дефолт
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("[1,2,3]"), 0o600))
	out, err = run(t, "view", "--snapshot", bad)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, domain.OriginDefault, view.Origin)
}

func TestViewCmd_Verbose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scanned: 2000\n"), 0o600))

	// Логгер пишет в stderr, stdout остается чистым JSON
	out, err := run(t, "view", "--verbose", "--snapshot", path)
	require.NoError(t, err)

	var view domain.DashboardView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, int64(2000), view.KPI.Scanned)
}

func TestRenderCmd(t *testing.T) {
	for _, kind := range []string{"line", "bar", "donut"} {
		out, err := run(t, "render", kind, "--range", "30d")
		require.NoError(t, err, kind)
		assert.True(t, strings.HasPrefix(out, "<svg"), kind)
		assert.Contains(t, out, "</svg>", kind)
	}

	_, err := run(t, "render", "pie")
	assert.Error(t, err)
	_, err = run(t, "render")
	assert.Error(t, err)
}

func TestHashPasswordCmd(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("s3cret\n"))
	cmd.SetArgs([]string{"hash-password", "--cost", "4"})
	require.NoError(t, cmd.Execute())

	hash := strings.TrimSpace(out.String())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))

	cmd = newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs([]string{"hash-password"})
	assert.Error(t, cmd.Execute())
}
