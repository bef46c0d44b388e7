package cli

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbp1/spacecheck/internal/datadir"
	"github.com/vbp1/spacecheck/internal/lock"
	"github.com/vbp1/spacecheck/internal/storage"
)

type fakeDir struct{ usable, total uint64 }

func (f fakeDir) UsableSpace() (uint64, error) { return f.usable, nil }
func (f fakeDir) TotalSpace() (uint64, error)  { return f.total, nil }

func run(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestFreeAndTotalUseDefaultDataDir(t *testing.T) {
	t.Cleanup(datadir.SetForTest(fakeDir{usable: 1234, total: 56789}))

	out, err := run(t, context.Background(), "free")
	require.NoError(t, err)
	assert.Equal(t, "1234\n", out)

	out, err = run(t, context.Background(), "total")
	require.NoError(t, err)
	assert.Equal(t, "56789\n", out)

	out, err = run(t, context.Background(), "total", "--human")
	require.NoError(t, err)
	assert.Equal(t, "56 KiB\n", out)
}

func TestFreeOnRealDir(t *testing.T) {
	out, err := run(t, context.Background(), "free", "--data-dir", t.TempDir())
	require.NoError(t, err)
	n, err := strconv.ParseUint(strings.TrimSpace(out), 10, 64)
	require.NoError(t, err)
	assert.NotZero(t, n)
}

func TestStatusFailOnFull(t *testing.T) {
	t.Cleanup(datadir.SetForTest(fakeDir{usable: 8 << 20, total: 64 << 20}))

	out, err := run(t, context.Background(), "status")
	require.NoError(t, err)
	assert.Contains(t, out, "almost full: true")

	_, err = run(t, context.Background(), "status", "--fail-on-full")
	require.ErrorIs(t, err, ErrAlmostFull)

	out, err = run(t, context.Background(), "status", "--fail-on-full", "--threshold", "4MiB")
	require.NoError(t, err)
	assert.Contains(t, out, "almost full: false")
}

func TestStatusThresholdOnRealDir(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, context.Background(), "status", "--data-dir", dir, "--threshold", "0B")
	require.NoError(t, err)
	assert.Contains(t, out, "almost full: false")

	out, err = run(t, context.Background(), "status", "--data-dir", dir, "--threshold", "15EiB")
	require.NoError(t, err)
	assert.Contains(t, out, "almost full: true")
}

func TestInvalidThreshold(t *testing.T) {
	_, err := run(t, context.Background(), "status", "--threshold", "lots")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid --threshold "lots"`)
}

func renderBar(t *testing.T, u storage.Usage) string {
	t.Helper()
	done := make(chan struct{})
	var buf bytes.Buffer
	go func() {
		defer close(done)
		renderUsageBar(&buf, u)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("usage bar did not finish rendering")
	}
	return buf.String()
}

func TestRenderUsageBar(t *testing.T) {
	out := renderBar(t, storage.Usage{Free: 25 << 20, Used: 75 << 20, Total: 100 << 20})
	assert.Contains(t, out, "used 75 %")
	assert.Contains(t, out, "75 MiB / 100 MiB")
}

func TestRenderUsageBarFullDisk(t *testing.T) {
	out := renderBar(t, storage.Usage{Used: 100 << 20, Total: 100 << 20})
	assert.Contains(t, out, "used 100 %")
	assert.Contains(t, out, "100 MiB / 100 MiB")
}

func TestStatusBar(t *testing.T) {
	t.Cleanup(datadir.SetForTest(fakeDir{usable: 25 << 20, total: 100 << 20}))

	out, err := run(t, context.Background(), "status", "--bar")
	require.NoError(t, err)
	assert.Contains(t, out, "75 MiB / 100 MiB")
	assert.Contains(t, out, "almost full: false")
}

func TestEnsure(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, context.Background(), "ensure", dir+"=1KiB")
	require.NoError(t, err)
	assert.Equal(t, "ok\n", out)

	_, err = run(t, context.Background(), "ensure", dir+"=15EiB")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient space on "+dir)
}

func TestParseRequirements(t *testing.T) {
	need, err := parseRequirements([]string{"/a=1KiB", "/a=2KiB", "/b=c=0", "/d=10"})
	require.NoError(t, err)
	assert.Equal(t, map[string]uint64{"/a": 2048, "/b=c": 0, "/d": 10}, need)

	for _, bad := range []string{"/a", "=1KiB", "/a=", "/a=lots"} {
		_, err := parseRequirements([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestWatchPrintsFirstSampleAndStops(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	out, err := run(t, ctx, "watch", "--data-dir", dir, "--interval", "10ms", "--threshold", "0B")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "almost full: false")
}

func TestWatchRefusesSecondInstance(t *testing.T) {
	dir := t.TempDir()
	l := lock.New(dir)
	ok, err := l.TryLock()
	require.NoError(t, err)
	require.True(t, ok)
	defer func() { _ = l.Unlock() }()

	_, err = run(t, context.Background(), "watch", "--data-dir", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "another watcher holds")
}
