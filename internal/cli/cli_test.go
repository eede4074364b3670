package cli_test

import (
	"bytes"
	"errors"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/railwayhistory/raildata/internal/cli"
	"github.com/railwayhistory/raildata/internal/resolve"
	"github.com/railwayhistory/raildata/internal/store"
)

// writeDataset lays out a dataset directory from path/content pairs relative
// to the dataset root.
func writeDataset(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func cleanDataset(t *testing.T) string {
	return writeDataset(t, map[string]string{
		"points/a.yaml": "key: pt.a\nsubtype: station\n",
		"points/b.yaml": "key: pt.b\nsubtype: halt\n",
		"lines/de.yaml": "key: de.1\ncode: de.1\npoints: [pt.a, pt.b]\n",
	})
}

func discardFormatter() *cli.OutputFormatter {
	return &cli.OutputFormatter{Format: "text", Writer: io.Discard}
}

func TestLoadDataset(t *testing.T) {
	dir := cleanDataset(t)
	result, err := cli.LoadDataset(dir, cli.LoaderOptions{}, discardFormatter())
	require.NoError(t, err)
	assert.False(t, result.FromCache)
	assert.Equal(t, 3, result.FileCount)
	assert.Equal(t, 3, result.Store.Len())

	// Lines sort before points, files in path order within a kind.
	assert.Equal(t, "de.1", string(result.Store.Get(0).Key))
	assert.Equal(t, "pt.a", string(result.Store.Get(1).Key))
	assert.Equal(t, "pt.b", string(result.Store.Get(2).Key))
}

func TestLoadDatasetMissingDir(t *testing.T) {
	_, err := cli.LoadDataset(filepath.Join(t.TempDir(), "nope"), cli.LoaderOptions{}, discardFormatter())
	assert.Equal(t, cli.ExitCommandError, cli.GetExitCode(err))
}

func TestLoadDatasetSchemaRejects(t *testing.T) {
	dir := writeDataset(t, map[string]string{
		"points/a.yaml": "key: pt.a\nsubtype: castle\n",
	})
	_, err := cli.LoadDataset(dir, cli.LoaderOptions{}, discardFormatter())
	var loadErr *store.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.NotEmpty(t, loadErr.Errs)
}

func TestLoadDatasetCacheRoundTrip(t *testing.T) {
	dir := cleanDataset(t)
	cachePath := filepath.Join(t.TempDir(), "store.cache")

	first, err := cli.LoadDataset(dir, cli.LoaderOptions{CachePath: cachePath}, discardFormatter())
	require.NoError(t, err)
	require.False(t, first.FromCache)
	resolve.Resolve(first.Store)
	cli.SaveCache(first.Store, cachePath, discardFormatter())

	second, err := cli.LoadDataset(dir, cli.LoaderOptions{CachePath: cachePath}, discardFormatter())
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.True(t, second.Store.Resolved())
	assert.Equal(t, first.Store.Snapshot(), second.Store.Snapshot())
	assert.Equal(t, first.Store.Len(), second.Store.Len())
}

func TestLoadDatasetCorruptCacheFallsBack(t *testing.T) {
	dir := cleanDataset(t)
	cachePath := filepath.Join(t.TempDir(), "store.cache")
	require.NoError(t, os.WriteFile(cachePath, []byte("not a cache"), 0o644))

	// The corrupt artifact is newer than every record file, so only the
	// decode failure forces the fallback.
	result, err := cli.LoadDataset(dir, cli.LoaderOptions{CachePath: cachePath}, discardFormatter())
	require.NoError(t, err)
	assert.False(t, result.FromCache)
	assert.Equal(t, 3, result.Store.Len())
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCheckCommandClean(t *testing.T) {
	out, err := runCommand(t, "check", cleanDataset(t))
	require.NoError(t, err)
	assert.Contains(t, out, "ok: no findings")
}

func TestCheckCommandFindings(t *testing.T) {
	dir := writeDataset(t, map[string]string{
		"points/a.yaml": "key: pt.a\nsubtype: station\n",
		"lines/de.yaml": "key: de.1\ncode: de.1\npoints: [pt.a, pt.gone]\n",
	})
	out, err := runCommand(t, "check", dir)
	assert.Equal(t, cli.ExitFindings, cli.GetExitCode(err))
	assert.Contains(t, out, `unresolved reference to "pt.gone"`)
}

func TestCheckCommandMissingOverlayDegrades(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no-overlay.db")
	out, err := runCommand(t, "check", "--overlay", missing, cleanDataset(t))
	require.NoError(t, err)
	assert.Contains(t, out, "ok: no findings")
}

func TestCheckCommandLoadFailure(t *testing.T) {
	dir := writeDataset(t, map[string]string{
		"points/a.yaml": "key: pt.a\nsubtype: station\n",
		"points/b.yaml": "key: pt.a\nsubtype: station\n",
	})
	out, err := runCommand(t, "check", dir)
	assert.Equal(t, cli.ExitCommandError, cli.GetExitCode(err))
	assert.Contains(t, out, "DUPLICATE_KEY")
}

func TestCheckCommandInvalidFormat(t *testing.T) {
	_, err := runCommand(t, "check", "--format", "xml", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, cli.ExitCommandError, cli.GetExitCode(err))
}

func TestQueryCommand(t *testing.T) {
	dir := cleanDataset(t)

	out, err := runCommand(t, "query", dir, "pt.a")
	require.NoError(t, err)
	assert.Contains(t, out, `"key": "pt.a"`)

	out, err = runCommand(t, "query", "--prefix", dir, "pt.")
	require.NoError(t, err)
	assert.Contains(t, out, "pt.a\t")
	assert.Contains(t, out, "pt.b\t")

	_, err = runCommand(t, "query", dir, "pt.zzz")
	assert.Equal(t, cli.ExitFindings, cli.GetExitCode(err))
}

func TestServeHandler(t *testing.T) {
	result, err := cli.LoadDataset(cleanDataset(t), cli.LoaderOptions{}, discardFormatter())
	require.NoError(t, err)
	resolve.Resolve(result.Store)
	srv := httptest.NewServer(cli.NewHandler(result.Store.Reader()))
	defer srv.Close()

	tests := []struct {
		path       string
		wantStatus int
		wantBody   string
	}{
		{"/key/pt.a", 200, `"key":"pt.a"`},
		{"/key/pt.zzz", 404, "no such key"},
		{"/id/0", 200, `"key":"de.1"`},
		{"/id/99", 404, "no such id"},
		{"/prefix/pt.", 200, `"key":"pt.a"`},
		{"/prefix/zzz", 200, "[]"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := srv.Client().Get(srv.URL + tt.path)
			require.NoError(t, err)
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Contains(t, string(body), tt.wantBody)
		})
	}
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, cli.ExitSuccess, cli.GetExitCode(nil))
	assert.Equal(t, cli.ExitFindings, cli.GetExitCode(cli.NewExitError(cli.ExitFindings, "findings")))
	assert.Equal(t, cli.ExitCommandError, cli.GetExitCode(errors.New("plain")))

	wrapped := cli.WrapExitError(cli.ExitCommandError, "open overlay", errors.New("io"))
	assert.Equal(t, cli.ExitCommandError, cli.GetExitCode(wrapped))
	assert.ErrorContains(t, wrapped, "open overlay")
}
