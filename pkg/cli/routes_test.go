package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnnynv/RouteScribe/internal/testutils"
)

func writeManifest(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "routes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testManifest), 0644))
	return path
}

func TestRunRoutes(t *testing.T) {
	useComments(t)
	logs, err := testutils.NewSilentLoggerManager()
	require.NoError(t, err)
	manifest := writeManifest(t)

	t.Run("text", func(t *testing.T) {
		var out bytes.Buffer
		err := runRoutes(context.Background(), RoutesOptions{
			Router:      ManifestRouter,
			Manifest:    manifest,
			RoutePrefix: "api/users",
		}, logs, &out)
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 5)
		assert.Regexp(t, `^METHODS\s+URI\s+NAME\s+HANDLER\s+STATUS$`, lines[0])
		assert.Regexp(t, `^GET\s+/api/users\s+users.index\s+example.com/shop/handlers.\(Users\).List\s+documented$`, lines[1])
		assert.Contains(t, lines[3], "not selected")
		assert.Contains(t, lines[4], "not selected")
	})

	t.Run("json without selectors selects everything", func(t *testing.T) {
		var out bytes.Buffer
		err := runRoutes(context.Background(), RoutesOptions{
			Router:   ManifestRouter,
			Manifest: manifest,
			Format:   "json",
		}, logs, &out)
		require.NoError(t, err)

		var rows []routeRow
		require.NoError(t, json.Unmarshal(out.Bytes(), &rows))
		require.Len(t, rows, 4)
		assert.Equal(t, "documented", rows[0].Status)
		assert.Equal(t, []string{"auth"}, rows[0].Middleware)
		assert.Equal(t, "skipped", rows[2].Status)
		assert.Equal(t, "hidden from documentation", rows[2].Detail)
		assert.Equal(t, "documented", rows[3].Status)
	})

	t.Run("unknown format", func(t *testing.T) {
		err := runRoutes(context.Background(), RoutesOptions{
			Router:   ManifestRouter,
			Manifest: manifest,
			Format:   "xml",
		}, logs, &bytes.Buffer{})
		assert.ErrorContains(t, err, "unsupported output format")
	})

	t.Run("unknown router", func(t *testing.T) {
		err := runRoutes(context.Background(), RoutesOptions{Router: "nope"}, logs, &bytes.Buffer{})
		assert.Error(t, err)
	})
}

func TestDash(t *testing.T) {
	assert.Equal(t, "-", dash(""))
	assert.Equal(t, "x", dash("x"))
}
