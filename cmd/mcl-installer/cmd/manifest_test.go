package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ilisfairy/mcl-installer/internal/manifest"
)

func TestManifestCommand_Schema(t *testing.T) {
	t.Parallel()

	cmd := newManifestCommand()

	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--schema"})

	require.NoError(t, cmd.Execute())

	var schema map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &schema))
	require.Contains(t, schema, "properties")
}

func TestManifestCommand_TooManyArgs(t *testing.T) {
	t.Parallel()

	cmd := newManifestCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"a", "b"})

	require.Error(t, cmd.Execute())
}

func TestPrintManifest(t *testing.T) {
	t.Parallel()

	pkg, err := manifest.Parse([]byte(`{
		"announcement": "hello",
		"type": "core",
		"channels": {"stable": ["2.1.0", "2.0.0"]},
		"repo": {"2.0.0": {"archive": "https://example.test/mcl-2.0.0.zip"}, "2.1.0": {}}
	}`))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, printManifest(&out, "example.test/assets/mcl", pkg))

	var summary manifestSummary
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &summary))
	require.Equal(t, "https://example.test/assets/mcl/org/itxtech/mcl/package.json", summary.URL)
	require.Equal(t, "hello", summary.Announcement)
	require.Equal(t, "core", summary.Type)
	require.Equal(t, "2.0.0", summary.Latest)
	require.False(t, summary.Ordered)
	require.Equal(t, "https://example.test/mcl-2.0.0.zip", summary.Archive)
	require.Equal(t, []string{"2.0.0", "2.1.0"}, summary.Versions)
}
