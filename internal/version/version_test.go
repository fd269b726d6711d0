package version

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestVersionStrings(t *testing.T) {
	t.Parallel()

	require.NotEmpty(t, Short())
	require.Contains(t, Full(), Short())

	v, err := Semver()
	require.NoError(t, err)
	require.Equal(t, Short(), v.String())
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"1.0.7":      "1.0.7",
		"v1.0.7":     "1.0.7",
		"v1.2":       "1.2.0",
		"2.0.0-rc.1": "2.0.0-rc.1",
		"dev":        "dev",
		"":           "",
	}

	for in, want := range cases {
		require.Equal(t, want, normalize(in), in)
	}
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		args []string
		want string
	}{
		{args: []string{"version"}, want: "version: " + Short()},
		{args: []string{"version", "--short"}, want: Short()},
	} {
		root := &cobra.Command{Use: "mcl-installer"}
		AttachCobraVersionCommand(root)

		var out bytes.Buffer

		root.SetOut(&out)
		root.SetArgs(tc.args)

		require.NoError(t, root.Execute())
		require.True(t, strings.HasPrefix(out.String(), tc.want), out.String())
	}
}
