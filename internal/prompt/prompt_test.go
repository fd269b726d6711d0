package prompt_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ilisfairy/mcl-installer/internal/prompt"
)

func TestYesNo(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	p := prompt.New(strings.NewReader("\ny\nNO\nmaybe\n"), &out)

	for _, want := range []bool{true, true, false, false} {
		got, err := p.YesNo("Would you like to install Java?", true)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	require.Contains(t, out.String(), "Would you like to install Java? (Y/N, default: Y) ")
}

func TestYesNo_DefaultNo(t *testing.T) {
	t.Parallel()

	p := prompt.New(strings.NewReader("\n"), &bytes.Buffer{})

	got, err := p.YesNo("Continue?", false)
	require.NoError(t, err)
	require.False(t, got)
}

func TestInt(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	p := prompt.New(strings.NewReader("17\n\n abc \n 2 "), &out)

	got, err := p.Int("Java version", 18)
	require.NoError(t, err)
	require.Equal(t, 17, got)

	got, err = p.Int("Java version", 18)
	require.NoError(t, err)
	require.Equal(t, 18, got)

	got, err = p.Int("Java version", 18)
	require.NoError(t, err)
	require.Equal(t, 18, got)
	require.Contains(t, out.String(), `"abc" is not a number, using 18.`)

	// Last line without a newline is still an answer.
	got, err = p.Int("JRE or JDK", 1)
	require.NoError(t, err)
	require.Equal(t, 2, got)
}

func TestString(t *testing.T) {
	t.Parallel()

	p := prompt.New(strings.NewReader("aarch64\n"), &bytes.Buffer{})

	got, err := p.String("Binary Architecture", "x64")
	require.NoError(t, err)
	require.Equal(t, "aarch64", got)

	// Closed input falls back to defaults.
	got, err = p.String("Binary Architecture", "x64")
	require.NoError(t, err)
	require.Equal(t, "x64", got)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("tty gone")
}

func TestLine_ReadError(t *testing.T) {
	t.Parallel()

	_, err := prompt.New(failingReader{}, &bytes.Buffer{}).Line("? ")
	require.Error(t, err)
	require.Contains(t, err.Error(), "tty gone")
}
