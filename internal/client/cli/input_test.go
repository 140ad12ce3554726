package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("  alice01  \n"))
	out := &bytes.Buffer{}

	got, err := GetSimpleText(reader, "Username", out)
	require.NoError(t, err)
	assert.Equal(t, "alice01", got)
	assert.Contains(t, out.String(), "Username")
}

func TestGetSimpleText_EOFWithPartialLine(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("alice01"))
	out := &bytes.Buffer{}

	got, err := GetSimpleText(reader, "Username", out)
	require.NoError(t, err)
	assert.Equal(t, "alice01", got)
}

func TestGetPassword_Stubbed(t *testing.T) {
	orig := readPassword
	readPassword = func(fd int) ([]byte, error) { return []byte("Abcdef12"), nil }
	defer func() { readPassword = orig }()

	out := &bytes.Buffer{}
	got, err := GetPassword(out)
	require.NoError(t, err)
	assert.Equal(t, "Abcdef12", got)
	assert.Contains(t, out.String(), "Enter password:")
}
