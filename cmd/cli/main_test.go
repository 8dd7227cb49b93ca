package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tribodash/adapters/tabular"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const results = "shape\tE\tCOF\tLCC\th_min\n" +
	"S\t0.1\t0.02\t50\t1e-06\n" +
	"C-1\t0.1\t0.01\t40\t2e-06\n"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "results.txt")
	require.NoError(t, os.WriteFile(path, []byte(results), 0o644))

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append(args, "--file", path))
	err := cmd.Execute()
	return out.String(), err
}

// countTableRows counts the bordered rows of a rendered table
func countTableRows(out string) int {
	n := 0
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "|") {
			n++
		}
	}
	return n
}

func TestRankCommand(t *testing.T) {
	out, err := run(t, "rank", "--top", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "C-1")
	assert.Contains(t, out, "MEAN COF")
	assert.Contains(t, out, "0.0100")
	assert.Equal(t, 2, countTableRows(out), "header plus one shape")

	out, err = run(t, "rank", "--top", "0")
	require.NoError(t, err)
	assert.Equal(t, 3, countTableRows(out), "header plus every shape")
}

func TestSummaryCommand(t *testing.T) {
	out, err := run(t, "summary", "--top", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "4000.00")
	assert.Contains(t, out, "Efficiency (LCC/COF)")
	assert.Equal(t, 5, countTableRows(out), "header plus four metrics")

	out, err = run(t, "summary", "--shape", "nothing")
	require.NoError(t, err)
	assert.Contains(t, out, "no data")
}

func TestRenderCommand(t *testing.T) {
	out, err := run(t, "render", "--top", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Stribeck curve - COF vs eccentricity (Top 2)")
}

func TestExportCommand(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.xlsx")
	_, err := run(t, "export", "--out", dest)
	require.NoError(t, err)

	table, err := tabular.NewDataReader(dest).ReadData()
	require.NoError(t, err)
	assert.Len(t, table.Rows, 2)
}

func TestMissingFileFails(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"rank", "--file", filepath.Join(t.TempDir(), "none.txt")})
	assert.Error(t, cmd.Execute())
}
