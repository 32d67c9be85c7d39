package integration

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/odra-lang/odra/internal/input"
	"github.com/odra-lang/odra/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPrograms runs every .odra file in testdata and compares what the
// session prints with the matching .out file.
func TestPrograms(t *testing.T) {
	testdataDir := filepath.Join("..", "testdata")

	err := filepath.Walk(testdataDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".odra") {
			return nil
		}

		relPath, _ := filepath.Rel(testdataDir, path)
		testName := strings.TrimSuffix(relPath, ".odra")
		testName = strings.ReplaceAll(testName, string(filepath.Separator), "/")

		t.Run(testName, func(t *testing.T) {
			want, err := os.ReadFile(strings.TrimSuffix(path, ".odra") + ".out")
			require.NoError(t, err, "missing expected output")

			f, err := os.Open(path)
			require.NoError(t, err)
			defer f.Close()

			var out bytes.Buffer
			cfg := session.DefaultConfig()
			cfg.Session.KeepGoing = true
			s, err := session.New(cfg, input.NewReader(f), &out)
			require.NoError(t, err)
			s.Reporter = &session.ColorReporter{W: &out, Plain: true}

			err = s.Run(context.Background())
			if err != nil {
				require.True(t, errors.Is(err, session.ErrFailures), "unexpected error: %v", err)
			}
			assert.Equal(t, string(want), out.String())
		})
		return nil
	})
	require.NoError(t, err)
}

func TestStrictRunStopsEarly(t *testing.T) {
	f, err := os.Open(filepath.Join("..", "testdata", "errors.odra"))
	require.NoError(t, err)
	defer f.Close()

	var out bytes.Buffer
	s, err := session.New(session.DefaultConfig(), input.NewReader(f), &out)
	require.NoError(t, err)
	s.Reporter = &session.ColorReporter{W: &out, Plain: true}

	err = s.Run(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, session.ErrFailures))
	assert.Equal(t, "error: line 2: \"frob\": unknown word\n", out.String())
}
