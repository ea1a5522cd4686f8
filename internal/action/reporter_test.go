package action

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sethvargo/go-githubactions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	s3errors "github.com/input-output-hk/catalyst-forge-libs/aws/s3search/errors"
)

func newTestReporter(t *testing.T) (*Reporter, *bytes.Buffer, string) {
	t.Helper()

	outputFile := filepath.Join(t.TempDir(), "github_output")
	require.NoError(t, os.WriteFile(outputFile, nil, 0o600))

	var buf bytes.Buffer
	a := githubactions.New(
		githubactions.WithWriter(&buf),
		githubactions.WithGetenv(func(key string) string {
			if key == "GITHUB_OUTPUT" {
				return outputFile
			}
			return ""
		}),
	)
	return NewReporter(a), &buf, outputFile
}

func readOutput(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestReporter_Succeed(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want string
	}{
		{"matches", []string{"a.txt", "dir/b.txt"}, `["a.txt","dir/b.txt"]`},
		{"no matches", []string{}, `[]`},
		{"nil result", nil, `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, outputFile := newTestReporter(t)

			require.NoError(t, r.Succeed(tt.keys))

			out := readOutput(t, outputFile)
			assert.Contains(t, out, OutputObjects+"<<")
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestReporter_Fail(t *testing.T) {
	r, buf, outputFile := newTestReporter(t)

	r.Fail(s3errors.NewTagFetchError("my-bucket", "a.txt", errors.New("access denied")))

	assert.Contains(t, readOutput(t, outputFile), "[]")
	assert.Contains(t, buf.String(), "::error::")
	assert.Contains(t, buf.String(), "my-bucket/a.txt: access denied")
	assert.Contains(t, buf.String(), "EXECUTION_FAILED")
}
