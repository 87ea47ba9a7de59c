package blob

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOpener struct {
	refs []string
}

func (s *stubOpener) Open(_ context.Context, ref string) (io.ReadCloser, error) {
	s.refs = append(s.refs, ref)
	return io.NopCloser(strings.NewReader("data")), nil
}

func TestParseS3Ref(t *testing.T) {
	tests := []struct {
		ref        string
		wantBucket string
		wantKey    string
		wantErr    bool
	}{
		{ref: "s3://bucket/round1/cea.csv", wantBucket: "bucket", wantKey: "round1/cea.csv"},
		{ref: "bucket/key", wantErr: true},
		{ref: "s3://bucket", wantErr: true},
		{ref: "s3://bucket/", wantErr: true},
		{ref: "s3:///key", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			b, k, err := ParseS3Ref(tt.ref)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBucket, b)
			assert.Equal(t, tt.wantKey, k)
		})
	}
}

func TestMultiOpener(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gt.csv")
	require.NoError(t, os.WriteFile(path, []byte("T1,0,Q5\n"), 0644))

	stub := &stubOpener{}
	m := MultiOpener{S3: stub}

	rc, err := m.Open(t.Context(), path)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "T1,0,Q5\n", string(data))

	rc, err = m.Open(t.Context(), "s3://bucket/gt.csv")
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, []string{"s3://bucket/gt.csv"}, stub.refs)

	_, err = MultiOpener{}.Open(t.Context(), "s3://bucket/gt.csv")
	assert.Error(t, err)

	_, err = m.Open(t.Context(), filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "gt/round1/cea.csv", Join("gt/manifest.yaml", "round1/cea.csv"))
	assert.Equal(t, "round1/cea.csv", Join("manifest.yaml", "round1/cea.csv"))
	assert.Equal(t, "/abs/cea.csv", Join("gt/manifest.yaml", "/abs/cea.csv"))
	assert.Equal(t, "s3://b/gt/cea.csv", Join("s3://b/gt/manifest.yaml", "cea.csv"))
	assert.Equal(t, "s3://other/cea.csv", Join("gt/manifest.yaml", "s3://other/cea.csv"))
}
