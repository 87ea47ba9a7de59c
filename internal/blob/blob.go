// Package blob opens ground truth and submission sources by reference.
package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

type Opener interface {
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
}

type FileOpener struct{}

func (FileOpener) Open(_ context.Context, ref string) (io.ReadCloser, error) {
	f, err := os.Open(strings.TrimPrefix(ref, "file://"))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", ref, err)
	}
	return f, nil
}

// MultiOpener routes s3:// references to S3 and everything else to the
// local file system.
type MultiOpener struct {
	Files FileOpener
	S3    Opener
}

func (m MultiOpener) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	if IsS3(ref) {
		if m.S3 == nil {
			return nil, fmt.Errorf("open %s: s3 is not configured", ref)
		}
		return m.S3.Open(ctx, ref)
	}
	return m.Files.Open(ctx, ref)
}

func IsS3(ref string) bool {
	return strings.HasPrefix(ref, s3Scheme)
}

// Join resolves ref relative to the directory of base. Absolute paths and
// s3 references are returned unchanged.
func Join(base, ref string) string {
	if IsS3(ref) || strings.HasPrefix(ref, "/") {
		return ref
	}
	idx := strings.LastIndex(base, "/")
	if idx < 0 {
		return ref
	}
	return base[:idx+1] + ref
}
