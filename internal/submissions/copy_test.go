package submissions

import (
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

// errAfterWriter fails with err once more than limit bytes were written.
type errAfterWriter struct {
	limit int
	n     int
	err   error
}

func (w *errAfterWriter) Write(p []byte) (int, error) {
	w.n += len(p)
	if w.n > w.limit {
		return 0, w.err
	}
	return len(p), nil
}

func TestCopyChunkedRoundTrip(t *testing.T) {
	sizes := []int{0, 1, DefaultChunkSize - 1, DefaultChunkSize, DefaultChunkSize + 1, 3*DefaultChunkSize + 17}

	for _, size := range sizes {
		payload := make([]byte, size)
		_, err := rand.Read(payload)
		require.NoError(t, err)

		var dst bytes.Buffer
		written, err := CopyChunked(context.Background(), &dst, bytes.NewReader(payload), 0, 0)
		require.NoError(t, err, "size=%d", size)
		require.Equal(t, int64(size), written)
		require.True(t, bytes.Equal(payload, dst.Bytes()), "size=%d content mismatch", size)
	}
}

func TestCopyChunkedSmallChunks(t *testing.T) {
	payload := []byte("This is a dummy content")

	var dst bytes.Buffer
	written, err := CopyChunked(context.Background(), &dst, bytes.NewReader(payload), 4, 2)
	require.NoError(t, err)
	require.Equal(t, int64(len(payload)), written)
	require.Equal(t, payload, dst.Bytes())
}

func TestCopyChunkedWriteError(t *testing.T) {
	payload := make([]byte, 10*1024)
	boom := errors.New("disk full")

	w := &errAfterWriter{limit: 2048, err: boom}
	_, err := CopyChunked(context.Background(), w, bytes.NewReader(payload), 1024, 2)
	require.ErrorIs(t, err, boom)
}

func TestCopyChunkedReadError(t *testing.T) {
	boom := errors.New("read failure")
	src := io.MultiReader(bytes.NewReader(make([]byte, 2048)), &failingReader{err: boom})

	var dst bytes.Buffer
	_, err := CopyChunked(context.Background(), &dst, src, 1024, 2)
	require.ErrorIs(t, err, boom)
}

type failingReader struct{ err error }

func (r *failingReader) Read(p []byte) (int, error) { return 0, r.err }

func TestCopyChunkedCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var dst bytes.Buffer
	_, err := CopyChunked(ctx, &dst, bytes.NewReader(make([]byte, DefaultChunkSize*8)), 0, 0)
	require.ErrorIs(t, err, context.Canceled)
}
