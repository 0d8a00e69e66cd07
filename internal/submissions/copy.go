package submissions

import (
	"context"
	"errors"
	"io"
)

const (
	// DefaultChunkSize is the transfer buffer size. Copies proceed in
	// bounded chunks so arbitrarily large submissions never require the
	// whole content in memory at once.
	DefaultChunkSize = 64 * 1024

	// DefaultPipelineDepth is the number of in-flight chunk buffers. The
	// reader runs ahead of the writer by at most this many chunks,
	// overlapping read and write I/O for a single transfer.
	DefaultPipelineDepth = 4
)

type chunk struct {
	buf []byte
	n   int
}

// CopyChunked streams src to dst through a bounded pipeline of reused chunk
// buffers. A read error, write error, or context cancellation aborts the
// whole transfer; the caller decides what to do with any partially written
// destination. Returns the number of bytes written.
func CopyChunked(ctx context.Context, dst io.Writer, src io.Reader, chunkSize, depth int) (int64, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if depth <= 0 {
		depth = DefaultPipelineDepth
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// All buffers live in the free list; the reader parks when the writer
	// falls behind by more than depth chunks.
	free := make(chan []byte, depth)
	for i := 0; i < depth; i++ {
		free <- make([]byte, chunkSize)
	}

	chunks := make(chan chunk, depth)
	readErr := make(chan error, 1)

	go func() {
		defer close(chunks)
		for {
			if err := ctx.Err(); err != nil {
				readErr <- err
				return
			}

			var buf []byte
			select {
			case <-ctx.Done():
				readErr <- ctx.Err()
				return
			case buf = <-free:
			}

			n, err := src.Read(buf)
			if n > 0 {
				select {
				case <-ctx.Done():
					readErr <- ctx.Err()
					return
				case chunks <- chunk{buf: buf, n: n}:
				}
			}
			if err != nil {
				if errors.Is(err, io.EOF) {
					readErr <- nil
				} else {
					readErr <- err
				}
				return
			}
		}
	}()

	var written int64
	for c := range chunks {
		if _, err := dst.Write(c.buf[:c.n]); err != nil {
			cancel()
			return written, err
		}
		written += int64(c.n)
		free <- c.buf
	}

	return written, <-readErr
}
