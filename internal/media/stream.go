package media

import (
	"context"
	"io"
	"sync"
)

type outcome struct {
	result *UploadResult
	err    error
}

// UploadStream is a write destination for one upload session. Bytes
// written to it are streamed to the service; Close signals end of
// input. The session terminates with exactly one outcome, observed
// through Result.
type UploadStream struct {
	pw   *io.PipeWriter
	done chan outcome
	once sync.Once
}

func newUploadStream(pw *io.PipeWriter) *UploadStream {
	return &UploadStream{
		pw:   pw,
		done: make(chan outcome, 1),
	}
}

// Write streams payload bytes into the session. It fails once the
// transfer has already terminated.
func (s *UploadStream) Write(p []byte) (int, error) {
	return s.pw.Write(p)
}

// Close signals end of input. The service then finalizes the asset and
// the session resolves.
func (s *UploadStream) Close() error {
	return s.pw.Close()
}

// complete resolves the session. The sync.Once guard keeps the
// completion exactly-once: a late second notification from the
// transport is dropped, never delivered as a duplicate outcome.
func (s *UploadStream) complete(result *UploadResult, err error) {
	s.once.Do(func() {
		s.done <- outcome{result: result, err: err}
	})
}

// Result blocks until the session terminates and returns its single
// outcome. Cancelling ctx aborts the transfer; the session still
// resolves exactly once, with the cancellation error.
func (s *UploadStream) Result(ctx context.Context) (*UploadResult, error) {
	select {
	case o := <-s.done:
		return o.result, o.err
	case <-ctx.Done():
		// Break the write side so the transfer worker observes the
		// cancellation and resolves the session.
		s.pw.CloseWithError(ctx.Err())
		o := <-s.done
		return o.result, o.err
	}
}
