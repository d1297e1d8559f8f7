// Package ctxrw makes blocking reads and writes give up when a context is done.
package ctxrw

import (
	"context"
	"io"

	g "github.com/anacrolix/generics"
)

type contextedReader struct {
	ctx context.Context
	r   io.Reader
}

func (me contextedReader) Read(p []byte) (n int, err error) {
	return contextedReadOrWrite(me.ctx, me.r.Read, p)
}

type contextedWriter struct {
	ctx context.Context
	w   io.Writer
}

func (me contextedWriter) Write(p []byte) (n int, err error) {
	return contextedReadOrWrite(me.ctx, me.w.Write, p)
}

// If this returns with a context error, the read or write is still pending and could mess up the
// stream. Callers should abandon the stream.
func contextedReadOrWrite(ctx context.Context, method func(b []byte) (int, error), b []byte) (_ int, err error) {
	if err = context.Cause(ctx); err != nil {
		return
	}
	asyncCh := make(chan g.Result[int], 1)
	go func() {
		asyncCh <- g.ResultFromTuple(method(b))
	}()
	select {
	case <-ctx.Done():
		err = context.Cause(ctx)
		return
	case res := <-asyncCh:
		return res.AsTuple()
	}
}

// WrapReadWriter returns rw unchanged if ctx can never be done.
func WrapReadWriter(ctx context.Context, rw io.ReadWriter) io.ReadWriter {
	if ctx.Done() == nil {
		return rw
	}
	return struct {
		io.Reader
		io.Writer
	}{
		contextedReader{
			ctx: ctx,
			r:   rw,
		},
		contextedWriter{
			ctx: ctx,
			w:   rw,
		},
	}
}
