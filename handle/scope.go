package handle

import (
	stderrors "errors"
	"io"
)

// Scope releases everything added to it, last added first, when closed.
// A Scope is not safe for concurrent use.
//
//	var sc handle.Scope
//	defer sc.Close()
//	cfg := handle.Adopt(&sc, configKind, raw)
type Scope struct {
	closers []io.Closer
}

// Add registers c for release and returns it.
func (s *Scope) Add(c io.Closer) io.Closer {
	s.closers = append(s.closers, c)
	return c
}

// Adopt wraps raw and registers the wrapper with s.
func Adopt[T ~uintptr](s *Scope, kind *Kind[T], raw T) *Wrapper[T] {
	w := New(kind, raw)
	s.Add(w)
	return w
}

// Len returns the number of registered closers.
func (s *Scope) Len() int {
	return len(s.closers)
}

// Close releases every registered closer in reverse order and joins their
// errors. The scope is empty afterwards.
func (s *Scope) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return stderrors.Join(errs...)
}
