package shell

import (
	"io"
	"sync/atomic"
)

// Stream is the character stream collaborator: the serial console of the
// shell. ReadByte returns the next byte or a negative value when the
// stream is empty right now. All interpreter output, including trace,
// goes through the write side.
type Stream interface {
	ReadByte() int
	WriteByte(c byte)
	WriteString(s string)
}

// IOStream adapts an io.Reader/io.Writer pair to the Stream contract.
// The reader is pumped by a goroutine into a channel so that ReadByte
// never blocks; EOF is sticky and observable with EOF().
type IOStream struct {
	in  chan byte
	w   io.Writer
	eof atomic.Bool
}

// NewIOStream starts the reader pump and returns the stream. r may be
// nil for output-only streams.
func NewIOStream(r io.Reader, w io.Writer) *IOStream {
	s := &IOStream{
		in: make(chan byte, 256),
		w:  w,
	}
	if r == nil {
		close(s.in)
		s.eof.Store(true)
		return s
	}
	go func() {
		defer close(s.in)
		buf := make([]byte, 1)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				s.in <- buf[0]
			}
			if err != nil {
				s.eof.Store(true)
				return
			}
		}
	}()
	return s
}

// NewChanStream returns a stream without a backing reader; input is
// provided with Feed. Used by the viewers to forward keystrokes.
func NewChanStream(w io.Writer) *IOStream {
	return &IOStream{
		in: make(chan byte, 256),
		w:  w,
	}
}

// Feed queues input bytes, blocking when the buffer is full.
func (s *IOStream) Feed(p []byte) {
	for _, c := range p {
		s.in <- c
	}
}

// EOF reports whether the read side is exhausted for good.
func (s *IOStream) EOF() bool {
	return s.eof.Load() && len(s.in) == 0
}

func (s *IOStream) ReadByte() int {
	select {
	case c, ok := <-s.in:
		if !ok {
			return -1
		}
		return int(c)
	default:
		return -1
	}
}

func (s *IOStream) WriteByte(c byte) {
	if s.w == nil {
		return
	}
	_, _ = s.w.Write([]byte{c}) // Console writes are best effort.
}

func (s *IOStream) WriteString(str string) {
	if s.w == nil {
		return
	}
	_, _ = io.WriteString(s.w, str)
}
