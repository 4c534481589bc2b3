package golog

import "io"

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(e *Entry) error

// Log implements Handler.
func (h HandlerFunc) Log(e *Entry) error {
	return h(e)
}

// IOHandler returns a handler that writes WARN and above to err and
// everything else to out.
func IOHandler(out, err io.Writer, fmtr Formatter) Handler {
	return &ioHandler{out: out, err: err, fmtr: fmtr}
}

// WriterHandler returns a handler that writes every entry to w.
func WriterHandler(w io.Writer, fmtr Formatter) Handler {
	return &ioHandler{out: w, err: w, fmtr: fmtr}
}

type ioHandler struct {
	out, err io.Writer
	fmtr     Formatter
}

func (h *ioHandler) Log(e *Entry) error {
	m := h.fmtr.Format(e)
	if e.Lvl <= WARN {
		_, err := h.err.Write(m)
		return err
	}
	_, err := h.out.Write(m)
	return err
}
