// Package errors provides error wrapping that retains the location of the
// original error and allows attaching debugging context along the way.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"
)

// New returns a new error with the provided message.
func New(msg string) error {
	return errors.New(msg)
}

// Errorf returns a new error formatted from the provided pattern and arguments.
func Errorf(f string, v ...interface{}) error {
	return fmt.Errorf(f, v...)
}

type terr struct {
	err         error
	loc         []string
	annotations []string
}

func (e *terr) Error() string {
	s := e.err.Error()
	for _, a := range e.annotations {
		s += " [" + a + "]"
	}
	if len(e.loc) != 0 {
		s += " @ " + e.loc[0]
	}
	return s
}

func wrap(err error) *terr {
	if e, ok := err.(*terr); ok {
		return e
	}
	return &terr{err: err}
}

// Trace wraps an error recording the location at which it was called. It is
// safe to call Trace on an already traced error in which case only the new
// location is recorded.
func Trace(err error) error {
	if err == nil {
		return nil
	}
	e := wrap(err)
	if _, file, line, ok := runtime.Caller(1); ok {
		short := file
		for i := len(file) - 1; i > 0; i-- {
			if file[i] == '/' {
				short = file[i+1:]
				break
			}
		}
		e.loc = append(e.loc, short+":"+strconv.Itoa(line))
	}
	return e
}

// Cause returns the underlying error for a traced error. For any other error
// it returns the error itself.
func Cause(err error) error {
	if e, ok := err.(*terr); ok {
		return e.err
	}
	return err
}

// Annotate adds context to an error. It can be used to attach more information that is useful for debugging.
func Annotate(err error, msg string) error {
	if err == nil {
		return nil
	}
	e := wrap(err)
	e.annotations = append(e.annotations, msg)
	return e
}

// Annotatef adds context to an error. It can be used to attach more information that is useful for debugging.
func Annotatef(err error, f string, v ...interface{}) error {
	if err == nil {
		return nil
	}
	e := wrap(err)
	e.annotations = append(e.annotations, fmt.Sprintf(f, v...))
	return e
}

// Annotations returns all annotations attached to an error.
func Annotations(err error) []string {
	if e, ok := err.(*terr); ok {
		return e.annotations
	}
	return nil
}
