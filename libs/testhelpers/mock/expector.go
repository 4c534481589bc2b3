// Package mock provides a light expectation-based framework for hand written mocks.
//
// A mock embeds *Expector, records calls through Record, and tests declare
// the expected calls up front:
//
//	dl := NewMockDAL(t)
//	defer dl.Finish()
//	dl.Expect(mock.NewExpectation(dl.Thing, "arg").WithReturns(&Thing{}, nil))
package mock

import (
	"reflect"
	"runtime"
	"strings"
	"testing"
)

// Expectation describes a single expected call and the values it should return.
type Expectation struct {
	fnName  string
	params  []interface{}
	returns []interface{}
}

// NewExpectation returns an expectation for a call of fn with the provided params.
func NewExpectation(fn interface{}, params ...interface{}) *Expectation {
	return &Expectation{
		fnName: funcName(reflect.ValueOf(fn).Pointer()),
		params: params,
	}
}

// WithReturns attaches the values the mocked call should return.
func (e *Expectation) WithReturns(returns ...interface{}) *Expectation {
	e.returns = returns
	return e
}

// Expector tracks expectations for a mock. Embed a pointer to it in mock types.
type Expector struct {
	T *testing.T

	expectations []*Expectation
	calls        int
}

// Expect appends an expectation to the ordered list of expected calls.
func (e *Expector) Expect(exp *Expectation) {
	e.expectations = append(e.expectations, exp)
}

// Record matches the calling method against the next expectation and returns
// the configured return values. Unexpected or mismatched calls fail the test.
func (e *Expector) Record(params ...interface{}) []interface{} {
	e.calls++
	caller := "unknown"
	if pc, _, _, ok := runtime.Caller(1); ok {
		caller = funcName(pc)
	}
	if len(e.expectations) == 0 {
		if e.T != nil {
			e.T.Fatalf("mock: unexpected call %s(%+v)", caller, params)
		}
		return nil
	}
	exp := e.expectations[0]
	e.expectations = e.expectations[1:]
	if e.T != nil {
		if exp.fnName != caller {
			e.T.Fatalf("mock: expected call to %s but got %s(%+v)", exp.fnName, caller, params)
		}
		if !reflect.DeepEqual(exp.params, params) && !(len(exp.params) == 0 && len(params) == 0) {
			e.T.Fatalf("mock: call %s params\nexp: %+v\ngot: %+v", caller, exp.params, params)
		}
	}
	return exp.returns
}

// Finish asserts that every declared expectation was consumed.
func (e *Expector) Finish() {
	if len(e.expectations) != 0 && e.T != nil {
		e.T.Fatalf("mock: %d expected call(s) never made, next: %s", len(e.expectations), e.expectations[0].fnName)
	}
}

// funcName reduces a fully qualified function name to its method name so
// that expectations set with a bound method value match the caller.
func funcName(pc uintptr) string {
	f := runtime.FuncForPC(pc)
	if f == nil {
		return "unknown"
	}
	name := f.Name()
	name = strings.TrimSuffix(name, "-fm")
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}
