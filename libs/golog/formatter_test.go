package golog

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/bitmap357/hospital-test/libs/test"
)

func TestJSONFormatterWriterHandler(t *testing.T) {
	buf := &bytes.Buffer{}
	h := WriterHandler(buf, JSONFormatter())

	test.OK(t, h.Log(&Entry{
		Time: time.Date(2016, 6, 1, 12, 0, 0, 0, time.UTC),
		Lvl:  INFO,
		Msg:  "hello",
		Src:  "golog_test.go:1",
		Ctx:  []interface{}{"service", "careplan"},
	}))

	var js map[string]interface{}
	test.OK(t, json.Unmarshal(buf.Bytes(), &js))
	test.Equals(t, "hello", js["msg"])
	test.Equals(t, "INFO", js["level"])
	test.Equals(t, "golog_test.go:1", js["src"])
	test.Equals(t, "careplan", js["service"])
}

func TestLogfmtFormatter(t *testing.T) {
	buf := &bytes.Buffer{}
	h := WriterHandler(buf, LogfmtFormatter())

	test.OK(t, h.Log(&Entry{
		Time: time.Date(2016, 6, 1, 12, 0, 0, 0, time.UTC),
		Lvl:  WARN,
		Msg:  "disk almost full",
	}))

	out := buf.String()
	test.Assert(t, bytes.Contains(buf.Bytes(), []byte("lvl=WARN")), "missing level in %q", out)
	test.Assert(t, bytes.Contains(buf.Bytes(), []byte(`msg="disk almost full"`)), "missing msg in %q", out)
}
