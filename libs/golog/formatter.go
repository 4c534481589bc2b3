package golog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

const timeFormat = "2006-01-02T15:04:05-0700"

// Formatter serializes an entry into bytes ready to be written by a handler.
type Formatter interface {
	Format(e *Entry) []byte
}

// FormatterFunc adapts a function to the Formatter interface.
type FormatterFunc func(*Entry) []byte

// Format implements Formatter.
func (f FormatterFunc) Format(e *Entry) []byte {
	return f(e)
}

// JSONFormatter returns a formatter producing one JSON object per entry.
func JSONFormatter() Formatter {
	return FormatterFunc(func(e *Entry) []byte {
		js := make(map[string]interface{}, len(e.Ctx)/2+4)
		for i := 0; i+1 < len(e.Ctx); i += 2 {
			if k, ok := e.Ctx[i].(string); ok {
				js[k] = e.Ctx[i+1]
			} else {
				js["_error"] = fmt.Sprintf("%+v is not a string key", e.Ctx[i])
			}
		}
		js["t"] = e.Time.Format(timeFormat)
		js["level"] = e.Lvl.String()
		js["msg"] = e.Msg
		if e.Src != "" {
			js["src"] = e.Src
		}
		b, err := json.Marshal(js)
		if err != nil {
			b, _ = json.Marshal(map[string]string{"JSONFormatterError": err.Error()})
			return append(b, '\n')
		}
		return append(b, '\n')
	})
}

// LogfmtFormatter returns a formatter producing logfmt style entries.
func LogfmtFormatter() Formatter {
	return FormatterFunc(func(e *Entry) []byte {
		buf := &bytes.Buffer{}
		buf.WriteString("t=")
		buf.WriteString(e.Time.Format(timeFormat))
		buf.WriteString(" lvl=")
		buf.WriteString(e.Lvl.String())
		buf.WriteString(" msg=")
		buf.WriteString(strconv.Quote(e.Msg))
		if e.Src != "" {
			buf.WriteString(" src=")
			buf.WriteString(strconv.Quote(e.Src))
		}
		for i := 0; i+1 < len(e.Ctx); i += 2 {
			if k, ok := e.Ctx[i].(string); ok {
				buf.WriteByte(' ')
				buf.WriteString(k)
				buf.WriteByte('=')
			} else {
				buf.WriteString(" _error=")
			}
			buf.WriteString(formatValue(e.Ctx[i+1]))
		}
		buf.WriteByte('\n')
		return buf.Bytes()
	})
}

func formatValue(value interface{}) string {
	if value == nil {
		return "nil"
	}
	switch v := value.(type) {
	case bool:
		return strconv.FormatBool(v)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', 3, 64)
	case float64:
		return strconv.FormatFloat(v, 'f', 3, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case int8, int16, int32, uint, uint8, uint16, uint32:
		return fmt.Sprintf("%d", value)
	case time.Time:
		return v.Format(timeFormat)
	case string:
		return strconv.Quote(v)
	case error:
		return strconv.Quote(v.Error())
	case fmt.Stringer:
		return strconv.Quote(v.String())
	}
	return strconv.Quote(fmt.Sprintf("%+v", value))
}
