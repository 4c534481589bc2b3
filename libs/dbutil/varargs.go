package dbutil

import "strconv"

// VarArgs collects column/value pairs for building partial UPDATE statements.
type VarArgs interface {
	Append(column string, value interface{})
	IsEmpty() bool
	// ColumnsForUpdate returns the "col1=?,col2=?" fragment for a SET clause.
	ColumnsForUpdate() string
	Values() []interface{}
}

type varArgs struct {
	columns  []string
	values   []interface{}
	postgres bool
	startIdx int
}

// MySQLVarArgs returns an empty set of variadic query arguments using MySQL placeholders.
func MySQLVarArgs() VarArgs {
	return &varArgs{}
}

// PostgresVarArgs returns an empty set of variadic query arguments using
// Postgres placeholders starting at the provided index.
func PostgresVarArgs(startIdx int) VarArgs {
	if startIdx < 1 {
		panic("dbutil: PostgresVarArgs start index must be > 0")
	}
	return &varArgs{postgres: true, startIdx: startIdx}
}

func (v *varArgs) Append(column string, value interface{}) {
	v.columns = append(v.columns, column)
	v.values = append(v.values, value)
}

func (v *varArgs) IsEmpty() bool {
	return len(v.columns) == 0
}

func (v *varArgs) ColumnsForUpdate() string {
	if len(v.columns) == 0 {
		return ""
	}
	var b []byte
	for i, c := range v.columns {
		if i != 0 {
			b = append(b, ',')
		}
		b = append(b, c...)
		b = append(b, '=')
		if v.postgres {
			b = append(b, '$')
			b = strconv.AppendInt(b, int64(v.startIdx+i), 10)
		} else {
			b = append(b, '?')
		}
	}
	return string(b)
}

func (v *varArgs) Values() []interface{} {
	return v.values
}
