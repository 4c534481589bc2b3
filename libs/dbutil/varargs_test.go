package dbutil

import (
	"fmt"
	"testing"

	"github.com/bitmap357/hospital-test/libs/test"
)

func ExampleMySQLVarArgs() {
	args := MySQLVarArgs()
	args.Append("name", "joe")
	args.Append("age", 62)
	fmt.Println(args.ColumnsForUpdate())
	fmt.Printf("%#v\n", args.Values())
	// Output:
	// name=?,age=?
	// []interface {}{"joe", 62}
}

func ExamplePostgresVarArgs() {
	args := PostgresVarArgs(3)
	args.Append("name", "joe")
	args.Append("age", 62)
	fmt.Println(args.ColumnsForUpdate())
	fmt.Printf("%#v\n", args.Values())
	// Output:
	// name=$3,age=$4
	// []interface {}{"joe", 62}
}

func TestMySQLVarArgs(t *testing.T) {
	args := MySQLVarArgs()
	test.Equals(t, true, args.IsEmpty())
	test.Equals(t, "", args.ColumnsForUpdate())
	test.Equals(t, 0, len(args.Values()))

	args.Append("col1", 123)
	test.Equals(t, false, args.IsEmpty())
	test.Equals(t, "col1=?", args.ColumnsForUpdate())
	test.Equals(t, []interface{}{123}, args.Values())

	args.Append("col2", "abc")
	test.Equals(t, "col1=?,col2=?", args.ColumnsForUpdate())
	test.Equals(t, []interface{}{123, "abc"}, args.Values())
}

func TestMySQLArgs(t *testing.T) {
	test.Equals(t, "", MySQLArgs(0))
	test.Equals(t, "?", MySQLArgs(1))
	test.Equals(t, "?,?,?", MySQLArgs(3))
}
