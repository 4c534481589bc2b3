package dbutil

// Scanner matches the Scan method shared by sql.Row and sql.Rows so that
// one scan helper can serve both single and multi row queries.
type Scanner interface {
	Scan(dest ...interface{}) error
}

// MySQLArgs returns n mysql placeholder arguments for a database query.
func MySQLArgs(n int) string {
	if n <= 0 {
		return ""
	}
	result := make([]byte, 2*n-1)
	for i := 0; i < len(result)-1; i += 2 {
		result[i] = '?'
		result[i+1] = ','
	}
	result[len(result)-1] = '?'
	return string(result)
}
