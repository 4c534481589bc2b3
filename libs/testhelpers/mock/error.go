package mock

// SafeError converts a recorded return value to an error, tolerating nil.
func SafeError(v interface{}) error {
	if v == nil {
		return nil
	}
	return v.(error)
}
