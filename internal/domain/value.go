package domain

// Value is the normalized representation of a YouTrack API response.
// It is produced exactly once, at the HTTP response parsing boundary, and
// holds only the shapes encoding/json produces for untyped documents:
// map[string]interface{}, []interface{}, string, float64, bool and nil.
// Facades consume Values uniformly instead of re-checking response shapes
// per method.
type Value = interface{}

// AsObject returns v as a JSON object if it is one.
func AsObject(v Value) (map[string]interface{}, bool) {
	obj, ok := v.(map[string]interface{})
	return obj, ok
}

// AsArray returns v as a JSON array if it is one.
func AsArray(v Value) ([]interface{}, bool) {
	arr, ok := v.([]interface{})
	return arr, ok
}

// StringField returns the named field of a JSON object as a string.
// Returns "" if v is not an object, the field is absent, or it is not a string.
func StringField(v Value, name string) string {
	obj, ok := AsObject(v)
	if !ok {
		return ""
	}
	s, _ := obj[name].(string)
	return s
}

// BoolField returns the named field of a JSON object as a bool.
func BoolField(v Value, name string) bool {
	obj, ok := AsObject(v)
	if !ok {
		return false
	}
	b, _ := obj[name].(bool)
	return b
}
