package appointment

// Data is the four-field intake record collected across the dialogue.
// Fields are filled in order and never cleared within a session.
type Data struct {
	Name          string `json:"name"`
	Age           string `json:"age"`
	Problem       string `json:"problem"`
	PreferredTime string `json:"preferredTime"`
}

// Field identifies one slot of Data.
type Field string

const (
	FieldName          Field = "name"
	FieldAge           Field = "age"
	FieldProblem       Field = "problem"
	FieldPreferredTime Field = "preferredTime"
)

// Get returns the value stored for the field.
func (d Data) Get(f Field) string {
	switch f {
	case FieldName:
		return d.Name
	case FieldAge:
		return d.Age
	case FieldProblem:
		return d.Problem
	case FieldPreferredTime:
		return d.PreferredTime
	}
	return ""
}

// With returns a copy of d with the field set, unless it already holds a value.
func (d Data) With(f Field, value string) Data {
	if d.Get(f) != "" {
		return d
	}
	switch f {
	case FieldName:
		d.Name = value
	case FieldAge:
		d.Age = value
	case FieldProblem:
		d.Problem = value
	case FieldPreferredTime:
		d.PreferredTime = value
	}
	return d
}

// Complete reports whether every field has been captured.
func (d Data) Complete() bool {
	return d.Name != "" && d.Age != "" && d.Problem != "" && d.PreferredTime != ""
}
