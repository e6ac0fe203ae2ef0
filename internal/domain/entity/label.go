package entity

// Label is a classification outcome. The set is closed.
type Label string

const (
	LabelHoax    Label = "hoax"
	LabelFactual Label = "faktual"
)

// LabelSet lists every label the service may report, in model output order
var LabelSet = []Label{LabelHoax, LabelFactual}

// Valid reports whether l belongs to LabelSet
func (l Label) Valid() bool {
	for _, known := range LabelSet {
		if l == known {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer
func (l Label) String() string {
	return string(l)
}
