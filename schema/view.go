package schema

// ViewType is the kind of a view configuration.
type ViewType string

// Recognized view types. Any other value is a parse error in the
// annotation front end.
const (
	ViewList   ViewType = "list"
	ViewDetail ViewType = "detail"
	ViewForm   ViewType = "form"
	ViewCard   ViewType = "card"
	ViewTable  ViewType = "table"
)

// Valid reports whether t is a recognized view type.
func (t ViewType) Valid() bool {
	switch t {
	case ViewList, ViewDetail, ViewForm, ViewCard, ViewTable:
		return true
	}
	return false
}

// Filter restricts the records shown by a view.
type Filter struct {
	Field    string
	Operator string
	Value    any
}

// ViewConfig describes one view of a resource.
type ViewConfig struct {
	Type          ViewType
	Name          string
	Fields        []string
	SortBy        string
	SortDirection string
	GroupBy       string
	Filters       []Filter
	Layout        string
	Columns       int
}

// FieldViewConfig is per-field display metadata layered over a field.
type FieldViewConfig struct {
	Label       string
	Placeholder string
	Hidden      bool
	Readonly    bool
	Format      string
	// Width is preserved as written: a bare number or a quoted
	// percentage string. No unit normalization is applied.
	Width     string
	Component string
}
