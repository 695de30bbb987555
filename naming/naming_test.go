package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPluralize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// suffix rules
		{"task", "tasks"},
		{"bus", "buses"},
		{"box", "boxes"},
		{"quiz", "quizzes"},
		{"church", "churches"},
		{"dish", "dishes"},
		{"category", "categories"},
		{"day", "days"},
		// irregulars
		{"person", "people"},
		{"child", "children"},
		{"Person", "People"},
		{"criterion", "criteria"},
		// uncountables
		{"sheep", "sheep"},
		{"series", "series"},
		// already plural irregular
		{"people", "people"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Pluralize(tt.input))
		})
	}
}

func TestSingularize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"tasks", "task"},
		{"buses", "bus"},
		{"boxes", "box"},
		{"churches", "church"},
		{"dishes", "dish"},
		{"categories", "category"},
		{"days", "day"},
		{"people", "person"},
		{"children", "child"},
		{"Teeth", "Tooth"},
		{"leaves", "leaf"},
		{"fish", "fish"},
		{"deer", "deer"},
		{"child", "child"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Singularize(tt.input))
		})
	}
}

// Representative words per rule branch must round-trip both ways.
func TestPluralizeRoundTrip(t *testing.T) {
	singulars := []string{"task", "bus", "box", "church", "dish", "category", "day", "user", "person", "child", "leaf", "analysis"}
	for _, w := range singulars {
		t.Run(w, func(t *testing.T) {
			assert.Equal(t, w, Singularize(Pluralize(w)))
		})
	}
	plurals := []string{"tasks", "buses", "boxes", "churches", "categories", "days", "people", "children", "leaves", "analyses"}
	for _, w := range plurals {
		t.Run(w, func(t *testing.T) {
			assert.Equal(t, w, Pluralize(Singularize(w)))
		})
	}
}

func TestUncountablesAreFixedPoints(t *testing.T) {
	for _, w := range []string{"sheep", "fish", "deer", "series", "species"} {
		assert.Equal(t, w, Pluralize(w))
		assert.Equal(t, w, Singularize(w))
		assert.True(t, IsPlural(w))
	}
}

func TestIsPlural(t *testing.T) {
	assert.True(t, IsPlural("tasks"))
	assert.True(t, IsPlural("people"))
	assert.False(t, IsPlural("task"))
	assert.False(t, IsPlural("person"))
	assert.False(t, IsPlural(""))
}

func TestPascal(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"task", "Task"},
		{"my-special_app", "MySpecialApp"},
		{"My-Special_App", "MySpecialApp"},
		{"createdAt", "CreatedAt"},
		{"hello world", "HelloWorld"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Pascal(tt.input))
		})
	}
}

func TestCamel(t *testing.T) {
	assert.Equal(t, "mySpecialApp", Camel("My-Special_App"))
	assert.Equal(t, "task", Camel("Task"))
	assert.Equal(t, "", Camel(""))
}

func TestSnakeKebabScreaming(t *testing.T) {
	assert.Equal(t, "my_special_app", Snake("My-Special_App"))
	assert.Equal(t, "my-special-app", Kebab("My-Special_App"))
	assert.Equal(t, "my-special-app", Kebab("MySpecialApp"))
	assert.Equal(t, "MY_SPECIAL_APP", Screaming("My-Special_App"))
	assert.Equal(t, "task-tracker", Kebab("Task   Tracker!!"))
}

func TestIdent(t *testing.T) {
	assert.Equal(t, "MySpecialApp", Ident("My-Special_App"))
	assert.Equal(t, "_2fast", Ident("2fast"))
}
