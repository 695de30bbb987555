package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResource(t *testing.T) {
	r, err := NewResource("Task")
	require.NoError(t, err)
	assert.Equal(t, "Task", r.Name)

	for _, name := range []string{"task", "", "My-Thing", "9Lives"} {
		_, err := NewResource(name)
		assert.Error(t, err, name)
		assert.True(t, IsSchemaError(err))
	}
}

func TestAddFieldValidation(t *testing.T) {
	tests := []struct {
		name    string
		field   *Field
		wantErr string
	}{
		{
			name:  "valid text field",
			field: &Field{Name: "title", Type: TypeText, Required: true},
		},
		{
			name:    "reserved name id",
			field:   &Field{Name: "id", Type: TypeText},
			wantErr: "reserved field name",
		},
		{
			name:    "reserved name proto",
			field:   &Field{Name: "__proto__", Type: TypeText},
			wantErr: "reserved field name",
		},
		{
			name:    "invalid name",
			field:   &Field{Name: "bad-name", Type: TypeText},
			wantErr: "invalid field name",
		},
		{
			name:    "unknown type",
			field:   &Field{Name: "x", Type: Type("blob")},
			wantErr: "unknown field type",
		},
		{
			name:    "auto required conflict",
			field:   &Field{Name: "createdAt", Type: TypeDateTime, Auto: true, Required: true},
			wantErr: "auto fields cannot be required",
		},
		{
			name:    "select without options",
			field:   &Field{Name: "status", Type: TypeSelect},
			wantErr: "at least one option",
		},
		{
			name:    "relation without target",
			field:   &Field{Name: "owner", Type: TypeRelation, Rel: &Relationship{}},
			wantErr: "require a target",
		},
		{
			name:    "future and past",
			field:   &Field{Name: "due", Type: TypeDate, Validation: &Validation{Future: true, Past: true}},
			wantErr: "mutually exclusive",
		},
		{
			name:    "min greater than max",
			field:   &Field{Name: "age", Type: TypeNumber, Validation: &Validation{Min: ptr(10.0), Max: ptr(1.0)}},
			wantErr: "min cannot exceed max",
		},
		{
			name:    "minLength greater than maxLength",
			field:   &Field{Name: "slug", Type: TypeText, Validation: &Validation{MinLength: iptr(9), MaxLength: iptr(3)}},
			wantErr: "minLength cannot exceed maxLength",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewResource("Task")
			require.NoError(t, err)
			err = r.AddField(tt.field)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAddFieldDuplicate(t *testing.T) {
	r, err := NewResource("Task")
	require.NoError(t, err)
	require.NoError(t, r.AddField(&Field{Name: "title", Type: TypeText}))
	err = r.AddField(&Field{Name: "title", Type: TypeText})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redeclared")
}

func TestRelationDefaults(t *testing.T) {
	r, err := NewResource("Task")
	require.NoError(t, err)
	f := &Field{Name: "assignee", Type: TypeRelation, Rel: &Relationship{Target: "User", Cardinality: One}}
	require.NoError(t, r.AddField(f))
	assert.Equal(t, "assigneeId", f.Rel.ForeignKey)
	assert.Equal(t, "tasks", f.Rel.Inverse)
}

func TestResolveReferences(t *testing.T) {
	app := NewApp("tracker")
	task, _ := NewResource("Task")
	// Forward reference: User is declared after Task.
	require.NoError(t, task.AddField(&Field{
		Name: "assignee", Type: TypeRelation,
		Rel: &Relationship{Target: "User", Cardinality: One},
	}))
	require.NoError(t, app.AddResource(task))
	user, _ := NewResource("User")
	require.NoError(t, app.AddResource(user))
	assert.NoError(t, app.ResolveReferences())

	// Self reference is legal.
	require.NoError(t, user.AddField(&Field{
		Name: "manager", Type: TypeRelation,
		Rel: &Relationship{Target: "User", Cardinality: One},
	}))
	assert.NoError(t, app.ResolveReferences())

	// Dangling target fails.
	require.NoError(t, task.AddField(&Field{
		Name: "project", Type: TypeRelation,
		Rel: &Relationship{Target: "Project", Cardinality: One},
	}))
	err := app.ResolveReferences()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown relation target Project")
}

func TestAppSlugAndDuplicates(t *testing.T) {
	app := NewApp("My Tracker!!")
	assert.Equal(t, "my-tracker", app.Slug())
	r, _ := NewResource("Task")
	require.NoError(t, app.AddResource(r))
	dup, _ := NewResource("Task")
	assert.Error(t, app.AddResource(dup))

	assert.Equal(t, "app", NewApp("").Name)
}

func ptr(f float64) *float64 { return &f }
func iptr(i int) *int        { return &i }
