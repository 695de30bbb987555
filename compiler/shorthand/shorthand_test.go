package shorthand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomkit/loom/schema"
)

func parseOne(t *testing.T, key string, value any) *schema.Field {
	t.Helper()
	res, err := Parse("Task", Props{{Key: key, Value: value}})
	require.NoError(t, err)
	require.Len(t, res.Fields, 1)
	return res.Fields[0]
}

func TestParseBasicText(t *testing.T) {
	f := parseOne(t, "title", true)
	assert.Equal(t, "title", f.Name)
	assert.Equal(t, schema.TypeText, f.Type)
	assert.True(t, f.Required)
}

func TestParseOptionalMarkers(t *testing.T) {
	f := parseOne(t, "description?", true)
	assert.Equal(t, "description", f.Name)
	assert.Equal(t, schema.TypeText, f.Type)
	assert.False(t, f.Required)

	f = parseOne(t, "?summary", true)
	assert.Equal(t, "summary", f.Name)
	assert.False(t, f.Required)
}

func TestParseBooleanInference(t *testing.T) {
	for _, name := range []string{"done", "completed", "active", "enabled", "visible", "isArchived", "hasAttachment"} {
		f := parseOne(t, name, true)
		assert.Equal(t, schema.TypeBoolean, f.Type, name)
	}
}

func TestParseSelectInference(t *testing.T) {
	f := parseOne(t, "status", "open | closed")
	assert.Equal(t, schema.TypeSelect, f.Type)
	assert.Equal(t, []string{"open", "closed"}, f.Options)
	assert.True(t, f.Required)
}

func TestParseRelation(t *testing.T) {
	f := parseOne(t, "assignee->User", true)
	assert.Equal(t, "assignee", f.Name)
	assert.Equal(t, schema.TypeRelation, f.Type)
	require.NotNil(t, f.Rel)
	assert.Equal(t, "User", f.Rel.Target)
	assert.Equal(t, schema.One, f.Rel.Cardinality)
	assert.Equal(t, "assigneeId", f.Rel.ForeignKey)

	f = parseOne(t, "tags->Tag[]", true)
	assert.Equal(t, "tags", f.Name)
	assert.Equal(t, "Tag", f.Rel.Target)
	assert.Equal(t, schema.Many, f.Rel.Cardinality)
}

func TestParseExplicitModifiers(t *testing.T) {
	f := parseOne(t, "slug:text:unique", true)
	assert.Equal(t, schema.TypeText, f.Type)
	assert.True(t, f.Unique)

	// Modifier order does not matter.
	f = parseOne(t, "code:unique:text", true)
	assert.Equal(t, schema.TypeText, f.Type)
	assert.True(t, f.Unique)

	f = parseOne(t, "age:number", true)
	assert.Equal(t, schema.TypeNumber, f.Type)
}

func TestParseAuto(t *testing.T) {
	f := parseOne(t, "createdAt:auto", true)
	assert.True(t, f.Auto)
	assert.False(t, f.Required)
	assert.Equal(t, schema.TypeDateTime, f.Type)

	// auto wins over the optional marker interplay: never required.
	f = parseOne(t, "updatedAt:datetime:auto", true)
	assert.True(t, f.Auto)
	assert.False(t, f.Required)
	assert.Equal(t, schema.TypeDateTime, f.Type)
}

func TestParseUniqueStillInfers(t *testing.T) {
	// No explicit type modifier, so the name-based inference applies.
	f := parseOne(t, "email:unique", true)
	assert.Equal(t, schema.TypeEmail, f.Type)
	assert.True(t, f.Unique)
}

func TestExplicitTypeBeatsInference(t *testing.T) {
	// "done" would infer boolean, but the explicit modifier wins.
	f := parseOne(t, "done:text", true)
	assert.Equal(t, schema.TypeText, f.Type)
}

func TestParseOrderPreserved(t *testing.T) {
	res, err := Parse("Task", Props{
		{Key: "title", Value: true},
		{Key: "status", Value: "open | closed"},
		{Key: "done", Value: true},
	})
	require.NoError(t, err)
	require.Len(t, res.Fields, 3)
	assert.Equal(t, "title", res.Fields[0].Name)
	assert.Equal(t, "status", res.Fields[1].Name)
	assert.Equal(t, "done", res.Fields[2].Name)
}

func TestReservedKeysSkipped(t *testing.T) {
	res, err := Parse("Task", Props{
		{Key: "name", Value: "Task"},
		{Key: "children", Value: nil},
		{Key: "title", Value: true},
	})
	require.NoError(t, err)
	require.Len(t, res.Fields, 1)
	assert.Equal(t, "title", res.Fields[0].Name)
}

func TestReservedFieldNamesDropped(t *testing.T) {
	// Reserved field names fail both the parsed field and its text
	// fallback; the key is dropped without failing the resource.
	res, err := Parse("Task", Props{
		{Key: "id", Value: true},
		{Key: "__proto__", Value: true},
		{Key: "title", Value: true},
	})
	require.NoError(t, err)
	require.Len(t, res.Fields, 1)
	assert.Equal(t, "title", res.Fields[0].Name)
}

func TestMalformedKeysDegrade(t *testing.T) {
	// A reserved field name degrades rather than failing the resource.
	res, err := Parse("Task", Props{
		{Key: "title", Value: true},
		{Key: "owner->", Value: true},
	})
	require.NoError(t, err)
	require.Len(t, res.Fields, 2)
	assert.Equal(t, schema.TypeText, res.Fields[1].Type)
	assert.True(t, res.Fields[1].Required)
}

func TestPropsFromMap(t *testing.T) {
	props := PropsFromMap(map[string]any{"b": true, "a": true})
	require.Len(t, props, 2)
	assert.Equal(t, "a", props[0].Key)
	assert.Equal(t, "b", props[1].Key)
}
