package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomkit/loom/schema"
)

func TestParseMinimal(t *testing.T) {
	res := Parse("erDiagram\n  User {\n    string name\n  }")
	require.True(t, res.Success, "errors: %v", res.Errors)
	require.NotNil(t, res.App)
	require.Len(t, res.App.Resources, 1)
	user := res.App.Resources[0]
	assert.Equal(t, "User", user.Name)
	require.Len(t, user.Fields, 1)
	assert.Equal(t, "name", user.Fields[0].Name)
	assert.Equal(t, schema.TypeText, user.Fields[0].Type)
}

func TestParseTypesAndModifiers(t *testing.T) {
	src := `erDiagram
  Product {
    string title
    int quantity
    float price
    boolean inStock
    date releasedOn
    datetime restockedAt
    string sku UK
    string code PK
  }`
	res := Parse(src)
	require.True(t, res.Success, "errors: %v", res.Errors)
	p := res.App.Resource("Product")
	require.NotNil(t, p)

	assert.Equal(t, schema.TypeNumber, p.Field("quantity").Type)
	assert.Equal(t, schema.TypeNumber, p.Field("price").Type)
	assert.True(t, p.Field("price").Decimal)
	assert.False(t, p.Field("quantity").Decimal)
	assert.Equal(t, schema.TypeBoolean, p.Field("inStock").Type)
	assert.Equal(t, schema.TypeDate, p.Field("releasedOn").Type)
	assert.Equal(t, schema.TypeDateTime, p.Field("restockedAt").Type)
	assert.True(t, p.Field("sku").Unique)
	// PK is informational and does not change the type.
	assert.True(t, p.Field("code").PrimaryKey)
	assert.Equal(t, schema.TypeText, p.Field("code").Type)
}

func TestParseFKRetypesField(t *testing.T) {
	src := `erDiagram
  Post {
    string title
    int authorId FK
  }
  Author {
    string name
  }`
	res := Parse(src)
	require.True(t, res.Success, "errors: %v", res.Errors)
	f := res.App.Resource("Post").Field("authorId")
	require.NotNil(t, f)
	assert.Equal(t, schema.TypeRelation, f.Type)
	require.NotNil(t, f.Rel)
	assert.Equal(t, "Author", f.Rel.Target)
}

func TestParseOneToMany(t *testing.T) {
	src := `erDiagram
  User {
    string name
  }
  Post {
    string title
  }
  User ||--o{ Post : writes`
	res := Parse(src)
	require.True(t, res.Success, "errors: %v", res.Errors)
	post := res.App.Resource("Post")
	f := post.Field("userId")
	require.NotNil(t, f, "one-to-many materializes the FK on the many side")
	assert.Equal(t, schema.TypeRelation, f.Type)
	assert.Equal(t, "User", f.Rel.Target)
	assert.Equal(t, schema.One, f.Rel.Cardinality)
	assert.Equal(t, "posts", f.Rel.Inverse)
}

func TestParseOneToOneAndManyToManyDoNotFail(t *testing.T) {
	src := `erDiagram
  User ||--|| Profile : has
  Post }o--o{ Tag : tagged`
	res := Parse(src)
	require.True(t, res.Success, "errors: %v", res.Errors)

	profile := res.App.Resource("Profile")
	require.NotNil(t, profile)
	f := profile.Field("userId")
	require.NotNil(t, f)
	assert.True(t, f.Unique, "one-to-one FK is unique")

	post := res.App.Resource("Post")
	require.NotNil(t, post.Field("tags"))
	assert.Equal(t, schema.Many, post.Field("tags").Rel.Cardinality)
	tag := res.App.Resource("Tag")
	require.NotNil(t, tag.Field("posts"))
	assert.Equal(t, schema.Many, tag.Field("posts").Rel.Cardinality)
}

func TestParseComments(t *testing.T) {
	src := "erDiagram %% inline\n%% whole line\nUser {\n  string name %% trailing\n}"
	res := Parse(src)
	require.True(t, res.Success, "errors: %v", res.Errors)
	assert.Len(t, res.App.Resources, 1)
}

func TestParseMalformedToken(t *testing.T) {
	src := "erDiagram\n  User {\n    !!!invalid\n  }"
	res := Parse(src)
	assert.False(t, res.Success)
	assert.Nil(t, res.App)
	require.NotEmpty(t, res.Errors)
	assert.Equal(t, 3, res.Errors[0].Line)
}

func TestParseUnknownType(t *testing.T) {
	src := "erDiagram\n  User {\n    blob name\n  }"
	res := Parse(src)
	assert.False(t, res.Success)
	require.NotEmpty(t, res.Errors)
	assert.Equal(t, 3, res.Errors[0].Line)
	assert.Contains(t, res.Errors[0].Message, "unknown type")
}

func TestParseMissingDirective(t *testing.T) {
	res := Parse("User {\n  string name\n}")
	assert.False(t, res.Success)
	require.NotEmpty(t, res.Errors)
	assert.Contains(t, res.Errors[0].Message, "erDiagram")
}

func TestParseEmpty(t *testing.T) {
	for _, src := range []string{"", "   \n\t\n", "%% only comments\n"} {
		res := Parse(src)
		assert.False(t, res.Success)
		assert.NotEmpty(t, res.Errors)
	}
}

func TestParseAppName(t *testing.T) {
	res := Parse("erDiagram\n  User {\n    string name\n  }", "My Task Tracker!")
	require.True(t, res.Success)
	assert.Equal(t, "my-task-tracker", res.App.Name)
}

func TestParseReservedFieldName(t *testing.T) {
	src := "erDiagram\n  User {\n    string id\n  }"
	res := Parse(src)
	assert.False(t, res.Success)
	require.NotEmpty(t, res.Errors)
	assert.Equal(t, 3, res.Errors[0].Line)
	assert.Contains(t, res.Errors[0].Message, "reserved")
}
