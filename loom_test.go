package loom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomkit/loom"
	"github.com/loomkit/loom/codegen"
)

const diagramSrc = `erDiagram
  User {
    string name
    string email UK
  }
  Task {
    string title
  }
  User ||--o{ Task : owns
`

const annotationSrc = `@view("list", fields: ["title"])
Task {
  title: text
  done
}
`

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		want loom.Format
	}{
		{"schema.mmd", loom.FormatDiagram},
		{"schema.mermaid", loom.FormatDiagram},
		{"SCHEMA.ER", loom.FormatDiagram},
		{"schema.loom", loom.FormatAnnotation},
		{"schema", loom.FormatAnnotation},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, loom.DetectFormat(tt.path), tt.path)
	}
}

func TestCompileDiagram(t *testing.T) {
	app, errs := loom.Compile(loom.FormatDiagram, diagramSrc, "tracker")
	require.Empty(t, errs)
	require.NotNil(t, app)
	assert.Equal(t, "tracker", app.Name)
	require.NotNil(t, app.Resource("User"))
	require.NotNil(t, app.Resource("Task"))
	assert.NotNil(t, app.Resource("Task").Field("userId"))
}

func TestCompileAnnotation(t *testing.T) {
	app, errs := loom.Compile(loom.FormatAnnotation, annotationSrc, "tracker")
	require.Empty(t, errs)
	require.NotNil(t, app)
	task := app.Resource("Task")
	require.NotNil(t, task)
	assert.Len(t, task.Views, 1)
}

func TestCompileUnknownFormat(t *testing.T) {
	app, errs := loom.Compile(loom.Format("toml"), "", "")
	assert.Nil(t, app)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "unknown format")
}

func TestArtifacts(t *testing.T) {
	app, errs := loom.Compile(loom.FormatDiagram, diagramSrc, "tracker")
	require.Empty(t, errs)

	artifacts, err := loom.Artifacts(app)
	require.NoError(t, err)

	paths := make([]string, len(artifacts))
	for i, a := range artifacts {
		paths[i] = a.Path
		assert.NotEmpty(t, a.Content, a.Path)
	}
	assert.Equal(t, []string{
		loom.PathEntity,
		loom.PathWorker,
		loom.PathDeploy,
		loom.PathSDKTypes,
		loom.PathSDKClient,
		loom.PathSDKIndex,
		loom.PathSDKManifest,
	}, paths)
}

func TestArtifactsShareNaming(t *testing.T) {
	app, errs := loom.Compile(loom.FormatDiagram, diagramSrc, "My-Tracker")
	require.Empty(t, errs)

	artifacts, err := loom.Artifacts(app, codegen.WithMode(codegen.ModeDev))
	require.NoError(t, err)

	byPath := map[string]string{}
	for _, a := range artifacts {
		byPath[a.Path] = string(a.Content)
	}
	assert.Contains(t, byPath[loom.PathEntity], "export class MyTracker {")
	assert.Contains(t, byPath[loom.PathWorker], "MY_TRACKER: DurableObjectNamespace;")
	assert.Contains(t, byPath[loom.PathDeploy], "name: my-tracker")
	assert.Contains(t, byPath[loom.PathDeploy], "dev:")
}
