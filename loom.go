// Package loom compiles application schemas into deployable artifacts.
//
// Three front-end syntaxes (shorthand props, ER diagram text, annotated
// schema documents) resolve to one canonical AST (package schema), which
// four generators (package codegen) turn into an entity class, an edge
// entry point, a deployment config, and a typed client SDK.
//
// This package is the orchestration layer: format detection, parser
// dispatch, and artifact assembly. It performs no I/O.
package loom

import (
	"path/filepath"
	"strings"

	"github.com/loomkit/loom/codegen"
	"github.com/loomkit/loom/compiler/annotation"
	"github.com/loomkit/loom/compiler/diagram"
	"github.com/loomkit/loom/schema"
)

// Version is the loom release version.
const Version = "0.1.0"

// Format identifies a schema document syntax.
type Format string

// Supported document formats.
const (
	// FormatDiagram is the ER diagram notation.
	FormatDiagram Format = "diagram"
	// FormatAnnotation is the annotated schema document notation.
	FormatAnnotation Format = "annotation"
)

// DetectFormat infers the document format from a file path. Unknown
// extensions default to the annotation format.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mmd", ".mermaid", ".er":
		return FormatDiagram
	default:
		return FormatAnnotation
	}
}

// Compile parses src in the given format and returns the resolved app.
// Failures, including an unknown format, are reported as a
// schema.ParseError list; the app is nil whenever errors are present.
func Compile(format Format, src, appName string) (*schema.App, []schema.ParseError) {
	switch format {
	case FormatDiagram:
		res := diagram.Parse(src, appName)
		return res.App, res.Errors
	case FormatAnnotation:
		res := annotation.Parse(src, appName)
		return res.App, res.Errors
	default:
		return nil, []schema.ParseError{{Message: "unknown format " + string(format)}}
	}
}

// Artifact paths within the output directory.
const (
	PathEntity      = "src/entity.ts"
	PathWorker      = "src/worker.ts"
	PathDeploy      = "deploy.yaml"
	PathSDKTypes    = "sdk/types.ts"
	PathSDKClient   = "sdk/client.ts"
	PathSDKIndex    = "sdk/index.ts"
	PathSDKManifest = "sdk/package.json"
)

// Artifacts runs every generator over app and returns the full artifact
// set. All generators share one option list so derived names agree across
// artifacts.
func Artifacts(app *schema.App, opts ...codegen.Option) ([]codegen.Artifact, error) {
	entity, err := codegen.EntityClass(app, opts...)
	if err != nil {
		return nil, err
	}
	worker, err := codegen.WorkerEntry(app, opts...)
	if err != nil {
		return nil, err
	}
	deploy, err := codegen.DeployConfig(app, opts...)
	if err != nil {
		return nil, err
	}
	sdk, err := codegen.SDK(app, opts...)
	if err != nil {
		return nil, err
	}

	return []codegen.Artifact{
		{Path: PathEntity, Content: []byte(entity)},
		{Path: PathWorker, Content: []byte(worker)},
		{Path: PathDeploy, Content: []byte(deploy)},
		{Path: PathSDKTypes, Content: []byte(sdk.Types)},
		{Path: PathSDKClient, Content: []byte(sdk.Client)},
		{Path: PathSDKIndex, Content: []byte(sdk.Index)},
		{Path: PathSDKManifest, Content: []byte(sdk.Manifest)},
	}, nil
}
