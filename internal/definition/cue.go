package definition

import (
	"errors"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"
)

// documentSchema constrains CUE definitions before decoding. #Node and
// #Edge are closed, so unknown fields are errors.
const documentSchema = `
name?: string
nodes: [...#Node]
edges?: [...#Edge]

#Node: {
	name:         string
	readiness?:   number
	resilience?:  number
	criticality?: number
	tags?: [...string]
	metadata?: {...}
}

#Edge: {
	from:             string
	to:               string
	weight?:          number
	coupling?:        number
	latency_penalty?: number
}
`

// LoadCUE reads a CUE graph definition from a single .cue file or from a
// directory holding one CUE package.
func LoadCUE(path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, loadErrorf(ErrCodeNotFound, path, err, "definition not found")
		}
		return nil, loadErrorf(ErrCodeGeneric, path, err, "failed to access definition: %v", err)
	}

	ctx := cuecontext.New()
	var value cue.Value
	if info.IsDir() {
		value, err = buildCUEDir(ctx, path)
	} else {
		value, err = buildCUEFile(ctx, path)
	}
	if err != nil {
		return nil, err
	}

	doc, err := decodeCUE(ctx, value, path)
	if err != nil {
		return nil, err
	}
	doc.Source = path
	return doc, nil
}

// ParseCUE decodes CUE source held in memory. filename is used for error
// positions only.
func ParseCUE(filename string, src []byte) (*Document, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(src, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, cueLoadError(ErrCodeParseFailed, filename, err)
	}
	return decodeCUE(ctx, value, filename)
}

func buildCUEFile(ctx *cue.Context, path string) (cue.Value, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return cue.Value{}, loadErrorf(ErrCodeGeneric, path, err, "failed to read definition: %v", err)
	}
	value := ctx.CompileBytes(src, cue.Filename(path))
	if err := value.Err(); err != nil {
		return cue.Value{}, cueLoadError(ErrCodeParseFailed, path, err)
	}
	return value, nil
}

func buildCUEDir(ctx *cue.Context, dir string) (cue.Value, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.cue"))
	if err != nil {
		return cue.Value{}, loadErrorf(ErrCodeGeneric, dir, err, "error scanning directory: %v", err)
	}
	if len(matches) == 0 {
		return cue.Value{}, loadErrorf(ErrCodeNoFiles, dir, nil, "no CUE files found in %s", dir)
	}

	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return cue.Value{}, loadErrorf(ErrCodeParseFailed, dir, nil, "no CUE instances loaded")
	}
	inst := instances[0]
	if inst.Err != nil {
		return cue.Value{}, cueLoadError(ErrCodeParseFailed, dir, inst.Err)
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return cue.Value{}, cueLoadError(ErrCodeParseFailed, dir, err)
	}
	return value, nil
}

// decodeCUE unifies value with the document schema, requires it to be
// concrete, and decodes it.
func decodeCUE(ctx *cue.Context, value cue.Value, source string) (*Document, error) {
	schema := ctx.CompileString(documentSchema, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, loadErrorf(ErrCodeGeneric, source, err, "invalid document schema: %v", err)
	}

	unified := schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, cueLoadError(ErrCodeDecodeFailed, source, err)
	}

	var doc Document
	if err := unified.Decode(&doc); err != nil {
		return nil, cueLoadError(ErrCodeDecodeFailed, source, err)
	}
	doc.Format = FormatCUE
	return &doc, nil
}

// cueLoadError converts a CUE error into a LoadError carrying the first
// reported source position.
func cueLoadError(code, source string, err error) *LoadError {
	le := &LoadError{Code: code, Message: err.Error(), File: source, Err: err}

	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return le
	}
	first := errs[0]
	le.Message = first.Error()
	for _, pos := range cueerrors.Positions(first) {
		if !pos.IsValid() || pos.Filename() == "schema.cue" {
			continue
		}
		le.File = pos.Filename()
		le.Line = pos.Line()
		le.Column = pos.Column()
		break
	}
	return le
}
