package shader

import (
	"fmt"
	"strings"
)

// maxIncludeDepth bounds nested includes so a chunk cannot include itself forever.
const maxIncludeDepth = 8

type preProcessor struct {
	chunks    map[string]string
	constants map[string]string
}

// PreProcessor expands @oxy: annotations in WGSL source.
type PreProcessor interface {
	// RegisterChunk makes a WGSL source chunk available to @oxy:include.
	//
	// Parameters:
	//   - name: the include key
	//   - source: the WGSL text to inject
	RegisterChunk(name, source string)

	// SetConstant overrides the value emitted for an @oxy:const annotation.
	//
	// Parameters:
	//   - name: the constant name
	//   - value: the WGSL literal
	SetConstant(name, value string)

	// Process expands every annotation in source. Included chunks are expanded recursively.
	//
	// Parameters:
	//   - source: the raw WGSL source
	//
	// Returns:
	//   - string: the expanded WGSL source
	//   - error: an error if an annotation is malformed or references an unknown chunk
	Process(source string) (string, error)
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates an empty PreProcessor.
//
// Returns:
//   - PreProcessor: a pre-processor with no chunks or constants registered
func NewPreProcessor() PreProcessor {
	return &preProcessor{
		chunks:    make(map[string]string),
		constants: make(map[string]string),
	}
}

func (p *preProcessor) RegisterChunk(name, source string) {
	p.chunks[name] = source
}

func (p *preProcessor) SetConstant(name, value string) {
	p.constants[name] = value
}

func (p *preProcessor) Process(source string) (string, error) {
	return p.process(source, 0, map[string]bool{})
}

func (p *preProcessor) process(source string, depth int, included map[string]bool) (string, error) {
	if depth > maxIncludeDepth {
		return "", fmt.Errorf("include depth exceeds %d", maxIncludeDepth)
	}

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		switch a.Type {
		case AnnotationTypeInclude:
			name := a.Args[0]
			chunk, ok := p.chunks[name]
			if !ok {
				return "", fmt.Errorf("line %d: unknown @oxy:include chunk %q", a.Line, name)
			}
			// a chunk is injected once per shader
			if included[name] {
				continue
			}
			included[name] = true
			expanded, err := p.process(chunk, depth+1, included)
			if err != nil {
				return "", fmt.Errorf("chunk %q: %w", name, err)
			}
			out = append(out, expanded)
		case AnnotationTypeConst:
			value, ok := p.constants[a.Args[0]]
			if !ok {
				if len(a.Args) < 3 {
					return "", fmt.Errorf("line %d: no value for @oxy:const %s", a.Line, a.Args[0])
				}
				value = a.Args[2]
			}
			out = append(out, fmt.Sprintf("const %s: %s = %s;", a.Args[0], a.Args[1], value))
		}
	}
	return strings.Join(out, "\n"), nil
}
