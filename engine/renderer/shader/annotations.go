// annotations.go defines the @oxy: comment annotations understood by the WGSL
// pre-processor. Annotations are single-line WGSL comments that either inject a
// registered source chunk or declare a constant whose value is supplied from Go.
package shader

import (
	"fmt"
	"strings"
)

// annotationPrefix marks an annotation inside a WGSL comment line.
const annotationPrefix = "@oxy:"

// AnnotationType identifies the kind of annotation parsed from a WGSL comment line.
type AnnotationType string

const (
	// AnnotationTypeInclude injects a registered chunk at the annotation site.
	//
	// Syntax: //@oxy:include <chunk>
	//
	// Example: //@oxy:include frame
	AnnotationTypeInclude AnnotationType = "include"

	// AnnotationTypeConst emits a WGSL const declaration whose value comes from the
	// pre-processor's constant table, or the inline default when the table has none.
	//
	// Syntax: //@oxy:const <name> <wgsl_type> [default]
	//
	// Example: //@oxy:const PCF_RADIUS i32 1
	AnnotationTypeConst AnnotationType = "const"
)

// Annotation is a single parsed @oxy: annotation.
type Annotation struct {
	Type AnnotationType
	// Args holds the arguments after the annotation type:
	//   - include: [0] = chunk name
	//   - const:   [0] = name, [1] = WGSL type, [2] = default (optional)
	Args []string
	Line int
}

// parseAnnotation returns nil without error when the line carries no annotation.
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "//") {
		return nil, nil
	}
	_, after, ok := strings.Cut(trimmed, annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty @oxy annotation", lineNum)
	}

	switch AnnotationType(args[0]) {
	case AnnotationTypeInclude:
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @oxy include annotation requires exactly one argument", lineNum)
		}
	case AnnotationTypeConst:
		if len(args) < 3 || len(args) > 4 {
			return nil, fmt.Errorf("line %d: @oxy const annotation requires a name, a type and an optional default", lineNum)
		}
	default:
		return nil, fmt.Errorf("line %d: unknown annotation type %q", lineNum, args[0])
	}

	return &Annotation{
		Type: AnnotationType(args[0]),
		Args: args[1:],
		Line: lineNum,
	}, nil
}
