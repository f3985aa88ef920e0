package shader

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// glslInputRegex captures an optional explicit location, the type and the name of a
	// top-level `in` declaration, e.g. `layout(location = 0) in vec3 vertexPos;`
	glslInputRegex = regexp.MustCompile(`(?m)^\s*(?:layout\s*\(\s*location\s*=\s*(\d+)\s*\)\s*)?in\s+(\w+)\s+(\w+)\s*;`)

	// glslUniformRegex captures the type and name of a top-level uniform declaration
	glslUniformRegex = regexp.MustCompile(`(?m)^\s*(?:layout\s*\([^)]*\)\s*)?uniform\s+(\w+)\s+(\w+)\s*;`)
)

// parseGLSLInputs extracts the per-vertex inputs of a GLSL vertex shader.
//
// Parameters:
//   - source: the GLSL source code string
//
// Returns:
//   - []Attribute: the inputs in declaration order, Location -1 unless given explicitly
func parseGLSLInputs(source string) []Attribute {
	var attrs []Attribute
	for _, m := range glslInputRegex.FindAllStringSubmatch(stripComments(source), -1) {
		loc := -1
		if m[1] != "" {
			if v, err := strconv.Atoi(m[1]); err == nil {
				loc = v
			}
		}
		attrs = append(attrs, Attribute{Name: m[3], Type: m[2], Location: loc})
	}
	return attrs
}

// parseGLSLUniforms extracts the uniform declarations of a GLSL shader.
//
// Parameters:
//   - source: the GLSL source code string
//
// Returns:
//   - []Uniform: the uniforms in declaration order
func parseGLSLUniforms(source string) []Uniform {
	var uniforms []Uniform
	for _, m := range glslUniformRegex.FindAllStringSubmatch(stripComments(source), -1) {
		kind := ResourceKindValue
		if strings.HasPrefix(m[1], "sampler") {
			kind = ResourceKindTexture
		}
		uniforms = append(uniforms, Uniform{Name: m[2], Type: m[1], Kind: kind, Group: -1, Binding: -1})
	}
	return uniforms
}
