package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/shader"
)

// SetupError reports that no graphics context could be acquired for the surface.
type SetupError struct {
	Backend RendererBackendType
	Err     error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("renderer: %s context unavailable: %v", e.Backend, e.Err)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}

// CompileError reports that a shader stage failed to compile. Log holds the compiler output.
type CompileError struct {
	Stage shader.ShaderType
	Key   string
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("renderer: %s shader %q failed to compile: %s", e.Stage, e.Key, e.Log)
}

// LinkError reports that a program failed to link. Log holds the linker output.
type LinkError struct {
	Label string
	Log   string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("renderer: program %q failed to link: %s", e.Label, e.Log)
}
