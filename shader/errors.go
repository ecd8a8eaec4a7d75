package shader

import (
	"fmt"
	"strings"

	"learngl/gpu"
)

// CompileError reports a shader stage that failed to compile. Log holds the
// driver's diagnostic output for the stage.
type CompileError struct {
	Stage gpu.ShaderStage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("shader compile error of type %s: %s", e.Stage, strings.TrimSpace(e.Log))
}

// LinkError reports a program that failed to link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("program linking error of type PROGRAM: %s", strings.TrimSpace(e.Log))
}

// SourceError reports a shader source file that could not be read.
type SourceError struct {
	Stage gpu.ShaderStage
	Path  string
	Err   error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("read %s shader %q: %v", e.Stage, e.Path, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }
