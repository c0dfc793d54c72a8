// Package diag defines the diagnostics the compiler surfaces to users
// and the internal-fault reports it raises when an upstream phase
// breaks an invariant.
package diag

import "fmt"

// Stage identifies which compiler phase produced the diagnostic.
type Stage string

const (
	StageTypeCheck Stage = "typecheck"
	StageCodegen   Stage = "codegen"
	StageBuild     Stage = "build"
)

// Severity captures how impactful the diagnostic is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
)

// Code is a stable identifier for a diagnostic.
type Code string

const (
	// Codegen faults. These indicate an upstream invariant violation
	// (the type checker handed lowering something it promised never
	// to), so they render as internal compiler errors rather than
	// user-facing source diagnostics.
	CodeGenUnresolvedElementType Code = "CODEGEN_UNRESOLVED_ELEMENT_TYPE"
	CodeGenUnsupportedType       Code = "CODEGEN_UNSUPPORTED_TYPE"

	// Build errors
	CodeBuildCompilerFailed  Code = "BUILD_COMPILER_FAILED"
	CodeBuildCompilerMissing Code = "BUILD_COMPILER_MISSING"
)

// Span represents a location in source code.
type Span struct {
	Filename string
	Line     int
	Column   int
}

// String returns a human-readable representation of the span.
func (s Span) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsValid returns true if the span has valid location information.
func (s Span) IsValid() bool {
	return s.Line > 0 && s.Column > 0
}

// Diagnostic is a compiler diagnostic.
type Diagnostic struct {
	Stage    Stage
	Severity Severity
	Code     Code
	Message  string
	Span     Span
	Notes    []string

	// Internal marks the diagnostic as an internal compiler fault:
	// not a defect in the user's program but in the compiler's own
	// phase contracts.
	Internal bool
}

// Error makes Diagnostic usable as an error value on phase boundaries.
func (d *Diagnostic) Error() string {
	if d.Span.IsValid() {
		return fmt.Sprintf("%s: %s: %s", d.Span, d.Severity, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Severity, d.Message)
}

// ICE constructs an internal-compiler-fault diagnostic for the given
// stage. The message should name the violated invariant.
func ICE(stage Stage, code Code, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Stage:    stage,
		Severity: SeverityError,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Internal: true,
	}
}
