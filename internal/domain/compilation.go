package domain

// CompilationOutcome is the result of invoking the toolchain once
type CompilationOutcome struct {
	Success    bool
	Diagnostic string
}
