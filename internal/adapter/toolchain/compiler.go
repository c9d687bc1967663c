package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/google/shlex"

	"gitlab.com/fcv-2025.net/executor/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/executor/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/executor/internal/domain"
	"gitlab.com/fcv-2025.net/executor/internal/static/errs"
)

const (
	sourcePlaceholder     = "{src}"
	executablePlaceholder = "{exe}"

	timedOutDiagnostic = "compilation timed out"
)

var _ secondary.Compiler = (*CommandCompiler)(nil)

// CommandCompiler runs an external toolchain described by a command template
// such as "g++ {src} -o {exe}"
type CommandCompiler struct {
	args    []string
	timeout time.Duration
	logger  primary.Logger
}

// NewCommandCompiler parses the template once; it must name a program and both placeholders
func NewCommandCompiler(template string, timeout time.Duration, logger primary.Logger) (*CommandCompiler, error) {
	args, err := shlex.Split(template)
	if err != nil {
		return nil, fmt.Errorf("failed to parse compile command %q: %w", template, err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("compile command is empty")
	}
	if !strings.Contains(template, sourcePlaceholder) || !strings.Contains(template, executablePlaceholder) {
		return nil, fmt.Errorf("compile command %q must reference %s and %s", template, sourcePlaceholder, executablePlaceholder)
	}
	return &CommandCompiler{
		args:    args,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Compile writes the source and invokes the toolchain. Any stderr output counts as failure,
// including warnings on a zero exit status.
func (c *CommandCompiler) Compile(ctx context.Context, code string, ws *domain.Workspace) (domain.CompilationOutcome, error) {
	if err := os.WriteFile(ws.SourcePath, []byte(code), 0o644); err != nil {
		return domain.CompilationOutcome{}, fmt.Errorf("%w: failed to write source: %w", errs.ErrInfrastructure, err)
	}

	compileCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		compileCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	argv := c.expand(ws)
	cmd := exec.CommandContext(compileCtx, argv[0], argv[1:]...)
	cmd.WaitDelay = time.Second
	killGroupOnCancel(cmd)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.logger.Debug("Invoking compiler", "workspaceId", ws.ID, "argv", argv)

	if err := cmd.Start(); err != nil {
		return domain.CompilationOutcome{}, fmt.Errorf("%w: failed to start compiler %s: %w", errs.ErrInfrastructure, argv[0], err)
	}
	waitErr := cmd.Wait()

	if ctx.Err() != nil {
		return domain.CompilationOutcome{}, fmt.Errorf("compilation aborted: %w", ctx.Err())
	}
	if errors.Is(compileCtx.Err(), context.DeadlineExceeded) {
		c.logger.Warn("Compiler timed out", "workspaceId", ws.ID, "timeout", c.timeout)
		return domain.CompilationOutcome{Success: false, Diagnostic: timedOutDiagnostic}, nil
	}

	if diagnostic := stderr.String(); diagnostic != "" {
		return domain.CompilationOutcome{Success: false, Diagnostic: diagnostic}, nil
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return domain.CompilationOutcome{}, fmt.Errorf("%w: failed to wait for compiler: %w", errs.ErrInfrastructure, waitErr)
		}
		// silent failure: surface whatever the toolchain printed on stdout
		diagnostic := strings.TrimSpace(stdout.String())
		if diagnostic == "" {
			diagnostic = fmt.Sprintf("compiler exited with status %d", exitErr.ExitCode())
		}
		return domain.CompilationOutcome{Success: false, Diagnostic: diagnostic}, nil
	}

	return domain.CompilationOutcome{Success: true}, nil
}

func (c *CommandCompiler) expand(ws *domain.Workspace) []string {
	replacer := strings.NewReplacer(sourcePlaceholder, ws.SourcePath, executablePlaceholder, ws.ExecutablePath)
	argv := make([]string, len(c.args))
	for i, arg := range c.args {
		argv[i] = replacer.Replace(arg)
	}
	return argv
}
