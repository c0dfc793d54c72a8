// Package build turns the generated C sources into a native
// executable by driving the configured C compiler.
package build

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/tapl-lang/tapl/internal/config"
	"github.com/tapl-lang/tapl/internal/diag"
)

// Args returns the compiler argument list for compiling mainFile into
// out. The build folder is on the include path so the generated
// <tapl_headers/...> includes resolve.
func Args(cfg config.Build, mainFile, out string) []string {
	args := []string{"-I", cfg.Folder, "-o", out, mainFile}
	return append(args, cfg.Flags...)
}

// Compile builds mainFile into the configured executable and returns
// its path. The compiler writes into a uniquely named staging file
// first; the result is moved into place only when the compiler
// succeeds, so a failed build never leaves a half-written executable
// behind.
func Compile(ctx context.Context, cfg config.Build, mainFile string) (string, error) {
	compiler, err := exec.LookPath(cfg.Compiler)
	if err != nil {
		return "", &diag.Diagnostic{
			Stage:    diag.StageBuild,
			Severity: diag.SeverityError,
			Code:     diag.CodeBuildCompilerMissing,
			Message:  fmt.Sprintf("C compiler %q not found", cfg.Compiler),
		}
	}

	out := filepath.Join(cfg.Folder, cfg.Output)
	staged := filepath.Join(cfg.Folder, ".stage-"+uuid.NewString())

	cmd := exec.CommandContext(ctx, compiler, Args(cfg, mainFile, staged)...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		os.Remove(staged)
		d := &diag.Diagnostic{
			Stage:    diag.StageBuild,
			Severity: diag.SeverityError,
			Code:     diag.CodeBuildCompilerFailed,
			Message:  fmt.Sprintf("%s failed: %v", cfg.Compiler, err),
		}
		for _, line := range strings.Split(strings.TrimSpace(string(output)), "\n") {
			if line != "" {
				d.Notes = append(d.Notes, line)
			}
		}
		return "", d
	}

	if err := os.Rename(staged, out); err != nil {
		os.Remove(staged)
		return "", fmt.Errorf("installing executable: %w", err)
	}

	return out, nil
}
