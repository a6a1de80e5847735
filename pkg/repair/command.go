package repair

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/brothertop/svgdiff/pkg/errors"
)

// CommandRepairer delegates viewBox regeneration to an external tool. The
// document is staged to a uniquely named temp file, the tool is invoked
// with that path appended to its arguments, and the rewritten file is read
// back. Staged files are removed when Repair returns, on the error path
// too.
type CommandRepairer struct {
	// Command is the tool to invoke, e.g. "inkscape".
	Command string

	// Args are passed before the staged file path, e.g.
	// ["--export-area-drawing", "--export-overwrite"].
	Args []string

	// Dir is where staged files are created. Defaults to the system temp
	// directory.
	Dir string
}

// Repair runs the external tool and returns the rewritten document.
func (r *CommandRepairer) Repair(ctx context.Context, svg string) (string, error) {
	dir := r.Dir
	if dir == "" {
		dir = os.TempDir()
	}

	// Unique name per invocation so concurrent pairs never collide.
	path := filepath.Join(dir, "svgdiff-repair-"+uuid.NewString()+".svg")
	if err := os.WriteFile(path, []byte(svg), 0600); err != nil {
		return "", errors.Wrap(errors.ErrCodeRepair, err, "stage document for repair")
	}
	defer os.Remove(path)

	args := append(append([]string{}, r.Args...), path)
	cmd := exec.CommandContext(ctx, r.Command, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", errors.Wrap(errors.ErrCodeRepair, err, "repair tool %s failed: %s", r.Command, out)
	}

	repaired, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeRepair, err, "read repaired document")
	}
	return string(repaired), nil
}
