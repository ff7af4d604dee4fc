package bin

import (
	"context"
	"os/exec"

	"switch-collector/pkg/logger"
)

// RunCommand runs filename from PATH and returns its combined output.
// Arguments are not logged since they may carry credentials.
func RunCommand(ctx context.Context, filename string, args ...string) ([]byte, error) {
	logger.Debug().Str("cmd", filename).Int("args", len(args)).Msg("exec")
	cmd := exec.CommandContext(ctx, filename, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return out, err
	}

	return out, nil
}
