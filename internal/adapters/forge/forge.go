package forge

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/creack/pty"

	"github.com/smolder-dev/smolder/internal/domain"
	"github.com/smolder-dev/smolder/internal/usecase"
)

// ForgeAdapter handles Forge command execution with streaming output
type ForgeAdapter struct {
	log         *slog.Logger
	projectRoot string
	binary      string
	stdout      io.Writer
}

// NewForgeAdapter creates a new forge executor
func NewForgeAdapter(projectRoot string, log *slog.Logger) *ForgeAdapter {
	return &ForgeAdapter{
		log:         log.With("component", "ForgeAdapter"),
		projectRoot: projectRoot,
		binary:      "forge",
		stdout:      os.Stdout,
	}
}

// Build runs forge build
func (f *ForgeAdapter) Build(ctx context.Context) error {
	start := time.Now()
	f.log.Debug("running forge build", "dir", f.projectRoot)

	cmd := exec.CommandContext(ctx, f.binary, "build")
	cmd.Dir = f.projectRoot

	output, err := cmd.CombinedOutput()
	duration := time.Since(start)

	if err != nil {
		f.log.Error("forge build failed", "error", err, "output", string(output), "duration", duration)
		return domain.WrapError(domain.KindIO, err, "forge build failed\nOutput: %s", string(output))
	}

	f.log.Debug("forge build completed successfully", "duration", duration)
	return nil
}

// RunScript executes a Foundry script. Output is captured from a pty so forge keeps its colors;
// in debug mode it is also streamed to stdout as it arrives.
func (f *ForgeAdapter) RunScript(ctx context.Context, config usecase.RunScriptConfig) (*usecase.ScriptResult, error) {
	if config.Network == nil {
		return nil, domain.InvalidParameter("network", "a network is required to run a script")
	}

	args := f.buildArgs(config)
	env := f.buildEnv(config)

	f.log.Debug("running forge script", "args", args, "env", env)

	cmd := exec.CommandContext(ctx, f.binary, args...)
	cmd.Dir = f.projectRoot
	cmd.Env = append(os.Environ(), env...)

	// Start with PTY for proper color handling
	ptyFile, err := pty.Start(cmd)
	if err != nil {
		return nil, domain.WrapError(domain.KindIO, err, "failed to start forge")
	}
	defer func() {
		_ = ptyFile.Close()
	}()

	var output bytes.Buffer
	var sink io.Writer = &output
	if config.Debug {
		sink = io.MultiWriter(&output, f.stdout)
	}
	// reading a pty returns EIO once the child exits
	_, _ = io.Copy(sink, ptyFile)

	result := &usecase.ScriptResult{Success: true}
	if err := cmd.Wait(); err != nil {
		f.log.Debug("forge script failed", "error", err)
		result.Success = false
	}
	result.Output = output.Bytes()

	return result, nil
}

// buildArgs builds the forge script command arguments
func (f *ForgeAdapter) buildArgs(config usecase.RunScriptConfig) []string {
	args := []string{"script", config.Script, "--rpc-url", config.Network.RPCURL}

	if config.Broadcast {
		args = append(args, "--broadcast")
	}
	if config.Debug {
		args = append(args, "-vvvv")
	}

	return args
}

// buildEnv builds environment variable array
func (f *ForgeAdapter) buildEnv(config usecase.RunScriptConfig) []string {
	return []string{
		fmt.Sprintf("NETWORK=%s", config.Network.Name),
		fmt.Sprintf("CHAIN_ID=%d", config.Network.ChainID),
	}
}
