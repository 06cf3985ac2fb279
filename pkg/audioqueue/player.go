package audioqueue

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/formcoach/go-formcoach/pkg/speech"
)

// ExecPlayer plays clips by piping the audio to an external command, one
// process per clip. The default command reads WAV from stdin.
type ExecPlayer struct {
	command string
	args    []string
}

// NewExecPlayer creates a player running the given playback command. With
// no command, "ffplay -autoexit -nodisp -loglevel quiet -" is used.
func NewExecPlayer(command string, args ...string) *ExecPlayer {
	if command == "" {
		command = "ffplay"
		args = []string{"-autoexit", "-nodisp", "-loglevel", "quiet", "-"}
	}
	return &ExecPlayer{command: command, args: args}
}

// Play blocks until the clip finishes or ctx is cancelled.
func (p *ExecPlayer) Play(ctx context.Context, clip *speech.Clip) error {
	if len(clip.Audio) == 0 {
		return nil
	}
	cmd := exec.CommandContext(ctx, p.command, p.args...)
	cmd.Stdin = bytes.NewReader(clip.Audio)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("audioqueue: %s: %w", p.command, err)
	}
	return nil
}
