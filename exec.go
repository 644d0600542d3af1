package gaucho

import (
	"context"
	"os/exec"
	"strings"

	"github.com/daanasma/Cuchillo-de-Gaucho/log"

	"go.uber.org/zap"
)

// RunSubprocess executes argv and waits for it. Failures are logged AND
// returned: callers must be able to tell a failed conversion from a
// silent one. Stderr of the child ends up in the error.
func (g *GdalToolbox) RunSubprocess(ctx context.Context, argv []string) (err error) {
	if len(argv) == 0 {
		err = ErrEmptyArgv
		return
	}
	log.Info(g.logTag+"start running subprocess", zap.Strings("argv", argv))
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err = cmd.Run(); err != nil {
		g.metrics.addSubprocess("error")
		log.Error(g.logTag+"error in running subprocess",
			zap.Strings("argv", argv), zap.String("stderr", strings.TrimSpace(stderr.String())), zap.Error(err))
		return &SubprocessError{Argv: argv, Stderr: strings.TrimSpace(stderr.String()), Err: err}
	}
	g.metrics.addSubprocess("ok")
	log.Info(g.logTag + "finished running subprocess")
	return
}

// SubprocessError wraps a non-zero exit of the external conversion tool.
type SubprocessError struct {
	Argv   []string
	Stderr string
	Err    error
}

func (e *SubprocessError) Error() string {
	msg := "subprocess " + e.Argv[0] + " failed: " + e.Err.Error()
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *SubprocessError) Unwrap() error {
	return e.Err
}
