package sdk

import (
	"context"
	"strings"
	"time"

	"github.com/yggdrasil-au/remake-operator/pkg/supervisor"
)

// ProcessOptions mirrors run_process's option bag (spec §4.5).
type ProcessOptions struct {
	Cwd            string
	Env            map[string]string
	CaptureStdout  bool
	CaptureStderr  bool
	TimeoutMillis  int
}

// ProcessResult mirrors run_process's return shape.
type ProcessResult struct {
	ExitCode int
	Success  bool
	Stdout   string
	Stderr   string
}

// RunProcess re-enters the Process Supervisor so embedded scripts share
// the same allow-list and event-multiplexing path as external operations
// (spec §4.5 "Subject to the same executable allow-list as §4.4").
func (s *SDK) RunProcess(argv []string, opts ProcessOptions) ProcessResult {
	var stdout, stderr strings.Builder

	ctx := context.Background()
	var cancel context.CancelFunc
	if opts.TimeoutMillis > 0 {
		ctx, cancel = context.WithTimeout(ctx, time.Duration(opts.TimeoutMillis)*time.Millisecond)
		defer cancel()
	}

	output := func(line, stream string) {
		if opts.CaptureStdout && stream == "stdout" {
			stdout.WriteString(line)
			stdout.WriteString("\n")
		}
		if opts.CaptureStderr && stream == "stderr" {
			stderr.WriteString(line)
			stderr.WriteString("\n")
		}
		if s.Output != nil {
			s.Output(line, stream)
		}
	}

	var exitCode int
	success := s.Supervisor.Run(ctx, supervisor.Options{
		Argv:       argv,
		Dir:        opts.Cwd,
		Env:        opts.Env,
		EventSink:  s.Emit,
		OutputSink: output,
	})
	if success {
		exitCode = 0
	} else {
		exitCode = 1
	}

	result := ProcessResult{ExitCode: exitCode, Success: success}
	if opts.CaptureStdout {
		result.Stdout = stdout.String()
	}
	if opts.CaptureStderr {
		result.Stderr = stderr.String()
	}
	return result
}
