// Package supervisor spawns child processes, multiplexes their stdout/
// stderr into structured events and raw lines, pumps prompt responses
// into stdin, and enforces the executable allow-list (spec §4.4).
package supervisor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/yggdrasil-au/remake-operator/pkg/events"
	"github.com/yggdrasil-au/remake-operator/pkg/sdk/pathpolicy"
)

// queueCapacity is the bounded queue capacity between the two stream
// readers and the supervisor's consuming main loop (spec §4.4, §5).
const queueCapacity = 1000

const pollInterval = 100 * time.Millisecond

// Options configures a single Run invocation.
type Options struct {
	Argv          []string
	Dir           string
	Env           map[string]string // overrides injected on top of the parent environment
	EventSink     events.EventSink
	OutputSink    events.OutputSink
	StdinProvider events.StdinProvider
}

type lineMsg struct {
	stream string // "stdout" | "stderr"
	line   string
}

// Supervisor executes resolved argv under the shared executable allow-list.
type Supervisor struct {
	policy *pathpolicy.Policy
}

func New(policy *pathpolicy.Policy) *Supervisor {
	return &Supervisor{policy: policy}
}

// Run spawns opts.Argv[0] with the remaining elements as arguments,
// streaming output/events through opts' sinks, and returns success (exit
// code 0). It emits exactly one "end" event for every child it actually
// starts (spec §8 "at-least-one end"); a child rejected by the allow-list
// is never started and emits no "end" event (spec §8 scenario 3).
func (s *Supervisor) Run(ctx context.Context, opts Options) bool {
	if len(opts.Argv) == 0 {
		s.emitError(opts, "Exception", "empty argv")
		return false
	}

	if ok, reason := s.policy.AllowedExecutable(opts.Argv[0]); !ok {
		opts.OutputSink(reason, "stderr")
		return false
	}

	cmd := exec.Command(opts.Argv[0], opts.Argv[1:]...)
	cmd.Dir = opts.Dir
	cmd.Env = buildEnv(opts.Env)
	setProcessGroup(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		s.emitError(opts, "Exception", err.Error())
		return false
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		s.emitError(opts, "Exception", err.Error())
		return false
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		s.emitError(opts, "Exception", err.Error())
		return false
	}

	if err := cmd.Start(); err != nil {
		if os.IsNotExist(err) {
			s.emitError(opts, "FileNotFoundError", err.Error())
		} else {
			s.emitError(opts, "Exception", err.Error())
		}
		return false
	}

	queue := make(chan lineMsg, queueCapacity)
	done := make(chan struct{}, 2)
	go pumpLines(stdout, "stdout", queue, done)
	go pumpLines(stderr, "stderr", queue, done)

	waitErr := make(chan error, 1)
	go func() { waitErr <- cmd.Wait() }()

	readersDone := 0
	for {
		select {
		case <-ctx.Done():
			killTree(cmd)
			drainRemaining(queue, readersDone, opts)
			<-waitErr
			emitEnd(opts, false, 130)
			return false

		case <-done:
			readersDone++
			if readersDone == 2 {
				done = nil // stop selecting on it again
			}

		case msg := <-queue:
			s.handleLine(ctx, opts, stdin, msg)

		case err := <-waitErr:
			drainRemaining(queue, readersDone, opts)
			rc := exitCode(err)
			emitEnd(opts, rc == 0, rc)
			return rc == 0

		case <-time.After(pollInterval):
			// wake periodically even with no traffic, matching the
			// supervisor's 100ms poll suspension point (spec §5)
		}
	}
}

func (s *Supervisor) handleLine(ctx context.Context, opts Options, stdin io.WriteCloser, msg lineMsg) {
	if ev, ok := events.Decode(msg.line); ok {
		if opts.EventSink != nil {
			opts.EventSink(ev)
		}
		if ev.Tag == events.TagPrompt && opts.StdinProvider != nil {
			if answer, provided := opts.StdinProvider(); provided {
				_, _ = io.WriteString(stdin, answer+"\n")
			}
		}
		return
	}
	if opts.OutputSink != nil {
		opts.OutputSink(msg.line, msg.stream)
	}
}

func pumpLines(r io.ReadCloser, stream string, queue chan<- lineMsg, done chan<- struct{}) {
	defer func() { done <- struct{}{} }()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		queue <- lineMsg{stream: stream, line: scanner.Text()}
	}
}

func drainRemaining(queue <-chan lineMsg, readersDone int, opts Options) {
	for {
		select {
		case msg := <-queue:
			if ev, ok := events.Decode(msg.line); ok {
				if opts.EventSink != nil {
					opts.EventSink(ev)
				}
			} else if opts.OutputSink != nil {
				opts.OutputSink(msg.line, msg.stream)
			}
		default:
			return
		}
	}
}

func emitEnd(opts Options, success bool, exitCode int) {
	if opts.EventSink == nil {
		return
	}
	ev := events.New(events.TagEnd).WithBool("success", success).WithInt("exit_code", int64(exitCode))
	opts.EventSink(ev)
}

func (s *Supervisor) emitError(opts Options, kind, message string) {
	if opts.EventSink == nil {
		return
	}
	ev := events.New(events.TagError).WithString("kind", kind).WithString("message", message)
	opts.EventSink(ev)
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if asExitError(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}

func asExitError(err error, target **exec.ExitError) bool {
	if ee, ok := err.(*exec.ExitError); ok {
		*target = ee
		return true
	}
	return false
}

func buildEnv(overrides map[string]string) []string {
	env := os.Environ()
	env = append(env, "TERM=dumb")
	for k, v := range overrides {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	return env
}

func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func killTree(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
}
