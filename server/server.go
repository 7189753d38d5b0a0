package server

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/intellikit/intellikit/backend"
	"github.com/intellikit/intellikit/logging"
	"github.com/intellikit/intellikit/protocol"
	"github.com/intellikit/intellikit/session"
)

// Options configures a Server.
type Options struct {
	// Input is the command stream. Defaults to os.Stdin.
	Input io.Reader
	// Output is the response stream. Defaults to os.Stdout. Nothing but
	// response envelopes is ever written to it.
	Output io.Writer
	// Backend is the generation capability. Defaults to a MockBackend so
	// the sidecar runs without credentials.
	Backend backend.Backend
	// Logger receives all diagnostics. Defaults to a no-op logger.
	Logger logging.Logger
	// IdleTimeout is the session inactivity threshold for eviction.
	IdleTimeout time.Duration
	// SweepInterval is how often the idle sweep scans the session table.
	SweepInterval time.Duration
	// MaxContentChars caps message content length; <= 0 disables the cap.
	MaxContentChars int
}

// Server is the sidecar's request loop: it reads one command line at a
// time, dispatches it, and writes exactly one response line, in order.
type Server struct {
	framer   *protocol.Framer
	exec     *Executor
	sessions *session.Manager
	logger   logging.Logger
}

// New creates a Server with the given options.
func New(optFns ...func(o *Options)) *Server {
	opts := Options{
		Input:           os.Stdin,
		Output:          os.Stdout,
		IdleTimeout:     session.DefaultIdleTimeout,
		SweepInterval:   session.DefaultSweepInterval,
		MaxContentChars: DefaultMaxContentChars,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Backend == nil {
		opts.Backend = backend.NewMockBackend()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	sessions := session.NewManager(opts.Backend, func(o *session.Options) {
		o.IdleTimeout = opts.IdleTimeout
		o.SweepInterval = opts.SweepInterval
		o.Logger = opts.Logger
	})

	return &Server{
		framer:   protocol.NewFramer(opts.Input, opts.Output),
		exec:     NewExecutor(opts.Backend, sessions, opts.Logger, opts.MaxContentChars),
		sessions: sessions,
		logger:   opts.Logger,
	}
}

// Run processes commands until a shutdown command, end of input, or
// context cancellation. All three paths close every live session before
// returning. The returned error is nil for every orderly stop; only an
// unusable input or output stream surfaces as an error.
func (s *Server) Run(ctx context.Context) error {
	sweepCtx, cancelSweep := context.WithCancel(ctx)
	defer cancelSweep()
	go s.sessions.Run(sweepCtx)

	s.logger.Info("sidecar ready")

	// Reading happens on its own goroutine so the loop can react to
	// cancellation while blocked on input.
	lines := make(chan []byte)
	readErr := make(chan error, 1)
	go func() {
		for {
			line, err := s.framer.ReadLine()
			if err != nil {
				readErr <- err
				return
			}
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			n := s.sessions.CloseAll()
			s.logger.Info("stopping on cancellation", "sessions_closed", n)
			return nil
		case err := <-readErr:
			n := s.sessions.CloseAll()
			if errors.Is(err, io.EOF) {
				s.logger.Info("input closed, stopping", "sessions_closed", n)
				return nil
			}
			s.logger.Error("input read failed", "error", err)
			return err
		case line := <-lines:
			stop, err := s.process(ctx, line)
			if err != nil {
				return err
			}
			if stop {
				return nil
			}
		}
	}
}

// process parses and dispatches one line, then writes its response. The
// shutdown response is flushed before stop is reported, so the parent
// always sees the acknowledgement.
func (s *Server) process(ctx context.Context, line []byte) (bool, error) {
	cmd, perr := protocol.Parse(line)
	if perr != nil {
		s.logger.Warn("rejected command line", "error_code", string(perr.Code), "error", perr.Error())
		if err := s.framer.WriteResponse(protocol.Failure(perr.Code)); err != nil {
			return false, err
		}
		return false, nil
	}

	resp, stop := s.exec.Dispatch(ctx, cmd)
	if err := s.framer.WriteResponse(resp); err != nil {
		return false, err
	}
	return stop, nil
}
