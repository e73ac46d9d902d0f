package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// SignalHandler cancels its context on the first SIGINT or SIGTERM.
type SignalHandler struct {
	ctx     context.Context
	cancel  context.CancelFunc
	sigChan chan os.Signal
	done    chan struct{}
	out     io.Writer
	once    sync.Once
}

func NewSignalHandler(ctx context.Context, out io.Writer) *SignalHandler {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	return &SignalHandler{
		ctx:     ctx,
		cancel:  cancel,
		sigChan: sigChan,
		done:    make(chan struct{}),
		out:     out,
	}
}

func (s *SignalHandler) Context() context.Context {
	return s.ctx
}

func (s *SignalHandler) Start() {
	go func() {
		select {
		case <-s.sigChan:
			fmt.Fprintln(s.out, "\nReceived shutdown signal...")
			s.cancel()
		case <-s.done:
		}
	}()
}

func (s *SignalHandler) Stop() {
	s.once.Do(func() {
		signal.Stop(s.sigChan)
		close(s.done)
		s.cancel()
	})
}
