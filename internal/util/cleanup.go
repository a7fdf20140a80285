package util

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// SetupInterruptHandler cancels the returned context on SIGINT/SIGTERM so the
// download loop can stop and flush what it has. A second signal exits at once.
// The returned stop func releases the signal handler and its goroutine.
func SetupInterruptHandler(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sig := make(chan os.Signal, 2)
	done := make(chan struct{})
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sig:
		case <-done:
			return
		case <-ctx.Done():
			return
		}
		fmt.Println("\nInterrupt received. Flushing output...")
		cancel()

		select {
		case <-sig:
			fmt.Println("\nExiting due to interrupt.")
			os.Exit(1)
		case <-done:
		}
	}()

	var once sync.Once
	return ctx, func() {
		once.Do(func() {
			signal.Stop(sig)
			close(done)
			cancel()
		})
	}
}

func RemoveIfEmpty(path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}

	if info.Size() == 0 {
		if err := os.Remove(path); err == nil {
			fmt.Printf("Removed empty output file: %s\n", path)
		}
	}
}
