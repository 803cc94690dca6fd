package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

//NewContext returns a context which gets cancelled on SIGINT or SIGTERM
func NewContext() context.Context {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-c
		cancel()
	}()
	return ctx
}
