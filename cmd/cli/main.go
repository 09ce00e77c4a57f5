package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/fakhrymubarak/ac-temp-advisor/internal/config"
	"github.com/fakhrymubarak/ac-temp-advisor/internal/console"
	"github.com/fakhrymubarak/ac-temp-advisor/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := console.Run(ctx, os.Stdin, os.Stdout, service.NewCalculatorService(nil, nil))
	stop()
	_ = config.GetLogger().Sync()
	os.Exit(code)
}
