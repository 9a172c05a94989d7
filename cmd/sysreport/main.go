package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	apperrors "github.com/syslens/sysreport/internal/common/errors"
)

// 构建时通过 ldflags 覆盖
var version = "dev"

func main() {
	// Ctrl-C 取消正在进行的采集
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := newApp(os.Stdout, os.Stderr)
	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(apperrors.ExitCode(err))
	}
}
