package main

import (
	"context"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"

	"github.com/wplibs/nodata/internal/cli"
	"github.com/wplibs/nodata/pkg/version"
)

func main() {
	info := version.Get()

	err := fang.Execute(context.Background(), cli.NewRootCmd(),
		fang.WithVersion(info.Short()),
		fang.WithCommit(info.Revision),
		fang.WithErrorHandler(cli.ErrorHandler),
		fang.WithColorSchemeFunc(cli.ColorSchemeFunc),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	)
	if err != nil {
		os.Exit(1)
	}
}
