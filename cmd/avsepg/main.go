package main

import (
	"avsepg/cmd/avsepg/cmds"
	"context"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 收到第一个信号后恢复默认的信号处理，再次发送信号可强制退出
	go func() {
		<-ctx.Done()
		stop()
	}()

	cobra.CheckErr(cmds.NewRootCLI().ExecuteContext(ctx))
}
