package cmds

import (
	"avsepg/internal/app/router"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var (
	port     int
	schedule string
)

func NewServeCLI() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "启动HTTP服务，定时刷新节目单并提供EPG查询接口。",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				conf.Serve.Port = port
			}
			if cmd.Flags().Changed("schedule") {
				conf.Serve.Schedule = schedule
			}

			if conf.Serve.Port <= 0 {
				return fmt.Errorf("invalid port: %d", conf.Serve.Port)
			}

			// 创建HTTP服务
			r, err := router.NewEngine(cmd.Context(), conf)
			if err != nil {
				return err
			}
			srv := &http.Server{
				Addr:    fmt.Sprintf(":%d", conf.Serve.Port),
				Handler: r,
			}

			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			return serveHTTP(cmd.Context(), srv, ln)
		},
	}

	serveCmd.Flags().IntVarP(&port, "port", "p", 8080, "HTTP服务的监听端口。")
	serveCmd.Flags().StringVarP(&schedule, "schedule", "s", "@every 6h", "自动刷新节目单的cron表达式，e.g `@every 6h或0 */6 * * *`。")

	return serveCmd
}

// serveHTTP 启动HTTP服务，ctx结束时优雅关闭
func serveHTTP(ctx context.Context, srv *http.Server, ln net.Listener) error {
	// L()：获取全局logger
	logger := zap.L()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	logger.Info("The HTTP server has been started.", zap.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down the HTTP server.")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("The HTTP server has been stopped.")
	return nil
}
