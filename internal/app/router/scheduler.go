package router

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Schedule 定时调度更新缓存数据
func Schedule(ctx context.Context, controller *EPGController, schedule string, loc *time.Location) (*cron.Cron, error) {
	logger := zap.L()

	// 创建定时任务
	c := cron.New(cron.WithLocation(loc))
	_, err := c.AddJob(schedule, jobChain(logger).Then(cron.FuncJob(func() {
		logger.Info("Start executing the scheduling task.")

		// 更新节目单数据，失败时保留之前的缓存
		if err := controller.Refresh(ctx); err != nil {
			logger.Error("Failed to update EPG.", zap.Error(err))
			return
		}

		logger.Info("The scheduling task has been completed.")
	})))
	if err != nil {
		return nil, err
	}
	c.Start()

	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
		logger.Info("The scheduling task has been stopped.")
	}()

	logger.Info("The scheduling task has been started.", zap.String("schedule", schedule), zap.String("timezone", loc.String()))
	return c, nil
}

// jobChain 上一次刷新未完成时跳过本次执行
func jobChain(logger *zap.Logger) cron.Chain {
	return cron.NewChain(cron.SkipIfStillRunning(cron.PrintfLogger(zap.NewStdLog(logger))))
}
