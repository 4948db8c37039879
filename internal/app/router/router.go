package router

import (
	"avsepg/internal/app/config"
	"avsepg/internal/app/epg"
	"avsepg/internal/app/epg/avs"
	"context"
	"net/http"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func NewEngine(ctx context.Context, conf *config.Config) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	// 创建节目单生成器
	generator, err := newGenerator(conf)
	if err != nil {
		return nil, err
	}

	controller := NewEPGController(generator, conf.OutputFile, conf.Loc)

	// 执行初始化操作，首次生成失败则无法启动服务
	if err = controller.Refresh(ctx); err != nil {
		return nil, err
	}

	// 执行定时任务
	if conf.Serve.Schedule != "" {
		if _, err = Schedule(ctx, controller, conf.Serve.Schedule, conf.Loc); err != nil {
			return nil, err
		}
	}

	return newEngine(controller), nil
}

func newEngine(controller *EPGController) *gin.Engine {
	// L()：获取全局logger
	logger := zap.L()

	// 创建 Gin 路由引擎
	r := gin.New()

	// 日志记录
	r.Use(ginzap.Ginzap(logger, "", false))
	r.Use(ginzap.RecoveryWithZap(logger, true))

	// 查询EPG-json格式
	r.GET("/epg/json", controller.GetJsonEPG)
	// 查询EPG-xml格式
	r.GET("/epg/xml", controller.GetXmlEPG)
	r.GET("/epg/xml.gz", controller.GetXmlEPGWithGzip)

	// Prometheus指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

// newGenerator 读取配置文件并创建节目单生成器
func newGenerator(conf *config.Config) (*epg.Generator, error) {
	// 校验配置文件
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	// 创建接口客户端
	client, err := avs.NewClient(&http.Client{
		Timeout: conf.API.Timeout,
	}, conf.API)
	if err != nil {
		return nil, err
	}

	return epg.NewGenerator(client, conf.Locations, conf.Loc, conf.Generator, conf.Lang)
}
