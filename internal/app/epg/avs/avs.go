package avs

import (
	"avsepg/internal/app/epg"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	liveChannelsPath  = "/avsclient/1.2/epg/livechannels"
	defaultClientType = "ANDROIDTV"
	defaultTimeout    = 30 * time.Second
)

type Client struct {
	httpClient *http.Client      // HTTP客户端
	config     *Config           // 接口相关配置
	baseURL    string            // 接口的服务器地址
	headers    map[string]string // 自定义HTTP请求头

	limiter *rate.Limiter // 请求限速，未配置时不限速

	logger *zap.Logger // 日志
}

var _ epg.Fetcher = (*Client)(nil)

func NewClient(httpClient *http.Client, config *Config) (*Client, error) {
	// config不能为空
	if config == nil {
		return nil, fmt.Errorf("client config is nil")
	} else if err := config.Validate(); err != nil { // 校验config配置
		return nil, err
	}

	limit := rate.Inf
	if config.RequestsPerSecond > 0 {
		limit = rate.Limit(config.RequestsPerSecond)
	}

	c := Client{
		httpClient: httpClient,
		config:     config,
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		headers:    config.Headers,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     zap.L(),
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Timeout: config.Timeout,
		}
	}
	// 单次请求必须有超时时间
	if c.httpClient.Timeout <= 0 {
		c.httpClient.Timeout = defaultTimeout
	}
	return &c, nil
}

func (c *Client) clientType() string {
	if c.config.ClientType != "" {
		return c.config.ClientType
	}
	return defaultClientType
}

func (c *Client) setCommonHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	// 设置自定义HTTP请求头
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
}
