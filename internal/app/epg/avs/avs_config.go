package avs

import (
	"errors"
	"time"
)

type Config struct {
	BaseURL           string            `json:"baseURL" yaml:"baseURL"`                                         // 接口的服务器地址，例如：https://www.clarotvmais.com.br
	ClientType        string            `json:"clientType,omitempty" yaml:"clientType,omitempty"`               // 请求参数channel的值，缺省为ANDROIDTV
	Timeout           time.Duration     `json:"timeout,omitempty" yaml:"timeout,omitempty"`                     // 单次请求的超时时间
	RequestsPerSecond float64           `json:"requestsPerSecond,omitempty" yaml:"requestsPerSecond,omitempty"` // 每秒最多请求次数，0表示不限制
	Headers           map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`                     // 自定义HTTP请求头
}

func (c *Config) Validate() error {
	// 校验config配置
	if c.BaseURL == "" {
		return errors.New("invalid AVS client config: baseURL is empty")
	} else if c.Timeout < 0 || c.RequestsPerSecond < 0 {
		return errors.New("invalid AVS client config: negative timeout or rate")
	}

	return nil
}
