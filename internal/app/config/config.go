package config

import (
	"avsepg/internal/app/epg"
	"avsepg/internal/app/epg/avs"
	"avsepg/internal/pkg/logging"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const defaultLang = "pt"

type ServeConfig struct {
	Port     int    `json:"port" yaml:"port"`         // HTTP服务的监听端口
	Schedule string `json:"schedule" yaml:"schedule"` // 自动刷新节目单的cron表达式，例如：@every 6h
}

type Config struct {
	Locations  []epg.Location    `json:"locations" yaml:"locations"`   // 必填，按顺序请求的地区及频道过滤条件
	Timezone   string            `json:"timezone" yaml:"timezone"`     // 必填，计算时间段和格式化节目时间使用的时区
	OutputFile string            `json:"outputFile" yaml:"outputFile"` // 生成的XMLTV文件路径
	Lang       string            `json:"lang" yaml:"lang"`             // 频道名称、节目名称的lang属性
	Generator  epg.GeneratorInfo `json:"generator" yaml:"generator"`   // XMLTV的生成者信息

	API   *avs.Config        `json:"api" yaml:"api"`     // 节目单接口相关设置
	Serve ServeConfig        `json:"serve" yaml:"serve"` // HTTP服务相关设置
	Log   *logging.LogConfig `json:"log" yaml:"log"`     // 日志相关设置

	Loc *time.Location `json:"-" yaml:"-"` // Validate()时进行填充
}

func (c *Config) Validate() error {
	// 时区必须能够解析，否则不发起任何请求
	loc, err := epg.LoadLocation(c.Timezone)
	if err != nil {
		return err
	}
	c.Loc = loc

	if len(c.Locations) == 0 {
		return fmt.Errorf("%w: no locations configured", epg.ErrConfiguration)
	}
	for i, location := range c.Locations {
		if location.Location == "" {
			return fmt.Errorf("%w: location #%d is empty", epg.ErrConfiguration, i)
		}
	}

	if c.OutputFile == "" {
		return fmt.Errorf("%w: outputFile is empty", epg.ErrConfiguration)
	} else if c.Generator.Name == "" {
		return fmt.Errorf("%w: generator name is empty", epg.ErrConfiguration)
	}

	if c.API == nil {
		return fmt.Errorf("%w: api config is missing", epg.ErrConfiguration)
	} else if err = c.API.Validate(); err != nil {
		return errors.Join(epg.ErrConfiguration, err)
	}

	if c.Lang == "" {
		c.Lang = defaultLang
	}

	if c.Serve.Schedule != "" {
		if _, err = cron.ParseStandard(c.Serve.Schedule); err != nil {
			return fmt.Errorf("%w: invalid schedule %q: %v", epg.ErrConfiguration, c.Serve.Schedule, err)
		}
	}

	return nil
}

func Load(fPath string) (*Config, error) {
	// 读取配置文件
	data, err := os.ReadFile(fPath)
	if err != nil {
		return nil, err
	}
	var config Config
	if err = yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Default 缺省配置
func Default() *Config {
	return &Config{
		Locations: []epg.Location{
			{Location: "SAO PAULO,SAO PAULO"},
			{Location: "RECIFE,PERNAMBUCO", ChannelIDs: "128,463,378,403,418"},
			{Location: "CARUARU,PERNAMBUCO", ChannelIDs: "191"},
			{Location: "JOAO PESSOA,PARAIBA", ChannelIDs: "196"},
			{Location: "CAMPINA GRANDE,PARAIBA", ChannelIDs: "190"},
			{Location: "RIBEIRAO PRETO,SAO PAULO", ChannelIDs: "221,459"},
			{Location: "FORTALEZA,CEARA", ChannelIDs: "203,356,359"},
		},
		Timezone:   "America/Recife",
		OutputFile: "epg.xml",
		Lang:       defaultLang,
		Generator: epg.GeneratorInfo{
			Name: "Neto Souza",
			URL:  "http://netosouza.net",
		},
		API: &avs.Config{
			BaseURL:    "https://www.clarotvmais.com.br",
			ClientType: "ANDROIDTV",
			Timeout:    30 * time.Second,
		},
		Serve: ServeConfig{
			Port:     8080,
			Schedule: "@every 6h",
		},
		Log: &logging.LogConfig{
			Level:      zapcore.InfoLevel,
			FileName:   "logs/avsepg.log",
			MaxSize:    10,
			MaxAge:     7,
			MaxBackups: 3,
			IsStdout:   true,
		},
	}
}

func CreateDefaultCfg(fPath string) error {
	// 写入默认配置
	f, err := os.Create(fPath)
	if err != nil {
		return err
	}
	defer f.Close()

	// 创建编码器
	encoder := yaml.NewEncoder(f)
	encoder.SetIndent(2)
	defer encoder.Close()

	return encoder.Encode(Default())
}
