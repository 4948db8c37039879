package epg

import (
	"avsepg/internal/app/metrics"
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Generator 按配置的地区依次获取节目单并生成XMLTV文档
type Generator struct {
	fetcher   Fetcher
	locations []Location
	loc       *time.Location
	gen       GeneratorInfo
	lang      string

	now func() time.Time

	logger *zap.Logger
}

func NewGenerator(fetcher Fetcher, locations []Location, loc *time.Location, gen GeneratorInfo, lang string) (*Generator, error) {
	if fetcher == nil {
		return nil, errors.New("fetcher is nil")
	} else if loc == nil {
		return nil, ErrConfiguration
	}

	return &Generator{
		fetcher:   fetcher,
		locations: locations,
		loc:       loc,
		gen:       gen,
		lang:      lang,
		now:       time.Now,
		logger:    zap.L(),
	}, nil
}

// Result 一次生成的结果
type Result struct {
	Channels []Channel // 合并后的频道节目单
	EPG      *XmlEPG   // XMLTV文档
}

// Generate 执行一次完整的生成流程
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	start, end := Window(g.now(), g.loc)
	g.logger.Info("Start fetching live channels.",
		zap.Int64("startTime", start), zap.Int64("endTime", end), zap.Int("locations", len(g.locations)))

	// 按配置顺序依次请求，任一地区失败则整体失败
	results := make([][]Channel, 0, len(g.locations))
	for _, location := range g.locations {
		channels, err := g.fetcher.GetLiveChannels(ctx, location, start, end)
		if err != nil {
			return nil, err
		}

		g.logger.Sugar().Infof("Fetched %d channels for location %s.", len(channels), location.Location)
		results = append(results, channels)
	}

	channels := Aggregate(results)
	doc, err := Build(channels, g.loc, g.gen, g.lang)
	if err != nil {
		return nil, err
	}

	metrics.RecordGenerated(len(doc.Channels), len(doc.Programmes))
	g.logger.Sugar().Infof("XMLTV document built, channels: %d, programmes: %d.", len(doc.Channels), len(doc.Programmes))
	return &Result{
		Channels: channels,
		EPG:      doc,
	}, nil
}
