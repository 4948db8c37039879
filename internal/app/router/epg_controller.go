package router

import (
	"avsepg/internal/app/epg"
	"compress/gzip"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const xmltvGzipFilename = "epg.xml.gz"

var ErrNoEPG = errors.New("no EPG data available")

type generator interface {
	Generate(ctx context.Context) (*epg.Result, error)
}

// snapshot 缓存的最新节目单数据
type snapshot struct {
	channels []epg.Channel
	epg      *epg.XmlEPG
}

// EPGController 缓存节目单并提供查询接口
type EPGController struct {
	generator  generator
	outputFile string
	loc        *time.Location

	epgPtr atomic.Pointer[snapshot]

	logger *zap.Logger
}

func NewEPGController(g generator, outputFile string, loc *time.Location) *EPGController {
	return &EPGController{
		generator:  g,
		outputFile: outputFile,
		loc:        loc,
		logger:     zap.L(),
	}
}

// Refresh 重新生成节目单，成功后写入文件并更新缓存
func (e *EPGController) Refresh(ctx context.Context) error {
	result, err := e.generator.Generate(ctx)
	if err != nil {
		return err
	}

	if e.outputFile != "" {
		if err = epg.Write(result.EPG, e.outputFile); err != nil {
			return err
		}
	}

	e.epgPtr.Store(&snapshot{
		channels: result.Channels,
		epg:      result.EPG,
	})
	e.logger.Sugar().Infof("EPG data updated, channels: %d, programmes: %d.", len(result.EPG.Channels), len(result.EPG.Programmes))
	return nil
}

// ChannelDateJsonEPG 频道的JSON格式EPG
type ChannelDateJsonEPG struct {
	ChannelName string    `json:"channel_name"`
	Date        string    `json:"date"`
	EPGData     []JsonEPG `json:"epg_data"`
}

// JsonEPG JSON格式EPG
type JsonEPG struct {
	Title string `json:"title"` // 标题
	Desc  string `json:"desc"`  // 描述
	Start string `json:"start"` // 开始时间
	End   string `json:"end"`   // 结束时间
}

// GetJsonEPG 获取JSON格式的EPG
func (e *EPGController) GetJsonEPG(c *gin.Context) {
	// 获取频道名称
	chName := c.Query("ch")
	// 获取日期
	dateStr := c.DefaultQuery("date", time.Now().In(e.loc).Format("2006-01-02"))

	// 校验频道名称是否为空
	if chName == "" {
		e.logger.Warn("The name of the channel is null.")
		c.Status(http.StatusBadRequest)
		return
	}

	// 解析日期
	date, err := time.ParseInLocation("2006-01-02", dateStr, e.loc)
	if err != nil {
		e.logger.Error("Date format error", zap.Error(err))
		c.Status(http.StatusBadRequest)
		return
	}

	resp := ChannelDateJsonEPG{
		ChannelName: chName,
		Date:        dateStr,
		EPGData:     []JsonEPG{},
	}

	// 如果缓存的节目单为空则直接返回空数据
	snap := e.epgPtr.Load()
	if snap == nil {
		c.PureJSON(http.StatusOK, &resp)
		return
	}

	// 同名频道可能来自多个地区，全部查询
	nextDate := date.AddDate(0, 0, 1)
	for _, channel := range snap.channels {
		if channel.Name != chName {
			continue
		}
		for _, program := range channel.Schedules {
			if program.StartTime == nil || program.EndTime == nil {
				continue
			}
			start := time.Unix(*program.StartTime, 0).In(e.loc)
			if start.Before(date) || !start.Before(nextDate) {
				continue
			}
			end := time.Unix(*program.EndTime, 0).In(e.loc)
			resp.EPGData = append(resp.EPGData, JsonEPG{
				Title: epg.DeriveTitle(program.Title, program.EpisodeName),
				Desc:  program.Description,
				Start: start.Format("15:04"),
				End:   end.Format("15:04"),
			})
		}
	}

	c.PureJSON(http.StatusOK, &resp)
}

// GetXmlEPG 返回XMLTV格式的EPG
func (e *EPGController) GetXmlEPG(c *gin.Context) {
	snap := e.epgPtr.Load()
	if snap == nil {
		e.logger.Warn("EPG requested before the first refresh.", zap.Error(ErrNoEPG))
		c.Status(http.StatusServiceUnavailable)
		return
	}

	c.XML(http.StatusOK, snap.epg)
}

// GetXmlEPGWithGzip 返回gzip压缩的XMLTV格式的EPG
func (e *EPGController) GetXmlEPGWithGzip(c *gin.Context) {
	snap := e.epgPtr.Load()
	if snap == nil {
		e.logger.Warn("EPG requested before the first refresh.", zap.Error(ErrNoEPG))
		c.Status(http.StatusServiceUnavailable)
		return
	}

	// 将结构体数据转换为XML，并进行格式化
	xmlData, err := xml.MarshalIndent(snap.epg, "", "  ")
	if err != nil {
		e.logger.Error("Failed to marshal xml.", zap.Error(err))
		c.Status(http.StatusInternalServerError)
		return
	}

	// 设置HTTP头，通知浏览器这是一个二进制流文件
	c.Header("Content-Type", "application/octet-stream")                                       // 说明是二进制文件
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", xmltvGzipFilename)) // 指定下载文件名
	c.Status(http.StatusOK)

	// 创建一个gzip压缩的Writer，并将XML数据写入其中
	gzipWriter := gzip.NewWriter(c.Writer)
	defer gzipWriter.Close()

	// 写入xml头
	if _, err = gzipWriter.Write([]byte(xml.Header)); err != nil {
		e.logger.Error("Failed to write xml header.", zap.Error(err))
		return
	}

	// 写入xml内容
	if _, err = gzipWriter.Write(xmlData); err != nil {
		e.logger.Error("Failed to write xml data.", zap.Error(err))
		return
	}
}
