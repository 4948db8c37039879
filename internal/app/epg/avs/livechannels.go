package avs

import (
	"avsepg/internal/app/epg"
	"avsepg/internal/app/metrics"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// liveChannelsResponse 接口响应：{"response":{"liveChannels":[...]}}
type liveChannelsResponse struct {
	Response json.RawMessage `json:"response"`
}

type liveChannelsBody struct {
	LiveChannels json.RawMessage `json:"liveChannels"`
}

// GetLiveChannels 获取指定地区的频道节目单
func (c *Client) GetLiveChannels(ctx context.Context, loc epg.Location, start, end int64) ([]epg.Channel, error) {
	begin := time.Now()
	channels, err := c.getLiveChannels(ctx, loc, start, end)
	switch {
	case errors.Is(err, epg.ErrData):
		metrics.RecordFetch(metrics.ResultError, time.Since(begin))
		return nil, fmt.Errorf("location %s: %w", loc.Location, err)
	case err != nil:
		metrics.RecordFetch(metrics.ResultError, time.Since(begin))
		return nil, fmt.Errorf("%w: location %s: %w", epg.ErrFetch, loc.Location, err)
	case channels == nil:
		metrics.RecordFetch(metrics.ResultMalformed, time.Since(begin))
		return []epg.Channel{}, nil
	default:
		metrics.RecordFetch(metrics.ResultSuccess, time.Since(begin))
		return channels, nil
	}
}

// getLiveChannels 返回nil切片表示响应格式不正确
func (c *Client) getLiveChannels(ctx context.Context, loc epg.Location, start, end int64) ([]epg.Channel, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	// 创建请求
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+liveChannelsPath, nil)
	if err != nil {
		return nil, err
	}

	// 增加请求参数
	params := req.URL.Query()
	params.Add("types", "")
	params.Add("channelIds", loc.ChannelIDs)
	params.Add("startTime", strconv.FormatInt(start, 10))
	params.Add("endTime", strconv.FormatInt(end, 10))
	params.Add("location", loc.Location)
	params.Add("channel", c.clientType())
	req.URL.RawQuery = params.Encode()

	// 设置请求头
	c.setCommonHeaders(req)

	// 执行请求
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("http status code: %d", resp.StatusCode)
	}

	// 解析响应内容
	result, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	channels, err := parseLiveChannels(result)
	if err != nil {
		return nil, err
	}
	if channels == nil {
		c.logger.Warn("The response has no live channels. Skip it.",
			zap.String("location", loc.Location), zap.Error(epg.ErrMalformedResponse))
	}
	return channels, nil
}

// parseLiveChannels 解析频道节目单列表
// 响应不是合法的JSON时返回错误；缺少response.liveChannels时返回nil
func parseLiveChannels(rawData []byte) ([]epg.Channel, error) {
	if !json.Valid(rawData) {
		return nil, fmt.Errorf("response is not valid JSON")
	}

	var resp liveChannelsResponse
	if err := json.Unmarshal(rawData, &resp); err != nil || isNull(resp.Response) {
		return nil, nil
	}

	var body liveChannelsBody
	if err := json.Unmarshal(resp.Response, &body); err != nil || isNull(body.LiveChannels) {
		return nil, nil
	}

	// liveChannels不是数组时视为格式不正确，数组中的单个频道或节目数据错误则返回ErrData
	var rawChannels []json.RawMessage
	if err := json.Unmarshal(body.LiveChannels, &rawChannels); err != nil || rawChannels == nil {
		return nil, nil
	}

	channels := make([]epg.Channel, 0, len(rawChannels))
	for i, rawChannel := range rawChannels {
		var channel epg.Channel
		if err := json.Unmarshal(rawChannel, &channel); err != nil {
			if errors.Is(err, epg.ErrData) {
				return nil, fmt.Errorf("channel #%d: %w", i, err)
			}
			return nil, fmt.Errorf("%w: channel #%d: %v", epg.ErrData, i, err)
		}
		channels = append(channels, channel)
	}
	return channels, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
