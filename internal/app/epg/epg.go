package epg

import (
	"context"
	"errors"
)

var (
	ErrConfiguration     = errors.New("invalid configuration")
	ErrFetch             = errors.New("failed to fetch live channels")
	ErrData              = errors.New("invalid program data")
	ErrMalformedResponse = errors.New("malformed live channels response")
)

// Location 配置的地区及其频道过滤条件
type Location struct {
	Location   string `json:"location" yaml:"location"`     // 地区，例如：SAO PAULO,SAO PAULO
	ChannelIDs string `json:"channelIds" yaml:"channelIds"` // 逗号分隔的频道ID，为空表示该地区所有频道
}

// Channel 接口返回的频道及其节目单
type Channel struct {
	Name      string    `json:"name"`      // 频道名称，同时作为XMLTV中的频道ID
	Schedules []Program `json:"schedules"` // 节目单
}

// Program 节目
type Program struct {
	Title       string `json:"title"`                 // 节目名称
	EpisodeName string `json:"episodeName,omitempty"` // 剧集名称
	Description string `json:"description,omitempty"` // 节目描述
	StartTime   *int64 `json:"startTime"`             // 开始时间，unix时间戳（秒）
	EndTime     *int64 `json:"endTime"`               // 结束时间，unix时间戳（秒）
}

// Fetcher 按地区获取频道节目单
type Fetcher interface {
	// GetLiveChannels 获取指定地区在[start, end)时间段内的频道节目单
	GetLiveChannels(ctx context.Context, loc Location, start, end int64) ([]Channel, error)
}
