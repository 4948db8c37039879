package epg

import (
	"fmt"
	"time"
)

// windowDays 请求节目单的天数：当天零点到第4天零点
const windowDays = 3

// LoadLocation 加载时区
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: timezone is empty", ErrConfiguration)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown timezone %q: %v", ErrConfiguration, name, err)
	}
	return loc, nil
}

// Window 计算请求节目单的时间段（unix时间戳）
// 按日历天相加而不是直接加259200秒，时间段内的夏令时切换会体现在结果中
func Window(now time.Time, loc *time.Location) (start, end int64) {
	local := now.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	endMidnight := time.Date(local.Year(), local.Month(), local.Day()+windowDays, 0, 0, 0, 0, loc)
	return midnight.Unix(), endMidnight.Unix()
}
