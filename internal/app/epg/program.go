package epg

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// UnmarshalJSON 时间戳兼容整数和浮点数，例如：1700000000或1700000000.0
func (p *Program) UnmarshalJSON(data []byte) error {
	type program Program
	var raw struct {
		program
		StartTime json.Number `json:"startTime"`
		EndTime   json.Number `json:"endTime"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrData, err)
	}

	startTime, err := parseTimestamp(raw.StartTime)
	if err != nil {
		return fmt.Errorf("%w: startTime of %q: %v", ErrData, raw.Title, err)
	}
	endTime, err := parseTimestamp(raw.EndTime)
	if err != nil {
		return fmt.Errorf("%w: endTime of %q: %v", ErrData, raw.Title, err)
	}

	*p = Program(raw.program)
	p.StartTime = startTime
	p.EndTime = endTime
	return nil
}

// parseTimestamp 缺失或为null时返回nil，小数部分向下取整
func parseTimestamp(n json.Number) (*int64, error) {
	if n == "" {
		return nil, nil
	}
	if v, err := strconv.ParseInt(string(n), 10, 64); err == nil {
		return &v, nil
	}

	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt64 || f < math.MinInt64 {
		return nil, fmt.Errorf("timestamp out of range: %s", n)
	}
	v := int64(math.Floor(f))
	return &v, nil
}
