package epg

import (
	"encoding/xml"
	"fmt"
	"time"
)

// xmltvTimeLayout XMLTV的时间格式，例如：202411222057 -0300
const xmltvTimeLayout = "200601021504 -0700"

// GeneratorInfo XMLTV文档的生成者信息
type GeneratorInfo struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}

// XmlEPG XMLTV格式的EPG
type XmlEPG struct {
	XMLName           xml.Name          `xml:"tv"`
	GeneratorInfoName string            `xml:"generator-info-name,attr"`
	GeneratorInfoUrl  string            `xml:"generator-info-url,attr"`
	Channels          []XmlEPGChannel   `xml:"channel"`
	Programmes        []XmlEPGProgramme `xml:"programme"`
}

type XmlEPGChannel struct {
	Id          string         `xml:"id,attr"`
	DisplayName *XmlEPGDisplay `xml:"display-name"`
}

type XmlEPGProgramme struct {
	Start   string         `xml:"start,attr"`
	Stop    string         `xml:"stop,attr"`
	Channel string         `xml:"channel,attr"`
	Title   *XmlEPGDisplay `xml:"title"`
	Desc    *XmlEPGDisplay `xml:"desc,omitempty"`
}

type XmlEPGDisplay struct {
	Lang  string `xml:"lang,attr"`
	Value string `xml:",chardata"`
}

// FormatXMLTVTime 将unix时间戳转换为指定时区的XMLTV时间格式
func FormatXMLTVTime(ts int64, loc *time.Location) string {
	return time.Unix(ts, 0).In(loc).Format(xmltvTimeLayout)
}

// DeriveTitle 拼接节目名称和剧集名称
func DeriveTitle(title, episodeName string) string {
	if episodeName == "" {
		return title
	}
	return title + " - " + episodeName
}

// Aggregate 按地区的配置顺序合并频道列表，不去重也不排序
func Aggregate(results [][]Channel) []Channel {
	total := 0
	for _, channels := range results {
		total += len(channels)
	}

	all := make([]Channel, 0, total)
	for _, channels := range results {
		all = append(all, channels...)
	}
	return all
}

// Build 将频道节目单转为xmltv格式
func Build(channels []Channel, loc *time.Location, gen GeneratorInfo, lang string) (*XmlEPG, error) {
	xmlChannels := make([]XmlEPGChannel, 0, len(channels))
	// 先输出所有频道
	for i, channel := range channels {
		if channel.Name == "" {
			return nil, fmt.Errorf("%w: channel #%d has no name", ErrData, i)
		}
		xmlChannels = append(xmlChannels, XmlEPGChannel{
			Id: channel.Name,
			DisplayName: &XmlEPGDisplay{
				Lang:  lang,
				Value: channel.Name,
			},
		})
	}

	// 再按频道顺序输出节目
	programmes := make([]XmlEPGProgramme, 0)
	for _, channel := range channels {
		for j, program := range channel.Schedules {
			if program.StartTime == nil || program.EndTime == nil {
				return nil, fmt.Errorf("%w: program #%d (%q) of channel %q has no start or end time",
					ErrData, j, program.Title, channel.Name)
			}

			programme := XmlEPGProgramme{
				Start:   FormatXMLTVTime(*program.StartTime, loc),
				Stop:    FormatXMLTVTime(*program.EndTime, loc),
				Channel: channel.Name,
				Title: &XmlEPGDisplay{
					Lang:  lang,
					Value: DeriveTitle(program.Title, program.EpisodeName),
				},
			}
			if program.Description != "" {
				programme.Desc = &XmlEPGDisplay{
					Lang:  lang,
					Value: program.Description,
				}
			}
			programmes = append(programmes, programme)
		}
	}

	return &XmlEPG{
		GeneratorInfoName: gen.Name,
		GeneratorInfoUrl:  gen.URL,
		Channels:          xmlChannels,
		Programmes:        programmes,
	}, nil
}
