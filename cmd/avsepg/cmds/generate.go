package cmds

import (
	"avsepg/internal/app/epg"
	"avsepg/internal/app/epg/avs"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var outputFile string

func NewGenerateCLI() *cobra.Command {
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "获取所有地区的频道节目单，并生成XMLTV格式的EPG文件。",
		RunE: func(cmd *cobra.Command, args []string) error {
			// L()：获取全局logger
			logger := zap.L()

			if outputFile != "" {
				conf.OutputFile = outputFile
			}

			// 校验配置文件，时区错误时不发起任何请求
			if err := conf.Validate(); err != nil {
				return err
			}

			// 创建接口客户端
			client, err := avs.NewClient(&http.Client{
				Timeout: conf.API.Timeout,
			}, conf.API)
			if err != nil {
				return err
			}

			generator, err := epg.NewGenerator(client, conf.Locations, conf.Loc, conf.Generator, conf.Lang)
			if err != nil {
				return err
			}

			// 获取节目单并生成XMLTV文档
			result, err := generator.Generate(cmd.Context())
			if err != nil {
				logger.Error("Failed to generate EPG.", zap.Error(err))
				return err
			}

			// 将结果写入文件
			if err = epg.Write(result.EPG, conf.OutputFile); err != nil {
				logger.Error("Failed to write to file.", zap.Error(err))
				return err
			}

			logger.Sugar().Infof("A total of %d channels and %d programmes have been written to the file %s.",
				len(result.EPG.Channels), len(result.EPG.Programmes), conf.OutputFile)

			return nil
		},
	}

	generateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "生成的XMLTV文件路径，缺省使用配置文件中的outputFile。")

	return generateCmd
}
