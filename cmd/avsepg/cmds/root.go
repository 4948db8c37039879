package cmds

import (
	"avsepg/internal/app/config"
	"avsepg/internal/pkg/logging"
	"avsepg/internal/pkg/util"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

const defaultCfgFileName = "config.yml"

var (
	cfgFile string

	conf *config.Config
)

func init() {
	cobra.OnInitialize(initConfig)
}

func NewRootCLI() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "avsepg",
		Short:         "获取AVS直播频道节目单，并生成XMLTV格式的EPG文件",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.AddCommand(NewGenerateCLI())
	rootCmd.AddCommand(NewServeCLI())
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML配置文件的路径")

	return rootCmd
}

// initConfig 初始化配置文件和日志
func initConfig() {
	var err error
	var fPath string

	if cfgFile != "" {
		// 使用命令参数中的配置文件
		fPath = cfgFile
	} else {
		cfgHome, err := util.GetCurrentAbPathByExecutable()
		cobra.CheckErr(err)

		fPath = filepath.Join(cfgHome, defaultCfgFileName)

		// 写入缺省配置文件
		if _, err = os.Stat(fPath); os.IsNotExist(err) {
			err = config.CreateDefaultCfg(fPath)
			cobra.CheckErr(err)
		}
	}

	// 读取配置文件
	conf, err = config.Load(fPath)
	cobra.CheckErr(err)

	// 相对路径以配置文件所在目录为准
	cfgDir := filepath.Dir(fPath)
	conf.OutputFile = util.ResolvePath(cfgDir, conf.OutputFile)

	// 初始化日志
	if conf.Log == nil {
		conf.Log = &logging.LogConfig{IsStdout: true}
	}
	conf.Log.FileName = util.ResolvePath(cfgDir, conf.Log.FileName)
	logging.InitLogger(conf.Log)
}
