package util

import (
	"os"
	"path/filepath"
)

// GetCurrentAbPathByExecutable 获取当前执行程序所在的绝对路径
func GetCurrentAbPathByExecutable() (string, error) {
	exePath, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(filepath.Dir(exePath))
}

// ResolvePath 相对路径按照baseDir解析，绝对路径原样返回
func ResolvePath(baseDir, fPath string) string {
	if fPath == "" || filepath.IsAbs(fPath) {
		return fPath
	}
	return filepath.Join(baseDir, fPath)
}
