package epg

import (
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
)

// Encode 写入xml头和格式化后的XMLTV内容
func Encode(w io.Writer, doc *XmlEPG) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}

	_, err := io.WriteString(w, "\n")
	return err
}

// Write 将XMLTV文档写入文件
// 先写入同目录下的临时文件，成功后再重命名覆盖目标文件
func Write(doc *XmlEPG, fPath string) error {
	dir := filepath.Dir(fPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(dir, filepath.Base(fPath)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmpFile.Name()

	if err = Encode(tmpFile, doc); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err = tmpFile.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err = os.Chmod(tmpName, 0644); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	if err = os.Rename(tmpName, fPath); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
