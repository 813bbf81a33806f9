package layout

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// EncodeDebugJSON 将预览页布局以缩进 JSON 写入 w，便于核对卡片与文本框的位置（mm）。
func EncodeDebugJSON(res *Result, w io.Writer) error {
	if res == nil {
		return fmt.Errorf("布局结果为空")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// WriteDebugJSON 把布局结果写入 path，必要时创建目录。
func WriteDebugJSON(res *Result, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建调试目录失败: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建调试文件失败: %w", err)
	}
	if err := EncodeDebugJSON(res, f); err != nil {
		f.Close()
		return fmt.Errorf("写入调试 JSON 失败: %w", err)
	}
	return f.Close()
}
