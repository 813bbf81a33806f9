package renderer

import (
	"io"

	"github.com/ByLCY/canvasfit/layout"
)

// Renderer 将画布预览页输出为最终文件。
// Render 返回 PDF 字节；RenderFile 按扩展名（.pdf / .svg）写入 w。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
	RenderFile(result *layout.Result, w io.Writer, ext string) error
}
