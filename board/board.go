// Package board 读写 JSON Canvas 画布文件，并把其中的文本卡片适配为可自适应缩放的节点。
package board

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ByLCY/canvasfit/autofit"
	"github.com/ByLCY/canvasfit/layout"
)

// 节点类型，与 JSON Canvas 保持一致。
const (
	TypeText  = "text"
	TypeFile  = "file"
	TypeLink  = "link"
	TypeGroup = "group"
)

// Canvas 是一张画布，以及宿主侧的选择集与保存状态。
type Canvas struct {
	Nodes []*Node `json:"nodes"`
	Edges []*Edge `json:"edges"`

	path      string
	logger    *slog.Logger
	selection []string
	saves     int
	dirty     bool
}

// Node 是画布上的一个节点，字段名遵循 JSON Canvas。
type Node struct {
	ID              string  `json:"id"`
	Type            string  `json:"type"`
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	Width           float64 `json:"width"`
	Height          float64 `json:"height"`
	Color           string  `json:"color,omitempty"`
	Text            string  `json:"text,omitempty"`
	File            string  `json:"file,omitempty"`
	Subpath         string  `json:"subpath,omitempty"`
	URL             string  `json:"url,omitempty"`
	Label           string  `json:"label,omitempty"`
	Background      string  `json:"background,omitempty"`
	BackgroundStyle string  `json:"backgroundStyle,omitempty"`

	canvas  *Canvas
	preview *layout.Preview
}

// Edge 连接两个节点。
type Edge struct {
	ID       string `json:"id"`
	FromNode string `json:"fromNode"`
	FromSide string `json:"fromSide,omitempty"`
	FromEnd  string `json:"fromEnd,omitempty"`
	ToNode   string `json:"toNode"`
	ToSide   string `json:"toSide,omitempty"`
	ToEnd    string `json:"toEnd,omitempty"`
	Color    string `json:"color,omitempty"`
	Label    string `json:"label,omitempty"`
}

// Load 读取 .canvas 文件。
func Load(path string) (*Canvas, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开画布文件 %s: %w", path, err)
	}
	defer f.Close()

	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("解析画布 %s 失败: %w", path, err)
	}
	c.path = path
	return c, nil
}

// Parse 从 r 解析 JSON Canvas 文档。
func Parse(r io.Reader) (*Canvas, error) {
	var c Canvas
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(c.Nodes))
	for i, n := range c.Nodes {
		if n == nil {
			return nil, fmt.Errorf("第 %d 个节点为空", i)
		}
		if n.ID == "" {
			return nil, fmt.Errorf("第 %d 个节点缺少 id", i)
		}
		if seen[n.ID] {
			return nil, fmt.Errorf("节点 id 重复: %s", n.ID)
		}
		seen[n.ID] = true
		n.canvas = &c
	}
	for _, e := range c.Edges {
		if e == nil {
			continue
		}
		if !seen[e.FromNode] || !seen[e.ToNode] {
			return nil, fmt.Errorf("连线 %s 指向不存在的节点", e.ID)
		}
	}
	if c.Nodes == nil {
		c.Nodes = []*Node{}
	}
	if c.Edges == nil {
		c.Edges = []*Edge{}
	}
	return &c, nil
}

// Path 返回画布文件路径，未从文件加载时为空。
func (c *Canvas) Path() string { return c.path }

// SetLogger 指定画布日志；为空时使用 slog.Default。
func (c *Canvas) SetLogger(l *slog.Logger) { c.logger = l }

// Logger 返回带画布路径的结构化日志。
func (c *Canvas) Logger() *slog.Logger {
	l := c.logger
	if l == nil {
		l = slog.Default()
	}
	return l.With("canvas", filepath.Base(c.path))
}

// Node 按 id 查找节点。
func (c *Canvas) Node(id string) (*Node, bool) {
	for _, n := range c.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return nil, false
}

// WriteTo 以制表符缩进写出画布 JSON。
func (c *Canvas) WriteTo(w io.Writer) (int64, error) {
	data, err := json.MarshalIndent(c, "", "\t")
	if err != nil {
		return 0, err
	}
	n, err := w.Write(append(data, '\n'))
	return int64(n), err
}

// Save 写回画布文件并清除 dirty 标记。
func (c *Canvas) Save() error {
	if c.path == "" {
		return fmt.Errorf("画布没有关联文件")
	}
	tmp, err := os.CreateTemp(filepath.Dir(c.path), ".canvasfit-*")
	if err != nil {
		return fmt.Errorf("创建临时文件失败: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := c.WriteTo(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("写入画布失败: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("写入画布失败: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return fmt.Errorf("替换画布文件失败: %w", err)
	}
	c.dirty = false
	return nil
}

// RequestSave 只记录保存请求，真正的写入由 Flush 合并完成。
func (c *Canvas) RequestSave() {
	c.saves++
	c.dirty = true
}

// SaveRequests 返回累计的保存请求次数。
func (c *Canvas) SaveRequests() int { return c.saves }

// Dirty 报告是否有尚未写回的修改。
func (c *Canvas) Dirty() bool { return c.dirty }

// Flush 在有待保存的修改时写回文件，返回是否发生了写入。
func (c *Canvas) Flush() (bool, error) {
	if !c.dirty {
		return false, nil
	}
	if err := c.Save(); err != nil {
		return false, err
	}
	c.Logger().Info("canvas saved", "requests", c.saves)
	return true, nil
}

// Select 把 ids 加入选择集，保持调用顺序；未知 id 返回错误且不修改选择集。
func (c *Canvas) Select(ids ...string) error {
	for _, id := range ids {
		if _, ok := c.Node(id); !ok {
			return fmt.Errorf("节点 %s 不存在", id)
		}
	}
	for _, id := range ids {
		if !c.selected(id) {
			c.selection = append(c.selection, id)
		}
	}
	return nil
}

// SelectAll 选中所有节点。
func (c *Canvas) SelectAll() {
	c.selection = c.selection[:0]
	for _, n := range c.Nodes {
		c.selection = append(c.selection, n.ID)
	}
}

func (c *Canvas) ClearSelection() { c.selection = nil }

func (c *Canvas) selected(id string) bool {
	for _, s := range c.selection {
		if s == id {
			return true
		}
	}
	return false
}

// Selection 按选择顺序返回选中的节点。
func (c *Canvas) Selection() []autofit.Node {
	out := make([]autofit.Node, 0, len(c.selection))
	for _, id := range c.selection {
		if n, ok := c.Node(id); ok {
			out = append(out, n)
		}
	}
	return out
}
