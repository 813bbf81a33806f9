package command

import "fmt"

// Palette 是内存中的命令面板，按登记顺序保存命令。
type Palette struct {
	commands []Command
	index    map[string]int
}

func NewPalette() *Palette {
	return &Palette{index: make(map[string]int)}
}

// AddCommand 登记命令；同 id 的命令会被替换。
func (p *Palette) AddCommand(cmd Command) {
	if i, ok := p.index[cmd.ID]; ok {
		p.commands[i] = cmd
		return
	}
	p.index[cmd.ID] = len(p.commands)
	p.commands = append(p.commands, cmd)
}

// Commands 返回全部已登记命令。
func (p *Palette) Commands() []Command {
	out := make([]Command, len(p.commands))
	copy(out, p.commands)
	return out
}

// Available 只返回当前可用的命令，即面板中应当显示的命令。
func (p *Palette) Available() []Command {
	var out []Command
	for _, cmd := range p.commands {
		if cmd.CheckCallback != nil && cmd.CheckCallback(true) {
			out = append(out, cmd)
		}
	}
	return out
}

func (p *Palette) Lookup(id string) (Command, bool) {
	i, ok := p.index[id]
	if !ok {
		return Command{}, false
	}
	return p.commands[i], true
}

// Execute 执行命令。命令不可用时返回 false，未知 id 返回错误。
func (p *Palette) Execute(id string) (bool, error) {
	cmd, ok := p.Lookup(id)
	if !ok {
		return false, fmt.Errorf("未知命令: %s", id)
	}
	if cmd.CheckCallback == nil {
		return false, nil
	}
	if !cmd.CheckCallback(true) {
		return false, nil
	}
	return cmd.CheckCallback(false), nil
}
