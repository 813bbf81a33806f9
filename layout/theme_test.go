package layout

import (
	"math"
	"strings"
	"testing"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/ByLCY/canvasfit/dsl"
)

const themeDSL = `
theme Sample v1 {
  meta {
    title: "Canvas ${canvas.name}"
    author: "tester"
  }
  resources {
    font Body { src: "builtin:go-regular" }
    font Serif { src: "builtin:lmroman" }
    color Ink = #112233
    style Base {
      font: Serif
      size: 12pt
      line-height: 1.25x
      color: Ink
    }
    style Card extends Base {
      padding: [8px, 16px]
      border: 1px
      background: none
    }
  }
  card Card {
    wrap: nowrap
    radius: 0
  }
}
`

func parseThemeString(t *testing.T, src string) *Theme {
	t.Helper()
	theme, err := ParseTheme(strings.NewReader(src))
	if err != nil {
		t.Fatalf("解析主题失败: %v", err)
	}
	return theme
}

func TestThemeResolvesCardStyle(t *testing.T) {
	theme := parseThemeString(t, themeDSL)
	card := theme.Card

	if theme.Name != "Sample" {
		t.Fatalf("unexpected theme name %s", theme.Name)
	}
	if card.Font.Name != "Serif" || card.Font.Src != "builtin:lmroman" || !card.Font.IsBuiltin {
		t.Fatalf("font not inherited from Base: %#v", card.Font)
	}
	if math.Abs(card.FontSize-16) > 1e-3 {
		t.Fatalf("12pt 应约为 16px，实际 %g", card.FontSize)
	}
	if math.Abs(card.LineHeight-card.FontSize*1.25) > 1e-9 {
		t.Fatalf("line-height 1.25x 解析错误: %g", card.LineHeight)
	}
	if card.Color != (Color{R: 0x11, G: 0x22, B: 0x33}) {
		t.Fatalf("color not resolved from Ink: %#v", card.Color)
	}
	if card.Padding != (Insets{Top: 8, Right: 16, Bottom: 8, Left: 16}) {
		t.Fatalf("padding: %#v", card.Padding)
	}
	if card.Border != 1 || card.Radius != 0 {
		t.Fatalf("border/radius: %g/%g", card.Border, card.Radius)
	}
	if card.Background != nil {
		t.Fatalf("background none should disable fill")
	}
	if card.Wrap != "nowrap" {
		t.Fatalf("inline card override lost: wrap=%s", card.Wrap)
	}
	if theme.Meta.Title != "Canvas ${canvas.name}" || theme.Meta.Author != "tester" {
		t.Fatalf("meta: %#v", theme.Meta)
	}
}

func TestThemeWithoutCardUsesDefaults(t *testing.T) {
	theme := parseThemeString(t, "theme Empty v1 {\n  meta {\n    title: \"x\"\n  }\n}\n")
	def := DefaultTheme().Card
	if theme.Card.FontSize != def.FontSize || theme.Card.Padding != def.Padding {
		t.Fatalf("expected defaults, got %#v", theme.Card)
	}
	if _, ok := theme.Resources.Fonts["Body"]; !ok {
		t.Fatalf("default Body font should always be available")
	}
}

func TestThemeStyleCycle(t *testing.T) {
	src := `theme Loop v1 {
  resources {
    style A extends B {
      size: 10px
    }
    style B extends A {
      size: 12px
    }
  }
}`
	if _, err := ParseTheme(strings.NewReader(src)); err == nil || !strings.Contains(err.Error(), "循环") {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestThemeUnknownCardStyle(t *testing.T) {
	if _, err := ParseTheme(strings.NewReader("theme T v1 {\n  card Missing\n}\n")); err == nil {
		t.Fatalf("expected error for undefined card style")
	}
}

func TestThemeRejectsInvalidFontSize(t *testing.T) {
	src := `theme T v1 {
  resources {
    style Tiny {
      size: 0px
    }
  }
  card Tiny
}`
	if _, err := ParseTheme(strings.NewReader(src)); err == nil {
		t.Fatalf("expected error for zero font size")
	}
}

func TestParseInsetsVariants(t *testing.T) {
	cases := map[string]Insets{
		"10px":               {10, 10, 10, 10},
		"10px 5px":           {10, 5, 10, 5},
		"1px 2px 3px":        {1, 2, 3, 2},
		"1px, 2px, 3px, 4px": {1, 2, 3, 4},
		"1 2 3 4 999":        {1, 2, 3, 4},
		"-4px":               {0, 0, 0, 0},
	}
	for in, want := range cases {
		if got := parseInsets(in); got != want {
			t.Fatalf("parseInsets(%q) = %#v, want %#v", in, got, want)
		}
	}
}

func TestExampleThemeLoads(t *testing.T) {
	theme, err := LoadThemeFile("../examples/card.theme")
	if err != nil {
		t.Fatalf("加载示例主题失败: %v", err)
	}
	if theme.Dir != "../examples" {
		t.Fatalf("theme dir = %q", theme.Dir)
	}
	card := theme.Card
	if card.Font.Src != "builtin:lmroman" || card.Border != 2 || card.Radius != 8 {
		t.Fatalf("unexpected card style: %#v", card)
	}
	if card.Padding.Horizontal() != 48 || card.Padding.Vertical() != 24 {
		t.Fatalf("unexpected padding: %#v", card.Padding)
	}
	if card.Background == nil || *card.Background != (Color{R: 255, G: 253, B: 247}) {
		t.Fatalf("unexpected background: %#v", card.Background)
	}
}

func TestParseColor(t *testing.T) {
	cases := map[string]Color{
		"#abc":      {R: 0xaa, G: 0xbb, B: 0xcc},
		"#112233":   {R: 0x11, G: 0x22, B: 0x33},
		"#11223380": {R: 0x11, G: 0x22, B: 0x33},
	}
	for in, want := range cases {
		got, err := ParseColor(in)
		if err != nil || got != want {
			t.Fatalf("ParseColor(%q) = %#v, %v", in, got, err)
		}
	}
	for _, bad := range []string{"#zzzzzz", "#1234zz", "#1122338z", "#-1", "red", ""} {
		if _, err := ParseColor(bad); err == nil {
			t.Fatalf("ParseColor(%q) should fail", bad)
		}
	}
}

func TestThemeRejectsNestedPropertyBlock(t *testing.T) {
	src := `theme T v1 {
  resources {
    style Card {
      padding: { top: 4px }
    }
  }
  card Card
}`
	if _, err := ParseTheme(strings.NewReader(src)); err == nil {
		t.Fatalf("expected error for nested property block")
	}
}

func TestBuildThemeReportsPositionOfNonProperty(t *testing.T) {
	pos := lexer.Position{Line: 7, Column: 3}
	doc := &dsl.Document{
		Name:    "T",
		Version: "v1",
		Sections: []*dsl.Section{{
			Card: &dsl.CardSection{
				Style: "",
				Block: &dsl.Block{Statements: []*dsl.Statement{{
					Command: &dsl.Command{Pos: pos, Name: "padding"},
				}}},
			},
		}},
	}
	_, err := BuildTheme(doc)
	if err == nil {
		t.Fatalf("expected error for non-property statement")
	}
	if !strings.Contains(err.Error(), pos.String()) || !strings.Contains(err.Error(), "padding") {
		t.Fatalf("error should name position and property: %v", err)
	}
}
