package canvasrenderer

import "testing"

// monoMeasurer 每个字符宽 1mm。
type monoMeasurer struct{}

func (monoMeasurer) TextWidth(s string) float64 { return float64(len([]rune(s))) }

func contents(t *testing.T, content string, width float64, wrap string) []string {
	t.Helper()
	var out []string
	for _, ln := range greedyWrapTokens(content, width, monoMeasurer{}, wrap) {
		out = append(out, ln.Content)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestWrapAnywherePrefersSpaces(t *testing.T) {
	got := contents(t, "aaa bbb ccc", 6, "anywhere")
	want := []string{"aaa ", "bbb ", "ccc"}
	if !equal(got, want) {
		t.Fatalf("got %q want %q", got, want)
	}

	// 溢出的空白在折行处丢弃
	got = contents(t, "aaa bbb ccc", 7, "anywhere")
	want = []string{"aaa bbb", "ccc"}
	if !equal(got, want) {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestWrapSplitsLongWords(t *testing.T) {
	got := contents(t, "abcdefgh", 3, "anywhere")
	want := []string{"abc", "def", "gh"}
	if !equal(got, want) {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestWrapBreakWordIgnoresSpaces(t *testing.T) {
	got := contents(t, "ab cd", 2, "break-word")
	want := []string{"ab", " c", "d"}
	if !equal(got, want) {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestWrapNowrapOnlyExplicitBreaks(t *testing.T) {
	got := contents(t, "a long line\r\nnext", 2, "nowrap")
	want := []string{"a long line", "next"}
	if !equal(got, want) {
		t.Fatalf("got %q want %q", got, want)
	}
}

// 当第一行宽度与容器宽度恰好相等且后面紧跟一个显式换行时，不应产生额外的空行。
func TestNoBlankLineWhenEqualWidthThenNewline(t *testing.T) {
	got := contents(t, "SAMPLE-A\nSAMPLE-B", 8, "anywhere")
	want := []string{"SAMPLE-A", "SAMPLE-B"}
	if !equal(got, want) {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestWrapUnlimitedWidth(t *testing.T) {
	got := contents(t, "one two three", 0, "anywhere")
	if len(got) != 1 {
		t.Fatalf("width 0 should not wrap, got %q", got)
	}
}
