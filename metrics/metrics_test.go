package metrics

import (
	"math"
	"sync"
	"testing"

	"github.com/ByLCY/cvpress/fonts"
)

func mustBuiltin(t *testing.T) *Registry {
	t.Helper()
	reg, err := LoadBuiltin()
	if err != nil {
		t.Fatalf("LoadBuiltin error: %v", err)
	}
	return reg
}

func TestWidthIsSumOfAdvances(t *testing.T) {
	reg := mustBuiltin(t)
	m, err := reg.Face(FontRegular)
	if err != nil {
		t.Fatalf("Face error: %v", err)
	}
	const eps = 1e-9
	ab := m.Width("ab", 12)
	sum := m.Width("a", 12) + m.Width("b", 12)
	if math.Abs(ab-sum) > eps {
		t.Fatalf("width not additive: ab=%g a+b=%g", ab, sum)
	}
	if m.Width("", 12) != 0 {
		t.Fatalf("empty text must measure 0")
	}
}

func TestWidthScalesWithSize(t *testing.T) {
	reg := mustBuiltin(t)
	w12, err := reg.Width("Working Experience", FontBold, 12)
	if err != nil {
		t.Fatalf("Width error: %v", err)
	}
	w24, _ := reg.Width("Working Experience", FontBold, 24)
	if w12 <= 0 {
		t.Fatalf("expected positive width, got %g", w12)
	}
	if math.Abs(w24-2*w12) > 1e-9 {
		t.Fatalf("width should scale linearly: w12=%g w24=%g", w12, w24)
	}
}

func TestHasGlyph(t *testing.T) {
	reg := mustBuiltin(t)
	m, _ := reg.Face(FontRegular)
	for _, r := range []rune{'A', 'z', '@', '|', '•', '-'} {
		if !m.HasGlyph(r) {
			t.Fatalf("expected glyph for %q", r)
		}
	}
	if m.HasGlyph(0x1F600) {
		t.Fatalf("emoji should not be covered by the width table")
	}
	if !reg.Supports('e') || reg.Supports(0x1F600) {
		t.Fatalf("Supports mismatch")
	}
	// 缺失字形按 .notdef 宽度计算，仍然为正值。
	if m.Advance(0x1F600) <= 0 {
		t.Fatalf("notdef advance should be positive")
	}
}

func TestLoadBuiltinRegistersEveryEmbeddedFont(t *testing.T) {
	reg := mustBuiltin(t)
	if reg.Len() != len(fonts.Names()) {
		t.Fatalf("expected %d fonts, got %d", len(fonts.Names()), reg.Len())
	}
	for _, name := range fonts.Names() {
		if _, err := reg.Face(FontRef(name)); err != nil {
			t.Fatalf("builtin font %s not registered: %v", name, err)
		}
	}
}

func TestParseRejectsCorruptFont(t *testing.T) {
	if _, err := Parse("broken", []byte("not a font")); err == nil {
		t.Fatalf("expected error for corrupt font data")
	}
	if _, err := Parse("empty", nil); err == nil {
		t.Fatalf("expected error for empty font data")
	}
}

func TestRegistryUnknownFont(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.Width("x", FontBold, 12); err == nil {
		t.Fatalf("expected error for unregistered font")
	}
	var nilReg *Registry
	if _, err := nilReg.Face(FontRegular); err == nil {
		t.Fatalf("expected error for nil registry")
	}
}

func TestParseFontRef(t *testing.T) {
	cases := map[string]FontRef{"bold": FontBold, "Regular": FontRegular, "": FontRegular}
	for in, want := range cases {
		got, err := ParseFontRef(in)
		if err != nil || got != want {
			t.Fatalf("ParseFontRef(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFontRef("italic"); err == nil {
		t.Fatalf("expected error for italic")
	}
}

func TestConcurrentReads(t *testing.T) {
	reg := mustBuiltin(t)
	want, _ := reg.Width("concurrent measurement", FontRegular, 11)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				got, err := reg.Width("concurrent measurement", FontRegular, 11)
				if err != nil || got != want {
					t.Errorf("concurrent width mismatch: %g vs %g (%v)", got, want, err)
					return
				}
			}
		}()
	}
	wg.Wait()
}
