package arachnid

import "testing"

func TestFindMethodTokens(t *testing.T) {
	want := map[FindMethod]string{
		ByCSSSelector:     "css selector",
		ByLinkText:        "link text",
		ByPartialLinkText: "partial link text",
		ByTagName:         "tag name",
		ByXPATH:           "xpath",
	}
	if got := len(FindMethods()); got != len(want) {
		t.Fatalf("len(FindMethods()) = %d, want %d", got, len(want))
	}

	seen := make(map[string]FindMethod)
	for _, m := range FindMethods() {
		if !m.Valid() {
			t.Errorf("%d.Valid() = false, want true", int(m))
		}
		if got := m.String(); got != want[m] {
			t.Errorf("%d.String() = %q, want %q", int(m), got, want[m])
		}
		if other, ok := seen[m.String()]; ok {
			t.Errorf("%d and %d share the token %q", int(m), int(other), m.String())
		}
		seen[m.String()] = m

		parsed, err := ParseFindMethod(m.String())
		if err != nil || parsed != m {
			t.Errorf("ParseFindMethod(%q) = %d, %v; want %d", m.String(), int(parsed), err, int(m))
		}
	}
}

func TestFindMethodInvalid(t *testing.T) {
	for _, m := range []FindMethod{-1, 5, 42} {
		if m.Valid() {
			t.Errorf("FindMethod(%d).Valid() = true, want false", int(m))
		}
	}
	for _, s := range []string{"", "id", "CSS selector", "name"} {
		if _, err := ParseFindMethod(s); err == nil {
			t.Errorf("ParseFindMethod(%q) returned nil error", s)
		}
	}
}
