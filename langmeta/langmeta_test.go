package langmeta

import "testing"

func TestResolve(t *testing.T) {
	cases := []struct {
		lang string
		want string
	}{
		{"de", "Deutsch"},
		{"pt-BR", "Português (Brasil)"},
		{"pt_BR", "Português (Brasil)"},
		{"PT_br", "Português (Brasil)"},
		{"de_AT", "Deutsch"}, // base fallback
		{"xx", "xx"},         // unknown keeps the code
	}
	for _, c := range cases {
		if got := Resolve(c.lang); got.Name != c.want {
			t.Errorf("Resolve(%q).Name = %q, want %q", c.lang, got.Name, c.want)
		}
	}
}

func TestLabel(t *testing.T) {
	if got := Label("de"); got != "🇩🇪 Deutsch (de)" {
		t.Errorf("Label(de) = %q", got)
	}
	if got := Label("xx"); got != "xx (xx)" {
		t.Errorf("Label(xx) = %q", got)
	}
}
