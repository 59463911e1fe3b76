package blog

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Feira de Adoção 2024!", "feira-de-adocao-2024"},
		{"  Título com Acentos: çãõé  ", "titulo-com-acentos-caoe"},
		{"Transparência --- Relatório", "transparencia-relatorio"},
		{"UPPER case", "upper-case"},
		{"!!!", ""},
	}

	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Fatalf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
