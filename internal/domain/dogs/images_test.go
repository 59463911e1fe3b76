package dogs

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestNormalizeImages(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "lista de strings",
			raw:  `["https://cdn/a.jpg","https://cdn/b.jpg","https://cdn/c.jpg"]`,
			want: []string{"https://cdn/a.jpg", "https://cdn/b.jpg", "https://cdn/c.jpg"},
		},
		{
			name: "lista de objetos url",
			raw:  `[{"url":"https://cdn/a.jpg"},{"url":"https://cdn/b.jpg"}]`,
			want: []string{"https://cdn/a.jpg", "https://cdn/b.jpg"},
		},
		{
			name: "string con array JSON adentro",
			raw:  `"[\"https://cdn/a.jpg\"]"`,
			want: []string{"https://cdn/a.jpg"},
		},
		{
			name: "string con array vacio",
			raw:  `"[]"`,
			want: []string{},
		},
		{
			name: "mezcla de objetos y strings",
			raw:  `["https://cdn/a.jpg",{"url":"https://cdn/b.jpg"}]`,
			want: []string{"https://cdn/a.jpg", "https://cdn/b.jpg"},
		},
		{
			name: "urls vacias se descartan",
			raw:  `["", {"url":""}, "https://cdn/a.jpg"]`,
			want: []string{"https://cdn/a.jpg"},
		},
		{
			name: "array vacio",
			raw:  `[]`,
			want: []string{},
		},
		{
			name: "vacio",
			raw:  ``,
			want: []string{},
		},
		{
			name: "basura no parseable",
			raw:  `{{{`,
			want: []string{},
		},
		{
			name: "string que no contiene array",
			raw:  `"not json"`,
			want: []string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeImages(json.RawMessage(tc.raw))
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("NormalizeImages(%q) = %#v, want %#v", tc.raw, got, tc.want)
			}
		})
	}
}
