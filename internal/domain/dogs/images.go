package dogs

import "encoding/json"

// NormalizeImages convierte cualquiera de los formatos históricos de imágenes
// a la representación canónica: lista plana de URLs.
//
// Formatos tolerados:
//   - lista de objetos {"url": "..."} (tabla dog_images serializada)
//   - lista de strings
//   - string con un array JSON adentro (columna legacy `images` TEXT)
//
// Cualquier cosa no parseable normaliza a lista vacía; las URLs vacías se
// descartan. La lógica de negocio nunca ve los formatos crudos.
func NormalizeImages(raw json.RawMessage) []string {
	out := make([]string, 0)
	if len(raw) == 0 {
		return out
	}

	// Caso legacy: el valor es un string que contiene un array JSON.
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		if encoded == "" {
			return out
		}
		var urls []string
		if err := json.Unmarshal([]byte(encoded), &urls); err != nil {
			return out
		}
		return appendNonEmpty(out, urls)
	}

	// Caso moderno: array de objetos {url} o de strings (mezclables).
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return out
	}

	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			if s != "" {
				out = append(out, s)
			}
			continue
		}

		var obj struct {
			URL string `json:"url"`
		}
		if err := json.Unmarshal(item, &obj); err == nil && obj.URL != "" {
			out = append(out, obj.URL)
		}
	}

	return out
}

func appendNonEmpty(dst []string, urls []string) []string {
	for _, u := range urls {
		if u != "" {
			dst = append(dst, u)
		}
	}
	return dst
}
