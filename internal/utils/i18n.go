package utils

// Minimal server-side i18n for fixed keys.
// UI strings live in the frontend; server provides only essentials.

var translations = map[string]map[string]string{
	"es": {
		"health.ok":          "ok",
		"error.unauthorized": "credenciales inválidas",
		"error.forbidden":    "acceso denegado",
	},
	"en": {
		"health.ok":          "ok",
		"error.unauthorized": "invalid credentials",
		"error.forbidden":    "access denied",
	},
}

// T returns the translated string for key in locale; falls back to Spanish.
func T(locale, key string) string {
	if m, ok := translations[locale]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if m, ok := translations["es"]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	return key
}
