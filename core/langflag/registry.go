package langflag

import "strings"

// Registry maps canonical language codes to their flag.
// Variants are resolved in ForCode via normalization and base fallback.
var Registry = map[string]string{
	"ar":    "🇸🇦",
	"de":    "🇩🇪",
	"de-AT": "🇦🇹",
	"de-CH": "🇨🇭",
	"en":    "🇬🇧",
	"en-AU": "🇦🇺",
	"en-CA": "🇨🇦",
	"en-GB": "🇬🇧",
	"en-US": "🇺🇸",
	"es":    "🇪🇸",
	"es-AR": "🇦🇷",
	"es-MX": "🇲🇽",
	"fr":    "🇫🇷",
	"fr-BE": "🇧🇪",
	"fr-CA": "🇨🇦",
	"fr-CH": "🇨🇭",
	"he":    "🇮🇱",
	"hi":    "🇮🇳",
	"it":    "🇮🇹",
	"ja":    "🇯🇵",
	"ko":    "🇰🇷",
	"nl":    "🇳🇱",
	"pl":    "🇵🇱",
	"pt":    "🇧🇷",
	"pt-BR": "🇧🇷",
	"pt-PT": "🇵🇹",
	"ru":    "🇷🇺",
	"sv":    "🇸🇪",
	"tr":    "🇹🇷",
	"uk":    "🇺🇦",
	"zh":    "🇨🇳",
	"zh-CN": "🇨🇳",
	"zh-TW": "🇹🇼",
}

// canonicalize turns "pt_br" or " PT-br " into "pt-BR".
func canonicalize(code string) string {
	normalized := strings.ReplaceAll(clean(code), "_", "-")
	if normalized == "" {
		return ""
	}
	parts := strings.Split(normalized, "-")
	parts[0] = strings.ToLower(parts[0])
	if len(parts) >= 2 {
		parts[1] = strings.ToUpper(parts[1])
	}
	return strings.Join(parts, "-")
}

// ForCode returns the flag of a language code ("pt_BR", "en", "fr-LU"),
// falling back to the base language. It returns "" for unknown languages.
//
// Unlike FromCode, codes are language codes, not country codes: "en" gives the UK flag.
func ForCode(code string) string {
	normalized := canonicalize(code)
	if normalized == "" {
		return ""
	}
	if flag, ok := Registry[normalized]; ok {
		return flag
	}
	if parts := strings.SplitN(normalized, "-", 2); len(parts) == 2 {
		return Registry[parts[0]]
	}
	return ""
}
