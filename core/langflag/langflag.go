// Package langflag resolves the flag shown next to a language or a lesson module.
//
// API payloads carry language hints in many optional places: an explicit symbol, a country
// code, a short name or just a free-text name. Resolve walks them in a fixed priority order
// and returns the first flag it can build.
package langflag

import "strings"

// regionalIndicatorOffset maps an uppercase ASCII letter to its regional indicator symbol.
const regionalIndicatorOffset = 0x1F1E6 - 'A' // 127397

// Language is the language metadata attached to a lesson or a module.
type Language struct {
	Name      string `json:"name,omitempty"`
	Code      string `json:"code,omitempty"`
	ShortName string `json:"short_name,omitempty"`
	Flag      string `json:"flag,omitempty"`
	FlagIcon  string `json:"flag_icon,omitempty"`
	Icon      string `json:"icon,omitempty"`
}

// ModuleCarrier is the parent module of a Carrier.
type ModuleCarrier struct {
	Name         string    `json:"name,omitempty"`
	Language     *Language `json:"language,omitempty"`
	LanguageFlag string    `json:"language_flag,omitempty"`
	LanguageIcon string    `json:"language_icon,omitempty"`
	LanguageCode string    `json:"language_code,omitempty"`
}

// Carrier is any payload fragment holding language hints, e.g. a lesson or an exercise.
type Carrier struct {
	Language     *Language      `json:"language,omitempty"`
	LanguageFlag string         `json:"language_flag,omitempty"`
	LanguageIcon string         `json:"language_icon,omitempty"`
	LanguageCode string         `json:"language_code,omitempty"`
	Module       *ModuleCarrier `json:"module,omitempty"`
}

// Resolve returns the flag for c, or "" if none can be determined.
//
// Sources are tried in order:
//  1. the language objects (direct, then the module's): explicit symbol, then code, then short name
//  2. language_flag / language_icon (direct, then the module's)
//  3. language_code (direct, then the module's)
//  4. the first available name (language, module language, module), classified by substring
func Resolve(c *Carrier) string {
	if c == nil {
		return ""
	}
	mod := c.Module
	if mod == nil {
		mod = &ModuleCarrier{}
	}

	for _, lang := range []*Language{c.Language, mod.Language} {
		if flag := fromLanguage(lang); flag != "" {
			return flag
		}
	}

	if flag := Symbol(firstNonEmpty(c.LanguageFlag, c.LanguageIcon, mod.LanguageFlag, mod.LanguageIcon)); flag != "" {
		return flag
	}

	for _, code := range []string{c.LanguageCode, mod.LanguageCode} {
		if flag := FromCode(code); flag != "" {
			return flag
		}
	}

	var name string
	if c.Language != nil {
		name = clean(c.Language.Name)
	}
	if name == "" && mod.Language != nil {
		name = clean(mod.Language.Name)
	}
	if name == "" {
		name = clean(mod.Name)
	}
	if name == "" {
		return ""
	}
	return FromName(name)
}

func fromLanguage(lang *Language) string {
	if lang == nil {
		return ""
	}
	if flag := Symbol(firstNonEmpty(lang.Flag, lang.FlagIcon, lang.Icon)); flag != "" {
		return flag
	}
	if flag := FromCode(lang.Code); flag != "" {
		return flag
	}
	return FromCode(lang.ShortName)
}

// Symbol returns value as a flag: 2-letter codes are converted, anything else is
// assumed to already be a symbol and is returned trimmed.
func Symbol(value string) string {
	value = clean(value)
	if isLetterPair(value) {
		return FromCode(value)
	}
	return value
}

// FromCode converts a 2-letter ASCII country code ("br", "GB") into its flag emoji.
// It returns "" for anything else.
func FromCode(code string) string {
	code = clean(code)
	if !isLetterPair(code) {
		return ""
	}
	code = strings.ToUpper(code)
	return string([]rune{
		rune(code[0]) + regionalIndicatorOffset,
		rune(code[1]) + regionalIndicatorOffset,
	})
}

func isLetterPair(s string) bool {
	if len(s) != 2 {
		return false
	}
	for i := 0; i < 2; i++ {
		c := s[i] | 0x20 // lower
		if c < 'a' || c > 'z' {
			return false
		}
	}
	return true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = clean(v); v != "" {
			return v
		}
	}
	return ""
}

func clean(s string) string {
	return strings.TrimSpace(s)
}
