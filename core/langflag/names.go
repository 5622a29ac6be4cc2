package langflag

import "strings"

type nameRule struct {
	flag       string
	substrings []string
}

// nameRules is checked in order, first match wins.
// Names come from a portuguese-speaking audience, hence "inglês" for English, etc.
var nameRules = []nameRule{
	{flag: "🇫🇷", substrings: []string{"francês", "frances", "français", "francais", "french"}},
	{flag: "🇬🇧", substrings: []string{"inglês", "ingles", "english"}},
	{flag: "🇪🇸", substrings: []string{"espanhol", "español", "espanol", "spanish"}},
	{flag: "🇩🇪", substrings: []string{"alemão", "alemao", "german", "deutsch"}},
	{flag: "🇮🇹", substrings: []string{"italiano", "italian"}},
	{flag: "🇧🇷", substrings: []string{"português", "portugues", "portuguese"}},
	{flag: "🇯🇵", substrings: []string{"japonês", "japones", "japanese", "日本"}},
	{flag: "🇨🇳", substrings: []string{"chinês", "chines", "chinese", "mandarim", "mandarin", "中文"}},
	{flag: "🇰🇷", substrings: []string{"coreano", "korean", "한국"}},
}

// FromName guesses a flag from a free-text language name ("Inglês avançado", "English").
// It returns "" when no known language is mentioned.
func FromName(name string) string {
	name = strings.ToLower(clean(name))
	if name == "" {
		return ""
	}
	for _, rule := range nameRules {
		for _, sub := range rule.substrings {
			if strings.Contains(name, sub) {
				return rule.flag
			}
		}
	}
	return ""
}
