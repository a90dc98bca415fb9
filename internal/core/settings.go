package core

// Currency codes selectable in the web UI.
const (
	CurrencyTRY = "TRY"
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
	CurrencyGBP = "GBP"
)

type CurrencyInfo struct {
	Code   string
	Symbol string
	Name   string
}

var Currencies = []CurrencyInfo{
	{CurrencyTRY, "₺", "Turkish Lira"},
	{CurrencyUSD, "$", "US Dollar"},
	{CurrencyEUR, "€", "Euro"},
	{CurrencyGBP, "£", "British Pound"},
}

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

type Language string

const (
	LanguageTurkish Language = "tr"
	LanguageEnglish Language = "en"
)

// Settings are the per-installation display preferences.
type Settings struct {
	Theme    Theme
	Currency string
	Language Language
}

// DefaultSettings matches a first visit: light theme, Turkish lira, Turkish.
func DefaultSettings() Settings {
	return Settings{Theme: ThemeLight, Currency: CurrencyTRY, Language: LanguageTurkish}
}

func IsSupportedCurrency(code string) bool {
	for _, c := range Currencies {
		if c.Code == code {
			return true
		}
	}
	return false
}

// Normalize replaces unsupported values with their defaults.
func (s Settings) Normalize() Settings {
	def := DefaultSettings()
	if s.Theme != ThemeLight && s.Theme != ThemeDark {
		s.Theme = def.Theme
	}
	if !IsSupportedCurrency(s.Currency) {
		s.Currency = def.Currency
	}
	if s.Language != LanguageTurkish && s.Language != LanguageEnglish {
		s.Language = def.Language
	}
	return s
}
