package pattern

// DefaultRules returns the built-in rules for common Vietnamese merchants.
// Category ids refer to the default catalog.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:       "Food and drink",
			Pattern:    `\b(CAFE|COFFEE|HIGHLANDS|PHUC LONG|TRA SUA|PHO|BUN BO|RESTAURANT|NHA HANG|BAKERY|KFC|LOTTERIA|JOLLIBEE)\b`,
			IsRegex:    true,
			CategoryID: 1,
			Priority:   50,
		},
		{
			Name:       "Transport",
			Pattern:    `\b(GRAB|GOJEK|BE GROUP|XANH SM|TAXI|PETROLIMEX|XANG|VETC|VIETJET|VIETNAM AIRLINES|BAMBOO)\b`,
			IsRegex:    true,
			CategoryID: 2,
			Priority:   50,
		},
		{
			Name:       "Shopping",
			Pattern:    `\b(MART|SHOPEE|LAZADA|TIKI|WINMART|BACH HOA XANH|UNIQLO|THE GIOI DI DONG)\b`,
			IsRegex:    true,
			CategoryID: 3,
			Priority:   40,
		},
		{
			Name:       "Entertainment",
			Pattern:    `\b(CGV|LOTTE CINEMA|GALAXY CINEMA|NETFLIX|SPOTIFY|STEAM|YOUTUBE)\b`,
			IsRegex:    true,
			CategoryID: 4,
			Priority:   40,
		},
		{
			Name:       "Health",
			Pattern:    `\b(PHARMACY|NHA THUOC|LONG CHAU|PHARMACITY|BENH VIEN|HOSPITAL|CLINIC|PHONG KHAM)\b`,
			IsRegex:    true,
			CategoryID: 5,
			Priority:   60,
		},
		{
			Name:       "Education",
			Pattern:    `\b(HOC PHI|TUITION|FAHASA|UDEMY|COURSERA)\b`,
			IsRegex:    true,
			CategoryID: 6,
			Priority:   60,
		},
	}
}
