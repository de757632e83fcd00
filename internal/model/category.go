package model

// Category is an immutable entry of the expense category catalog.
type Category struct {
	Name  string `json:"name" mapstructure:"name"`
	Color string `json:"color" mapstructure:"color"`
	Icon  string `json:"icon" mapstructure:"icon"`
	ID    int    `json:"id" mapstructure:"id"`
}

// UncategorizedID is the id of the placeholder category. Real catalog ids start at 1.
const UncategorizedID = 0

// Uncategorized is shown in place of a category whose id is not in the catalog.
var Uncategorized = Category{
	ID:    UncategorizedID,
	Name:  "Chưa phân loại",
	Color: "#a0a0a0",
	Icon:  "❓",
}

// OtherCategoryID is the catch-all "Khác" entry of the default catalog.
const OtherCategoryID = 8

// DefaultCategories returns a fresh copy of the built-in catalog.
func DefaultCategories() []Category {
	return []Category{
		{ID: 1, Name: "Ăn uống", Color: "#ff6b6b", Icon: "🍔"},
		{ID: 2, Name: "Di chuyển", Color: "#4ecdc4", Icon: "🚗"},
		{ID: 3, Name: "Mua sắm", Color: "#45b7d1", Icon: "🛍️"},
		{ID: 4, Name: "Giải trí", Color: "#f9ca24", Icon: "🎮"},
		{ID: 5, Name: "Y tế", Color: "#6c5ce7", Icon: "🏥"},
		{ID: 6, Name: "Giáo dục", Color: "#fd79a8", Icon: "📚"},
		{ID: 7, Name: "Gia đình", Color: "#00b894", Icon: "👨‍👩‍👧‍👦"},
		{ID: OtherCategoryID, Name: "Khác", Color: "#a0a0a0", Icon: "📝"},
	}
}

// Label renders the category as "icon name".
func (c Category) Label() string {
	if c.Icon == "" {
		return c.Name
	}
	return c.Icon + " " + c.Name
}
