package model

// DefaultCategories returns the built-in category list used to seed a fresh
// store so local development works without provisioning.
func DefaultCategories() []*Category {
	return []*Category{
		{ID: "food", Name: "Food"},
		{ID: "housing", Name: "Housing"},
		{ID: "transportation", Name: "Transportation"},
		{ID: "entertainment", Name: "Entertainment"},
		{ID: "healthcare", Name: "Healthcare"},
		{ID: "utilities", Name: "Utilities"},
		{ID: "shopping", Name: "Shopping"},
		{ID: "education", Name: "Education"},
		{ID: "travel", Name: "Travel"},
		{ID: "other", Name: "Other"},
	}
}
