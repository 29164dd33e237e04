package models

// Category is a fixed label a story is published under
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:50;not null" json:"name"`
	Slug string `gorm:"uniqueIndex;size:50;not null" json:"slug"`
}

// TableName specifies the table name for Category model
func (Category) TableName() string {
	return "categories"
}

// DefaultCategories are seeded at startup if the table is empty
var DefaultCategories = []Category{
	{Name: "Adventure", Slug: "adventure"},
	{Name: "Romance", Slug: "romance"},
	{Name: "Mystery", Slug: "mystery"},
	{Name: "Fantasy", Slug: "fantasy"},
	{Name: "Science Fiction", Slug: "science-fiction"},
	{Name: "Horror", Slug: "horror"},
	{Name: "Slice of Life", Slug: "slice-of-life"},
	{Name: "Other", Slug: "other"},
}
