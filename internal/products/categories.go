package product

// AllCategoriesID is the sentinel meaning "no category restriction".
const AllCategoriesID = "-1"

// Category is an id/display-name pair from the fixed catalog taxonomy.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var categories = []Category{
	{ID: "1", Name: "Clothing"},
	{ID: "2", Name: "Electronics"},
	{ID: "3", Name: "Books"},
	{ID: "4", Name: "Home & Kitchen"},
	{ID: "5", Name: "Sports"},
	{ID: "6", Name: "Beauty"},
}

// Categories returns the fixed category list, sentinel excluded.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// CategoryByID looks up a category by its id.
func CategoryByID(id string) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}
