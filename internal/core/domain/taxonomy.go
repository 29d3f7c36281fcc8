package domain

// SubCategoryGroup is a labelled set of sub-category leaf items under an
// expense category.
type SubCategoryGroup struct {
	Label string   `json:"label"`
	Items []string `json:"items"`
}

// expenseTaxonomy is the fixed two-level table mapping an expense category to
// its grouped sub-categories. Categories absent from this table simply have no
// sub-categories; that is not an error.
var expenseTaxonomy = map[string][]SubCategoryGroup{
	"Brokerage Fees": {
		{Label: "Customs", Items: []string{"Import Processing", "Export Processing", "Customs Bonds"}},
		{Label: "Documentation", Items: []string{"Permits & Licenses", "Notarial Fees"}},
	},
	"Trucking & Delivery": {
		{Label: "Fleet", Items: []string{"Fuel", "Repairs & Maintenance", "Toll Fees", "Parking Fees"}},
		{Label: "Third Party", Items: []string{"Subcontracted Hauling", "Courier"}},
	},
	"Port Charges": {
		{Label: "Terminal", Items: []string{"Arrastre", "Wharfage", "Storage", "Demurrage"}},
		{Label: "Handling", Items: []string{"Stripping/Stuffing", "Weighing"}},
	},
	"Office & Admin": {
		{Label: "Facilities", Items: []string{"Rent", "Utilities", "Communications"}},
		{Label: "Supplies", Items: []string{"Office Supplies", "Printing"}},
	},
	"Personnel": {
		{Label: "Compensation", Items: []string{"Salaries & Wages", "Allowances", "Overtime"}},
		{Label: "Benefits", Items: []string{"Government Contributions", "HMO"}},
	},
	"Travel & Representation": {
		{Label: "Travel", Items: []string{"Transportation", "Accommodation", "Per Diem"}},
		{Label: "Representation", Items: []string{"Client Meetings", "Meals"}},
	},
}

// revenueCategories classify billing vouchers. Disjoint from the expense
// table and flat: revenue lines carry no sub-categories.
var revenueCategories = []string{
	"Brokerage Income",
	"Freight Income",
	"Trucking Income",
	"Storage & Warehousing Income",
	"Other Income",
}

// ExpenseCategories lists the known expense categories in a stable order.
func ExpenseCategories() []string {
	return []string{
		"Brokerage Fees",
		"Trucking & Delivery",
		"Port Charges",
		"Office & Admin",
		"Personnel",
		"Travel & Representation",
	}
}

// SubCategoriesFor returns the grouped sub-categories for an expense
// category. An unknown category yields an empty slice: callers must treat
// "no sub-categories" as "sub-category optional", never as a validation
// failure.
func SubCategoriesFor(category string) []SubCategoryGroup {
	groups, ok := expenseTaxonomy[category]
	if !ok {
		return []SubCategoryGroup{}
	}
	return groups
}

// RevenueCategories lists the categories available to billing vouchers.
func RevenueCategories() []string {
	out := make([]string, len(revenueCategories))
	copy(out, revenueCategories)
	return out
}
