package models

// Category is one of the fixed document classes the classifier chooses from.
type Category string

const (
	CategoryDietarySupplement Category = "Dietary Supplement"
	CategoryStationery        Category = "Stationery"
	CategoryKitchenSupplies   Category = "Kitchen Supplies"
	CategoryMedicine          Category = "Medicine"
	CategoryDriverLicense     Category = "Driver License"
	CategoryInvoice           Category = "Invoice"
	CategoryW2                Category = "W2"
	CategoryOther             Category = "Other"
)

var categories = []Category{
	CategoryDietarySupplement,
	CategoryStationery,
	CategoryKitchenSupplies,
	CategoryMedicine,
	CategoryDriverLicense,
	CategoryInvoice,
	CategoryW2,
	CategoryOther,
}

// Categories returns the closed category set in its canonical order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ParseCategory returns the category whose label matches s exactly.
func ParseCategory(s string) (Category, bool) {
	for _, c := range categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// SummaryFocus returns the emphasis instruction appended to summarization
// prompts for documents of this category.
func (c Category) SummaryFocus() string {
	switch c {
	case CategoryInvoice:
		return "Focus on vendor, amount, date, and items purchased."
	case CategoryW2:
		return "Focus on employer, employee, tax year, and key tax amounts."
	case CategoryDriverLicense:
		return "Focus on name, license number, expiration date, and restrictions."
	case CategoryMedicine:
		return "Focus on medication name, dosage, instructions, and prescriber."
	case CategoryDietarySupplement:
		return "Focus on product name, ingredients, dosage, and manufacturer."
	case CategoryKitchenSupplies:
		return "Focus on product names, quantities, and specifications."
	case CategoryStationery:
		return "Focus on items, quantities, and specifications."
	case CategoryOther:
		return genericFocus
	default:
		return genericFocus
	}
}

const genericFocus = "Focus on the main purpose and key information in the document."
