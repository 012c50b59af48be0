package core

import "strings"

// GLUnmapped is the sentinel GL code applied to rows whose activity or
// grade has no entry in dim_gl_mappings. Unmapped items are a normal
// condition (new activities, new grades) and never drop a row.
const GLUnmapped = "UNMAPPED"

// SaleClass is the settlement classification of a log-sales transaction.
// Only inter-company buyout sales ("Purchase") are credited against the
// settlement; direct third-party sales stay out of it entirely.
type SaleClass string

const (
	SalePurchase   SaleClass = "Purchase"
	SaleDirect     SaleClass = "Direct"
	SaleAdjustment SaleClass = "Adjustment"

	// SaleLegacyUnspecified marks rows saved before the sale_type column
	// existed. They are still counted as invoice-relevant so historical
	// settlements keep their original totals, but callers can audit them
	// separately from genuine Purchase rows.
	SaleLegacyUnspecified SaleClass = "LegacyUnspecified"
)

// ClassifySale maps the free-text sale_type field from the entry screen to
// a SaleClass. Matching is case-insensitive substring containment, the
// same policy the entry screen's dropdown values were designed around
// ("Purchase (Inv)", "Direct (Non-Inv)", "Adjustment").
func ClassifySale(saleType string) SaleClass {
	s := strings.ToLower(strings.TrimSpace(saleType))
	switch {
	case s == "":
		return SaleLegacyUnspecified
	case strings.Contains(s, "purchase"):
		return SalePurchase
	case strings.Contains(s, "adjustment"):
		return SaleAdjustment
	default:
		return SaleDirect
	}
}

// InvoiceRelevant reports whether sales of this class are credited against
// the inter-company settlement.
func (c SaleClass) InvoiceRelevant() bool {
	return c == SalePurchase || c == SaleLegacyUnspecified
}

// AnnotatedCost is a cost record tagged with its resolved GL account.
type AnnotatedCost struct {
	CostRecord
	GLCode string `json:"gl_code"`
	GLName string `json:"gl_name"`
}

// AnnotatedSale is a sales record tagged with its resolved GL account and
// settlement classification.
type AnnotatedSale struct {
	SalesRecord
	GLCode string    `json:"gl_code"`
	GLName string    `json:"gl_name"`
	Class  SaleClass `json:"class"`
}

// AnnotateCosts resolves each cost row's GL account from the cost map.
// Rows without a mapping degrade to the UNMAPPED sentinel with the
// activity's own name as the account description. Always returns exactly
// one annotated row per input row.
func AnnotateCosts(costs []CostRecord, glMap *GLMap) []AnnotatedCost {
	out := make([]AnnotatedCost, 0, len(costs))
	for _, c := range costs {
		ac := AnnotatedCost{CostRecord: c, GLCode: GLUnmapped, GLName: c.ActivityName}
		if entry, ok := glMap.Cost(c.ActivityID); ok {
			ac.GLCode = entry.Code
			ac.GLName = entry.Name
		}
		out = append(out, ac)
	}
	return out
}

// AnnotateSales resolves each sales row's GL account from the revenue map
// and classifies its sale type. The unmapped fallback description is
// "Log Sales - <grade_code>". Always returns exactly one annotated row
// per input row.
func AnnotateSales(sales []SalesRecord, glMap *GLMap) []AnnotatedSale {
	out := make([]AnnotatedSale, 0, len(sales))
	for _, s := range sales {
		as := AnnotatedSale{
			SalesRecord: s,
			GLCode:      GLUnmapped,
			GLName:      "Log Sales - " + s.GradeCode,
			Class:       ClassifySale(s.SaleType),
		}
		if entry, ok := glMap.Revenue(s.GradeID); ok {
			as.GLCode = entry.Code
			as.GLName = entry.Name
		}
		out = append(out, as)
	}
	return out
}
