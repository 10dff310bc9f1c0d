package workflow

import "strings"

// Category groups step types for UI display; it has no effect on the
// graph algorithms.
type Category string

const (
	CategoryTrigger Category = "trigger"
	CategoryAction  Category = "action"
	CategoryLogic   Category = "logic"
	CategoryData    Category = "data"
	CategoryMarket  Category = "market"
)

// catalog maps every known step type to its category. Step types are
// opaque tags; unknown tags are still legal in a graph and simply have no
// category or documented outputs.
var catalog = map[string]Category{
	"timer_trigger":   CategoryTrigger,
	"price_trigger":   CategoryTrigger,
	"webhook_trigger": CategoryTrigger,
	"wallet_transfer": CategoryAction,
	"notification":    CategoryAction,
	"http_request":    CategoryAction,
	"branch":          CategoryLogic,
	"delay":           CategoryLogic,
	"wallet_balance":  CategoryData,
	"token_metadata":  CategoryData,
	"jupiter_swap":    CategoryMarket,
	"price_lookup":    CategoryMarket,
}

// CategoryOf returns the category for a step type, or "" if the type is
// not in the catalog.
func CategoryOf(stepType string) Category {
	return catalog[stepType]
}

// IsTrigger reports whether a step type belongs to the trigger category.
// Trigger types follow the "_trigger" suffix convention, which also covers
// custom trigger types not present in the catalog.
func IsTrigger(stepType string) bool {
	return strings.HasSuffix(stepType, "_trigger")
}

// outputSchemas maps a step type to the named output fields it produces
// at run time. This is the static registry backing reference-expression
// suggestions; types absent here degrade to the whole-output reference
// only.
var outputSchemas = map[string][]string{
	"timer_trigger":   {"firedAt", "iteration"},
	"price_trigger":   {"price", "token", "firedAt"},
	"webhook_trigger": {"payload", "headers"},
	"wallet_transfer": {"signature", "amount", "recipient"},
	"notification":    {"delivered", "channel"},
	"http_request":    {"status", "body"},
	"branch":          {"result"},
	"delay":           {"resumedAt"},
	"wallet_balance":  {"balance", "token"},
	"token_metadata":  {"symbol", "name", "decimals"},
	"jupiter_swap":    {"signature", "inAmount", "outAmount", "priceImpact"},
	"price_lookup":    {"price", "token", "updatedAt"},
}

// OutputFields returns the documented output field names for a step type.
// The result is nil for undocumented types and must not be mutated.
func OutputFields(stepType string) []string {
	return outputSchemas[stepType]
}
