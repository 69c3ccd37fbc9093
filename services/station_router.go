package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/satriajati/dinepos/models"
	"github.com/satriajati/dinepos/utils"
)

// Preparation sub-stations. Kitchen splits into main/grill/dessert; the bar
// has a single beverage station.
const (
	SubStationMain     = "main"
	SubStationGrill    = "grill"
	SubStationDessert  = "dessert"
	SubStationBeverage = "beverage"
)

// Category families that route an item to the bar.
var barCategories = map[string]bool{
	"drink":      true,
	"drinks":     true,
	"beverage":   true,
	"beverages":  true,
	"cocktail":   true,
	"cocktails":  true,
	"wine":       true,
	"beer":       true,
	"alcohol":    true,
	"soft-drink": true,
	"soft_drink": true,
	"juice":      true,
	"coffee":     true,
	"tea":        true,
}

// Category families that pin an item to a kitchen sub-station.
var grillCategories = map[string]bool{
	"grill":    true,
	"bbq":      true,
	"barbecue": true,
	"steak":    true,
}

var dessertCategories = map[string]bool{
	"dessert":   true,
	"desserts":  true,
	"cake":      true,
	"pastry":    true,
	"ice cream": true,
	"ice_cream": true,
	"sweet":     true,
}

// Name keywords that suggest a drink when the category says nothing.
var drinkKeywords = []string{
	"coffee", "espresso", "latte", "cappuccino", "tea", "juice", "soda",
	"cola", "wine", "beer", "cocktail", "mojito", "smoothie", "shake",
	"lemonade", "whiskey", "vodka",
}

// Food names that would otherwise be misrouted by a keyword match.
var keywordExceptions = []string{
	"coffee cake", "beer battered", "wine sauce", "rum cake", "tea leaf",
	"green tea cake", "whiskey glaze",
}

// IsDrink classifies a single line item. Category wins when it names a
// known family; the name heuristic only fills in when the category is
// absent or unrecognized.
func IsDrink(item models.OrderItem) bool {
	category := strings.ToLower(strings.TrimSpace(item.Category))
	if category != "" {
		if barCategories[category] {
			return true
		}
		if grillCategories[category] || dessertCategories[category] {
			return false
		}
		// Unknown category: fall through to the name heuristic.
	}

	name := strings.ToLower(item.Name)
	for _, exc := range keywordExceptions {
		if strings.Contains(name, exc) {
			return false
		}
	}
	for _, kw := range drinkKeywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

// StationFor returns the preparation station for an item.
func StationFor(item models.OrderItem) string {
	if IsDrink(item) {
		return models.StationBar
	}
	return models.StationKitchen
}

// SubStationFor refines the station into the physical prep area.
func SubStationFor(item models.OrderItem) string {
	if IsDrink(item) {
		return SubStationBeverage
	}
	category := strings.ToLower(strings.TrimSpace(item.Category))
	if grillCategories[category] {
		return SubStationGrill
	}
	if dessertCategories[category] {
		return SubStationDessert
	}
	return SubStationMain
}

// HasDrink reports whether any line item routes to the bar. An order shows
// on the bar display iff this holds.
func HasDrink(items models.OrderItemList) bool {
	for _, it := range items {
		if IsDrink(it) {
			return true
		}
	}
	return false
}

// SubStationsFor lists the distinct sub-stations an order's items touch,
// in first-seen order.
func SubStationsFor(items models.OrderItemList) []string {
	var out []string
	seen := map[string]bool{}
	for _, it := range items {
		s := SubStationFor(it)
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// RenderTicket produces the human-readable ticket for one sub-station,
// listing only the items that prep area is responsible for.
func RenderTicket(order *models.Order, ticket *models.StationTicket, subStation string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "======= %s TICKET =======\n", strings.ToUpper(subStation))
	fmt.Fprintf(&b, "Order #%d", order.ID)
	if order.TableNumber != nil {
		fmt.Fprintf(&b, "  Table %d", *order.TableNumber)
	}
	fmt.Fprintf(&b, "  [%s]\n", order.OrderType)
	fmt.Fprintf(&b, "Time: %s\n", time.Now().Format("15:04:05"))
	b.WriteString("-------------------------------\n")

	var subtotal float64
	for _, it := range order.Items {
		if SubStationFor(it) != subStation {
			continue
		}
		fmt.Fprintf(&b, "%-24s %8s\n", it.Name, utils.FormatCurrency(it.Price))
		for _, m := range it.Modifiers {
			fmt.Fprintf(&b, "  + %s\n", m)
		}
		subtotal += it.Price
	}
	if order.Notes != "" {
		fmt.Fprintf(&b, "Special requests: %s\n", order.Notes)
	}
	b.WriteString("-------------------------------\n")
	if ticket != nil {
		fmt.Fprintf(&b, "Status: %s\n", ticket.Status)
	}
	fmt.Fprintf(&b, "Station total: %s\n", utils.FormatCurrency(subtotal))
	fmt.Fprintf(&b, "Order total:   %s\n", utils.FormatCurrency(order.TotalAmount))

	return b.String()
}
