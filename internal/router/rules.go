package router

import (
	"strings"

	"github.com/dukaan-dev/sahayak/internal/command"
)

// Rule priorities. Most lexically specific rules carry the highest
// priorities; bare catch-alls sit at the bottom. The numbers are spaced
// so new rules can slot in without renumbering.
const (
	prioLearnAlias     = 100
	prioAddExpense     = 95
	prioSpentOn        = 94
	prioDataModNumeric = 90
	prioDataModLoose   = 89
	prioDiscount       = 88
	prioDiscountOf     = 87
	prioHoldBill       = 86
	prioUnholdBill     = 85
	prioClearCart      = 84
	prioBillLookup     = 82
	prioCustomer       = 80
	prioForecastRunOut = 78
	prioForecast       = 77
	prioPurchaseOrder  = 76
	prioInventoryQuery = 74
	prioReportQuery    = 72
	prioAnalytics      = 70
	prioCheckStockOf   = 68
	prioCheckStockSfx  = 67
	prioHowMuchLeft    = 66
	prioNavigate       = 64
	prioModifyItem     = 60
	prioRemoveItem     = 58
	prioAddItem        = 50
	prioBareQtyItem    = 45
)

// screenNames maps spoken screen names onto the front end's canonical
// screen identifiers.
var screenNames = map[string]string{
	"billing":   "billing",
	"bills":     "billing",
	"inventory": "inventory",
	"stock":     "inventory",
	"reports":   "reports",
	"expenses":  "expenses",
	"settings":  "settings",
	"customers": "customers",
	"dashboard": "dashboard",
	"home":      "dashboard",
}

// defaultRules is the production rule table. Order is declared through
// Priority, not slice position.
func defaultRules() []Rule {
	return []Rule{
		rx("learn-alias", prioLearnAlias,
			`^(?:learn|remember)(?: that)? ([a-z0-9]+) (?:is|as|means) ([a-z0-9]+)$`,
			func(rt *Router, g []string, _ string) *command.Command {
				return command.NewLearnAlias(g[1], g[2])
			}),

		rx("add-expense", prioAddExpense,
			`^(?:add |record |note )?(?:an? )?expense (?:of )?(?:rs\.? )?(\d+(?:\.\d+)?)(?: rupees)?(?: (?:for|on|towards) (.+))?$`,
			func(rt *Router, g []string, _ string) *command.Command {
				return command.NewAddExpense(parseNumber(g[1]), strings.TrimSpace(g[2]))
			}),

		rx("add-expense-spent", prioSpentOn,
			`^(?:i )?spent (?:rs\.? )?(\d+(?:\.\d+)?)(?: rupees)? (?:on|for) (.+)$`,
			func(rt *Router, g []string, _ string) *command.Command {
				return command.NewAddExpense(parseNumber(g[1]), strings.TrimSpace(g[2]))
			}),

		rx("data-modification", prioDataModNumeric,
			`^(?:set|change|update|make) (?:the )?(price|stock|discount|min stock) (?:of|for) (.+?) (?:to|as) (\d+(?:\.\d+)?)$`,
			func(rt *Router, g []string, _ string) *command.Command {
				target := strings.ReplaceAll(g[1], " ", "-")
				return command.NewDataModification(target, rt.resolveName(g[2]), parseNumber(g[3]))
			}),

		// Loose variant: value did not look numeric. Value stays nil so
		// the caller re-prompts instead of guessing.
		rx("data-modification-loose", prioDataModLoose,
			`^(?:set|change|update) (?:the )?(price|stock|discount|min stock) (?:of|for) (.+?) to (.+)$`,
			func(rt *Router, g []string, _ string) *command.Command {
				target := strings.ReplaceAll(g[1], " ", "-")
				return command.NewDataModification(target, rt.resolveName(g[2]), parseNumber(g[3]))
			}),

		rx("apply-discount", prioDiscount,
			`^(?:give |apply |add )?(\d+(?:\.\d+)?) ?(?:%|percent|per cent) discount(?: (?:on|for) (.+))?$`,
			func(rt *Router, g []string, _ string) *command.Command {
				pct := parseNumber(g[1])
				if pct == nil {
					pct = command.Float(0)
				}
				return command.NewApplyDiscount(*pct, rt.resolveName(g[2]))
			}),

		rx("apply-discount-of", prioDiscountOf,
			`^discount (?:of )?(\d+(?:\.\d+)?) ?(?:%|percent|per cent)?(?: (?:on|for) (.+))?$`,
			func(rt *Router, g []string, _ string) *command.Command {
				pct := parseNumber(g[1])
				if pct == nil {
					pct = command.Float(0)
				}
				return command.NewApplyDiscount(*pct, rt.resolveName(g[2]))
			}),

		rx("hold-bill", prioHoldBill,
			`^(?:hold|park|pause) (?:the |this )?bill$`,
			func(rt *Router, _ []string, _ string) *command.Command {
				return command.NewHoldBill()
			}),

		rx("unhold-bill", prioUnholdBill,
			`^(?:unhold|resume|continue|bring back) (?:the |that )?bill$`,
			func(rt *Router, _ []string, _ string) *command.Command {
				return command.NewUnholdBill()
			}),

		rx("clear-cart", prioClearCart,
			`^(?:(?:clear|empty|cancel) (?:the |this )?(?:cart|bill)|start over)$`,
			func(rt *Router, _ []string, _ string) *command.Command {
				return command.NewClearCart()
			}),

		rx("bill-lookup", prioBillLookup,
			`^(?:(?:show|open|find|get|pull up) )?bill (?:number |no\.? |#)?(\d+)$`,
			func(rt *Router, g []string, _ string) *command.Command {
				return command.NewBillLookup(g[1])
			}),

		rx("customer-lookup", prioCustomer,
			`^(?:find|show|search|look up)(?: for)? customer (.+)$`,
			func(rt *Router, g []string, _ string) *command.Command {
				return command.NewCustomerLookup(rt.resolveName(g[1]))
			}),

		rx("inventory-forecast-runout", prioForecastRunOut,
			`^when (?:will|does) (.+?) (?:run out|finish|get over|be over)$`,
			func(rt *Router, g []string, _ string) *command.Command {
				return command.NewInventoryForecast(rt.resolveName(g[1]))
			}),

		rx("inventory-forecast", prioForecast,
			`^forecast (?:stock |inventory )?(?:for |of )?(.+)$`,
			func(rt *Router, g []string, _ string) *command.Command {
				return command.NewInventoryForecast(rt.resolveName(g[1]))
			}),

		rx("purchase-order", prioPurchaseOrder,
			`^(?:(?:generate|create|make|prepare) (?:a |the )?purchase order|what (?:should|do) i (?:need to )?(?:reorder|order|buy))$`,
			func(rt *Router, _ []string, _ string) *command.Command {
				return command.NewPurchaseOrder()
			}),

		rx("inventory-low", prioInventoryQuery,
			`^(?:show |list |which items are (?:in |on )?)?low (?:on )?stock(?: items)?$`,
			func(rt *Router, _ []string, _ string) *command.Command {
				return command.NewInventoryQuery("low")
			}),

		rx("inventory-out", prioInventoryQuery,
			`^(?:show |list |which items are )?out of stock(?: items)?$`,
			func(rt *Router, _ []string, _ string) *command.Command {
				return command.NewInventoryQuery("out")
			}),

		rx("inventory-all", prioInventoryQuery-1,
			`^(?:show |list )?(?:inventory|all items|stock list)$`,
			func(rt *Router, _ []string, _ string) *command.Command {
				return command.NewInventoryQuery("all")
			}),

		// The report rule matches against the combined phrase corpus
		// (compiled once, see reports.go), then lifts the period out of
		// the surrounding text.
		{
			Name:     "report-query",
			Priority: prioReportQuery,
			Recognize: func(utterance string) []string {
				report := matchReportPhrase(utterance)
				if report == "" {
					return nil
				}
				return []string{report, extractPeriod(utterance)}
			},
			Extract: func(rt *Router, g []string, _ string) *command.Command {
				return command.NewReportQuery(g[0], g[1])
			},
		},

		rx("analytics-best-seller", prioAnalytics,
			`\b(?:best|top) ?sell(?:ing|er)\b`,
			func(rt *Router, _ []string, u string) *command.Command {
				return command.NewAnalyticsQuery("best-seller", extractPeriod(u))
			}),

		rx("analytics-total-sales", prioAnalytics,
			`\b(?:how much did (?:i|we) sell|total sales?|sales? total)\b`,
			func(rt *Router, _ []string, u string) *command.Command {
				return command.NewAnalyticsQuery("total-sales", extractPeriod(u))
			}),

		rx("analytics-customer-count", prioAnalytics,
			`\bhow many (?:customers|bills|grahak)\b`,
			func(rt *Router, _ []string, u string) *command.Command {
				return command.NewAnalyticsQuery("customer-count", extractPeriod(u))
			}),

		rx("analytics-average-bill", prioAnalytics,
			`\baverage bill\b`,
			func(rt *Router, _ []string, u string) *command.Command {
				return command.NewAnalyticsQuery("average-bill", extractPeriod(u))
			}),

		rx("check-stock-of", prioCheckStockOf,
			`^(?:check |how much |what is (?:the )?)?stock (?:of|for) (.+)$`,
			func(rt *Router, g []string, _ string) *command.Command {
				return command.NewCheckStock(rt.resolveName(g[1]))
			}),

		rx("check-stock-suffix", prioCheckStockSfx,
			`^(?:check )?(.+?) stock$`,
			func(rt *Router, g []string, _ string) *command.Command {
				return command.NewCheckStock(rt.resolveName(g[1]))
			}),

		rx("check-stock-left", prioHowMuchLeft,
			`^how (?:much|many) (.+?) (?:do (?:i|we) have|is left|are left|left)$`,
			func(rt *Router, g []string, _ string) *command.Command {
				return command.NewCheckStock(rt.resolveName(g[1]))
			}),

		rx("navigate", prioNavigate,
			`^(?:open|go to|take me to|show) (?:the )?(billing|bills|inventory|stock|reports|expenses|settings|customers|dashboard|home)(?: screen| page| tab| section)?$`,
			func(rt *Router, g []string, _ string) *command.Command {
				return command.NewNavigate(screenNames[g[1]])
			}),

		rx("modify-item", prioModifyItem,
			`^(?:make|change|set) (?:the )?(?:qty|quantity) (?:of|for) (.+?) to (\d+(?:\.\d+)?)$`,
			func(rt *Router, g []string, _ string) *command.Command {
				return command.NewModifyItem(rt.resolveName(g[1]), parseNumber(g[2]))
			}),

		rx("remove-item", prioRemoveItem,
			`^(?:remove|delete|take (?:off|out)) (?:(\d+(?:\.\d+)?) )?(.+?)(?: from (?:the )?(?:bill|cart))?$`,
			func(rt *Router, g []string, _ string) *command.Command {
				return command.NewRemoveItem(rt.resolveName(g[2]), parseNumber(g[1]))
			}),

		// Generic add catch-all. Quantity may be absent; the payload
		// then carries nil and the caller re-prompts.
		rx("add-item", prioAddItem,
			`^(?:add|put) (?:(\d+(?:\.\d+)?) )?(.+?)(?: (?:to|in|into) (?:the )?(?:bill|cart))?$`,
			func(rt *Router, g []string, _ string) *command.Command {
				return command.NewAddItem(rt.resolveName(g[2]), parseNumber(g[1]))
			}),

		rx("bare-qty-item", prioBareQtyItem,
			`^(\d+(?:\.\d+)?) ([a-z][a-z ]*)$`,
			func(rt *Router, g []string, _ string) *command.Command {
				return command.NewAddItem(rt.resolveName(g[2]), parseNumber(g[1]))
			}),
	}
}
