package checkout

import (
	"fmt"
	"net/url"
	"strings"

	"kobetex/models"
)

// FCFAPerUSD is the static conversion rate shown in outbound
// summaries. Approximate on purpose; the FCFA amount is authoritative.
const FCFAPerUSD = 600

// WhatsAppLink builds the wa.me deep link that opens the support chat
// pre-filled with an order summary.
func WhatsAppLink(supportPhone string, t models.Transaction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Nouvelle commande #%d\n", t.ID)
	fmt.Fprintf(&b, "Client: %s (%s)\n", t.Name, t.Phone)
	fmt.Fprintf(&b, "Paiement: %s — réf %s\n\n", t.Method, t.PaymentRef)
	for _, it := range t.Items {
		fmt.Fprintf(&b, "- %s : %d FCFA\n", it.Name, it.Price)
	}
	fmt.Fprintf(&b, "\nTotal: %d FCFA (≈ $%.2f USD)", t.Amount, float64(t.Amount)/FCFAPerUSD)

	return "https://wa.me/" + supportPhone + "?text=" + url.QueryEscape(b.String())
}
