package checkout

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/JelipeElGuapo/safebuzz/internal/cart"
)

// PaymentLink builds the pre-filled WhatsApp deep link the customer opens to
// settle the order. The message body lists each product on its own line.
func PaymentLink(number string, items []cart.Line) string {
	var b strings.Builder
	b.WriteString("Hola, quiero finalizar mi compra.\nProductos:")
	for _, l := range items {
		b.WriteString(fmt.Sprintf("\n- %s ($%.2f)", l.Name, l.Price))
	}

	return "https://wa.me/" + number + "?text=" + escapeComponent(b.String())
}

// escapeComponent matches JS encodeURIComponent: spaces become %20, not "+".
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
