package httpapi

import (
	"errors"
	"fmt"
	"html/template"
	"log"
	"math"
	"net/http"
	"time"

	"kedai/backend/internal/domain"
	"kedai/backend/internal/export"
)

var invoiceTemplate = template.Must(template.New("invoice").
	Funcs(template.FuncMap{"money": formatMoney}).
	Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Invoice {{.Order.OrderNumber}}</title>
<style>
body { font-family: monospace; max-width: 420px; margin: 24px auto; }
h1 { font-size: 16px; text-align: center; }
.meta { font-size: 12px; margin-bottom: 12px; }
table { width: 100%; border-collapse: collapse; font-size: 12px; }
th, td { text-align: left; padding: 2px 4px; }
td.num, th.num { text-align: right; }
.totals { margin-top: 8px; border-top: 1px dashed #000; padding-top: 4px; }
.secondary { color: #444; }
footer { margin-top: 16px; text-align: center; font-size: 11px; }
</style>
</head>
<body>
<h1>{{.StoreName}}</h1>
<div class="meta">
{{if .StoreAddress}}{{.StoreAddress}}<br>{{end}}
{{if .StorePhone}}{{.StorePhone}}<br>{{end}}
Invoice: {{.Order.OrderNumber}}<br>
Date: {{.IssuedAt}}<br>
{{if .Order.CustomerName}}Customer: {{.Order.CustomerName}}<br>{{end}}
Payment: {{.Order.PaymentMethod}}
</div>
<table>
<tr><th>Item</th><th class="num">Qty</th><th class="num">Price</th><th class="num">Total</th></tr>
{{range .Order.Items}}
<tr>
<td>{{.ProductName}}</td>
<td class="num">{{.Qty}}</td>
<td class="num">{{money .UnitPriceCents}}</td>
<td class="num">{{money .TotalCents}}</td>
</tr>
{{end}}
</table>
<div class="totals">
<table>
<tr><td>Subtotal</td><td class="num">{{money .SubtotalCents}} {{.Currency}}</td></tr>
<tr><td>Tax ({{.TaxRate}}%)</td><td class="num">{{money .TaxCents}} {{.Currency}}</td></tr>
<tr><td><strong>Total</strong></td><td class="num"><strong>{{money .GrandTotalCents}} {{.Currency}}</strong></td></tr>
{{if .SecondaryCurrency}}
<tr class="secondary"><td>Total ({{.SecondaryCurrency}})</td><td class="num">{{.ConvertedTotal}}</td></tr>
{{end}}
</table>
</div>
<footer>Thank you!</footer>
</body>
</html>
`))

type invoiceData struct {
	Order             domain.Order
	StoreName         string
	StoreAddress      string
	StorePhone        string
	IssuedAt          string
	Currency          string
	SecondaryCurrency string
	TaxRate           string
	SubtotalCents     int64
	TaxCents          int64
	GrandTotalCents   int64
	ConvertedTotal    string
}

// handleInvoice renders a printable HTML invoice. The tax is computed from
// the configured rate over the order subtotal, rounded to the nearest cent;
// the secondary-currency total is shown in whole units at the configured
// exchange rate.
func (a *API) handleInvoice(w http.ResponseWriter, r *http.Request, orderID string) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	if orderID == "" {
		writeError(w, http.StatusBadRequest, errors.New("order id required"))
		return
	}

	order, err := a.service.GetOrder(r.Context(), orderID)
	if err != nil {
		writeError(w, statusFromError(err), err)
		return
	}
	settings, err := a.service.GetSettings(r.Context())
	if err != nil {
		writeError(w, statusFromError(err), err)
		return
	}

	subtotal := order.TotalCents
	tax := int64(math.Round(float64(subtotal) * settings.TaxRatePercent / 100))
	grand := subtotal + tax

	data := invoiceData{
		Order:             order,
		StoreName:         settings.StoreName,
		StoreAddress:      settings.StoreAddress,
		StorePhone:        settings.StorePhone,
		IssuedAt:          order.CreatedAt.UTC().Format("2006-01-02 15:04"),
		Currency:          settings.Currency,
		SecondaryCurrency: settings.SecondaryCurrency,
		TaxRate:           trimFloat(settings.TaxRatePercent),
		SubtotalCents:     subtotal,
		TaxCents:          tax,
		GrandTotalCents:   grand,
	}
	if settings.SecondaryCurrency != "" && settings.ExchangeRate > 0 {
		converted := math.Round(float64(grand) / 100 * settings.ExchangeRate)
		data.ConvertedTotal = fmt.Sprintf("%.0f %s", converted, settings.SecondaryCurrency)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := invoiceTemplate.Execute(w, data); err != nil {
		log.Printf("invoice render failed order=%s: %v", orderID, err)
	}
}

func formatMoney(cents int64) string {
	return fmt.Sprintf("%.2f", float64(cents)/100)
}

func trimFloat(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

// handleExport streams the admin xlsx report: inventory snapshot, stock
// ledger, and orders.
func (a *API) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	ctx := r.Context()
	inventory, err := a.service.ListInventory(ctx)
	if err != nil {
		writeError(w, statusFromError(err), err)
		return
	}
	transactions, err := a.service.ListTransactions(ctx, time.Time{}, 0)
	if err != nil {
		writeError(w, statusFromError(err), err)
		return
	}
	orders, err := a.service.ListOrders(ctx, "", 500)
	if err != nil {
		writeError(w, statusFromError(err), err)
		return
	}

	workbook, err := export.Workbook(inventory, transactions, orders)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	filename := fmt.Sprintf("report-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := workbook.Write(w); err != nil {
		log.Printf("export write failed: %v", err)
	}
}
