package notifier

import (
	"bytes"
	"html/template"

	"github.com/stationeryworks/stationery-backend/pkg/db/models"
)

const adminTemplateText = `<html>
<body>
<h2>New enquiry #{{.Enquiry.ID}}</h2>
<p><strong>{{.Enquiry.CustomerName}}</strong> &lt;{{.Enquiry.Email}}&gt; ({{.Enquiry.Phone}})</p>
<p>{{.Enquiry.Address}}</p>
<table border="1" cellpadding="4" cellspacing="0">
<tr><th>Product</th><th>Pack</th><th>Qty</th><th>Price</th><th>Total</th></tr>
{{range .Enquiry.Items}}<tr>
<td>{{.ProductName}}</td>
<td>{{.PackSize}}</td>
<td>{{.Quantity}}</td>
<td>{{.Price.StringFixed 2}}</td>
<td>{{.TotalPrice.StringFixed 2}}</td>
</tr>{{end}}
</table>
<p>Subtotal: {{.Enquiry.Subtotal.StringFixed 2}}<br>
Delivery: {{.Enquiry.Delivery.StringFixed 2}}<br>
<strong>Grand total: {{.Enquiry.GrandTotal.StringFixed 2}}</strong></p>
</body>
</html>`

const customerTemplateText = `<html>
<body>
<p>Dear {{.Enquiry.CustomerName}},</p>
<p>Thank you for your enquiry. Your reference number is <strong>#{{.Enquiry.ID}}</strong>.
Our team will contact you shortly to confirm availability and delivery.</p>
<table border="1" cellpadding="4" cellspacing="0">
<tr><th>Product</th><th>Pack</th><th>Qty</th><th>Price</th><th>Total</th></tr>
{{range .Enquiry.Items}}<tr>
<td>{{.ProductName}}</td>
<td>{{.PackSize}}</td>
<td>{{.Quantity}}</td>
<td>{{.Price.StringFixed 2}}</td>
<td>{{.TotalPrice.StringFixed 2}}</td>
</tr>{{end}}
</table>
<p>Subtotal: {{.Enquiry.Subtotal.StringFixed 2}}<br>
Delivery: {{.Enquiry.Delivery.StringFixed 2}}<br>
<strong>Grand total: {{.Enquiry.GrandTotal.StringFixed 2}}</strong></p>
<p>{{.FromName}}</p>
</body>
</html>`

var (
	adminTemplate    = template.Must(template.New("admin_enquiry").Parse(adminTemplateText))
	customerTemplate = template.Must(template.New("customer_enquiry").Parse(customerTemplateText))
)

type templateData struct {
	Enquiry  *models.Enquiry
	FromName string
}

func renderAdminBody(enquiry *models.Enquiry) (string, error) {
	var buf bytes.Buffer
	if err := adminTemplate.Execute(&buf, templateData{Enquiry: enquiry}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderCustomerBody(enquiry *models.Enquiry, fromName string) (string, error) {
	var buf bytes.Buffer
	if err := customerTemplate.Execute(&buf, templateData{Enquiry: enquiry, FromName: fromName}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
