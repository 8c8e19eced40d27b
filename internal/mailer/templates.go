package mailer

import "html/template"

// One template per business outcome. Status selects the template; the data
// is always the joined order.

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; color: #333;">
  <div style="text-align: center; margin-bottom: 30px;">
    <h1 style="color: #1a73e8; margin: 0;">Order Confirmed!</h1>
    <p style="font-size: 18px; color: #666;">Thank you for shopping with us</p>
  </div>

  <div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px; margin-bottom: 20px;">
    <h2 style="margin-top: 0; color: #1a73e8;">Order Details</h2>
    <p style="margin: 5px 0;">Order Number: <strong>#{{.OrderNumber}}</strong></p>
    <p style="margin: 5px 0;">Order Date: <strong>{{.CreatedAt.Format "Monday, January 2, 2006"}}</strong></p>
  </div>

  <div style="margin-bottom: 30px;">
    <h3 style="color: #1a73e8;">Items Ordered</h3>
    <table style="width: 100%; border-collapse: collapse;">
      {{range .Items}}
      <tr>
        <td style="padding: 12px; border-bottom: 1px solid #dee2e6;">
          <div style="font-weight: bold;">{{.Product.Title}}</div>
          <div style="color: #666; font-size: 14px;">{{.Variant.Name}}</div>
        </td>
        <td style="padding: 12px; text-align: center; border-bottom: 1px solid #dee2e6;">{{.Quantity}}</td>
      </tr>
      {{end}}
    </table>
  </div>

  <div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px;">
    <h3 style="margin-top: 0; color: #1a73e8;">Shipping Details</h3>
    <p style="margin: 5px 0;"><strong>{{.Customer.FullName}}</strong></p>
    <p style="margin: 5px 0;">{{.Customer.Address}}</p>
    <p style="margin: 5px 0;">{{.Customer.City}}, {{.Customer.State}} {{.Customer.ZipCode}}</p>
    <p style="margin: 5px 0;">{{.Customer.Email}}</p>
  </div>
</div>
`))

var processingTmpl = template.Must(template.New("processing").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; color: #333;">
  <div style="text-align: center; margin-bottom: 30px;">
    <h1 style="color: #fb8c00; margin: 0;">Order Processing</h1>
    <p style="font-size: 18px; color: #666;">We're working on your order</p>
  </div>

  <div style="background-color: #fff3e0; padding: 20px; border-radius: 8px; margin-bottom: 20px;">
    <p style="margin: 5px 0;">Order Number: <strong>#{{.OrderNumber}}</strong></p>
    <p style="margin: 5px 0;">Order Date: <strong>{{.CreatedAt.Format "Monday, January 2, 2006"}}</strong></p>
  </div>

  <div>
    <h3 style="color: #fb8c00;">Items in Your Order</h3>
    <table style="width: 100%; border-collapse: collapse;">
      {{range .Items}}
      <tr>
        <td style="padding: 12px; border-bottom: 1px solid #ffe0b2;">
          <div style="font-weight: bold;">{{.Product.Title}}</div>
          <div style="color: #666; font-size: 14px;">{{.Variant.Name}}</div>
        </td>
        <td style="padding: 12px; text-align: center; border-bottom: 1px solid #ffe0b2;">{{.Quantity}}</td>
      </tr>
      {{end}}
    </table>
  </div>
</div>
`))

var issueTmpl = template.Must(template.New("issue").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; color: #333;">
  <div style="text-align: center; margin-bottom: 30px;">
    <h1 style="color: #d93025; margin: 0;">Payment Issue</h1>
    <p style="font-size: 18px; color: #666;">There was a problem completing your payment</p>
  </div>

  <div style="background-color: #fce8e6; padding: 20px; border-radius: 8px; margin-bottom: 20px;">
    <p style="margin: 5px 0;">Order Number: <strong>#{{.OrderNumber}}</strong></p>
    <p style="margin: 5px 0;">Status: <strong>{{.Status}}</strong></p>
  </div>

  <p>Your items are reserved. You can retry the payment for this order at any
  time from the order page.</p>
</div>
`))
