package email

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mailgun/mailgun-go/v4"
)

const sendTimeout = 10 * time.Second

// InvoiceMessage describe el correo de una nota fiscal emitida.
type InvoiceMessage struct {
	To           string
	Subject      string
	BodyTemplate string
	Variables    map[string]string
	PDF          []byte
	Ref          string
}

// Dispatcher envía correos de notas fiscales a través de Mailgun.
type Dispatcher struct {
	mg   mailgun.Mailgun
	from string
}

// NewDispatcher construye el despachador sobre un cliente Mailgun ya
// configurado. Se recibe la interfaz para poder inyectar dobles en tests.
func NewDispatcher(mg mailgun.Mailgun, from string) *Dispatcher {
	return &Dispatcher{mg: mg, from: from}
}

// NewMailgunDispatcher construye el despachador con un cliente real.
func NewMailgunDispatcher(domain, apiKey, from string) *Dispatcher {
	return NewDispatcher(mailgun.NewMailgun(domain, apiKey), from)
}

// SendInvoice renderiza la plantilla, arma el HTML y envía el correo con
// el PDF adjunto como nota-fiscal-<ref>.pdf.
func (d *Dispatcher) SendInvoice(ctx context.Context, msg InvoiceMessage) error {
	now := time.Now()
	subject := RenderTemplate(msg.Subject, msg.Variables, now)
	body := RenderTemplate(msg.BodyTemplate, msg.Variables, now)

	message := mailgun.NewMessage(d.from, subject, body, msg.To)
	message.SetHTML(buildHTML(body))
	message.AddBufferAttachment("nota-fiscal-"+msg.Ref+".pdf", msg.PDF)

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if _, _, err := d.mg.Send(ctx, message); err != nil {
		return fmt.Errorf("error enviando correo a %s: %w", msg.To, err)
	}
	return nil
}

// buildHTML envuelve el cuerpo renderizado en la plantilla visual fija
// del producto.
func buildHTML(body string) string {
	return strings.Join([]string{
		`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">`,
		`<h2 style="color: #1a1a1a; border-bottom: 2px solid #e5e5e5; padding-bottom: 10px;">Nota Fiscal</h2>`,
		`<div style="color: #333; line-height: 1.6; white-space: pre-wrap;">` + body + `</div>`,
		`<hr style="border: none; border-top: 1px solid #e5e5e5; margin: 20px 0;" />`,
		`<p style="color: #888; font-size: 12px;">Enviado automaticamente por Despacha Nota</p>`,
		`</div>`,
	}, "\n")
}
