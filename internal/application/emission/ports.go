package emission

import (
	"context"

	"github.com/despachanota/despachanota-api/internal/infrastructure/email"
	"github.com/despachanota/despachanota-api/internal/infrastructure/focusnfe"
)

// Gateway operaciones del API fiscal que consume el orquestador.
type Gateway interface {
	Emit(ctx context.Context, ref string, payload *focusnfe.Payload) (*focusnfe.EmissionResponse, error)
	GetDocument(ctx context.Context, ref string) ([]byte, error)
}

// GatewayFactory construye un gateway autenticado con el token ya descifrado
// del usuario. El token vive cifrado en user_settings, así que el cliente no
// puede construirse una sola vez en el arranque.
type GatewayFactory func(token string) Gateway

// EmailSender puerto del despachador de correo.
type EmailSender interface {
	SendInvoice(ctx context.Context, msg email.InvoiceMessage) error
}
