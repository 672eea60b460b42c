package focusnfe

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/despachanota/despachanota-api/internal/domain"
)

// ── Entornos del API Focus NFe ────────────────────────────────────────────────

const (
	// EnvHomologacao ambiente de pruebas del API fiscal.
	EnvHomologacao = "homologacao"
	// EnvProducao ambiente de producción.
	EnvProducao = "producao"

	baseURLHomologacao = "https://homologacao.focusnfe.com.br"
	baseURLProducao    = "https://api.focusnfe.com.br"
)

// Estados de salud del API, medidos por el probe.
const (
	HealthOnline  = "online"
	HealthSlow    = "slow"
	HealthOffline = "offline"
)

const (
	healthTimeout   = 10 * time.Second
	slowThreshold   = 5 * time.Second
	maxResponseBody = 1 << 20 // 1 MB
)

// Client habla con el API REST de Focus NFe: emitir, consultar estado,
// descargar el documento renderizado y sondear disponibilidad.
// Usa net/http de la stdlib con timeout de red generoso (60 s): la emisión
// puede tardar varios segundos del lado de la prefeitura.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient construye el cliente para el entorno dado ("homologacao" o
// "producao"; cualquier otro valor cae a homologación). token es la
// credencial estática del deployment.
func NewClient(token, environment string) *Client {
	baseURL := baseURLHomologacao
	if environment == EnvProducao {
		baseURL = baseURLProducao
	}
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// NewClientWithBaseURL construye el cliente contra una URL base arbitraria
// (tests con httptest).
func NewClientWithBaseURL(token, baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// authHeader autenticación Basic del API: base64(token + ":").
func (c *Client) authHeader() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(c.token+":"))
}

// Emit envía el payload de la NFS-e bajo la referencia dada.
// POST /v2/nfse?ref=<ref>
func (c *Client) Emit(ctx context.Context, ref string, payload *Payload) (*EmissionResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("focusnfe: serializar payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v2/nfse?ref="+ref, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("focusnfe: crear request: %w", err)
	}
	req.Header.Set("Authorization", c.authHeader())
	req.Header.Set("Content-Type", "application/json")

	return c.doEmissionRequest(req, "emitir")
}

// GetStatus consulta el estado de una emisión por referencia.
// GET /v2/nfse/<ref>
func (c *Client) GetStatus(ctx context.Context, ref string) (*EmissionResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/nfse/"+ref, nil)
	if err != nil {
		return nil, fmt.Errorf("focusnfe: crear request: %w", err)
	}
	req.Header.Set("Authorization", c.authHeader())

	return c.doEmissionRequest(req, "consultar")
}

func (c *Client) doEmissionRequest(req *http.Request, op string) (*EmissionResponse, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s NFS-e: %v", domain.ErrExternalService, op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("%w: leer respuesta: %v", domain.ErrExternalService, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s NFS-e: HTTP %d - %s",
			domain.ErrExternalService, op, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out EmissionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: respuesta no es JSON válido: %s",
			domain.ErrExternalService, strings.TrimSpace(string(raw)))
	}
	out.Raw = raw
	return &out, nil
}

// GetDocument descarga el PDF renderizado de una emisión: primero consulta el
// estado para resolver la URL del documento y luego lo baja.
func (c *Client) GetDocument(ctx context.Context, ref string) ([]byte, error) {
	status, err := c.GetStatus(ctx, ref)
	if err != nil {
		return nil, err
	}

	loc := status.PDFLocation()
	if loc == "" {
		return nil, fmt.Errorf("%w: el documento aún no está disponible para %s",
			domain.ErrExternalService, ref)
	}
	// caminho_danfe puede venir como path relativo al API
	if !strings.HasPrefix(loc, "http") {
		loc = c.baseURL + loc
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc, nil)
	if err != nil {
		return nil, fmt.Errorf("focusnfe: crear request: %w", err)
	}
	req.Header.Set("Authorization", c.authHeader())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: descargar documento: %v", domain.ErrExternalService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: descargar documento: HTTP %d",
			domain.ErrExternalService, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 10<<20)) // PDFs chicos, 10 MB de margen
}

// CheckHealth sondea la disponibilidad del API con timeout acotado de 10 s.
// Cualquier estado fuera de éxito/404 — o el timeout — cuenta como offline;
// una respuesta que tarda más de 5 s cuenta como slow.
func (c *Client) CheckHealth(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v2/nfse?ref=health_check", nil)
	if err != nil {
		return HealthOffline
	}
	req.Header.Set("Authorization", c.authHeader())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return HealthOffline
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBody))

	elapsed := time.Since(start)
	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if !ok && resp.StatusCode != http.StatusNotFound {
		return HealthOffline
	}
	if elapsed > slowThreshold {
		return HealthSlow
	}
	return HealthOnline
}
