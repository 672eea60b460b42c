package focusnfe_test

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/despachanota/despachanota-api/internal/domain"
	"github.com/despachanota/despachanota-api/internal/infrastructure/focusnfe"
)

// testClient apunta el cliente a un httptest.Server.
func testClient(t *testing.T, handler http.HandlerFunc) *focusnfe.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return focusnfe.NewClientWithBaseURL("token-de-teste", srv.URL)
}

func TestEmit_Exito(t *testing.T) {
	var gotAuth, gotPath, gotQuery string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"ref":"dn-abc","status":"processando_autorizacao"}`))
	})

	resp, err := c.Emit(context.Background(), "dn-abc", &focusnfe.Payload{})
	require.NoError(t, err)

	assert.Equal(t, "dn-abc", resp.Ref)
	assert.Equal(t, "processando_autorizacao", resp.Status)
	assert.JSONEq(t, `{"ref":"dn-abc","status":"processando_autorizacao"}`, string(resp.Raw),
		"Raw debe conservar el cuerpo verbatim")

	assert.Equal(t, "/v2/nfse", gotPath)
	assert.Equal(t, "ref=dn-abc", gotQuery)
	wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("token-de-teste:"))
	assert.Equal(t, wantAuth, gotAuth)
}

func TestEmit_ErrorHTTP(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"codigo":"erro_validacao","mensagem":"cnpj_prestador invalido"}`))
	})

	_, err := c.Emit(context.Background(), "dn-err", &focusnfe.Payload{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExternalService)
	assert.Contains(t, err.Error(), "422")
	assert.Contains(t, err.Error(), "cnpj_prestador invalido",
		"el cuerpo de error del API debe viajar en el mensaje")
}

func TestGetStatus(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/nfse/dn-xyz", r.URL.Path)
		_, _ = w.Write([]byte(`{"ref":"dn-xyz","status":"autorizado","url_danfe":"https://cdn.example/nf.pdf"}`))
	})

	resp, err := c.GetStatus(context.Background(), "dn-xyz")
	require.NoError(t, err)
	assert.Equal(t, "autorizado", resp.Status)
	assert.Equal(t, "https://cdn.example/nf.pdf", resp.PDFLocation())
}

func TestGetDocument_ResuelveCaminhoRelativo(t *testing.T) {
	pdf := []byte("%PDF-1.4 conteudo")
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/nfse/dn-doc", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ref":"dn-doc","status":"autorizado","caminho_danfe":"/danfse/dn-doc.pdf"}`))
	})
	mux.HandleFunc("/danfse/dn-doc.pdf", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(pdf)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := focusnfe.NewClientWithBaseURL("tok", srv.URL)
	got, err := c.GetDocument(context.Background(), "dn-doc")
	require.NoError(t, err)
	assert.Equal(t, pdf, got)
}

func TestGetDocument_SinPDF(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ref":"dn-sem","status":"processando_autorizacao"}`))
	})

	_, err := c.GetDocument(context.Background(), "dn-sem")
	assert.ErrorIs(t, err, domain.ErrExternalService)
}

func TestCheckHealth(t *testing.T) {
	t.Run("online", func(t *testing.T) {
		c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		})
		assert.Equal(t, focusnfe.HealthOnline, c.CheckHealth(context.Background()))
	})

	t.Run("404 cuenta como online", func(t *testing.T) {
		// La referencia health_check no existe; 404 prueba que el API responde
		c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		assert.Equal(t, focusnfe.HealthOnline, c.CheckHealth(context.Background()))
	})

	t.Run("5xx cuenta como offline", func(t *testing.T) {
		c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		assert.Equal(t, focusnfe.HealthOffline, c.CheckHealth(context.Background()))
	})

	t.Run("servidor caído cuenta como offline", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close() // cerrado a propósito
		c := focusnfe.NewClientWithBaseURL("tok", srv.URL)
		assert.Equal(t, focusnfe.HealthOffline, c.CheckHealth(context.Background()))
	})

	t.Run("respuesta lenta cuenta como slow", func(t *testing.T) {
		if testing.Short() {
			t.Skip("tarda más de 5 s")
		}
		c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(5100 * time.Millisecond)
			_, _ = w.Write([]byte(`{}`))
		})
		assert.Equal(t, focusnfe.HealthSlow, c.CheckHealth(context.Background()))
	})
}
