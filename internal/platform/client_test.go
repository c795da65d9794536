package platform

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rflorenc/resource-console/internal/models"
)

func newTestClient(ts *httptest.Server) *Client {
	return NewClient(models.Target{BaseURL: ts.URL}, WithHTTPClient(ts.Client()))
}

func TestClient_List_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET /productos", r.Method+" "+r.URL.Path)
		w.Write([]byte(`[{"id":"1","nombre":"Widget","precio":9.99},{"_id":"x","nombre":"Gadget","precio":2}]`))
	}))
	defer ts.Close()

	results, err := newTestClient(ts).List(context.Background(), "/productos")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Widget", results[0]["nombre"])
	assert.Equal(t, "Gadget", results[1]["nombre"])
	assert.Equal(t, 9.99, results[0]["precio"])
}

func TestClient_List_Empty(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(" [] "))
	}))
	defer ts.Close()

	results, err := newTestClient(ts).List(context.Background(), "/usuarios")
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestClient_List_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"object", `{"results":[]}`},
		{"null", `null`},
		{"not json", `<html>oops</html>`},
		{"truncated", `[{"id":1}`},
		{"null element", `[{"id":"1"},null]`},
		{"scalar element", `[1,2]`},
		{"empty body", ``},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			}))
			defer ts.Close()

			results, err := newTestClient(ts).List(context.Background(), "/usuarios")
			require.ErrorIs(t, err, ErrMalformedResponse)
			assert.Nil(t, results, "no partial data")
		})
	}
}

func TestClient_ErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(strings.Repeat("x", 300)))
	}))
	defer ts.Close()

	_, err := newTestClient(ts).List(context.Background(), "/usuarios")
	require.ErrorIs(t, err, ErrServerRejected)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 500, se.StatusCode)
	assert.Equal(t, "GET", se.Method)
	assert.Equal(t, "/usuarios", se.Path)
	assert.Len(t, se.Body, 203)
}

func TestClient_ErrorStatus_MultibyteBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		// "ó" is two bytes, so byte 200 falls inside a rune
		w.Write([]byte("x" + strings.Repeat("ó", 150)))
	}))
	defer ts.Close()

	_, err := newTestClient(ts).List(context.Background(), "/usuarios")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.True(t, utf8.ValidString(se.Body), "body %q is not valid UTF-8", se.Body)
	assert.True(t, strings.HasSuffix(se.Body, "ó..."))
}

func TestClient_NetworkFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c := newTestClient(ts)
	ts.Close()

	_, err := c.List(context.Background(), "/usuarios")
	assert.ErrorIs(t, err, ErrNetworkFailure)
}

func TestClient_ContextCanceled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := newTestClient(ts).List(ctx, "/usuarios")
	assert.ErrorIs(t, err, ErrNetworkFailure)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_Create(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var got map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "Ana", got["nombre"])
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":1}`))
	}))
	defer ts.Close()

	body, err := newTestClient(ts).Create(context.Background(), "/usuarios", models.Resource{"nombre": "Ana"})
	require.NoError(t, err)
	assert.Equal(t, `{"id":1}`, string(body))
}

func TestClient_Update(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "PUT /productos/1", r.Method+" "+r.URL.Path)
		data, _ := io.ReadAll(r.Body)
		assert.Equal(t, `{"nombre":"Widget","precio":12.5}`, string(data))
		w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	_, err := newTestClient(ts).Update(context.Background(), "/productos", "1",
		models.Resource{"nombre": "Widget", "precio": 12.5})
	require.NoError(t, err)
}

func TestClient_Delete(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/usuarios/a%2Fb", r.URL.EscapedPath())
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	require.NoError(t, newTestClient(ts).Delete(context.Background(), "/usuarios", "a/b"))
}

func TestClient_Delete_NotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	err := newTestClient(ts).Delete(context.Background(), "/usuarios", "999")
	assert.ErrorIs(t, err, ErrServerRejected)
}

func TestClient_Ping(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	require.NoError(t, newTestClient(ts).Ping(context.Background(), "/usuarios"))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		expect string
	}{
		{"short", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"long", "hello world", 5, "hello..."},
		{"empty", "", 5, ""},
		{"rune boundary", "aéb", 2, "a..."},
		{"whole rune", "aéb", 3, "aé..."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, truncate(tc.input, tc.maxLen))
		})
	}
}

func TestNewClient(t *testing.T) {
	c := NewClient(models.Target{BaseURL: "https://api.example.com/", Insecure: true})
	assert.Equal(t, "https://api.example.com/usuarios", c.target.URL("/usuarios"))
	assert.Equal(t, 30*time.Second, c.httpClient.Timeout)

	tr, ok := c.httpClient.Transport.(*http.Transport)
	require.True(t, ok)
	require.NotNil(t, tr.TLSClientConfig)
	assert.True(t, tr.TLSClientConfig.InsecureSkipVerify)
}
