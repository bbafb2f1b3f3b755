package whatsapp

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendTemplateMessage(t *testing.T) {
	var gotPath string
	var gotAuth string
	var gotPayload map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &gotPayload)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"messages":[{"id":"wamid.test"}]}`))
	}))
	defer server.Close()

	client := NewClient("test-token", "123456")
	client.SetBaseURL(server.URL)

	err := client.SendTemplateMessage("9876543210", "invoice_ready", []string{"Asha", "INV-000001"})
	require.NoError(t, err)

	assert.Equal(t, "/123456/messages", gotPath)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "whatsapp", gotPayload["messaging_product"])
	// 10-digit numbers get the Indian country code.
	assert.Equal(t, "919876543210", gotPayload["to"])

	tmpl := gotPayload["template"].(map[string]interface{})
	assert.Equal(t, "invoice_ready", tmpl["name"])
	components := tmpl["components"].([]interface{})
	require.Len(t, components, 1)
	params := components[0].(map[string]interface{})["parameters"].([]interface{})
	assert.Len(t, params, 2)
}

func TestSendTemplateMessageAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"(#131030) Recipient phone number not in allowed list"}}`))
	}))
	defer server.Close()

	client := NewClient("test-token", "123456")
	client.SetBaseURL(server.URL)

	err := client.SendTemplateMessage("9876543210", "invoice_ready", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Recipient phone number not in allowed list")
}

func TestFormatPhoneNumber(t *testing.T) {
	assert.Equal(t, "919876543210", formatPhoneNumber("9876543210"))
	assert.Equal(t, "919876543210", formatPhoneNumber("98765-43210"))
	assert.Equal(t, "919876543210", formatPhoneNumber("+91 98765 43210"))
	assert.Equal(t, "14155550100", formatPhoneNumber("+1 415 555 0100"))
}
