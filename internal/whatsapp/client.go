package whatsapp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Sender delivers a template message to one phone number. The dispatch
// service fans out over this; tests use a fake.
type Sender interface {
	SendTemplateMessage(phone, templateName string, params []string) error
}

// Client talks to the WhatsApp Business Cloud API (Meta graph API,
// works with any BSP proxy that speaks it).
type Client struct {
	apiKey        string
	phoneNumberID string
	baseURL       string
	http          *http.Client
}

// NewClient creates a Cloud API client.
// apiKey: access token from Meta Business Suite or BSP
// phoneNumberID: WhatsApp Business phone number ID
func NewClient(apiKey, phoneNumberID string) *Client {
	return &Client{
		apiKey:        apiKey,
		phoneNumberID: phoneNumberID,
		baseURL:       "https://graph.facebook.com/v18.0",
		http:          &http.Client{Timeout: 30 * time.Second},
	}
}

// SetBaseURL allows overriding the API base URL (for BSP proxies)
func (c *Client) SetBaseURL(url string) {
	c.baseURL = url
}

// SendTemplateMessage sends a template message with positional body
// parameters.
func (c *Client) SendTemplateMessage(phone, templateName string, params []string) error {
	components := []map[string]interface{}{}

	if len(params) > 0 {
		bodyParams := make([]map[string]string, len(params))
		for i, param := range params {
			bodyParams[i] = map[string]string{"type": "text", "text": param}
		}
		components = append(components, map[string]interface{}{
			"type":       "body",
			"parameters": bodyParams,
		})
	}

	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                formatPhoneNumber(phone),
		"type":              "template",
		"template": map[string]interface{}{
			"name": templateName,
			"language": map[string]string{
				"code": "en",
			},
			"components": components,
		},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)
	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var errResp map[string]interface{}
		if json.Unmarshal(body, &errResp) == nil {
			if errObj, ok := errResp["error"].(map[string]interface{}); ok {
				if msg, ok := errObj["message"].(string); ok {
					return fmt.Errorf("WhatsApp API error: %s", msg)
				}
			}
		}
		return fmt.Errorf("WhatsApp API error (status %d): %s", resp.StatusCode, string(body))
	}

	return nil
}

// formatPhoneNumber strips non-digits and prefixes the Indian country
// code for 10-digit numbers.
func formatPhoneNumber(phone string) string {
	cleaned := ""
	for _, c := range phone {
		if c >= '0' && c <= '9' {
			cleaned += string(c)
		}
	}

	if len(cleaned) == 10 {
		return "91" + cleaned
	}
	return cleaned
}
