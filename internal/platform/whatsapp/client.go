package whatsapp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

const graphAPIBase = "https://graph.facebook.com/v18.0"

// Client talks to the WhatsApp Cloud API for a single business phone number.
type Client struct {
	AccessToken   string
	PhoneNumberID string
	httpClient    *http.Client
}

func NewClient(accessToken, phoneNumberID string) *Client {
	return &Client{
		AccessToken:   accessToken,
		PhoneNumberID: phoneNumberID,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type textBody struct {
	Body string `json:"body"`
}

type sendTextReq struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Text             textBody `json:"text"`
}

func (c *Client) SendText(to, text string) error {
	req := sendTextReq{
		MessagingProduct: "whatsapp",
		To:               to,
		Text:             textBody{Body: text},
	}
	return c.post(fmt.Sprintf("%s/%s/messages", graphAPIBase, c.PhoneNumberID), req)
}

type documentBody struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
}

type sendDocumentReq struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Document         documentBody `json:"document"`
}

// SendDocument uploads fileData to the media endpoint and sends it as a
// document message. WhatsApp requires the two-step upload-then-reference flow.
func (c *Client) SendDocument(to string, fileData []byte, fileName string) error {
	mediaID, err := c.uploadMedia(fileData, fileName)
	if err != nil {
		return fmt.Errorf("failed to upload media: %w", err)
	}

	req := sendDocumentReq{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "document",
		Document:         documentBody{ID: mediaID, Filename: fileName},
	}
	return c.post(fmt.Sprintf("%s/%s/messages", graphAPIBase, c.PhoneNumberID), req)
}

func (c *Client) uploadMedia(fileData []byte, fileName string) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("messaging_product", "whatsapp"); err != nil {
		return "", err
	}
	if err := w.WriteField("type", "application/pdf"); err != nil {
		return "", err
	}
	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(fileData); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/%s/media", graphAPIBase, c.PhoneNumberID)
	httpReq, err := http.NewRequest(http.MethodPost, url, &buf)
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.AccessToken)
	httpReq.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to call whatsapp media api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var bodyBytes []byte
		if resp.Body != nil {
			bodyBytes, _ = io.ReadAll(resp.Body)
		}
		return "", fmt.Errorf("whatsapp media api returned status: %s, body: %s", resp.Status, string(bodyBytes))
	}

	var mediaResp struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&mediaResp); err != nil {
		return "", fmt.Errorf("failed to decode media response: %w", err)
	}
	return mediaResp.ID, nil
}

func (c *Client) post(url string, body any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.AccessToken)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send whatsapp message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Read body to see the error message from the Graph API
		var bodyBytes []byte
		if resp.Body != nil {
			bodyBytes, _ = io.ReadAll(resp.Body)
		}
		return fmt.Errorf("whatsapp api returned status: %s, body: %s", resp.Status, string(bodyBytes))
	}

	return nil
}
