// Wire types for the generative upstream.
//
// Only the fields this gateway reads or writes are modeled; unknown fields in
// upstream payloads are ignored by encoding/json.
package openai

import "fmt"

// ContentPart is one block inside a request message. Exactly one of Text or
// ImageURL is set, selected by Type ("input_text" or "input_image").
type ContentPart struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// TextPart builds an input_text content block.
func TextPart(text string) ContentPart {
	return ContentPart{Type: "input_text", Text: text}
}

// ImagePart builds an input_image content block referencing url, which may be
// an https URL or a data URI.
func ImagePart(url string) ContentPart {
	return ContentPart{Type: "input_image", ImageURL: url}
}

// Message is a single role-tagged entry in the request input list.
type Message struct {
	Role    string        `json:"role"`
	Content []ContentPart `json:"content"`
}

// ResponseRequest is the body sent to the responses endpoint.
type ResponseRequest struct {
	Model string    `json:"model"`
	Input []Message `json:"input"`
}

// OutputContent is one content part within an output item. The answer lives
// in parts with Type "output_text".
type OutputContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// OutputItem is one entry in the response output list.
type OutputItem struct {
	Type    string          `json:"type"`
	Content []OutputContent `json:"content"`
}

// Response is the decoded responses-endpoint payload.
type Response struct {
	Output []OutputItem `json:"output"`
}

// FirstText returns the text of the first non-empty output_text content part,
// or "" when the payload carries no usable answer.
func (r *Response) FirstText() string {
	for _, item := range r.Output {
		for _, part := range item.Content {
			if part.Type == "output_text" && part.Text != "" {
				return part.Text
			}
		}
	}
	return ""
}

// SpeechRequest is the body sent to the audio/speech endpoint. The response
// body is raw MP3 audio, not JSON.
type SpeechRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
	Voice string `json:"voice"`
}

// ImageRequest is the body sent to the images/generations endpoint. The
// gateway always requests exactly one image (N is fixed to 1 by the client).
type ImageRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	N       int    `json:"n"`
	Size    string `json:"size,omitempty"`
	Quality string `json:"quality,omitempty"`
	Style   string `json:"style,omitempty"`
}

// ImageData is one generated image reference.
type ImageData struct {
	URL string `json:"url"`
}

// ImageResponse is the decoded images-generations payload.
type ImageResponse struct {
	Data []ImageData `json:"data"`
}

// APIError reports a non-2xx upstream response. The body excerpt is for
// server-side logs only and must never be forwarded to gateway clients.
type APIError struct {
	Endpoint string
	Status   int
	Body     string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("openai %s: status %d: %s", e.Endpoint, e.Status, e.Body)
}
