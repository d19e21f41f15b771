package classify

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dghubble/sling"
)

// DefaultBaseURL is the chat-completion endpoint base used when no override
// is configured.
const DefaultBaseURL = "https://api.openai.com/v1/"

const systemInstruction = "You are an event categorization assistant. " +
	"You reply with a JSON array only, no prose and no code fences."

// Item is one event in a classification batch. ID is the event identity and
// is echoed back by the service so assignments can be matched to events.
type Item struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// BatchClassifier assigns categories to a batch of items. The returned map
// may cover any subset of the batch; callers handle the remainder.
type BatchClassifier interface {
	ClassifyBatch(items []Item) (map[string]string, error)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type assignment struct {
	ID       string `json:"id"`
	Category string `json:"category"`
}

// ServiceClassifier calls an OpenAI-compatible chat-completion endpoint.
type ServiceClassifier struct {
	sling *sling.Sling
	model string
}

// NewServiceClassifier builds a classifier for the given endpoint. An empty
// baseURL selects the default endpoint.
func NewServiceClassifier(baseURL, apiKey, model string) *ServiceClassifier {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	httpClient := &http.Client{Timeout: 60 * time.Second}
	base := sling.New().
		Client(httpClient).
		Base(baseURL).
		Set("Authorization", "Bearer "+apiKey).
		Set("Content-Type", "application/json")
	return &ServiceClassifier{sling: base, model: model}
}

// ClassifyBatch sends one batch and returns the id-to-category assignments
// the service produced. Assignments with categories outside the taxonomy are
// discarded.
func (c *ServiceClassifier) ClassifyBatch(items []Item) (map[string]string, error) {
	payload, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encoding batch: %w", err)
	}

	prompt := fmt.Sprintf(
		"Categorize each event below into exactly one of these categories: %s.\n"+
			"Events:\n%s\n"+
			"Reply with a JSON array of objects, one per event, each with keys "+
			"\"id\" (copied from the input) and \"category\".",
		strings.Join(Taxonomy, ", "), string(payload))

	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: prompt},
		},
		Temperature: 0,
	}

	var out chatResponse
	resp, err := c.sling.New().Post("chat/completions").BodyJSON(body).ReceiveSuccess(&out)
	if err != nil {
		return nil, fmt.Errorf("calling classification service: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("classification service returned status %d", resp.StatusCode)
	}
	if len(out.Choices) == 0 {
		return nil, fmt.Errorf("classification response has no choices")
	}

	return parseAssignments(out.Choices[0].Message.Content)
}

// parseAssignments decodes the model reply. It first tries the whole content
// as a JSON array, then falls back to the substring between the first '[' and
// the last ']' to survive code fences and surrounding prose.
func parseAssignments(content string) (map[string]string, error) {
	rows, err := decodeAssignmentArray(content)
	if err != nil {
		start := strings.Index(content, "[")
		end := strings.LastIndex(content, "]")
		if start < 0 || end <= start {
			return nil, fmt.Errorf("decoding assignments: %w", err)
		}
		rows, err = decodeAssignmentArray(content[start : end+1])
		if err != nil {
			return nil, fmt.Errorf("decoding assignments: %w", err)
		}
	}

	assignments := make(map[string]string, len(rows))
	for _, row := range rows {
		if row.ID == "" || !ValidCategory(row.Category) {
			continue
		}
		assignments[row.ID] = row.Category
	}
	return assignments, nil
}

func decodeAssignmentArray(s string) ([]assignment, error) {
	var rows []assignment
	if err := json.Unmarshal([]byte(s), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
