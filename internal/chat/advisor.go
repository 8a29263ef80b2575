// Package chat implements the skincare chat advisor on top of a completion API.
package chat

import (
	"context"
	"fmt"
	"strings"

	"go-skin-inspector/internal/catalog"
	apperrors "go-skin-inspector/internal/errors"
	"go-skin-inspector/internal/logger"
)

const (
	greetingPrompt = "You are a helpful beauty advisor. When a user starts the conversation, " +
		"ask about their skincare needs and preferences. Do not recommend products yet."
	advicePrompt = "You are a helpful beauty advisor. Provide personalized skincare advice and product recommendations."
	expertPrompt = "You are a skincare expert helping to identify product needs."
)

var greetings = map[string]bool{
	"hi":    true,
	"hello": true,
	"hey":   true,
	"start": true,
	"help":  true,
}

// Request is the body of POST /chat
type Request struct {
	Message     string    `json:"message"`
	ChatHistory []Message `json:"chatHistory"`
}

// Response is the advisor reply plus matching catalog products
type Response struct {
	Reply           string                   `json:"reply"`
	Recommendations []catalog.Recommendation `json:"recommendations"`
}

// Advisor answers chat messages and attaches catalog recommendations
type Advisor struct {
	completer Completer
	catalog   *catalog.Catalog
	limit     int
}

func NewAdvisor(completer Completer, products *catalog.Catalog) *Advisor {
	if products == nil {
		products = catalog.New(nil)
	}
	return &Advisor{completer: completer, catalog: products, limit: catalog.DefaultLimit}
}

// IsGreeting reports whether message only opens the conversation
func IsGreeting(message string) bool {
	return greetings[strings.ToLower(strings.TrimSpace(message))]
}

// Reply answers one message. Greetings are answered without history and
// without recommendations.
func (a *Advisor) Reply(ctx context.Context, req Request) (*Response, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, apperrors.NewValidationError("message cannot be empty", nil)
	}
	history, err := NormalizeHistory(req.ChatHistory)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid chat history", err)
	}

	greeting := IsGreeting(req.Message)

	var messages []Message
	if greeting {
		messages = []Message{system(greetingPrompt), user(req.Message)}
	} else {
		messages = make([]Message, 0, len(history)+2)
		messages = append(messages, system(advicePrompt))
		messages = append(messages, history...)
		messages = append(messages, user(req.Message))
	}

	reply, err := a.completer.Complete(ctx, messages)
	if err != nil {
		return nil, apperrors.NewNetworkError("chat completion failed", err)
	}

	resp := &Response{Reply: reply, Recommendations: []catalog.Recommendation{}}
	if !greeting {
		resp.Recommendations = a.recommend(ctx, req.Message, history)
	}
	return resp, nil
}

// recommend asks the model to name product types and concerns, then matches
// its answer against the catalog. Failures only cost the recommendations.
func (a *Advisor) recommend(ctx context.Context, message string, history []Message) []catalog.Recommendation {
	if a.catalog.Len() == 0 {
		return []catalog.Recommendation{}
	}

	analysis, err := a.completer.Complete(ctx, []Message{
		system(expertPrompt),
		user(needsPrompt(message, history)),
	})
	if err != nil {
		logger.WithError(err).Warn("Product needs analysis failed, skipping recommendations")
		return []catalog.Recommendation{}
	}
	return a.catalog.Match(analysis, a.limit)
}

func needsPrompt(message string, history []Message) string {
	turns := make([]string, len(history))
	for i, m := range history {
		turns[i] = fmt.Sprintf("%s: %s", m.Role, m.Content)
	}

	return fmt.Sprintf(`Based on the following chat history and user message, identify the type of skincare product and skin concerns:
Chat History:
%s

User Message: %s

Identify:
1. Product type (e.g., face wash, moisturizer, serum)
2. Skin concerns (e.g., acne, dry, oily)
3. Any specific requirements

Respond in a structured format.`, strings.Join(turns, " "), message)
}
