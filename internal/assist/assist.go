// Package assist produces short supportive chat replies, using a language
// model when a credential is configured and canned responses otherwise.
package assist

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Category is the kind of craving a conversation is about.
type Category string

const (
	CategoryFood     Category = "food"
	CategoryShopping Category = "shopping"
	CategoryAlcohol  Category = "alcohol"
	CategorySmoking  Category = "smoking"
	CategoryCaffeine Category = "caffeine"
	CategoryOther    Category = "other"
)

// ParseCategory maps a name to a Category. Unknown names map to other.
func ParseCategory(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := cannedResponses[c]; ok {
		return c
	}
	return CategoryOther
}

// Model parameters.
const (
	Model       = openai.GPT3Dot5Turbo
	Temperature = 0.7
	MaxTokens   = 300
)

const (
	emptyReply    = "I'm here to help. Could you tell me more about what you're experiencing?"
	fallbackReply = "I'm having trouble connecting right now. Remember to breathe deeply and stay present. I'll be back to help soon."
)

//go:generate mockgen -source=assist.go -destination=mocks/assist_mock.go -package=mock_assist

// ChatCompleter is the language model call the assistant depends on.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Assistant answers chat messages.
type Assistant struct {
	client ChatCompleter
	pick   func(n int) int
}

// New creates an Assistant. A nil client means canned responses only.
func New(client ChatCompleter) *Assistant {
	return &Assistant{client: client, pick: rand.IntN}
}

// NewFromAPIKey creates an Assistant backed by OpenAI, or a canned-only one
// when apiKey is empty.
func NewFromAPIKey(apiKey string) *Assistant {
	if apiKey == "" {
		log.Printf("[ASSIST] no API key configured, using canned responses")
		return New(nil)
	}
	return New(openai.NewClient(apiKey))
}

// Reply answers message within the given category. It never returns an
// error: model failures degrade to a fixed reassurance message.
func (a *Assistant) Reply(ctx context.Context, category Category, message string) string {
	category = ParseCategory(string(category))

	if a.client == nil {
		return a.canned(category)
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt(category)},
			{Role: openai.ChatMessageRoleUser, Content: message},
		},
		Temperature: Temperature,
		MaxTokens:   MaxTokens,
	})
	if err != nil {
		log.Printf("[ASSIST] chat completion failed: category=%s err=%v", category, err)
		return fallbackReply
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return emptyReply
	}
	return resp.Choices[0].Message.Content
}

// SystemPrompt returns the instruction the model is given for a category.
func SystemPrompt(category Category) string {
	return fmt.Sprintf(`You are a compassionate and knowledgeable counselor specializing in helping people manage %s cravings.
Your responses should be:
1. Empathetic and understanding
2. Based on proven therapeutic techniques
3. Focused on immediate, practical steps
4. Encouraging and non-judgmental

Keep responses concise but impactful.`, category)
}

func (a *Assistant) canned(category Category) string {
	responses := CannedResponses(category)
	return responses[a.pick(len(responses))]
}

// CannedResponses returns the fixed replies for a category.
func CannedResponses(category Category) []string {
	responses, ok := cannedResponses[category]
	if !ok {
		return cannedResponses[CategoryOther]
	}
	return responses
}

var cannedResponses = map[Category][]string{
	CategoryFood: {
		"Food cravings often pass within 20 minutes. Try drinking a glass of water and taking a short walk.",
		"Consider if you're physically hungry or emotionally hungry. If it's emotional, try journaling about your feelings instead.",
		"Remember that cravings are temporary. Take three deep breaths and focus on how you'll feel after making a healthy choice.",
	},
	CategoryShopping: {
		"Before making a purchase, try waiting 24 hours to see if you still feel the same urge.",
		"Shopping cravings often come from emotional needs. What else might help you feel better right now?",
		"Try making a list of things you're grateful for that you already own. This can help reduce the desire for new items.",
	},
	CategoryAlcohol: {
		"Alcohol cravings typically last 15-30 minutes. Try to distract yourself with a different activity during this time.",
		"Remember your reasons for cutting back. What positive changes have you noticed since reducing your alcohol intake?",
		"Try a relaxation technique like progressive muscle relaxation to help manage the craving sensation.",
	},
	CategorySmoking: {
		"Nicotine cravings usually pass within 5-10 minutes. Try the 4Ds: Delay, Deep breathe, Drink water, Do something else.",
		"Remind yourself why you want to quit. Focus on the health benefits you're already experiencing.",
		"Try changing your environment - move to a different room or go outside for fresh air to help the craving pass.",
	},
	CategoryCaffeine: {
		"Caffeine withdrawal headaches can be managed with proper hydration and over-the-counter pain relievers if needed.",
		"Try substituting with a caffeine-free alternative like herbal tea or sparkling water with lemon.",
		"Remember that caffeine withdrawal symptoms typically improve significantly after 7-10 days.",
	},
	CategoryOther: {
		"Whatever you're craving, remember that the feeling is temporary. Focus on your breathing for a few minutes.",
		"Try the 5-4-3-2-1 technique: Name 5 things you see, 4 things you can touch, 3 things you hear, 2 things you smell, and 1 thing you taste.",
		"Consider what need this craving is trying to fulfill. Is there another way to meet that need?",
	},
}
