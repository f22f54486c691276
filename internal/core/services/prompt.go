package services

import (
	"fmt"
	"strings"

	"github.com/mhaddaou/docchat/internal/core/domain"
)

// FallbackAnswer is the exact sentinel the model is instructed to
// return when a document-related question has no answer in the
// retrieved passages. The terminal client and any downstream consumer
// can match it verbatim.
const FallbackAnswer = "I'm not sure"

// systemPrompt is the system instruction sent with every generation.
const systemPrompt = "You are a helpful assistant."

// groundingPrompt carries the three-rule grounding policy. The rules
// are model steering, not a mechanical guarantee: unrelated queries
// get a natural answer, related queries are answered only from the
// passages, and a related query with no passage support gets the
// fallback sentinel.
const groundingPrompt = `You are an AI assistant.

Rules:
1. First, check if the user's message is a question about the provided documents.
   - If it is related, answer **only** from the documents.
   - If it is unrelated (greetings, casual talk, personal questions, etc.), completely ignore the documents and respond naturally.
2. If the question is related but the answer is not in the documents, respond with exactly: %q.
3. Never mention the documents unless the user is explicitly asking about them.

User message:
%s

Relevant documents:
%s

Now, give your final answer according to the rules above:
`

// PromptBuilder assembles the grounding prompt from the user query and
// the retrieved passages.
type PromptBuilder struct{}

// System returns the system instruction for the generation call.
func (PromptBuilder) System() string {
	return systemPrompt
}

// Build renders the grounding prompt. An empty passage list renders an
// empty documents section, which combined with rule 2 steers the model
// to the fallback sentinel for document-related questions.
func (PromptBuilder) Build(query string, passages []domain.Passage) string {
	texts := make([]string, 0, len(passages))
	for _, p := range passages {
		texts = append(texts, p.Text)
	}
	combined := strings.Join(texts, "\n\n")
	return fmt.Sprintf(groundingPrompt, FallbackAnswer, query, combined)
}
