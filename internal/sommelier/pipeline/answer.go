package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/philippweder/wine-shop/internal/llm"
	"github.com/philippweder/wine-shop/internal/sommelier/schema"
	"github.com/philippweder/wine-shop/pkg/logger"
)

// sommelierInstructions is the fixed instruction template the answer is
// generated under. It constrains the model to the retrieved context: matches
// must be cited from context, a missing match must be stated, and a general
// suggestion is allowed only when clearly labeled as such.
const sommelierInstructions = `You are an AI Sommelier. Your task is to recommend wines based on the user's query and the provided context.
The context below contains information about several wines, including their name, varietal, description, food pairings, and other characteristics.
Carefully review the user's question and the provided wine documents in the context.

Instructions:
1. If the context contains specific wines that are a good match for the user's query (e.g., based on food pairing, description, wine type, or varietal), recommend those wines. Mention their names and why they are a good fit based only on the provided context.
2. If the retrieved documents do not directly or strongly match the user's specific request, clearly state that you couldn't find a specific wine for that exact request within the current selection.
3. If no specific wine from the context is a clear match, you may offer a general wine pairing suggestion appropriate for the query, but you must clearly state that it is a general suggestion and not based on the wines in the context.
4. Do not invent details or make assumptions about wines that are not present in the context. Stick strictly to the information provided in the documents.
5. If the query is too vague or unanswerable even with a general suggestion, politely say so.
6. When recommending a wine from the context, refer to its details as found in the context.`

// AnswerPipeline generates a grounded answer from a query and the documents
// retrieved for it.
type AnswerPipeline struct {
	llm llm.LLM
	log *logger.Logger
}

// NewAnswerPipeline creates a new AnswerPipeline.
func NewAnswerPipeline(model llm.LLM, log *logger.Logger) *AnswerPipeline {
	return &AnswerPipeline{
		llm: model,
		log: log,
	}
}

// Run builds the sommelier prompt from the query and retrieved documents and
// calls the generative model. It has no side effects beyond that outbound
// call; retries are left to the caller.
func (p *AnswerPipeline) Run(ctx context.Context, query string, documents []*schema.Document) (string, error) {
	p.log.Info(fmt.Sprintf("Building prompt for query with %d context documents", len(documents)))

	prompt := buildPrompt(query, documents)

	answer, err := p.llm.Generate(ctx, prompt)
	if err != nil {
		p.log.Error(fmt.Sprintf("Model failed to generate answer: %v", err))
		return "", fmt.Errorf("failed to generate answer: %w", err)
	}

	p.log.Info("Successfully generated sommelier answer")
	return answer, nil
}

// buildPrompt assembles the instruction template, the retrieved documents'
// text verbatim as context, and the user's question into a single prompt.
func buildPrompt(query string, documents []*schema.Document) string {
	var sb strings.Builder

	sb.WriteString(sommelierInstructions)
	sb.WriteString("\n\nContext:\n")
	for i, doc := range documents {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("Wine %d:\n%s\n", i+1, doc.Text))
	}
	sb.WriteString("---\n\n")
	sb.WriteString(fmt.Sprintf("Question: %s\n\nHelpful Answer:", query))

	return sb.String()
}
