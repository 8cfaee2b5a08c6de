package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vaidyai-backend/internal/models"
)

// systemInstruction is the fixed generation instruction: tone, language
// mirroring, formatting, and the grounding-only constraint.
const systemInstruction = `You are a compassionate, knowledgeable, and trustworthy medical assistant, like a kind doctor speaking directly to the patient.
Your role is to give accurate, polite, and helpful medical answers based on the provided context, and to communicate in a way the patient feels understood and cared for.

- Always respond in a warm, polite, and respectful tone, similar to how a doctor calmly explains to a patient.
- Provide accurate, concise, and fact-based answers based solely on the information provided in the context.
- If the patient's question is in Hindi, respond entirely in Hindi. If it's in English, respond in English. If the question is mixed (Hinglish), respond in natural Hinglish, a friendly, simple mix of Hindi and English.
- Always answer every question to the best of your ability, using only the given context.
- Avoid a robotic or overly formal tone; sound like a real, kind doctor.
- Always try to help. If the context lacks full information, respond gently and share basic, widely accepted medical guidance.
- Do NOT generate facts beyond the provided context unless they are basic, well-established medical facts.
- Never hallucinate or speculate.
- Format your answers in short, clear, point-wise or numbered format, so the patient can easily follow.
- If sources are mentioned in the context, refer to them briefly and respectfully.`

// PassageRetriever yields corpus passages relevant to a query.
type PassageRetriever interface {
	Query(ctx context.Context, text string, k int) ([]models.RetrievedPassage, error)
}

// TextGenerator produces text for a fully assembled prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Synthesizer produces grounded answers: it retrieves the passages most
// relevant to a question, folds them into a single generation prompt with
// the fixed system instruction, and returns the generated text.
//
// Retrieval is scoped to the bare question text; conversation history is
// deliberately not fed to retrieval or generation.
type Synthesizer struct {
	retriever PassageRetriever
	generator TextGenerator
	topK      int
}

// NewSynthesizer creates a Synthesizer. topK values <= 0 fall back to 3.
func NewSynthesizer(retriever PassageRetriever, generator TextGenerator, topK int) *Synthesizer {
	if topK <= 0 {
		topK = 3
	}
	return &Synthesizer{
		retriever: retriever,
		generator: generator,
		topK:      topK,
	}
}

// Synthesize answers the question grounded in the corpus. Any retrieval or
// generation failure surfaces as an error; a partial or garbled answer is
// never returned.
func (s *Synthesizer) Synthesize(ctx context.Context, question string) (string, error) {
	passages, err := s.retriever.Query(ctx, question, s.topK)
	if err != nil {
		return "", fmt.Errorf("retrieving passages: %w", err)
	}

	answer, err := s.generator.Generate(ctx, buildPrompt(passages, question))
	if err != nil {
		return "", fmt.Errorf("generating answer: %w", err)
	}

	answer = normalizeWhitespace(answer)
	if answer == "" {
		return "", errors.New("generation produced an empty answer")
	}

	return answer, nil
}

// buildPrompt assembles the single generation prompt: system instruction,
// concatenated passage texts, and the verbatim question.
func buildPrompt(passages []models.RetrievedPassage, question string) string {
	var b strings.Builder
	b.WriteString(systemInstruction)
	b.WriteString("\n\n---\n\nContext:\n")

	if len(passages) == 0 {
		b.WriteString("(no relevant passages found)\n")
	}
	for _, p := range passages {
		b.WriteString(p.Text)
		if p.Source != "" {
			b.WriteString("\n(Source: ")
			b.WriteString(p.Source)
			b.WriteString(")")
		}
		b.WriteString("\n\n")
	}

	b.WriteString("Question:\n")
	b.WriteString(question)
	b.WriteString("\n\n---\n\nFinal Answer:")

	return b.String()
}

// normalizeWhitespace is the only post-processing applied to generated
// text: trim surrounding whitespace and normalize line endings.
func normalizeWhitespace(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.TrimSpace(text)
}
