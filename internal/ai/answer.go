package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"policychat/internal/retrieval"
)

// FallbackMessage is returned to the user whenever the generation call
// fails. Provider failures never propagate past this package.
const FallbackMessage = "عذراً، حدث خطأ أثناء معالجة طلبك. الرجاء المحاولة مرة أخرى لاحقاً."

// contextHeader introduces the retrieved policy excerpts in the prompt.
const contextHeader = "معلومات السياسات المتعلقة:"

// promptTemplate constrains the model to the supplied policy context and
// tells it to say so plainly when no answer is found there.
const promptTemplate = `أنت مساعد للموارد البشرية في مؤسسة مالية. مهمتك هي الإجابة على أسئلة الموظفين بخصوص سياسات الموارد البشرية.
استخدم المعلومات المقدمة فقط للإجابة، وإذا لم تجد إجابة محددة، فقل ذلك بصراحة.
قدم إجابات واضحة ومختصرة ومفيدة باللغة العربية، مع أن تكون ودودة ومهنية.

معلومات السياسات:
%s

سؤال الموظف: %s`

// Answerer assembles retrieval results into a prompt and generates the
// final answer through a Provider.
type Answerer struct {
	provider Provider
	fallback string
}

// NewAnswerer creates an answerer over the given provider. An empty
// fallback uses FallbackMessage.
func NewAnswerer(provider Provider, fallback string) *Answerer {
	if fallback == "" {
		fallback = FallbackMessage
	}
	return &Answerer{provider: provider, fallback: fallback}
}

// BuildPrompt assembles the instruction template around the query and the
// retrieved matches. With no matches the context block stays empty and the
// template's decline instruction takes over.
func BuildPrompt(query string, matches []retrieval.Match) string {
	var contextBlock strings.Builder
	if len(matches) > 0 {
		contextBlock.WriteString(contextHeader)
		contextBlock.WriteString("\n\n")
		for i, m := range matches {
			fmt.Fprintf(&contextBlock, "وثيقة %d: %s\n%s\n\n", i+1, m.Title, m.Content)
		}
	}
	return fmt.Sprintf(promptTemplate, contextBlock.String(), query)
}

// Answer generates a response for query grounded in the retrieved matches.
// Any provider failure (timeout, quota, malformed response) is logged and
// converted into the fixed fallback message; Answer never fails.
func (a *Answerer) Answer(ctx context.Context, query string, matches []retrieval.Match) string {
	prompt := BuildPrompt(query, matches)

	answer, err := a.provider.Generate(ctx, prompt)
	if err != nil {
		log.Printf("[AI] Generation failed via %s: %v", a.provider.Name(), err)
		return a.fallback
	}
	return answer
}
