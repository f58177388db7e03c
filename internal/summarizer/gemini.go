package summarizer

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const threatPrompt = `You are an advanced AI trained to analyze text and assess threat levels based on intent and language. When provided with a text, perform the following tasks in a structured format:

1. *Title:* Generate a concise, relevant, and engaging title that reflects the core topic or concern in the text.
2. *Summary:* Provide a summary of the text, dynamically adjusting the length based on the content's complexity and importance. Ensure the summary identifies key concerns or risks if applicable.
3. *Length Analysis:* Count and return the number of words in the original text and the generated summary.
4. *Threat Level:* Assign a threat level to the text based on the criteria below:
   - *1 = No threat:* Completely benign, ordinary, or harmless content (e.g., casual conversations or mundane topics).
   - *2 = Low threat:* Slightly concerning, but no clear intent to harm or commit a crime (e.g., vague dissatisfaction or frustration).
   - *3 = Moderate threat:* Potential for risky behavior, minor crime, or veiled intent to cause harm (e.g., indirect threats or preparations without explicit details).
   - *4 = High threat:* Clear planning, intent, or discussion of harmful or illegal activities (e.g., detailed crime planning, direct threats, or dangerous intent).
   - *5 = Critical threat:* Immediate or explicit danger to individuals, groups, or public safety (e.g., active plans to harm someone imminently or evidence of extreme risk).
5. *Keyword Summary:* Extract and list key terms or phrases that indicate potential risks or concerning elements in the text.

*Output Format:*

[{Generated Title}]
[{Generated Summary}]
[Original Length: {Original Word Count} words]
[Summary Length: {Summary Word Count} words]
[Threat Level: {1-5}]
[{Comma-separated list of key terms and phrases}]

Text to analyze:
---
%s
---`

// Summarize sends the transcript to Gemini and returns the raw response.
// Rotates API keys on 429 / quota errors; any other failure is wrapped
// in a SummarizationError.
func (s *implSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf(threatPrompt, text)

	attempts := len(s.apiKeys)
	var lastErr error

	for range attempts {
		key := s.apiKeys[s.currentKey]

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			s.rotateKey()
			continue
		}

		result, err := client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), nil)
		if err != nil {
			errMsg := err.Error()
			if strings.Contains(errMsg, "429") || strings.Contains(errMsg, "quota") || strings.Contains(errMsg, "RESOURCE_EXHAUSTED") {
				s.logger.Warn(ctx, "Key %d rate limited, rotating...", s.currentKey+1)
				s.rotateKey()
				lastErr = err
				continue
			}
			return "", &SummarizationError{Err: fmt.Errorf("generate content: %w", err)}
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var out string
			for _, part := range result.Candidates[0].Content.Parts {
				if part.Text != "" {
					out += part.Text
				}
			}
			return strings.TrimSpace(out), nil
		}

		return "", &SummarizationError{Err: fmt.Errorf("empty response from Gemini")}
	}

	return "", &SummarizationError{Err: fmt.Errorf("all API keys exhausted: %w", lastErr)}
}

func (s *implSummarizer) rotateKey() {
	s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
}
