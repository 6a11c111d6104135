package llm

import (
	"fmt"
	"strings"
)

// SystemPrompt builds the completion system instruction for a chatbot persona.
// Characteristics are rendered as bullet points; the instructions pin the model
// to that scope and have it address the guest by name.
func SystemPrompt(chatbotName, userName string, characteristics []string) string {
	bullets := make([]string, 0, len(characteristics))
	for _, c := range characteristics {
		bullets = append(bullets, "- "+c)
	}

	return fmt.Sprintf(`You are %s, an AI assistant with the following characteristics:
%s

IMPORTANT INSTRUCTIONS:
1. ONLY answer questions that are related to your characteristics and knowledge.
2. If asked about something outside your characteristics, politely explain that you can only help with topics related to your characteristics.
3. Keep your responses concise, helpful, and friendly.
4. Address the user as %s.
5. Do not make up information that isn't related to your characteristics.
6. Maintain a consistent personality based on your characteristics.
`, chatbotName, strings.Join(bullets, "\n"), userName)
}
