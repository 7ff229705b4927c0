package movies

import (
	"fmt"
	"strings"

	generativeAI "github.com/FACorreiaa/go-chat-recommendations/internal/api/generative_ai"
	"github.com/FACorreiaa/go-chat-recommendations/internal/types"
)

var movieProfileSchema = generativeAI.MustSchema(`{
	"type": "object",
	"required": ["genres"],
	"properties": {
		"genres": {"type": "array", "minItems": 1, "items": {"type": "string"}},
		"mood": {"type": "string"},
		"keywords": {"type": "array", "items": {"type": "string"}},
		"summary": {"type": "string"}
	}
}`)

func getMoviePrompt(messages []types.ChatMessage) string {
	var transcript strings.Builder
	for _, m := range messages {
		sender := m.Sender
		if sender == "" {
			sender = "Someone"
		}
		fmt.Fprintf(&transcript, "%s: %s\n", sender, m.Content)
	}

	return fmt.Sprintf(`
            A group is choosing a movie to watch together. Read their chat and describe their taste.
            Chat transcript:
            %s
            Return the response STRICTLY as a JSON object with:
            {
            "genres": ["one to four lowercase genres, e.g. action, comedy, drama, horror, sci-fi"],
            "mood": "one word for the mood they are in",
            "keywords": ["up to 5 words from the chat that describe what they want"],
            "summary": "One sentence describing the movie night they are after."
            }`, transcript.String())
}
