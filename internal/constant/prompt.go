package constant

const (
	// FileSearchModel answers grounded queries and generates example questions.
	FileSearchModel = "gemini-2.5-flash"

	// QueryPromptSuffix is appended to every user question so the model answers
	// in place instead of pointing at the uploaded documents.
	QueryPromptSuffix = " DO NOT ASK THE USER TO READ THE MANUAL, pinpoint the relevant sections in the response itself. Be helpful and provide detailed answers about the Fit-O-Charity event."

	// SuggestQuestionsPrompt asks for a JSON array; the model frequently wraps
	// it in prose or a code fence anyway, hence the defensive extraction.
	SuggestQuestionsPrompt = `You are provided documents about a fitness charity event called Fit-O-Charity. Generate 6 short and practical example questions a user might ask about the event in English. Focus on registration, activities, rules, prizes, and charity aspects. Return the questions as a JSON array of strings. Example: ["How do I register?", "What activities are included?"]`

	// ValidationPrompt is the cheapest possible request for key validation.
	ValidationPrompt = "Hi"

	// QueryFailedReplyPrefix opens the synthetic assistant message appended to
	// the transcript when a grounded query fails.
	QueryFailedReplyPrefix = "Sorry, I could not answer that right now: "

	// GreetingMessage opens every new chat session.
	GreetingMessage = "Hi! Ask me anything about the Fit-O-Charity event."
)

// Settings keys persisted in the app_settings table.
const (
	SettingKeyGeminiApiKey = "gemini_api_key"
	SettingKeyRagStoreName = "rag_store_name"
	SettingKeyUploadedDocs = "uploaded_docs"
)

// PreconfiguredDocumentName is shown when the store reference comes from
// deployment config and no document list was ever persisted.
const PreconfiguredDocumentName = "Event guide (preconfigured)"

// DefaultExampleQuestions is the fallback when question generation fails or
// produces nothing usable.
func DefaultExampleQuestions() []string {
	return []string{
		"How do I register for Fit-O-Charity?",
		"What activities can I participate in?",
		"How are fitness points calculated?",
		"What are the prizes for winners?",
		"How does the charity donation work?",
		"What is the age criteria for participation?",
	}
}
