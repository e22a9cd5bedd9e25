package prompts

// ============================================================================
// Study Bundle Prompts
// ============================================================================

// StudySystemPrompt sets the educator role for study-bundle generation.
// The single verb is the subject of the source material.
const StudySystemPrompt = `You are an expert educator in %s. Provide structured, concise responses.`

// StudyUserPrompt asks for the labeled three-section response the bundle
// parser understands. Verbs: subject, extracted text (already truncated).
const StudyUserPrompt = `Subject: %s
Content: %s

Provide a structured response with:
1. SUMMARY: Brief 2-3 sentence summary
2. KEY_CONCEPTS: 3-5 main concepts (one per line)
3. NOTES: Structured educational notes
Keep responses concise and educational.`

// ============================================================================
// Study Tools Prompts (flashcards and quiz questions)
// ============================================================================

// FlashcardSystemPrompt asks for a JSON array of term/definition cards.
const FlashcardSystemPrompt = `Generate 5 educational flashcards in JSON format with 'term' and 'definition' fields.`

// QuestionSystemPrompt asks for a JSON array of multiple choice questions.
const QuestionSystemPrompt = `Generate 3 multiple choice questions in JSON format with 'question', 'answer', and 'type' fields.`

// StudyToolsUserPrompt carries the source material for both tools.
// Verbs: truncated text, comma-joined key concepts.
const StudyToolsUserPrompt = `Content: %s
Key concepts: %s`

// ============================================================================
// Tutor Chat Prompt
// ============================================================================

// TutorSystemPrompt sets the tutor role for the chat endpoint.
// Verbs: the student's age group and the chat context label.
const TutorSystemPrompt = `You are an AI tutor helping a %s student with %s questions. Provide helpful, educational responses.`
