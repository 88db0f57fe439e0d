package gemini

// ImageAnalysisPrompt is sent alongside image bytes when the bot analyzes a
// photo. The original deployment sent bare image bytes; the API requires a
// text part, so this keeps the instruction minimal.
const ImageAnalysisPrompt = `Describe and analyze the content of this image.`

// WebSearchPromptFormat wraps a /websearch query into a fixed prompt. The
// format string expects the joined query as its single parameter.
const WebSearchPromptFormat = `Search the web for: %s and summarize the top results.`
