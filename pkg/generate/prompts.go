package generate

import (
	"fmt"
	"strings"
)

// SystemPrompt frames the model as a single-file app author.
const SystemPrompt = `You are an expert web developer specializing in creating single-file HTML applications.
Your task is to generate complete, self-contained HTML files including all CSS
within <style> tags and all JavaScript within <script> tags.
Do not use any external files or libraries.
The output must ONLY be the raw HTML content, nothing else. Do not wrap the code in markdown backticks or add any explanations.`

const userPromptTemplate = `Generate a complete, self-contained HTML file for the web application described below.
It must include:
- HTML structure for every control the application needs.
- CSS inside a single <style> tag; the layout should fill the available window.
- JavaScript inside a single <script> tag implementing all behaviour, with no network access.
- A <title> naming the application.
The user's specific request is: "%s"
Remember: the output must ONLY be the raw HTML content.`

// UserPrompt embeds the user's request into the generation instructions.
func UserPrompt(request string) string {
	return fmt.Sprintf(userPromptTemplate, strings.TrimSpace(request))
}
