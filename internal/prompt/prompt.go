// Package prompt renders the instruction templates sent to LLM backends.
// The templates use explicitly numbered, all-caps section tags so the
// response parser can anchor on them, and they forbid markdown decoration
// in the reply. Models sometimes ignore both rules; the parser copes.
package prompt

import "fmt"

// Snippet builds the single-snippet review prompt. DETECTED_LANGUAGE is
// requested first so that a failure to identify the language never blocks
// parsing of the remaining sections.
func Snippet(code, language string) string {
	if language == "" {
		language = "auto-detect"
	}
	return fmt.Sprintf(`You are an expert code reviewer. Analyze this %s code for practical issues that matter to developers.

Code to analyze:
%s

Provide a focused analysis with complete, readable sentences. Do NOT use markdown symbols like ### or ** in your response.

1. DETECTED_LANGUAGE: Name the programming language of the code in one word

2. QUALITY_SCORE: Rate 0-100 (consider bugs, readability, maintainability)

3. SUMMARY: One complete sentence describing what this code does

4. BUG_DETECTION:
   - List actual bugs or logical errors found
   - Include potential crashes or exceptions
   - Mention edge cases not handled
   (Write complete sentences, skip if none found)

5. CODE_QUALITY_ISSUES:
   - Poor naming or structure problems
   - Code readability issues
   - Maintainability concerns
   (Focus on practical fixes, write complete sentences)

6. SECURITY_VULNERABILITIES:
   - Injection risks (SQL, XSS, etc.)
   - Insecure data handling
   - Authentication/authorization flaws
   (Only include actual security risks, write complete sentences)

7. QUICK_FIXES:
   - Top 3 specific improvements with examples
   - Focus on high-impact, easy changes
   - Write complete actionable sentences

Format each section as clear, complete sentences. Be specific and actionable. Skip sections if no issues found.
`, language, code)
}

// Repository builds the whole-repository review prompt from a structure
// listing and concatenated key-file contents.
func Repository(structure, keyFiles string) string {
	return fmt.Sprintf(`Analyze this GitHub repository structure and key files. Provide clear, complete analysis without using markdown symbols.

Repository Structure:
%s

Main Files Content:
%s

Provide analysis focusing on:

1. PROJECT_OVERVIEW: Write one clear sentence about what this project does

2. ARCHITECTURE_QUALITY:
   - Project structure assessment (write complete sentences)
   - Code organization quality (write complete sentences)
   - Missing important files like tests, docs, etc. (write complete sentences)

3. CRITICAL_ISSUES:
   - Security vulnerabilities across files (write complete sentences)
   - Major bugs or design flaws (write complete sentences)
   - Dependencies/configuration problems (write complete sentences)

4. IMPROVEMENT_PRIORITIES:
   - Top specific things to fix first (write complete sentences)
   - Missing features or best practices (write complete sentences)
   - Code quality improvements needed (write complete sentences)

5. ONBOARDING_GUIDE:
   - Where a new contributor should start reading (write complete sentences)
   - How to build and run the project (write complete sentences)

6. TECH_STACK:
   - Main technologies used and whether the choices fit (write complete sentences)

7. API_ENDPOINTS:
   - List the HTTP API endpoints this project exposes
   - If the project is not a web service, state that explicitly in one sentence

Write clear, complete sentences without markdown symbols. Be practical and focus on actionable feedback for the repository owner.
`, structure, keyFiles)
}
