package analysis

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/tildaslashalef/bugsquash/internal/llm"
)

// Templates for building prompts
const analyzerSystemTemplate = `You are an expert software engineer specialized in debugging and fixing code issues.
Analyze the given bug report, error log, or GitHub issue and provide a detailed analysis.

Respond in this exact JSON format:
{
  "rootCause": "Clear explanation of what's causing the bug",
  "affectedFiles": ["list", "of", "likely", "affected", "files"],
  "fixStrategy": "Step-by-step strategy to fix this issue",
  "severity": "low|medium|high|critical",
  "suggestedFix": {
    "description": "What the fix does",
    "codeChanges": [
      {
        "file": "path/to/file.ts",
        "before": "code before fix",
        "after": "code after fix"
      }
    ],
    "commitMessage": "fix: concise commit message"
  }
}

Be specific and practical. If you can infer the programming language and framework, tailor your response accordingly.
Always provide working code that would actually fix the issue.`

const reviewerSystemTemplate = `You are a code reviewer. Review the provided code changes and respond in JSON format:
{
  "score": 0-100,
  "issues": ["list of issues found"],
  "suggestions": ["list of improvements"],
  "passed": true/false (true if score >= {{.PassThreshold}})
}`

const (
	analyzeUserPrefix = "Analyze this bug and suggest a fix:\n\n"
	reviewUserPrefix  = "Review this code:\n\n"
)

var (
	analyzerSystemTmpl = template.Must(template.New("analyzer").Parse(analyzerSystemTemplate))
	reviewerSystemTmpl = template.Must(template.New("reviewer").Parse(reviewerSystemTemplate))
)

// BuildAnalysisMessages builds the chat messages sent to the analyzer
func BuildAnalysisMessages(input string) ([]llm.Message, error) {
	var buf bytes.Buffer
	if err := analyzerSystemTmpl.Execute(&buf, nil); err != nil {
		return nil, fmt.Errorf("building analyzer instruction: %w", err)
	}

	return []llm.Message{
		{Role: llm.RoleSystem, Content: buf.String()},
		{Role: llm.RoleUser, Content: analyzeUserPrefix + input},
	}, nil
}

// BuildReviewMessages builds the chat messages sent to the reviewer
func BuildReviewMessages(code string, passThreshold int) ([]llm.Message, error) {
	var buf bytes.Buffer
	if err := reviewerSystemTmpl.Execute(&buf, map[string]int{
		"PassThreshold": passThreshold,
	}); err != nil {
		return nil, fmt.Errorf("building reviewer instruction: %w", err)
	}

	return []llm.Message{
		{Role: llm.RoleSystem, Content: buf.String()},
		{Role: llm.RoleUser, Content: reviewUserPrefix + code},
	}, nil
}
