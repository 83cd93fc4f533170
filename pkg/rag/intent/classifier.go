package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"hr-assistant-be/pkg/llm"
	"hr-assistant-be/pkg/store"
)

// Intent is the closed set of labels a user turn can receive.
type Intent string

const (
	IntentPolicyQuestion Intent = "policy_question"
	IntentLeaveBalance   Intent = "leave_balance"
	IntentLeaveSubmit    Intent = "leave_submit"
	IntentPayrollInquiry Intent = "payroll_inquiry"
	IntentUnknown        Intent = "unknown"
)

// All lists every label; the router must cover each one.
var All = []Intent{
	IntentPolicyQuestion,
	IntentLeaveBalance,
	IntentLeaveSubmit,
	IntentPayrollInquiry,
	IntentUnknown,
}

func valid(i Intent) bool {
	for _, known := range All {
		if known == i {
			return true
		}
	}
	return false
}

// Result is the label plus the classifier's justification for it.
type Result struct {
	Intent     Intent  `json:"intent"`
	Confidence float32 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// Classifier labels a user turn. Unambiguous vocabulary is matched with
// keywords first; everything else goes through one LLM call. Any provider
// failure or out-of-vocabulary answer degrades to IntentUnknown.
type Classifier struct {
	llmProvider   llm.LLMProvider
	historyWindow int
	logger        *log.Logger
}

func NewClassifier(llmProvider llm.LLMProvider, logger *log.Logger) *Classifier {
	return &Classifier{
		llmProvider:   llmProvider,
		historyWindow: 6,
		logger:        logger,
	}
}

// Classify is a pure function of the message and bounded history apart
// from the single model call. It never returns an error: classification
// failure is itself a label.
func (c *Classifier) Classify(ctx context.Context, message string, history []store.Message) *Result {
	if r := matchKeywords(message); r != nil {
		c.logger.Printf("[INTENT] Keyword match: %s (%s)", r.Intent, r.Reasoning)
		return r
	}

	prompt := c.buildPrompt(message, history)
	response, err := c.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		c.logger.Printf("[INTENT] Model classification failed, degrading to unknown: %v", err)
		return &Result{Intent: IntentUnknown, Confidence: 0, Reasoning: "classifier unavailable"}
	}

	result, err := parseResult(response)
	if err != nil {
		c.logger.Printf("[INTENT] Unparseable classification, degrading to unknown: %v", err)
		return &Result{Intent: IntentUnknown, Confidence: 0, Reasoning: "unparseable classification"}
	}

	c.logger.Printf("[INTENT] Resolved: %s (confidence %.2f)", result.Intent, result.Confidence)
	return result
}

// matchKeywords handles turns whose vocabulary pins the intent without a
// model call. Returns nil when the message is ambiguous.
func matchKeywords(message string) *Result {
	m := strings.ToLower(message)

	has := func(terms ...string) bool {
		for _, t := range terms {
			if strings.Contains(m, t) {
				return true
			}
		}
		return false
	}

	submitVerbs := has("request", "submit", "apply", "book", "take", "want", "need")
	mentionsLeave := has("leave", "vacation", "pto", "time off", "day off", "days off")

	switch {
	case mentionsLeave && has("balance", "remaining", "left", "how many"):
		return &Result{Intent: IntentLeaveBalance, Confidence: 0.95, Reasoning: "explicit balance vocabulary"}
	case mentionsLeave && submitVerbs:
		return &Result{Intent: IntentLeaveSubmit, Confidence: 0.9, Reasoning: "leave request vocabulary"}
	case has("pay stub", "paystub", "paycheck", "payslip", "salary", "deduction", "net pay", "gross pay"):
		return &Result{Intent: IntentPayrollInquiry, Confidence: 0.95, Reasoning: "explicit payroll vocabulary"}
	case has("policy", "policies", "benefit", "benefits", "procedure", "entitle", "allowed to", "handbook"):
		return &Result{Intent: IntentPolicyQuestion, Confidence: 0.9, Reasoning: "explicit policy vocabulary"}
	}
	return nil
}

func (c *Classifier) buildPrompt(message string, history []store.Message) string {
	var prompt strings.Builder

	prompt.WriteString("<system>\n")
	prompt.WriteString("You are an intent classifier for an HR assistant. Your ONLY job is to label the user's request.\n")
	prompt.WriteString("You do NOT answer questions. You only classify.\n")
	prompt.WriteString("</system>\n\n")

	if n := len(history); n > 0 {
		start := 0
		if n > c.historyWindow {
			start = n - c.historyWindow
		}
		prompt.WriteString("<recent_conversation>\n")
		for _, msg := range history[start:] {
			prompt.WriteString(fmt.Sprintf("%s: %s\n", msg.Role, msg.Content))
		}
		prompt.WriteString("</recent_conversation>\n\n")
	}

	prompt.WriteString("<user_message>\n")
	prompt.WriteString(message)
	prompt.WriteString("\n</user_message>\n\n")

	prompt.WriteString("<labels>\n")
	prompt.WriteString("policy_question: questions about HR policies, benefits, procedures, rules\n")
	prompt.WriteString("leave_balance: checking remaining leave, PTO balance, vacation days left\n")
	prompt.WriteString("leave_submit: requesting time off, submitting leave, booking vacation/sick/personal days\n")
	prompt.WriteString("payroll_inquiry: salary, paychecks, pay stubs, pay history, deductions\n")
	prompt.WriteString("unknown: greetings, thanks, unclear requests, anything outside HR scope\n")
	prompt.WriteString("</labels>\n\n")

	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Respond with ONLY valid JSON:\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"intent\": \"policy_question|leave_balance|leave_submit|payroll_inquiry|unknown\",\n")
	prompt.WriteString("  \"confidence\": 0.95,\n")
	prompt.WriteString("  \"reasoning\": \"Brief explanation\"\n")
	prompt.WriteString("}\n")
	prompt.WriteString("</output_format>")

	return prompt.String()
}

func parseResult(response string) (*Result, error) {
	jsonContent := extractJSON(response)
	if jsonContent == "" {
		return nil, fmt.Errorf("no JSON found in response")
	}

	var result Result
	if err := json.Unmarshal([]byte(jsonContent), &result); err != nil {
		return nil, fmt.Errorf("JSON unmarshal failed: %w", err)
	}

	result.Intent = Intent(strings.ToLower(strings.TrimSpace(string(result.Intent))))
	if !valid(result.Intent) {
		return nil, fmt.Errorf("out-of-vocabulary label: %q", result.Intent)
	}
	return &result, nil
}

func extractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return response[startIdx : endIdx+1]
}
