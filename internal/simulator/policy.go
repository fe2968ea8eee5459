package simulator

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/fina-agent/fina-console/internal/config"
)

const (
	// Disclaimer is appended to answers that touch financial topics
	Disclaimer = "\n\n*Note: This information is for educational purposes and does not constitute legal financial advice.*"

	blockedTemplate = "I'm sorry, I cannot process your request. Reason: %s"
	outOfScope      = "The query is outside the financial domain this assistant serves."

	// RejectionFeedback is recorded in the thread when a supervisor rejects a draft
	RejectionFeedback = "REJECTED BY SUPERVISOR: The previous recommendation is not authorized. Provide an alternative."
)

// disclaimerTriggers mark an answer as financial advice
var disclaimerTriggers = []string{"advice", "invest", "portfolio", "recommendation", "buy", "sell", "asset", "shares", "stock", "balance"}

// policy holds the keyword rules of the simulated graph
type policy struct {
	finance   []string
	risk      []string
	sensitive []string
	threshold int
	weight    int
}

func newPolicy(cfg config.AgentConfig) policy {
	lower := func(in []string) []string {
		out := make([]string, 0, len(in))
		for _, w := range in {
			out = append(out, strings.ToLower(w))
		}
		return out
	}
	weight := cfg.HighRiskWeight
	if weight <= 0 {
		weight = 1
	}
	return policy{
		finance:   lower(cfg.FinanceKeywords),
		risk:      lower(cfg.RiskKeywords),
		sensitive: lower(cfg.SensitiveKeywords),
		threshold: cfg.RiskThreshold,
		weight:    weight,
	}
}

// inScope is the input guardrail: the query must mention a financial topic, unless the
// user is asking about documents they ingested.
func (p policy) inScope(message string, hasDocs bool) bool {
	lower := strings.ToLower(message)
	if hasDocs {
		return true
	}
	for _, k := range p.finance {
		if strings.Contains(lower, k) {
			return true
		}
	}
	for _, k := range append(p.risk, p.sensitive...) {
		if containsWord(lower, k) {
			return true
		}
	}
	return false
}

// blockedAnswer is the guardrail's refusal
func blockedAnswer() string {
	return fmt.Sprintf(blockedTemplate, outOfScope)
}

// riskScore weighs whole-word keyword hits in a draft answer
func (p policy) riskScore(draft string) (score int, hits []string) {
	lower := strings.ToLower(draft)
	for _, k := range p.risk {
		if containsWord(lower, k) {
			score += p.weight
			hits = append(hits, k)
		}
	}
	for _, k := range p.sensitive {
		if containsWord(lower, k) {
			score++
			hits = append(hits, k)
		}
	}
	return score, hits
}

// needsReview reports whether the draft must wait for a supervisor
func (p policy) needsReview(draft string) bool {
	score, _ := p.riskScore(draft)
	return p.threshold > 0 && score >= p.threshold
}

// withDisclaimer is the output guardrail
func withDisclaimer(answer string) string {
	lower := strings.ToLower(answer)
	if strings.Contains(answer, Disclaimer) {
		return answer
	}
	for _, t := range disclaimerTriggers {
		if strings.Contains(lower, t) {
			return answer + Disclaimer
		}
	}
	return answer
}

// draftAnswer composes the simulated analyst's reply
func draftAnswer(message string, docs []string) string {
	var b strings.Builder
	topic := strings.TrimRight(strings.TrimSpace(message), "?.! ")

	if len(docs) > 0 {
		fmt.Fprintf(&b, "I reviewed your uploaded documents (%s). ", strings.Join(docs, ", "))
	}

	fmt.Fprintf(&b, "Regarding \"%s\": ", topic)
	if isRequestForAction(message) {
		b.WriteString("my proposal is to proceed and ")
		b.WriteString(actionVerb(message))
		b.WriteString(" gradually, keeping the position within your risk tolerance and preserving diversification across asset classes. ")
		b.WriteString("Review costs, liquidity and your time horizon before executing.")
	} else {
		b.WriteString("the key factors are your time horizon, diversification, costs and the risk you can tolerate. ")
		b.WriteString("Markets move in cycles, so long-term plans tend to outperform reactive decisions.")
	}
	return b.String()
}

// isRequestForAction reports whether the user asks the agent to act on their money
func isRequestForAction(message string) bool {
	return actionVerb(message) != ""
}

func actionVerb(message string) string {
	lower := strings.ToLower(message)
	for _, v := range []string{"buy", "sell", "trade", "allocate", "invest"} {
		if containsWord(lower, v) {
			return v
		}
	}
	return ""
}

// containsWord reports whether word occurs in s delimited by non-letters
func containsWord(s, word string) bool {
	for i := 0; ; {
		j := strings.Index(s[i:], word)
		if j < 0 {
			return false
		}
		start := i + j
		end := start + len(word)
		before := start == 0 || !isLetter(s[start-1])
		after := end == len(s) || !isLetter(s[end])
		if before && after {
			return true
		}
		i = start + 1
	}
}

func isLetter(b byte) bool {
	return b < 0x80 && unicode.IsLetter(rune(b))
}

// fragments splits text into word-sized stream fragments that concatenate back to text
func fragments(text string) []string {
	var out []string
	start := 0
	for i := 1; i < len(text); i++ {
		if text[i] == ' ' {
			out = append(out, text[start:i])
			start = i
		}
	}
	if start < len(text) {
		out = append(out, text[start:])
	}
	return out
}

// estimateTokens approximates token count at four characters per token
func estimateTokens(s string) int {
	n := len(s) / 4
	if n == 0 && s != "" {
		n = 1
	}
	return n
}
