package directive

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Action vocabulary the model is instructed to emit.
const (
	actionResidentialDone = "RES_DONE"
	actionCommercialAlert = "COMM_ALERT"
	actionHandoff         = "HANDOFF"
)

// NoSummary stands in when a commercial alert arrives without a summary.
const NoSummary = "no summary provided"

// Directive is a structured instruction extracted from the tail of a model
// reply. A nil Directive means the reply was speech only.
type Directive interface {
	isDirective()
}

// ResidentialComplete signals enough residential lead detail was collected.
type ResidentialComplete struct{}

// CommercialAlert signals a commercial lead worth alerting the owner about.
type CommercialAlert struct {
	Summary string
}

// Handoff requests transfer of the live call to a human agent.
type Handoff struct{}

func (ResidentialComplete) isDirective() {}
func (CommercialAlert) isDirective()     {}
func (Handoff) isDirective()             {}

// Split separates a reply into its spoken prefix and a trailing brace block.
// The block runs from the first '{' through the end of the trimmed reply and
// only exists when the reply ends with '}'. The spoken prefix is returned
// even when the block later fails to parse.
func Split(reply string) (spoken, block string) {
	trimmed := strings.TrimSpace(reply)
	if !strings.HasSuffix(trimmed, "}") {
		return trimmed, ""
	}
	idx := strings.Index(trimmed, "{")
	if idx < 0 {
		return trimmed, ""
	}
	return strings.TrimSpace(trimmed[:idx]), trimmed[idx:]
}

var (
	bareKeyPattern     = regexp.MustCompile(`([{,]\s*)([A-Za-z0-9_]+)(\s*:)`)
	singleQuotePattern = regexp.MustCompile(`'([^'\\]*)'`)
)

// Repair rewrites minimally-malformed model output into parseable JSON:
// bare identifier keys are quoted and single-quoted scalars become
// double-quoted. It is only applied after a strict parse has failed.
func Repair(block string) string {
	out := bareKeyPattern.ReplaceAllString(block, `$1"$2"$3`)
	return singleQuotePattern.ReplaceAllString(out, `"$1"`)
}

type rawDirective struct {
	Action  string `json:"action"`
	Summary string `json:"summary"`
}

// Parse decodes a brace block into a Directive. Strict JSON is attempted
// first, then one Repair pass. Blocks that still fail, or whose action is
// outside the known vocabulary, yield nil; parsing never returns an error.
func Parse(block string) Directive {
	if strings.TrimSpace(block) == "" {
		return nil
	}
	var raw rawDirective
	if err := json.Unmarshal([]byte(block), &raw); err != nil {
		if err := json.Unmarshal([]byte(Repair(block)), &raw); err != nil {
			return nil
		}
	}

	switch strings.ToUpper(strings.TrimSpace(raw.Action)) {
	case actionResidentialDone:
		return ResidentialComplete{}
	case actionCommercialAlert:
		summary := strings.TrimSpace(raw.Summary)
		if summary == "" {
			summary = NoSummary
		}
		return CommercialAlert{Summary: summary}
	case actionHandoff:
		return Handoff{}
	default:
		return nil
	}
}

// FromReply splits and parses in one step.
func FromReply(reply string) (spoken string, d Directive) {
	spoken, block := Split(reply)
	return spoken, Parse(block)
}
