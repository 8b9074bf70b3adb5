package decision

import (
	"fmt"
	"strings"
)

// FormatContext renders decisions as prompt context so the provider stops
// re-describing findings a human already reviewed. Returns empty when there
// is nothing to say.
func FormatContext(decisions []Decision) string {
	if len(decisions) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("## Previously Reviewed Findings\n\n")
	b.WriteString("The following findings have already been reviewed. Do NOT report these again\n")
	b.WriteString("unless the code has materially changed in a way that invalidates the decision.\n\n")
	for _, d := range decisions {
		fmt.Fprintf(&b, "- [%s] finding_id=%s: %s\n",
			strings.ToUpper(string(d.Action)), d.FindingID, d.Reason)
	}
	return b.String()
}
