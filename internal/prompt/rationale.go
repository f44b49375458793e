package prompt

import (
	"fmt"
	"hash/fnv"

	"interiorai/internal/domain"
)

var rationaleTemplates = []string{
	"Selected %[1]s style to match the %[2]s mood.",
	"Optimized lighting and furniture layout for a %[2]s experience.",
	"Incorporated %[1]s elements to enhance the %[2]s functionality.",
	"Focused on creating a %[2]s atmosphere with distinct %[1]s touches.",
}

// Rationale returns a one-sentence explanation stored with a design. The
// template is chosen from seed so one design always gets the same sentence.
func Rationale(seed string, style domain.Style, scenario domain.Scenario) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(seed))
	tmpl := rationaleTemplates[h.Sum32()%uint32(len(rationaleTemplates))]
	return fmt.Sprintf(tmpl, StyleLabel(style), string(scenario))
}
