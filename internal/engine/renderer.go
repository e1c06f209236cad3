package engine

import (
	"fmt"
	"strings"

	"github.com/subtrack/reminder-gateway/internal/model"
	"github.com/subtrack/reminder-gateway/pkg/phone"
)

// Renderer substitutes client fields into template bodies. Rendering
// never fails: placeholders it does not know stay as literal text.
type Renderer struct {
	CountryCode string
}

// Render fills the template placeholders from the client record.
// Amounts come out as 49.90, dates as 26/08/2026. When the client has
// no notes, lines holding nothing but {notes} are dropped instead of
// leaving a blank line in the message.
func (r *Renderer) Render(template string, client *model.Client) string {
	if client.Notes == "" {
		template = dropBareNotesLines(template)
	}

	replacer := strings.NewReplacer(
		"{name}", client.Name,
		"{plan}", client.PlanName,
		"{amount}", fmt.Sprintf("%.2f", client.PlanPrice),
		"{due_date}", client.DueDate.Format("02/01/2006"),
		"{server}", client.Server,
		"{notes}", client.Notes,
		"{phone}", phone.FormatDisplay(client.Phone, r.CountryCode),
	)

	return replacer.Replace(template)
}

func dropBareNotesLines(template string) string {
	lines := strings.Split(template, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) == "{notes}" {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
