package report

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/validator"
)

// Filename builds <name>_DTR_History[_<start>_to_<end>]_<generated>.<ext>.
func Filename(userName string, req HistoryRequest, generatedAt time.Time, format Format) string {
	var b strings.Builder
	b.WriteString(userName)
	b.WriteString("_DTR_History")
	if req.HasRange() {
		b.WriteString("_" + req.StartDate + "_to_" + req.EndDate)
	}
	b.WriteString("_" + generatedAt.Format(validator.DateLayout))
	b.WriteString("." + string(format))
	return b.String()
}
