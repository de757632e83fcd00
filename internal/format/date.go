package format

import (
	"fmt"
	"time"

	"github.com/hunglv/expensive/internal/model"
)

// DateShortLayout is the dd/MM/yyyy display form.
const DateShortLayout = "02/01/2006"

// Date renders the long form, e.g. "10 tháng 1, 2024".
func Date(d model.Date) string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d tháng %d, %d", d.Day(), int(d.Month()), d.Year())
}

// DateShort renders dd/MM/yyyy.
func DateShort(d model.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateShortLayout)
}

// DateTime renders a timestamp as dd/MM/yyyy HH:mm in local time.
func DateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(time.Local).Format(DateShortLayout + " 15:04")
}

// RelativeTime describes how long ago t was, falling back to the short date
// after a week.
func RelativeTime(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "Vừa xong"
	case diff < time.Hour:
		return fmt.Sprintf("%d phút trước", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%d giờ trước", int(diff.Hours()))
	}

	days := int(diff.Hours() / 24)
	switch {
	case days == 1:
		return "Hôm qua"
	case days < 7:
		return fmt.Sprintf("%d ngày trước", days)
	default:
		return DateShort(model.DateOf(t))
	}
}
