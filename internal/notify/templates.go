package notify

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Template keys.
const (
	keyThreeDaysSubject = "three_days.subject"
	keyThreeDaysBody    = "three_days.body"
	keyDueTodaySubject  = "due_today.subject"
	keyDueTodayBody     = "due_today.body"
	keyWeeklySubject    = "weekly.subject"
	keyWeeklyHeader     = "weekly.header"
	keyWeeklyLine       = "weekly.line"
	keyWeeklyFooter     = "weekly.footer"
)

var supported = []language.Tag{language.Spanish, language.English}

var texts = map[language.Tag]map[string]string{
	language.Spanish: {
		keyThreeDaysSubject: "Recordatorio de alquiler",
		keyThreeDaysBody:    "Hola %[1]s, te recordamos que el %[3]s vence tu recibo de alquiler de %[2]s.",
		keyDueTodaySubject:  "Tu alquiler vence hoy",
		keyDueTodayBody:     "Hola %[1]s, hoy %[3]s vence tu recibo de alquiler de %[2]s. Si ya lo has pagado, declara el pago en la app.",
		keyWeeklySubject:    "Recibos pendientes",
		keyWeeklyHeader:     "Hola %[1]s, tienes %[2]d recibo(s) vencido(s):",
		keyWeeklyLine:       "- %[1]s: %[2]s",
		keyWeeklyFooter:     "Total pendiente: %[1]s",
	},
	language.English: {
		keyThreeDaysSubject: "Rent reminder",
		keyThreeDaysBody:    "Hi %[1]s, a reminder that your rent of %[2]s is due on %[3]s.",
		keyDueTodaySubject:  "Your rent is due today",
		keyDueTodayBody:     "Hi %[1]s, your rent of %[2]s is due today, %[3]s. If you already paid, declare the payment in the app.",
		keyWeeklySubject:    "Overdue rent",
		keyWeeklyHeader:     "Hi %[1]s, you have %[2]d overdue invoice(s):",
		keyWeeklyLine:       "- %[1]s: %[2]s",
		keyWeeklyFooter:     "Total due: %[1]s",
	},
}

var cat = func() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.Spanish))
	for tag, m := range texts {
		for k, v := range m {
			if err := b.SetString(tag, k, v); err != nil {
				panic(err)
			}
		}
	}
	return b
}()

// OverdueLine is one invoice in a weekly summary.
type OverdueLine struct {
	DueDate time.Time
	Amount  int64
}

// Templates renders reminder texts for one locale.
type Templates struct {
	tag      language.Tag
	p        *message.Printer
	currency string
}

// NewTemplates returns templates for locale ("es" or "en"; anything else
// falls back to Spanish). Amounts are minor units rendered with symbol.
func NewTemplates(locale, symbol string) *Templates {
	tag, _, _ := language.NewMatcher(supported).Match(language.Make(locale))
	base, _ := tag.Base()
	tag = language.Make(base.String())
	return &Templates{
		tag:      tag,
		p:        message.NewPrinter(tag, message.Catalog(cat)),
		currency: symbol,
	}
}

// Lang returns the resolved language.
func (t *Templates) Lang() language.Tag { return t.tag }

// Money formats minor units with two decimals and the currency symbol.
func (t *Templates) Money(minor int64) string {
	n := t.p.Sprintf("%.2f", float64(minor)/100)
	if t.tag == language.English {
		return t.currency + n
	}
	return n + " " + t.currency
}

// Date formats a business date for the locale.
func (t *Templates) Date(d time.Time) string {
	if t.tag == language.English {
		return d.Format("Jan 2, 2006")
	}
	return d.Format("02/01/2006")
}

// ThreeDaysBefore renders the advance reminder.
func (t *Templates) ThreeDaysBefore(name string, amount int64, due time.Time) (subject, body string) {
	return t.p.Sprintf(keyThreeDaysSubject), t.p.Sprintf(keyThreeDaysBody, name, t.Money(amount), t.Date(due))
}

// DueToday renders the due-date reminder.
func (t *Templates) DueToday(name string, amount int64, due time.Time) (subject, body string) {
	return t.p.Sprintf(keyDueTodaySubject), t.p.Sprintf(keyDueTodayBody, name, t.Money(amount), t.Date(due))
}

// WeeklySummary renders one message listing every overdue invoice and the
// total.
func (t *Templates) WeeklySummary(name string, lines []OverdueLine) (subject, body string) {
	var b strings.Builder
	var total int64
	b.WriteString(t.p.Sprintf(keyWeeklyHeader, name, len(lines)))
	for _, l := range lines {
		total += l.Amount
		b.WriteByte('\n')
		b.WriteString(t.p.Sprintf(keyWeeklyLine, t.Date(l.DueDate), t.Money(l.Amount)))
	}
	b.WriteByte('\n')
	b.WriteString(t.p.Sprintf(keyWeeklyFooter, t.Money(total)))
	return t.p.Sprintf(keyWeeklySubject), b.String()
}
