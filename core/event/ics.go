package event

import (
	"fmt"
	"strings"
	"time"
)

const icsTimeLayout = "20060102T150405Z"

// RenderICS renders events as an RFC 5545 iCalendar document that calendar
// apps can import. Lines are CRLF-terminated; text values are escaped per
// RFC 5545.
func RenderICS(calName string, evts []Event, now time.Time) string {
	var b strings.Builder
	writeLine := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, format, args...)
		b.WriteString("\r\n")
	}

	writeLine("BEGIN:VCALENDAR")
	writeLine("VERSION:2.0")
	writeLine("PRODID:-//The Forge//Forge Calendar//EN")
	writeLine("CALSCALE:GREGORIAN")
	writeLine("METHOD:PUBLISH")
	writeLine("X-WR-CALNAME:%s", escapeICS(calName))

	stamp := now.UTC().Format(icsTimeLayout)
	for _, evt := range evts {
		writeLine("BEGIN:VEVENT")
		writeLine("UID:%s@theforge", evt.ID)
		writeLine("DTSTAMP:%s", stamp)
		writeLine("DTSTART:%s", evt.StartsAt.UTC().Format(icsTimeLayout))
		writeLine("DTEND:%s", evt.EndsAt.UTC().Format(icsTimeLayout))
		writeLine("SUMMARY:%s", escapeICS(evt.Title))
		if evt.Description != "" {
			writeLine("DESCRIPTION:%s", escapeICS(evt.Description))
		}
		if evt.Location != "" {
			writeLine("LOCATION:%s", escapeICS(evt.Location))
		}
		writeLine("END:VEVENT")
	}
	writeLine("END:VCALENDAR")

	return b.String()
}

// escapeICS escapes text values per RFC 5545 §3.3.11.
func escapeICS(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		";", `\;`,
		",", `\,`,
		"\r\n", `\n`,
		"\n", `\n`,
	)
	return r.Replace(s)
}
