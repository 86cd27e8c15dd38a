package export

import (
	"io"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/pershin-daniil/hrdesk/internal/calendar"
	"github.com/pershin-daniil/hrdesk/pkg/models"
)

const productID = "-//hrdesk//calendar//EN"

// WriteICS renders calendar events as an all-day iCalendar feed.
func WriteICS(w io.Writer, events []models.Event, stamp time.Time) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	for _, ev := range events {
		start, err := calendar.ParseDay(ev.Start, time.UTC)
		if err != nil {
			return err
		}
		end, err := calendar.ParseDay(ev.End, time.UTC)
		if err != nil {
			return err
		}
		e := cal.AddEvent(ev.ID + "@hrdesk")
		e.SetDtStampTime(stamp)
		e.SetSummary(ev.Title)
		e.SetAllDayStartAt(start)
		e.SetAllDayEndAt(end)
		e.SetProperty(ics.ComponentPropertyCategories, string(ev.Kind))
		if ev.Color != "" {
			e.SetProperty(ics.ComponentProperty("COLOR"), ev.Color)
		}
	}
	_, err := io.WriteString(w, cal.Serialize())
	return err
}
