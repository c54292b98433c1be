package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	ical "github.com/emersion/go-ical"

	"github.com/christopherklint97/goclockify/clockify"
)

const productID = "-//goclockify//time entries//EN"

// ErrNoEvents is returned when none of the entries has finished.
var ErrNoEvents = errors.New("no finished time entries to export")

// WriteICS encodes every finished entry as a VEVENT. Running entries have no
// end and are skipped. projectNames maps project IDs to display names and may
// be nil. It returns the number of events written.
func WriteICS(w io.Writer, entries []clockify.TimeEntry, projectNames map[string]string, now time.Time) (int, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	for i, e := range entries {
		if e.Running() {
			continue
		}

		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, eventUID(e, i))
		event.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())
		event.Props.SetDateTime(ical.PropDateTimeStart, e.Start.UTC())
		event.Props.SetDateTime(ical.PropDateTimeEnd, e.End.UTC())
		event.Props.SetText(ical.PropSummary, eventSummary(e, projectNames))
		if e.Description != "" {
			event.Props.SetText(ical.PropDescription, e.Description)
		}
		if len(e.TagIDs) > 0 {
			event.Props.Set(categories(e.TagIDs))
		}

		cal.Children = append(cal.Children, event.Component)
	}

	if len(cal.Children) == 0 {
		return 0, ErrNoEvents
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return 0, fmt.Errorf("encoding calendar: %w", err)
	}
	return len(cal.Children), nil
}

// WriteICSFile encodes entries and writes them to path. The file is only
// created once there is at least one finished entry to write.
func WriteICSFile(path string, entries []clockify.TimeEntry, projectNames map[string]string, now time.Time) (int, error) {
	var buf bytes.Buffer
	n, err := WriteICS(&buf, entries, projectNames, now)
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}
	return n, nil
}

var textEscaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\n", `\n`)

// categories builds a CATEGORIES list with one value per tag.
func categories(tagIDs []string) *ical.Prop {
	values := make([]string, len(tagIDs))
	for i, id := range tagIDs {
		values[i] = textEscaper.Replace(id)
	}
	prop := ical.NewProp(ical.PropCategories)
	prop.Value = strings.Join(values, ",")
	return prop
}

func eventUID(e clockify.TimeEntry, index int) string {
	if e.ID != "" {
		return e.ID + "@clockify"
	}
	return fmt.Sprintf("%s-%d@clockify", e.Start.UTC().Format("20060102T150405Z"), index)
}

func eventSummary(e clockify.TimeEntry, projectNames map[string]string) string {
	summary := e.Description
	if summary == "" {
		summary = "(no description)"
	}
	if name := projectNames[e.ProjectID]; name != "" {
		summary = name + ": " + summary
	}
	return summary
}
