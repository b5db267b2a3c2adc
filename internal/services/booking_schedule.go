package services

import (
	"fmt"
	"time"

	"stagebook/internal/common"
	"stagebook/internal/models"
)

const (
	minutesPerDay = 24 * 60
	// markers are placed in [-6h, +18h) around the event start
	markerLeadMinutes = 6 * 60
)

// timeWindow is the absolute interval a booking occupies its performer
type timeWindow struct {
	Start time.Time
	End   time.Time
}

func (w timeWindow) overlaps(other timeWindow) bool {
	return w.Start.Before(other.End) && other.Start.Before(w.End)
}

// deriveMarkers fills the unset schedule markers from the performer's timings.
// The performance starts with the event unless told otherwise.
func deriveMarkers(eventStart string, performer *models.Performer, booking *models.Booking) error {
	perfStart := eventStart
	if booking.PerformanceStart != nil {
		perfStart = *booking.PerformanceStart
	}
	start, err := common.ClockMinutes(perfStart)
	if err != nil {
		return common.NewValidationError("performance_start", "must be a time in HH:MM format")
	}

	fill := func(marker **string, minutes int) {
		if *marker == nil {
			v := common.FormatClock(minutes)
			*marker = &v
		}
	}
	fill(&booking.PerformanceStart, start)
	fill(&booking.SetupStart, start-performer.SetupTime)
	fill(&booking.PerformanceEnd, start+performer.PerformanceTime)

	end, err := common.ClockMinutes(*booking.PerformanceEnd)
	if err != nil {
		return common.NewValidationError("performance_end", "must be a time in HH:MM format")
	}
	fill(&booking.LoadOut, end+performer.BreakdownTime)

	if booking.CallTime == nil {
		booking.CallTime = booking.SetupStart
	}
	return nil
}

// markerOffset places a clock time relative to the event start
func markerOffset(eventStart, marker int) int {
	offset := marker - eventStart + markerLeadMinutes
	offset = ((offset % minutesPerDay) + minutesPerDay) % minutesPerDay
	return offset - markerLeadMinutes
}

func eventWindow(date time.Time, startClock, endClock string) (timeWindow, int, error) {
	start, err := common.ClockMinutes(startClock)
	if err != nil {
		return timeWindow{}, 0, fmt.Errorf("event start_time: %w", err)
	}
	end, err := common.ClockMinutes(endClock)
	if err != nil {
		return timeWindow{}, 0, fmt.Errorf("event end_time: %w", err)
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	duration := end - start
	if duration <= 0 {
		duration += minutesPerDay
	}
	base := day.Add(time.Duration(start) * time.Minute)
	return timeWindow{Start: base, End: base.Add(time.Duration(duration) * time.Minute)}, start, nil
}

// bookingWindow runs from setup start to load out. Missing markers fall back to
// the performance markers and then to the event's own times.
func bookingWindow(date time.Time, eventStart, eventEnd string, setupStart, perfStart, perfEnd, loadOut *string) (timeWindow, error) {
	window, startMinutes, err := eventWindow(date, eventStart, eventEnd)
	if err != nil {
		return timeWindow{}, err
	}
	base := window.Start

	pick := func(markers ...*string) (time.Time, bool, error) {
		for _, m := range markers {
			if m == nil {
				continue
			}
			minutes, err := common.ClockMinutes(*m)
			if err != nil {
				return time.Time{}, false, err
			}
			return base.Add(time.Duration(markerOffset(startMinutes, minutes)) * time.Minute), true, nil
		}
		return time.Time{}, false, nil
	}

	start, ok, err := pick(setupStart, perfStart)
	if err != nil {
		return timeWindow{}, err
	}
	if ok {
		window.Start = start
	}
	end, ok, err := pick(loadOut, perfEnd)
	if err != nil {
		return timeWindow{}, err
	}
	if ok {
		window.End = end
	}
	if window.End.Before(window.Start) {
		window.End = window.End.Add(24 * time.Hour)
	}
	return window, nil
}

func scheduledWindow(sb *models.ScheduledBooking) (timeWindow, error) {
	return bookingWindow(sb.EventDate, sb.EventStart, sb.EventEnd, sb.SetupStart, sb.PerformanceStart, sb.PerformanceEnd, sb.LoadOut)
}

func bookingWindowFor(event *models.Event, booking *models.Booking) (timeWindow, error) {
	return bookingWindow(event.Date, event.StartTime, event.EndTime, booking.SetupStart, booking.PerformanceStart, booking.PerformanceEnd, booking.LoadOut)
}
