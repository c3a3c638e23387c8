package gcal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gcalendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"

	"github.com/omriShneor/schedbot/internal/calendar"
)

// Compile-time check that Client satisfies the backend contract.
var _ calendar.Backend = (*Client)(nil)

func parseGoogleEventTimes(item *gcalendar.Event, loc *time.Location) (time.Time, time.Time, bool, error) {
	if item == nil || item.Start == nil || item.End == nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("event is missing start or end")
	}

	// All-day events use Date instead of DateTime.
	if item.Start.Date != "" {
		startDate, err := time.ParseInLocation("2006-01-02", item.Start.Date, loc)
		if err != nil {
			return time.Time{}, time.Time{}, false, fmt.Errorf("failed to parse all-day start date: %w", err)
		}
		endDate, err := time.ParseInLocation("2006-01-02", item.End.Date, loc)
		if err != nil {
			return time.Time{}, time.Time{}, false, fmt.Errorf("failed to parse all-day end date: %w", err)
		}
		return startDate, endDate, true, nil
	}

	if item.Start.DateTime == "" || item.End.DateTime == "" {
		return time.Time{}, time.Time{}, false, fmt.Errorf("event datetime is missing")
	}

	startTime, err := time.Parse(time.RFC3339, item.Start.DateTime)
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("failed to parse start datetime: %w", err)
	}
	endTime, err := time.Parse(time.RFC3339, item.End.DateTime)
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("failed to parse end datetime: %w", err)
	}

	return startTime, endTime, false, nil
}

func (c *Client) toEvent(item *gcalendar.Event) (calendar.Event, error) {
	start, end, allDay, err := parseGoogleEventTimes(item, c.loc)
	if err != nil {
		return calendar.Event{}, err
	}
	return calendar.Event{
		ID:          item.Id,
		Title:       item.Summary,
		Description: item.Description,
		StartTime:   start,
		EndTime:     end,
		AllDay:      allDay,
	}, nil
}

// ListEvents returns events overlapping [timeMin, timeMax), ordered by start time.
func (c *Client) ListEvents(ctx context.Context, timeMin, timeMax time.Time) ([]calendar.Event, error) {
	if c.service == nil {
		return nil, fmt.Errorf("calendar service not initialized")
	}
	if timeMax.Before(timeMin) {
		return nil, fmt.Errorf("invalid range: time_max is before time_min")
	}

	var result []calendar.Event
	pageToken := ""

	for {
		call := c.service.Events.List(c.calendarID).
			TimeMin(timeMin.Format(time.RFC3339)).
			TimeMax(timeMax.Format(time.RFC3339)).
			SingleEvents(true).
			ShowDeleted(false).
			OrderBy("startTime").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		events, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list events in range: %w", err)
		}

		for _, item := range events.Items {
			if item == nil || item.Status == "cancelled" {
				continue
			}
			ev, parseErr := c.toEvent(item)
			if parseErr != nil {
				continue
			}
			result = append(result, ev)
		}

		if events.NextPageToken == "" {
			break
		}
		pageToken = events.NextPageToken
	}

	return result, nil
}

// FindEventsByTitle returns upcoming events whose title matches query
// case-insensitively, ordered by start time.
func (c *Client) FindEventsByTitle(ctx context.Context, query string, from time.Time, max int) ([]calendar.Event, error) {
	if c.service == nil {
		return nil, fmt.Errorf("calendar service not initialized")
	}
	if max <= 0 {
		max = 10
	}

	events, err := c.service.Events.List(c.calendarID).
		TimeMin(from.Format(time.RFC3339)).
		MaxResults(int64(max)).
		SingleEvents(true).
		OrderBy("startTime").
		Q(query).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to search events by title: %w", err)
	}

	var result []calendar.Event
	for _, item := range events.Items {
		if item == nil || item.Status == "cancelled" {
			continue
		}
		// The q parameter is a full-text search; keep exact title matches only.
		if !calendar.TitleMatches(item.Summary, query) {
			continue
		}
		ev, parseErr := c.toEvent(item)
		if parseErr != nil {
			continue
		}
		result = append(result, ev)
	}

	return result, nil
}

// CreateEvent creates a new event and returns it with its assigned ID.
func (c *Client) CreateEvent(ctx context.Context, input calendar.EventInput) (calendar.Event, error) {
	if c.service == nil {
		return calendar.Event{}, fmt.Errorf("calendar service not initialized")
	}

	// RFC3339 includes the offset, so Google Calendar can infer the timezone.
	event := &gcalendar.Event{
		Summary:     input.Title,
		Description: input.Description,
		Start: &gcalendar.EventDateTime{
			DateTime: input.StartTime.Format(time.RFC3339),
		},
		End: &gcalendar.EventDateTime{
			DateTime: input.EndTime.Format(time.RFC3339),
		},
	}

	created, err := c.service.Events.Insert(c.calendarID, event).Context(ctx).Do()
	if err != nil {
		return calendar.Event{}, fmt.Errorf("failed to create event: %w", err)
	}

	return calendar.Event{
		ID:          created.Id,
		Title:       created.Summary,
		Description: created.Description,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
	}, nil
}

// DeleteEvent deletes an event by ID.
func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	if c.service == nil {
		return fmt.Errorf("calendar service not initialized")
	}
	if eventID == "" {
		return fmt.Errorf("event id is required")
	}

	err := c.service.Events.Delete(c.calendarID, eventID).Context(ctx).Do()
	if err != nil {
		var gErr *googleapi.Error
		if errors.As(err, &gErr) && (gErr.Code == http.StatusNotFound || gErr.Code == http.StatusGone) {
			return calendar.ErrEventNotFound
		}
		return fmt.Errorf("failed to delete event: %w", err)
	}

	return nil
}
