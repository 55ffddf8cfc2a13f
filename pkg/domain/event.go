package domain

import (
	"fmt"
	"time"
)

// Event is one calendar-date occurrence of an upstream event. The same
// upstream id can occur on many dates, so the catalog keeps a list of
// occurrences per id and UniqueID distinguishes them.
type Event struct {
	ID         int       `json:"id"`
	UniqueID   string    `json:"unique_id"`
	Name       string    `json:"name"`
	ArtistName string    `json:"artist_name"`
	PhotoURL   string    `json:"photo_url"`
	Date       time.Time `json:"date"`
	Sessions   []Session `json:"sessions"`
}

// Session is one bookable time slot within an occurrence ("timezone" in
// upstream terms). Members keep upstream order.
type Session struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Members   []Member  `json:"members"`
}

// Member is a single bookable participant slot within a session.
type Member struct {
	TicketCode   string `json:"ticket_code"`
	Name         string `json:"name"`
	Order        int    `json:"order"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// Catalog maps an upstream event id to its future occurrences, ordered as
// delivered by the upstream.
type Catalog map[int][]Event

// UniqueEventID derives the per-occurrence key from the event id and the id
// of the occurrence's first session.
func UniqueEventID(eventID, firstSessionID int) string {
	return fmt.Sprintf("%d-%d", eventID, firstSessionID)
}

// Session returns the session with the given id, if present.
func (e *Event) Session(id int) (*Session, bool) {
	for i := range e.Sessions {
		if e.Sessions[i].ID == id {
			return &e.Sessions[i], true
		}
	}
	return nil, false
}

// EarliestStart returns the minimum session start time, the occurrence's
// representative instant for nearest-event comparison. ok is false when the
// event has no sessions.
func (e *Event) EarliestStart() (time.Time, bool) {
	if len(e.Sessions) == 0 {
		return time.Time{}, false
	}
	earliest := e.Sessions[0].StartTime
	for _, s := range e.Sessions[1:] {
		if s.StartTime.Before(earliest) {
			earliest = s.StartTime
		}
	}
	return earliest, true
}

// Member returns the member with the given ticket code, if present.
func (s *Session) Member(ticketCode string) (*Member, bool) {
	for i := range s.Members {
		if s.Members[i].TicketCode == ticketCode {
			return &s.Members[i], true
		}
	}
	return nil, false
}
