package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/haru/meets-dashboard/pkg/domain"
)

const defaultEventsURL = "https://api.fortunemusic.app/v1/appGetEventData/"

// Artists the dashboard follows; everything else upstream is discarded
// wholesale, events included.
var defaultTargetArtists = []string{"乃木坂46", "櫻坂46", "日向坂46", "=LOVE"}

// FortuneMusicClient fetches the upstream event catalog and normalizes it
// into the domain model. Each FetchCatalog call builds an entirely new
// catalog; nothing is cached or shared between calls.
type FortuneMusicClient struct {
	baseURL       string
	targetArtists map[string]bool
	httpClient    *http.Client
	now           func() time.Time
}

type FortuneMusicConfig struct {
	BaseURL       string
	TargetArtists []string
	Timeout       time.Duration
}

func NewFortuneMusicClient(config FortuneMusicConfig) (*FortuneMusicClient, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultEventsURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid events URL %q: %w", baseURL, err)
	}

	artists := config.TargetArtists
	if len(artists) == 0 {
		artists = defaultTargetArtists
	}
	targets := make(map[string]bool, len(artists))
	for _, name := range artists {
		targets[name] = true
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &FortuneMusicClient{
		baseURL:       baseURL,
		targetArtists: targets,
		httpClient:    &http.Client{Timeout: timeout},
		now:           time.Now,
	}, nil
}

type appGetEventData struct {
	AppGetEventResponse *appGetEventResponse `json:"appGetEventResponse"`
}

type appGetEventResponse struct {
	ArtistArray []artistPayload `json:"artistArray"`
}

type artistPayload struct {
	ArtName    string         `json:"artName"`
	EventArray []eventPayload `json:"eventArray"`
}

type eventPayload struct {
	EvtID      int           `json:"evtId"`
	EvtName    string        `json:"evtName"`
	EvtPhotURL string        `json:"evtPhotUrl"`
	DateArray  []datePayload `json:"dateArray"`
}

type datePayload struct {
	DateDate      string            `json:"dateDate"`
	TimeZoneArray []timeZonePayload `json:"timeZoneArray"`
}

type timeZonePayload struct {
	TzID        int             `json:"tzId"`
	TzName      string          `json:"tzName"`
	TzStart     string          `json:"tzStart"`
	TzEnd       string          `json:"tzEnd"`
	MemberArray []memberPayload `json:"memberArray"`
}

type memberPayload struct {
	ShCode     string `json:"shCode"`
	MbName     string `json:"mbName"`
	MbSortNo   int    `json:"mbSortNo"`
	MbPhotoURL string `json:"mbPhotoUrl"`
}

// FetchCatalog issues one GET against the events endpoint and folds the
// response into a catalog of future occurrences for the target artists. A
// non-2xx status or a single malformed record aborts the whole build; no
// partial catalog is ever returned.
func (c *FortuneMusicClient) FetchCatalog(ctx context.Context) (domain.Catalog, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch event catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &domain.UpstreamHTTPError{Status: resp.StatusCode}
	}

	var payload appGetEventData
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	if payload.AppGetEventResponse == nil {
		return nil, fmt.Errorf("%w: missing appGetEventResponse", domain.ErrMalformedResponse)
	}

	return buildCatalog(payload.AppGetEventResponse.ArtistArray, c.targetArtists, c.now())
}

func buildCatalog(artists []artistPayload, targets map[string]bool, now time.Time) (domain.Catalog, error) {
	catalog := make(domain.Catalog)
	today := startOfDayJST(now)

	for _, artist := range artists {
		if !targets[artist.ArtName] {
			continue
		}
		for _, evt := range artist.EventArray {
			for _, date := range evt.DateArray {
				occurrence, err := buildOccurrence(artist.ArtName, evt, date, today)
				if err != nil {
					return nil, err
				}
				if occurrence == nil {
					continue
				}
				catalog[evt.EvtID] = append(catalog[evt.EvtID], *occurrence)
			}
		}
	}

	return catalog, nil
}

// buildOccurrence turns one calendar-date entry into an Event. It returns
// nil (and no error) for entries that are filtered out: strictly-past days
// and days with no sessions.
func buildOccurrence(artistName string, evt eventPayload, date datePayload, today time.Time) (*domain.Event, error) {
	day, err := parseDateJST(date.DateDate)
	if err != nil {
		return nil, err
	}
	if day.Before(today) {
		return nil, nil
	}

	sessions, err := buildSessions(date.DateDate, date.TimeZoneArray)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}

	return &domain.Event{
		ID:         evt.EvtID,
		UniqueID:   domain.UniqueEventID(evt.EvtID, sessions[0].ID),
		Name:       evt.EvtName,
		ArtistName: artistName,
		PhotoURL:   evt.EvtPhotURL,
		Date:       day,
		Sessions:   sessions,
	}, nil
}

func buildSessions(date string, timezones []timeZonePayload) ([]domain.Session, error) {
	sessions := make([]domain.Session, 0, len(timezones))
	for _, tz := range timezones {
		startAt, err := combineDateAndTime(date, tz.TzStart)
		if err != nil {
			return nil, err
		}
		endAt, err := combineDateAndTime(date, tz.TzEnd)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, domain.Session{
			ID:        tz.TzID,
			Name:      tz.TzName,
			StartTime: startAt,
			EndTime:   endAt,
			Members:   buildMembers(tz.MemberArray),
		})
	}
	return sessions, nil
}

func buildMembers(members []memberPayload) []domain.Member {
	result := make([]domain.Member, 0, len(members))
	for _, m := range members {
		result = append(result, domain.Member{
			TicketCode:   m.ShCode,
			Name:         m.MbName,
			Order:        m.MbSortNo,
			ThumbnailURL: m.MbPhotoURL,
		})
	}
	return result
}
