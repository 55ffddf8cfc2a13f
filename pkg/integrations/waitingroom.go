package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/haru/meets-dashboard/pkg/domain"
)

const defaultWaitingRoomURL = "https://meets.fortunemusic.app/lapi/v5/app/dateTimezoneMessages"

// WaitingRoomClient reads per-session queue-status snapshots. The upstream
// calls a session an "event" and keys it as "e<id>", so requests carry the
// session id with a literal "e" prefix.
type WaitingRoomClient struct {
	baseURL    string
	httpClient *http.Client
}

type WaitingRoomConfig struct {
	BaseURL string
	Timeout time.Duration
}

func NewWaitingRoomClient(config WaitingRoomConfig) (*WaitingRoomClient, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultWaitingRoomURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid waiting-room URL %q: %w", baseURL, err)
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &WaitingRoomClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type waitingRoomRequest struct {
	EventID string `json:"eventId"`
}

type waitingRoomResponse struct {
	DateMessage string          `json:"dateMessage"`
	Timezones   []timezoneBlock `json:"timezones"`
}

type timezoneBlock struct {
	EID     string                 `json:"e_id"`
	Members map[string]memberCount `json:"members"`
}

type memberCount struct {
	TotalCount int `json:"totalCount"`
	TotalWait  int `json:"totalWait"`
}

// FetchWaitingRooms issues one POST for the given session and flattens the
// response into per-session entry lists.
func (c *WaitingRoomClient) FetchWaitingRooms(ctx context.Context, sessionID int) (*domain.WaitingRoomSnapshot, error) {
	if sessionID <= 0 {
		return nil, domain.ErrInvalidRequest
	}

	body, err := json.Marshal(waitingRoomRequest{EventID: fmt.Sprintf("e%d", sessionID)})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch waiting rooms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &domain.UpstreamHTTPError{Status: resp.StatusCode}
	}

	var payload waitingRoomResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	return flattenWaitingRooms(payload)
}

// flattenWaitingRooms folds timezone blocks into a session-id keyed map.
// Blocks sharing a decoded id accumulate their entries; a block with no
// members still surfaces its session id with an empty list.
func flattenWaitingRooms(payload waitingRoomResponse) (*domain.WaitingRoomSnapshot, error) {
	rooms := make(domain.WaitingRoomMap)

	for _, block := range payload.Timezones {
		sessionID, err := decodeSessionID(block.EID)
		if err != nil {
			return nil, err
		}

		if _, ok := rooms[sessionID]; !ok {
			rooms[sessionID] = []domain.WaitingRoomEntry{}
		}

		// Ticket codes sort ascending within a block so the entry order
		// does not depend on map iteration.
		codes := make([]string, 0, len(block.Members))
		for code := range block.Members {
			codes = append(codes, code)
		}
		sort.Strings(codes)

		for _, code := range codes {
			count := block.Members[code]
			rooms[sessionID] = append(rooms[sessionID], domain.WaitingRoomEntry{
				TicketCode:  code,
				PeopleCount: count.TotalCount,
				WaitingTime: count.TotalWait,
			})
		}
	}

	return &domain.WaitingRoomSnapshot{
		Message: payload.DateMessage,
		Rooms:   rooms,
	}, nil
}

func decodeSessionID(eid string) (int, error) {
	digits, ok := strings.CutPrefix(eid, "e")
	if !ok {
		return 0, fmt.Errorf("%w: timezone id %q lacks e prefix", domain.ErrMalformedResponse, eid)
	}
	sessionID, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("%w: timezone id %q is not numeric", domain.ErrMalformedResponse, eid)
	}
	return sessionID, nil
}
