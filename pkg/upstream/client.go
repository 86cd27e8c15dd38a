package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/pershin-daniil/hrdesk/pkg/metrics"
	"github.com/pershin-daniil/hrdesk/pkg/models"
)

var ErrNotFound = errors.New("not found")

// StatusError is returned for any non-2xx answer from the backend.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend responded %d: %s", e.Code, e.Message)
}

func (e *StatusError) Unwrap() error {
	if e.Code == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

// Client talks to the HR backend over JSON REST.
type Client struct {
	log     *logrus.Entry
	baseURL string
	http    *http.Client
}

func New(log *logrus.Logger, baseURL, token string) *Client {
	httpClient := &http.Client{Timeout: 15 * time.Second}
	if token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
		httpClient.Timeout = 15 * time.Second
	}
	return &Client{
		log:     log.WithField("component", "upstream"),
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

func (c *Client) ListTickets(ctx context.Context, filter models.TicketFilter) ([]models.Ticket, error) {
	q := url.Values{}
	q.Set("userName", filter.UserName)
	q.Set("periodYear", strconv.Itoa(filter.PeriodYear))
	q.Set("periodMonth", strconv.Itoa(filter.PeriodMonth))
	var tickets []models.Ticket
	if err := c.do(ctx, "ListTickets", http.MethodGet, "/api/v1/tickets?"+q.Encode(), nil, &tickets); err != nil {
		return nil, fmt.Errorf("err listing tickets: %w", err)
	}
	return tickets, nil
}

func (c *Client) GetTicket(ctx context.Context, id int) (models.Ticket, error) {
	var ticket models.Ticket
	if err := c.do(ctx, "GetTicket", http.MethodGet, "/api/v1/tickets/"+strconv.Itoa(id), nil, &ticket); err != nil {
		return models.Ticket{}, fmt.Errorf("err getting ticket %d: %w", id, err)
	}
	return ticket, nil
}

func (c *Client) CreateTicket(ctx context.Context, ticket models.TicketRequest) (models.Ticket, error) {
	var created models.Ticket
	if err := c.do(ctx, "CreateTicket", http.MethodPost, "/api/v1/tickets", ticket, &created); err != nil {
		return models.Ticket{}, fmt.Errorf("err creating ticket: %w", err)
	}
	return created, nil
}

func (c *Client) UpdateTicket(ctx context.Context, id int, ticket models.TicketRequest) (models.Ticket, error) {
	var updated models.Ticket
	if err := c.do(ctx, "UpdateTicket", http.MethodPatch, "/api/v1/tickets/"+strconv.Itoa(id), ticket, &updated); err != nil {
		return models.Ticket{}, fmt.Errorf("err updating ticket %d: %w", id, err)
	}
	return updated, nil
}

func (c *Client) DeleteTicket(ctx context.Context, id int) error {
	if err := c.do(ctx, "DeleteTicket", http.MethodDelete, "/api/v1/tickets/"+strconv.Itoa(id), nil, nil); err != nil {
		return fmt.Errorf("err deleting ticket %d: %w", id, err)
	}
	return nil
}

func (c *Client) ListVacations(ctx context.Context, userID string, year int) ([]models.VacationHistory, error) {
	q := url.Values{}
	q.Set("userId", userID)
	q.Set("year", strconv.Itoa(year))
	var history []models.VacationHistory
	if err := c.do(ctx, "ListVacations", http.MethodGet, "/api/v1/vacations/history?"+q.Encode(), nil, &history); err != nil {
		return nil, fmt.Errorf("err listing vacation history: %w", err)
	}
	return history, nil
}

func (c *Client) CreateVacation(ctx context.Context, req models.VacationRequest) (models.VacationHistory, error) {
	var created models.VacationHistory
	if err := c.do(ctx, "CreateVacation", http.MethodPost, "/api/v1/vacations/history", req, &created); err != nil {
		return models.VacationHistory{}, fmt.Errorf("err creating vacation: %w", err)
	}
	return created, nil
}

func (c *Client) do(ctx context.Context, method, httpMethod, path string, body, dest interface{}) (err error) {
	started := time.Now()
	defer func() {
		metrics.UpstreamDuration.WithLabelValues(method).Observe(time.Since(started).Seconds())
		if err != nil {
			metrics.UpstreamErrCount.WithLabelValues(method).Inc()
		}
	}()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("err encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, httpMethod, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.log.Debugf("%s %s", httpMethod, path)
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Warnf("err during closing body: %v", cerr)
		}
	}()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp models.ErrorResponse
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if jerr := json.Unmarshal(raw, &errResp); jerr != nil || errResp.Error == "" {
			errResp.Error = strings.TrimSpace(string(raw))
		}
		return &StatusError{Code: resp.StatusCode, Message: errResp.Error}
	}
	if dest == nil {
		return nil
	}
	if err = json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("err decoding response: %w", err)
	}
	return nil
}
