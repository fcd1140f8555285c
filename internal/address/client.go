package address

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dukerupert/addressbook/internal/domain"
)

// LookupPath is where the getAddresses endpoint is mounted.
const LookupPath = "/api/getAddresses"

// Client calls a remote getAddresses endpoint.
// Network and decoding failures surface as MsgFetchFailed; error bodies
// returned by the endpoint keep their message.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewClient creates a lookup client for the endpoint served at baseURL.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *Client) Find(ctx context.Context, postcode, houseNumber string) ([]domain.Address, error) {
	const op = "address.client.find"

	params := url.Values{}
	params.Set("postcode", postcode)
	params.Set("streetnumber", houseNumber)

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, LookupPath, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, c.transportError(op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.ErrorContext(ctx, "lookup request failed", "error", err)
		return nil, c.transportError(op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var body Response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.logger.ErrorContext(ctx, "failed to decode lookup payload", "error", err, "status", resp.StatusCode)
		return nil, c.transportError(op, err)
	}

	switch body.Status {
	case StatusOK:
		return body.Details, nil
	case StatusError:
		return nil, &domain.Error{Code: statusToCode(resp.StatusCode), Op: op, Message: body.ErrorMessage}
	default:
		return nil, c.transportError(op, fmt.Errorf("unexpected lookup status %q (http %d)", body.Status, resp.StatusCode))
	}
}

func (c *Client) transportError(op string, err error) error {
	return domain.Unavailable(fmt.Errorf("%w: %v", ErrTransport, err), op, MsgFetchFailed)
}

func statusToCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return domain.EINVALID
	case http.StatusNotFound:
		return domain.ENOTFOUND
	case http.StatusTooManyRequests:
		return domain.ERATELIMIT
	default:
		return domain.EUNAVAILABLE
	}
}
