// Package remote provides the HTTP client for the order-processing service
// and the wire codec shared with the server side.
package remote

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-faster/errors"

	"github.com/ministore/till/internal/domain/catalogue"
	"github.com/ministore/till/internal/domain/orders"
)

var _ orders.RemoteService = (*Client)(nil)

// Client talks to an orderd instance over HTTP. It carries no connection
// state of its own; the OLC facade layers the bind/drop lifecycle on top.
type Client struct {
	base string
	http *http.Client
}

// NewClient returns a client for the orderd instance at baseURL. A nil
// httpClient selects a default with a 30 second timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{base: baseURL, http: httpClient}
}

// Dialer returns a facade dialer that verifies the service is reachable
// before handing the client out. The liveness probe makes "bind" mean
// something for a connectionless transport: a dead server fails the
// initiating call instead of its first real request.
func Dialer(baseURL string, httpClient *http.Client) func(ctx context.Context) (orders.RemoteService, error) {
	return func(ctx context.Context) (orders.RemoteService, error) {
		c := NewClient(baseURL, httpClient)
		if err := c.ping(ctx); err != nil {
			return nil, err
		}
		return c, nil
	}
}

func (c *Client) ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/livez", nil)
	if err != nil {
		return errors.Wrap(err, "build ping request")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "ping order service")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("order service not live: %s", resp.Status)
	}
	return nil
}

// do issues one request and returns the response body for 2xx statuses.
func (c *Client) do(ctx context.Context, method, path string, body []byte) (int, []byte, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return 0, nil, errors.Wrap(err, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, nil, errors.Wrap(err, "read response")
	}
	if resp.StatusCode >= 400 {
		return resp.StatusCode, nil, errors.Errorf("%s %s: %s", method, path, resp.Status)
	}
	return resp.StatusCode, data, nil
}

// NewOrder submits a settled basket for picking.
func (c *Client) NewOrder(ctx context.Context, basket *catalogue.Basket) error {
	_, _, err := c.do(ctx, http.MethodPost, "/orders", MarshalBasket(basket))
	return err
}

// UniqueNumber asks the service for a fresh order number.
func (c *Client) UniqueNumber(ctx context.Context) (int, error) {
	_, data, err := c.do(ctx, http.MethodPost, "/orders/number", nil)
	if err != nil {
		return 0, err
	}
	return UnmarshalOrderNumber(data)
}

// OrderToPack claims the next waiting basket, or returns nil when the
// service answers 204 No Content.
func (c *Client) OrderToPack(ctx context.Context) (*catalogue.Basket, error) {
	status, data, err := c.do(ctx, http.MethodPost, "/orders/pack", nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNoContent {
		return nil, nil
	}
	return UnmarshalBasket(data)
}

// InformOrderPacked reports order n as packed.
func (c *Client) InformOrderPacked(ctx context.Context, n int) (bool, error) {
	_, data, err := c.do(ctx, http.MethodPost, orderPath(n, "packed"), nil)
	if err != nil {
		return false, err
	}
	return UnmarshalAck(data)
}

// InformOrderCollected reports order n as collected.
func (c *Client) InformOrderCollected(ctx context.Context, n int) (bool, error) {
	_, data, err := c.do(ctx, http.MethodPost, orderPath(n, "collected"), nil)
	if err != nil {
		return false, err
	}
	return UnmarshalAck(data)
}

// OrderState fetches the stage snapshot.
func (c *Client) OrderState(ctx context.Context) (orders.StateSnapshot, error) {
	_, data, err := c.do(ctx, http.MethodGet, "/orders/state", nil)
	if err != nil {
		return nil, err
	}
	return UnmarshalState(data)
}

func orderPath(n int, action string) string {
	return "/orders/" + strconv.Itoa(n) + "/" + action
}
