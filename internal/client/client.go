// Package client provides an HTTP client for the review API, used by the
// interactive CLI session.
package client

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"resty.dev/v3"

	"github.com/mnemo-app/mnemo/internal/scheduler"
)

// Client talks to a running API server.
type Client struct {
	httpClient       *resty.Client
	maxRetryAttempts uint
}

// NewClient creates a new Client for the given server base URL. Requests
// are issued on behalf of userID.
func NewClient(baseURL, userID string, retryAttempts uint) *Client {
	httpClient := resty.New()
	httpClient.SetBaseURL(strings.TrimSuffix(baseURL, "/"))
	httpClient.SetHeader("Content-Type", "application/json")
	if userID != "" {
		httpClient.SetHeader("X-User-ID", userID)
	}

	return &Client{
		httpClient:       httpClient,
		maxRetryAttempts: retryAttempts,
	}
}

func (client *Client) Close() error {
	return client.httpClient.Close()
}

// QueueResponse is the queue endpoint's payload.
type QueueResponse struct {
	Queue []scheduler.QueueItem `json:"queue"`
	Stats scheduler.QueueStats  `json:"stats"`
}

// GradeRequest submits one grade for a review item.
type GradeRequest struct {
	ReviewItemID string `json:"review_item_id"`
	Grade        int    `json:"grade"`
	DurationMs   int    `json:"duration_ms"`
}

// GradeResponse reports the scheduling outcome of a grade.
type GradeResponse struct {
	NextReview   string  `json:"next_review"`
	IntervalDays float64 `json:"interval_days"`
	State        string  `json:"state"`
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()

	// Retry on network-related errors
	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "i/o timeout") {
		return true
	}

	// Retry on 5xx errors (server errors)
	if strings.Contains(errStr, "response error 5") {
		return true
	}

	// A conflict means the item was graded concurrently; the server resolves
	// it against fresh state on the next attempt
	if strings.Contains(errStr, "response error 409") {
		return true
	}

	return false
}

// GetQueue fetches the review session for right now. extraNew raises
// today's new-card quota for this request only.
func (client *Client) GetQueue(ctx context.Context, all bool, extraNew int) (QueueResponse, error) {
	response, err := client.httpClient.R().
		SetContext(ctx).
		SetQueryParam("all", strconv.FormatBool(all)).
		SetQueryParam("extra_new", strconv.Itoa(extraNew)).
		SetResult(&QueueResponse{}).
		Get("/api/v1/queue")
	if err != nil {
		return QueueResponse{}, fmt.Errorf("httpClient.Get > %w", err)
	}
	if response.IsError() {
		return QueueResponse{}, fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}
	return *response.Result().(*QueueResponse), nil
}

// SubmitGrade grades one review item, retrying transient failures and
// concurrent-grade conflicts.
func (client *Client) SubmitGrade(ctx context.Context, req GradeRequest) (GradeResponse, error) {
	var result GradeResponse
	if err := retry.Do(
		func() error {
			response, err := client.submitGrade(ctx, req)
			if err != nil {
				if !isRetryableError(err) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			result = response
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(client.maxRetryAttempts+1),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
	); err != nil {
		return GradeResponse{}, err
	}
	return result, nil
}

func (client *Client) submitGrade(ctx context.Context, req GradeRequest) (GradeResponse, error) {
	response, err := client.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&GradeResponse{}).
		Post("/api/v1/reviews")
	if err != nil {
		return GradeResponse{}, fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		return GradeResponse{}, fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}
	return *response.Result().(*GradeResponse), nil
}
