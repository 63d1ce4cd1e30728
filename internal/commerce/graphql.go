package commerce

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"storefront/internal/config"
	"storefront/internal/logger"
)

// Client defines the interface for GraphQL communication.
type Client interface {
	Execute(ctx context.Context, query string, variables map[string]any) (*GraphQLResponse, error)
}

var _ Client = (*GraphQLClient)(nil)

// GraphQLClient talks to a WPGraphQL endpoint.
type GraphQLClient struct {
	transport *transport
	endpoint  string
	logger    *logger.Logger
}

// GraphQLRequest represents a GraphQL request.
type GraphQLRequest struct {
	Variables map[string]any `json:"variables,omitempty"`
	Query     string         `json:"query"`
}

// GraphQLResponse represents a GraphQL response.
type GraphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

// GraphQLError represents a GraphQL error.
type GraphQLError struct {
	Message   string `json:"message"`
	Locations []struct {
		Line   int `json:"line"`
		Column int `json:"column"`
	} `json:"locations,omitempty"`
	Path []any `json:"path,omitempty"`
}

// NewGraphQLClient creates a client for endpoint. A nil retry policy uses the defaults.
func NewGraphQLClient(endpoint string, retry *config.RetryPolicy, log *logger.Logger) *GraphQLClient {
	t := newTransport(retry, nil, log)

	return &GraphQLClient{
		transport: t,
		endpoint:  endpoint,
		logger:    t.logger,
	}
}

// Execute sends a GraphQL request and returns the response. When the server
// reports errors the response is returned alongside ErrGraphQLError.
func (c *GraphQLClient) Execute(ctx context.Context, query string, variables map[string]any) (*GraphQLResponse, error) {
	c.logger.Debug("executing graphql query", "query", query[:min(len(query), 50)])

	body, err := json.Marshal(GraphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := c.transport.do(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		c.logger.Error("graphql request failed", "endpoint", c.endpoint, "error", err)
		return nil, err
	}

	var gqlResp GraphQLResponse
	if err := json.Unmarshal(resp.body, &gqlResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(gqlResp.Errors) > 0 {
		return &gqlResp, fmt.Errorf("%w: %s", ErrGraphQLError, gqlResp.Errors[0].Message)
	}

	return &gqlResp, nil
}

// UnmarshalGraphQLData unmarshals the response data into the target struct.
func UnmarshalGraphQLData[T any](resp *GraphQLResponse) (*T, error) {
	if resp == nil || len(resp.Data) == 0 || string(resp.Data) == "null" {
		return nil, ErrNoData
	}

	var target T
	if err := json.Unmarshal(resp.Data, &target); err != nil {
		return nil, fmt.Errorf("failed to parse response data: %w", err)
	}

	return &target, nil
}
