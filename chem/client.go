// Package chem wraps the external cheminformatics sidecar that computes
// descriptors, drug-likeness scores, 2-D depictions and molecular formulas
// from a SMILES structure encoding. The sidecar is a pure function of its
// input; the only failure mode beyond transport errors is an unparseable
// structure.
package chem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/quimed/chemspace-api/interfaces"
	"github.com/quimed/chemspace-api/logging"
)

// ErrInvalidStructure means the structure encoding could not be parsed.
// Surfaced to the user as "cannot render this entry", never as a crash.
var ErrInvalidStructure = errors.New("chem: invalid structure encoding")

// ErrServiceUnavailable means the sidecar is not configured or not
// reachable. Callers fall back to the stored dataset descriptors.
var ErrServiceUnavailable = errors.New("chem: structure service unavailable")

// Compile-time check to ensure Client implements StructureService
var _ interfaces.StructureService = (*Client)(nil)

// Client talks to the cheminformatics sidecar over HTTP.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a sidecar client. An empty baseURL yields a client whose
// every call fails with ErrServiceUnavailable.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// get performs one sidecar request and maps the status codes onto the
// package error model. 422 is the sidecar's "could not parse this SMILES".
func (c *Client) get(ctx context.Context, endpoint, smiles string) ([]byte, error) {
	if c.baseURL == "" {
		return nil, ErrServiceUnavailable
	}

	reqURL := fmt.Sprintf("%s/%s?smiles=%s", c.baseURL, endpoint, url.QueryEscape(smiles))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", endpoint, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Warn("Failed to close response body", "endpoint", endpoint, "error", err)
		}
	}()

	switch {
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return nil, ErrInvalidStructure
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("structure service returned %d for %s", resp.StatusCode, endpoint)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", endpoint, err)
	}

	return body, nil
}

// ComputeDescriptors returns the named numeric descriptors for a structure.
func (c *Client) ComputeDescriptors(ctx context.Context, smiles string) (map[string]float64, error) {
	body, err := c.get(ctx, "descriptors", smiles)
	if err != nil {
		return nil, err
	}

	var descriptors map[string]float64
	if err := json.Unmarshal(body, &descriptors); err != nil {
		return nil, fmt.Errorf("failed to decode descriptors response: %w", err)
	}

	return descriptors, nil
}

// ComputeDrugLikeness returns the composite drug-likeness score in [0,1].
func (c *Client) ComputeDrugLikeness(ctx context.Context, smiles string) (float64, error) {
	body, err := c.get(ctx, "qed", smiles)
	if err != nil {
		return 0, err
	}

	var payload struct {
		QED float64 `json:"qed"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, fmt.Errorf("failed to decode qed response: %w", err)
	}

	return payload.QED, nil
}

// Render2D returns the PNG bytes of the 2-D structure depiction.
func (c *Client) Render2D(ctx context.Context, smiles string) ([]byte, error) {
	return c.get(ctx, "depiction", smiles)
}

// MolecularFormula returns the molecular formula of a structure.
func (c *Client) MolecularFormula(ctx context.Context, smiles string) (string, error) {
	body, err := c.get(ctx, "formula", smiles)
	if err != nil {
		return "", err
	}

	var payload struct {
		Formula string `json:"formula"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("failed to decode formula response: %w", err)
	}

	return payload.Formula, nil
}
