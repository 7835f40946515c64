package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jupiterclapton/chirp/internal/core/domain"
)

// userDTO : format renvoyé par l'annuaire. On ne garde que les champs publics.
type userDTO struct {
	ID       string  `json:"id"`
	Username *string `json:"username"`
	ImageURL string  `json:"image_url"`
}

// HTTPDirectory parle à un annuaire d'utilisateurs REST :
// GET {base}/v1/users?user_id=a&user_id=b&limit=100
type HTTPDirectory struct {
	baseURL *url.URL
	apiKey  string
	client  *http.Client
}

func NewHTTPDirectory(baseURL, apiKey string, timeout time.Duration) (*HTTPDirectory, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("directory: parse url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("directory: url must be absolute, got %q", baseURL)
	}

	return &HTTPDirectory{
		baseURL: u,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
			// Propagation du trace context vers l'annuaire
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}, nil
}

func (d *HTTPDirectory) BulkGetProfiles(ctx context.Context, userIDs []string, limit int) ([]domain.AuthorProfile, error) {
	if len(userIDs) == 0 {
		return []domain.AuthorProfile{}, nil
	}
	if limit > 0 && len(userIDs) > limit {
		userIDs = userIDs[:limit]
	}

	q := url.Values{}
	for _, id := range userIDs {
		q.Add("user_id", id)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	endpoint := d.baseURL.JoinPath("v1", "users")
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("directory: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if d.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+d.apiKey)
	}

	slog.DebugContext(ctx, "Asking directory for profiles", "count", len(userIDs))

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directory: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// On lit un bout du corps pour le debug, sans le renvoyer au client
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		slog.WarnContext(ctx, "Directory returned an error", "status", resp.StatusCode, "body", string(snippet))
		return nil, fmt.Errorf("directory: unexpected status %d", resp.StatusCode)
	}

	var users []userDTO
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return nil, fmt.Errorf("directory: decode response: %w", err)
	}

	profiles := make([]domain.AuthorProfile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, domain.AuthorProfile{
			ID:       u.ID,
			Username: u.Username,
			ImageURL: u.ImageURL,
		})
	}
	return profiles, nil
}
