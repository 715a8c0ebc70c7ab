package twitch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"farmbot/internal/core/domain"
)

const (
	helixBaseURL = "https://api.twitch.tv/helix"
	oauthURL     = "https://id.twitch.tv/oauth2/token"

	metadataTimeout = 10 * time.Second
)

// Client implements ports.ClipSource against the Twitch Helix API.
type Client struct {
	clientID     string
	clientSecret string
	token        string

	apiBase  string
	authBase string
	client   *http.Client
	log      *logrus.Logger
}

// NewClient creates a Helix client. Authenticate must be called before any
// query method.
func NewClient(clientID, clientSecret string, log *logrus.Logger) *Client {
	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		apiBase:      helixBaseURL,
		authBase:     oauthURL,
		client:       &http.Client{Timeout: metadataTimeout},
		log:          log,
	}
}

// Authenticate exchanges the app credentials for a bearer token. A failure
// here is fatal to the run.
func (c *Client) Authenticate(ctx context.Context) error {
	params := url.Values{
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
		"grant_type":    {"client_credentials"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authBase+"?"+params.Encode(), nil)
	if err != nil {
		return errors.Wrap(err, "failed to build token request")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "token request failed")
	}
	defer resp.Body.Close()

	var body struct {
		AccessToken string `json:"access_token"`
		Message     string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return errors.Wrap(err, "failed to decode token response")
	}
	if body.AccessToken == "" {
		return errors.Errorf("token exchange rejected: status %d, message %q", resp.StatusCode, body.Message)
	}

	c.token = body.AccessToken
	return nil
}

// TopCreators returns up to n currently-live channels ranked by viewers.
func (c *Client) TopCreators(ctx context.Context, n int) ([]domain.Creator, error) {
	var body struct {
		Data []struct {
			UserID   string `json:"user_id"`
			UserName string `json:"user_name"`
		} `json:"data"`
	}
	params := url.Values{"first": {strconv.Itoa(n)}}
	if err := c.get(ctx, "/streams", params, &body); err != nil {
		return nil, errors.Wrap(err, "failed to fetch live streams")
	}

	creators := make([]domain.Creator, 0, len(body.Data))
	for _, s := range body.Data {
		if s.UserID == "" || s.UserName == "" {
			c.log.Warnf("skipping stream row with missing identity: %+v", s)
			continue
		}
		creators = append(creators, domain.Creator{ID: s.UserID, DisplayName: s.UserName})
	}
	return creators, nil
}

// ResolveCreator resolves a channel login to a platform identity.
func (c *Client) ResolveCreator(ctx context.Context, login string) (domain.Creator, error) {
	var body struct {
		Data []struct {
			ID          string `json:"id"`
			DisplayName string `json:"display_name"`
		} `json:"data"`
	}
	params := url.Values{"login": {login}}
	if err := c.get(ctx, "/users", params, &body); err != nil {
		return domain.Creator{}, errors.Wrapf(err, "failed to resolve login %q", login)
	}
	if len(body.Data) == 0 {
		return domain.Creator{}, errors.Errorf("no user found for login %q", login)
	}
	u := body.Data[0]
	if u.ID == "" {
		return domain.Creator{}, errors.Errorf("user response for %q missing id", login)
	}
	name := u.DisplayName
	if name == "" {
		name = login
	}
	return domain.Creator{ID: u.ID, DisplayName: name}, nil
}

// RecentClips returns the creator's most recent clips, up to max.
func (c *Client) RecentClips(ctx context.Context, creator domain.Creator, max int) ([]domain.Clip, error) {
	params := url.Values{
		"broadcaster_id": {creator.ID},
		"first":          {strconv.Itoa(max)},
	}
	return c.clips(ctx, creator, params)
}

// ClipsSince returns the creator's clips created after since, up to max.
func (c *Client) ClipsSince(ctx context.Context, creator domain.Creator, since time.Time, max int) ([]domain.Clip, error) {
	params := url.Values{
		"broadcaster_id": {creator.ID},
		"first":          {strconv.Itoa(max)},
		"started_at":     {since.UTC().Format(time.RFC3339)},
	}
	return c.clips(ctx, creator, params)
}

func (c *Client) clips(ctx context.Context, creator domain.Creator, params url.Values) ([]domain.Clip, error) {
	var body struct {
		Data []struct {
			ID        string `json:"id"`
			URL       string `json:"url"`
			ViewCount int    `json:"view_count"`
			CreatedAt string `json:"created_at"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/clips", params, &body); err != nil {
		return nil, errors.Wrapf(err, "failed to fetch clips for %s", creator.DisplayName)
	}

	clips := make([]domain.Clip, 0, len(body.Data))
	for _, row := range body.Data {
		if row.ID == "" || row.URL == "" || row.CreatedAt == "" {
			c.log.Warnf("skipping clip row with missing fields for %s: %+v", creator.DisplayName, row)
			continue
		}
		createdAt, err := time.Parse(time.RFC3339, row.CreatedAt)
		if err != nil {
			c.log.Warnf("skipping clip %s with bad created_at %q: %v", row.ID, row.CreatedAt, err)
			continue
		}
		clips = append(clips, domain.Clip{
			ID:          row.ID,
			URL:         row.URL,
			CreatorName: creator.DisplayName,
			Views:       row.ViewCount,
			CreatedAt:   createdAt,
		})
	}
	return clips, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Client-ID", c.clientID)
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
