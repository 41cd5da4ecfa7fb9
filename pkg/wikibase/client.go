package wikibase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/agentstation/linksync/internal/transport"
	"github.com/agentstation/linksync/pkg/constants"
	"github.com/agentstation/linksync/pkg/errors"
)

const service = "wikibase"

// anonymousToken is the CSRF token handed out to sessions that are not logged in.
const anonymousToken = `+\`

// Config configures a Client.
type Config struct {
	// APIURL is the Action API endpoint, e.g. https://www.wikidata.org/w/api.php.
	APIURL    string
	UserAgent string
	Timeout   time.Duration
	// HTTPClient replaces the default cookie-keeping client.
	HTTPClient *http.Client
}

// Client talks to the Wikibase Action API. After Login it holds an
// authenticated session which is safe to share between goroutines.
type Client struct {
	api  string
	http *transport.Client

	mu   sync.RWMutex
	user string
	csrf string
}

// NewClient creates a client. The session cookie jar is created here.
func NewClient(cfg Config) (*Client, error) {
	api := cfg.APIURL
	if api == "" {
		api = constants.DefaultWikibaseAPI
	}
	if _, err := url.ParseRequestURI(api); err != nil {
		return nil, errors.NewConfigError(service, "invalid api url "+api, err)
	}

	hc, err := transport.New(transport.Config{
		Service:    service,
		UserAgent:  cfg.UserAgent,
		Timeout:    cfg.Timeout,
		Cookies:    true,
		HTTPClient: cfg.HTTPClient,
	})
	if err != nil {
		return nil, err
	}
	return &Client{api: api, http: hc}, nil
}

// Login establishes a bot session and fetches the CSRF token used for edits.
func (c *Client) Login(ctx context.Context, user, password string) error {
	if user == "" || password == "" {
		return errors.ErrCredentialsMissing
	}

	var tok apiResponse
	if err := c.get(ctx, url.Values{"action": {"query"}, "meta": {"tokens"}, "type": {"login"}}, &tok); err != nil {
		return err
	}
	if tok.Query.Tokens.LoginToken == "" {
		return &errors.AuthenticationError{Service: service, User: user, Message: "no login token returned"}
	}

	var login apiResponse
	form := url.Values{
		"action":     {"login"},
		"lgname":     {user},
		"lgpassword": {password},
		"lgtoken":    {tok.Query.Tokens.LoginToken},
	}
	if err := c.post(ctx, form, &login); err != nil {
		return err
	}
	if login.Login.Result != "Success" {
		return &errors.AuthenticationError{Service: service, User: user, Message: login.Login.reason()}
	}

	var csrf apiResponse
	if err := c.get(ctx, url.Values{"action": {"query"}, "meta": {"tokens"}}, &csrf); err != nil {
		return err
	}
	token := csrf.Query.Tokens.CSRFToken
	if token == "" || token == anonymousToken {
		return &errors.AuthenticationError{Service: service, User: user, Message: "session was not established"}
	}

	c.mu.Lock()
	c.user = user
	c.csrf = token
	c.mu.Unlock()
	return nil
}

// User returns the logged-in user name, or "" before Login.
func (c *Client) User() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user
}

// FetchItem reads an item with its claims and revision.
func (c *Client) FetchItem(ctx context.Context, id string) (*Item, error) {
	if id == "" {
		return nil, errors.NewValidationError("id", id, "item id is required")
	}

	var resp apiResponse
	params := url.Values{
		"action": {"wbgetentities"},
		"ids":    {id},
		"props":  {"claims|info"},
	}
	if err := c.get(ctx, params, &resp); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NewNotFoundError("item", id)
		}
		return nil, err
	}

	e, ok := resp.Entities[id]
	if !ok || e.Missing != nil {
		return nil, errors.NewNotFoundError("item", id)
	}
	return e.item(), nil
}

// SaveItem writes the item's pending claims with the given edit summary.
// The request is sent even when nothing is pending; the remote records it as
// a null edit. On success the item is refreshed from the saved entity.
func (c *Client) SaveItem(ctx context.Context, item *Item, summary string) error {
	if item == nil || item.ID == "" {
		return errors.NewValidationError("item", item, "item with id is required")
	}

	c.mu.RLock()
	token, user := c.csrf, c.user
	c.mu.RUnlock()
	if token == "" {
		return &errors.AuthenticationError{Service: service, Message: "not logged in"}
	}

	data := editData{Claims: make([]statement, 0)}
	for _, claim := range item.Pending() {
		data.Claims = append(data.Claims, toStatement(claim))
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return errors.WrapParse("json", "edit data", err)
	}

	form := url.Values{
		"action":  {"wbeditentity"},
		"id":      {item.ID},
		"data":    {string(payload)},
		"summary": {summary},
		"bot":     {"1"},
		"assert":  {"user"},
		"token":   {token},
	}
	if item.LastRevID > 0 {
		form.Set("baserevid", strconv.FormatInt(item.LastRevID, 10))
	}

	var resp apiResponse
	if err := c.post(ctx, form, &resp); err != nil {
		if errors.IsAuthentication(err) {
			var authErr *errors.AuthenticationError
			if errors.As(err, &authErr) {
				authErr.User = user
			}
		}
		return err
	}

	if resp.Entity != nil {
		saved := resp.Entity.item()
		if saved.LastRevID > 0 {
			item.LastRevID = saved.LastRevID
		}
		if len(saved.Claims) > 0 {
			for prop, claims := range saved.Claims {
				item.Claims[prop] = claims
			}
		}
	}
	item.ClearPending()
	return nil
}

func (c *Client) get(ctx context.Context, params url.Values, resp *apiResponse) error {
	params.Set("format", "json")
	if err := c.http.GetJSON(ctx, c.api, params, resp); err != nil {
		return err
	}
	return resp.err(params.Get("action"))
}

func (c *Client) post(ctx context.Context, form url.Values, resp *apiResponse) error {
	form.Set("format", "json")
	if err := c.http.PostForm(ctx, c.api, form, resp); err != nil {
		return err
	}
	return resp.err(form.Get("action"))
}

// err maps an API error object onto the typed errors.
func (r *apiResponse) err(action string) error {
	if r.Error == nil {
		return nil
	}
	apiErr := &errors.APIError{
		Service:  service,
		Code:     r.Error.Code,
		Message:  r.Error.Info,
		Endpoint: action,
	}
	switch r.Error.Code {
	case "no-such-entity":
		return errors.NewNotFoundError("item", r.Error.Info)
	case "badtoken", "notoken", "assertuserfailed", "assertbotfailed", "notloggedin", "permissiondenied":
		return &errors.AuthenticationError{Service: service, Message: r.Error.Info, Err: apiErr}
	default:
		return apiErr
	}
}
