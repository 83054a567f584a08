// ABOUTME: Google People API client scoped to the caller's access token
// ABOUTME: Builds a fresh authenticated service per call and maps People to Contacts
package contacts

import (
	"context"
	"log/slog"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/people/v1"

	"github.com/harperreed/gcontacts/auth"
	"github.com/harperreed/gcontacts/logger"
	"github.com/harperreed/gcontacts/models"
)

const (
	// Field mask for reads and writes.
	personFields = "names,emailAddresses,phoneNumbers"
	self         = "people/me"
)

// Client issues People API calls on behalf of the principal in each call's context.
type Client struct {
	tokens auth.TokenProvider
	opts   []option.ClientOption
}

// NewClient creates a Client. opts are appended to every service construction
// (for example option.WithEndpoint in tests).
func NewClient(tokens auth.TokenProvider, opts ...option.ClientOption) *Client {
	return &Client{tokens: tokens, opts: opts}
}

// service builds a short-lived People service bound to the current token.
// Handles are never reused across calls, so a stale token is never replayed.
func (c *Client) service(ctx context.Context) (*people.Service, error) {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}))

	opts := append([]option.ClientOption{option.WithHTTPClient(httpClient)}, c.opts...)
	svc, err := people.NewService(ctx, opts...)
	if err != nil {
		return nil, upstream("create service", err)
	}
	return svc, nil
}

// List returns the caller's connections (first page only). Never nil.
func (c *Client) List(ctx context.Context) ([]models.Contact, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := svc.People.Connections.List(self).
		PersonFields(personFields).
		Context(ctx).
		Do()
	if err != nil {
		return nil, upstream("list", err)
	}

	contacts := make([]models.Contact, 0, len(resp.Connections))
	for _, person := range resp.Connections {
		contacts = append(contacts, fromPerson(person))
	}

	logger.FromContext(ctx).Debug("listed contacts", slog.Int("count", len(contacts)))
	return contacts, nil
}

// Get fetches a single contact.
func (c *Client) Get(ctx context.Context, resourceName string) (*models.Contact, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}

	person, err := svc.People.Get(resourceName).
		PersonFields(personFields).
		Context(ctx).
		Do()
	if err != nil {
		return nil, upstream("get", err)
	}

	contact := fromPerson(person)
	return &contact, nil
}

// Create adds a contact with exactly one name and returns it with the
// server-assigned resourceName and etag.
func (c *Client) Create(ctx context.Context, in models.ContactInput) (*models.Contact, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}

	created, err := svc.People.CreateContact(newPerson(in)).
		PersonFields(personFields).
		Context(ctx).
		Do()
	if err != nil {
		return nil, upstream("create", err)
	}

	contact := fromPerson(created)
	logger.FromContext(ctx).Info("created contact", slog.String("resource_name", contact.ResourceName))
	return &contact, nil
}

// Update replaces the name, email and phone of resourceName. It first fetches
// the contact for its current etag; if that fetch fails nothing is written.
// A concurrent remote edit between the two calls is rejected by Google and
// returned as an ordinary upstream error.
func (c *Client) Update(ctx context.Context, resourceName string, in models.ContactInput) error {
	svc, err := c.service(ctx)
	if err != nil {
		return err
	}

	existing, err := svc.People.Get(resourceName).
		PersonFields(personFields).
		Context(ctx).
		Do()
	if err != nil {
		return upstream("update: fetch", err)
	}

	replacement := replacementPerson(existing.Etag, in)
	_, err = svc.People.UpdateContact(resourceName, replacement).
		UpdatePersonFields(personFields).
		Context(ctx).
		Do()
	if err != nil {
		return upstream("update", err)
	}

	logger.FromContext(ctx).Info("updated contact", slog.String("resource_name", resourceName))
	return nil
}

// Delete removes resourceName. Remote errors, including not found, are
// returned unchanged inside an UpstreamError.
func (c *Client) Delete(ctx context.Context, resourceName string) error {
	svc, err := c.service(ctx)
	if err != nil {
		return err
	}

	if _, err := svc.People.DeleteContact(resourceName).Context(ctx).Do(); err != nil {
		return upstream("delete", err)
	}

	logger.FromContext(ctx).Info("deleted contact", slog.String("resource_name", resourceName))
	return nil
}
