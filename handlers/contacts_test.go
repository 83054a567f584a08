// ABOUTME: Tests for contact MCP tool handlers
// ABOUTME: Validates tool input/output and error handling against a fake People API
package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/gcontacts/auth"
	"github.com/harperreed/gcontacts/contacts"
	"github.com/harperreed/gcontacts/contacts/peopletest"
)

const testToken = "mcp-token"

func setupClient(t *testing.T) (*contacts.Client, *peopletest.Server) {
	t.Helper()
	fake := peopletest.NewServer(t, testToken)
	tokens := auth.TokenProviderFunc(func(context.Context) (string, error) {
		return testToken, nil
	})
	return contacts.NewClient(tokens, fake.ClientOption()), fake
}

func TestListContactsHandler(t *testing.T) {
	client, fake := setupClient(t)
	handler := NewContactHandlers(client)
	ctx := context.Background()

	_, out, err := handler.ListContacts(ctx, nil, ListContactsInput{})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Count)
	assert.NotNil(t, out.Contacts)

	fake.Seed("Alice", "Smith", "alice@example.com", "555-0101")
	fake.Seed("Bob", "Jones", "bob@example.org", "")

	_, out, err = handler.ListContacts(ctx, nil, ListContactsInput{})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Count)

	_, out, err = handler.ListContacts(ctx, nil, ListContactsInput{Query: "EXAMPLE.org"})
	require.NoError(t, err)
	require.Equal(t, 1, out.Count)
	assert.Equal(t, "Bob", out.Contacts[0].GivenName)

	_, out, err = handler.ListContacts(ctx, nil, ListContactsInput{Query: "0101"})
	require.NoError(t, err)
	require.Equal(t, 1, out.Count)
	assert.Equal(t, "Alice Smith", out.Contacts[0].DisplayName)
}

func TestCreateContactHandler(t *testing.T) {
	client, fake := setupClient(t)
	handler := NewContactHandlers(client)

	_, out, err := handler.CreateContact(context.Background(), nil, CreateContactInput{
		GivenName:  "Jane",
		FamilyName: "Doe",
		Email:      "jane@example.com",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.ResourceName)
	assert.Equal(t, []string{"jane@example.com"}, out.Emails)
	assert.NotNil(t, fake.Person(out.ResourceName))

	_, _, err = handler.CreateContact(context.Background(), nil, CreateContactInput{GivenName: "  "})
	assert.Error(t, err)
}

func TestGetContactHandler(t *testing.T) {
	client, fake := setupClient(t)
	handler := NewContactHandlers(client)
	name := fake.Seed("Alice", "Smith", "", "")

	_, out, err := handler.GetContact(context.Background(), nil, GetContactInput{ResourceName: name})
	require.NoError(t, err)
	assert.Equal(t, "Alice", out.GivenName)

	_, _, err = handler.GetContact(context.Background(), nil, GetContactInput{})
	assert.Error(t, err)

	_, _, err = handler.GetContact(context.Background(), nil, GetContactInput{ResourceName: "people/none"})
	assert.ErrorIs(t, err, contacts.ErrUpstream)
}

func TestUpdateContactHandler(t *testing.T) {
	client, fake := setupClient(t)
	handler := NewContactHandlers(client)
	name := fake.Seed("Alice", "Smith", "alice@example.com", "")

	_, out, err := handler.UpdateContact(context.Background(), nil, UpdateContactInput{
		ResourceName: name,
		GivenName:    "Alicia",
		PhoneNumber:  "555",
	})
	require.NoError(t, err)
	assert.True(t, out.Updated)

	person := fake.Person(name)
	assert.Equal(t, "Alicia", person.Names[0].GivenName)
	assert.Empty(t, person.EmailAddresses)
	require.Len(t, person.PhoneNumbers, 1)

	_, _, err = handler.UpdateContact(context.Background(), nil, UpdateContactInput{GivenName: "X"})
	assert.Error(t, err)

	_, _, err = handler.UpdateContact(context.Background(), nil, UpdateContactInput{ResourceName: name})
	assert.Error(t, err, "given name is required")
}

func TestDeleteContactHandler(t *testing.T) {
	client, fake := setupClient(t)
	handler := NewContactHandlers(client)
	name := fake.Seed("Alice", "Smith", "", "")

	_, out, err := handler.DeleteContact(context.Background(), nil, DeleteContactInput{ResourceName: name})
	require.NoError(t, err)
	assert.True(t, out.Deleted)
	assert.Nil(t, fake.Person(name))

	_, _, err = handler.DeleteContact(context.Background(), nil, DeleteContactInput{ResourceName: name})
	assert.ErrorIs(t, err, contacts.ErrUpstream)
}
