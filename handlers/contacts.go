// ABOUTME: Contact MCP tool handlers
// ABOUTME: Implements list_contacts, get_contact, create_contact, update_contact, and delete_contact tools
package handlers

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/gcontacts/contacts"
	"github.com/harperreed/gcontacts/models"
)

type ContactHandlers struct {
	client *contacts.Client
}

func NewContactHandlers(client *contacts.Client) *ContactHandlers {
	return &ContactHandlers{client: client}
}

type ContactOutput struct {
	ResourceName string   `json:"resource_name"`
	Etag         string   `json:"etag,omitempty"`
	GivenName    string   `json:"given_name,omitempty"`
	FamilyName   string   `json:"family_name,omitempty"`
	DisplayName  string   `json:"display_name,omitempty"`
	Emails       []string `json:"emails"`
	PhoneNumbers []string `json:"phone_numbers"`
}

type ListContactsInput struct {
	Query string `json:"query,omitempty" jsonschema:"Case-insensitive filter on name, email, or phone"`
}

type ListContactsOutput struct {
	Contacts []ContactOutput `json:"contacts"`
	Count    int             `json:"count"`
}

func (h *ContactHandlers) ListContacts(ctx context.Context, _ *mcp.CallToolRequest, input ListContactsInput) (*mcp.CallToolResult, ListContactsOutput, error) {
	list, err := h.client.List(ctx)
	if err != nil {
		return nil, ListContactsOutput{}, err
	}

	result := make([]ContactOutput, 0, len(list))
	for _, contact := range list {
		if !contact.Matches(input.Query) {
			continue
		}
		result = append(result, contactToOutput(contact))
	}

	return nil, ListContactsOutput{Contacts: result, Count: len(result)}, nil
}

type GetContactInput struct {
	ResourceName string `json:"resource_name" jsonschema:"Contact resource name, e.g. people/c123 (required)"`
}

func (h *ContactHandlers) GetContact(ctx context.Context, _ *mcp.CallToolRequest, input GetContactInput) (*mcp.CallToolResult, ContactOutput, error) {
	if input.ResourceName == "" {
		return nil, ContactOutput{}, fmt.Errorf("resource_name is required")
	}

	contact, err := h.client.Get(ctx, input.ResourceName)
	if err != nil {
		return nil, ContactOutput{}, err
	}
	return nil, contactToOutput(*contact), nil
}

type CreateContactInput struct {
	GivenName   string `json:"given_name" jsonschema:"Given (first) name (required)"`
	FamilyName  string `json:"family_name,omitempty" jsonschema:"Family (last) name"`
	Email       string `json:"email,omitempty" jsonschema:"Email address"`
	PhoneNumber string `json:"phone_number,omitempty" jsonschema:"Phone number"`
}

func (h *ContactHandlers) CreateContact(ctx context.Context, _ *mcp.CallToolRequest, input CreateContactInput) (*mcp.CallToolResult, ContactOutput, error) {
	in := models.ContactInput{
		GivenName:   input.GivenName,
		FamilyName:  input.FamilyName,
		Email:       input.Email,
		PhoneNumber: input.PhoneNumber,
	}.Normalize()
	if err := in.Validate(); err != nil {
		return nil, ContactOutput{}, err
	}

	created, err := h.client.Create(ctx, in)
	if err != nil {
		return nil, ContactOutput{}, err
	}
	return nil, contactToOutput(*created), nil
}

type UpdateContactInput struct {
	ResourceName string `json:"resource_name" jsonschema:"Contact resource name (required)"`
	GivenName    string `json:"given_name" jsonschema:"Given (first) name (required)"`
	FamilyName   string `json:"family_name,omitempty" jsonschema:"Family (last) name"`
	Email        string `json:"email,omitempty" jsonschema:"Email address; empty clears it"`
	PhoneNumber  string `json:"phone_number,omitempty" jsonschema:"Phone number; empty clears it"`
}

type UpdateContactOutput struct {
	ResourceName string `json:"resource_name"`
	Updated      bool   `json:"updated"`
}

func (h *ContactHandlers) UpdateContact(ctx context.Context, _ *mcp.CallToolRequest, input UpdateContactInput) (*mcp.CallToolResult, UpdateContactOutput, error) {
	if input.ResourceName == "" {
		return nil, UpdateContactOutput{}, fmt.Errorf("resource_name is required")
	}

	in := models.ContactInput{
		GivenName:   input.GivenName,
		FamilyName:  input.FamilyName,
		Email:       input.Email,
		PhoneNumber: input.PhoneNumber,
	}.Normalize()
	if err := in.Validate(); err != nil {
		return nil, UpdateContactOutput{}, err
	}

	if err := h.client.Update(ctx, input.ResourceName, in); err != nil {
		return nil, UpdateContactOutput{}, err
	}
	return nil, UpdateContactOutput{ResourceName: input.ResourceName, Updated: true}, nil
}

type DeleteContactInput struct {
	ResourceName string `json:"resource_name" jsonschema:"Contact resource name (required)"`
}

type DeleteContactOutput struct {
	ResourceName string `json:"resource_name"`
	Deleted      bool   `json:"deleted"`
}

func (h *ContactHandlers) DeleteContact(ctx context.Context, _ *mcp.CallToolRequest, input DeleteContactInput) (*mcp.CallToolResult, DeleteContactOutput, error) {
	if input.ResourceName == "" {
		return nil, DeleteContactOutput{}, fmt.Errorf("resource_name is required")
	}

	if err := h.client.Delete(ctx, input.ResourceName); err != nil {
		return nil, DeleteContactOutput{}, err
	}
	return nil, DeleteContactOutput{ResourceName: input.ResourceName, Deleted: true}, nil
}

func contactToOutput(contact models.Contact) ContactOutput {
	name := contact.PrimaryName()
	return ContactOutput{
		ResourceName: contact.ResourceName,
		Etag:         contact.Etag,
		GivenName:    name.GivenName,
		FamilyName:   name.FamilyName,
		DisplayName:  name.Full(),
		Emails:       contact.Emails,
		PhoneNumbers: contact.PhoneNumbers,
	}
}
