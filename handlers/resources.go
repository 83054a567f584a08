// ABOUTME: MCP resource handlers for exposing Google Contacts data
// ABOUTME: Provides read-only JSON and vCard snapshots of the contact list via URI
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/gcontacts/contacts"
)

const (
	contactsURI = "gcontacts://contacts"
	vcardURI    = "gcontacts://contacts.vcf"
)

type ResourceHandlers struct {
	client *contacts.Client
}

func NewResourceHandlers(client *contacts.Client) *ResourceHandlers {
	return &ResourceHandlers{client: client}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	switch uri := request.Params.URI; uri {
	case contactsURI:
		return h.readContacts(ctx)
	case vcardURI:
		return h.readVCards(ctx)
	default:
		return nil, mcp.ResourceNotFoundError(uri)
	}
}

func (h *ResourceHandlers) readContacts(ctx context.Context) (*mcp.ReadResourceResult, error) {
	list, err := h.client.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]ContactOutput, len(list))
	for i, contact := range list {
		out[i] = contactToOutput(contact)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal contacts: %w", err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      contactsURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}

func (h *ResourceHandlers) readVCards(ctx context.Context) (*mcp.ReadResourceResult, error) {
	list, err := h.client.List(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := contacts.WriteVCards(&buf, list); err != nil {
		return nil, err
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      vcardURI,
			MIMEType: "text/vcard",
			Text:     buf.String(),
		},
	}}, nil
}
