// ABOUTME: MCP server assembly
// ABOUTME: Registers contact tools and resources on a go-sdk server
package handlers

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/gcontacts/contacts"
)

// NewServer builds an MCP server exposing client as tools and resources.
func NewServer(client *contacts.Client, version string) *mcp.Server {
	contactHandlers := NewContactHandlers(client)
	resourceHandlers := NewResourceHandlers(client)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "gcontacts",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_contacts",
		Description: "List the user's Google Contacts, optionally filtered by name, email, or phone",
	}, contactHandlers.ListContacts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_contact",
		Description: "Fetch a single Google Contact by resource name",
	}, contactHandlers.GetContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_contact",
		Description: "Create a Google Contact with a name and optional email and phone",
	}, contactHandlers.CreateContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_contact",
		Description: "Replace a contact's name, email, and phone. Omitted email or phone is cleared",
	}, contactHandlers.UpdateContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_contact",
		Description: "Delete a Google Contact by resource name",
	}, contactHandlers.DeleteContact)

	server.AddResource(&mcp.Resource{
		Name:        "contacts",
		Title:       "Contacts",
		Description: "All contacts as JSON",
		MIMEType:    "application/json",
		URI:         contactsURI,
	}, resourceHandlers.ReadResource)

	server.AddResource(&mcp.Resource{
		Name:        "contacts_vcard",
		Title:       "Contacts (vCard)",
		Description: "All contacts as a vCard 4.0 stream",
		MIMEType:    "text/vcard",
		URI:         vcardURI,
	}, resourceHandlers.ReadResource)

	return server
}
