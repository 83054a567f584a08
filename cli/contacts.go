// ABOUTME: Contact CLI commands
// ABOUTME: Human-friendly commands for listing, editing, and exporting Google Contacts
package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/harperreed/gcontacts/contacts"
	"github.com/harperreed/gcontacts/models"
)

// ListContactsCommand lists all contacts.
func ListContactsCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	query := fs.String("query", "", "Filter by name, email, or phone")
	asJSON := fs.Bool("json", false, "Print JSON instead of a table")
	_ = fs.Parse(args)

	list, err := app.Client().List(context.Background())
	if err != nil {
		return err
	}

	if *query != "" {
		filtered := make([]models.Contact, 0, len(list))
		for _, c := range list {
			if c.Matches(*query) {
				filtered = append(filtered, c)
			}
		}
		list = filtered
	}

	if *asJSON {
		enc := json.NewEncoder(app.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}

	if len(list) == 0 {
		_, _ = fmt.Fprintln(app.Out, "No contacts found.")
		return nil
	}

	// Pretty print results
	w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tEMAIL\tPHONE\tRESOURCE")
	_, _ = fmt.Fprintln(w, "----\t-----\t-----\t--------")

	for _, c := range list {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			orDash(c.PrimaryName().Full()),
			orDash(c.PrimaryEmail()),
			orDash(c.PrimaryPhone()),
			c.ResourceName,
		)
	}
	_ = w.Flush()

	_, _ = fmt.Fprintf(app.Out, "\nTotal: %d contact(s)\n", len(list))
	return nil
}

// AddContactCommand creates a contact.
func AddContactCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	given := fs.String("given", "", "Given name (required)")
	family := fs.String("family", "", "Family name")
	email := fs.String("email", "", "Email address")
	phone := fs.String("phone", "", "Phone number")
	_ = fs.Parse(args)

	in := models.ContactInput{GivenName: *given, FamilyName: *family, Email: *email, PhoneNumber: *phone}.Normalize()
	if err := in.Validate(); err != nil {
		return fmt.Errorf("--given is required")
	}

	created, err := app.Client().Create(context.Background(), in)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(app.Out, "✓ Contact created: %s (%s)\n", created.PrimaryName().Full(), created.ResourceName)
	if in.Email != "" {
		_, _ = fmt.Fprintf(app.Out, "  Email: %s\n", in.Email)
	}
	if in.PhoneNumber != "" {
		_, _ = fmt.Fprintf(app.Out, "  Phone: %s\n", in.PhoneNumber)
	}
	return nil
}

// UpdateContactCommand replaces a contact's name, email, and phone.
func UpdateContactCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	resourceName := fs.String("id", "", "Contact resource name, e.g. people/c123 (required)")
	given := fs.String("given", "", "Given name (required)")
	family := fs.String("family", "", "Family name")
	email := fs.String("email", "", "Email address (empty clears it)")
	phone := fs.String("phone", "", "Phone number (empty clears it)")
	_ = fs.Parse(args)

	if *resourceName == "" {
		return fmt.Errorf("--id is required")
	}
	in := models.ContactInput{GivenName: *given, FamilyName: *family, Email: *email, PhoneNumber: *phone}.Normalize()
	if err := in.Validate(); err != nil {
		return fmt.Errorf("--given is required")
	}

	if err := app.Client().Update(context.Background(), *resourceName, in); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(app.Out, "✓ Contact updated: %s\n", *resourceName)
	return nil
}

// DeleteContactCommand deletes a contact.
func DeleteContactCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	resourceName := fs.String("id", "", "Contact resource name (required)")
	_ = fs.Parse(args)

	if *resourceName == "" {
		return fmt.Errorf("--id is required")
	}

	if err := app.Client().Delete(context.Background(), *resourceName); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(app.Out, "✓ Contact deleted: %s\n", *resourceName)
	return nil
}

// ExportContactsCommand writes every contact as vCard 4.0.
func ExportContactsCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	output := fs.String("output", "", "Output file (default: stdout)")
	_ = fs.Parse(args)

	list, err := app.Client().List(context.Background())
	if err != nil {
		return err
	}

	var w io.Writer = app.Out
	if *output != "" {
		f, err := os.OpenFile(*output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	if err := contacts.WriteVCards(w, list); err != nil {
		return err
	}

	if *output != "" {
		_, _ = fmt.Fprintf(app.Out, "✓ Exported %d contact(s) to %s\n", len(list), *output)
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
