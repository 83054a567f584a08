// ABOUTME: Data models for Google Contacts entities
// ABOUTME: Defines Contact, Name, ContactInput, and the identity attribute map
package models

import (
	"fmt"
	"strings"
)

// Contact is a remote People API connection. It is never persisted locally.
type Contact struct {
	ResourceName string   `json:"resourceName"`
	Etag         string   `json:"etag,omitempty"`
	Names        []Name   `json:"names"`
	Emails       []string `json:"emails"`
	PhoneNumbers []string `json:"phoneNumbers"`
}

type Name struct {
	GivenName   string `json:"givenName,omitempty"`
	FamilyName  string `json:"familyName,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

// Full returns the display name, falling back to "given family".
func (n Name) Full() string {
	if n.DisplayName != "" {
		return n.DisplayName
	}
	return strings.TrimSpace(n.GivenName + " " + n.FamilyName)
}

// PrimaryName returns the first name entry, or the zero Name.
func (c *Contact) PrimaryName() Name {
	if len(c.Names) == 0 {
		return Name{}
	}
	return c.Names[0]
}

// PrimaryEmail returns the first email, or "".
func (c *Contact) PrimaryEmail() string {
	if len(c.Emails) == 0 {
		return ""
	}
	return c.Emails[0]
}

// PrimaryPhone returns the first phone number, or "".
func (c *Contact) PrimaryPhone() string {
	if len(c.PhoneNumbers) == 0 {
		return ""
	}
	return c.PhoneNumbers[0]
}

// Matches reports whether query (case-insensitive) occurs in the name,
// an email, or a phone number. An empty query matches everything.
func (c *Contact) Matches(query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	fields := append([]string{c.PrimaryName().Full()}, c.Emails...)
	fields = append(fields, c.PhoneNumbers...)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

// ContactInput carries the user-editable fields of a contact.
// Email and PhoneNumber are optional; empty means absent.
type ContactInput struct {
	GivenName   string `json:"givenName"`
	FamilyName  string `json:"familyName"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// Normalize trims surrounding whitespace from every field.
func (in ContactInput) Normalize() ContactInput {
	return ContactInput{
		GivenName:   strings.TrimSpace(in.GivenName),
		FamilyName:  strings.TrimSpace(in.FamilyName),
		Email:       strings.TrimSpace(in.Email),
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
	}
}

// Validate requires a given name. The family name may be empty.
func (in ContactInput) Validate() error {
	if in.GivenName == "" {
		return fmt.Errorf("given name is required")
	}
	return nil
}

// UserInfo holds identity-provider attributes. Shape is provider-defined.
type UserInfo map[string]any

// Subject returns the "sub" attribute, or "".
func (u UserInfo) Subject() string {
	s, _ := u["sub"].(string)
	return s
}

// Email returns the "email" attribute, or "".
func (u UserInfo) Email() string {
	s, _ := u["email"].(string)
	return s
}
