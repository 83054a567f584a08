// ABOUTME: Conversions between People API Person objects and Contact models
// ABOUTME: Enforces the single-name invariant and optional email/phone handling
package contacts

import (
	"google.golang.org/api/people/v1"

	"github.com/harperreed/gcontacts/models"
)

// newPerson builds a create payload. Email and phone lists are only set when
// the corresponding input is non-empty.
func newPerson(in models.ContactInput) *people.Person {
	person := &people.Person{
		Names: []*people.Name{{GivenName: in.GivenName, FamilyName: in.FamilyName}},
	}
	if in.Email != "" {
		person.EmailAddresses = []*people.EmailAddress{{Value: in.Email}}
	}
	if in.PhoneNumber != "" {
		person.PhoneNumbers = []*people.PhoneNumber{{Value: in.PhoneNumber}}
	}
	return person
}

// replacementPerson builds an update payload. Empty email/phone lists are
// force-sent so the update clears them remotely.
func replacementPerson(etag string, in models.ContactInput) *people.Person {
	person := newPerson(in)
	person.Etag = etag
	if person.EmailAddresses == nil {
		person.EmailAddresses = []*people.EmailAddress{}
	}
	if person.PhoneNumbers == nil {
		person.PhoneNumbers = []*people.PhoneNumber{}
	}
	person.ForceSendFields = []string{"EmailAddresses", "PhoneNumbers"}
	return person
}

func fromPerson(person *people.Person) models.Contact {
	contact := models.Contact{
		Names:        []models.Name{},
		Emails:       []string{},
		PhoneNumbers: []string{},
	}
	if person == nil {
		return contact
	}

	contact.ResourceName = person.ResourceName
	contact.Etag = person.Etag

	for _, n := range person.Names {
		if n == nil {
			continue
		}
		contact.Names = append(contact.Names, models.Name{
			GivenName:   n.GivenName,
			FamilyName:  n.FamilyName,
			DisplayName: n.DisplayName,
		})
	}
	for _, e := range person.EmailAddresses {
		if e != nil && e.Value != "" {
			contact.Emails = append(contact.Emails, e.Value)
		}
	}
	for _, p := range person.PhoneNumbers {
		if p != nil && p.Value != "" {
			contact.PhoneNumbers = append(contact.PhoneNumbers, p.Value)
		}
	}

	return contact
}
