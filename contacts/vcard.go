// ABOUTME: vCard 4.0 export of contacts
// ABOUTME: Encodes Contact models as a multi-card .vcf stream
package contacts

import (
	"fmt"
	"io"

	"github.com/emersion/go-vcard"

	"github.com/harperreed/gcontacts/models"
)

// ToCard converts a contact to a vCard. The resourceName becomes the UID.
func ToCard(contact models.Contact) vcard.Card {
	card := make(vcard.Card)

	name := contact.PrimaryName()
	card.SetValue(vcard.FieldUID, contact.ResourceName)
	card.SetValue(vcard.FieldFormattedName, name.Full())
	card.SetName(&vcard.Name{
		GivenName:  name.GivenName,
		FamilyName: name.FamilyName,
	})
	for _, email := range contact.Emails {
		card.AddValue(vcard.FieldEmail, email)
	}
	for _, phone := range contact.PhoneNumbers {
		card.AddValue(vcard.FieldTelephone, phone)
	}

	vcard.ToV4(card)
	return card
}

// WriteVCards encodes contacts to w, one card after another.
func WriteVCards(w io.Writer, contacts []models.Contact) error {
	enc := vcard.NewEncoder(w)
	for _, contact := range contacts {
		if err := enc.Encode(ToCard(contact)); err != nil {
			return fmt.Errorf("failed to encode vCard for %s: %w", contact.ResourceName, err)
		}
	}
	return nil
}
