// ABOUTME: HTTP handlers for contact pages, the JSON API, and identity info
// ABOUTME: Shapes form input and delegates every operation to the contacts client
package web

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/harperreed/gcontacts/auth"
	"github.com/harperreed/gcontacts/contacts"
	"github.com/harperreed/gcontacts/logger"
	"github.com/harperreed/gcontacts/models"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderTemplate(w, r, http.StatusOK, "index", s.page(r, "Google Contacts"))
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleContactsPage(w http.ResponseWriter, r *http.Request) {
	list, err := s.contacts.List(r.Context())
	if err != nil {
		logger.FromContext(r.Context()).Error("failed to fetch contacts", slog.Any("error", err))
		s.renderError(w, r, statusFor(err), "Failed to fetch contacts.")
		return
	}

	data := s.page(r, "Contacts")
	data.Contacts = list
	s.renderTemplate(w, r, http.StatusOK, "contacts", data)
}

func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	list, err := s.contacts.List(r.Context())
	if err != nil {
		logger.FromContext(r.Context()).Error("failed to fetch contacts", slog.Any("error", err))
		writeJSONError(w, statusFor(err), "failed to fetch contacts")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleExportContacts(w http.ResponseWriter, r *http.Request) {
	list, err := s.contacts.List(r.Context())
	if err != nil {
		logger.FromContext(r.Context()).Error("failed to fetch contacts", slog.Any("error", err))
		writeJSONError(w, statusFor(err), "failed to fetch contacts")
		return
	}

	var buf bytes.Buffer
	if err := contacts.WriteVCards(&buf, list); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode vcards", slog.Any("error", err))
		writeJSONError(w, http.StatusInternalServerError, "failed to export contacts")
		return
	}

	w.Header().Set("Content-Type", "text/vcard; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="contacts.vcf"`)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleCreateContact(w http.ResponseWriter, r *http.Request) {
	in, ok := s.contactForm(w, r)
	if !ok {
		return
	}

	if _, err := s.contacts.Create(r.Context(), in); err != nil {
		logger.FromContext(r.Context()).Error("failed to create contact", slog.Any("error", err))
		s.renderError(w, r, statusFor(err), "Failed to create contact.")
		return
	}
	http.Redirect(w, r, "/contacts", http.StatusSeeOther)
}

func (s *Server) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	resourceName, ok := requiredField(w, r, "resourceName")
	if !ok {
		return
	}
	in, ok := s.contactForm(w, r)
	if !ok {
		return
	}

	if err := s.contacts.Update(r.Context(), resourceName, in); err != nil {
		logger.FromContext(r.Context()).Error("failed to update contact",
			slog.String("resource_name", resourceName), slog.Any("error", err))
		s.renderError(w, r, statusFor(err), "Failed to update contact.")
		return
	}
	http.Redirect(w, r, "/contacts", http.StatusSeeOther)
}

func (s *Server) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	resourceName, ok := requiredField(w, r, "resourceName")
	if !ok {
		return
	}

	if err := s.contacts.Delete(r.Context(), resourceName); err != nil {
		logger.FromContext(r.Context()).Error("failed to delete contact",
			slog.String("resource_name", resourceName), slog.Any("error", err))
		s.renderError(w, r, statusFor(err), "Failed to delete contact.")
		return
	}
	http.Redirect(w, r, "/contacts", http.StatusSeeOther)
}

func (s *Server) handleUserInfo(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFromContext(r.Context())
	attrs := p.Attributes
	if attrs == nil {
		attrs = models.UserInfo{}
	}
	writeJSON(w, http.StatusOK, attrs)
}

// contactForm reads and validates the editable contact fields.
func (s *Server) contactForm(w http.ResponseWriter, r *http.Request) (models.ContactInput, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return models.ContactInput{}, false
	}

	in := models.ContactInput{
		GivenName:   r.PostForm.Get("givenName"),
		FamilyName:  r.PostForm.Get("familyName"),
		Email:       r.PostForm.Get("email"),
		PhoneNumber: r.PostForm.Get("phoneNumber"),
	}.Normalize()

	if err := in.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return models.ContactInput{}, false
	}
	return in, true
}

func requiredField(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return "", false
	}
	value := r.PostForm.Get(name)
	if value == "" {
		http.Error(w, name+" is required", http.StatusBadRequest)
		return "", false
	}
	return value, true
}
