package testdoubles

import (
	"context"
	"net/http"
	"testing"

	"github.com/thehangoversessions/sessionsapi/email"
	"gotest.tools/assert"
)

type ListCall struct {
	Method   string
	ListId   int64
	Contacts []email.Contact
}

// ListManager returns scripted errors for each email.ListManager method.
//
// AddListRecipientErrors is consumed one element per call. A nil element, or
// running out of elements, means success.
type ListManager struct {
	Calls                  []ListCall
	AddListRecipientErrors []error
	CreateContactError     error
	ManageContactsError    error
}

func NewListManager() *ListManager {
	return &ListManager{Calls: make([]ListCall, 0, 4)}
}

func (lm *ListManager) AddListRecipient(
	_ context.Context, listId int64, address string,
) (err error) {
	lm.Calls = append(lm.Calls, ListCall{
		"AddListRecipient", listId, []email.Contact{{Email: address}},
	})
	if len(lm.AddListRecipientErrors) != 0 {
		err = lm.AddListRecipientErrors[0]
		lm.AddListRecipientErrors = lm.AddListRecipientErrors[1:]
	}
	return
}

func (lm *ListManager) CreateContact(
	_ context.Context, contact email.Contact,
) error {
	lm.Calls = append(
		lm.Calls, ListCall{"CreateContact", 0, []email.Contact{contact}},
	)
	return lm.CreateContactError
}

func (lm *ListManager) ManageManyContacts(
	_ context.Context,
	listId int64,
	_ email.ContactsListAction,
	contacts ...email.Contact,
) error {
	lm.Calls = append(
		lm.Calls, ListCall{"ManageManyContacts", listId, contacts},
	)
	return lm.ManageContactsError
}

func (lm *ListManager) AssertMethodsCalled(t *testing.T, methods ...string) {
	t.Helper()

	called := make([]string, len(lm.Calls))
	for i, c := range lm.Calls {
		called[i] = c.Method
	}
	if len(methods) == 0 {
		methods = []string{}
	}
	assert.DeepEqual(t, methods, called)
}

// MailjetList keeps contacts and list membership in memory, rejecting requests
// the same way the Mailjet API does.
type MailjetList struct {
	ListId   int64
	Contacts map[string]email.Contact
	Members  map[string]bool
	NumCalls int
}

func NewMailjetList(listId int64) *MailjetList {
	return &MailjetList{
		ListId:   listId,
		Contacts: make(map[string]email.Contact, 4),
		Members:  make(map[string]bool, 4),
	}
}

func rejected(endpoint, body string) error {
	return &email.ProviderError{
		Endpoint: endpoint, StatusCode: http.StatusBadRequest, Body: body,
	}
}

func (ml *MailjetList) AddListRecipient(
	_ context.Context, listId int64, address string,
) error {
	ml.NumCalls++

	if listId != ml.ListId {
		return rejected(email.EndpointListRecipient, "list not found")
	} else if _, ok := ml.Contacts[address]; !ok {
		return rejected(email.EndpointListRecipient, "contact not found")
	} else if ml.Members[address] {
		return rejected(email.EndpointListRecipient, "already a list recipient")
	}
	ml.Members[address] = true
	return nil
}

func (ml *MailjetList) CreateContact(
	_ context.Context, contact email.Contact,
) error {
	ml.NumCalls++

	if _, ok := ml.Contacts[contact.Email]; ok {
		return rejected(email.EndpointContact, "contact already exists")
	}
	ml.Contacts[contact.Email] = contact
	return nil
}

func (ml *MailjetList) ManageManyContacts(
	_ context.Context,
	listId int64,
	_ email.ContactsListAction,
	contacts ...email.Contact,
) error {
	ml.NumCalls++

	if listId != ml.ListId {
		return rejected(email.EndpointManageManyContacts, "list not found")
	}
	for _, c := range contacts {
		if _, ok := ml.Contacts[c.Email]; !ok {
			ml.Contacts[c.Email] = c
		}
		ml.Members[c.Email] = true
	}
	return nil
}
