package acceptance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/avdeyev/contacts-service/internal/domain"
)

type contactPayload struct {
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Email          string  `json:"email"`
	PhoneNumber    string  `json:"phone_number"`
	Birthday       string  `json:"birthday"`
	AdditionalInfo *string `json:"additional_info,omitempty"`
}

// contactsToken registers a user and returns an access token for the
// protected contact routes.
func (s *Suite) contactsToken() string {
	authResp, _ := s.register("contacts-owner@example.com", "Password123")
	return authResp.AccessToken
}

func (s *Suite) doJSON(method, url, token string, payload interface{}) *http.Response {
	var body bytes.Buffer
	if payload != nil {
		s.Require().NoError(json.NewEncoder(&body).Encode(payload))
	}

	req, err := http.NewRequest(method, url, &body)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *Suite) createContact(token string, payload contactPayload) domain.Contact {
	resp := s.doJSON("POST", s.BaseURL+"/api/v1/contacts", token, payload)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusCreated, resp.StatusCode, "Contact creation should succeed")

	var contact domain.Contact
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&contact))
	return contact
}

func (s *Suite) TestContacts_RequireAuth() {
	resp, err := http.Get(s.BaseURL + "/api/v1/contacts")
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestContacts_CreateAndGet() {
	token := s.contactsToken()

	info := "met at a conference"
	created := s.createContact(token, contactPayload{
		FirstName:      "Erika",
		LastName:       "Mustermann",
		Email:          "erika@example.com",
		PhoneNumber:    "+49 111",
		Birthday:       "1991-02-02",
		AdditionalInfo: &info,
	})
	s.NotZero(created.ID)
	s.Equal("1991-02-02", created.Birthday.String())

	resp := s.doJSON("GET", fmt.Sprintf("%s/api/v1/contacts/%d", s.BaseURL, created.ID), token, nil)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var fetched domain.Contact
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&fetched))
	s.Equal(created.ID, fetched.ID)
	s.Equal("Erika", fetched.FirstName)
	s.Require().NotNil(fetched.AdditionalInfo)
	s.Equal(info, *fetched.AdditionalInfo)
}

func (s *Suite) TestContacts_CreateMissingFields() {
	token := s.contactsToken()

	resp := s.doJSON("POST", s.BaseURL+"/api/v1/contacts", token, contactPayload{
		FirstName: "Erika",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestContacts_DuplicatePhone() {
	token := s.contactsToken()

	s.createContact(token, contactPayload{
		FirstName:   "Erika",
		LastName:    "Mustermann",
		Email:       "erika@example.com",
		PhoneNumber: "+49 111",
		Birthday:    "1991-02-02",
	})

	resp := s.doJSON("POST", s.BaseURL+"/api/v1/contacts", token, contactPayload{
		FirstName:   "Max",
		LastName:    "Mustermann",
		Email:       "max@example.com",
		PhoneNumber: "+49 111",
		Birthday:    "1985-06-15",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusConflict, resp.StatusCode)
}

func (s *Suite) TestContacts_ListPagination() {
	token := s.contactsToken()

	for i := 0; i < 3; i++ {
		s.createContact(token, contactPayload{
			FirstName:   fmt.Sprintf("First%d", i),
			LastName:    fmt.Sprintf("Last%d", i),
			Email:       fmt.Sprintf("contact%d@example.com", i),
			PhoneNumber: fmt.Sprintf("+49 %d", i),
			Birthday:    "1990-01-01",
		})
	}

	resp := s.doJSON("GET", s.BaseURL+"/api/v1/contacts?offset=1&limit=1", token, nil)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var page []domain.Contact
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&page))
	s.Require().Len(page, 1)
	s.Equal("First1", page[0].FirstName)

	// An offset past the end is an empty list, not an error.
	resp2 := s.doJSON("GET", s.BaseURL+"/api/v1/contacts?offset=1000&limit=10", token, nil)
	defer resp2.Body.Close()
	s.Equal(http.StatusOK, resp2.StatusCode)

	var empty []domain.Contact
	s.Require().NoError(json.NewDecoder(resp2.Body).Decode(&empty))
	s.Empty(empty)
}

func (s *Suite) TestContacts_Update() {
	token := s.contactsToken()

	created := s.createContact(token, contactPayload{
		FirstName:   "Erika",
		LastName:    "Mustermann",
		Email:       "erika@example.com",
		PhoneNumber: "+49 111",
		Birthday:    "1991-02-02",
	})

	resp := s.doJSON("PUT", fmt.Sprintf("%s/api/v1/contacts/%d", s.BaseURL, created.ID), token,
		map[string]string{"first_name": "Eva"})
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var updated domain.Contact
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&updated))
	s.Equal("Eva", updated.FirstName)
	s.Equal("Mustermann", updated.LastName)
	s.Equal("+49 111", updated.PhoneNumber)
}

func (s *Suite) TestContacts_UpdateEmptyBody() {
	token := s.contactsToken()

	created := s.createContact(token, contactPayload{
		FirstName:   "Erika",
		LastName:    "Mustermann",
		Email:       "erika@example.com",
		PhoneNumber: "+49 111",
		Birthday:    "1991-02-02",
	})

	resp := s.doJSON("PUT", fmt.Sprintf("%s/api/v1/contacts/%d", s.BaseURL, created.ID), token,
		map[string]string{})
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var unchanged domain.Contact
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&unchanged))
	s.Equal("Erika", unchanged.FirstName)
}

func (s *Suite) TestContacts_UpdateNotFound() {
	token := s.contactsToken()

	resp := s.doJSON("PUT", s.BaseURL+"/api/v1/contacts/9999", token,
		map[string]string{"first_name": "Eva"})
	defer resp.Body.Close()

	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *Suite) TestContacts_Delete() {
	token := s.contactsToken()

	created := s.createContact(token, contactPayload{
		FirstName:   "Erika",
		LastName:    "Mustermann",
		Email:       "erika@example.com",
		PhoneNumber: "+49 111",
		Birthday:    "1991-02-02",
	})

	resp := s.doJSON("DELETE", fmt.Sprintf("%s/api/v1/contacts/%d", s.BaseURL, created.ID), token, nil)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var deleted domain.Contact
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&deleted))
	s.Equal("Erika", deleted.FirstName)

	resp2 := s.doJSON("GET", fmt.Sprintf("%s/api/v1/contacts/%d", s.BaseURL, created.ID), token, nil)
	defer resp2.Body.Close()
	s.Equal(http.StatusNotFound, resp2.StatusCode)
}

func (s *Suite) TestContacts_Search() {
	token := s.contactsToken()

	s.createContact(token, contactPayload{
		FirstName:   "Erika",
		LastName:    "Mustermann",
		Email:       "erika@example.com",
		PhoneNumber: "+49 111",
		Birthday:    "1991-02-02",
	})
	s.createContact(token, contactPayload{
		FirstName:   "Max",
		LastName:    "Schmidt",
		Email:       "max@example.com",
		PhoneNumber: "+49 222",
		Birthday:    "1985-06-15",
	})

	// Case-insensitive substring match.
	resp := s.doJSON("GET", s.BaseURL+"/api/v1/contacts/search?name=ERI", token, nil)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var matches []domain.Contact
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&matches))
	s.Require().Len(matches, 1)
	s.Equal("Erika", matches[0].FirstName)

	// Filters combine with AND.
	resp2 := s.doJSON("GET", s.BaseURL+"/api/v1/contacts/search?name=ERI&surname=schmidt", token, nil)
	defer resp2.Body.Close()
	s.Equal(http.StatusOK, resp2.StatusCode)

	var none []domain.Contact
	s.Require().NoError(json.NewDecoder(resp2.Body).Decode(&none))
	s.Empty(none)
}

func (s *Suite) TestContacts_UpcomingBirthdays() {
	token := s.contactsToken()

	now := time.Now()
	inWindow := now.AddDate(0, 0, 3)
	outOfWindow := now.AddDate(0, 0, 30)

	s.createContact(token, contactPayload{
		FirstName:   "Soon",
		LastName:    "Birthday",
		Email:       "soon@example.com",
		PhoneNumber: "+49 111",
		Birthday:    fmt.Sprintf("1990-%02d-%02d", inWindow.Month(), inWindow.Day()),
	})
	s.createContact(token, contactPayload{
		FirstName:   "Later",
		LastName:    "Birthday",
		Email:       "later@example.com",
		PhoneNumber: "+49 222",
		Birthday:    fmt.Sprintf("1990-%02d-%02d", outOfWindow.Month(), outOfWindow.Day()),
	})

	resp := s.doJSON("GET", s.BaseURL+"/api/v1/contacts/birthdays", token, nil)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var upcoming []domain.Contact
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&upcoming))
	s.Require().Len(upcoming, 1)
	s.Equal("Soon", upcoming[0].FirstName)
}
