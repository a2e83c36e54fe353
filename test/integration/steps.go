package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/doodlesbykumbi/tdd101-in-go/pkg/audit"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/clock"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/model"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/server/middleware"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte
	authToken    string
	createdID    int64
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{tc: tc}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, s.tc.Reset(ctx)
	})

	// Background steps
	sc.Step(`^the people API is running$`, s.thePeopleAPIIsRunning)
	sc.Step(`^I am authenticated as "([^"]*)"$`, s.iAmAuthenticatedAs)
	sc.Step(`^I am not authenticated$`, s.iAmNotAuthenticated)

	// People steps
	sc.Step(`^I create a person "([^"]*)" "([^"]*)" with email "([^"]*)"$`, s.iCreateAPerson)
	sc.Step(`^I create a person with body:$`, s.iCreateAPersonWithBody)
	sc.Step(`^I fetch the created person$`, s.iFetchTheCreatedPerson)
	sc.Step(`^I fetch person "([^"]*)"$`, s.iFetchPerson)
	sc.Step(`^I update the created person to "([^"]*)" "([^"]*)" with email "([^"]*)"$`, s.iUpdateTheCreatedPerson)
	sc.Step(`^I delete the created person$`, s.iDeleteTheCreatedPerson)
	sc.Step(`^I list people with limit (\d+) and offset (\d+)$`, s.iListPeople)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response error should be "([^"]*)"$`, s.theResponseErrorShouldBe)
	sc.Step(`^the response should be a person named "([^"]*)" "([^"]*)"$`, s.theResponseShouldBeAPersonNamed)
	sc.Step(`^the response should list (\d+) people starting with "([^"]*)"$`, s.theResponseShouldListPeople)

	// Audit steps
	sc.Step(`^the audit trail should end with "([^"]*)"$`, s.theAuditTrailShouldEndWith)
}

func (s *StepsContext) thePeopleAPIIsRunning() error {
	// Server is already running via TestContext
	return nil
}

func (s *StepsContext) iAmAuthenticatedAs(subject string) error {
	token, err := middleware.IssueToken([]byte(jwtSecret), subject, time.Hour, clock.Default)
	if err != nil {
		return err
	}
	s.authToken = token
	return nil
}

func (s *StepsContext) iAmNotAuthenticated() error {
	s.authToken = ""
	return nil
}

func (s *StepsContext) iCreateAPerson(firstName, lastName, email string) error {
	body, err := json.Marshal(model.Person{FirstName: firstName, LastName: lastName, Email: email})
	if err != nil {
		return err
	}
	return s.create(string(body))
}

func (s *StepsContext) iCreateAPersonWithBody(body *godog.DocString) error {
	return s.create(body.Content)
}

func (s *StepsContext) create(body string) error {
	if err := s.doRequest(http.MethodPut, "/api/people", body); err != nil {
		return err
	}
	if s.response.StatusCode != http.StatusCreated {
		return nil
	}

	var created struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(s.responseBody, &created); err != nil {
		return fmt.Errorf("failed to decode create response: %w", err)
	}
	s.createdID = created.ID
	return nil
}

func (s *StepsContext) iFetchTheCreatedPerson() error {
	return s.doRequest(http.MethodGet, s.createdPath(), "")
}

func (s *StepsContext) iFetchPerson(id string) error {
	return s.doRequest(http.MethodGet, "/api/people/"+id, "")
}

func (s *StepsContext) iUpdateTheCreatedPerson(firstName, lastName, email string) error {
	body, err := json.Marshal(model.Person{FirstName: firstName, LastName: lastName, Email: email})
	if err != nil {
		return err
	}
	return s.doRequest(http.MethodPatch, s.createdPath(), string(body))
}

func (s *StepsContext) iDeleteTheCreatedPerson() error {
	return s.doRequest(http.MethodDelete, s.createdPath(), "")
}

func (s *StepsContext) iListPeople(limit, offset int) error {
	return s.doRequest(http.MethodGet, fmt.Sprintf("/api/people?limit=%d&offset=%d", limit, offset), "")
}

func (s *StepsContext) theResponseStatusShouldBe(status int) error {
	if s.response == nil {
		return fmt.Errorf("no response received")
	}
	if s.response.StatusCode != status {
		return fmt.Errorf("expected status %d, got %d: %s", status, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResponseErrorShouldBe(expected string) error {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(s.responseBody, &body); err != nil {
		return fmt.Errorf("failed to decode error response: %w", err)
	}
	if body.Error != expected {
		return fmt.Errorf("expected error %q, got %q", expected, body.Error)
	}
	return nil
}

func (s *StepsContext) theResponseShouldBeAPersonNamed(firstName, lastName string) error {
	var person model.Person
	if err := json.Unmarshal(s.responseBody, &person); err != nil {
		return fmt.Errorf("failed to decode person: %w", err)
	}
	if person.FirstName != firstName || person.LastName != lastName {
		return fmt.Errorf("expected %s %s, got %s %s", firstName, lastName, person.FirstName, person.LastName)
	}
	if person.ID != s.createdID {
		return fmt.Errorf("expected id %d, got %d", s.createdID, person.ID)
	}
	return nil
}

func (s *StepsContext) theResponseShouldListPeople(count int, firstName string) error {
	var people []model.Person
	if err := json.Unmarshal(s.responseBody, &people); err != nil {
		return fmt.Errorf("failed to decode people: %w", err)
	}
	if len(people) != count {
		return fmt.Errorf("expected %d people, got %d", count, len(people))
	}
	if count > 0 && people[0].FirstName != firstName {
		return fmt.Errorf("expected list to start with %s, got %s", firstName, people[0].FirstName)
	}
	return nil
}

// theAuditTrailShouldEndWith checks the newest persisted audit message. The
// placeholder {id} stands for the id of the created person.
func (s *StepsContext) theAuditTrailShouldEndWith(expected string) error {
	expected = strings.ReplaceAll(expected, "{id}", strconv.FormatInt(s.createdID, 10))

	messages, err := audit.NewStore(s.tc.Conn).Recent(context.Background(), 1)
	if err != nil {
		return err
	}
	if len(messages) == 0 {
		return fmt.Errorf("audit trail is empty")
	}
	if messages[0].Message != expected {
		return fmt.Errorf("expected audit message %q, got %q", expected, messages[0].Message)
	}
	return nil
}

func (s *StepsContext) createdPath() string {
	return "/api/people/" + strconv.FormatInt(s.createdID, 10)
}

func (s *StepsContext) doRequest(method, path, body string) error {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}

	req, err := http.NewRequest(method, s.tc.ServerURL+path, reader)
	if err != nil {
		return err
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.authToken)
	}

	resp, err := s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	s.response = resp
	s.responseBody, err = io.ReadAll(resp.Body)
	return err
}
