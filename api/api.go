package api

import (
	"fmt"
	"strings"

	"github.com/levigross/grequests"
)

type HTTPNotFound struct{}

func (HTTPNotFound) Error() string { return "Not found" }

func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(HTTPNotFound)
	return ok
}

// Client resolves skill references against the catalog application. The
// depot never touches the catalog's datastore directly; this is its only
// window into published content.
type Client interface {
	GetSkill(id int64) (*Skill, error)
	Ping() error
}

func New(baseURL string, token string) Client {
	baseURL = strings.TrimSuffix(baseURL, "/")
	return impl{baseURL: baseURL, token: token}
}

type impl struct {
	baseURL string
	token   string
}

func (i impl) skillURL(format string, a ...any) string {
	return fmt.Sprintf("%s/v1/skills/%s", i.baseURL, fmt.Sprintf(format, a...))
}

func processRequest[T any](i impl, method, url string) (*T, error) {
	r, err := grequests.DoRegularRequest(method, url, &grequests.RequestOptions{
		Headers: map[string]string{
			"Accept":        "application/json",
			"Authorization": "bearer " + i.token,
		},
	})
	if err != nil {
		return nil, err
	}

	if r.StatusCode == 404 {
		return nil, HTTPNotFound{}
	}

	if !r.Ok {
		return nil, fmt.Errorf("request failed with status %d: %s", r.StatusCode, r.String())
	}

	var into T
	if err = r.JSON(&into); err != nil {
		return nil, err
	}

	return &into, nil
}

func (i impl) GetSkill(id int64) (*Skill, error) {
	return processRequest[Skill](i, "GET", i.skillURL("%d", id))
}

func (i impl) Ping() error {
	r, err := grequests.Get(i.baseURL+"/v1/ping", grequests.FromRequestOptions(&grequests.RequestOptions{
		Headers: map[string]string{
			"Accept":        "application/json",
			"Authorization": "bearer " + i.token,
		},
	}))
	if err != nil {
		return err
	}

	if !r.Ok {
		return fmt.Errorf("ping failed with status %d: %s", r.StatusCode, r.String())
	}

	return nil
}
