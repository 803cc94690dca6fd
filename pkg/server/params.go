package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/mux"
)

type Params struct {
	urlQuery url.Values
	params   map[string]string
}

func NewParams(r *http.Request) *Params {
	params := mux.Vars(r)
	var query url.Values

	if r.URL != nil {
		query = r.URL.Query()
	}

	return &Params{
		urlQuery: query,
		params:   params,
	}
}

func (p *Params) String(name string) (string, error) {
	result, ok := p.params[name]
	if !ok {
		if p.queryHas(name) {
			return p.urlQuery.Get(name), nil
		}
		return "", p.newUndefinedErr(name)
	}
	return result, nil
}

func (p *Params) Has(name string) bool {
	_, ok := p.params[name]
	return ok || p.queryHas(name)
}

func (p *Params) Bool(name string) (bool, error) {
	result, err := p.String(name)
	if err != nil {
		return false, err
	}
	return strconv.ParseBool(result)
}

//Duration accepts Go durations (e.g. '90s') or plain numbers which are interpreted as seconds
func (p *Params) Duration(name string) (time.Duration, error) {
	result, err := p.String(name)
	if err != nil {
		return 0, err
	}
	if seconds, err := strconv.Atoi(result); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	return time.ParseDuration(result)
}

func (p *Params) newUndefinedErr(name string) error {
	return fmt.Errorf("parameter '%s' undefined", name)
}

func (p *Params) queryHas(name string) bool {
	_, ok := p.urlQuery[name]
	return ok
}
