package handler

import (
	"strings"

	dErrors "github.com/adverot/emailfinder/pkg/domain-errors"
)

// LookupRequest is the body of POST /v1/lookups and POST /v1/candidates.
type LookupRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Domain    string `json:"domain"`
}

// validate rejects obviously empty fields up front; shape-level validation
// (domain form, name normalization) belongs to the service.
func (r *LookupRequest) validate() error {
	if strings.TrimSpace(r.FirstName) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "first_name is required")
	}
	if strings.TrimSpace(r.LastName) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "last_name is required")
	}
	if strings.TrimSpace(r.Domain) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "domain is required")
	}
	return nil
}
