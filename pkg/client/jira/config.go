package jira

import (
	"net/http"
	"time"

	"github.com/opsglue/jira-module/utils"
)

// ClientConfiguration carries the connection settings for a single
// invocation. BaseURL is the JIRA instance root, not the REST base; the
// client appends the REST API prefix itself.
type ClientConfiguration struct {
	BaseURL  string
	Username string
	Password string
	Timeout  time.Duration
	// ValidateCerts disables TLS certificate verification when false, for
	// instances running with self-signed certificates.
	ValidateCerts bool
	// HTTPClient, when set, supplies the base transport of the request
	// chain in place of the network transport. Used by tests.
	HTTPClient *http.Client
}

func NewClientConfig() *ClientConfiguration {
	return &ClientConfiguration{
		Timeout:       10 * time.Second,
		ValidateCerts: true,
	}
}

func (c *ClientConfiguration) validate() error {
	rules := []utils.ValidateRule{
		utils.ValidateStringFieldNotEmpty(&c.BaseURL, "uri"),
		utils.ValidateStringFieldNotEmpty(&c.Username, "username"),
		utils.ValidateStringFieldNotEmpty(&c.Password, "password"),
	}
	return utils.Validate(rules)
}
