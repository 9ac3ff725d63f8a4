package module

import (
	"encoding/json"
	"os"
	"time"

	errors "github.com/zgalor/weberr"
	"gopkg.in/yaml.v3"

	"github.com/opsglue/jira-module/pkg/client/jira"
	"github.com/opsglue/jira-module/utils"
)

const defaultTimeoutSeconds = 10

// Params is the parameter set handed over by the host process, one struct
// field per host-side option. Command and Ticket are accepted aliases for
// Operation and Issue.
type Params struct {
	URI           string                 `json:"uri"`
	Operation     string                 `json:"operation"`
	Command       string                 `json:"command"`
	Username      string                 `json:"username"`
	Password      string                 `json:"password"`
	Project       string                 `json:"project"`
	Summary       string                 `json:"summary"`
	Description   string                 `json:"description"`
	IssueType     string                 `json:"issuetype"`
	Issue         string                 `json:"issue"`
	Ticket        string                 `json:"ticket"`
	Comment       string                 `json:"comment"`
	Status        string                 `json:"status"`
	Assignee      string                 `json:"assignee"`
	AccountID     string                 `json:"account_id"`
	LinkType      string                 `json:"linktype"`
	InwardIssue   string                 `json:"inwardissue"`
	OutwardIssue  string                 `json:"outwardissue"`
	Fields        map[string]interface{} `json:"fields"`
	JQL           string                 `json:"jql"`
	MaxResults    int                    `json:"maxresults"`
	Timeout       float64                `json:"timeout"`
	ValidateCerts *bool                  `json:"validate_certs"`
	Attachment    *AttachmentParams      `json:"attachment"`
}

type AttachmentParams struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
	Mimetype string `json:"mimetype"`
}

// ConnectionDefaults is the optional YAML defaults file: connection
// settings applied only where the host left the parameter empty.
type ConnectionDefaults struct {
	URI      string  `yaml:"uri"`
	Username string  `yaml:"username"`
	Password string  `yaml:"password"`
	Timeout  float64 `yaml:"timeout"`
}

// ParseParams decodes the host-supplied args file.
func ParseParams(path string) (*Params, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.BadRequest.UserErrorf("Cannot read args file %s: %v", path, err)
	}
	params := &Params{}
	if err := json.Unmarshal(raw, params); err != nil {
		return nil, errors.BadRequest.UserErrorf("Cannot parse args file %s: %v", path, err)
	}
	params.normalize()
	return params, nil
}

// normalize resolves aliases and fills defaults.
func (p *Params) normalize() {
	if p.Operation == "" {
		p.Operation = p.Command
	}
	if p.Issue == "" {
		p.Issue = p.Ticket
	}
	if p.Timeout <= 0 {
		p.Timeout = defaultTimeoutSeconds
	}
	if p.Fields == nil {
		p.Fields = map[string]interface{}{}
	}
}

// ApplyDefaults merges a YAML defaults file under the host parameters.
// Values already supplied by the host win.
func (p *Params) ApplyDefaults(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.BadRequest.UserErrorf("Cannot read defaults file %s: %v", path, err)
	}
	defaults := &ConnectionDefaults{}
	if err := yaml.Unmarshal(raw, defaults); err != nil {
		return errors.BadRequest.UserErrorf("Cannot parse defaults file %s: %v", path, err)
	}
	if p.URI == "" {
		p.URI = defaults.URI
	}
	if p.Username == "" {
		p.Username = defaults.Username
	}
	if p.Password == "" {
		p.Password = defaults.Password
	}
	if p.Timeout == defaultTimeoutSeconds && defaults.Timeout > 0 {
		p.Timeout = defaults.Timeout
	}
	return nil
}

// requiredParams lists the parameters each operation cannot run without.
// The connection parameters (uri, username, password) are always required.
var requiredParams = map[jira.Operation][]string{
	jira.OperationAttach:     {"issue", "attachment"},
	jira.OperationComment:    {"issue", "comment"},
	jira.OperationCreate:     {"project", "issuetype", "summary"},
	jira.OperationEdit:       {"issue"},
	jira.OperationFetch:      {"issue"},
	jira.OperationLink:       {"linktype", "inwardissue", "outwardissue"},
	jira.OperationSearch:     {"jql"},
	jira.OperationTransition: {"issue", "status"},
	jira.OperationUpdate:     {"issue"},
}

// Validate enforces the connection parameters, the per-operation required
// fields and the assignee/account_id mutual exclusion. It runs strictly
// before any field construction.
func (p *Params) Validate() error {
	rules := []utils.ValidateRule{
		utils.ValidateStringFieldNotEmpty(&p.URI, "uri"),
		utils.ValidateStringFieldNotEmpty(&p.Operation, "operation"),
		utils.ValidateStringFieldNotEmpty(&p.Username, "username"),
		utils.ValidateStringFieldNotEmpty(&p.Password, "password"),
	}
	if err := utils.Validate(rules); err != nil {
		return err
	}

	operation, err := jira.ParseOperation(p.Operation)
	if err != nil {
		return err
	}

	if p.Assignee != "" && p.AccountID != "" {
		return errors.BadRequest.UserErrorf("parameters are mutually exclusive: assignee|account_id")
	}

	for _, name := range requiredParams[operation] {
		if p.paramValue(name) == "" {
			return errors.BadRequest.UserErrorf("Missing field '%s' for operation '%s'", name, operation)
		}
	}
	return nil
}

func (p *Params) paramValue(name string) string {
	switch name {
	case "issue":
		return p.Issue
	case "comment":
		return p.Comment
	case "project":
		return p.Project
	case "issuetype":
		return p.IssueType
	case "summary":
		return p.Summary
	case "linktype":
		return p.LinkType
	case "inwardissue":
		return p.InwardIssue
	case "outwardissue":
		return p.OutwardIssue
	case "jql":
		return p.JQL
	case "status":
		return p.Status
	case "attachment":
		if p.Attachment == nil {
			return ""
		}
		if p.Attachment.Filename == "" && p.Attachment.Content == "" {
			return ""
		}
		return "set"
	}
	return ""
}

// ToRequest validates the parameters and shapes them into an operation
// request. The assignee field injection happens here, after the mutual
// exclusion check has passed.
func (p *Params) ToRequest() (*jira.Request, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	for key, value := range p.Fields {
		fields[key] = value
	}
	if p.Assignee != "" {
		fields["assignee"] = map[string]interface{}{"name": p.Assignee}
	}
	if p.AccountID != "" {
		fields["assignee"] = map[string]interface{}{"accountId": p.AccountID}
	}

	operation, err := jira.ParseOperation(p.Operation)
	if err != nil {
		return nil, err
	}

	request := &jira.Request{
		Operation:    operation,
		Issue:        p.Issue,
		Project:      p.Project,
		Summary:      p.Summary,
		Description:  p.Description,
		IssueType:    p.IssueType,
		Comment:      p.Comment,
		Status:       p.Status,
		LinkType:     p.LinkType,
		InwardIssue:  p.InwardIssue,
		OutwardIssue: p.OutwardIssue,
		Fields:       fields,
		JQL:          p.JQL,
		MaxResults:   p.MaxResults,
	}
	if p.Attachment != nil {
		request.Attachment = &jira.AttachmentSpec{
			Filename: p.Attachment.Filename,
			Content:  p.Attachment.Content,
			MimeType: p.Attachment.Mimetype,
		}
	}
	return request, nil
}

// ClientConfig shapes the connection parameters into a client
// configuration.
func (p *Params) ClientConfig() *jira.ClientConfiguration {
	config := jira.NewClientConfig()
	config.BaseURL = p.URI
	config.Username = p.Username
	config.Password = p.Password
	config.Timeout = time.Duration(p.Timeout * float64(time.Second))
	if p.ValidateCerts != nil {
		config.ValidateCerts = *p.ValidateCerts
	}
	return config
}
