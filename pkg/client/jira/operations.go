package jira

import (
	"net/url"
	"sort"
	"strconv"

	errors "github.com/zgalor/weberr"

	"github.com/opsglue/jira-module/utils"
)

// Operation is one of the fixed set of actions the module can perform.
type Operation string

const (
	OperationAttach     Operation = "attach"
	OperationComment    Operation = "comment"
	OperationCreate     Operation = "create"
	OperationEdit       Operation = "edit"
	OperationFetch      Operation = "fetch"
	OperationLink       Operation = "link"
	OperationSearch     Operation = "search"
	OperationTransition Operation = "transition"
	OperationUpdate     Operation = "update"
)

var operations = []Operation{
	OperationAttach,
	OperationComment,
	OperationCreate,
	OperationEdit,
	OperationFetch,
	OperationLink,
	OperationSearch,
	OperationTransition,
	OperationUpdate,
}

func ParseOperation(name string) (Operation, error) {
	operation := Operation(name)
	if !utils.Contains(operations, operation) {
		return "", errors.BadRequest.UserErrorf("Unknown operation '%s'", name)
	}
	return operation, nil
}

// Request is the validated payload for one operation. Fields irrelevant to
// the chosen operation are left at their zero values. It is built once per
// invocation and not mutated afterwards.
type Request struct {
	Operation    Operation
	Issue        string
	Project      string
	Summary      string
	Description  string
	IssueType    string
	Comment      string
	Status       string
	LinkType     string
	InwardIssue  string
	OutwardIssue string
	Fields       map[string]interface{}
	JQL          string
	MaxResults   int
	Attachment   *AttachmentSpec
}

// Execute performs the operation described by req. The boolean reports
// whether the operation modifies remote state; fetch and search are the
// only read-only operations.
func (c *Client) Execute(req *Request) (bool, map[string]interface{}, error) {
	switch req.Operation {
	case OperationAttach:
		return c.attachFile(req)
	case OperationComment:
		return c.commentIssue(req)
	case OperationCreate:
		return c.createIssue(req)
	case OperationEdit:
		return c.editIssue(req)
	case OperationFetch:
		return c.fetchIssue(req)
	case OperationLink:
		return c.linkIssues(req)
	case OperationSearch:
		return c.searchIssues(req)
	case OperationTransition:
		return c.transitionIssue(req)
	case OperationUpdate:
		return c.updateIssue(req)
	}
	return false, nil, errors.BadRequest.UserErrorf("Unknown operation '%s'", req.Operation)
}

func (c *Client) createIssue(req *Request) (bool, map[string]interface{}, error) {
	fields := map[string]interface{}{
		"project":   map[string]interface{}{"key": req.Project},
		"summary":   req.Summary,
		"issuetype": map[string]interface{}{"name": req.IssueType},
	}
	if req.Description != "" {
		fields["description"] = req.Description
	}
	// Caller-supplied fields override the scaffold above.
	for key, value := range req.Fields {
		fields[key] = value
	}

	meta, err := c.post(c.restBase+"/issue/", map[string]interface{}{"fields": fields})
	return true, meta, err
}

func (c *Client) commentIssue(req *Request) (bool, map[string]interface{}, error) {
	data := map[string]interface{}{"body": req.Comment}
	meta, err := c.post(c.restBase+"/issue/"+req.Issue+"/comment", data)
	return true, meta, err
}

func (c *Client) editIssue(req *Request) (bool, map[string]interface{}, error) {
	data := map[string]interface{}{"fields": req.Fields}
	meta, err := c.put(c.restBase+"/issue/"+req.Issue, data)
	return true, meta, err
}

func (c *Client) updateIssue(req *Request) (bool, map[string]interface{}, error) {
	data := map[string]interface{}{"update": req.Fields}
	meta, err := c.put(c.restBase+"/issue/"+req.Issue, data)
	return true, meta, err
}

func (c *Client) fetchIssue(req *Request) (bool, map[string]interface{}, error) {
	meta, err := c.get(c.restBase + "/issue/" + req.Issue)
	return false, meta, err
}

func (c *Client) searchIssues(req *Request) (bool, map[string]interface{}, error) {
	searchURL := c.restBase + "/search?jql=" + url.QueryEscape(req.JQL)
	for _, field := range sortedKeys(req.Fields) {
		searchURL += "&fields=" + url.QueryEscape(field)
	}
	if req.MaxResults > 0 {
		searchURL += "&maxResults=" + strconv.Itoa(req.MaxResults)
	}

	meta, err := c.get(searchURL)
	return false, meta, err
}

// transitionIssue resolves the requested transition name against the
// transitions the server reports for the issue, then posts the state
// change. The name match is exact and the first match wins; no match is a
// hard failure and nothing is posted.
func (c *Client) transitionIssue(req *Request) (bool, map[string]interface{}, error) {
	transitionsURL := c.restBase + "/issue/" + req.Issue + "/transitions"
	tmeta, err := c.get(transitionsURL)
	if err != nil {
		return true, nil, err
	}

	var id string
	transitions, _ := tmeta["transitions"].([]interface{})
	for _, transition := range transitions {
		entry, ok := transition.(map[string]interface{})
		if !ok {
			continue
		}
		if entry["name"] == req.Status {
			id, _ = entry["id"].(string)
			break
		}
	}
	if id == "" {
		return true, nil, errors.Errorf("Failed to find valid transition for '%s'", req.Status)
	}

	fields := map[string]interface{}{}
	for key, value := range req.Fields {
		fields[key] = value
	}
	if req.Summary != "" {
		fields["summary"] = req.Summary
	}
	if req.Description != "" {
		fields["description"] = req.Description
	}

	data := map[string]interface{}{
		"transition": map[string]interface{}{"id": id},
		"fields":     fields,
	}
	if req.Comment != "" {
		data["update"] = map[string]interface{}{
			"comment": []interface{}{
				map[string]interface{}{
					"add": map[string]interface{}{"body": req.Comment},
				},
			},
		}
	}

	meta, err := c.post(transitionsURL, data)
	return true, meta, err
}

func (c *Client) linkIssues(req *Request) (bool, map[string]interface{}, error) {
	data := map[string]interface{}{
		"type":         map[string]interface{}{"name": req.LinkType},
		"inwardIssue":  map[string]interface{}{"key": req.InwardIssue},
		"outwardIssue": map[string]interface{}{"key": req.OutwardIssue},
	}
	meta, err := c.post(c.restBase+"/issueLink/", data)
	return true, meta, err
}

func (c *Client) attachFile(req *Request) (bool, map[string]interface{}, error) {
	contentType, body, err := req.Attachment.encode()
	if err != nil {
		return true, nil, err
	}

	attachURL := c.restBase + "/issue/" + req.Issue + "/attachments"
	headers := map[string]string{"X-Atlassian-Token": "no-check"}
	meta, err := c.postRaw(attachURL, contentType, body, headers)
	return true, meta, err
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
