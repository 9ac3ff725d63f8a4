package jira

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/golang/glog"
	errors "github.com/zgalor/weberr"
)

const restPrefix = "/rest/api/2"

const contentTypeJSON = "application/json"

// Client performs exactly one JIRA REST API v2 request per operation. It
// holds no state beyond the connection settings; every invocation of the
// module builds a fresh one.
type Client struct {
	httpClient *http.Client
	restBase   string

	Config *ClientConfiguration
}

func NewClient(config *ClientConfiguration) (*Client, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	base := strings.TrimSuffix(config.BaseURL, "/")
	return &Client{
		httpClient: newHTTPClient(config),
		restBase:   base + restPrefix,
		Config:     config,
	}, nil
}

func (c *Client) get(url string) (map[string]interface{}, error) {
	return c.do(http.MethodGet, url, nil, contentTypeJSON, nil)
}

func (c *Client) post(url string, data interface{}) (map[string]interface{}, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return c.do(http.MethodPost, url, bytes.NewReader(body), contentTypeJSON, nil)
}

func (c *Client) put(url string, data interface{}) (map[string]interface{}, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return c.do(http.MethodPut, url, bytes.NewReader(body), contentTypeJSON, nil)
}

func (c *Client) postRaw(url, contentType string, body []byte, headers map[string]string) (map[string]interface{}, error) {
	return c.do(http.MethodPost, url, bytes.NewReader(body), contentType, headers)
}

// do performs one request and decodes the response. 200, 201 and 204 are
// the only success statuses; anything else becomes an error built from the
// body. An empty success body decodes to an empty map.
func (c *Client) do(method, url string, body io.Reader, contentType string, headers map[string]string) (map[string]interface{}, error) {
	request, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", contentType)
	request.Header.Set("Accept", contentTypeJSON)
	for key, value := range headers {
		request.Header.Set(key, value)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	if err := checkResponse(response.StatusCode, payload); err != nil {
		glog.Error(err)
		return nil, err
	}

	if len(payload) == 0 {
		return map[string]interface{}{}, nil
	}
	result := map[string]interface{}{}
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, err
	}
	return result, nil
}

var successStatuses = []int{
	http.StatusOK,
	http.StatusCreated,
	http.StatusNoContent,
}

// checkResponse turns a non-success response into an error. JIRA error
// bodies carry errorMessages (a list) and errors (a map); when neither can
// be extracted the raw body text is the message.
func checkResponse(status int, payload []byte) error {
	for _, success := range successStatuses {
		if status == success {
			return nil
		}
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return errors.Errorf("%s", string(payload))
	}

	var messages []string
	if errorMessages, ok := decoded["errorMessages"].([]interface{}); ok {
		for _, message := range errorMessages {
			messages = append(messages, fmt.Sprintf("%v", message))
		}
	}
	if fieldErrors, ok := decoded["errors"].(map[string]interface{}); ok {
		for _, name := range sortedKeys(fieldErrors) {
			messages = append(messages, fmt.Sprintf("%s: %v", name, fieldErrors[name]))
		}
	}
	if len(messages) > 0 {
		return errors.Errorf("%s", strings.Join(messages, ", "))
	}
	return errors.Errorf("%s", string(payload))
}
