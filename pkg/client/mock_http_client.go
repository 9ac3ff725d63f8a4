package client

import (
	"bytes"
	"io"
	"net/http"
)

var MockJsonHeader = http.Header{"Content-Type": {"application/json"}}

// MockResponse is one canned reply for the mock client. A nil Header
// defaults to a JSON content type.
type MockResponse struct {
	Code   int
	Header http.Header
	Body   string
}

type mockRoundTripper struct {
	responses   []MockResponse
	interceptor *Interceptor
}

func (m *mockRoundTripper) RoundTrip(request *http.Request) (*http.Response, error) {
	var payload []byte
	if request.Body != nil {
		payload, _ = io.ReadAll(request.Body)
	}
	m.interceptor.requests = append(m.interceptor.requests, request)
	m.interceptor.bodies = append(m.interceptor.bodies, payload)

	next := m.responses[0]
	if len(m.responses) > 1 {
		m.responses = m.responses[1:]
	}
	header := next.Header
	if header == nil {
		header = MockJsonHeader
	}
	return &http.Response{
		StatusCode: next.Code,
		Body:       io.NopCloser(bytes.NewBufferString(next.Body)),
		Header:     header,
	}, nil
}

type Interceptor struct {
	requests []*http.Request
	bodies   [][]byte
}

func (m *Interceptor) GetMostRecentRequest() *http.Request {
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}

func (m *Interceptor) GetRequest(i int) *http.Request {
	return m.requests[i]
}

func (m *Interceptor) GetRequestBody(i int) []byte {
	return m.bodies[i]
}

func (m *Interceptor) GetMostRecentRequestBody() []byte {
	if len(m.bodies) == 0 {
		return nil
	}
	return m.bodies[len(m.bodies)-1]
}

func (m *Interceptor) RequestCount() int {
	return len(m.requests)
}

// NewMockHttpClient returns :
// - a mock http.Client that replays the given responses in order (the last
//   one repeats once the queue is drained);
// - a mock interceptor that stores every request and body to be examined
//   in tests.
func NewMockHttpClient(responses ...MockResponse) (*http.Client, *Interceptor) {
	interceptor := &Interceptor{}
	client := &http.Client{Transport: &mockRoundTripper{responses, interceptor}}
	return client, interceptor
}
