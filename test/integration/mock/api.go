package mock

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

// ApiMock is a stub HTTP API that records every request and answers with configured responses.
// The email steps point the Resend client at it.
type ApiMock struct {
	mu               sync.Mutex
	server           *httptest.Server
	requestsReceived map[string][]map[string]any
	headersReceived  map[string][]map[string]string
	responseMap      map[string]map[int]any
	responseStatus   map[string]map[int]int
	defaultResponse  map[string]any
	defaultStatus    map[string]int
}

func NewApiServer() *ApiMock {
	return &ApiMock{
		requestsReceived: map[string][]map[string]any{},
		headersReceived:  map[string][]map[string]string{},
		responseMap:      map[string]map[int]any{},
		responseStatus:   map[string]map[int]int{},
		defaultResponse:  map[string]any{},
		defaultStatus:    map[string]int{},
	}
}

func (a *ApiMock) Start() {
	a.server = httptest.NewServer(http.HandlerFunc(a.handle))
}

func (a *ApiMock) Close() {
	if a.server != nil {
		a.server.Close()
	}
}

func (a *ApiMock) GetUrl() string {
	if a.server == nil {
		return ""
	}
	return a.server.URL
}

func (a *ApiMock) handle(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := r.Method + r.URL.Path
	index := len(a.requestsReceived[key])

	body, _ := io.ReadAll(r.Body)
	request := map[string]any{}
	_ = json.Unmarshal(body, &request)
	a.requestsReceived[key] = append(a.requestsReceived[key], request)

	headers := map[string]string{}
	for name, values := range r.Header {
		headers[name] = values[0]
	}
	a.headersReceived[key] = append(a.headersReceived[key], headers)

	status, response := a.responseFor(key, index)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	payload, _ := json.Marshal(response)
	_, _ = w.Write(payload)
}

// responseFor picks the response for the index-th call, then the default, then 200 with a generated id.
func (a *ApiMock) responseFor(key string, index int) (int, any) {
	status, ok := a.responseStatus[key][index]
	if !ok {
		status, ok = a.defaultStatus[key]
	}
	if !ok || status == 0 {
		status = http.StatusOK
	}

	if response, ok := a.responseMap[key][index]; ok && response != nil {
		return status, response
	}
	if response, ok := a.defaultResponse[key]; ok && response != nil {
		return status, response
	}
	return status, map[string]any{"id": fmt.Sprintf("stub-%d", index+1)}
}

// SetResponse configures the response to the index-th call of method+path. Index -1 sets the default.
func (a *ApiMock) SetResponse(index int, method, path string, status int, response map[string]any) {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := method + path
	if index == -1 {
		a.defaultStatus[key] = status
		a.defaultResponse[key] = response
		return
	}
	if a.responseMap[key] == nil {
		a.responseMap[key] = map[int]any{}
	}
	if a.responseStatus[key] == nil {
		a.responseStatus[key] = map[int]int{}
	}
	a.responseMap[key][index] = response
	a.responseStatus[key][index] = status
}

func (a *ApiMock) RequestCount(method, path string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.requestsReceived[method+path])
}

func (a *ApiMock) GetRequestBody(method, path string, index int) map[string]any {
	a.mu.Lock()
	defer a.mu.Unlock()
	requests := a.requestsReceived[method+path]
	if index < 0 {
		index = len(requests) + index
	}
	if index < 0 || index >= len(requests) {
		return nil
	}
	return requests[index]
}

func (a *ApiMock) GetRequestHeaders(method, path string, index int) map[string]string {
	a.mu.Lock()
	defer a.mu.Unlock()
	headers := a.headersReceived[method+path]
	if index < 0 {
		index = len(headers) + index
	}
	if index < 0 || index >= len(headers) {
		return nil
	}
	return headers[index]
}

// ClearResponses forgets every recorded request and configured response.
func (a *ApiMock) ClearResponses() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.requestsReceived = map[string][]map[string]any{}
	a.headersReceived = map[string][]map[string]string{}
	a.responseMap = map[string]map[int]any{}
	a.responseStatus = map[string]map[int]int{}
	a.defaultResponse = map[string]any{}
	a.defaultStatus = map[string]int{}
}
