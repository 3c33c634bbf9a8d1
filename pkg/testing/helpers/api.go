// Zaparoo Extract
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Zaparoo Extract.
//
// Zaparoo Extract is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Zaparoo Extract is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Zaparoo Extract.  If not, see <http://www.gnu.org/licenses/>.

package helpers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ZaparooProject/zaparoo-extract/pkg/api/models"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// JSONRPCRequest represents a JSON-RPC request for testing
type JSONRPCRequest struct {
	Params  any       `json:"params,omitempty"`
	JSONRPC string    `json:"jsonrpc"`
	Method  string    `json:"method"`
	ID      uuid.UUID `json:"id"`
}

// JSONRPCResponse represents a JSON-RPC response for testing
type JSONRPCResponse struct {
	Error  *models.ErrorObject `json:"error,omitempty"`
	Result json.RawMessage     `json:"result,omitempty"`
	ID     uuid.UUID           `json:"id"`
}

func newRequest(method string, params any) ([]byte, error) {
	data, err := json.Marshal(JSONRPCRequest{
		JSONRPC: "2.0",
		ID:      uuid.New(),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return data, nil
}

// DialWebSocket connects to the /api websocket of a test server.
func DialWebSocket(t *testing.T, serverURL string) *websocket.Conn {
	t.Helper()

	u := "ws" + strings.TrimPrefix(serverURL, "http") + "/api"
	conn, resp, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() {
		_ = conn.Close()
	})
	return conn
}

// SendJSONRPCRequest sends a JSON-RPC request and returns the response
func SendJSONRPCRequest(conn *websocket.Conn, method string, params any) (*JSONRPCResponse, error) {
	requestData, err := newRequest(method, params)
	if err != nil {
		return nil, err
	}

	err = conn.WriteMessage(websocket.TextMessage, requestData)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	_, responseData, err := conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var response JSONRPCResponse
	err = json.Unmarshal(responseData, &response)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &response, nil
}

// AssertJSONRPCSuccess verifies a JSON-RPC response was successful
func AssertJSONRPCSuccess(t *testing.T, response *JSONRPCResponse) {
	t.Helper()
	require.NotNil(t, response, "response should not be nil")
	require.Nil(t, response.Error, "response should not contain an error")
	require.NotEmpty(t, response.Result, "response should contain a result")
}

// AssertJSONRPCError verifies a JSON-RPC response contains an error
func AssertJSONRPCError(t *testing.T, response *JSONRPCResponse, expectedCode int) {
	t.Helper()
	require.NotNil(t, response, "response should not be nil")
	require.NotNil(t, response.Error, "response should contain an error")
	require.Equal(t, expectedCode, response.Error.Code, "error code should match")
}

// HTTPTestHelper provides utilities for testing HTTP API endpoints
type HTTPTestHelper struct {
	Server *httptest.Server
	Client *http.Client
}

// NewHTTPTestHelper starts a test server for handler, closed at cleanup.
func NewHTTPTestHelper(t *testing.T, handler http.Handler) *HTTPTestHelper {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return &HTTPTestHelper{
		Server: server,
		Client: server.Client(),
	}
}

// PostJSONRPC sends a JSON-RPC request via HTTP POST and decodes the reply.
func (h *HTTPTestHelper) PostJSONRPC(method string, params any) (*JSONRPCResponse, int, error) {
	requestData, err := newRequest(method, params)
	if err != nil {
		return nil, 0, err
	}

	resp, err := h.Client.Post(h.Server.URL+"/api", "application/json", bytes.NewReader(requestData))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to post request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, nil
	}

	var response JSONRPCResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
	}
	return &response, resp.StatusCode, nil
}
