package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectRequests(t *testing.T, transport *StdioTransport) []*Request {
	t.Helper()

	var requests []*Request
	timeout := time.After(2 * time.Second)
	for {
		select {
		case req, ok := <-transport.Receive():
			if !ok {
				return requests
			}
			requests = append(requests, req)
		case <-timeout:
			t.Fatal("timed out waiting for request channel to close")
		}
	}
}

func TestStdioTransportReadsNewlineDelimitedRequests(t *testing.T) {
	input := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
		``,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
	}, "\n") + "\n"

	var output bytes.Buffer
	transport := NewStdioTransportWithIO(strings.NewReader(input), &output)
	require.NoError(t, transport.Start(context.Background()))

	requests := collectRequests(t, transport)
	require.Len(t, requests, 2)
	assert.Equal(t, "initialize", requests[0].Method)
	assert.Equal(t, "tools/list", requests[1].Method)
}

func TestStdioTransportRejectsMalformedJSON(t *testing.T) {
	input := "{not json}\n" + `{"jsonrpc":"2.0","id":1,"method":"tools/list"}` + "\n"

	var output bytes.Buffer
	transport := NewStdioTransportWithIO(strings.NewReader(input), &output)
	require.NoError(t, transport.Start(context.Background()))

	requests := collectRequests(t, transport)
	require.Len(t, requests, 1, "malformed line is skipped, valid line still delivered")

	var errResp Response
	require.NoError(t, json.Unmarshal(output.Bytes(), &errResp))
	require.NotNil(t, errResp.Error)
	assert.Equal(t, ParseError, errResp.Error.Code)
}

func TestStdioTransportRejectsWrongVersion(t *testing.T) {
	input := `{"jsonrpc":"1.0","id":7,"method":"tools/list"}` + "\n"

	var output bytes.Buffer
	transport := NewStdioTransportWithIO(strings.NewReader(input), &output)
	require.NoError(t, transport.Start(context.Background()))

	requests := collectRequests(t, transport)
	assert.Empty(t, requests)

	var errResp Response
	require.NoError(t, json.Unmarshal(output.Bytes(), &errResp))
	require.NotNil(t, errResp.Error)
	assert.Equal(t, InvalidRequest, errResp.Error.Code)
}

func TestStdioTransportSendFramesOneLine(t *testing.T) {
	var output bytes.Buffer
	transport := NewStdioTransportWithIO(strings.NewReader(""), &output)

	err := transport.Send(&Response{ID: 1, Result: map[string]interface{}{"ok": true}})
	require.NoError(t, err)

	line := output.String()
	assert.True(t, strings.HasSuffix(line, "\n"))
	assert.Equal(t, 1, strings.Count(line, "\n"))

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(line), &resp))
	assert.Equal(t, "2.0", resp.JSONRPC, "version is filled in when absent")
}

func TestStdioTransportSendAfterClose(t *testing.T) {
	var output bytes.Buffer
	transport := NewStdioTransportWithIO(strings.NewReader(""), &output)
	require.NoError(t, transport.Close())

	err := transport.Send(&Response{ID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closed")
}

func TestHTTPTransportSendWithoutSessions(t *testing.T) {
	transport := NewHTTPTransport("localhost", 0)
	err := transport.Send(&Response{ID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no active sessions")
}

func TestHTTPTransportCloseIsIdempotent(t *testing.T) {
	transport := NewHTTPTransport("localhost", 0)
	require.NoError(t, transport.Close())
	require.NoError(t, transport.Close())
}
