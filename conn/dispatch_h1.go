// Copyright 2025 The packetd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package conn

import (
	"github.com/packetd/httpcore/protocol/h1"
)

// processH1 decodes as many complete requests as the buffer holds,
// publishing one RequestReceivedEvent per request. Pipelined requests
// (several requests already buffered at once) are surfaced one at a time,
// ActionContinue signaling more may be ready without another transport
// read.
func (c *Connection) processH1() (Action, error) {
	req, n, err := h1.ParseRequest(c.inbuf, c.limits())
	if err != nil {
		if h1.IsIncomplete(err) {
			return ActionNeedMore, nil
		}
		return c.rejectH1(err)
	}

	c.inbuf = c.inbuf[n:]
	c.H1.ServedRequests++
	c.H1.KeepAlive = req.KeepAlive()
	if len(c.inbuf) > 0 {
		c.H1.PipelineDepth++
	} else {
		c.H1.PipelineDepth = 0
	}

	if c.events != nil {
		c.events.Publish(RequestReceivedEvent{
			ConnectionID: c.ID,
			Method:       req.Method.String(),
			Target:       req.URI,
			Headers:      req.Headers,
			Body:         req.Body.Bytes(),
		})
	}

	if len(c.inbuf) > 0 {
		return ActionContinue, nil
	}
	return ActionNeedMore, nil
}

// rejectH1 translates a fatal h1 parse error into a best-effort status
// line written straight to the wire (there is no application-level
// request to hand a response through), then closes the connection.
func (c *Connection) rejectH1(err error) (Action, error) {
	c.closeCode = Classify(err)
	status := 400
	if c.closeCode == CodePayloadTooLarge {
		status = 413
	}
	resp := h1.Response{Status: status, Headers: h1.Headers{{Name: "Connection", Value: "close"}}}
	c.outbuf = resp.WriteTo(c.outbuf)
	return c.closeWith(err.Error())
}

// WriteResponse serializes resp onto the connection's write buffer and, if
// the HTTP/1.1 keep-alive decision from the most recently parsed request
// was false, transitions to Closing once queued. Callers (the application
// layer) invoke this synchronously from the owning worker; responses are
// never queued behind a second goroutine.
func (c *Connection) WriteResponse(resp *h1.Response) (Action, error) {
	c.outbuf = resp.WriteTo(c.outbuf)
	if !c.H1.KeepAlive {
		return c.closeWith("response sent, keep-alive false")
	}
	return ActionFlush, nil
}
