/* Copyright 2025 Dnote Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package client

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
)

const capabilitiesPath = "/ocs/v2.php/cloud/capabilities?format=json"

// Capabilities is the part of the server capabilities the client cares about
type Capabilities struct {
	// APIVersion is the sanitized list of notes API versions. It is empty if
	// the notes app is not installed.
	APIVersion string
	Color      string
	TextColor  string
	ETag       string
}

// capabilitiesResp is the OCS envelope of the capabilities document. Every
// nested field is optional.
type capabilitiesResp struct {
	OCS *struct {
		Meta struct {
			Status     string `json:"status"`
			StatusCode int    `json:"statuscode"`
			Message    string `json:"message"`
		} `json:"meta"`
		Data struct {
			Capabilities struct {
				Notes struct {
					APIVersion json.RawMessage `json:"api_version"`
				} `json:"notes"`
				Theming struct {
					Color     json.RawMessage `json:"color"`
					ColorText json.RawMessage `json:"color-text"`
				} `json:"theming"`
			} `json:"capabilities"`
		} `json:"data"`
	} `json:"ocs"`
}

// rawString returns a JSON string value as is and any other value in its
// JSON form. An absent value is empty.
func rawString(m json.RawMessage) string {
	if len(m) == 0 || string(m) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(m, &s); err == nil {
		return s
	}

	return string(m)
}

// parseCapabilities reads a capabilities document. Only a body that is not a
// JSON object with an "ocs" member is an error.
func parseCapabilities(body []byte) (Capabilities, error) {
	var resp capabilitiesResp
	if err := decode(body, &resp); err != nil {
		return Capabilities{}, err
	}
	if resp.OCS == nil {
		return Capabilities{}, errors.Wrap(ErrMalformedResponse, "missing ocs envelope")
	}

	if resp.OCS.Meta.StatusCode == http.StatusServiceUnavailable {
		return Capabilities{}, &HTTPError{
			StatusCode: http.StatusServiceUnavailable,
			Message:    resp.OCS.Meta.Message,
		}
	}

	c := resp.OCS.Data.Capabilities

	return Capabilities{
		APIVersion: SanitizeAPIVersions(rawString(c.Notes.APIVersion)),
		Color:      rawString(c.Theming.Color),
		TextColor:  rawString(c.Theming.ColorText),
	}, nil
}

// FetchCapabilities fetches the capabilities document. With a non-empty etag
// the request is conditional, and notModified is true if the cached document
// is still current.
func (c *Client) FetchCapabilities(ctx context.Context, etag string) (caps Capabilities, notModified bool, err error) {
	header := http.Header{}
	header.Set("OCS-APIRequest", "true")
	if etag != "" {
		header.Set("If-None-Match", etag)
	}

	res, err := c.do(ctx, http.MethodGet, capabilitiesPath, nil, requestOptions{Header: header, ExpectJSON: true})
	if err != nil {
		return Capabilities{}, false, errors.Wrap(err, "fetching capabilities")
	}
	if res.StatusCode == http.StatusNotModified {
		return Capabilities{}, true, nil
	}

	caps, err = parseCapabilities(res.Body)
	if err != nil {
		return Capabilities{}, false, errors.Wrap(err, "parsing capabilities")
	}
	caps.ETag = res.Header.Get("ETag")

	return caps, false, nil
}
