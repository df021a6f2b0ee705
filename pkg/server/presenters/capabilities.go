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

package presenters

// Capabilities is the OCS envelope of the server capabilities
type Capabilities struct {
	OCS CapabilitiesOCS `json:"ocs"`
}

// CapabilitiesOCS is the body of the OCS envelope
type CapabilitiesOCS struct {
	Meta OCSMeta          `json:"meta"`
	Data CapabilitiesData `json:"data"`
}

// OCSMeta is the status of an OCS response
type OCSMeta struct {
	Status     string `json:"status"`
	StatusCode int    `json:"statuscode"`
	Message    string `json:"message"`
}

// CapabilitiesData lists the capabilities of the server
type CapabilitiesData struct {
	Version      ServerVersion        `json:"version"`
	Capabilities CapabilitiesSections `json:"capabilities"`
}

// ServerVersion is the version of the server
type ServerVersion struct {
	String string `json:"string"`
}

// CapabilitiesSections are the capabilities of the installed apps
type CapabilitiesSections struct {
	Notes   NotesCapabilities   `json:"notes"`
	Theming ThemingCapabilities `json:"theming"`
}

// NotesCapabilities are the capabilities of the notes app
type NotesCapabilities struct {
	APIVersion []string `json:"api_version"`
	Version    string   `json:"version"`
}

// ThemingCapabilities are the theme colors of the server
type ThemingCapabilities struct {
	Color     string `json:"color"`
	ColorText string `json:"color-text"`
	Name      string `json:"name"`
}

// CapabilitiesParams are the values of a capabilities document
type CapabilitiesParams struct {
	Version     string
	APIVersions []string
	Color       string
	ColorText   string
}

// PresentCapabilities presents the capabilities document
func PresentCapabilities(p CapabilitiesParams) Capabilities {
	return Capabilities{
		OCS: CapabilitiesOCS{
			Meta: OCSMeta{
				Status:     "ok",
				StatusCode: 200,
				Message:    "OK",
			},
			Data: CapabilitiesData{
				Version: ServerVersion{String: p.Version},
				Capabilities: CapabilitiesSections{
					Notes: NotesCapabilities{
						APIVersion: p.APIVersions,
						Version:    p.Version,
					},
					Theming: ThemingCapabilities{
						Color:     p.Color,
						ColorText: p.ColorText,
						Name:      "notesync",
					},
				},
			},
		},
	}
}
