/*
 *  Copyright (c) 2025, WSO2 LLC. (http://www.wso2.org) All Rights Reserved.
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
 *
 */

package auth

import "testing"

func TestSubstituteFilter(t *testing.T) {
	tests := []struct {
		name     string
		username string
		want     string
	}{
		{"plain", "jdoe", "(uid=jdoe)"},
		{"wildcard", "j*", `(uid=j\2a)`},
		{"parens", "j)(uid=admin", `(uid=j\29\28uid=admin)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := substituteFilter("(uid={username})", tt.username)
			if got != tt.want {
				t.Errorf("substituteFilter(%q) = %q, want %q", tt.username, got, tt.want)
			}
		})
	}
}

func TestSubstituteBindDN(t *testing.T) {
	tests := []struct {
		name     string
		username string
		want     string
	}{
		{"plain", "jdoe", "uid=jdoe,ou=people,dc=example,dc=org"},
		{"comma", "doe,john", `uid=doe\,john,ou=people,dc=example,dc=org`},
		{"extra rdn", "jdoe+cn=admin", `uid=jdoe\+cn=admin,ou=people,dc=example,dc=org`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := substituteBindDN("uid={username},ou=people,dc=example,dc=org", tt.username)
			if got != tt.want {
				t.Errorf("substituteBindDN(%q) = %q, want %q", tt.username, got, tt.want)
			}
		})
	}
}
