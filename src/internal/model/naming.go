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

package model

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// HashedName derives the naming-table token for an entity from its kind and
// primary key. Identical objects reused across terms must resolve to the
// identical token, so the hash is deterministic across processes.
func HashedName(kind string, id int64) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s:%d", kind, id)
	return fmt.Sprintf("N%d", h.Sum64())
}

// ValidName makes a name safe for use as a filter or term identifier.
func ValidName(name string) string {
	return strings.ReplaceAll(name, " ", "-")
}
