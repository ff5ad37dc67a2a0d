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

package utils

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// ConfigHash returns the short content hash embedded in raw-config fetch
// URLs, so a device-side copy command changes whenever the rendered text
// does.
func ConfigHash(config string) string {
	h, _ := blake2b.New(16, nil)
	h.Write([]byte(config))
	return hex.EncodeToString(h.Sum(nil))
}
